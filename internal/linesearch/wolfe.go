// Package linesearch implements an inexact line search that brackets a
// step satisfying the weak Wolfe conditions by bisection and expansion.
package linesearch

import (
	"errors"
	"math"
)

const (
	defaultC1       = 1e-3
	defaultC2       = 0.9
	defaultMaxEvals = 50
)

var (
	// ErrNotDescent is returned when the directional derivative at step
	// zero is nonnegative; no line search is possible along such a
	// direction.
	ErrNotDescent = errors.New("linesearch: direction is not a descent direction")
	// ErrBudget is returned when the evaluation budget is exhausted
	// before a Wolfe step is found.
	ErrBudget = errors.New("linesearch: evaluation budget exhausted")
)

// Phi evaluates the one-dimensional restriction of the objective along
// the search direction, returning the value and directional derivative
// at step alpha.
type Phi func(alpha float64) (value, deriv float64)

// Config contains configuration for the search.
type Config struct {
	// C1 is the sufficient-decrease (Armijo) constant, 0 < C1 < C2.
	C1 float64
	// C2 is the curvature constant, C1 < C2 < 1.
	C2 float64
	// MaxEvals bounds the number of Phi evaluations after the initial
	// one at alpha = 0.
	MaxEvals int
}

// Result holds the accepted step and the state of Phi there.
type Result struct {
	Step  float64
	Value float64
	Deriv float64
	Evals int
}

// Search finds a step satisfying the weak Wolfe conditions
//
//	phi(a) <= phi(0) + c1*a*phi'(0)
//	phi'(a) >= c2*phi'(0)
//
// starting from the unit step. A step failing sufficient decrease
// shrinks the bracket from above; a step failing curvature grows it
// from below, doubling while the bracket is unbounded and bisecting
// once it is closed.
func Search(phi Phi, config Config) (*Result, error) {
	if config.C1 <= 0 {
		config.C1 = defaultC1
	}
	if config.C2 <= 0 {
		config.C2 = defaultC2
	}
	if config.MaxEvals <= 0 {
		config.MaxEvals = defaultMaxEvals
	}

	f0, g0 := phi(0)
	if g0 >= 0 {
		return nil, ErrNotDescent
	}

	lo := 0.0
	hi := math.Inf(1)
	alpha := 1.0

	for evals := 1; evals <= config.MaxEvals; evals++ {
		fa, ga := phi(alpha)

		switch {
		case fa > f0+config.C1*alpha*g0:
			// Sufficient decrease failed: the step is too long.
			hi = alpha
			alpha = (lo + hi) / 2
		case ga < config.C2*g0:
			// Curvature failed: the step is too short.
			lo = alpha
			if math.IsInf(hi, 1) {
				alpha = 2 * lo
			} else {
				alpha = (lo + hi) / 2
			}
		default:
			return &Result{Step: alpha, Value: fa, Deriv: ga, Evals: evals}, nil
		}
	}

	return nil, ErrBudget
}
