package simplex

import (
	"context"
)

// SolverConfig contains configuration for the solver.
type SolverConfig struct {
	// MaxIterations bounds the number of pivots before the solver gives
	// up with a CycleSuspected error. Zero means no bound, matching the
	// reference behavior; degenerate problems can then loop forever, so
	// production callers should set a finite budget.
	MaxIterations int
}

// Result contains the outcome of a simplex run: the terminal tableau,
// the terminal status, and the number of pivots performed.
type Result struct {
	Tableau *Tableau
	Status  Status
	Pivots  int
}

// Solver drives SelectPivot and ApplyPivot in a loop until a terminal
// outcome is reached. It holds no state between runs; the tableau is
// threaded through the loop as a value, replaced once per pivot.
type Solver struct {
	config SolverConfig
}

// NewSolver creates a solver with the given configuration.
func NewSolver(config SolverConfig) *Solver {
	return &Solver{config: config}
}

// Solve runs the simplex loop on the given tableau. The caller
// guarantees the tableau encodes a basic feasible solution in standard
// form; pivoting preserves that invariant.
//
// The context is checked once per iteration, so a cancelled or expired
// context stops the run between pivots. Optimal and Unbounded are both
// valid algorithmic outcomes, returned with a nil error; a non-nil
// error means the run failed structurally (invalid pivot, iteration
// budget exhausted, cancellation).
func (s *Solver) Solve(ctx context.Context, t *Tableau) (*Result, error) {
	if t == nil {
		return nil, NewError(KindMalformedTableau, "nil tableau").WithOp("Solve")
	}

	current := t
	pivots := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		decision := SelectPivot(current)
		switch decision.Kind {
		case DecideOptimal:
			return &Result{Tableau: current, Status: StatusOptimal, Pivots: pivots}, nil
		case DecideUnbounded:
			return &Result{Tableau: current, Status: StatusUnbounded, Pivots: pivots}, nil
		case DecidePivot:
			if s.config.MaxIterations > 0 && pivots >= s.config.MaxIterations {
				return nil, NewErrorf(KindCycleSuspected, "no terminal state after %d pivots", pivots).WithOp("Solve")
			}
			next, err := ApplyPivot(current, decision.Column, decision.Row)
			if err != nil {
				return nil, err
			}
			current = next
			pivots++
		}
	}
}

// Solve runs the simplex loop with reference semantics: no iteration
// bound and no cancellation.
func Solve(t *Tableau) (*Result, error) {
	return NewSolver(SolverConfig{}).Solve(context.Background(), t)
}
