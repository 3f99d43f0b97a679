package simplex

import "fmt"

// DecisionKind enumerates the three outcomes of pivot selection.
type DecisionKind int

const (
	// DecideOptimal means no reduced cost is strictly negative.
	DecideOptimal DecisionKind = iota
	// DecideUnbounded means an entering column exists but no constraint
	// row can bound the step along it.
	DecideUnbounded
	// DecidePivot means both an entering column and a leaving row were
	// identified.
	DecidePivot
)

// PivotDecision is the outcome of inspecting a tableau: optimal,
// unbounded, or a pivot position. Column and Row are zero-based and
// meaningful only when Kind is DecidePivot, which removes the
// inconsistent (column, row, flag) combinations a nullable-pair
// encoding would allow.
type PivotDecision struct {
	Kind   DecisionKind
	Column int
	Row    int
}

// String returns a compact description of the decision.
func (d PivotDecision) String() string {
	switch d.Kind {
	case DecideOptimal:
		return "optimal"
	case DecideUnbounded:
		return "unbounded"
	case DecidePivot:
		return fmt.Sprintf("pivot(col=%d, row=%d)", d.Column, d.Row)
	default:
		return fmt.Sprintf("decision(%d)", int(d.Kind))
	}
}

// Status is the terminal state of a simplex run.
type Status int

const (
	// StatusOptimal means the final tableau certifies optimality: every
	// reduced cost is nonnegative.
	StatusOptimal Status = iota
	// StatusUnbounded means the objective can improve without limit
	// along some entering column.
	StatusUnbounded
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusUnbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
