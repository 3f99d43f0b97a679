// Package simplex implements the tableau-based simplex algorithm for
// linear optimization: pivot selection, Gauss-Jordan pivoting, and a
// driver that iterates the two until optimality or unboundedness.
package simplex

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// basisTol is the tolerance used when recognizing unit basis columns
// while extracting a basic solution. It is a recognition tolerance only;
// pivoting itself never snaps values.
const basisTol = 1e-9

// Tableau is the dense encoding of a linear program in standard form.
// It has m+1 rows and n+1 columns: rows 0..m-1 are constraint rows and
// row m holds the reduced costs; columns 0..n-1 are variable columns and
// column n holds the right-hand side. Entry (m, n) is the negative of
// the current objective value.
//
// A Tableau is a value: pivoting returns a fresh Tableau and never
// mutates the receiver.
type Tableau struct {
	data *mat.Dense
	m    int // constraint rows
	n    int // variable columns
}

// NewTableau builds a Tableau from row-major data. It returns a
// MalformedTableau error when the input has fewer than 2 rows or
// columns, or when the rows are ragged.
func NewTableau(rows [][]float64) (*Tableau, error) {
	if len(rows) < 2 {
		return nil, NewErrorf(KindMalformedTableau, "need at least 2 rows, got %d", len(rows)).WithOp("NewTableau")
	}
	cols := len(rows[0])
	if cols < 2 {
		return nil, NewErrorf(KindMalformedTableau, "need at least 2 columns, got %d", cols).WithOp("NewTableau")
	}
	data := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		if len(row) != cols {
			return nil, NewErrorf(KindMalformedTableau, "ragged input: row %d has %d entries, want %d", i, len(row), cols).WithOp("NewTableau")
		}
		data.SetRow(i, row)
	}
	return &Tableau{data: data, m: len(rows) - 1, n: cols - 1}, nil
}

// FromDense builds a Tableau from an existing matrix. The matrix is
// copied, so the caller keeps ownership of d.
func FromDense(d *mat.Dense) (*Tableau, error) {
	r, c := d.Dims()
	if r < 2 || c < 2 {
		return nil, NewErrorf(KindMalformedTableau, "need at least 2x2, got %dx%d", r, c).WithOp("FromDense")
	}
	return &Tableau{data: mat.DenseCopyOf(d), m: r - 1, n: c - 1}, nil
}

// Dims returns the number of constraint rows m and variable columns n.
// The underlying matrix is (m+1)x(n+1).
func (t *Tableau) Dims() (m, n int) {
	return t.m, t.n
}

// At returns the entry at row i, column j.
func (t *Tableau) At(i, j int) float64 {
	return t.data.At(i, j)
}

// ReducedCost returns the reduced cost of variable j.
func (t *Tableau) ReducedCost(j int) float64 {
	return t.data.At(t.m, j)
}

// RHS returns the right-hand side of constraint row i.
func (t *Tableau) RHS(i int) float64 {
	return t.data.At(i, t.n)
}

// Objective returns the current objective value, the negation of the
// bottom-right entry.
func (t *Tableau) Objective() float64 {
	return -t.data.At(t.m, t.n)
}

// Clone returns an independent copy of the tableau.
func (t *Tableau) Clone() *Tableau {
	return &Tableau{data: mat.DenseCopyOf(t.data), m: t.m, n: t.n}
}

// Dense returns a copy of the underlying matrix, for callers that need
// to render or post-process the tableau.
func (t *Tableau) Dense() *mat.Dense {
	return mat.DenseCopyOf(t.data)
}

// Rows returns the tableau as row-major slices. The result shares no
// storage with the tableau.
func (t *Tableau) Rows() [][]float64 {
	out := make([][]float64, t.m+1)
	for i := range out {
		out[i] = mat.Row(nil, i, t.data)
	}
	return out
}

// BasicSolution extracts the value of each variable in the basic
// solution the tableau encodes: variables whose column is a unit basis
// vector take the RHS of the row holding the 1, all others are zero.
func (t *Tableau) BasicSolution() []float64 {
	x := make([]float64, t.n)
	for j := 0; j < t.n; j++ {
		if i, ok := t.unitColumn(j); ok {
			x[j] = t.data.At(i, t.n)
		}
	}
	return x
}

// unitColumn reports whether column j is a unit basis vector within
// basisTol, and if so in which constraint row the 1 sits.
func (t *Tableau) unitColumn(j int) (int, bool) {
	row := -1
	for i := 0; i <= t.m; i++ {
		v := t.data.At(i, j)
		switch {
		case math.Abs(v-1) <= basisTol && i < t.m:
			if row >= 0 {
				return -1, false
			}
			row = i
		case math.Abs(v) <= basisTol:
		default:
			return -1, false
		}
	}
	if row < 0 {
		return -1, false
	}
	return row, true
}
