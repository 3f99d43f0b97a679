package simplex

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// pivotEps is the smallest pivot magnitude accepted by ApplyPivot.
// Dividing by anything smaller would flood the tableau with NaN/Inf.
var pivotEps = math.Nextafter(1, 2) - 1

// ApplyPivot performs a Gauss-Jordan pivot on the element at (row,
// column) and returns the resulting tableau. The input tableau is not
// modified.
//
// It returns an InvalidPivot error when row or column is out of range
// or when the pivot element's magnitude is below machine epsilon; a
// rejected pivot indicates either a defect in pivot selection or a
// malformed external tableau, and is never retried.
//
// All arithmetic is plain float64; near-zero residuals are left as-is
// rather than snapped to zero.
func ApplyPivot(t *Tableau, column, row int) (*Tableau, error) {
	m, n := t.Dims()
	if row < 0 || row >= m {
		return nil, NewErrorf(KindInvalidPivot, "row %d out of range [0,%d)", row, m).WithOp("ApplyPivot")
	}
	if column < 0 || column >= n {
		return nil, NewErrorf(KindInvalidPivot, "column %d out of range [0,%d)", column, n).WithOp("ApplyPivot")
	}
	pivotValue := t.At(row, column)
	if math.Abs(pivotValue) < pivotEps {
		return nil, NewErrorf(KindInvalidPivot, "pivot element %g at (%d,%d) below machine epsilon", pivotValue, row, column).WithOp("ApplyPivot")
	}

	next := mat.DenseCopyOf(t.data)

	// Normalize the pivot row first; every other row then eliminates its
	// entry in the pivot column against the normalized row.
	pivotRow := mat.Row(nil, row, next)
	for j := range pivotRow {
		pivotRow[j] /= pivotValue
	}
	next.SetRow(row, pivotRow)

	for i := 0; i <= m; i++ {
		if i == row {
			continue
		}
		factor := next.At(i, column)
		if factor == 0 {
			continue
		}
		for j := 0; j <= n; j++ {
			next.Set(i, j, next.At(i, j)-factor*pivotRow[j])
		}
	}

	return &Tableau{data: next, m: m, n: n}, nil
}
