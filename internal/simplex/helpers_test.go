package simplex

import (
	"math"
	"testing"
)

// mustTableau builds a tableau or fails the test.
func mustTableau(t *testing.T, rows [][]float64) *Tableau {
	t.Helper()
	tab, err := NewTableau(rows)
	if err != nil {
		t.Fatalf("NewTableau: %v", err)
	}
	return tab
}

// assertTableauEqual checks that two tableaux agree entrywise within tol.
func assertTableauEqual(t *testing.T, got, want *Tableau, tol float64) {
	t.Helper()

	gm, gn := got.Dims()
	wm, wn := want.Dims()
	if gm != wm || gn != wn {
		t.Fatalf("tableau dimensions mismatch: got %dx%d, want %dx%d", gm+1, gn+1, wm+1, wn+1)
	}

	for i := 0; i <= gm; i++ {
		for j := 0; j <= gn; j++ {
			g := got.At(i, j)
			w := want.At(i, j)
			if math.Abs(g-w) > tol {
				t.Fatalf("at (%d,%d): got %v, want %v (tolerance %v)", i, j, g, w, tol)
			}
		}
	}
}

// scenarioRows is the worked example used across the driver tests:
// maximize 10x1+12x2+12x3 subject to three resource constraints, with
// the slack identity embedded and the negated costs in the bottom row.
func scenarioRows() [][]float64 {
	return [][]float64{
		{1, 2, 2, 1, 0, 0, 20},
		{2, 1, 2, 0, 1, 0, 20},
		{2, 2, 1, 0, 0, 1, 20},
		{-10, -12, -12, 0, 0, 0, 0},
	}
}
