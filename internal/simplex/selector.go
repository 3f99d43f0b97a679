package simplex

// SelectPivot inspects a tableau and decides the next action: optimal,
// unbounded, or a pivot at a (column, row) position. It is a pure read
// and is total over well-formed tableaux.
//
// The entering column is the first column, scanning left to right,
// whose reduced cost is strictly negative. The comparison is exact;
// no tolerance is applied, matching the reference behavior even though
// it can misreport optimality on degenerate inputs. Note this is not
// the Dantzig most-negative rule: the first negative index wins, and
// that choice must not be changed without breaking pivot-sequence
// compatibility.
//
// The leaving row is the constraint row minimizing rhs[i]/t[i][p] over
// rows with t[i][p] > 0; rows with a nonpositive entry cannot bound the
// step. Ties go to the first row reaching the minimum.
func SelectPivot(t *Tableau) PivotDecision {
	m, n := t.Dims()

	entering := -1
	for j := 0; j < n; j++ {
		if t.ReducedCost(j) < 0 {
			entering = j
			break
		}
	}
	if entering < 0 {
		return PivotDecision{Kind: DecideOptimal}
	}

	leaving := -1
	var minRatio float64
	for i := 0; i < m; i++ {
		d := t.At(i, entering)
		if d <= 0 {
			continue
		}
		ratio := t.RHS(i) / d
		if leaving < 0 || ratio < minRatio {
			minRatio = ratio
			leaving = i
		}
	}
	if leaving < 0 {
		return PivotDecision{Kind: DecideUnbounded}
	}

	return PivotDecision{Kind: DecidePivot, Column: entering, Row: leaving}
}
