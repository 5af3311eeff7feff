package assign

// Result is the outcome of resolving one cost matrix under a threshold.
type Result struct {
	// Matched holds accepted assignments, ordered by row.
	Matched []Assignment
	// UnmatchedRows holds rows left without an accepted partner, ascending.
	UnmatchedRows []int
	// UnmatchedCols holds columns left without an accepted partner, ascending.
	UnmatchedCols []int
}

// Resolve finds the optimal assignment for costs and then accepts every
// assigned pair whose cost is at most threshold. Rejected pairs, and rows
// or columns the solver left unassigned, are reported as unmatched.
//
// The threshold is applied after solving, never inside the optimization:
// rejecting an expensive pair does not free its row or column for another
// partner.
func Resolve(costs [][]float64, threshold float64) (Result, error) {
	rows, cols, err := dimensions(costs)
	if err != nil {
		return Result{}, err
	}

	if rows == 1 && cols == 1 {
		if costs[0][0] > threshold {
			return Result{UnmatchedRows: []int{0}, UnmatchedCols: []int{0}}, nil
		}
		return Result{Matched: []Assignment{{Row: 0, Col: 0, Cost: costs[0][0]}}}, nil
	}

	assignments, err := Solve(costs)
	if err != nil {
		return Result{}, err
	}

	rowDone := make([]bool, rows)
	colDone := make([]bool, cols)

	var res Result
	for _, a := range assignments {
		if a.Cost > threshold {
			continue
		}
		res.Matched = append(res.Matched, a)
		rowDone[a.Row] = true
		colDone[a.Col] = true
	}

	for i, done := range rowDone {
		if !done {
			res.UnmatchedRows = append(res.UnmatchedRows, i)
		}
	}
	for j, done := range colDone {
		if !done {
			res.UnmatchedCols = append(res.UnmatchedCols, j)
		}
	}

	return res, nil
}
