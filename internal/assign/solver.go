// Package assign solves minimum-cost bipartite assignment problems and
// resolves them into matched and unmatched elements under a threshold.
package assign

import (
	"fmt"
	"math"
	"sort"

	"github.com/helixir/author-match/internal/domain"
)

// Assignment pairs row Row with column Col of a cost matrix.
type Assignment struct {
	Row  int
	Col  int
	Cost float64
}

// Solve returns the one-to-one assignment of minimum total cost for a
// rectangular cost matrix. Exactly min(rows, cols) pairs are returned,
// ordered by row. Ragged matrices and non-finite costs are rejected with
// domain.ErrInvalidMatrix.
//
// The implementation is the shortest augmenting path form of the Hungarian
// method with row and column potentials, O(n²m) for n <= m.
func Solve(costs [][]float64) ([]Assignment, error) {
	rows, cols, err := dimensions(costs)
	if err != nil {
		return nil, err
	}
	if rows == 0 || cols == 0 {
		return nil, nil
	}

	transposed := rows > cols
	a := costs
	if transposed {
		a = transpose(costs, rows, cols)
		rows, cols = cols, rows
	}

	colOwner := hungarian(a, rows, cols)

	out := make([]Assignment, 0, rows)
	for j := 1; j <= cols; j++ {
		if colOwner[j] == 0 {
			continue
		}
		r, c := colOwner[j]-1, j-1
		if transposed {
			r, c = c, r
		}
		out = append(out, Assignment{Row: r, Col: c, Cost: costs[r][c]})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out, nil
}

// TotalCost sums the cost of every assignment.
func TotalCost(assignments []Assignment) float64 {
	total := 0.0
	for _, a := range assignments {
		total += a.Cost
	}
	return total
}

// hungarian requires n <= m. It returns, for every 1-based column, the
// 1-based row assigned to it or 0.
func hungarian(a [][]float64, n, m int) []int {
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	owner := make([]int, m+1)
	way := make([]int, m+1)
	minv := make([]float64, m+1)
	used := make([]bool, m+1)

	for i := 1; i <= n; i++ {
		owner[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := owner[j0]
			delta := math.Inf(1)
			j1 := 0

			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := a[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= m; j++ {
				if used[j] {
					u[owner[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if owner[j0] == 0 {
				break
			}
		}

		// Flip the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			owner[j0] = owner[j1]
			j0 = j1
		}
	}

	return owner
}

func dimensions(costs [][]float64) (rows, cols int, err error) {
	rows = len(costs)
	if rows == 0 {
		return 0, 0, nil
	}
	cols = len(costs[0])
	for i, row := range costs {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("%w: row %d has %d columns, want %d", domain.ErrInvalidMatrix, i, len(row), cols)
		}
		for j, c := range row {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return 0, 0, fmt.Errorf("%w: non-finite cost %v at (%d, %d)", domain.ErrInvalidMatrix, c, i, j)
			}
		}
	}
	return rows, cols, nil
}

func transpose(costs [][]float64, rows, cols int) [][]float64 {
	t := make([][]float64, cols)
	for j := range t {
		t[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			t[j][i] = costs[i][j]
		}
	}
	return t
}
