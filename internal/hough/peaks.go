package hough

import (
	"cmp"
	"slices"
)

// isLocalMax reports whether no cell in the (2n+1)×(2n+1) window around
// (row, col) of a 2D accumulator holds strictly more votes. Rows wrap around,
// columns are clipped at the edges.
func isLocalMax(acc *Accumulator, row, col, n int) bool {
	rows, cols := acc.dims[0], acc.dims[1]
	v := acc.Cells[row*cols+col]
	for dr := -n; dr <= n; dr++ {
		rr := ((row+dr)%rows + rows) % rows
		base := rr * cols
		for dc := -n; dc <= n; dc++ {
			cc := col + dc
			if cc < 0 || cc >= cols {
				continue
			}
			if acc.Cells[base+cc] > v {
				return false
			}
		}
	}
	return true
}

// skipScan walks one (a, b) layer in raster order, a outer and b inner, and
// reports every cell above threshold. After a hit both a and b jump ahead by
// minDistance and the inner scan carries on in the new column.
func skipScan(width, height, threshold, minDistance int, at func(a, b int) int, hit func(a, b, votes int)) {
	for a := 0; a < width; a++ {
		for b := 0; b < height; b++ {
			v := at(a, b)
			if v <= threshold {
				continue
			}
			hit(a, b, v)
			a += minDistance
			b += minDistance
			if a >= width {
				break
			}
		}
	}
}

// suppressAcross keeps detections strongest first and drops any whose center
// lies closer than minDistance to one already kept. The result is ordered by
// (X, Y, Radius).
func suppressAcross(circles []Circle, minDistance int) []Circle {
	ordered := slices.Clone(circles)
	slices.SortStableFunc(ordered, func(p, q Circle) int {
		return cmp.Compare(q.Votes, p.Votes)
	})

	limit := minDistance * minDistance
	kept := make([]Circle, 0, len(ordered))
	for _, c := range ordered {
		near := false
		for _, k := range kept {
			dx, dy := c.X-k.X, c.Y-k.Y
			if dx*dx+dy*dy < limit {
				near = true
				break
			}
		}
		if !near {
			kept = append(kept, c)
		}
	}
	sortCircles(kept)
	return kept
}

func sortCircles(circles []Circle) {
	slices.SortFunc(circles, func(p, q Circle) int {
		if c := cmp.Compare(p.X, q.X); c != 0 {
			return c
		}
		if c := cmp.Compare(p.Y, q.Y); c != 0 {
			return c
		}
		return cmp.Compare(p.Radius, q.Radius)
	})
}
