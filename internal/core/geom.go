// Package core provides the types shared by every front end: semantic input
// actions, runtime settings and card-grid geometry. It contains no external
// dependencies (especially no Bubble Tea) so it stays trivially testable.
package core

// Grid lays Count cells out in rows of Cols, left to right, top to bottom.
// The last row may be short.
type Grid struct {
	Cols  int
	Count int
}

// NewGrid creates a grid. Cols below 1 is treated as 1.
func NewGrid(cols, count int) Grid {
	if cols < 1 {
		cols = 1
	}
	if count < 0 {
		count = 0
	}
	return Grid{Cols: cols, Count: count}
}

// Rows returns the number of rows needed for Count cells.
func (g Grid) Rows() int {
	if g.Count == 0 {
		return 0
	}
	return (g.Count + g.Cols - 1) / g.Cols
}

// Pos returns the column and row of cell i.
func (g Grid) Pos(i int) (col, row int) {
	return i % g.Cols, i / g.Cols
}

// Move returns the cursor after a directional action.
// Moves past an edge stay put; moving down into the gap under a short last
// row lands on the last cell. Non-directional actions only clamp.
func (g Grid) Move(i int, a Action) int {
	if g.Count == 0 {
		return 0
	}
	i = Clamp(i, 0, g.Count-1)
	col, row := g.Pos(i)

	switch a {
	case ActionLeft:
		if col > 0 {
			return i - 1
		}
	case ActionRight:
		if col+1 < g.Cols && i+1 < g.Count {
			return i + 1
		}
	case ActionUp:
		if row > 0 {
			return i - g.Cols
		}
	case ActionDown:
		if i+g.Cols < g.Count {
			return i + g.Cols
		}
		if row+1 < g.Rows() {
			return g.Count - 1
		}
	}
	return i
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
