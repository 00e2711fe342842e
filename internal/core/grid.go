package core

// Dir names one of the four axis-aligned neighbour slots of a cell.
type Dir uint8

const (
	Top Dir = iota
	Bottom
	Left
	Right
)

// NoNeighbor marks a missing neighbour at the grid edge.
const NoNeighbor int32 = -1

// Links holds the neighbour indices of one cell, indexed by Dir.
type Links [4]int32

// None returns links with every slot empty.
func None() Links {
	return Links{NoNeighbor, NoNeighbor, NoNeighbor, NoNeighbor}
}

// Has reports whether the slot d points at a cell.
func (l Links) Has(d Dir) bool { return l[d] != NoNeighbor }

// Opposite returns the direction pointing back at the cell.
func (d Dir) Opposite() Dir {
	switch d {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Dir) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "invalid"
	}
}

// RectLinks builds the static neighbour table for a w*h rectangle stored in
// row-major order with y growing downward. Links are symmetric: if a's Bottom
// is b then b's Top is a.
func RectLinks(w, h int) []Links {
	if w <= 0 || h <= 0 {
		return nil
	}
	links := make([]Links, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := None()
			idx := y*w + x
			if y > 0 {
				l[Top] = int32(idx - w)
			}
			if y < h-1 {
				l[Bottom] = int32(idx + w)
			}
			if x > 0 {
				l[Left] = int32(idx - 1)
			}
			if x < w-1 {
				l[Right] = int32(idx + 1)
			}
			links[idx] = l
		}
	}
	return links
}

// Index returns the linear slice index for coordinates (x, y).
func (s Size) Index(x, y int) int { return y*s.W + x }

// Coords converts a linear index back to (x, y).
func (s Size) Coords(idx int) (int, int) {
	if s.W <= 0 {
		return 0, 0
	}
	return idx % s.W, idx / s.W
}

// Contains reports whether (x, y) lies inside the grid.
func (s Size) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.W && y < s.H
}

// Border reports whether (x, y) lies on the outermost ring of the grid.
func (s Size) Border(x, y int) bool {
	return x == 0 || y == 0 || x == s.W-1 || y == s.H-1
}
