package liquid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"

	"liquid-ca/internal/core"
)

var (
	// ErrOutOfBounds is returned for edits outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrBorderCell is returned for edits to the solid outer ring.
	ErrBorderCell = errors.New("border cells are not editable")
	// ErrNegativeAmount is returned when a liquid edit would go below zero.
	ErrNegativeAmount = errors.New("liquid amount must not be negative")
)

// Grid is the fixed-size cell store. It owns two cell buffers, swapped on
// every tick, and the scratch outflow buffer shared by both phases.
type Grid struct {
	size core.Size

	cur  []Cell
	nxt  []Cell
	flow []Outflow

	tick uint64
}

// NewGrid builds a w*h grid of empty cells enclosed by a solid border.
func NewGrid(w, h int) *Grid {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	size := core.Size{W: w, H: h}
	g := &Grid{
		size: size,
		cur:  make([]Cell, size.Cells()),
		nxt:  make([]Cell, size.Cells()),
		flow: make([]Outflow, size.Cells()),
	}
	links := core.RectLinks(w, h)
	for i := range g.cur {
		g.cur[i].Links = links[i]
	}
	g.Reset()
	return g
}

// Reset empties every interior cell and restores the solid border.
func (g *Grid) Reset() {
	for i := range g.cur {
		x, y := g.size.Coords(i)
		links := g.cur[i].Links
		if g.size.Border(x, y) {
			g.cur[i] = Cell{Kind: Solid, Links: links, Frame: FrameWall}
		} else {
			g.cur[i] = Cell{Kind: Empty, Links: links, Frame: FrameEmpty}
		}
		g.flow[i] = Outflow{}
	}
	copy(g.nxt, g.cur)
	g.tick = 0
}

// Size reports the grid dimensions.
func (g *Grid) Size() core.Size { return g.size }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cur) }

// Tick returns the number of published ticks since the last Reset.
func (g *Grid) Tick() uint64 { return g.tick }

// Cells exposes the published state. Callers must treat it as read-only;
// edits go through the Grid methods so settle state stays consistent.
func (g *Grid) Cells() []Cell { return g.cur }

// Outflows exposes the scratch buffer of the most recent tick.
func (g *Grid) Outflows() []Outflow { return g.flow }

// Index returns the linear index of (x, y).
func (g *Grid) Index(x, y int) int { return g.size.Index(x, y) }

// At returns the cell at (x, y). Out of range coordinates yield a zero Solid cell.
func (g *Grid) At(x, y int) Cell {
	if !g.size.Contains(x, y) {
		return Cell{Kind: Solid, Links: core.None(), Frame: FrameWall}
	}
	return g.cur[g.size.Index(x, y)]
}

// TotalLiquid sums the liquid of every cell.
func (g *Grid) TotalLiquid() float64 {
	var total float64
	for i := range g.cur {
		total += float64(g.cur[i].Liquid)
	}
	return total
}

// Checksum hashes the simulated state of every cell (kind, liquid bits and
// settle state). Equal checksums across runs indicate identical evolution.
func (g *Grid) Checksum() uint64 {
	h := fnv.New64a()
	var buf [10]byte
	for i := range g.cur {
		c := &g.cur[i]
		buf[0] = byte(c.Kind)
		binary.LittleEndian.PutUint32(buf[1:5], math.Float32bits(c.Liquid))
		binary.LittleEndian.PutUint32(buf[5:9], uint32(c.SettleCount))
		buf[9] = 0
		if c.Settled {
			buf[9] = 1
		}
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// SetSolid turns the cell into a wall, discarding its liquid.
func (g *Grid) SetSolid(x, y int) error {
	return g.edit(x, y, func(c *Cell) {
		c.Kind = Solid
		c.Liquid = 0
		c.DownFlowing = false
		c.Frame = FrameWall
	})
}

// Clear turns the cell into an empty, dry cell.
func (g *Grid) Clear(x, y int) error {
	return g.edit(x, y, func(c *Cell) {
		c.Kind = Empty
		c.Liquid = 0
		c.DownFlowing = false
		c.Frame = FrameEmpty
	})
}

// AddLiquid makes the cell passable and adds amount to it.
func (g *Grid) AddLiquid(x, y int, amount float32) error {
	if amount < 0 {
		return fmt.Errorf("add %g at (%d,%d): %w", amount, x, y, ErrNegativeAmount)
	}
	return g.edit(x, y, func(c *Cell) {
		c.Kind = Empty
		c.Liquid += amount
		c.Frame = FrameWater
	})
}

// SetLiquid makes the cell passable and sets its liquid to amount.
func (g *Grid) SetLiquid(x, y int, amount float32) error {
	if amount < 0 {
		return fmt.Errorf("set %g at (%d,%d): %w", amount, x, y, ErrNegativeAmount)
	}
	return g.edit(x, y, func(c *Cell) {
		c.Kind = Empty
		c.Liquid = amount
		if amount > 0 {
			c.Frame = FrameWater
		} else {
			c.Frame = FrameEmpty
		}
	})
}

// WakeAll clears the settle state of every cell so the next tick recomputes
// the whole grid.
func (g *Grid) WakeAll() {
	for i := range g.cur {
		g.cur[i].wake()
	}
}

func (g *Grid) edit(x, y int, fn func(*Cell)) error {
	if !g.size.Contains(x, y) {
		return fmt.Errorf("edit (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	if g.size.Border(x, y) {
		return fmt.Errorf("edit (%d,%d): %w", x, y, ErrBorderCell)
	}
	idx := g.size.Index(x, y)
	c := &g.cur[idx]
	fn(c)
	c.wake()
	for d := core.Top; d <= core.Right; d++ {
		if c.Links.Has(d) {
			g.cur[c.Links[d]].wake()
		}
	}
	return nil
}
