package liquid

import "liquid-ca/internal/core"

// Kind distinguishes cells that can hold liquid from impassable ones.
type Kind uint8

const (
	Empty Kind = iota
	Solid
)

// Frame is the display state a renderer derives its sprite from.
type Frame uint8

const (
	FrameEmpty Frame = iota
	FrameWater
	FrameWall
)

func (f Frame) String() string {
	switch f {
	case FrameEmpty:
		return "empty"
	case FrameWater:
		return "water"
	case FrameWall:
		return "wall"
	default:
		return "unknown"
	}
}

// Cell is the persistent per-cell state published after every tick.
type Cell struct {
	Kind   Kind
	Liquid float32
	Links  core.Links

	Settled     bool
	SettleCount int32

	// DownFlowing is a rendering hint: the cell is being fed from above.
	DownFlowing bool
	Frame       Frame
}

// Outflow is the per-tick scratch record produced by phase one for a single
// cell. Only the owning cell writes it; the cell itself and its four
// neighbours read it during phase two.
type Outflow struct {
	Self   float32
	Bottom float32
	Top    float32
	Left   float32
	Right  float32

	// Drained is the sub-threshold remainder discarded this tick.
	Drained float32
	mark    mark
}

type mark uint8

const (
	markNone mark = iota
	markEmpty
	markWater
)

// Toward returns the flow sent to the neighbour in direction d.
func (o *Outflow) Toward(d core.Dir) float32 {
	switch d {
	case core.Top:
		return o.Top
	case core.Bottom:
		return o.Bottom
	case core.Left:
		return o.Left
	case core.Right:
		return o.Right
	}
	return 0
}

func (o *Outflow) send(d core.Dir, amount float32) {
	o.Self -= amount
	switch d {
	case core.Top:
		o.Top += amount
	case core.Bottom:
		o.Bottom += amount
	case core.Left:
		o.Left += amount
	case core.Right:
		o.Right += amount
	}
}

// Net returns the sum of the outflow deltas. Without draining it is zero.
func (o Outflow) Net() float32 {
	return o.Self + o.Bottom + o.Top + o.Left + o.Right
}

func (c *Cell) wake() {
	c.Settled = false
	c.SettleCount = 0
}
