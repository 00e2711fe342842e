package liquid

import (
	"math"

	"liquid-ca/internal/core"
)

// apply folds the phase-one outflows of cell i and its neighbours into the
// cell's new state. cur and flow are read-only during the call.
func apply(i int, cur []Cell, flow []Outflow, p *Params) Cell {
	c := cur[i]
	if c.Kind == Solid {
		return c
	}

	// Inflow is summed in Dir order: top, bottom, left, right.
	liquid := c.Liquid + flow[i].Self
	for d := core.Top; d <= core.Right; d++ {
		if c.Links.Has(d) {
			liquid += flow[c.Links[d]].Toward(d.Opposite())
		}
	}
	if !(liquid > 0) {
		liquid = 0
	}

	if liquid == c.Liquid && c.Liquid != 0 {
		if c.SettleCount < math.MaxInt32 {
			c.SettleCount++
		}
		c.Settled = int(c.SettleCount) >= p.SettleTicks
	} else {
		c.Settled = false
		c.SettleCount = 0
	}

	c.DownFlowing = false
	if c.Liquid > p.MinLiquid {
		if c.Links.Has(core.Top) {
			top := &cur[c.Links[core.Top]]
			c.DownFlowing = top.Kind != Solid && top.Liquid > p.MinLiquid
		}
	}

	switch flow[i].mark {
	case markEmpty:
		c.Frame = FrameEmpty
	case markWater:
		c.Frame = FrameWater
	}

	c.Liquid = liquid
	return c
}
