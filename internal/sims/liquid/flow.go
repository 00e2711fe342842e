package liquid

import "liquid-ca/internal/core"

// verticalTarget returns how much of the combined liquid a and b the lower of
// two stacked cells should hold, allowing it MaxCompression more than the
// upper one.
func verticalTarget(a, b float32, p *Params) float32 {
	sum := a + b
	switch {
	case sum <= p.MaxLiquid:
		return p.MaxLiquid
	case sum < 2*p.MaxLiquid+p.MaxCompression:
		return (p.MaxLiquid*p.MaxLiquid + sum*p.MaxCompression) / (p.MaxLiquid + p.MaxCompression)
	default:
		return (sum + p.MaxCompression) / 2
	}
}

// constrain clamps a flow to [0, min(MaxFlow, remaining)]. NaN maps to 0.
func constrain(flow, remaining float32, p *Params) float32 {
	limit := p.MaxFlow
	if remaining < limit {
		limit = remaining
	}
	if flow > limit {
		flow = limit
	}
	if !(flow > 0) {
		return 0
	}
	return flow
}

// calculate fills out[i] with the outgoing flows of cell i against the
// read-only snapshot cur. It writes nothing but out[i].
func calculate(i int, cur []Cell, out []Outflow, p *Params) {
	c := &cur[i]
	if c.Kind == Solid || c.Liquid == 0 || c.Settled {
		out[i] = Outflow{}
		return
	}
	if c.Liquid < p.MinLiquid {
		out[i] = Outflow{Self: -c.Liquid, Drained: c.Liquid, mark: markEmpty}
		return
	}

	var o Outflow
	remaining := c.Liquid

	// Bottom, Left, Right, Top. The order matters: each attempt sees what
	// the previous ones left behind.
	for _, d := range [...]core.Dir{core.Bottom, core.Left, core.Right, core.Top} {
		if !c.Links.Has(d) {
			continue
		}
		n := c.Links[d]
		if cur[n].Kind == Solid {
			continue
		}
		nl := cur[n].Liquid

		var flow float32
		switch d {
		case core.Bottom:
			flow = verticalTarget(remaining, nl, p) - nl
		case core.Top:
			flow = remaining - verticalTarget(remaining, nl, p)
		case core.Left:
			flow = (remaining - nl) / 4
		case core.Right:
			flow = (remaining - nl) / 3
		}

		vertical := d == core.Bottom || d == core.Top
		if flow > p.MinFlow && (!vertical || nl > 0) {
			flow *= p.FlowSpeed
		}
		flow = constrain(flow, remaining, p)

		if flow != 0 {
			remaining -= flow
			o.send(d, flow)
		}

		if remaining < p.MinLiquid {
			o.Self -= remaining
			o.Drained = remaining
			o.mark = markEmpty
			out[i] = o
			return
		}
	}

	o.mark = markWater
	out[i] = o
}
