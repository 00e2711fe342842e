package liquid

import (
	"math"
	"testing"
)

const eps = 1e-6

func near(a, b float32) bool {
	return math.Abs(float64(a)-float64(b)) <= eps
}

// boxed returns a 5x5 grid whose centre cell has the listed neighbours solid.
func boxed(t *testing.T, solid ...[2]int) (*Grid, int) {
	t.Helper()
	g := NewGrid(5, 5)
	for _, s := range solid {
		if err := g.SetSolid(2+s[0], 2+s[1]); err != nil {
			t.Fatalf("set solid: %v", err)
		}
	}
	return g, g.Index(2, 2)
}

var (
	above = [2]int{0, -1}
	below = [2]int{0, 1}
	left  = [2]int{-1, 0}
	right = [2]int{1, 0}
)

func TestVerticalTargetBranches(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		a, b, want float32
	}{
		{0.3, 0.2, 1.0},
		{1.0, 0.0, 1.0},
		{1.0, 0.5, 1.1},
		{2.0, 1.0, 1.625},
		{0.0, 4.0, 2.125},
	}
	for _, tc := range cases {
		if got := verticalTarget(tc.a, tc.b, &p); !near(got, tc.want) {
			t.Errorf("verticalTarget(%g, %g) = %g, want %g", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCalculateSkipsInertCells(t *testing.T) {
	p := DefaultParams()
	g, idx := boxed(t)

	cases := map[string]func(c *Cell){
		"solid":   func(c *Cell) { c.Kind = Solid },
		"dry":     func(c *Cell) { c.Liquid = 0 },
		"settled": func(c *Cell) { c.Liquid = 0.7; c.Settled = true },
	}
	for name, mutate := range cases {
		g.Reset()
		mutate(&g.cur[idx])
		g.flow[idx] = Outflow{Self: 9, Bottom: 9, Drained: 9, mark: markWater}
		calculate(idx, g.cur, g.flow, &p)
		if g.flow[idx] != (Outflow{}) {
			t.Fatalf("%s cell should produce no outflow, got %+v", name, g.flow[idx])
		}
	}
}

func TestCalculateDrainsDust(t *testing.T) {
	p := DefaultParams()
	g, idx := boxed(t)
	g.cur[idx].Liquid = 0.001

	calculate(idx, g.cur, g.flow, &p)
	o := g.flow[idx]
	if o.Self != -0.001 || o.Drained != 0.001 {
		t.Fatalf("dust cell should drain itself, got %+v", o)
	}
	if o.Bottom != 0 || o.Top != 0 || o.Left != 0 || o.Right != 0 {
		t.Fatalf("dust cell must not feed neighbours, got %+v", o)
	}
	if o.mark != markEmpty {
		t.Fatalf("dust cell should be marked empty, got %v", o.mark)
	}
}

func TestCalculateFallsIntoEmptyCellBelow(t *testing.T) {
	p := DefaultParams()
	g, idx := boxed(t)
	g.cur[idx].Liquid = 1

	calculate(idx, g.cur, g.flow, &p)
	o := g.flow[idx]
	if o.Bottom != 1 || o.Self != -1 {
		t.Fatalf("expected the whole droplet to fall, got %+v", o)
	}
	if o.Left != 0 || o.Right != 0 || o.Top != 0 {
		t.Fatalf("nothing should be left for the other directions, got %+v", o)
	}
}

func TestCalculateStopsOnceBelowMinLiquid(t *testing.T) {
	p := DefaultParams()
	g, idx := boxed(t)
	g.cur[idx].Liquid = 0.006

	calculate(idx, g.cur, g.flow, &p)
	o := g.flow[idx]
	if o.Bottom != 0.006 {
		t.Fatalf("expected 0.006 to fall, got %+v", o)
	}
	if o.Left != 0 || o.Right != 0 {
		t.Fatalf("empty side neighbours must not be attempted after exhaustion, got %+v", o)
	}
	if o.mark != markEmpty {
		t.Fatalf("exhausted cell should be marked empty, got %v", o.mark)
	}
}

func TestCalculateHorizontalDivisors(t *testing.T) {
	p := DefaultParams()

	g, idx := boxed(t, below, right, above)
	g.cur[idx].Liquid = 1
	calculate(idx, g.cur, g.flow, &p)
	if o := g.flow[idx]; !near(o.Left, 0.25) || o.Right != 0 {
		t.Fatalf("left flow should be a quarter of the difference, got %+v", o)
	}

	g, idx = boxed(t, below, left, above)
	g.cur[idx].Liquid = 1
	calculate(idx, g.cur, g.flow, &p)
	if o := g.flow[idx]; !near(o.Right, 1.0/3) || o.Left != 0 {
		t.Fatalf("right flow should be a third of the difference, got %+v", o)
	}

	g, idx = boxed(t, below)
	g.cur[idx].Liquid = 1
	calculate(idx, g.cur, g.flow, &p)
	o := g.flow[idx]
	if !near(o.Left, 0.25) || !near(o.Right, 0.25) || o.Top != 0 {
		t.Fatalf("expected 0.25 each side and nothing up, got %+v", o)
	}
	if !near(o.Self, -0.5) || o.mark != markWater {
		t.Fatalf("expected self -0.5 marked water, got %+v", o)
	}
}

func TestCalculatePushesCompressedLiquidUp(t *testing.T) {
	p := DefaultParams()
	g, idx := boxed(t, below, left, right)
	g.cur[idx].Liquid = 2

	calculate(idx, g.cur, g.flow, &p)
	o := g.flow[idx]
	if !near(o.Top, 0.8) || !near(o.Self, -0.8) {
		t.Fatalf("expected 0.8 pushed up, got %+v", o)
	}
}

func TestCalculateRespectsMaxFlow(t *testing.T) {
	p := DefaultParams()
	p.MaxFlow = 0.1
	g, idx := boxed(t, left, right, above)
	g.cur[idx].Liquid = 1

	calculate(idx, g.cur, g.flow, &p)
	if o := g.flow[idx]; !near(o.Bottom, 0.1) {
		t.Fatalf("bottom flow should be capped at MaxFlow, got %+v", o)
	}
}

func TestCalculateThrottlesIntoWetCells(t *testing.T) {
	p := DefaultParams()
	p.FlowSpeed = 0.5

	g, idx := boxed(t, left, right, above)
	g.cur[idx].Liquid = 1
	g.cur[g.Index(2, 3)].Liquid = 0.5
	calculate(idx, g.cur, g.flow, &p)
	if o := g.flow[idx]; !near(o.Bottom, 0.3) {
		t.Fatalf("expected throttled flow 0.3 into wet cell, got %+v", o)
	}

	g, idx = boxed(t, left, right, above)
	g.cur[idx].Liquid = 1
	calculate(idx, g.cur, g.flow, &p)
	if o := g.flow[idx]; o.Bottom != 1 {
		t.Fatalf("flow into a dry cell is not throttled, got %+v", o)
	}
}

// Upward pressure flow is throttled only when the cell above already holds
// liquid, the same rule as downward flow.
func TestCalculateThrottlesUpwardOnlyIntoWetCells(t *testing.T) {
	p := DefaultParams()
	p.FlowSpeed = 0.5

	g, idx := boxed(t, below, left, right)
	g.cur[idx].Liquid = 1.5
	calculate(idx, g.cur, g.flow, &p)
	if o := g.flow[idx]; !near(o.Top, 0.4) {
		t.Fatalf("expected unthrottled 0.4 into a dry cell above, got %+v", o)
	}

	g, idx = boxed(t, below, left, right)
	g.cur[idx].Liquid = 1.5
	g.cur[g.Index(2, 1)].Liquid = 0.2
	calculate(idx, g.cur, g.flow, &p)
	if o := g.flow[idx]; !near(o.Top, 0.18) {
		t.Fatalf("expected throttled 0.18 into a wet cell above, got %+v", o)
	}
}

func TestCalculateNeverNegativeOnEqualLevels(t *testing.T) {
	p := DefaultParams()
	g, idx := boxed(t, below)
	for _, x := range []int{1, 2, 3} {
		g.cur[g.Index(x, 2)].Liquid = 0.5
	}
	calculate(idx, g.cur, g.flow, &p)
	o := g.flow[idx]
	if o.Left < 0 || o.Right < 0 || o.Top < 0 || o.Bottom < 0 {
		t.Fatalf("flows must be non-negative, got %+v", o)
	}
	if o.Left != 0 || o.Right != 0 {
		t.Fatalf("level neighbours should not exchange liquid, got %+v", o)
	}
}
