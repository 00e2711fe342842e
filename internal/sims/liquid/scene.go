package liquid

import "liquid-ca/internal/core"

// Scene names accepted by Config.Scene.
const (
	SceneEmpty   = "empty"
	SceneDroplet = "droplet"
	ScenePool    = "pool"
	SceneBasin   = "basin"
)

// Scenes lists the built-in scenes.
func Scenes() []string {
	return []string{SceneEmpty, SceneDroplet, ScenePool, SceneBasin}
}

func validScene(name string) bool {
	for _, s := range Scenes() {
		if s == name {
			return true
		}
	}
	return false
}

// buildScene populates a freshly reset grid. Edit errors are impossible here
// because every coordinate is drawn from the interior.
func buildScene(g *Grid, name string, p Params, rng *core.RNG) {
	size := g.Size()
	if size.W < 3 || size.H < 3 {
		return
	}
	switch name {
	case SceneDroplet:
		_ = g.SetLiquid(size.W/2, size.H/2, p.MaxLiquid)
	case ScenePool:
		for y := 1; y < size.H-1; y++ {
			_ = g.SetLiquid(1, y, p.MaxLiquid)
		}
	case SceneBasin:
		buildBasin(g, p, rng)
	}
}

const (
	// ledgeGapChance is the probability that a basin ledge has a hole.
	ledgeGapChance = 0.8
	// bodyMinFill is the lowest fill, as a fraction of MaxLiquid, of a
	// basin liquid body.
	bodyMinFill = 0.5
)

// buildBasin scatters ledges, most with a gap, across the upper part of the grid,
// digs a bowl into the floor and drops a few bodies of liquid on top.
func buildBasin(g *Grid, p Params, rng *core.RNG) {
	size := g.Size()
	w, h := size.W, size.H
	interiorW := w - 2

	ledges := rng.IntRange(2, 5)
	for i := 0; i < ledges; i++ {
		y := rng.IntRange(h/4, h-4)
		if y < 2 || y >= h-2 {
			continue
		}
		length := rng.IntRange(interiorW/6, interiorW/2)
		x0 := rng.IntRange(1, max(1, w-1-length))
		gap := -1
		if rng.Chance(ledgeGapChance) {
			gap = rng.IntRange(x0, x0+length-1)
		}
		for x := x0; x < x0+length && x < w-1; x++ {
			if x == gap {
				continue
			}
			_ = g.SetSolid(x, y)
		}
	}

	bowlW := max(3, interiorW/3)
	bowlX := 1 + (interiorW-bowlW)/2
	bowlDepth := min(3, h-3)
	for d := 1; d <= bowlDepth; d++ {
		y := h - 1 - d
		_ = g.SetSolid(bowlX, y)
		_ = g.SetSolid(bowlX+bowlW-1, y)
	}

	bodies := rng.IntRange(1, 3)
	for i := 0; i < bodies; i++ {
		bw := rng.IntRange(2, max(2, interiorW/8))
		bh := rng.IntRange(1, max(1, h/8))
		x0 := rng.IntRange(1, max(1, w-1-bw))
		y0 := rng.IntRange(1, max(1, h/3))
		amount := rng.Float32Range(bodyMinFill*p.MaxLiquid, p.MaxLiquid)
		for y := y0; y < y0+bh && y < h-1; y++ {
			for x := x0; x < x0+bw && x < w-1; x++ {
				_ = g.SetLiquid(x, y, amount)
			}
		}
	}
}
