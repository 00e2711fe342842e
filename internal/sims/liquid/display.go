package liquid

import (
	"image/color"
	"math"
)

const (
	displayEmpty     = 0
	displayWall      = 1
	displayWaterBase = 2

	waterLevels      = 8
	compressedLevels = 4

	displayCompressedBase = displayWaterBase + waterLevels
	paletteSize           = displayCompressedBase + compressedLevels
)

// visibleFraction of MaxLiquid above which a cell renders as water even when
// its own frame still says empty (it was filled by a neighbour this tick).
const visibleFraction = 0.05

var liquidPalette = buildLiquidPalette()

// Palette exposes the colour palette indexed by Cells values.
func (w *World) Palette() []color.RGBA {
	return liquidPalette
}

func buildLiquidPalette() []color.RGBA {
	palette := make([]color.RGBA, paletteSize)
	palette[displayEmpty] = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	palette[displayWall] = color.RGBA{R: 120, G: 116, B: 108, A: 255}

	shallow := color.NRGBA{R: 110, G: 190, B: 240, A: 255}
	deep := color.NRGBA{R: 30, G: 90, B: 200, A: 255}
	for i := 0; i < waterLevels; i++ {
		t := float64(i) / float64(waterLevels-1)
		palette[displayWaterBase+i] = toRGBA(blendColors(shallow, deep, t))
	}

	dense := color.NRGBA{R: 10, G: 30, B: 120, A: 255}
	for i := 0; i < compressedLevels; i++ {
		t := float64(i+1) / float64(compressedLevels)
		palette[displayCompressedBase+i] = toRGBA(blendColors(deep, dense, t))
	}
	return palette
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	w := overlayWeight
	inv := 1 - w
	return color.NRGBA{
		R: uint8(float64(base.R)*inv + float64(overlay.R)*w + 0.5),
		G: uint8(float64(base.G)*inv + float64(overlay.G)*w + 0.5),
		B: uint8(float64(base.B)*inv + float64(overlay.B)*w + 0.5),
		A: uint8(float64(base.A)*inv + float64(overlay.A)*w + 0.5),
	}
}

// encodeDisplayValue maps a cell to its palette index. Water height follows
// min(liquid, MaxLiquid); cells fed from above render full.
func encodeDisplayValue(c Cell, p Params) uint8 {
	if c.Kind == Solid {
		return displayWall
	}
	if !(c.Liquid > 0) {
		return displayEmpty
	}
	maxLiquid := float64(p.MaxLiquid)
	if maxLiquid <= 0 {
		maxLiquid = 1
	}
	liquid := float64(c.Liquid)
	if c.Frame != FrameWater && liquid <= visibleFraction*maxLiquid {
		return displayEmpty
	}
	if liquid > maxLiquid {
		over := (liquid - maxLiquid) / maxLiquid
		level := int(over * compressedLevels)
		if level >= compressedLevels {
			level = compressedLevels - 1
		}
		return uint8(displayCompressedBase + level)
	}
	if c.DownFlowing {
		return displayWaterBase + waterLevels - 1
	}
	level := int(math.Ceil(liquid/maxLiquid*waterLevels)) - 1
	if level < 0 {
		level = 0
	}
	if level >= waterLevels {
		level = waterLevels - 1
	}
	return uint8(displayWaterBase + level)
}

// FillLevel returns the rendered water height of a cell in [0, 1].
func FillLevel(c Cell, p Params) float32 {
	if c.Kind == Solid || !(c.Liquid > 0) {
		return 0
	}
	if c.DownFlowing || p.MaxLiquid <= 0 {
		return 1
	}
	return min(c.Liquid/p.MaxLiquid, 1)
}

func (w *World) rebuildDisplay() {
	cells := w.grid.Cells()
	for i := range cells {
		w.display[i] = encodeDisplayValue(cells[i], w.cfg.Params)
	}
}
