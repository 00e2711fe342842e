package liquid

import (
	"math"

	"liquid-ca/internal/core"
)

// World adapts a Grid and an Engine to the core.Sim contract and carries the
// configuration edited by the HUD.
type World struct {
	cfg Config

	grid   *Grid
	engine *Engine
	stats  TickStats

	display  []uint8
	settled  []bool
	pressure []float32
}

// New returns a liquid simulation with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a liquid world configured from the provided options.
func NewWithConfig(cfg Config) *World {
	if err := cfg.Params.Validate(); err != nil {
		core.Logger().Warn("liquid params out of range; behaviour unspecified", "err", err)
	}
	grid := NewGrid(cfg.Width, cfg.Height)
	cfg.Width, cfg.Height = grid.Size().W, grid.Size().H
	w := &World{
		cfg:      cfg,
		grid:     grid,
		engine:   NewEngine(cfg.Workers, cfg.ChunkSize),
		display:  make([]uint8, grid.Len()),
		settled:  make([]bool, grid.Len()),
		pressure: make([]float32, grid.Len()),
	}
	core.Logger().Debug("liquid world created",
		"w", cfg.Width, "h", cfg.Height,
		"workers", w.engine.Workers(), "chunk", w.engine.ChunkSize())
	w.rebuildDisplay()
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "liquid" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return w.grid.Size() }

// Cells exposes the palette-indexed display buffer.
func (w *World) Cells() []uint8 { return w.display }

// Grid exposes the underlying cell store.
func (w *World) Grid() *Grid { return w.grid }

// Config returns a copy of the active configuration.
func (w *World) Config() Config { return w.cfg }

// LastTick returns the statistics of the most recent Step.
func (w *World) LastTick() TickStats { return w.stats }

// Reset rebuilds the configured scene. A zero seed falls back to the
// configured one so repeated resets are reproducible.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.grid.Reset()
	buildScene(w.grid, w.cfg.Scene, w.cfg.Params, core.NewRNG(effective))
	w.stats = TickStats{}
	w.rebuildDisplay()
	core.Logger().Debug("liquid world reset",
		"scene", w.cfg.Scene, "seed", effective, "liquid", w.grid.TotalLiquid())
}

// Step advances the simulation by one tick.
func (w *World) Step() {
	w.stats = w.engine.Step(w.grid, w.cfg.Params)
	w.rebuildDisplay()
}

// IsSolid reports whether (x, y) is a wall. Coordinates outside the grid
// count as solid.
func (w *World) IsSolid(x, y int) bool {
	return w.grid.At(x, y).Kind == Solid
}

// PaintSolid turns (x, y) into a wall.
func (w *World) PaintSolid(x, y int) error {
	return w.afterEdit(w.grid.SetSolid(x, y))
}

// Erase clears (x, y) back to an empty dry cell.
func (w *World) Erase(x, y int) error {
	return w.afterEdit(w.grid.Clear(x, y))
}

// Pour adds the configured pour amount at (x, y).
func (w *World) Pour(x, y int) error {
	return w.afterEdit(w.grid.AddLiquid(x, y, w.cfg.Pour))
}

func (w *World) afterEdit(err error) error {
	if err != nil {
		return err
	}
	w.rebuildDisplay()
	return nil
}

// SettledField reports, per cell, whether the cell is frozen.
func (w *World) SettledField() []bool {
	cells := w.grid.Cells()
	for i := range cells {
		w.settled[i] = cells[i].Settled
	}
	return w.settled
}

// PressureField returns liquid held above MaxLiquid per cell, normalised by
// MaxCompression.
func (w *World) PressureField() []float32 {
	cells := w.grid.Cells()
	p := w.cfg.Params
	for i := range cells {
		over := cells[i].Liquid - p.MaxLiquid
		if over <= 0 || p.MaxCompression <= 0 {
			w.pressure[i] = 0
			continue
		}
		w.pressure[i] = min(over/p.MaxCompression, 1)
	}
	return w.pressure
}

// FlowVectorAt returns the net outflow of the cell containing (x, y) during
// the last tick, with y growing downward. Settled and solid cells report zero.
func (w *World) FlowVectorAt(x, y float64) (float64, float64) {
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	size := w.grid.Size()
	if !size.Contains(cx, cy) {
		return 0, 0
	}
	o := w.grid.Outflows()[size.Index(cx, cy)]
	return float64(o.Right - o.Left), float64(o.Bottom - o.Top)
}

func init() {
	core.Register("liquid", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c)
	})
}
