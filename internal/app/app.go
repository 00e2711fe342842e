//go:build ebiten

package app

import (
	"image/color"
	"time"

	"liquid-ca/internal/core"
	"liquid-ca/internal/render"
	"liquid-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var binaryPalette = []color.RGBA{
	{A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	brush   *core.Brush
	palette []color.RGBA

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale, hudWidth int, seed int64) *Game {
	size := sim.Size()
	g := &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(sim, scale),
		scale:    max(scale, 1),
		hudWidth: max(hudWidth, 0),
		seed:     seed,
		palette:  binaryPalette,
	}
	if g.hudWidth > 0 {
		g.hud = ui.NewHUD(sim, g.hudWidth)
	}
	if p, ok := sim.(core.PaletteProvider); ok {
		g.palette = p.Palette()
	}
	if ed, ok := sim.(core.Editor); ok {
		g.brush = core.NewBrush(ed)
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	core.Logger().Info("reset", "sim", g.sim.Name(), "seed", seed)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.overlay.Update()
	g.hud.Update(g.gridPixelsW())
	g.handleMouse()

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// handleMouse applies edits between ticks. The left button strokes walls,
// the right button pours while held.
func (g *Game) handleMouse() {
	if g.brush == nil {
		return
	}
	mx, my := ebiten.CursorPosition()
	x, y := mx/g.scale, my/g.scale
	inGrid := mx >= 0 && my >= 0 && mx < g.gridPixelsW()

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.brush.End()
	}
	if inGrid {
		switch {
		case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
			g.logEdit("stroke", x, y, g.brush.Begin(x, y))
		case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
			g.logEdit("stroke", x, y, g.brush.Drag(x, y))
		}
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
			g.logEdit("pour", x, y, g.brush.Pour(x, y))
		}
	}
}

func (g *Game) logEdit(op string, x, y int, err error) {
	if err != nil {
		core.Logger().Debug("edit rejected", "op", op, "x", x, "y", y, "err", err)
	}
}

func (g *Game) gridPixelsW() int { return g.sim.Size().W * g.scale }

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.gridPixelsW(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
