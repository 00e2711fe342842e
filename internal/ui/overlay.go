//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"liquid-ca/internal/core"
	"liquid-ca/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type settledFieldProvider interface {
	SettledField() []bool
}

type pressureFieldProvider interface {
	PressureField() []float32
}

type flowFieldProvider interface {
	FlowVectorAt(x, y float64) (float64, float64)
}

// Overlay draws optional debugging layers on top of the liquid view.
// Keys 1-3 toggle the settled mask, compression heat and flow arrows.
type Overlay struct {
	sim   core.Sim
	scale int

	showSettled  bool
	showPressure bool
	showFlow     bool

	painter *render.GridPainter
	pixel   *ebiten.Image

	samples      []flowSample
	sampleW      int
	sampleH      int
	sampleScale  int
	samplePixels float64
}

type flowSample struct {
	cx, cy float64
	sx, sy float64
}

var (
	settledTint  = color.RGBA{R: 25, G: 62, B: 34, A: 70}
	pressureTint = color.RGBA{R: 255, G: 120, B: 40}
)

// NewOverlay constructs an overlay for sim drawn at the given pixel scale.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	o := &Overlay{sim: sim, scale: scale}
	o.painter = render.NewGridPainter(size.W, size.H)
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showSettled = !o.showSettled
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showPressure = !o.showPressure
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showFlow = !o.showFlow
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.Cells() == 0 {
		return
	}
	scale := max(o.scale, 1)
	if o.showSettled {
		if p, ok := o.sim.(settledFieldProvider); ok {
			o.painter.BlitFlags(screen, p.SettledField(), settledTint, scale)
		}
	}
	if o.showPressure {
		if p, ok := o.sim.(pressureFieldProvider); ok {
			o.painter.BlitMask(screen, p.PressureField(), pressureTint, scale)
		}
	}
	if o.showFlow {
		if p, ok := o.sim.(flowFieldProvider); ok {
			o.drawFlow(screen, p, size, scale)
		}
	}
}

func (o *Overlay) drawFlow(screen *ebiten.Image, provider flowFieldProvider, size core.Size, scale int) {
	if !o.ensureSamples(size, scale) {
		return
	}
	const (
		calmThreshold = 0.002
		maxFlow       = 1.0
		headAngle     = math.Pi / 6
	)
	span := o.samplePixels
	minLength := span * 0.3
	maxLength := span * 0.9

	for _, s := range o.samples {
		vx, vy := provider.FlowVectorAt(s.cx, s.cy)
		speed := math.Hypot(vx, vy)
		if speed < calmThreshold {
			continue
		}
		nx, ny := vx/speed, vy/speed
		t := clamp01(speed / maxFlow)
		length := minLength + (maxLength-minLength)*math.Sqrt(t)
		head := math.Min(length*0.35, float64(scale)*3)
		tipX := s.sx + nx*length*0.5
		tipY := s.sy + ny*length*0.5
		tailX := s.sx - nx*length*0.5
		tailY := s.sy - ny*length*0.5
		thickness := math.Max(1, float64(scale)*(0.4+0.4*t))
		col := flowColor(t)

		o.drawLine(screen, tailX, tailY, tipX, tipY, thickness, col)
		angle := math.Atan2(ny, nx)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*head, tipY-math.Sin(angle+headAngle)*head, thickness, col)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*head, tipY-math.Sin(angle-headAngle)*head, thickness, col)
	}
}

// ensureSamples caches cell-centre sample points, spaced so arrows stay
// readable at small scales.
func (o *Overlay) ensureSamples(size core.Size, scale int) bool {
	if o.sampleW == size.W && o.sampleH == size.H && o.sampleScale == scale && len(o.samples) > 0 {
		return true
	}
	spacing := max(1, (12+scale-1)/scale)
	o.samples = o.samples[:0]
	for y := spacing / 2; y < size.H; y += spacing {
		for x := spacing / 2; x < size.W; x += spacing {
			cx, cy := float64(x)+0.5, float64(y)+0.5
			o.samples = append(o.samples, flowSample{cx: cx, cy: cy, sx: cx * float64(scale), sy: cy * float64(scale)})
		}
	}
	o.sampleW, o.sampleH, o.sampleScale = size.W, size.H, scale
	o.samplePixels = float64(spacing * scale)
	return len(o.samples) > 0
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.Color) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func flowColor(t float64) color.NRGBA {
	t = clamp01(t)
	return color.NRGBA{
		R: uint8(math.Round(230 + 25*t)),
		G: uint8(math.Round(230 - 90*t)),
		B: uint8(math.Round(240 - 200*t)),
		A: uint8(math.Round(140 + 100*t)),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
