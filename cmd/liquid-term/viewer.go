package main

import (
	"fmt"
	"time"

	"liquid-ca/internal/core"
	"liquid-ca/internal/sims/liquid"

	"github.com/gdamore/tcell/v2"
)

const (
	statusLines = 1
	frameEvery  = 16 * time.Millisecond
)

// fillGlyphs are lower block elements indexed by eighths of a cell.
var fillGlyphs = []rune(" ▁▂▃▄▅▆▇█")

type viewer struct {
	screen tcell.Screen
	world  *liquid.World
	brush  *core.Brush
	pacer  *core.FixedStep
	styles []tcell.Style

	paused   bool
	tickOnce bool

	buttons  tcell.ButtonMask
	pouring  bool
	pourX    int
	pourY    int
	lastEdit error
}

func newViewer(screen tcell.Screen, world *liquid.World, tps int) *viewer {
	screen.EnableMouse()
	screen.HideCursor()
	v := &viewer{
		screen: screen,
		world:  world,
		brush:  core.NewBrush(world),
		pacer:  core.NewFixedStep(tps),
	}
	for _, c := range world.Palette() {
		col := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
		v.styles = append(v.styles, tcell.StyleDefault.Foreground(col))
	}
	return v
}

func (v *viewer) run() {
	ticker := time.NewTicker(frameEvery)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !v.handle(ev) {
				return
			}
		case <-ticker.C:
			v.advance()
			v.draw()
		}
	}
}

func (v *viewer) advance() {
	n := v.pacer.Due()
	if v.paused {
		n = 0
	}
	if v.tickOnce {
		n, v.tickOnce = 1, false
	}
	for i := 0; i < n; i++ {
		if v.pouring {
			v.edit(v.brush.Pour(v.pourX, v.pourY))
		}
		v.world.Step()
	}
}

func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.paused = !v.paused
		case 'n':
			v.tickOnce = true
		case 'r':
			v.world.Reset(0)
		case 's':
			v.world.Reset(time.Now().UnixNano())
		}
	case *tcell.EventMouse:
		v.mouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// mouse maps button transitions onto the brush. tcell reports the held
// buttons on every event, so presses are detected against the previous mask.
func (v *viewer) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons &^ v.buttons
	v.buttons = buttons

	size := v.world.Size()
	inGrid := x >= 0 && y >= 0 && x < size.W && y < size.H

	switch {
	case buttons&tcell.Button1 == 0:
		v.brush.End()
	case !inGrid:
	case pressed&tcell.Button1 != 0:
		v.edit(v.brush.Begin(x, y))
	default:
		v.edit(v.brush.Drag(x, y))
	}

	v.pouring = inGrid && buttons&tcell.Button2 != 0
	v.pourX, v.pourY = x, y
}

func (v *viewer) edit(err error) {
	v.lastEdit = err
	if err != nil {
		core.Logger().Debug("edit rejected", "err", err)
	}
}

func (v *viewer) draw() {
	v.screen.Clear()
	size := v.world.Size()
	params := v.world.Config().Params
	state := v.world.Grid().Cells()
	display := v.world.Cells()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			i := size.Index(x, y)
			v.screen.SetContent(x, y, glyph(state[i], params), nil, v.style(display[i]))
		}
	}
	v.drawStatus(size.H)
	v.screen.Show()
}

func (v *viewer) style(idx uint8) tcell.Style {
	if int(idx) < len(v.styles) {
		return v.styles[idx]
	}
	return tcell.StyleDefault
}

func (v *viewer) drawStatus(row int) {
	text := statusLine(v.world, v.paused, v.lastEdit)
	style := tcell.StyleDefault.Reverse(true)
	w, _ := v.screen.Size()
	col := 0
	for _, r := range text {
		if col >= w {
			break
		}
		v.screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < w; col++ {
		v.screen.SetContent(col, row, ' ', nil, style)
	}
}

// glyph picks the character for a cell: solid blocks for walls and a block
// element whose height follows the rendered fill level for water.
func glyph(c liquid.Cell, p liquid.Params) rune {
	if c.Kind == liquid.Solid {
		return '█'
	}
	if c.Frame != liquid.FrameWater && c.Liquid <= 0.05*p.MaxLiquid {
		return ' '
	}
	level := int(liquid.FillLevel(c, p)*8 + 0.5)
	if level == 0 && c.Liquid > 0 {
		level = 1
	}
	return fillGlyphs[min(level, len(fillGlyphs)-1)]
}

func statusLine(w *liquid.World, paused bool, lastEdit error) string {
	stats := w.LastTick()
	state := "running"
	if paused {
		state = "paused"
	}
	s := fmt.Sprintf(" %s | tick %d | liquid %.3f | active %d | drained %.4f | [space] pause [n] step [r] reset [s] reseed [q] quit",
		state, w.Grid().Tick(), w.Grid().TotalLiquid(), stats.Active, stats.Drained)
	if lastEdit != nil {
		s += " | " + lastEdit.Error()
	}
	return s
}
