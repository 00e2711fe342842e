package core

type brushMode int

const (
	brushIdle brushMode = iota
	brushPaint
	brushErase
)

// Brush turns mouse gestures into editor calls. A stroke paints walls unless
// it starts on a wall, in which case it erases.
type Brush struct {
	ed   Editor
	mode brushMode

	lastX, lastY int
	hasLast      bool
}

// NewBrush returns an idle brush editing ed.
func NewBrush(ed Editor) *Brush {
	return &Brush{ed: ed}
}

// Begin starts a stroke at (x, y).
func (b *Brush) Begin(x, y int) error {
	b.mode = brushPaint
	if b.ed.IsSolid(x, y) {
		b.mode = brushErase
	}
	b.hasLast = false
	return b.Drag(x, y)
}

// Drag extends the current stroke; repeated calls on the same cell are no-ops.
func (b *Brush) Drag(x, y int) error {
	if b.mode == brushIdle {
		return nil
	}
	if b.hasLast && b.lastX == x && b.lastY == y {
		return nil
	}
	b.lastX, b.lastY, b.hasLast = x, y, true
	if b.mode == brushErase {
		return b.ed.Erase(x, y)
	}
	return b.ed.PaintSolid(x, y)
}

// End finishes the stroke.
func (b *Brush) End() {
	b.mode = brushIdle
	b.hasLast = false
}

// Pour adds liquid at (x, y); it is independent of any stroke.
func (b *Brush) Pour(x, y int) error {
	return b.ed.Pour(x, y)
}
