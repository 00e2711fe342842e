package core

import (
	"errors"
	"fmt"
	"testing"
)

var errBorder = errors.New("border")

type recordingEditor struct {
	solid map[[2]int]bool
	calls []string
}

func newRecordingEditor() *recordingEditor {
	return &recordingEditor{solid: map[[2]int]bool{}}
}

func (e *recordingEditor) IsSolid(x, y int) bool { return e.solid[[2]int{x, y}] }

func (e *recordingEditor) PaintSolid(x, y int) error {
	if x == 0 {
		return errBorder
	}
	e.solid[[2]int{x, y}] = true
	e.calls = append(e.calls, fmt.Sprintf("paint %d,%d", x, y))
	return nil
}

func (e *recordingEditor) Erase(x, y int) error {
	delete(e.solid, [2]int{x, y})
	e.calls = append(e.calls, fmt.Sprintf("erase %d,%d", x, y))
	return nil
}

func (e *recordingEditor) Pour(x, y int) error {
	e.calls = append(e.calls, fmt.Sprintf("pour %d,%d", x, y))
	return nil
}

func TestBrushPaintStroke(t *testing.T) {
	ed := newRecordingEditor()
	b := NewBrush(ed)
	if err := b.Begin(2, 2); err != nil {
		t.Fatal(err)
	}
	// The stroke keeps painting even over cells that are already walls.
	_ = b.Drag(2, 2)
	_ = b.Drag(3, 2)
	_ = b.Drag(3, 2)
	b.End()
	_ = b.Drag(4, 2)

	want := []string{"paint 2,2", "paint 3,2"}
	if fmt.Sprint(ed.calls) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", ed.calls, want)
	}
}

func TestBrushEraseStroke(t *testing.T) {
	ed := newRecordingEditor()
	ed.solid[[2]int{5, 5}] = true
	b := NewBrush(ed)
	_ = b.Begin(5, 5)
	_ = b.Drag(5, 6)
	b.End()

	want := []string{"erase 5,5", "erase 5,6"}
	if fmt.Sprint(ed.calls) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", ed.calls, want)
	}
}

func TestBrushPourAndErrors(t *testing.T) {
	ed := newRecordingEditor()
	b := NewBrush(ed)
	if err := b.Pour(1, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Pour(1, 1); err != nil {
		t.Fatal(err)
	}
	if len(ed.calls) != 2 {
		t.Fatalf("pouring repeats on the same cell, got %v", ed.calls)
	}
	if err := b.Begin(0, 3); !errors.Is(err, errBorder) {
		t.Fatalf("expected border error, got %v", err)
	}
}
