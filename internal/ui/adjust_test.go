package ui

import (
	"testing"

	"liquid-ca/internal/core"
)

type namedSim struct{ name string }

func (s namedSim) Name() string  { return s.name }
func (namedSim) Size() core.Size { return core.Size{} }
func (namedSim) Reset(int64)     {}
func (namedSim) Step()           {}
func (namedSim) Cells() []uint8  { return nil }

func TestNudgeFloat(t *testing.T) {
	ctrl := core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.25, Min: 0, Max: 1, HasMin: true, HasMax: true}
	if next, ok := nudge(ctrl, 0.5, 1); !ok || next != 0.75 {
		t.Fatalf("expected 0.75, got %g (%v)", next, ok)
	}
	if next, ok := nudge(ctrl, 0.9, 1); !ok || next != 1 {
		t.Fatalf("expected clamp to 1, got %g (%v)", next, ok)
	}
	if _, ok := nudge(ctrl, 1, 1); ok {
		t.Fatal("value at max should not move up")
	}
	if _, ok := nudge(ctrl, 0.5, 0); ok {
		t.Fatal("zero direction should not move")
	}
}

func TestNudgeInt(t *testing.T) {
	ctrl := core.ParameterControl{Type: core.ParamTypeInt, Step: 0, Min: 1, HasMin: true}
	if next, ok := nudge(ctrl, 3, -1); !ok || next != 2 {
		t.Fatalf("expected 2, got %g (%v)", next, ok)
	}
	if _, ok := nudge(ctrl, 1, -1); ok {
		t.Fatal("value at min should not move down")
	}
	if next, ok := nudge(ctrl, 40, 1); !ok || next != 41 {
		t.Fatalf("unbounded max should allow 41, got %g", next)
	}
	if _, ok := nudge(core.ParameterControl{Type: core.ParamTypeBool}, 0, 1); ok {
		t.Fatal("bool controls are not adjustable")
	}
}

func TestFormatControlValue(t *testing.T) {
	cases := []struct {
		ctrl core.ParameterControl
		v    float64
		want string
	}{
		{core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.001}, 0.005, "0.005"},
		{core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.05}, 0.25, "0.25"},
		{core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.5}, 5, "5.0"},
		{core.ParameterControl{Type: core.ParamTypeInt, Step: 1}, 10, "10"},
	}
	for _, tc := range cases {
		if got := formatControlValue(tc.ctrl, tc.v); got != tc.want {
			t.Errorf("format %g step %g: got %q, want %q", tc.v, tc.ctrl.Step, got, tc.want)
		}
	}
}

func TestPanelTitle(t *testing.T) {
	if got := panelTitle(namedSim{"liquid"}); got != "Liquid Controls" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := panelTitle(namedSim{}); got != "Controls" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
