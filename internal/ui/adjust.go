package ui

import (
	"math"
	"strconv"
	"strings"

	"liquid-ca/internal/core"
)

// nudge returns the value one step away from current in direction, clamped
// to the control bounds. ok is false when the value cannot move.
func nudge(ctrl core.ParameterControl, current float64, direction int) (next float64, ok bool) {
	if direction == 0 {
		return current, false
	}
	step := ctrl.Step
	switch ctrl.Type {
	case core.ParamTypeInt:
		step = math.Max(1, math.Round(step))
	case core.ParamTypeFloat:
		if step <= 0 {
			step = 0.05
		}
	default:
		return current, false
	}
	next = ctrl.Clamp(current + float64(direction)*step)
	if ctrl.Type == core.ParamTypeInt {
		next = math.Round(next)
	}
	return next, math.Abs(next-current) > 1e-9
}

// formatControlValue renders v with a precision matching the control step.
func formatControlValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func panelTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	return strings.ToUpper(name[:1]) + name[1:] + " Controls"
}
