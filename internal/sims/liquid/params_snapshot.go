package liquid

import (
	"liquid-ca/internal/core"
)

// Parameters reports the current configuration for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	p := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", w.cfg.Width),
				core.IntParam("h", "Height", w.cfg.Height),
				core.Int64Param("seed", "Seed", w.cfg.Seed),
				{Key: "scene", Label: "Scene", Value: w.cfg.Scene},
				core.FloatParam("pour", "Pour amount", float64(w.cfg.Pour)),
			},
		},
		{
			Name: "Flow",
			Params: []core.Parameter{
				core.FloatParam("max_liquid", "Max liquid", float64(p.MaxLiquid)),
				core.FloatParam("min_liquid", "Min liquid", float64(p.MinLiquid)),
				core.FloatParam("max_compression", "Max compression", float64(p.MaxCompression)),
				core.FloatParam("min_flow", "Min flow", float64(p.MinFlow)),
				core.FloatParam("max_flow", "Max flow", float64(p.MaxFlow)),
				core.FloatParam("flow_speed", "Flow speed", float64(p.FlowSpeed)),
				core.IntParam("settle_ticks", "Settle ticks", p.SettleTicks),
			},
		},
		{
			Name: "Scheduling",
			Params: []core.Parameter{
				core.IntParam("workers", "Workers", w.engine.Workers()),
				core.IntParam("chunk", "Chunk size", w.engine.ChunkSize()),
			},
		},
		{
			Name: "Tick",
			Params: []core.Parameter{
				core.Int64Param("tick", "Tick", int64(w.grid.Tick())),
				core.FloatParam("total_liquid", "Total liquid", w.grid.TotalLiquid()),
				core.IntParam("active", "Active cells", w.stats.Active),
				core.FloatParam("drained", "Drained last tick", w.stats.Drained),
				core.BoolParam("at_rest", "At rest", w.grid.Tick() > 0 && w.stats.Active == 0),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "flow_speed", Label: "Flow speed", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "max_compression", Label: "Compression", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "min_flow", Label: "Min flow", Type: core.ParamTypeFloat, Step: 0.001, Min: 0, Max: 0.1, HasMin: true, HasMax: true},
		{Key: "max_flow", Label: "Max flow", Type: core.ParamTypeFloat, Step: 0.1, Min: 0.1, Max: 8, HasMin: true, HasMax: true},
		{Key: "min_liquid", Label: "Min liquid", Type: core.ParamTypeFloat, Step: 0.001, Min: 0, Max: 0.1, HasMin: true, HasMax: true},
		{Key: "pour", Label: "Pour", Type: core.ParamTypeFloat, Step: 0.5, Min: 0.5, Max: 20, HasMin: true, HasMax: true},
		{Key: "settle_ticks", Label: "Settle ticks", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 120, HasMin: true, HasMax: true},
		{Key: "workers", Label: "Workers", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 64, HasMin: true, HasMax: true},
	}
}

func (w *World) control(key string) (core.ParameterControl, bool) {
	for _, c := range w.ParameterControls() {
		if c.Key == key {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

// SetFloatParameter updates a float tunable, clamped to its control bounds.
// Flow changes wake every cell since the old equilibrium no longer holds.
func (w *World) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := w.control(key)
	if !ok || ctrl.Type != core.ParamTypeFloat {
		return false
	}
	v := float32(ctrl.Clamp(value))
	switch key {
	case "flow_speed":
		w.cfg.Params.FlowSpeed = v
	case "max_compression":
		w.cfg.Params.MaxCompression = v
	case "min_flow":
		w.cfg.Params.MinFlow = v
	case "max_flow":
		w.cfg.Params.MaxFlow = v
	case "min_liquid":
		w.cfg.Params.MinLiquid = v
	case "pour":
		w.cfg.Pour = v
		return true
	default:
		return false
	}
	w.grid.WakeAll()
	core.Logger().Debug("liquid parameter changed", "key", key, "value", v)
	return true
}

// SetIntParameter updates an integer tunable, clamped to its control bounds.
func (w *World) SetIntParameter(key string, value int) bool {
	ctrl, ok := w.control(key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	v := int(ctrl.Clamp(float64(value)))
	switch key {
	case "settle_ticks":
		w.cfg.Params.SettleTicks = v
		w.grid.WakeAll()
	case "workers":
		w.cfg.Workers = v
		w.engine = NewEngine(v, w.cfg.ChunkSize)
	default:
		return false
	}
	core.Logger().Debug("liquid parameter changed", "key", key, "value", v)
	return true
}
