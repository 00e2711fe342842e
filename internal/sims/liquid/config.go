package liquid

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

// Params holds the tunables of the flow model. Values outside sane ranges are
// accepted; the engine stays finite but the resulting behaviour is unspecified.
type Params struct {
	MaxLiquid float32
	MinLiquid float32

	// MaxCompression is the extra liquid a cell may hold over the cell above it.
	MaxCompression float32

	MinFlow float32
	MaxFlow float32

	// FlowSpeed throttles flows larger than MinFlow, in [0, 1].
	FlowSpeed float32

	// SettleTicks is the number of unchanged ticks before a cell freezes.
	SettleTicks int
}

// Config controls grid dimensions, scene selection and scheduling.
type Config struct {
	Width  int
	Height int

	Seed  int64
	Scene string

	// Pour is the amount of liquid added by a single pour edit.
	Pour float32

	Workers   int
	ChunkSize int

	Params Params
}

// DefaultParams returns the stock flow constants.
func DefaultParams() Params {
	return Params{
		MaxLiquid:      1.0,
		MinLiquid:      0.005,
		MaxCompression: 0.25,
		MinFlow:        0.005,
		MaxFlow:        4.0,
		FlowSpeed:      1.0,
		SettleTicks:    10,
	}
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:     80,
		Height:    40,
		Seed:      1337,
		Scene:     SceneBasin,
		Pour:      5,
		Workers:   runtime.GOMAXPROCS(0),
		ChunkSize: 256,
		Params:    DefaultParams(),
	}
}

// Validate reports parameter combinations that make the model meaningless.
// The engine never corrects them.
func (p Params) Validate() error {
	var errs []error
	if p.MaxLiquid <= 0 {
		errs = append(errs, fmt.Errorf("max_liquid must be positive, got %g", p.MaxLiquid))
	}
	if p.MinLiquid < 0 {
		errs = append(errs, fmt.Errorf("min_liquid must not be negative, got %g", p.MinLiquid))
	}
	if p.MinLiquid > p.MaxLiquid {
		errs = append(errs, fmt.Errorf("min_liquid %g exceeds max_liquid %g", p.MinLiquid, p.MaxLiquid))
	}
	if p.MaxCompression < 0 {
		errs = append(errs, fmt.Errorf("max_compression must not be negative, got %g", p.MaxCompression))
	}
	if p.MaxFlow < p.MinFlow {
		errs = append(errs, fmt.Errorf("max_flow %g below min_flow %g", p.MaxFlow, p.MinFlow))
	}
	if p.FlowSpeed < 0 || p.FlowSpeed > 1 {
		errs = append(errs, fmt.Errorf("flow_speed must be within [0,1], got %g", p.FlowSpeed))
	}
	if p.SettleTicks <= 0 {
		errs = append(errs, fmt.Errorf("settle_ticks must be positive, got %d", p.SettleTicks))
	}
	return errors.Join(errs...)
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 3 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 3 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["scene"]; ok && validScene(v) {
		c.Scene = v
	}
	if v, ok := cfg["pour"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed > 0 {
			c.Pour = float32(parsed)
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["chunk"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ChunkSize = parsed
		}
	}
	floats := []struct {
		key string
		dst *float32
	}{
		{"max_liquid", &c.Params.MaxLiquid},
		{"min_liquid", &c.Params.MinLiquid},
		{"max_compression", &c.Params.MaxCompression},
		{"min_flow", &c.Params.MinFlow},
		{"max_flow", &c.Params.MaxFlow},
		{"flow_speed", &c.Params.FlowSpeed},
	}
	for _, f := range floats {
		if v, ok := cfg[f.key]; ok {
			if parsed, err := strconv.ParseFloat(v, 32); err == nil {
				*f.dst = float32(parsed)
			}
		}
	}
	if v, ok := cfg["settle_ticks"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.SettleTicks = parsed
		}
	}
	return c
}
