package app

import (
	"flag"
	"log/slog"
	"strconv"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	Seed  int64

	Width    int
	Height   int
	Scene    string
	Pour     float64
	Workers  int
	HUDWidth int
	LogLevel string
}

// NewConfig returns a Config populated with sensible defaults. Zero values
// for the sim-specific fields defer to the sim's own defaults.
func NewConfig() *Config {
	return &Config{Sim: "liquid", Scale: 8, TPS: 60, HUDWidth: 260, LogLevel: "info"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset (0 uses the sim default)")
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells")
	fs.StringVar(&c.Scene, "scene", c.Scene, "initial scene")
	fs.Float64Var(&c.Pour, "pour", c.Pour, "liquid added per tick while pouring")
	fs.IntVar(&c.Workers, "workers", c.Workers, "tick worker goroutines")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "log level: debug, info, warn or error")
}

// SimConfig converts the sim-specific flags into the key/value map accepted
// by core factories. Unset flags are omitted.
func (c *Config) SimConfig() map[string]string {
	m := map[string]string{}
	if c.Width > 0 {
		m["w"] = strconv.Itoa(c.Width)
	}
	if c.Height > 0 {
		m["h"] = strconv.Itoa(c.Height)
	}
	if c.Seed != 0 {
		m["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	if c.Scene != "" {
		m["scene"] = c.Scene
	}
	if c.Pour > 0 {
		m["pour"] = strconv.FormatFloat(c.Pour, 'f', -1, 64)
	}
	if c.Workers > 0 {
		m["workers"] = strconv.Itoa(c.Workers)
	}
	return m
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
