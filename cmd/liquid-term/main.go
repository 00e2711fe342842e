package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"liquid-ca/internal/core"
	"liquid-ca/internal/sims/liquid"

	"github.com/gdamore/tcell/v2"
	"github.com/integrii/flaggy"
)

type options struct {
	width   int
	height  int
	scene   string
	seed    int64
	tps     int
	pour    float64
	workers int
	logPath string
}

func main() {
	opts := parseOptions()

	if opts.logPath != "" {
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		core.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	termW, termH := screen.Size()
	cfg := liquid.FromMap(opts.simConfig(termW, termH-statusLines))
	world := liquid.NewWithConfig(cfg)
	world.Reset(0)

	v := newViewer(screen, world, opts.tps)
	v.run()
	screen.Fini()
}

func parseOptions() options {
	opts := options{scene: liquid.SceneBasin, tps: 30}
	flaggy.SetName("liquid-term")
	flaggy.SetDescription("Terminal viewer for the liquid cellular automaton")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&opts.width, "x", "width", "Grid width in cells (default: terminal width)")
	flaggy.Int(&opts.height, "y", "height", "Grid height in cells (default: terminal height)")
	flaggy.String(&opts.scene, "s", "scene", "Initial scene [empty|droplet|pool|basin]")
	flaggy.Int64(&opts.seed, "r", "seed", "Scene seed")
	flaggy.Int(&opts.tps, "t", "tps", "Simulation ticks per second")
	flaggy.Float64(&opts.pour, "p", "pour", "Liquid added per tick while the right button is held")
	flaggy.Int(&opts.workers, "w", "workers", "Tick worker goroutines")
	flaggy.String(&opts.logPath, "l", "log", "Write debug logs to this file")
	flaggy.Parse()
	return opts
}

// simConfig fills the sim config map, fitting the grid to the terminal when
// no explicit size was requested.
func (o options) simConfig(termW, termH int) map[string]string {
	w, h := o.width, o.height
	if w <= 0 {
		w = termW
	}
	if h <= 0 {
		h = termH
	}
	m := map[string]string{
		"w":     strconv.Itoa(w),
		"h":     strconv.Itoa(h),
		"scene": o.scene,
	}
	if o.seed != 0 {
		m["seed"] = strconv.FormatInt(o.seed, 10)
	}
	if o.pour > 0 {
		m["pour"] = strconv.FormatFloat(o.pour, 'f', -1, 64)
	}
	if o.workers > 0 {
		m["workers"] = strconv.Itoa(o.workers)
	}
	return m
}
