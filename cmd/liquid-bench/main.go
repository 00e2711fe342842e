package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"time"

	"liquid-ca/internal/core"
	"liquid-ca/internal/sims/liquid"

	"github.com/integrii/flaggy"
	"github.com/logrusorgru/aurora"
)

type options struct {
	width   int
	height  int
	scene   string
	seed    int64
	ticks   int
	chunk   int
	workers []int

	sweep    bool
	speeds   []float64
	parallel int
	verbose  bool

	params paramFlags
}

// paramFlags mirrors liquid.Params with the flag-friendly types.
type paramFlags struct {
	maxLiquid      float64
	minLiquid      float64
	maxCompression float64
	minFlow        float64
	maxFlow        float64
	flowSpeed      float64
	settleTicks    int
}

func defaultParamFlags() paramFlags {
	p := liquid.DefaultParams()
	return paramFlags{
		maxLiquid:      float64(p.MaxLiquid),
		minLiquid:      float64(p.MinLiquid),
		maxCompression: float64(p.MaxCompression),
		minFlow:        float64(p.MinFlow),
		maxFlow:        float64(p.MaxFlow),
		flowSpeed:      float64(p.FlowSpeed),
		settleTicks:    p.SettleTicks,
	}
}

func (f paramFlags) params() liquid.Params {
	return liquid.Params{
		MaxLiquid:      float32(f.maxLiquid),
		MinLiquid:      float32(f.minLiquid),
		MaxCompression: float32(f.maxCompression),
		MinFlow:        float32(f.minFlow),
		MaxFlow:        float32(f.maxFlow),
		FlowSpeed:      float32(f.flowSpeed),
		SettleTicks:    f.settleTicks,
	}
}

type benchResult struct {
	workers  int
	elapsed  time.Duration
	checksum uint64
	liquid   float64
	drained  float64
}

func main() {
	opts := parseOptions()
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := benchConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, aurora.Red(err.Error()))
		os.Exit(1)
	}

	if opts.sweep {
		runSweep(cfg, opts)
		return
	}
	runBench(cfg, opts)
}

func parseOptions() options {
	opts := options{
		width:    256,
		height:   128,
		scene:    liquid.SceneBasin,
		seed:     1337,
		ticks:    500,
		parallel: runtime.NumCPU(),
		params:   defaultParamFlags(),
	}
	flaggy.SetName("liquid-bench")
	flaggy.SetDescription("Headless benchmark and settle sweep for the liquid automaton")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&opts.width, "x", "width", "Grid width in cells")
	flaggy.Int(&opts.height, "y", "height", "Grid height in cells")
	flaggy.String(&opts.scene, "s", "scene", "Scene [empty|droplet|pool|basin]")
	flaggy.Int64(&opts.seed, "r", "seed", "Scene seed")
	flaggy.Int(&opts.ticks, "t", "ticks", "Ticks per run (sweep: upper bound)")
	flaggy.Int(&opts.chunk, "c", "chunk", "Cells per work chunk")
	flaggy.IntSlice(&opts.workers, "w", "workers", "Worker counts to compare (repeatable)")
	flaggy.Bool(&opts.sweep, "", "sweep", "Measure ticks-to-settle across flow speeds instead")
	flaggy.Float64Slice(&opts.speeds, "f", "speed", "Flow speeds for --sweep (repeatable)")
	flaggy.Int(&opts.parallel, "p", "parallel", "Concurrent scenarios for --sweep")
	flaggy.Bool(&opts.verbose, "v", "verbose", "Debug logging")
	flaggy.Float64(&opts.params.maxLiquid, "", "max-liquid", "Liquid held by a full uncompressed cell")
	flaggy.Float64(&opts.params.minLiquid, "", "min-liquid", "Cells below this amount are drained")
	flaggy.Float64(&opts.params.maxCompression, "", "max-compression", "Extra liquid a cell holds per cell above it")
	flaggy.Float64(&opts.params.minFlow, "", "min-flow", "Flows above this are scaled by the flow speed")
	flaggy.Float64(&opts.params.maxFlow, "", "max-flow", "Upper bound on a single flow")
	flaggy.Float64(&opts.params.flowSpeed, "", "flow-speed", "Flow speed in [0, 1]")
	flaggy.Int(&opts.params.settleTicks, "", "settle-ticks", "Unchanged ticks before a cell freezes")
	flaggy.Parse()

	// Slice flags append, so defaults are filled in only when none were given.
	if len(opts.workers) == 0 {
		opts.workers = []int{1, 2, 4, runtime.NumCPU()}
	}
	if len(opts.speeds) == 0 {
		opts.speeds = []float64{1, 0.8, 0.6, 0.4, 0.2}
	}
	if err := checkOptions(opts); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	return opts
}

func checkOptions(opts options) error {
	if !slices.Contains(liquid.Scenes(), opts.scene) {
		return fmt.Errorf("unknown scene %s", opts.scene)
	}
	for _, w := range opts.workers {
		if w <= 0 {
			return fmt.Errorf("worker count must be positive, got %d", w)
		}
	}
	if opts.parallel <= 0 {
		return fmt.Errorf("parallel must be positive, got %d", opts.parallel)
	}
	if opts.ticks < 0 {
		return errors.New("ticks must not be negative")
	}
	return nil
}

// benchConfig builds the scenario config shared by every run.
func benchConfig(opts options) (liquid.Config, error) {
	cfg := liquid.DefaultConfig()
	cfg.Width, cfg.Height = opts.width, opts.height
	cfg.Scene = opts.scene
	cfg.Seed = opts.seed
	if opts.chunk > 0 {
		cfg.ChunkSize = opts.chunk
	}
	cfg.Params = opts.params.params()
	if err := cfg.Params.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid params: %w", err)
	}
	return cfg, nil
}

func runBench(cfg liquid.Config, opts options) {
	fmt.Printf("Benchmarking %s %dx%d for %d ticks\n",
		aurora.Cyan(cfg.Scene), cfg.Width, cfg.Height, opts.ticks)

	var results []benchResult
	for _, workers := range opts.workers {
		c := cfg
		c.Workers = workers
		results = append(results, benchOnce(c, opts.ticks))
	}
	if len(results) == 0 {
		return
	}

	ref := results[0]
	mismatch := false
	for _, r := range results {
		perTick := r.elapsed / time.Duration(max(opts.ticks, 1))
		speedup := float64(ref.elapsed) / float64(max(r.elapsed, 1))
		hash := aurora.Green(fmt.Sprintf("%016x", r.checksum))
		if r.checksum != ref.checksum {
			hash = aurora.Red(fmt.Sprintf("%016x", r.checksum))
			mismatch = true
		}
		fmt.Printf("  workers=%-3d %10s/tick  x%.2f  liquid=%.4f  drained=%.4f  state=%s\n",
			r.workers, perTick.Round(time.Microsecond), speedup, r.liquid, r.drained, hash)
	}
	if mismatch {
		fmt.Println(aurora.Red("State diverged between worker counts"))
		os.Exit(1)
	}
	fmt.Println(aurora.Green("All worker counts produced identical state"))
}

func benchOnce(cfg liquid.Config, ticks int) benchResult {
	world := liquid.NewWithConfig(cfg)
	world.Reset(cfg.Seed)
	var drained float64
	start := time.Now()
	for i := 0; i < ticks; i++ {
		world.Step()
		drained += world.LastTick().Drained
	}
	elapsed := time.Since(start)
	return benchResult{
		workers:  cfg.Workers,
		elapsed:  elapsed,
		checksum: world.Grid().Checksum(),
		liquid:   world.Grid().TotalLiquid(),
		drained:  drained,
	}
}

func runSweep(cfg liquid.Config, opts options) {
	speeds := make([]float32, len(opts.speeds))
	for i, s := range opts.speeds {
		speeds[i] = float32(s)
	}
	fmt.Printf("Sweeping %d flow speeds on %s %dx%d (%d parallel, up to %d ticks)\n",
		len(speeds), aurora.Cyan(cfg.Scene), cfg.Width, cfg.Height, opts.parallel, opts.ticks)

	start := time.Now()
	results := liquid.SweepFlowSpeed(cfg, speeds, opts.ticks, opts.parallel)
	elapsed := time.Since(start)

	slices.SortStableFunc(results, func(a, b liquid.SettleResult) int {
		return settleKey(a) - settleKey(b)
	})
	for _, r := range results {
		settled := aurora.Green(fmt.Sprintf("settled at %d", r.SettledAt))
		if r.SettledAt < 0 {
			settled = aurora.Yellow(fmt.Sprintf("active after %d", r.StepsSimulated))
		}
		fmt.Printf("  speed=%.2f  %s  peak active=%d  drained=%.4f  liquid %.4f -> %.4f\n",
			r.FlowSpeed, settled, r.PeakActive, r.Drained, r.InitialLiquid, r.FinalLiquid)
	}
	fmt.Printf("Elapsed %s\n", elapsed.Round(time.Millisecond))
}

// settleKey orders runs that never settled after every run that did.
func settleKey(r liquid.SettleResult) int {
	if r.SettledAt < 0 {
		return int(^uint(0) >> 2)
	}
	return r.SettledAt
}
