package liquid

import (
	"golang.org/x/sync/errgroup"
)

// SettleResult records how a scene behaved when run to rest.
type SettleResult struct {
	FlowSpeed float32

	StepsSimulated int
	// SettledAt is the first tick with no active cell, or -1.
	SettledAt int

	InitialLiquid float64
	FinalLiquid   float64
	Drained       float64
	PeakActive    int
}

// MeasureSettle runs cfg's scene for up to steps ticks, stopping early once
// every cell is settled or dry.
func MeasureSettle(cfg Config, steps int) SettleResult {
	world := NewWithConfig(cfg)
	world.Reset(cfg.Seed)
	grid := world.Grid()

	res := SettleResult{
		FlowSpeed:     cfg.Params.FlowSpeed,
		SettledAt:     -1,
		InitialLiquid: grid.TotalLiquid(),
	}
	for step := 0; step < steps; step++ {
		world.Step()
		stats := world.LastTick()
		res.StepsSimulated++
		res.Drained += stats.Drained
		if stats.Active > res.PeakActive {
			res.PeakActive = stats.Active
		}
		if stats.Active == 0 {
			res.SettledAt = int(stats.Tick)
			break
		}
	}
	res.FinalLiquid = grid.TotalLiquid()
	return res
}

// SweepFlowSpeed measures cfg once per flow speed, running up to workers
// scenarios at a time. Results keep the order of speeds.
func SweepFlowSpeed(cfg Config, speeds []float32, steps, workers int) []SettleResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]SettleResult, len(speeds))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, speed := range speeds {
		g.Go(func() error {
			c := cfg
			c.Workers = 1
			c.Params.FlowSpeed = speed
			results[i] = MeasureSettle(c, steps)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
