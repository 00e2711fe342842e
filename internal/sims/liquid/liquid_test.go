package liquid

import (
	"errors"
	"math"
	"slices"
	"testing"

	"liquid-ca/internal/core"
)

func TestResetDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 40, 24
	cfg.Seed = 99
	world := NewWithConfig(cfg)

	world.Reset(0)
	initial := slices.Clone(world.Grid().Cells())
	initialDisplay := slices.Clone(world.Cells())
	if world.Grid().TotalLiquid() == 0 {
		t.Fatal("basin scene should place liquid")
	}

	for i := 0; i < 5; i++ {
		world.Step()
	}
	world.Reset(0)
	if !slices.Equal(initial, world.Grid().Cells()) {
		t.Fatal("Reset with config seed not deterministic")
	}
	if !slices.Equal(initialDisplay, world.Cells()) {
		t.Fatal("Reset with config seed not deterministic for display buffer")
	}
	if world.Grid().Tick() != 0 {
		t.Fatalf("Reset should rewind the tick counter, got %d", world.Grid().Tick())
	}

	world.Reset(777)
	seeded := slices.Clone(world.Grid().Cells())
	world.Reset(777)
	if !slices.Equal(seeded, world.Grid().Cells()) {
		t.Fatal("Reset with explicit seed not deterministic")
	}
	if slices.Equal(initial, seeded) {
		t.Fatal("different seeds should produce different scenes")
	}
}

func TestRegisteredFactory(t *testing.T) {
	factory, ok := core.Sims()["liquid"]
	if !ok {
		t.Fatal("liquid sim should be registered")
	}
	sim := factory(map[string]string{"w": "20", "h": "10", "scene": SceneDroplet})
	if got := sim.Size(); got.W != 20 || got.H != 10 {
		t.Fatalf("unexpected size %+v", got)
	}
	sim.Reset(1)
	if len(sim.Cells()) != 200 {
		t.Fatalf("display buffer should cover the grid, got %d", len(sim.Cells()))
	}
	if sim.Cells()[5*20+10] == displayEmpty {
		t.Fatal("droplet should be visible after reset")
	}
	if !slices.Contains(core.SimNames(), "liquid") {
		t.Fatal("liquid should be listed by SimNames")
	}
}

func TestEditorOperations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 8
	cfg.Scene = SceneEmpty
	world := NewWithConfig(cfg)
	world.Reset(1)

	var editor core.Editor = world
	if err := editor.PaintSolid(3, 3); err != nil {
		t.Fatal(err)
	}
	if !editor.IsSolid(3, 3) || world.Cells()[world.Grid().Index(3, 3)] != displayWall {
		t.Fatal("painted cell should be a wall")
	}
	if err := editor.Pour(3, 3); err != nil {
		t.Fatal(err)
	}
	c := world.Grid().At(3, 3)
	if c.Kind != Empty || c.Liquid != cfg.Pour {
		t.Fatalf("pour should open the cell and add %g, got %+v", cfg.Pour, c)
	}
	if err := editor.Pour(3, 3); err != nil {
		t.Fatal(err)
	}
	if got := world.Grid().At(3, 3).Liquid; got != 2*cfg.Pour {
		t.Fatalf("pour should accumulate, got %g", got)
	}
	if err := editor.Erase(3, 3); err != nil {
		t.Fatal(err)
	}
	if c := world.Grid().At(3, 3); c.Liquid != 0 || c.Kind != Empty {
		t.Fatalf("erase should leave a dry empty cell, got %+v", c)
	}

	if err := editor.PaintSolid(0, 4); !errors.Is(err, ErrBorderCell) {
		t.Fatalf("expected ErrBorderCell, got %v", err)
	}
	if err := editor.Pour(10, 4); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if !editor.IsSolid(-1, 0) {
		t.Fatal("outside the grid counts as solid")
	}
	if err := world.Grid().AddLiquid(2, 2, -1); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestEditWakesNeighbours(t *testing.T) {
	g := NewGrid(5, 5)
	for i := range g.cur {
		g.cur[i].Settled = true
		g.cur[i].SettleCount = 12
	}
	if err := g.SetSolid(2, 2); err != nil {
		t.Fatal(err)
	}
	for _, xy := range [][2]int{{2, 2}, {2, 1}, {2, 3}, {1, 2}, {3, 2}} {
		if c := g.At(xy[0], xy[1]); c.Settled || c.SettleCount != 0 {
			t.Fatalf("cell %v should be awake: %+v", xy, c)
		}
	}
	if c := g.At(1, 1); !c.Settled {
		t.Fatal("diagonal neighbour should stay settled")
	}
}

func TestDisplayEncoding(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		name string
		cell Cell
		want uint8
	}{
		{"solid", Cell{Kind: Solid}, displayWall},
		{"dry", Cell{}, displayEmpty},
		{"trace without frame", Cell{Liquid: 0.01}, displayEmpty},
		{"trace with frame", Cell{Liquid: 0.01, Frame: FrameWater}, displayWaterBase},
		{"half", Cell{Liquid: 0.5, Frame: FrameWater}, displayWaterBase + 3},
		{"full", Cell{Liquid: 1, Frame: FrameWater}, displayWaterBase + waterLevels - 1},
		{"down-flowing", Cell{Liquid: 0.2, Frame: FrameWater, DownFlowing: true}, displayWaterBase + waterLevels - 1},
		{"compressed", Cell{Liquid: 1.1, Frame: FrameWater}, displayCompressedBase},
		{"very compressed", Cell{Liquid: 9, Frame: FrameWater}, displayCompressedBase + compressedLevels - 1},
	}
	for _, tc := range cases {
		if got := encodeDisplayValue(tc.cell, p); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
	if n := len(new(World).Palette()); n != paletteSize {
		t.Fatalf("palette should have %d entries, got %d", paletteSize, n)
	}
	if got := FillLevel(Cell{Liquid: 0.25}, p); got != 0.25 {
		t.Fatalf("expected fill 0.25, got %g", got)
	}
	if got := FillLevel(Cell{Liquid: 3}, p); got != 1 {
		t.Fatalf("fill should cap at 1, got %g", got)
	}
}

func TestSetParameters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 8, 8
	world := NewWithConfig(cfg)
	world.Reset(0)
	for i := range world.grid.cur {
		world.grid.cur[i].Settled = true
	}

	if !world.SetFloatParameter("flow_speed", 1.7) {
		t.Fatal("flow_speed should be adjustable")
	}
	if got := world.cfg.Params.FlowSpeed; got != 1 {
		t.Fatalf("flow_speed should clamp to 1, got %g", got)
	}
	for _, c := range world.Grid().Cells() {
		if c.Settled {
			t.Fatal("changing flow parameters should wake every cell")
		}
	}
	if world.SetFloatParameter("workers", 3) {
		t.Fatal("workers is an int parameter")
	}
	if !world.SetIntParameter("workers", 3) || world.engine.Workers() != 3 {
		t.Fatal("workers should rebuild the engine")
	}
	if !world.SetIntParameter("settle_ticks", 500) || world.cfg.Params.SettleTicks != 120 {
		t.Fatalf("settle_ticks should clamp to 120, got %d", world.cfg.Params.SettleTicks)
	}
	if world.SetIntParameter("unknown", 1) {
		t.Fatal("unknown keys must be rejected")
	}

	snap := world.Parameters()
	if p, ok := snap.Lookup("flow_speed"); !ok || p.Value != "1" {
		t.Fatalf("snapshot should report flow_speed 1, got %+v", p)
	}
	if p, ok := snap.Lookup("workers"); !ok || p.Value != "3" {
		t.Fatalf("snapshot should report 3 workers, got %+v", p)
	}
	for _, ctrl := range world.ParameterControls() {
		if _, ok := snap.Lookup(ctrl.Key); !ok {
			t.Fatalf("control %q has no snapshot value", ctrl.Key)
		}
	}
}

func TestSweepFlowSpeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 6, 3
	cfg.Scene = ScenePool

	results := SweepFlowSpeed(cfg, []float32{1, 0.5}, 400, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].FlowSpeed != 1 || results[1].FlowSpeed != 0.5 {
		t.Fatalf("results out of order: %+v", results)
	}
	if results[0].SettledAt <= 0 || results[0].SettledAt >= 400 {
		t.Fatalf("pool should come to rest at full speed, got %+v", results[0])
	}
	for _, r := range results {
		if r.FinalLiquid > r.InitialLiquid+1e-5 || r.FinalLiquid < 0 {
			t.Fatalf("liquid created or lost: %+v", r)
		}
		if r.PeakActive == 0 {
			t.Fatalf("scene should have been active: %+v", r)
		}
	}
}

func TestFlowVectorAt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 7, 7
	cfg.Scene = SceneDroplet
	cfg.Workers = 1
	world := NewWithConfig(cfg)
	world.Reset(0)
	world.Step()

	vx, vy := world.FlowVectorAt(3.5, 3.5)
	if vx != 0 || math.Abs(vy-1) > eps {
		t.Fatalf("droplet should flow straight down, got (%g, %g)", vx, vy)
	}
	if vx, vy := world.FlowVectorAt(-1, 3); vx != 0 || vy != 0 {
		t.Fatalf("outside the grid should be calm, got (%g, %g)", vx, vy)
	}
}

func TestBasinBodiesStayWithinFillRange(t *testing.T) {
	p := DefaultParams()
	for seed := int64(1); seed <= 20; seed++ {
		g := NewGrid(60, 40)
		buildBasin(g, p, core.NewRNG(seed))
		wet := 0
		for i, c := range g.Cells() {
			if c.Liquid == 0 {
				continue
			}
			wet++
			if c.Liquid < bodyMinFill*p.MaxLiquid || c.Liquid > p.MaxLiquid {
				t.Fatalf("seed %d cell %d: liquid %g outside body fill range", seed, i, c.Liquid)
			}
		}
		if wet == 0 {
			t.Fatalf("seed %d: basin placed no liquid", seed)
		}
	}
}

func TestSnapshotReportsRest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 6, 3
	cfg.Scene = ScenePool
	cfg.Workers = 1
	world := NewWithConfig(cfg)
	world.Reset(0)

	atRest := func() string {
		p, ok := world.Parameters().Lookup("at_rest")
		if !ok || p.Type != core.ParamTypeBool {
			t.Fatalf("snapshot should carry a bool at_rest entry, got %+v", p)
		}
		return p.Value
	}
	if got := atRest(); got != "false" {
		t.Fatalf("fresh world is not at rest yet, got %s", got)
	}
	for i := 0; i < 500 && atRest() == "false"; i++ {
		world.Step()
	}
	if got := atRest(); got != "true" {
		t.Fatalf("pool should come to rest, got %s at tick %d", got, world.Grid().Tick())
	}
}
