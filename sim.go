package smelt

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Snapshot is a frozen view of world state produced by the sim thread and
// consumed by observers. Never mutated after publication.
type Snapshot struct {
	W, H       int
	CellMatIds []MaterialId
	CellTemps  []float32
}

func (s *Snapshot) MatIdAt(x, y int) MaterialId {
	return s.CellMatIds[y*s.W+x]
}

func (s *Snapshot) TempAt(x, y int) float32 {
	return s.CellTemps[y*s.W+x]
}

// Shared is the data visible to both the sim thread and observer threads.
// The current snapshot is swapped atomically; readers load the reference
// once per frame and may miss ticks, which is fine.
type Shared struct {
	current   atomic.Pointer[Snapshot]
	tickCount atomic.Uint64

	MatDb   *MaterialDb
	ReactDb *ReactionDb
}

func NewShared(initial *Snapshot, matDb *MaterialDb, reactDb *ReactionDb) *Shared {
	s := &Shared{MatDb: matDb, ReactDb: reactDb}
	s.current.Store(initial)
	return s
}

func (s *Shared) Current() *Snapshot { return s.current.Load() }

func (s *Shared) TickCount() uint64 { return s.tickCount.Load() }

// TpsTracker derives a recent ticks-per-second figure from the shared tick
// counter. Call Update from any single goroutine.
type TpsTracker struct {
	lastTicks uint64
	lastTime  time.Time
	recentTps float64
}

func NewTpsTracker() *TpsTracker {
	return &TpsTracker{lastTime: time.Now()}
}

func (t *TpsTracker) Update(shared *Shared) float64 {
	now := time.Now()
	ticks := shared.TickCount()

	deltaTime := now.Sub(t.lastTime).Seconds()
	deltaTicks := ticks - t.lastTicks

	if deltaTime >= 1.0 {
		t.recentTps = float64(deltaTicks) / deltaTime
		t.lastTicks = ticks
		t.lastTime = now
	}

	return t.recentTps
}

// Per-module seed constants XORed into the base seed, so every module owns
// an independently reproducible RNG stream.
const (
	seedThermalDiffusion  uint64 = 0x0FEDCBA123456789
	seedThermalTransforms uint64 = 0x345289A01DEFCB67
	seedBasicReactions    uint64 = 0x0123456789ABCDEF
	seedSteamBehavior     uint64 = 0xF0E1D2C3B4A59687
)

const defaultBaseSeed = 123456789

// Temperature painted into every cell before the map overlay.
const defaultCellTemp = 50.0

// Sim owns the world and engine and drives the tick loop. Observers only
// ever see it through the Shared handle.
type Sim struct {
	log    Logger
	world  *World
	engine *Engine
	shared *Shared
}

// NewSim builds the world and engine from the config bag: dimensions and
// seed are read here, the initial map is painted, and the standard module
// roster is registered. Any config or pack problem aborts construction.
func NewSim(cfg *Config, log Logger, matDb *MaterialDb, reactDb *ReactionDb) (*Sim, error) {
	log = log.Scoped("sim")

	width, err := cfg.Int("world_width")
	if err != nil {
		return nil, err
	}
	height, err := cfg.Int("world_height")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("world dimensions must be positive, got %dx%d", width, height)
	}

	world := NewWorld(width, height, matDb, reactDb)

	// Initial paint: everything is air at the default temperature, then the
	// optional bitmap map overrides individual cells.
	{
		_, next := world.CtxPair()

		airId, ok := matDb.GetId("base:air")
		if !ok {
			return nil, fmt.Errorf("missing material: base:air")
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				next.SetMatId(x, y, airId)
				next.SetTemp(x, y, defaultCellTemp)
			}
		}

		if cfg.Has("map_path") && cfg.Has("map_key_path") {
			mapPath, _ := cfg.String("map_path")
			keyPath, _ := cfg.String("map_key_path")
			if err := PaintMap(&next, matDb, log, mapPath, keyPath); err != nil {
				return nil, err
			}
		}

		world.SwapAll()
	}

	engine := NewEngine(cfg, log, width, height)
	baseSeed := uint64(cfg.Int64Or("base_seed", defaultBaseSeed))

	// Modules run in registration order. Any order is legal, but three
	// stages keep the physics coherent within a tick:
	//
	// Stage 1: modules that modify cell state (temperature).
	// Stage 2: modules that change cell materials.
	// Stage 3: modules that move cell contents around. Swaps go last so a
	// moving parcel carries the temperature changes made earlier this tick.
	{
		curr, _ := world.CtxPair()

		if err := engine.Add(NewThermalDiffusion(&curr, int64(baseSeed^seedThermalDiffusion))); err != nil {
			return nil, err
		}

		if err := engine.Add(NewThermalTransforms(int64(baseSeed ^ seedThermalTransforms))); err != nil {
			return nil, err
		}
		if err := engine.Add(NewBasicReactions(&curr, int64(baseSeed^seedBasicReactions))); err != nil {
			return nil, err
		}

		steam, err := NewSteamBehavior(&curr, int64(baseSeed^seedSteamBehavior))
		if err != nil {
			return nil, err
		}
		if err := engine.Add(steam); err != nil {
			return nil, err
		}
	}

	sim := &Sim{
		log:    log,
		world:  world,
		engine: engine,
	}
	sim.shared = NewShared(sim.snapshot(), matDb, reactDb)

	log.Infof("sim ready: %dx%d world, %d materials (pack %s), %d reactions (pack %s)",
		width, height, matDb.Count(), matDb.PackId, reactDb.Count(), reactDb.PackId)

	return sim, nil
}

func (s *Sim) Shared() *Shared { return s.shared }

func (s *Sim) World() *World { return s.world }

func (s *Sim) Engine() *Engine { return s.engine }

// Tick advances the simulation one step and publishes the result.
func (s *Sim) Tick() {
	s.engine.Step(s.world)
	s.shared.tickCount.Add(1)
	s.shared.current.Store(s.snapshot())
}

// Run drives the tick loop forever. The simulation has no external
// cancellation; shutdown is process termination.
func (s *Sim) Run() {
	for {
		s.Tick()
	}
}

func (s *Sim) snapshot() *Snapshot {
	return &Snapshot{
		W:          s.world.W,
		H:          s.world.H,
		CellMatIds: s.world.ExportMatIds(),
		CellTemps:  s.world.ExportTemps(),
	}
}
