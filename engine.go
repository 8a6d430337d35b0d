package smelt

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Engine drives one tick: sync next from cur, gather module outputs in
// parallel, apply them serially under the conflict rules, run the post-run
// phase, and swap the frame. Module order is registration order everywhere,
// which together with seeded module RNGs makes a tick fully deterministic.
type Engine struct {
	log Logger
	cfg *Config

	modules []Module
	outputs []Output

	changed ChangedSet
	workers int
	cellBuf []Cell
}

func NewEngine(cfg *Config, log Logger, w, h int) *Engine {
	return &Engine{
		log:     log.Scoped("engine"),
		cfg:     cfg,
		changed: NewChangedSet(w * h),
		workers: runtime.GOMAXPROCS(0),
		cellBuf: make([]Cell, 0, 2),
	}
}

// Add registers a module and applies the configuration bag to it. A module
// that cannot satisfy its required keys is rejected.
func (e *Engine) Add(m Module) error {
	if err := m.ApplyConfig(e.cfg); err != nil {
		return fmt.Errorf("module %s: %w", m.Name(), err)
	}
	e.modules = append(e.modules, m)
	e.outputs = append(e.outputs, Output{})
	e.log.Debugf("registered module %s", m.Name())
	return nil
}

func (e *Engine) Modules() []Module { return e.modules }

// Step advances the world by one tick.
func (e *Engine) Step(world *World) {
	// Copy cur into next; apply mutates on top of this baseline.
	world.SyncAll()

	curr, next := world.CtxPair()

	// Gather: module runs may proceed concurrently, but the result vector
	// preserves registration order. A module panic is fatal by design.
	var gather errgroup.Group
	gather.SetLimit(e.workers)
	for i, m := range e.modules {
		i, m := i, m
		gather.Go(func() error {
			e.outputs[i] = m.Run(&curr)
			return nil
		})
	}
	gather.Wait() //nolint:errcheck // modules report failure by panicking

	// Apply: single-threaded, registration order, earliest intent wins.
	for i := range e.modules {
		e.applyOutput(&e.outputs[i], &curr, &next)
	}

	// Post-run: every module sees the same changed list, in application order.
	post := world.PostCtx()
	changedCells := e.changed.Indices()
	var postRun errgroup.Group
	postRun.SetLimit(e.workers)
	for _, m := range e.modules {
		m := m
		postRun.Go(func() error {
			m.PostRun(&post, changedCells)
			return nil
		})
	}
	postRun.Wait() //nolint:errcheck

	e.changed.Reset()
	world.SwapAll()
}

func (e *Engine) applyOutput(out *Output, curr *CurrCtx, next *NextCtx) {
	if out.DeltaTemp != nil {
		// Bulk temperature deltas compose additively and bypass the
		// changed-set entirely.
		for i, d := range out.DeltaTemp {
			next.AddTempI(i, d)
		}
		return
	}

	for _, intent := range out.Intents {
		e.applyIntent(intent, curr, next)
	}
}

func (e *Engine) applyIntent(in CellIntent, curr *CurrCtx, next *NextCtx) {
	cells := in.AffectedCells(e.cellBuf[:0])
	e.cellBuf = cells

	// If any affected cell is already claimed this tick, skip the whole
	// intent; a Reaction or MoveSwap never writes just one of its cells.
	for _, c := range cells {
		if e.changed.Contains(cellIndex(next.W, c.X, c.Y)) {
			return
		}
	}
	for _, c := range cells {
		e.changed.Mark(cellIndex(next.W, c.X, c.Y))
	}

	switch in.Kind {
	case IntentTransform:
		next.SetMatId(in.CellA.X, in.CellA.Y, in.OutA)

	case IntentReaction:
		next.SetMatId(in.CellA.X, in.CellA.Y, in.OutA)
		next.SetMatId(in.CellB.X, in.CellB.Y, in.OutB)

	case IntentMoveSwap:
		from, to := in.CellA, in.CellB

		// Materials come from cur: a cell whose material changed this tick
		// is already claimed, so the swap could not have reached here.
		matFrom := curr.GetMatId(from.X, from.Y)
		matTo := curr.GetMatId(to.X, to.Y)
		next.SetMatId(from.X, from.Y, matTo)
		next.SetMatId(to.X, to.Y, matFrom)

		// Temperatures come from next so the moving cell carries thermal
		// changes applied earlier this tick along with it.
		tf := next.PeekFutureTemp(from.X, from.Y)
		tt := next.PeekFutureTemp(to.X, to.Y)
		next.SetTemp(from.X, from.Y, tt)
		next.SetTemp(to.X, to.Y, tf)
	}
}
