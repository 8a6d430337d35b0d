package smelt

// DoubleBuffer keeps a current and a staging copy of a per-cell array.
// Sync copies cur into next so a tick can mutate on top of the last frame;
// Swap commits the staged frame.
type DoubleBuffer[T any] struct {
	Cur  []T
	Next []T
}

func NewDoubleBuffer[T any](initial []T) DoubleBuffer[T] {
	next := make([]T, len(initial))
	copy(next, initial)
	return DoubleBuffer[T]{Cur: initial, Next: next}
}

func (b *DoubleBuffer[T]) Sync() {
	copy(b.Next, b.Cur)
}

func (b *DoubleBuffer[T]) Swap() {
	b.Cur, b.Next = b.Next, b.Cur
}

// Entity is reserved for cell-attached state in later phases.
type Entity struct{}

// cellIndex converts a 2D coordinate to a 1D buffer index.
func cellIndex(w, x, y int) int { return y*w + x }

// World owns the double-buffered cell state. It is created once at startup
// and mutated only by the engine's tick loop on the sim thread; modules see
// it exclusively through the context views below.
type World struct {
	W, H int

	cellMatIds DoubleBuffer[MaterialId]
	cellTemps  DoubleBuffer[float32]
	entities   DoubleBuffer[Entity]

	matDb   *MaterialDb
	reactDb *ReactionDb
}

func NewWorld(w, h int, matDb *MaterialDb, reactDb *ReactionDb) *World {
	return &World{
		W: w, H: h,
		cellMatIds: NewDoubleBuffer(make([]MaterialId, w*h)),
		cellTemps:  NewDoubleBuffer(make([]float32, w*h)),
		entities:   NewDoubleBuffer(make([]Entity, w*h)),
		matDb:      matDb,
		reactDb:    reactDb,
	}
}

func (w *World) SyncAll() {
	w.cellMatIds.Sync()
	w.cellTemps.Sync()
	w.entities.Sync()
}

func (w *World) SwapAll() {
	w.cellMatIds.Swap()
	w.cellTemps.Swap()
	w.entities.Swap()
}

func (w *World) MatDb() *MaterialDb   { return w.matDb }
func (w *World) ReactDb() *ReactionDb { return w.reactDb }

// CtxPair returns the read view over cur and the write view over next for
// one tick. The CurrCtx may be shared across module goroutines; the NextCtx
// is held by the engine alone during apply.
func (w *World) CtxPair() (CurrCtx, NextCtx) {
	curr := CurrCtx{
		W: w.W, H: w.H,
		cellMatIds: w.cellMatIds.Cur,
		cellTemps:  w.cellTemps.Cur,
		MatDb:      w.matDb,
		ReactDb:    w.reactDb,
	}
	next := NextCtx{
		W: w.W, H: w.H,
		cellMatIds: w.cellMatIds.Next,
		cellTemps:  w.cellTemps.Next,
	}
	return curr, next
}

// PostCtx returns the read view handed to modules after apply: material ids
// from both frames plus the freshly-written next temperatures.
func (w *World) PostCtx() PostRunCtx {
	return PostRunCtx{
		W: w.W, H: w.H,
		CurCellMatIds:  w.cellMatIds.Cur,
		NextCellMatIds: w.cellMatIds.Next,
		NextCellTemps:  w.cellTemps.Next,
		MatDb:          w.matDb,
	}
}

// ExportMatIds clones the current material ids for snapshot publication.
func (w *World) ExportMatIds() []MaterialId {
	out := make([]MaterialId, len(w.cellMatIds.Cur))
	copy(out, w.cellMatIds.Cur)
	return out
}

// ExportTemps clones the current temperatures for snapshot publication.
func (w *World) ExportTemps() []float32 {
	out := make([]float32, len(w.cellTemps.Cur))
	copy(out, w.cellTemps.Cur)
	return out
}

// ------------------------------ curr frame context ------------------------------

// CurrCtx is a read-only view over the cur arrays plus the registries.
// It never blocks or allocates and is safe to share across module workers.
type CurrCtx struct {
	W, H int

	cellMatIds []MaterialId
	cellTemps  []float32

	MatDb   *MaterialDb
	ReactDb *ReactionDb
}

func (c *CurrCtx) GetMatId(x, y int) MaterialId {
	return c.cellMatIds[cellIndex(c.W, x, y)]
}

func (c *CurrCtx) GetTemp(x, y int) float32 {
	return c.cellTemps[cellIndex(c.W, x, y)]
}

// Contains reports whether a possibly-signed coordinate is in bounds.
// Read callers must check before indexing.
func (c *CurrCtx) Contains(x, y int) bool {
	return x >= 0 && x < c.W && y >= 0 && y < c.H
}

// MatIds exposes the whole cur material buffer for bulk scans.
func (c *CurrCtx) MatIds() []MaterialId { return c.cellMatIds }

// Temps exposes the whole cur temperature buffer for bulk scans.
func (c *CurrCtx) Temps() []float32 { return c.cellTemps }

// ------------------------------ next frame context ------------------------------

// NextCtx is the exclusive write view over the next arrays. Write methods
// require already-validated coordinates and do not check them: a coordinate
// whose flattened index y*W+x falls outside the buffer panics, while an x
// outside [0, W) with an in-range flattened index writes to another cell.
type NextCtx struct {
	W, H int

	cellMatIds []MaterialId
	cellTemps  []float32
}

func (n *NextCtx) SetMatId(x, y int, id MaterialId) {
	n.cellMatIds[cellIndex(n.W, x, y)] = id
}

func (n *NextCtx) SetTemp(x, y int, t float32) {
	n.cellTemps[cellIndex(n.W, x, y)] = t
}

func (n *NextCtx) AddTemp(x, y int, dt float32) {
	n.cellTemps[cellIndex(n.W, x, y)] += dt
}

func (n *NextCtx) AddTempI(i int, dt float32) {
	n.cellTemps[i] += dt
}

// PeekFutureTemp reads the next-frame temperature as it stands mid-apply,
// including changes made by outputs applied earlier this tick.
func (n *NextCtx) PeekFutureTemp(x, y int) float32 {
	return n.cellTemps[cellIndex(n.W, x, y)]
}

// ------------------------------ post-run context ------------------------------

// PostRunCtx is handed to modules after apply so incremental caches can
// refresh from the freshly-written frame. Read-only by contract.
type PostRunCtx struct {
	W, H int

	CurCellMatIds  []MaterialId
	NextCellMatIds []MaterialId
	NextCellTemps  []float32

	MatDb *MaterialDb
}

// ------------------------------ changed-set ------------------------------

// ChangedSet tracks the cell indices written by intent application this
// tick: a dense bitmap for O(1) membership plus a sparse index list so the
// reset costs O(k) in the number of changes.
type ChangedSet struct {
	dense  []bool
	sparse []int
}

func NewChangedSet(cells int) ChangedSet {
	return ChangedSet{
		dense:  make([]bool, cells),
		sparse: make([]int, 0, 64),
	}
}

func (s *ChangedSet) Mark(i int) {
	if !s.dense[i] {
		s.dense[i] = true
		s.sparse = append(s.sparse, i)
	}
}

func (s *ChangedSet) Contains(i int) bool { return s.dense[i] }

// Indices returns the changed cells in application order. Valid until Reset.
func (s *ChangedSet) Indices() []int { return s.sparse }

func (s *ChangedSet) Len() int { return len(s.sparse) }

func (s *ChangedSet) Reset() {
	for _, i := range s.sparse {
		s.dense[i] = false
	}
	s.sparse = s.sparse[:0]
}
