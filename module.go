package smelt

// Output is what a module hands back from Run. Exactly one of the two
// fields is set: Intents for ordered cell-level changes, or DeltaTemp for a
// bulk additive temperature pass over the whole grid. DeltaTemp outputs
// compose linearly and never conflict with each other.
type Output struct {
	Intents   []CellIntent
	DeltaTemp []float32
}

// Module is a parallel producer of per-tick outputs. A module is owned by
// exactly one worker at a time; it may keep private state (RNG streams,
// caches) but must not write world state outside the intent protocol.
type Module interface {
	Name() string

	// ApplyConfig runs once at registration. Unknown keys in the bag are
	// ignored; a missing required key is an error.
	ApplyConfig(cfg *Config) error

	// Run is invoked once per tick with the shared read-only view and
	// returns exactly one Output. Pure with respect to world state.
	Run(curr *CurrCtx) Output

	// PostRun is invoked once per tick after apply with the indices of the
	// cells modified this tick, in application order.
	PostRun(post *PostRunCtx, changedCells []int)
}
