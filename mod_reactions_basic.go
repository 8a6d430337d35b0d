package smelt

import "math/rand"

// BasicReactions scans for adjacent material pairs with a registered
// reaction and emits Reaction intents, rolling each candidate against the
// reaction's rate. At most one reaction is emitted per origin cell per
// tick; a module-local claim set keeps one scan from emitting two intents
// over the same cell. Cross-module conflicts are the engine's problem.
type BasicReactions struct {
	rng     *rand.Rand
	claimed ChangedSet
	intents []CellIntent
}

func NewBasicReactions(curr *CurrCtx, seed int64) *BasicReactions {
	return &BasicReactions{
		rng:     rand.New(rand.NewSource(seed)),
		claimed: NewChangedSet(curr.W * curr.H),
	}
}

func (m *BasicReactions) Name() string { return "BasicReactions" }

func (m *BasicReactions) ApplyConfig(cfg *Config) error { return nil }

func (m *BasicReactions) Run(curr *CurrCtx) Output {
	m.intents = m.intents[:0]
	m.claimed.Reset()

	reactDb := curr.ReactDb

	randIterDir(m.rng, curr.W, curr.H, func(x, y int) {
		if m.claimed.Contains(cellIndex(curr.W, x, y)) {
			return
		}

		mat := curr.GetMatId(x, y)

		tryRandomDirs(m.rng, true, func(dx, dy int) bool {
			nx, ny := x+dx, y+dy
			if !curr.Contains(nx, ny) {
				return false
			}
			if m.claimed.Contains(cellIndex(curr.W, nx, ny)) {
				return false
			}

			neighMat := curr.GetMatId(nx, ny)

			reactId, ok := reactDb.GetByMats(mat, neighMat)
			if !ok {
				return false
			}
			react := reactDb.Get(reactId)

			// Roll against the reaction rate; a failed roll keeps probing
			// the remaining neighbors.
			if m.rng.Float32() >= react.Rate {
				return false
			}

			// Canonicalize: the cell matching in_a becomes cell_a.
			a, b := Cell{x, y}, Cell{nx, ny}
			if react.InA != mat {
				a, b = b, a
			}

			m.intents = append(m.intents, ReactionIntent(a, b, react.OutA, react.OutB))
			m.claimed.Mark(cellIndex(curr.W, x, y))
			m.claimed.Mark(cellIndex(curr.W, nx, ny))
			return true
		})
	})

	return Output{Intents: m.intents}
}

func (m *BasicReactions) PostRun(post *PostRunCtx, changedCells []int) {}
