package smelt

import "math/rand"

// ThermalTransforms emits Transform intents for cells whose temperature
// crossed their material's cold or hot threshold. Cold wins over hot on the
// same tick.
//
// The module checkerboards its work: each tick it skips cells whose (x+y)
// parity matches a flag flipped per tick, so a transform cascade cannot run
// away through adjacent cells in a single tick and every cell is visited
// over any two consecutive ticks.
type ThermalTransforms struct {
	rng     *rand.Rand
	phase   bool
	intents []CellIntent
}

func NewThermalTransforms(seed int64) *ThermalTransforms {
	return &ThermalTransforms{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (m *ThermalTransforms) Name() string { return "ThermalTransforms" }

func (m *ThermalTransforms) ApplyConfig(cfg *Config) error { return nil }

func (m *ThermalTransforms) Run(curr *CurrCtx) Output {
	m.intents = m.intents[:0]
	m.phase = !m.phase

	skip := 0
	if m.phase {
		skip = 1
	}

	randIterDir(m.rng, curr.W, curr.H, func(x, y int) {
		if (x+y)&1 == skip {
			return
		}

		mat := curr.MatDb.Get(curr.GetMatId(x, y))
		if mat == nil {
			return
		}

		if mat.HasTransformCold && curr.GetTemp(x, y) < mat.TransformColdTemp {
			m.intents = append(m.intents, TransformIntent(Cell{x, y}, mat.TransformColdMatId))
			return
		}

		if mat.HasTransformHot && curr.GetTemp(x, y) > mat.TransformHotTemp {
			m.intents = append(m.intents, TransformIntent(Cell{x, y}, mat.TransformHotMatId))
		}
	})

	return Output{Intents: m.intents}
}

func (m *ThermalTransforms) PostRun(post *PostRunCtx, changedCells []int) {}
