package smelt

import (
	"fmt"
	"math/rand"
)

// SteamBehavior makes steam drift and decay: each steam cell rolls a
// configured chance to fade back into air, and otherwise tries to swap into
// a random air neighbor out of the 8-neighborhood. The MoveSwap carries the
// cell's this-tick temperature changes with it, so a drifting steam parcel
// stays hot.
type SteamBehavior struct {
	rng *rand.Rand

	matIdSteam MaterialId
	matIdAir   MaterialId
	fadeChance float32

	intents []CellIntent
}

func NewSteamBehavior(curr *CurrCtx, seed int64) (*SteamBehavior, error) {
	steam, ok := curr.MatDb.GetId("base:steam")
	if !ok {
		return nil, fmt.Errorf("steam material not found")
	}
	air, ok := curr.MatDb.GetId("base:air")
	if !ok {
		return nil, fmt.Errorf("air material not found")
	}

	return &SteamBehavior{
		rng:        rand.New(rand.NewSource(seed)),
		matIdSteam: steam,
		matIdAir:   air,
	}, nil
}

func (m *SteamBehavior) Name() string { return "SteamBehavior" }

func (m *SteamBehavior) ApplyConfig(cfg *Config) error {
	chance, err := cfg.Float("steam_fade_chance")
	if err != nil {
		return err
	}
	m.fadeChance = clamp32(float32(chance), 0, 1)
	return nil
}

func (m *SteamBehavior) Run(curr *CurrCtx) Output {
	m.intents = m.intents[:0]

	randIterDir(m.rng, curr.W, curr.H, func(x, y int) {
		if curr.GetMatId(x, y) != m.matIdSteam {
			return
		}

		if m.rng.Float32() < m.fadeChance {
			m.intents = append(m.intents, TransformIntent(Cell{x, y}, m.matIdAir))
			return
		}

		tryRandomDirs(m.rng, false, func(dx, dy int) bool {
			nx, ny := x+dx, y+dy
			if !curr.Contains(nx, ny) {
				return false
			}
			if curr.GetMatId(nx, ny) != m.matIdAir {
				return false
			}
			m.intents = append(m.intents, MoveSwapIntent(Cell{x, y}, Cell{nx, ny}))
			return true
		})
	})

	return Output{Intents: m.intents}
}

func (m *SteamBehavior) PostRun(post *PostRunCtx, changedCells []int) {}
