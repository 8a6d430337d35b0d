package smelt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformsCheckerboardOverTwoTicks(t *testing.T) {
	world, matDb := newTestWorld(t, 2, 2)
	water := mustId(t, matDb, "base:water")
	steam := mustId(t, matDb, "base:steam")
	paintWorld(world, func(next *NextCtx) {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				next.SetMatId(x, y, water)
				next.SetTemp(x, y, 200)
			}
		}
	})

	curr, _ := world.CtxPair()
	m := NewThermalTransforms(3)

	firstTick := map[Cell]bool{}
	for _, in := range m.Run(&curr).Intents {
		require.Equal(t, IntentTransform, in.Kind)
		require.Equal(t, steam, in.OutA)
		firstTick[in.CellA] = true
	}

	secondTick := map[Cell]bool{}
	for _, in := range m.Run(&curr).Intents {
		secondTick[in.CellA] = true
	}

	// One parity class per tick, every cell eligible exactly once over any
	// two consecutive ticks.
	require.Len(t, firstTick, 2)
	require.Len(t, secondTick, 2)
	for cell := range firstTick {
		assert.False(t, secondTick[cell], "cell %v visited twice", cell)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.True(t, firstTick[Cell{x, y}] || secondTick[Cell{x, y}])
		}
	}
}

func TestTransformsColdTarget(t *testing.T) {
	world, matDb := newTestWorld(t, 1, 1)
	water := mustId(t, matDb, "base:water")
	ice := mustId(t, matDb, "base:ice")
	paintWorld(world, func(next *NextCtx) {
		next.SetMatId(0, 0, water)
		next.SetTemp(0, 0, -5)
	})

	curr, _ := world.CtxPair()
	out := NewThermalTransforms(3).Run(&curr)

	require.Len(t, out.Intents, 1)
	assert.Equal(t, TransformIntent(Cell{0, 0}, ice), out.Intents[0])
}

func TestTransformsHotTarget(t *testing.T) {
	world, matDb := newTestWorld(t, 1, 1)
	water := mustId(t, matDb, "base:water")
	steam := mustId(t, matDb, "base:steam")
	paintWorld(world, func(next *NextCtx) {
		next.SetMatId(0, 0, water)
		next.SetTemp(0, 0, 150)
	})

	curr, _ := world.CtxPair()
	out := NewThermalTransforms(3).Run(&curr)

	require.Len(t, out.Intents, 1)
	assert.Equal(t, TransformIntent(Cell{0, 0}, steam), out.Intents[0])
}

func TestTransformsThresholdsAreStrict(t *testing.T) {
	world, matDb := newTestWorld(t, 1, 1)
	water := mustId(t, matDb, "base:water")

	// Water transforms below 0 and above 100; sitting exactly on either
	// threshold does nothing.
	for _, temp := range []float32{0, 100, 50} {
		paintWorld(world, func(next *NextCtx) {
			next.SetMatId(0, 0, water)
			next.SetTemp(0, 0, temp)
		})

		curr, _ := world.CtxPair()
		out := NewThermalTransforms(3).Run(&curr)
		assert.Emptyf(t, out.Intents, "temp %v should not transform", temp)
	}
}

func TestTransformsIgnoreInertMaterials(t *testing.T) {
	world, matDb := newTestWorld(t, 2, 1)
	rock := mustId(t, matDb, "base:rock")
	paintWorld(world, func(next *NextCtx) {
		next.SetMatId(0, 0, rock)
		next.SetMatId(1, 0, rock)
		next.SetTemp(0, 0, 10000)
		next.SetTemp(1, 0, -10000)
	})

	curr, _ := world.CtxPair()
	m := NewThermalTransforms(3)
	assert.Empty(t, m.Run(&curr).Intents)
	assert.Empty(t, m.Run(&curr).Intents)
}
