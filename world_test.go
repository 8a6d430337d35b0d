package smelt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleBufferSyncAndSwap(t *testing.T) {
	buf := NewDoubleBuffer([]int{1, 2, 3})

	buf.Next[0] = 99
	buf.Sync()
	require.Equal(t, []int{1, 2, 3}, buf.Next)

	buf.Next[2] = 7
	buf.Swap()
	require.Equal(t, []int{1, 2, 7}, buf.Cur)
	require.Equal(t, []int{1, 2, 3}, buf.Next)
}

func TestWorldContexts(t *testing.T) {
	world, matDb := newTestWorld(t, 3, 2)
	rock := mustId(t, matDb, "base:rock")

	curr, next := world.CtxPair()

	next.SetMatId(1, 1, rock)
	next.SetTemp(1, 1, 42)

	// Writes stage into next; cur is untouched until the swap.
	require.Equal(t, MaterialId(0), curr.GetMatId(1, 1))
	require.Equal(t, float32(0), curr.GetTemp(1, 1))
	require.Equal(t, float32(42), next.PeekFutureTemp(1, 1))

	world.SwapAll()

	curr, _ = world.CtxPair()
	require.Equal(t, rock, curr.GetMatId(1, 1))
	require.Equal(t, float32(42), curr.GetTemp(1, 1))
}

func TestCurrCtxContains(t *testing.T) {
	world, _ := newTestWorld(t, 3, 2)
	curr, _ := world.CtxPair()

	assert.True(t, curr.Contains(0, 0))
	assert.True(t, curr.Contains(2, 1))
	assert.False(t, curr.Contains(-1, 0))
	assert.False(t, curr.Contains(0, -1))
	assert.False(t, curr.Contains(3, 0))
	assert.False(t, curr.Contains(0, 2))
}

func TestNextCtxAddTemp(t *testing.T) {
	world, _ := newTestWorld(t, 2, 1)
	_, next := world.CtxPair()

	next.SetTemp(0, 0, 10)
	next.AddTemp(0, 0, 5)
	next.AddTempI(cellIndex(2, 0, 0), 2.5)

	require.Equal(t, float32(17.5), next.PeekFutureTemp(0, 0))
}

func TestPostRunCtxSeesBothFrames(t *testing.T) {
	world, matDb := newTestWorld(t, 2, 1)
	rock := mustId(t, matDb, "base:rock")

	world.SyncAll()
	_, next := world.CtxPair()
	next.SetMatId(0, 0, rock)
	next.SetTemp(0, 0, 9)

	post := world.PostCtx()
	require.Equal(t, MaterialId(0), post.CurCellMatIds[0])
	require.Equal(t, rock, post.NextCellMatIds[0])
	require.Equal(t, float32(9), post.NextCellTemps[0])
}

func TestChangedSet(t *testing.T) {
	set := NewChangedSet(8)

	set.Mark(3)
	set.Mark(5)
	set.Mark(3) // duplicate marks collapse

	assert.True(t, set.Contains(3))
	assert.True(t, set.Contains(5))
	assert.False(t, set.Contains(0))
	require.Equal(t, []int{3, 5}, set.Indices())
	require.Equal(t, 2, set.Len())

	set.Reset()

	assert.False(t, set.Contains(3))
	assert.False(t, set.Contains(5))
	require.Equal(t, 0, set.Len())

	// The set is reusable after a reset.
	set.Mark(1)
	require.Equal(t, []int{1}, set.Indices())
}
