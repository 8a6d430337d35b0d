package smelt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialDbLoadFile(t *testing.T) {
	db := NewMaterialDb()
	require.NoError(t, db.LoadFile("testdata/materials_test.yaml"))

	require.Equal(t, 8, db.Count())

	{
		// Diamond is set to 1.0 in the file and must be clamped to 0.25 to
		// keep the diffusion stencil stable.
		id := mustId(t, db, "base:diamond")
		assert.Equal(t, float32(0.25), db.Get(id).Diffusivity)
		assert.Equal(t, float32(0.25), db.DiffusivityOf(id))
	}

	{
		// Insulation is set to -1.0 and must come out as 0.
		id := mustId(t, db, "base:insulation")
		assert.Equal(t, float32(0), db.Get(id).Diffusivity)
		assert.Equal(t, float32(0), db.DiffusivityOf(id))
	}

	{
		water := mustId(t, db, "base:water")
		steam := mustId(t, db, "base:steam")

		waterMat := db.Get(water)
		require.True(t, waterMat.HasTransformHot)
		assert.Equal(t, steam, waterMat.TransformHotMatId)

		steamMat := db.Get(steam)
		require.True(t, steamMat.HasTransformCold)
		assert.Equal(t, water, steamMat.TransformColdMatId)
	}
}

func TestMaterialDbDenseSortedIds(t *testing.T) {
	db := NewMaterialDb()
	require.NoError(t, db.Load(map[string]Material{
		"base:zinc": {},
		"base:ash":  {},
		"base:coal": {},
	}))

	// Ids are assigned densely in sorted name order, so the same pack
	// always produces the same registry.
	require.Equal(t, MaterialId(0), mustId(t, db, "base:ash"))
	require.Equal(t, MaterialId(1), mustId(t, db, "base:coal"))
	require.Equal(t, MaterialId(2), mustId(t, db, "base:zinc"))
}

func TestMaterialDbMissingColdTransform(t *testing.T) {
	db := NewMaterialDb()
	err := db.Load(map[string]Material{
		"base:mist": {TransformColdMatName: "base:nothing", TransformColdTemp: 10},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing cold transform")
	assert.Contains(t, err.Error(), "base:nothing")
}

func TestMaterialDbMissingHotTransform(t *testing.T) {
	db := NewMaterialDb()
	err := db.Load(map[string]Material{
		"base:mist": {TransformHotMatName: "base:nothing", TransformHotTemp: 10},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing hot transform")
}

func TestMaterialDbInvalidTransformTemps(t *testing.T) {
	db := NewMaterialDb()
	err := db.Load(map[string]Material{
		"base:slush": {
			TransformColdMatName: "base:slush", TransformColdTemp: 50,
			TransformHotMatName: "base:slush", TransformHotTemp: 50,
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equal to or lower than cold transform temperature")
}

func TestMaterialDbStartsEmpty(t *testing.T) {
	db := NewMaterialDb()
	require.Equal(t, 0, db.Count())

	_, ok := db.GetId("base:unknown")
	assert.False(t, ok)
	assert.Nil(t, db.Get(MaterialId(0)))
}

func TestMaterialDbRoundTrip(t *testing.T) {
	db := NewMaterialDb()
	require.NoError(t, db.LoadFile("testdata/materials_test.yaml"))

	reloaded := NewMaterialDb()
	require.NoError(t, reloaded.Load(db.Dump()))

	require.Equal(t, db.Count(), reloaded.Count())
	for id := 0; id < db.Count(); id++ {
		orig := db.Get(MaterialId(id))
		again := reloaded.Get(MaterialId(id))
		require.Equal(t, orig, again, "material %s did not survive the round trip", orig.Name)
	}
}
