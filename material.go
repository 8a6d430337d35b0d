package smelt

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// MaterialId is a dense index into the material registry. Id zero is the
// default ("air-like") material assigned to every cell before map painting.
type MaterialId uint16

// Material is one entry of a material pack. The exported yaml fields are the
// on-disk shape; the resolved fields are populated after the whole pack has
// been loaded.
type Material struct {
	Name string `yaml:"-"`

	ColorRaw    [4]uint8 `yaml:"color_raw,flow"`
	Diffusivity float32  `yaml:"diffusivity"`

	TransformColdMatName string  `yaml:"transform_cold_mat_name,omitempty"`
	TransformColdTemp    float32 `yaml:"transform_cold_temp,omitempty"`
	TransformHotMatName  string  `yaml:"transform_hot_mat_name,omitempty"`
	TransformHotTemp     float32 `yaml:"transform_hot_temp,omitempty"`

	TransformColdMatId MaterialId `yaml:"-"`
	HasTransformCold   bool       `yaml:"-"`
	TransformHotMatId  MaterialId `yaml:"-"`
	HasTransformHot    bool       `yaml:"-"`
}

// Diffusivity above 0.25 makes the explicit diffusion update oscillate on a
// 4-connected stencil, so the registry clamps on insert.
const maxDiffusivity = 0.25

// MaterialDb interns material definitions and hands out dense ids.
// Built once at startup, immutable afterwards; safe to share across threads.
type MaterialDb struct {
	defs   []Material
	byName map[string]MaterialId

	// Diffusivity indexed by material id, packed for the conductance loops.
	diffusivity []float32

	// PackId identifies the loaded pack in logs and observer hello frames.
	PackId uuid.UUID
}

func NewMaterialDb() *MaterialDb {
	return &MaterialDb{
		byName: make(map[string]MaterialId),
	}
}

func (db *MaterialDb) insert(m Material) MaterialId {
	id := MaterialId(len(db.defs))
	db.byName[m.Name] = id
	db.defs = append(db.defs, m)
	return id
}

func (db *MaterialDb) GetId(name string) (MaterialId, bool) {
	id, ok := db.byName[name]
	return id, ok
}

// Get returns nil for an id outside the registry.
func (db *MaterialDb) Get(id MaterialId) *Material {
	if int(id) >= len(db.defs) {
		return nil
	}
	return &db.defs[id]
}

func (db *MaterialDb) Count() int { return len(db.defs) }

func (db *MaterialDb) DiffusivityLookup() []float32 { return db.diffusivity }

func (db *MaterialDb) DiffusivityOf(id MaterialId) float32 {
	return db.diffusivity[id]
}

// LoadFile reads a YAML material pack, a mapping from fully-qualified name
// (e.g. "base:water") to material definition.
func (db *MaterialDb) LoadFile(path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read material pack: %w", err)
	}

	var raw map[string]Material
	if err := yaml.Unmarshal(text, &raw); err != nil {
		return fmt.Errorf("parse material pack %s: %w", path, err)
	}

	return db.Load(raw)
}

// Load interns a pack of definitions. Ids are assigned densely in sorted
// name order so a pack always produces the same registry regardless of map
// iteration order. Transform targets are resolved in a second pass once all
// names are known; a dangling reference, or a hot threshold that is not
// strictly above the cold one, fails the load.
func (db *MaterialDb) Load(raw map[string]Material) error {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := raw[name]
		m.Name = name
		m.Diffusivity = clamp32(m.Diffusivity, 0, maxDiffusivity)
		m.TransformColdMatId, m.HasTransformCold = 0, false
		m.TransformHotMatId, m.HasTransformHot = 0, false
		db.insert(m)
	}

	db.diffusivity = make([]float32, len(db.defs))
	for i, m := range db.defs {
		db.diffusivity[i] = m.Diffusivity
	}

	for i := range db.defs {
		m := &db.defs[i]

		if m.TransformColdMatName != "" {
			cold, ok := db.GetId(m.TransformColdMatName)
			if !ok {
				return fmt.Errorf("material %q references missing cold transform material %q",
					m.Name, m.TransformColdMatName)
			}
			m.TransformColdMatId = cold
			m.HasTransformCold = true
		}

		if m.TransformHotMatName != "" {
			hot, ok := db.GetId(m.TransformHotMatName)
			if !ok {
				return fmt.Errorf("material %q references missing hot transform material %q",
					m.Name, m.TransformHotMatName)
			}
			m.TransformHotMatId = hot
			m.HasTransformHot = true
		}

		if m.HasTransformCold && m.HasTransformHot && m.TransformColdTemp >= m.TransformHotTemp {
			return fmt.Errorf("material %q has hot transform temperature (%v) equal to or lower than cold transform temperature (%v)",
				m.Name, m.TransformHotTemp, m.TransformColdTemp)
		}
	}

	db.PackId = uuid.New()
	return nil
}

// Dump exports the registry back to the on-disk map shape, so that
// load -> dump -> load is the identity.
func (db *MaterialDb) Dump() map[string]Material {
	out := make(map[string]Material, len(db.defs))
	for _, m := range db.defs {
		out[m.Name] = m
	}
	return out
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
