package smelt

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ReactionId is a dense index into the reaction registry.
type ReactionId uint16

// Reaction pairs two input materials with two outputs and a per-tick rate.
// The inputs are an unordered pair for lookup purposes; the outputs are
// positional (out_a replaces the cell holding in_a).
type Reaction struct {
	Name string
	InA  MaterialId
	InB  MaterialId
	OutA MaterialId
	OutB MaterialId
	Rate float32
}

func (r *Reaction) HasIn(mat MaterialId) bool {
	return r.InA == mat || r.InB == mat
}

// reactionRef is the on-disk shape, with materials referenced by name.
type reactionRef struct {
	InA  string  `yaml:"in_a"`
	InB  string  `yaml:"in_b"`
	OutA string  `yaml:"out_a"`
	OutB string  `yaml:"out_b"`
	Rate float32 `yaml:"rate"`
}

// ReactionDb interns reaction definitions and provides O(1) lookup by
// unordered material pair through a dense M x M table, where M is the
// material count at load time. Built once at startup, immutable afterwards.
type ReactionDb struct {
	defs   []Reaction
	byName map[string]ReactionId

	matCount int
	// lookup[a*matCount+b] holds the reaction id for the pair, or noReaction.
	// Both orderings of a pair hold the same id.
	lookup []int32

	PackId uuid.UUID
}

const noReaction int32 = -1

func NewReactionDb() *ReactionDb {
	return &ReactionDb{
		byName: make(map[string]ReactionId),
	}
}

func (db *ReactionDb) lookupIndex(a, b MaterialId) int {
	return int(a)*db.matCount + int(b)
}

// GetByMats returns the reaction for an unordered material pair.
func (db *ReactionDb) GetByMats(a, b MaterialId) (ReactionId, bool) {
	id := db.lookup[db.lookupIndex(a, b)]
	if id == noReaction {
		return 0, false
	}
	return ReactionId(id), true
}

func (db *ReactionDb) GetId(name string) (ReactionId, bool) {
	id, ok := db.byName[name]
	return id, ok
}

func (db *ReactionDb) Get(id ReactionId) *Reaction {
	if int(id) >= len(db.defs) {
		return nil
	}
	return &db.defs[id]
}

func (db *ReactionDb) Count() int { return len(db.defs) }

// LoadFile reads a YAML reaction pack, a mapping from reaction name to
// material names and a rate.
func (db *ReactionDb) LoadFile(matDb *MaterialDb, path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read reaction pack: %w", err)
	}

	var raw map[string]reactionRef
	if err := yaml.Unmarshal(text, &raw); err != nil {
		return fmt.Errorf("parse reaction pack %s: %w", path, err)
	}

	return db.load(matDb, raw)
}

// load resolves names against the material registry and fills the pair
// table. Entries with a non-positive rate are dropped. An unknown material
// name or a second reaction over an already-occupied pair fails the load.
func (db *ReactionDb) load(matDb *MaterialDb, raw map[string]reactionRef) error {
	db.matCount = matDb.Count()
	db.lookup = make([]int32, db.matCount*db.matCount)
	for i := range db.lookup {
		db.lookup[i] = noReaction
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	resolve := func(reaction, mat string) (MaterialId, error) {
		id, ok := matDb.GetId(mat)
		if !ok {
			return 0, fmt.Errorf("reaction %q references unknown material %q", reaction, mat)
		}
		return id, nil
	}

	for _, name := range names {
		ref := raw[name]
		if ref.Rate <= 0 {
			continue
		}

		var react Reaction
		var err error
		react.Name = name
		if react.InA, err = resolve(name, ref.InA); err != nil {
			return err
		}
		if react.InB, err = resolve(name, ref.InB); err != nil {
			return err
		}
		if react.OutA, err = resolve(name, ref.OutA); err != nil {
			return err
		}
		if react.OutB, err = resolve(name, ref.OutB); err != nil {
			return err
		}
		react.Rate = clamp32(ref.Rate, 0, 1)

		if prev, ok := db.GetByMats(react.InA, react.InB); ok {
			return fmt.Errorf("reaction %q uses the same material pair as reaction %q",
				name, db.defs[prev].Name)
		}

		id := ReactionId(len(db.defs))
		db.byName[name] = id
		db.lookup[db.lookupIndex(react.InA, react.InB)] = int32(id)
		db.lookup[db.lookupIndex(react.InB, react.InA)] = int32(id)
		db.defs = append(db.defs, react)
	}

	db.PackId = uuid.New()
	return nil
}
