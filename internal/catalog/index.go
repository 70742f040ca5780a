// Package catalog indexes the exercise catalog for muscle-involvement
// lookups. The catalog is the bundled default set merged with user-defined
// custom exercises; later entries win on id or name collision.
package catalog

import (
	"strings"

	"github.com/rotnitxe/yourprime/internal/models"
)

// Index provides O(1) involvement lookup by exercise id, with a
// case-insensitive name fallback for legacy logs created before the
// exercise existed in the catalog.
type Index struct {
	byID   map[string]models.ExerciseMuscleInfo
	byName map[string]models.ExerciseMuscleInfo
}

// NewIndex builds an Index over the given entries.
func NewIndex(entries []models.ExerciseMuscleInfo) *Index {
	ix := &Index{
		byID:   make(map[string]models.ExerciseMuscleInfo, len(entries)),
		byName: make(map[string]models.ExerciseMuscleInfo, len(entries)),
	}
	for _, e := range entries {
		if e.ID != "" {
			ix.byID[e.ID] = e
		}
		if e.Name != "" {
			ix.byName[strings.ToLower(strings.TrimSpace(e.Name))] = e
		}
	}
	return ix
}

// Lookup finds a catalog entry by id, falling back to a case-insensitive
// name match when the id is empty or unknown.
func (ix *Index) Lookup(id, name string) (models.ExerciseMuscleInfo, bool) {
	if id != "" {
		if e, ok := ix.byID[id]; ok {
			return e, true
		}
	}
	if name != "" {
		if e, ok := ix.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			return e, true
		}
	}
	return models.ExerciseMuscleInfo{}, false
}

// Involvement returns the valid muscle involvements for an exercise, or nil
// when neither id nor name resolves. An unknown exercise contributes zero
// volume to any muscle; it is not an error. Malformed involvement entries
// (empty muscle, activation outside [0,1]) are dropped here so the
// aggregator never sees them.
func (ix *Index) Involvement(id, name string) []models.MuscleInvolvement {
	e, ok := ix.Lookup(id, name)
	if !ok {
		return nil
	}
	out := make([]models.MuscleInvolvement, 0, len(e.InvolvedMuscles))
	for _, mi := range e.InvolvedMuscles {
		if mi.Valid() {
			out = append(out, mi)
		}
	}
	return out
}

// Len returns the number of distinct entries indexed by id.
func (ix *Index) Len() int {
	return len(ix.byID)
}
