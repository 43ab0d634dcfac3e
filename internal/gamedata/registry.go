package gamedata

import (
	"github.com/samdwyer/barquest/internal/dice"
)

// Registry holds loaded definitions and provides lookup by id.
type Registry[T any] struct {
	byID map[string]*T
	all  []T
}

// NewRegistry creates a registry keyed by the id each definition reports.
// Later duplicates shadow earlier ones in lookups.
func NewRegistry[T any](items []T, id func(*T) string) *Registry[T] {
	r := &Registry[T]{
		byID: make(map[string]*T, len(items)),
		all:  items,
	}
	for i := range items {
		r.byID[id(&items[i])] = &items[i]
	}
	return r
}

// GetByID returns the definition with the given id, or nil if not found.
func (r *Registry[T]) GetByID(id string) *T {
	if r == nil {
		return nil
	}
	return r.byID[id]
}

// GetMultiple returns definitions for a list of ids.
// Missing ids are silently skipped.
func (r *Registry[T]) GetMultiple(ids []string) []*T {
	result := make([]*T, 0, len(ids))
	for _, id := range ids {
		if def := r.GetByID(id); def != nil {
			result = append(result, def)
		}
	}
	return result
}

// Filter returns pointers to every definition matching keep.
func (r *Registry[T]) Filter(keep func(*T) bool) []*T {
	if r == nil {
		return nil
	}
	var result []*T
	for i := range r.all {
		if keep(&r.all[i]) {
			result = append(result, &r.all[i])
		}
	}
	return result
}

// All returns all definitions in file order.
func (r *Registry[T]) All() []T {
	if r == nil {
		return nil
	}
	return r.all
}

// Count returns the number of definitions in the registry.
func (r *Registry[T]) Count() int {
	if r == nil {
		return 0
	}
	return len(r.all)
}

// SpawnRandom selects a monster from pool using weighted probability.
// Monsters with higher spawnWeight are more likely to be selected; a zero
// weight counts as 1.
func SpawnRandom(r dice.Roller, pool []*MonsterDef) *MonsterDef {
	if len(pool) == 0 {
		return nil
	}
	weights := make([]float64, len(pool))
	for i, m := range pool {
		weights[i] = float64(max(1, m.SpawnWeight))
	}
	idx := dice.Weighted(r, weights)
	if idx < 0 {
		return pool[0]
	}
	return pool[idx]
}
