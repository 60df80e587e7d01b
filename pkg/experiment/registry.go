package experiment

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/mjoliard/deconfound/pkg/regress"
)

// Registry maps model keys to fitted models. It only ever grows: there
// is no removal. A completed run holds exactly four models per grid
// cell, one per (paradigm, transform status) pair.
type Registry struct {
	mu     sync.RWMutex
	models map[Key]regress.Model
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[Key]regress.Model)}
}

// Add registers a fitted model under a key. Keys are single-assignment.
func (r *Registry) Add(key Key, model regress.Model) error {
	if model == nil {
		return errors.Wrapf(ErrModelMustBeSet, "key %q", key.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[key]; ok {
		return errors.Wrapf(ErrModelExists, "key %q", key.Name())
	}
	r.models[key] = model

	return nil
}

// Get returns the model registered under a key.
func (r *Registry) Get(key Key) (regress.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, ok := r.models[key]
	if !ok {
		return nil, errors.Wrapf(ErrModelNotFound, "key %q", key.Name())
	}

	return model, nil
}

// GetByName returns the model whose key renders to the given legacy
// name.
func (r *Registry) GetByName(name string) (regress.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for key, model := range r.models {
		if key.Name() == name {
			return model, nil
		}
	}

	return nil, errors.Wrapf(ErrModelNotFound, "name %q", name)
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.models)
}

// Keys returns all keys in a deterministic order: by sample size, rho,
// paradigm, then transform status.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]Key, 0, len(r.models))
	for key := range r.models {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.N != b.N {
			return a.N < b.N
		}
		if a.Rho != b.Rho {
			return a.Rho < b.Rho
		}
		if a.Paradigm != b.Paradigm {
			return a.Paradigm < b.Paradigm
		}

		return !a.Residualized && b.Residualized
	})

	return keys
}
