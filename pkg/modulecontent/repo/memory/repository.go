package memory

import (
	"context"
	"sync"

	"github.com/trainware/module-content/pkg/modulecontent"
)

// Repository is an in-memory implementation of modulecontent.Repository.
// Identifiers are assigned from a serial counter at insertion, mirroring the
// bigserial column of the Postgres implementation.
type Repository struct {
	mu      sync.RWMutex
	modules map[int64]modulecontent.Module
	nextID  int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		modules: make(map[int64]modulecontent.Module),
		nextID:  1,
	}
}

// CreateModule inserts the record and assigns its identifier.
func (r *Repository) CreateModule(ctx context.Context, module *modulecontent.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	module.ID = r.nextID
	r.nextID++
	r.modules[module.ID] = *module
	return nil
}

// GetModule returns the record or ErrModuleNotFound.
func (r *Repository) GetModule(ctx context.Context, id int64) (*modulecontent.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.modules[id]
	if !exists {
		return nil, modulecontent.ErrModuleNotFound
	}
	out := m
	return &out, nil
}

// UpdateModule overwrites the stored record.
func (r *Repository) UpdateModule(ctx context.Context, module *modulecontent.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[module.ID]; !exists {
		return modulecontent.ErrModuleNotFound
	}
	r.modules[module.ID] = *module
	return nil
}

// SetNextID pins the next identifier the repository will assign. Tests use
// it to stage a gap between a provisional and a real identifier.
func (r *Repository) SetNextID(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID = id
}
