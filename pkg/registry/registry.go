package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/store"
	"github.com/google/uuid"
)

// Output is the adapter store of a record table.
type Output = store.Readable[*tabula.Engine[domain.Record]]

// Registry manages the available tables by name.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]*Table),
	}
}

// Register adds a table and keeps its adapter active until Unregister or Close.
func (r *Registry) Register(name string, output Output) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("table name cannot be empty: %w", domain.ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[name]; exists {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrTableExists)
	}

	t := newTable(uuid.NewString(), name, output)
	r.tables[name] = t
	return t, nil
}

// Get looks up a table by name or ID.
func (r *Registry) Get(key string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.tables[key]; ok {
		return t, nil
	}
	for _, t := range r.tables {
		if t.ID == key {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", key, domain.ErrTableNotFound)
}

// List returns the registered tables ordered by name.
func (r *Registry) List() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Unregister removes a table and releases its adapter.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	t, ok := r.tables[name]
	delete(r.tables, name)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%q: %w", name, domain.ErrTableNotFound)
	}
	t.close()
	return nil
}

// Close releases every table.
func (r *Registry) Close() {
	r.mu.Lock()
	tables := r.tables
	r.tables = make(map[string]*Table)
	r.mu.Unlock()

	for _, t := range tables {
		t.close()
	}
}
