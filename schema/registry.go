package schema

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry memoizes [Define] per model type, so entity metadata is built
// once by reflection and shared for the process lifetime. Safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tables map[reflect.Type]*Table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[reflect.Type]*Table)}
}

// Table returns the metadata for the model, defining it on first use. The
// first registration of a type wins; asking for the same type under a
// different table name is an error.
func (r *Registry) Table(model any, table string) (*Table, error) {
	rt := modelType(model)
	if rt == nil {
		return nil, fmt.Errorf("%w, got %T", ErrNotStruct, model)
	}

	r.mu.RLock()
	t, ok := r.tables[rt]
	r.mu.RUnlock()
	if ok {
		if t.name != table {
			return nil, fmt.Errorf("%w: %s is %q, not %q", ErrTableConflict, rt, t.name, table)
		}
		return t, nil
	}

	built, err := Define(model, table)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tables[rt]; ok {
		// Lost a define race; the first registration stands.
		if t.name != table {
			return nil, fmt.Errorf("%w: %s is %q, not %q", ErrTableConflict, rt, t.name, table)
		}
		return t, nil
	}
	r.tables[rt] = built
	return built, nil
}

// MustTable is like [Table] but panics on error.
func (r *Registry) MustTable(model any, table string) *Table {
	t, err := r.Table(model, table)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of registered entity types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
