// Package registry exposes the static catalog of data-bindable clinical
// fields. Entries are immutable and drive the binding resolver: each one
// declares how its value is obtained (API fetch, clinical-context lookup, or a
// user-driven modal flow) and when resolution triggers.
package registry

import (
	"fmt"

	"github.com/goliatone/go-notegen/internal/catalog"
)

// ActionType re-exports the catalog action enumeration.
type ActionType = catalog.ActionType

const (
	ActionAPICall    = catalog.ActionAPICall
	ActionModelOpen  = catalog.ActionModelOpen
	ActionContextAPI = catalog.ActionContextAPI
)

// FieldCurrentDate is the pseudo-field that always resolves locally to "now".
const FieldCurrentDate = catalog.FieldCurrentDate

// FieldDef is one static catalog entry.
type FieldDef = catalog.FieldDef

// Actions describes a field definition's fetch behavior.
type Actions = catalog.Actions

// CallTime declares when a field's resolution is triggered.
type CallTime = catalog.CallTime

// GroupOf declares a field's auto-fill cascade.
type GroupOf = catalog.GroupOf

// Registry is an immutable field catalog looked up by id.
type Registry struct {
	ordered []FieldDef
	byID    map[string]FieldDef
}

// New builds a registry from the given definitions. Later duplicates of an id
// are rejected so catalog extensions cannot silently shadow built-ins.
func New(fields []FieldDef) (*Registry, error) {
	r := &Registry{
		ordered: make([]FieldDef, 0, len(fields)),
		byID:    make(map[string]FieldDef, len(fields)),
	}
	for _, field := range fields {
		if field.ID == "" {
			return nil, fmt.Errorf("registry: field definition without id")
		}
		if _, exists := r.byID[field.ID]; exists {
			return nil, fmt.Errorf("registry: duplicate field %q", field.ID)
		}
		r.byID[field.ID] = field
		r.ordered = append(r.ordered, field)
	}
	return r, nil
}

// Default returns the registry backed by the embedded clinical catalog.
func Default() (*Registry, error) {
	fields, err := catalog.DefaultFields()
	if err != nil {
		return nil, fmt.Errorf("registry: load embedded catalog: %w", err)
	}
	return New(fields)
}

// MustDefault panics when the embedded catalog fails to load. Useful for
// init-time wiring.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the definition for id.
func (r *Registry) Lookup(id string) (FieldDef, bool) {
	field, ok := r.byID[id]
	return field, ok
}

// List returns every definition in catalog order.
func (r *Registry) List() []FieldDef {
	out := make([]FieldDef, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByCategory returns the definitions of one category in catalog order.
func (r *Registry) ByCategory(category string) []FieldDef {
	var out []FieldDef
	for _, field := range r.ordered {
		if field.Category == category {
			out = append(out, field)
		}
	}
	return out
}
