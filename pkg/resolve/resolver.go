// Package resolve populates form-element values from external data sources
// according to each element's binding and the field catalog. Resolution is
// best-effort by design: a failing integration leaves its fields unfilled and
// never blocks unrelated fields or surfaces an error to the caller.
package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/registry"
)

// ExternalDataSource is the persistence/network collaborator performing the
// actual fetch. Implementations return the JSON-decoded payload.
type ExternalDataSource interface {
	Fetch(ctx context.Context, endpoint string, subject Payload) (any, error)
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithLogger attaches a logger for partial-failure reporting.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// WithClock overrides the time source used by the current_date pseudo-field.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// Resolver resolves element values against a field registry and an external
// data source. The coalescing cache is scoped to the resolver instance and
// lives until ClearCache, so one resolver should serve one patient session.
type Resolver struct {
	registry *registry.Registry
	source   ExternalDataSource
	cache    *fetchCache
	log      zerolog.Logger
	now      func() time.Time
}

// New constructs a Resolver. The external source may be nil, in which case
// only context and current_date fields resolve.
func New(reg *registry.Registry, source ExternalDataSource, options ...Option) *Resolver {
	r := &Resolver{
		registry: reg,
		source:   source,
		cache:    newFetchCache(),
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// ClearCache drops every cached fetch result, e.g. between patients.
func (r *Resolver) ClearCache() {
	r.cache.clear()
}

// Resolve produces a value per element key for every element whose binding
// can be resolved automatically. MODEL_OPEN fields are skipped, missing paths
// leave the field unset, and per-endpoint failures are logged and isolated.
func (r *Resolver) Resolve(ctx context.Context, elements []document.FormElement, cc ClinicalContext) map[string]any {
	values := make(map[string]any)
	for _, el := range elements {
		if el.ElementKey == "" {
			continue
		}
		if value, ok := r.resolveElement(ctx, el, cc); ok {
			values[el.ElementKey] = value
		}
	}
	return values
}

// ResolveField resolves the elements bound to one catalog field, plus the
// fields its group_of cascade declares, all from the same fetched payload.
// This is the on-click entry point; Resolve covers the on-render sweep.
func (r *Resolver) ResolveField(ctx context.Context, elements []document.FormElement, fieldID string, cc ClinicalContext) map[string]any {
	wanted := map[string]bool{fieldID: true}
	if r.registry != nil {
		if def, ok := r.registry.Lookup(fieldID); ok {
			for _, id := range def.GroupOf.GroupAutofillIDs {
				wanted[id] = true
			}
		}
	}

	values := make(map[string]any)
	for _, el := range elements {
		if el.ElementKey == "" || !wanted[el.DataField] {
			continue
		}
		if value, ok := r.resolveElement(ctx, el, cc); ok {
			values[el.ElementKey] = value
		}
	}
	return values
}

func (r *Resolver) resolveElement(ctx context.Context, el document.FormElement, cc ClinicalContext) (any, bool) {
	if el.DataField == registry.FieldCurrentDate {
		return r.now().Format("2006-01-02"), true
	}
	if el.DataField != "" && r.registry != nil {
		if def, ok := r.registry.Lookup(el.DataField); ok {
			return r.resolveCatalogField(ctx, el, def, cc)
		}
	}
	if el.DataBinding != nil {
		return r.resolveBinding(ctx, el, cc)
	}
	return nil, false
}

func (r *Resolver) resolveCatalogField(ctx context.Context, el document.FormElement, def registry.FieldDef, cc ClinicalContext) (any, bool) {
	switch def.Actions.Type {
	case registry.ActionContextAPI:
		return cc.Value(def.ContextKey)
	case registry.ActionModelOpen:
		// Populated later by an explicit user action.
		return nil, false
	case registry.ActionAPICall:
		payload, err := r.fetch(ctx, def.Actions.API, cc)
		if err != nil {
			r.log.Warn().Err(err).
				Str("field", def.ID).
				Str("endpoint", def.Actions.API).
				Msg("auto-fill fetch failed; leaving field unset")
			return nil, false
		}
		return LookupPath(payload, def.DataPath)
	default:
		return nil, false
	}
}

// resolveBinding handles element-level data_binding descriptors for elements
// not backed by a catalog field. Malformed descriptors resolve to nothing.
func (r *Resolver) resolveBinding(ctx context.Context, el document.FormElement, cc ClinicalContext) (any, bool) {
	binding := el.DataBinding
	if binding.Type != document.BindingAPI || binding.APIEndpoint == "" {
		return nil, false
	}
	payload, err := r.fetch(ctx, binding.APIEndpoint, cc)
	if err != nil {
		r.log.Warn().Err(err).
			Str("elementKey", el.ElementKey).
			Str("endpoint", binding.APIEndpoint).
			Msg("binding fetch failed")
		if binding.FallbackValue != "" {
			return binding.FallbackValue, true
		}
		return nil, false
	}
	if binding.DataPath != "" {
		return LookupPath(payload, binding.DataPath)
	}
	return payload, payload != nil
}

func (r *Resolver) fetch(ctx context.Context, endpoint string, cc ClinicalContext) (any, error) {
	if r.source == nil {
		return nil, fmt.Errorf("resolve: no external data source configured")
	}
	key := endpoint + "|" + cc.SubjectID()
	return r.cache.do(ctx, key, func() (any, error) {
		return r.source.Fetch(ctx, endpoint, cc.SubjectPayload())
	})
}
