package render

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the set of output targets a document can be rendered to.
// Renderers self-describe through Name(); blank names and double
// registration are rejected so wiring mistakes surface at startup.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{targets: map[string]Renderer{}}
}

// Register files a renderer under its Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: nil renderer")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.targets[name]; taken {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.targets[name] = renderer
	return nil
}

// MustRegister is Register for startup wiring, where a failure is a bug.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get looks up a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.targets[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not registered", name)
	}
	return renderer, nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.targets[name]
	return ok
}
