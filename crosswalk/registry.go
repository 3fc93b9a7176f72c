package crosswalk

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Constructor builds a crosswalk bound to env.
type Constructor func(env *Env) (Crosswalk, error)

// Registry holds registered crosswalk constructors.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// DefaultRegistry is the global crosswalk registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new crosswalk registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[string]Constructor),
	}
}

// Register adds a crosswalk under name. Names are case-insensitive.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[strings.ToLower(name)] = ctor
}

// Build constructs the crosswalk registered under name.
func (r *Registry) Build(name string, env *Env) (Crosswalk, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown crosswalk: %s", name)
	}
	cw, err := ctor(env)
	if err != nil {
		return nil, fmt.Errorf("creating crosswalk %s: %w", name, err)
	}
	return cw, nil
}

// Disseminator retrieves a disseminating crosswalk by name.
func (r *Registry) Disseminator(name string, env *Env) (Disseminator, error) {
	cw, err := r.Build(name, env)
	if err != nil {
		return nil, err
	}
	d, ok := cw.(Disseminator)
	if !ok {
		return nil, fmt.Errorf("crosswalk %s does not support dissemination", name)
	}
	return d, nil
}

// Ingester retrieves an ingesting crosswalk by name.
func (r *Registry) Ingester(name string, env *Env) (Ingester, error) {
	cw, err := r.Build(name, env)
	if err != nil {
		return nil, err
	}
	in, ok := cw.(Ingester)
	if !ok {
		return nil, fmt.Errorf("crosswalk %s does not support ingestion", name)
	}
	return in, nil
}

// StreamDisseminator retrieves a stream disseminator by name.
func (r *Registry) StreamDisseminator(name string, env *Env) (StreamDisseminator, error) {
	cw, err := r.Build(name, env)
	if err != nil {
		return nil, err
	}
	d, ok := cw.(StreamDisseminator)
	if !ok {
		return nil, fmt.Errorf("crosswalk %s does not support stream dissemination", name)
	}
	return d, nil
}

// StreamIngester retrieves a stream ingester by name.
func (r *Registry) StreamIngester(name string, env *Env) (StreamIngester, error) {
	cw, err := r.Build(name, env)
	if err != nil {
		return nil, err
	}
	in, ok := cw.(StreamIngester)
	if !ok {
		return nil, fmt.Errorf("crosswalk %s does not support stream ingestion", name)
	}
	return in, nil
}

// List returns all registered crosswalk names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info summarises what a registered crosswalk can do.
type Info struct {
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Disseminate       bool        `json:"disseminate"`
	Ingest            bool        `json:"ingest"`
	StreamDisseminate bool        `json:"streamDisseminate"`
	StreamIngest      bool        `json:"streamIngest"`
	Namespaces        []Namespace `json:"namespaces,omitempty"`
	SchemaLocation    string      `json:"schemaLocation,omitempty"`
}

// Describe builds every registered crosswalk against env and reports its
// capabilities, ordered by name.
func (r *Registry) Describe(env *Env) ([]Info, error) {
	var out []Info
	for _, name := range r.List() {
		cw, err := r.Build(name, env)
		if err != nil {
			return nil, err
		}
		info := Info{Name: name, Description: cw.Description()}
		if d, ok := cw.(Disseminator); ok {
			info.Disseminate = true
			info.Namespaces = d.Namespaces()
			info.SchemaLocation = d.SchemaLocation()
		}
		_, info.Ingest = cw.(Ingester)
		_, info.StreamDisseminate = cw.(StreamDisseminator)
		_, info.StreamIngest = cw.(StreamIngester)
		out = append(out, info)
	}
	return out, nil
}

// Register adds a crosswalk to the default registry.
func Register(name string, ctor Constructor) {
	DefaultRegistry.Register(name, ctor)
}

// GetDisseminator retrieves a disseminator from the default registry.
func GetDisseminator(name string, env *Env) (Disseminator, error) {
	return DefaultRegistry.Disseminator(name, env)
}

// GetIngester retrieves an ingester from the default registry.
func GetIngester(name string, env *Env) (Ingester, error) {
	return DefaultRegistry.Ingester(name, env)
}

// GetStreamDisseminator retrieves a stream disseminator from the default
// registry.
func GetStreamDisseminator(name string, env *Env) (StreamDisseminator, error) {
	return DefaultRegistry.StreamDisseminator(name, env)
}

// GetStreamIngester retrieves a stream ingester from the default registry.
func GetStreamIngester(name string, env *Env) (StreamIngester, error) {
	return DefaultRegistry.StreamIngester(name, env)
}

// List returns the names in the default registry.
func List() []string {
	return DefaultRegistry.List()
}
