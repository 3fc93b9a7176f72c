package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var defaultRegistry []byte

var (
	// ErrSchemaExists is returned when adding a schema whose prefix or
	// namespace is taken.
	ErrSchemaExists = errors.New("schema already exists")
	// ErrUnknownSchema is returned when adding a field to a missing schema.
	ErrUnknownSchema = errors.New("unknown metadata schema")
)

// Registry holds metadata schemas and fields.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
	fields  map[string]*Field
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]*Schema),
		fields:  make(map[string]*Field),
	}
}

// NewDefaultRegistry returns a registry seeded with the built-in schemas.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadFromYAML(defaultRegistry); err != nil {
		return nil, fmt.Errorf("loading built-in registry: %w", err)
	}
	return r, nil
}

// AddSchema registers a schema.
func (r *Registry) AddSchema(prefix, namespace string) (*Schema, error) {
	if prefix == "" {
		return nil, errors.New("empty schema prefix")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemas[prefix]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaExists, prefix)
	}
	for _, s := range r.schemas {
		if namespace != "" && s.Namespace == namespace {
			return nil, fmt.Errorf("%w: namespace %s is used by %s", ErrSchemaExists, namespace, s.Prefix)
		}
	}
	s := &Schema{Prefix: prefix, Namespace: namespace}
	r.schemas[prefix] = s
	return s, nil
}

// AddField registers a field. Adding an existing field returns it unchanged.
func (r *Registry) AddField(schema, element, qualifier, scopeNote string) (*Field, error) {
	if element == "" {
		return nil, errors.New("empty element")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemas[schema]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, schema)
	}
	k := key(schema, element, qualifier)
	if f, ok := r.fields[k]; ok {
		return f, nil
	}
	f := &Field{Schema: schema, Element: element, Qualifier: qualifier, ScopeNote: scopeNote}
	r.fields[k] = f
	return f, nil
}

// Schema returns the schema with the given prefix.
func (r *Registry) Schema(prefix string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[prefix]
	return s, ok
}

// SchemaByNamespace returns the schema with the given namespace URI.
func (r *Registry) SchemaByNamespace(namespace string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.schemas {
		if s.Namespace == namespace {
			return s, true
		}
	}
	return nil, false
}

// Field returns the field with the given parts. An empty qualifier names the
// unqualified field.
func (r *Registry) Field(schema, element, qualifier string) (*Field, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fields[key(schema, element, qualifier)]
	return f, ok
}

// FieldByName looks a field up by its dotted name.
func (r *Registry) FieldByName(name string) (*Field, bool) {
	parts := strings.Split(name, ".")
	switch len(parts) {
	case 2:
		return r.Field(parts[0], parts[1], "")
	case 3:
		return r.Field(parts[0], parts[1], parts[2])
	}
	return nil, false
}

// Schemas returns the schemas ordered by prefix.
func (r *Registry) Schemas() []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// Fields returns every field ordered by name.
func (r *Registry) Fields() []*Field {
	return r.FieldsOf("")
}

// FieldsOf returns the fields of one schema ordered by name. An empty prefix
// returns all fields.
func (r *Registry) FieldsOf(prefix string) []*Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Field
	for _, f := range r.fields {
		if prefix == "" || f.Schema == prefix {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Merge copies the schemas and fields of other into r. Schemas already in r
// keep their namespace.
func (r *Registry) Merge(other *Registry) {
	for _, s := range other.Schemas() {
		if _, ok := r.Schema(s.Prefix); !ok {
			_, _ = r.AddSchema(s.Prefix, s.Namespace)
		}
	}
	for _, f := range other.Fields() {
		_, _ = r.AddField(f.Schema, f.Element, f.Qualifier, f.ScopeNote)
	}
}

// =============================================================================
// YAML LOADING
// =============================================================================

// Config is the top-level YAML registry format.
type Config struct {
	Version string   `yaml:"version"`
	Schemas []Schema `yaml:"schemas"`
}

// LoadFromYAML adds the schemas and fields in data. Fields of a schema that
// is already registered are added to it.
func (r *Registry) LoadFromYAML(data []byte) error {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	for _, s := range config.Schemas {
		if _, ok := r.Schema(s.Prefix); !ok {
			if _, err := r.AddSchema(s.Prefix, s.Namespace); err != nil {
				return err
			}
		}
		for _, f := range s.Fields {
			if _, err := r.AddField(s.Prefix, f.Element, f.Qualifier, f.ScopeNote); err != nil {
				return fmt.Errorf("schema %s: %w", s.Prefix, err)
			}
		}
	}
	return nil
}

// LoadFromPath loads registry files from a file or directory.
func (r *Registry) LoadFromPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isYAMLFile(p) {
				return nil
			}
			return r.loadFile(p)
		})
	}

	return r.loadFile(path)
}

func (r *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := r.LoadFromYAML(data); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func isYAMLFile(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
