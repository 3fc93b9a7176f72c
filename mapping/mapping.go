// Package mapping provides the field tables crosswalks are driven by: which
// DSpace metadata field becomes which element of a target vocabulary, plus
// key/value tables for value converters.
package mapping

import (
	"sort"
	"strings"
)

// Profile is a complete mapping configuration for one vocabulary.
type Profile struct {
	// Name is the profile identifier (e.g., "qdc", "mods")
	Name string `yaml:"name" json:"name"`

	// Format is the target vocabulary (e.g., "dublincore", "mods", "xhtml")
	Format string `yaml:"format" json:"format"`

	// Version is the vocabulary version the profile targets (e.g., "3.7" for MODS)
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// SchemaURL is an optional URL of the vocabulary schema (XSD)
	SchemaURL string `yaml:"schema_url,omitempty" json:"schema_url,omitempty"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Namespaces maps the prefixes used in element names to URIs
	Namespaces map[string]string `yaml:"namespaces,omitempty" json:"namespaces,omitempty"`

	// Fields maps DSpace field names (schema.element[.qualifier]) to targets
	Fields map[string]FieldMapping `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Values is a lookup table for value converters
	Values map[string]string `yaml:"values,omitempty" json:"values,omitempty"`

	// Default is returned by value converters when a key is not in Values
	Default string `yaml:"default,omitempty" json:"default,omitempty"`

	// Options contains vocabulary-specific options
	Options ProfileOptions `yaml:"options,omitempty" json:"options,omitempty"`
}

// VersionedName returns the profile name with version (e.g., "mods@3.7")
func (p *Profile) VersionedName() string {
	if p.Version != "" {
		return p.Name + "@" + p.Version
	}
	return p.Name
}

// FieldMapping describes where one DSpace field goes.
type FieldMapping struct {
	// Element is the target element: a prefixed name ("dcterms:issued"), a
	// meta name ("DC.title") or a slash path ("originInfo/dateIssued")
	Element string `yaml:"element" json:"element"`

	// Attributes are fixed attributes set on the target element
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`

	// Scheme is the encoding scheme of the value (e.g., "DCTERMS.W3CDTF")
	Scheme string `yaml:"scheme,omitempty" json:"scheme,omitempty"`

	// Role is the MARC relator term for name mappings
	Role string `yaml:"role,omitempty" json:"role,omitempty"`

	// Transform specifies a transformation to apply (e.g., "strip_html")
	Transform string `yaml:"transform,omitempty" json:"transform,omitempty"`

	// Priority decides which field wins when several map to the same
	// element on ingest (higher wins)
	Priority int `yaml:"priority,omitempty" json:"priority,omitempty"`

	// DisseminateOnly keeps the mapping out of Reverse
	DisseminateOnly bool `yaml:"disseminate_only,omitempty" json:"disseminate_only,omitempty"`
}

// Key identifies the target of a mapping: the element plus its fixed
// attributes in a stable order, e.g. "titleInfo/title[type=alternative]".
func (m FieldMapping) Key() string {
	return ElementKey(m.Element, m.Attributes)
}

// ElementKey builds the key Reverse indexes by.
func ElementKey(element string, attrs map[string]string) string {
	if len(attrs) == 0 {
		return element
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(element)
	b.WriteByte('[')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(attrs[name])
	}
	b.WriteByte(']')
	return b.String()
}

// ProfileOptions contains vocabulary-specific configuration options.
type ProfileOptions struct {
	// Root is the root element of disseminated documents (e.g., "oai_dc:dc")
	Root string `yaml:"root,omitempty" json:"root,omitempty"`

	// SchemaLocation is written as xsi:schemaLocation on the root
	SchemaLocation string `yaml:"schema_location,omitempty" json:"schema_location,omitempty"`

	// Exclude lists DSpace fields that are never disseminated
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`

	// StripHTML strips HTML from every value
	StripHTML bool `yaml:"strip_html,omitempty" json:"strip_html,omitempty"`
}

// Excluded reports whether field is listed in Options.Exclude.
func (p *Profile) Excluded(field string) bool {
	for _, ex := range p.Options.Exclude {
		if ex == field {
			return true
		}
	}
	return false
}

// GetFieldMapping retrieves the mapping for a DSpace field.
func (p *Profile) GetFieldMapping(field string) (FieldMapping, bool) {
	m, ok := p.Fields[field]
	return m, ok
}

// FieldNames returns the mapped DSpace fields in sorted order.
func (p *Profile) FieldNames() []string {
	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Namespace returns the URI bound to prefix, or "".
func (p *Profile) Namespace(prefix string) string {
	return p.Namespaces[prefix]
}

// Reverse maps each target key back to the DSpace field it is ingested
// into. When several fields share a target the highest priority wins, then
// the alphabetically first field name.
func (p *Profile) Reverse() map[string]string {
	out := make(map[string]string, len(p.Fields))
	best := make(map[string]int, len(p.Fields))
	for _, field := range p.FieldNames() {
		m := p.Fields[field]
		if m.DisseminateOnly {
			continue
		}
		k := m.Key()
		if have, ok := best[k]; ok && have >= m.Priority {
			continue
		}
		out[k] = field
		best[k] = m.Priority
	}
	return out
}

// FieldsForElement returns the DSpace fields that map to element,
// regardless of attributes, sorted by name.
func (p *Profile) FieldsForElement(element string) []string {
	var out []string
	for _, field := range p.FieldNames() {
		if p.Fields[field].Element == element {
			out = append(out, field)
		}
	}
	return out
}

// SplitName splits "prefix:local" into its parts. A name without a colon
// has an empty prefix.
func SplitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// MergeProfiles merges a custom profile over a base profile.
// Custom fields and values override base ones.
func MergeProfiles(base, custom *Profile) *Profile {
	merged := &Profile{
		Name:        custom.Name,
		Format:      custom.Format,
		Version:     custom.Version,
		Description: custom.Description,
		Default:     custom.Default,
		Namespaces:  make(map[string]string),
		Fields:      make(map[string]FieldMapping),
		Values:      make(map[string]string),
		Options:     base.Options,
	}

	if merged.Format == "" {
		merged.Format = base.Format
	}
	if merged.Version == "" {
		merged.Version = base.Version
	}
	if merged.Description == "" {
		merged.Description = base.Description
	}
	if merged.Default == "" {
		merged.Default = base.Default
	}

	for k, v := range base.Namespaces {
		merged.Namespaces[k] = v
	}
	for k, v := range custom.Namespaces {
		merged.Namespaces[k] = v
	}
	for k, v := range base.Fields {
		merged.Fields[k] = v
	}
	for k, v := range custom.Fields {
		merged.Fields[k] = v
	}
	for k, v := range base.Values {
		merged.Values[k] = v
	}
	for k, v := range custom.Values {
		merged.Values[k] = v
	}

	if custom.Options.Root != "" {
		merged.Options.Root = custom.Options.Root
	}
	if custom.Options.SchemaLocation != "" {
		merged.Options.SchemaLocation = custom.Options.SchemaLocation
	}
	if len(custom.Options.Exclude) > 0 {
		merged.Options.Exclude = custom.Options.Exclude
	}
	if custom.Options.StripHTML {
		merged.Options.StripHTML = true
	}

	return merged
}
