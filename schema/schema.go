// Package schema holds the metadata schema and field registry: which
// schema.element.qualifier fields exist and which namespace each schema
// prefix stands for. Crosswalks consult it before storing a value.
package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema is a metadata schema such as dc or dcterms.
type Schema struct {
	// Prefix is the short name used in field names (e.g., "dc")
	Prefix string `yaml:"prefix" json:"prefix"`

	// Namespace is the schema URI
	Namespace string `yaml:"namespace" json:"namespace"`

	// Fields declared under the schema in YAML. The registry indexes them
	// separately once loaded.
	Fields []Field `yaml:"fields,omitempty" json:"-"`
}

// Field is a registered metadata field.
type Field struct {
	Schema    string `yaml:"-" json:"schema"`
	Element   string `yaml:"element" json:"element"`
	Qualifier string `yaml:"qualifier,omitempty" json:"qualifier,omitempty"`
	ScopeNote string `yaml:"scope_note,omitempty" json:"scope_note,omitempty"`
}

// Name returns schema.element[.qualifier].
func (f Field) Name() string {
	return key(f.Schema, f.Element, f.Qualifier)
}

// UnmarshalYAML accepts either a mapping or the short form
// "element[.qualifier]".
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		element, qualifier, _ := strings.Cut(node.Value, ".")
		if element == "" {
			return fmt.Errorf("line %d: empty field name", node.Line)
		}
		f.Element = element
		f.Qualifier = qualifier
		return nil
	}
	type plain Field
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Element == "" {
		return fmt.Errorf("line %d: field without element", node.Line)
	}
	*f = Field(p)
	return nil
}

func key(schema, element, qualifier string) string {
	if qualifier == "" {
		return schema + "." + element
	}
	return schema + "." + element + "." + qualifier
}
