package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r, err := NewDefaultRegistry()
	if err != nil {
		t.Fatalf("NewDefaultRegistry: %v", err)
	}

	cases := []struct {
		schema, element, qualifier string
		want                       bool
	}{
		{"dc", "title", "", true},
		{"dc", "title", "alternative", true},
		{"dc", "contributor", "author", true},
		{"dc", "date", "issued", true},
		{"dcterms", "issued", "", true},
		{"person", "identifier", "orcid", true},
		{"dspace", "orcid", "sync-mode", true},
		{"oairecerif", "author", "affiliation", true},
		{"dc", "title", "bogus", false},
		{"nope", "title", "", false},
	}
	for _, tc := range cases {
		_, ok := r.Field(tc.schema, tc.element, tc.qualifier)
		if ok != tc.want {
			t.Errorf("Field(%s, %s, %s) = %v, want %v", tc.schema, tc.element, tc.qualifier, ok, tc.want)
		}
	}

	f, ok := r.FieldByName("dc.date.issued")
	if !ok {
		t.Fatal("dc.date.issued not found")
	}
	if f.ScopeNote == "" {
		t.Error("expected scope note on dc.date.issued")
	}

	s, ok := r.SchemaByNamespace("http://purl.org/dc/terms/")
	if !ok || s.Prefix != "dcterms" {
		t.Errorf("SchemaByNamespace(dcterms) = %v, %v", s, ok)
	}
}

func TestAddSchemaAndField(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AddField("x", "title", "", ""); !errors.Is(err, ErrUnknownSchema) {
		t.Fatalf("AddField on missing schema: got %v, want ErrUnknownSchema", err)
	}
	if _, err := r.AddSchema("x", "http://example.org/x"); err != nil {
		t.Fatalf("AddSchema: %v", err)
	}
	if _, err := r.AddSchema("y", "http://example.org/x"); !errors.Is(err, ErrSchemaExists) {
		t.Fatalf("duplicate namespace: got %v, want ErrSchemaExists", err)
	}
	first, err := r.AddField("x", "title", "main", "note")
	if err != nil {
		t.Fatalf("AddField: %v", err)
	}
	again, err := r.AddField("x", "title", "main", "")
	if err != nil {
		t.Fatalf("AddField again: %v", err)
	}
	if first != again {
		t.Error("adding an existing field should return the stored one")
	}
	if got := first.Name(); got != "x.title.main" {
		t.Errorf("Name() = %q", got)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
schemas:
  - prefix: dc
    namespace: http://dublincore.org/documents/dcmi-terms/
    fields:
      - element: title
        qualifier: sort
  - prefix: thesis
    namespace: http://example.org/thesis
    fields:
      - degree.name
      - degree.level
`)
	if err := os.WriteFile(filepath.Join(dir, "extra.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewDefaultRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.LoadFromPath(dir); err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if _, ok := r.Field("dc", "title", "sort"); !ok {
		t.Error("dc.title.sort not loaded")
	}
	if got := len(r.FieldsOf("thesis")); got != 2 {
		t.Errorf("thesis fields = %d, want 2", got)
	}
	if _, ok := r.Field("dc", "title", ""); !ok {
		t.Error("existing dc fields lost")
	}
}

func TestMerge(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	if _, err := b.AddSchema("local", "http://example.org/local"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddField("local", "note", "", ""); err != nil {
		t.Fatal(err)
	}
	a.Merge(b)
	if _, ok := a.Field("local", "note", ""); !ok {
		t.Error("merged field missing")
	}
}
