package content

import (
	"errors"
	"fmt"
	"strings"
)

// Any matches every schema, qualifier or language in metadata lookups.
const Any = "*"

// Authority confidence levels.
const (
	ConfidenceUnset     = -1
	ConfidenceNoValue   = 0
	ConfidenceRejected  = 100
	ConfidenceFailed    = 200
	ConfidenceNotFound  = 300
	ConfidenceAmbiguous = 400
	ConfidenceUncertain = 500
	ConfidenceAccepted  = 600
)

var confidenceNames = map[int]string{
	ConfidenceUnset:     "UNSET",
	ConfidenceNoValue:   "NOVALUE",
	ConfidenceRejected:  "REJECTED",
	ConfidenceFailed:    "FAILED",
	ConfidenceNotFound:  "NOTFOUND",
	ConfidenceAmbiguous: "AMBIGUOUS",
	ConfidenceUncertain: "UNCERTAIN",
	ConfidenceAccepted:  "ACCEPTED",
}

// ConfidenceName returns the symbolic name of a confidence value.
func ConfidenceName(c int) string {
	if name, ok := confidenceNames[c]; ok {
		return name
	}
	return confidenceNames[ConfidenceUnset]
}

// ParseConfidence accepts a symbolic name or a number. Anything else is
// ConfidenceUnset.
func ParseConfidence(s string) int {
	s = strings.ToUpper(strings.TrimSpace(s))
	for c, name := range confidenceNames {
		if name == s {
			return c
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
		return n
	}
	return ConfidenceUnset
}

// ErrIndexOutOfRange is returned by positional metadata operations.
var ErrIndexOutOfRange = errors.New("metadata index out of range")

// MetadataField names a schema.element.qualifier triple.
type MetadataField struct {
	Schema    string
	Element   string
	Qualifier string
}

// NewField builds a field from its parts.
func NewField(schema, element, qualifier string) MetadataField {
	return MetadataField{Schema: schema, Element: element, Qualifier: qualifier}
}

// ParseField parses "schema.element" or "schema.element.qualifier".
func ParseField(s string) (MetadataField, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return MetadataField{}, fmt.Errorf("invalid metadata field %q", s)
	}
	f := MetadataField{Schema: parts[0], Element: parts[1]}
	if len(parts) == 3 {
		f.Qualifier = parts[2]
		if f.Qualifier == "" {
			return MetadataField{}, fmt.Errorf("invalid metadata field %q: empty qualifier", s)
		}
	}
	if f.Schema == "" || f.Element == "" {
		return MetadataField{}, fmt.Errorf("invalid metadata field %q", s)
	}
	return f, nil
}

// MustField is ParseField for constants. It panics on malformed input.
func MustField(s string) MetadataField {
	f, err := ParseField(s)
	if err != nil {
		panic(err)
	}
	return f
}

// String joins the field with dots.
func (f MetadataField) String() string {
	return f.Join(".")
}

// Join joins the field parts with sep, leaving out an empty qualifier.
func (f MetadataField) Join(sep string) string {
	if f.Qualifier == "" {
		return f.Schema + sep + f.Element
	}
	return f.Schema + sep + f.Element + sep + f.Qualifier
}

// Matches reports whether the field matches the given parts. Any matches
// every schema or qualifier; an empty qualifier only matches unqualified
// fields.
func (f MetadataField) Matches(schema, element, qualifier string) bool {
	if schema != Any && schema != f.Schema {
		return false
	}
	if element != Any && element != f.Element {
		return false
	}
	if qualifier != Any && qualifier != f.Qualifier {
		return false
	}
	return true
}

// MetadataValue is one value of a metadata field.
type MetadataValue struct {
	Field      MetadataField
	Value      string
	Language   string
	Authority  string
	Confidence int
	Place      int
}

func matchLang(want, have string) bool {
	return want == Any || want == have
}

// Metadata returns the values matching the given field parts and language,
// in place order. The language "" only matches values without a language.
func (o *DSpaceObject) Metadata(schema, element, qualifier, lang string) []MetadataValue {
	var out []MetadataValue
	for _, v := range o.metadata {
		if v.Field.Matches(schema, element, qualifier) && matchLang(lang, v.Language) {
			out = append(out, v)
		}
	}
	return out
}

// AllMetadata returns a copy of every value held by the object.
func (o *DSpaceObject) AllMetadata() []MetadataValue {
	out := make([]MetadataValue, len(o.metadata))
	copy(out, o.metadata)
	return out
}

// Values returns every value of exactly field f, in any language.
func (o *DSpaceObject) Values(f MetadataField) []MetadataValue {
	return o.Metadata(f.Schema, f.Element, f.Qualifier, Any)
}

// FirstValue returns the first value of the named field or "".
func (o *DSpaceObject) FirstValue(field string) string {
	f, err := ParseField(field)
	if err != nil {
		return ""
	}
	vals := o.Values(f)
	if len(vals) == 0 {
		return ""
	}
	return vals[0].Value
}

// AddMetadata appends a value to field f.
func (o *DSpaceObject) AddMetadata(f MetadataField, lang, value, authority string, confidence int) MetadataValue {
	v := MetadataValue{
		Field:      f,
		Value:      value,
		Language:   lang,
		Authority:  authority,
		Confidence: confidence,
		Place:      len(o.positions(f)),
	}
	o.metadata = append(o.metadata, v)
	return v
}

// AddValue appends a plain value to the named field.
func (o *DSpaceObject) AddValue(field, value string) {
	o.AddMetadata(MustField(field), "", value, "", ConfidenceUnset)
}

// InsertMetadata inserts v at position index of its field and shifts the
// following values right. Index may equal the number of values, which
// appends.
func (o *DSpaceObject) InsertMetadata(v MetadataValue, index int) error {
	pos := o.positions(v.Field)
	if index < 0 || index > len(pos) {
		return fmt.Errorf("%w: %d (%s has %d values)", ErrIndexOutOfRange, index, v.Field, len(pos))
	}
	if index == len(pos) {
		o.metadata = append(o.metadata, v)
	} else {
		at := pos[index]
		o.metadata = append(o.metadata, MetadataValue{})
		copy(o.metadata[at+1:], o.metadata[at:])
		o.metadata[at] = v
	}
	o.renumber(v.Field)
	return nil
}

// ClearMetadata removes the values matching the given parts and language and
// returns how many were removed.
func (o *DSpaceObject) ClearMetadata(schema, element, qualifier, lang string) int {
	kept := o.metadata[:0]
	removed := 0
	touched := map[MetadataField]bool{}
	for _, v := range o.metadata {
		if v.Field.Matches(schema, element, qualifier) && matchLang(lang, v.Language) {
			removed++
			touched[v.Field] = true
			continue
		}
		kept = append(kept, v)
	}
	o.metadata = kept
	for f := range touched {
		o.renumber(f)
	}
	return removed
}

// ClearField removes every value of field f.
func (o *DSpaceObject) ClearField(f MetadataField) int {
	return o.ClearMetadata(f.Schema, f.Element, f.Qualifier, Any)
}

// ClearAllMetadata removes every value.
func (o *DSpaceObject) ClearAllMetadata() {
	o.metadata = nil
}

// RemoveMetadataAt removes the value at position index of field f.
func (o *DSpaceObject) RemoveMetadataAt(f MetadataField, index int) (MetadataValue, error) {
	pos := o.positions(f)
	if index < 0 || index >= len(pos) {
		return MetadataValue{}, fmt.Errorf("%w: %d (%s has %d values)", ErrIndexOutOfRange, index, f, len(pos))
	}
	at := pos[index]
	removed := o.metadata[at]
	o.metadata = append(o.metadata[:at], o.metadata[at+1:]...)
	o.renumber(f)
	return removed, nil
}

// ReplaceMetadataAt overwrites the value at position index of field f. The
// field and place of the stored value are kept.
func (o *DSpaceObject) ReplaceMetadataAt(f MetadataField, index int, v MetadataValue) error {
	pos := o.positions(f)
	if index < 0 || index >= len(pos) {
		return fmt.Errorf("%w: %d (%s has %d values)", ErrIndexOutOfRange, index, f, len(pos))
	}
	at := pos[index]
	v.Field = f
	v.Place = o.metadata[at].Place
	o.metadata[at] = v
	return nil
}

// MetadataAt returns the value at position index of field f.
func (o *DSpaceObject) MetadataAt(f MetadataField, index int) (MetadataValue, error) {
	pos := o.positions(f)
	if index < 0 || index >= len(pos) {
		return MetadataValue{}, fmt.Errorf("%w: %d (%s has %d values)", ErrIndexOutOfRange, index, f, len(pos))
	}
	return o.metadata[pos[index]], nil
}

// MoveMetadata moves the value at position from to position to within field
// f. The value is removed first, so to indexes the shortened list.
func (o *DSpaceObject) MoveMetadata(f MetadataField, from, to int) error {
	n := len(o.positions(f))
	if from < 0 || from >= n {
		return fmt.Errorf("%w: from %d (%s has %d values)", ErrIndexOutOfRange, from, f, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: to %d (%s has %d values)", ErrIndexOutOfRange, to, f, n)
	}
	v, err := o.RemoveMetadataAt(f, from)
	if err != nil {
		return err
	}
	return o.InsertMetadata(v, to)
}

// SetMetadataSingleValue replaces every value of f with a single value. An
// empty value just clears the field.
func (o *DSpaceObject) SetMetadataSingleValue(f MetadataField, lang, value string) {
	o.ClearField(f)
	if value != "" {
		o.AddMetadata(f, lang, value, "", ConfidenceUnset)
	}
}

func (o *DSpaceObject) positions(f MetadataField) []int {
	var pos []int
	for i, v := range o.metadata {
		if v.Field == f {
			pos = append(pos, i)
		}
	}
	return pos
}

func (o *DSpaceObject) renumber(f MetadataField) {
	place := 0
	for i := range o.metadata {
		if o.metadata[i].Field == f {
			o.metadata[i].Place = place
			place++
		}
	}
}
