package dim

import (
	"context"
	"log/slog"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Ingest accepts a dim:dim root or a single dim:field.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	switch {
	case crosswalk.Is(root, NS, "dim"):
		return c.IngestList(ctx, obj, root.ChildElements(), createMissing)
	case crosswalk.Is(root, NS, "field"):
		return c.IngestList(ctx, obj, []*etree.Element{root}, createMissing)
	}
	return crosswalk.Invalid("DIM ingest expects dim:dim or dim:field, got %s", root.FullTag())
}

// IngestList adds the value of every dim:field to obj. Fields are checked
// against the registry first.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	if obj == nil {
		return crosswalk.NotSupported(Name, obj)
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))
	values, err := Read(ctx, elems)
	if err != nil {
		return err
	}
	for _, v := range values {
		if _, err := crosswalk.AddChecked(ctx, c.env, obj, v.Field, v.Language, v.Value, v.Authority, v.Confidence, createMissing); err != nil {
			return err
		}
	}
	return nil
}

// Read parses dim:field elements into values without storing them. Nested
// dim:dim elements are descended into; anything else is logged and
// skipped.
func Read(ctx context.Context, elems []*etree.Element) ([]content.MetadataValue, error) {
	var out []content.MetadataValue
	for _, e := range elems {
		switch {
		case crosswalk.Is(e, NS, "dim"):
			nested, err := Read(ctx, e.ChildElements())
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		case crosswalk.Is(e, NS, "field"):
			v, err := readField(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		default:
			slogcontext.Log(ctx, slog.LevelWarn, "skipping unexpected element in DIM", "element", e.FullTag())
		}
	}
	return out, nil
}

func readField(e *etree.Element) (content.MetadataValue, error) {
	schema := crosswalk.Attr(e, "mdschema")
	element := crosswalk.Attr(e, "element")
	if schema == "" || element == "" {
		return content.MetadataValue{}, crosswalk.Invalid("dim:field needs mdschema and element attributes")
	}
	v := content.MetadataValue{
		Field:      content.NewField(schema, element, crosswalk.Attr(e, "qualifier")),
		Value:      e.Text(),
		Language:   crosswalk.Attr(e, "lang"),
		Authority:  crosswalk.Attr(e, "authority"),
		Confidence: content.ConfidenceUnset,
	}
	if conf := crosswalk.Attr(e, "confidence"); conf != "" {
		v.Confidence = content.ParseConfidence(conf)
	} else if v.Authority != "" {
		v.Confidence = content.ConfidenceAccepted
	}
	return v, nil
}
