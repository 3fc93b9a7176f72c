package dim

import (
	"context"
	"log/slog"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// DisseminateElement renders every metadata value of obj under a dim:dim
// root carrying the object type.
func (c *Crosswalk) DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error) {
	if obj == nil {
		return nil, crosswalk.NotSupported(Name, obj)
	}
	slogcontext.Log(ctx, slog.LevelDebug, "disseminating", "crosswalk", Name, "object", content.Describe(obj))
	return Build(obj.Type(), obj.Base().AllMetadata()), nil
}

// DisseminateList renders every metadata value of obj as a dim:field.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	if obj == nil {
		return nil, crosswalk.NotSupported(Name, obj)
	}
	var out []*etree.Element
	for _, v := range obj.Base().AllMetadata() {
		f := Field(v)
		crosswalk.Declare(f, NS)
		out = append(out, f)
	}
	return out, nil
}

// Build returns a dim:dim root of type t holding values.
func Build(t content.Type, values []content.MetadataValue) *etree.Element {
	root := crosswalk.NewElement(NS, "dim")
	crosswalk.Declare(root, NS)
	root.CreateAttr("dspaceType", t.String())
	for _, v := range values {
		root.AddChild(Field(v))
	}
	return root
}

// Field renders one value as a dim:field element. Authority and confidence
// are only written for authority-controlled values.
func Field(v content.MetadataValue) *etree.Element {
	e := crosswalk.NewElement(NS, "field")
	e.CreateAttr("mdschema", v.Field.Schema)
	e.CreateAttr("element", v.Field.Element)
	if v.Field.Qualifier != "" {
		e.CreateAttr("qualifier", v.Field.Qualifier)
	}
	if v.Language != "" {
		e.CreateAttr("lang", v.Language)
	}
	if v.Authority != "" {
		e.CreateAttr("authority", v.Authority)
		e.CreateAttr("confidence", content.ConfidenceName(v.Confidence))
	}
	e.SetText(v.Value)
	return e
}
