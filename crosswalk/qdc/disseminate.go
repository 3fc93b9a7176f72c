package qdc

import (
	"context"
	"log/slog"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
)

// DisseminateList renders each mapped value of the item as a dc or dcterms
// element. Values of unmapped fields are left out.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return nil, err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	nss := c.Namespaces()
	var out []*etree.Element
	for _, v := range item.AllMetadata() {
		e := c.element(ctx, v)
		if e == nil {
			continue
		}
		crosswalk.Declare(e, nss...)
		out = append(out, e)
	}
	return out, nil
}

// DisseminateElement wraps the list in the profile's root element.
func (c *Crosswalk) DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error) {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return nil, err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	prefix, local := mapping.SplitName(c.profile.Options.Root)
	root := crosswalk.NewElement(crosswalk.Namespace{Prefix: prefix, URI: c.profile.Namespace(prefix)}, local)
	crosswalk.Declare(root, c.Namespaces()...)
	if loc := c.SchemaLocation(); loc != "" {
		root.CreateAttr("xsi:schemaLocation", loc)
	}
	for _, v := range item.AllMetadata() {
		if e := c.element(ctx, v); e != nil {
			root.AddChild(e)
		}
	}
	return root, nil
}

func (c *Crosswalk) element(ctx context.Context, v content.MetadataValue) *etree.Element {
	name := v.Field.String()
	if c.profile.Excluded(name) {
		return nil
	}
	m, ok := c.profile.GetFieldMapping(name)
	if !ok {
		slogcontext.Log(ctx, slog.LevelDebug, "no QDC mapping for field", "field", name)
		return nil
	}
	e := crosswalk.ProfileElement(c.profile, m)
	crosswalk.SetLang(e, v.Language)
	e.SetText(v.Value)
	return e
}
