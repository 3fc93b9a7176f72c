package mods

import (
	"context"
	"log/slog"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/helpers"
	"github.com/lehigh-university-libraries/dspace-crosswalk/value"
)

// DisseminateElement renders a mods:mods record.
func (c *Crosswalk) DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error) {
	elems, err := c.elements(ctx, obj)
	if err != nil {
		return nil, err
	}
	root := crosswalk.NewElement(NS, "mods")
	crosswalk.Declare(root, c.Namespaces()...)
	if c.profile.Version != "" {
		root.CreateAttr("version", c.profile.Version)
	}
	if loc := c.SchemaLocation(); loc != "" {
		root.CreateAttr("xsi:schemaLocation", loc)
	}
	for _, e := range elems {
		root.AddChild(e)
	}
	return root, nil
}

// DisseminateList returns the top-level children of the mods record, each
// declaring the namespaces it needs.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	elems, err := c.elements(ctx, obj)
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		crosswalk.Declare(e, NS)
	}
	return elems, nil
}

func (c *Crosswalk) elements(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	if !c.CanDisseminate(obj) {
		return nil, crosswalk.NotSupported(Name, obj)
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	_, isItem := obj.(*content.Item)
	values := obj.Base().AllMetadata()
	if site, ok := obj.(*content.Site); ok && obj.Base().FirstValue("dc.title") == "" && site.SiteName != "" {
		values = append([]content.MetadataValue{{Field: content.MustField("dc.title"), Value: site.SiteName}}, values...)
	}

	var out []*etree.Element
	for _, v := range values {
		name := v.Field.String()
		if !isItem && !containerFields[name] {
			continue
		}
		if c.profile.Excluded(name) {
			continue
		}
		r, ok := c.rules[name]
		if !ok {
			slogcontext.Log(ctx, slog.LevelDebug, "no MODS mapping for field", "field", name)
			continue
		}
		out = append(out, c.build(r, v))
	}
	return out, nil
}

// build creates the element chain for one value and returns its top.
func (c *Crosswalk) build(r *rule, v content.MetadataValue) *etree.Element {
	var top, leaf *etree.Element
	for _, s := range r.steps {
		e := crosswalk.NewElement(NS, s.name)
		for _, a := range s.attrs {
			e.CreateAttr(a[0], a[1])
		}
		if leaf == nil {
			top = e
		} else {
			leaf.AddChild(e)
		}
		leaf = e
	}
	leaf.SetText(v.Value)
	crosswalk.SetLang(leaf, v.Language)
	if leaf.SelectAttrValue("encoding", "") == "iso8601" && !value.IsW3CDTF(v.Value) {
		leaf.RemoveAttr("encoding")
	}
	if r.role != "" {
		addRole(top, r)
	}
	if v.Authority != "" && top.Tag == "name" {
		top.CreateAttr("authority", "local")
		top.CreateAttr("valueURI", v.Authority)
	}
	return top
}

func addRole(name *etree.Element, r *rule) {
	role := crosswalk.AddElement(name, NS, "role")
	text := crosswalk.AddText(role, NS, "roleTerm", r.mapping.Role)
	text.CreateAttr("type", "text")
	if label, ok := helpers.MARCRelators[r.role]; ok && label != "" {
		code := crosswalk.AddText(role, NS, "roleTerm", r.role)
		code.CreateAttr("type", "code")
		code.CreateAttr("authority", "marcrelator")
	}
}
