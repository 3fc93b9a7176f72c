// Package xhtmlhead renders item metadata as Dublin Core meta and link
// elements for the head of an XHTML page.
package xhtmlhead

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/convert"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
)

// Name is the plugin name.
const Name = "xhtml-head"

// ProfileName is the mapping profile the crosswalk reads.
const ProfileName = "xhtml-head"

// NS is the XHTML namespace.
var NS = crosswalk.Namespace{Prefix: "", URI: "http://www.w3.org/1999/xhtml"}

// Crosswalk implements XHTML head dissemination.
type Crosswalk struct {
	env        *crosswalk.Env
	profile    *mapping.Profile
	transforms map[string]convert.Converter
}

// Ensure Crosswalk implements the interfaces
var _ crosswalk.Disseminator = (*Crosswalk)(nil)

// New returns an XHTML head crosswalk using the xhtml-head profile.
func New(env *crosswalk.Env) (*Crosswalk, error) {
	p, err := env.Profile(ProfileName)
	if err != nil {
		return nil, err
	}
	c := &Crosswalk{env: env, profile: p, transforms: make(map[string]convert.Converter, len(p.Fields))}
	for name, m := range p.Fields {
		transform := m.Transform
		if p.Options.StripHTML {
			transform = "strip_html," + transform
		}
		conv, err := convert.Parse(transform)
		if err != nil {
			return nil, fmt.Errorf("xhtml-head profile field %s: %w", name, err)
		}
		c.transforms[name] = conv
	}
	return c, nil
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "Dublin Core meta elements for XHTML head"
}

// Namespaces returns the XHTML namespace.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return []crosswalk.Namespace{NS}
}

// SchemaLocation returns "".
func (c *Crosswalk) SchemaLocation() string {
	return ""
}

// CanDisseminate returns true for items.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	_, ok := obj.(*content.Item)
	return ok
}

// PreferList returns true: the elements go into an existing head.
func (c *Crosswalk) PreferList() bool {
	return true
}

// DisseminateList returns the schema links followed by one meta element per
// mapped value.
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

// DisseminateElement wraps the list in a head element.
func (c *Crosswalk) DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error) {
	elems, err := c.elements(ctx, obj)
	if err != nil {
		return nil, err
	}
	head := crosswalk.NewElement(NS, "head")
	crosswalk.Declare(head, NS)
	for _, e := range elems {
		head.AddChild(e)
	}
	return head, nil
}

func (c *Crosswalk) elements(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return nil, err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	var links []string
	for rel := range c.profile.Namespaces {
		links = append(links, rel)
	}
	sort.Strings(links)
	out := make([]*etree.Element, 0, len(links))
	for _, rel := range links {
		l := crosswalk.NewElement(NS, "link")
		l.CreateAttr("rel", rel)
		l.CreateAttr("href", c.profile.Namespaces[rel])
		out = append(out, l)
	}

	for _, v := range item.AllMetadata() {
		name := v.Field.String()
		if c.profile.Excluded(name) {
			continue
		}
		m, ok := c.profile.GetFieldMapping(name)
		if !ok {
			slogcontext.Log(ctx, slog.LevelDebug, "no meta mapping for field", "field", name)
			continue
		}
		text := strings.TrimSpace(c.transforms[name].Convert(v.Value))
		if text == "" {
			continue
		}
		meta := crosswalk.NewElement(NS, "meta")
		meta.CreateAttr("name", m.Element)
		meta.CreateAttr("content", text)
		if v.Language != "" {
			meta.CreateAttr("xml:lang", v.Language)
		}
		if m.Scheme != "" {
			meta.CreateAttr("scheme", m.Scheme)
		}
		out = append(out, meta)
	}
	return out, nil
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env)
	})
}
