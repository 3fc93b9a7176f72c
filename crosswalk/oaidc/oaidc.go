// Package oaidc provides the simple Dublin Core crosswalk used by OAI-PMH.
// Qualifiers are dropped on the way out and never produced on the way in.
package oaidc

import (
	"context"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
)

// Name is the plugin name.
const Name = "oai_dc"

// NS is the OAI-DC container namespace.
var NS = crosswalk.Namespace{Prefix: "oai_dc", URI: "http://www.openarchives.org/OAI/2.0/oai_dc/"}

// Crosswalk implements OAI-DC.
type Crosswalk struct {
	env     *crosswalk.Env
	profile *mapping.Profile
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.Disseminator = (*Crosswalk)(nil)
	_ crosswalk.Ingester     = (*Crosswalk)(nil)
)

// New returns an OAI-DC crosswalk using the oai_dc profile.
func New(env *crosswalk.Env) (*Crosswalk, error) {
	p, err := env.Profile("oai_dc")
	if err != nil {
		return nil, err
	}
	return &Crosswalk{env: env, profile: p}, nil
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "OAI-PMH simple Dublin Core"
}

// Namespaces returns oai_dc, dc and xsi.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return crosswalk.ProfileNamespaces(c.profile)
}

// SchemaLocation returns the OAI-DC schema location.
func (c *Crosswalk) SchemaLocation() string {
	return c.profile.Options.SchemaLocation
}

// CanDisseminate returns true for items.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	_, ok := obj.(*content.Item)
	return ok
}

// PreferList returns false.
func (c *Crosswalk) PreferList() bool {
	return false
}

// DisseminateElement renders an oai_dc:dc record.
func (c *Crosswalk) DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error) {
	elems, err := c.DisseminateList(ctx, obj)
	if err != nil {
		return nil, err
	}
	root := crosswalk.NewElement(NS, "dc")
	crosswalk.Declare(root, c.Namespaces()...)
	root.CreateAttr("xsi:schemaLocation", c.SchemaLocation())
	for _, e := range elems {
		root.AddChild(e)
	}
	return root, nil
}

// DisseminateList renders each dc value as dc:<element>. Values of dc
// elements the profile does not list, and excluded fields, are dropped.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return nil, err
	}
	var out []*etree.Element
	for _, v := range item.Metadata("dc", content.Any, content.Any, content.Any) {
		if c.profile.Excluded(v.Field.String()) {
			continue
		}
		m, ok := c.profile.GetFieldMapping("dc." + v.Field.Element)
		if !ok {
			slogcontext.Log(ctx, slog.LevelDebug, "dropping value of unknown DC element", "crosswalk", Name, "field", v.Field.String())
			continue
		}
		e := crosswalk.ProfileElement(c.profile, m)
		crosswalk.Declare(e, crosswalk.DC)
		crosswalk.SetLang(e, v.Language)
		e.SetText(v.Value)
		out = append(out, e)
	}
	return out, nil
}

// Ingest reads the dc children of an oai_dc:dc root, or a single dc
// element.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	if crosswalk.Is(root, crosswalk.DC, root.Tag) {
		return c.IngestList(ctx, obj, []*etree.Element{root}, createMissing)
	}
	return c.IngestList(ctx, obj, root.ChildElements(), createMissing)
}

// IngestList stores each dc:<local> element as dc.<local> with its
// xml:lang. Elements outside the dc namespace are skipped.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))
	for _, e := range elems {
		if !crosswalk.Is(e, crosswalk.DC, e.Tag) {
			slogcontext.Log(ctx, slog.LevelWarn, "skipping non-DC element", "element", e.FullTag())
			continue
		}
		value := strings.TrimSpace(e.Text())
		if value == "" {
			continue
		}
		f := content.NewField("dc", e.Tag, "")
		if _, err := crosswalk.AddChecked(ctx, c.env, item, f, crosswalk.NormalizeLang(crosswalk.Lang(e)), value, "", content.ConfidenceUnset, createMissing); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env)
	})
}
