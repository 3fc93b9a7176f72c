// Package ore describes an item as an OAI-ORE resource map serialized in
// Atom, and rebuilds an item's bitstreams from such a map.
package ore

import (
	"context"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/value"
)

// Name is the plugin name.
const Name = "ore"

// Relation and term URIs.
const (
	RelAggregates   = "http://www.openarchives.org/ore/terms/aggregates"
	RelDescribes    = "http://www.openarchives.org/ore/terms/describes"
	TermAggregation = "http://www.openarchives.org/ore/terms/Aggregation"
	TermBitstream   = "http://www.dspace.org/objectModel/DSpaceBitstream"
	SchemeModified  = "http://www.openarchives.org/ore/atom/modified"
)

// Namespaces of the resource map.
var (
	Atom    = crosswalk.Namespace{Prefix: "atom", URI: "http://www.w3.org/2005/Atom"}
	OREAtom = crosswalk.Namespace{Prefix: "oreatom", URI: "http://www.openarchives.org/ore/atom/"}
	ORE     = crosswalk.Namespace{Prefix: "ore", URI: "http://www.openarchives.org/ore/terms/"}
)

// Crosswalk implements ORE dissemination and ingestion.
type Crosswalk struct {
	env *crosswalk.Env
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.Disseminator = (*Crosswalk)(nil)
	_ crosswalk.Ingester     = (*Crosswalk)(nil)
)

// New returns an ORE crosswalk bound to env.
func New(env *crosswalk.Env) *Crosswalk {
	return &Crosswalk{env: env}
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "OAI-ORE resource map in Atom"
}

// Namespaces returns atom, oreatom, ore, rdf and dcterms.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return []crosswalk.Namespace{Atom, OREAtom, ORE, crosswalk.RDF, crosswalk.DCTerms}
}

// SchemaLocation returns "": the Atom serialization has no XML schema.
func (c *Crosswalk) SchemaLocation() string {
	return ""
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

// ResourceMapURL is the URL of the resource map of an item.
func (c *Crosswalk) ResourceMapURL(item *content.Item) string {
	if item.Handle != "" {
		return c.env.Config.SiteURL + "/metadata/handle/" + item.Handle + "/ore.xml"
	}
	return c.env.Config.SiteURL + "/metadata/items/" + item.ID().String() + "/ore.xml"
}

// AggregationURL is the URL of the item itself.
func (c *Crosswalk) AggregationURL(item *content.Item) string {
	if item.Handle != "" {
		return c.env.Config.HandleURL(item.Handle)
	}
	return c.env.Config.ItemURL(item.ID().String())
}

// DisseminateList returns the atom:entry as its only element.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	e, err := c.DisseminateElement(ctx, obj)
	if err != nil {
		return nil, err
	}
	return []*etree.Element{e}, nil
}

// DisseminateElement renders the resource map of an item.
func (c *Crosswalk) DisseminateElement(_ context.Context, obj content.Object) (*etree.Element, error) {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return nil, err
	}
	rem := c.ResourceMapURL(item)
	agg := c.AggregationURL(item)
	modified := item.LastModified
	if modified.IsZero() {
		modified = c.env.Now()
	}

	entry := crosswalk.NewElement(Atom, "entry")
	crosswalk.Declare(entry, c.Namespaces()...)
	crosswalk.AddText(entry, Atom, "id", rem+"#aggregation")
	link(entry, "alternate", agg, "", "")
	link(entry, RelDescribes, agg, "", "")
	link(entry, "self", rem, "application/atom+xml", "")

	published := modified
	if s := item.FirstValue("dc.date.accessioned"); s != "" {
		if t, _, err := value.ParseW3CDTF(s); err == nil {
			published = t
		}
	}
	crosswalk.AddText(entry, Atom, "published", published.UTC().Format(time.RFC3339))
	crosswalk.AddText(entry, Atom, "updated", modified.UTC().Format(time.RFC3339))

	source := crosswalk.AddElement(entry, Atom, "source")
	gen := crosswalk.AddText(source, Atom, "generator", c.env.Store.Site().SiteName)
	gen.CreateAttr("uri", c.env.Config.SiteURL)

	crosswalk.AddText(entry, Atom, "title", item.Name())
	for _, v := range item.Metadata("dc", "contributor", "author", content.Any) {
		author := crosswalk.AddElement(entry, Atom, "author")
		crosswalk.AddText(author, Atom, "name", v.Value)
	}

	category(entry, TermAggregation, ORE.URI, "Aggregation")
	category(entry, modified.UTC().Format(time.RFC3339), SchemeModified, "")
	category(entry, "DSpace Item", "http://www.dspace.org/objectModel/", "")

	triples := crosswalk.NewElement(OREAtom, "triples")
	for _, b := range item.Bundles {
		if b.Name() != content.BundleOriginal {
			continue
		}
		for _, bs := range b.Bitstreams {
			if bs.Deleted {
				continue
			}
			href := c.env.Config.BitstreamURL(bs.ID().String())
			l := link(entry, RelAggregates, href, bs.MIMEType(), bs.Name())
			l.CreateAttr("length", strconv.FormatInt(bs.Size, 10))

			desc := crosswalk.AddElement(triples, crosswalk.RDF, "Description")
			desc.CreateAttr("rdf:about", href)
			typ := crosswalk.AddElement(desc, crosswalk.RDF, "type")
			typ.CreateAttr("rdf:resource", TermBitstream)
			crosswalk.AddText(desc, crosswalk.DCTerms, "description", b.Name())
		}
	}
	entry.AddChild(triples)
	return entry, nil
}

func link(parent *etree.Element, rel, href, typ, title string) *etree.Element {
	l := crosswalk.AddElement(parent, Atom, "link")
	l.CreateAttr("rel", rel)
	l.CreateAttr("href", href)
	if typ != "" {
		l.CreateAttr("type", typ)
	}
	if title != "" {
		l.CreateAttr("title", title)
	}
	return l
}

func category(parent *etree.Element, term, scheme, label string) {
	cat := crosswalk.AddElement(parent, Atom, "category")
	cat.CreateAttr("term", term)
	cat.CreateAttr("scheme", scheme)
	if label != "" {
		cat.CreateAttr("label", label)
	}
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env), nil
	})
}
