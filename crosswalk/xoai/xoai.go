// Package xoai renders items as the generic XOAI metadata tree OAI-PMH
// providers transform into their output formats.
package xoai

import (
	"context"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Name is the plugin name.
const Name = "xoai"

// none stands in for an empty qualifier or language.
const none = "none"

// NS is the XOAI namespace, used unprefixed.
var NS = crosswalk.Namespace{Prefix: "", URI: "http://www.lyncode.com/xoai"}

// Crosswalk implements XOAI dissemination.
type Crosswalk struct {
	env *crosswalk.Env
}

// Ensure Crosswalk implements the interfaces
var _ crosswalk.Disseminator = (*Crosswalk)(nil)

// New returns an XOAI crosswalk bound to env.
func New(env *crosswalk.Env) *Crosswalk {
	return &Crosswalk{env: env}
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "XOAI metadata tree for OAI-PMH"
}

// Namespaces returns the XOAI namespace.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return []crosswalk.Namespace{NS}
}

// SchemaLocation returns the XOAI schema.
func (c *Crosswalk) SchemaLocation() string {
	return NS.URI + " http://www.lyncode.com/xsd/xoai.xsd"
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

// DisseminateList returns the top-level elements of the tree.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	root, err := c.DisseminateElement(ctx, obj)
	if err != nil {
		return nil, err
	}
	out := root.ChildElements()
	for _, e := range out {
		root.RemoveChild(e)
		crosswalk.Declare(e, NS)
	}
	return out, nil
}

// DisseminateElement renders an item under a metadata root.
func (c *Crosswalk) DisseminateElement(_ context.Context, obj content.Object) (*etree.Element, error) {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return nil, err
	}
	root := crosswalk.NewElement(NS, "metadata")
	crosswalk.Declare(root, NS, crosswalk.XSI)
	root.CreateAttr("xsi:schemaLocation", c.SchemaLocation())

	for _, v := range item.AllMetadata() {
		schema := group(root, v.Field.Schema)
		element := group(schema, v.Field.Element)
		qualifier := group(element, orNone(v.Field.Qualifier))
		lang := group(qualifier, orNone(v.Language))
		field(lang, "value", v.Value)
		if v.Authority != "" {
			field(lang, "authority", v.Authority)
			field(lang, "confidence", strconv.Itoa(v.Confidence))
		}
	}

	bundles := element(root, "bundles")
	for _, b := range item.Bundles {
		bundle := element(bundles, "bundle")
		field(bundle, "name", b.Name())
		bitstreams := element(bundle, "bitstreams")
		for _, bs := range b.Bitstreams {
			if bs.Deleted {
				continue
			}
			bitstream := element(bitstreams, "bitstream")
			field(bitstream, "name", bs.Name())
			if src := bs.Source(); src != "" {
				field(bitstream, "originalName", src)
			}
			if desc := bs.Description(); desc != "" {
				field(bitstream, "description", desc)
			}
			field(bitstream, "format", bs.MIMEType())
			field(bitstream, "size", strconv.FormatInt(bs.Size, 10))
			field(bitstream, "url", c.env.Config.BitstreamURL(bs.ID().String()))
			field(bitstream, "checksum", bs.Checksum)
			field(bitstream, "checksumAlgorithm", bs.ChecksumAlgorithm)
			field(bitstream, "sid", strconv.Itoa(bs.SequenceID))
		}
	}

	others := element(root, "others")
	field(others, "handle", item.Handle)
	field(others, "identifier", "oai:"+c.env.Config.Host()+":"+item.Handle)
	modified := item.LastModified
	if modified.IsZero() {
		modified = c.env.Now()
	}
	field(others, "lastModifyDate", modified.UTC().Format(time.RFC3339))

	repo := element(root, "repository")
	field(repo, "name", c.env.Store.Site().SiteName)
	field(repo, "mail", c.env.Config.AdminEmail)
	return root, nil
}

func element(parent *etree.Element, name string) *etree.Element {
	e := crosswalk.AddElement(parent, NS, "element")
	e.CreateAttr("name", name)
	return e
}

// group returns the element child of parent called name, creating it when
// missing so repeated values share one branch.
func group(parent *etree.Element, name string) *etree.Element {
	for _, c := range crosswalk.Children(parent, NS, "element") {
		if crosswalk.Attr(c, "name") == name {
			return c
		}
	}
	return element(parent, name)
}

func field(parent *etree.Element, name, text string) {
	f := crosswalk.AddText(parent, NS, "field", text)
	f.CreateAttr("name", name)
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env), nil
	})
}
