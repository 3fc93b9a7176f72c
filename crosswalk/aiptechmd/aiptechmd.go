// Package aiptechmd records the structural and technical facts an archival
// package needs to rebuild an object: submitter, parents, withdrawal state
// and bitstream formats. The values are written as DIM in the dc schema.
package aiptechmd

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/dim"
)

// Name is the plugin name.
const Name = "aip-techmd"

// Withdrawn is the dc.rights.accessRights value of a withdrawn item.
const Withdrawn = "WITHDRAWN"

const handleScheme = "hdl:"

// Crosswalk implements AIP technical metadata.
type Crosswalk struct {
	env *crosswalk.Env
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.Disseminator = (*Crosswalk)(nil)
	_ crosswalk.Ingester     = (*Crosswalk)(nil)
)

// New returns an AIP technical metadata crosswalk bound to env.
func New(env *crosswalk.Env) *Crosswalk {
	return &Crosswalk{env: env}
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "AIP technical metadata as DIM"
}

// Namespaces returns the DIM namespace.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return []crosswalk.Namespace{dim.NS}
}

// SchemaLocation returns "".
func (c *Crosswalk) SchemaLocation() string {
	return ""
}

// CanDisseminate returns true for sites, communities, collections, items
// and bitstreams.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	if obj == nil {
		return false
	}
	switch obj.Type() {
	case content.SITE, content.COMMUNITY, content.COLLECTION, content.ITEM, content.BITSTREAM:
		return true
	}
	return false
}

// PreferList returns false.
func (c *Crosswalk) PreferList() bool {
	return false
}

// DisseminateElement returns a dim:dim root of technical values.
func (c *Crosswalk) DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error) {
	values, err := c.values(obj)
	if err != nil {
		return nil, err
	}
	slogcontext.Log(ctx, slog.LevelDebug, "disseminating", "crosswalk", Name, "object", content.Describe(obj), "values", len(values))
	return dim.Build(obj.Type(), values), nil
}

// DisseminateList returns the dim:field children of DisseminateElement.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	root, err := c.DisseminateElement(ctx, obj)
	if err != nil {
		return nil, err
	}
	var out []*etree.Element
	for _, e := range root.ChildElements() {
		out = append(out, crosswalk.Detach(e, dim.NS))
	}
	return out, nil
}

func (c *Crosswalk) values(obj content.Object) ([]content.MetadataValue, error) {
	var out []content.MetadataValue
	add := func(element, qualifier, value string) {
		out = append(out, content.MetadataValue{
			Field:      content.NewField("dc", element, qualifier),
			Value:      value,
			Confidence: content.ConfidenceUnset,
		})
	}
	addHandle := func(element, qualifier, handle string) {
		if handle != "" {
			add(element, qualifier, handleScheme+handle)
		}
	}

	switch o := obj.(type) {
	case *content.Item:
		if o.Submitter != nil {
			add("creator", "", o.Submitter.Email)
		}
		add("identifier", "uri", handleScheme+o.Handle)
		if o.OwningCollection != nil {
			addHandle("relation", "isPartOf", o.OwningCollection.Handle)
		}
		for _, col := range o.Collections {
			if col != o.OwningCollection {
				addHandle("relation", "isReferencedBy", col.Handle)
			}
		}
		if o.Withdrawn {
			add("rights", "accessRights", Withdrawn)
		}

	case *content.Bitstream:
		if v := o.Name(); v != "" {
			add("title", "", v)
		}
		if v := o.Source(); v != "" {
			add("title", "alternative", v)
		}
		if v := o.Description(); v != "" {
			add("description", "", v)
		}
		if v := o.UserFormatDescription(); v != "" {
			add("format", "", v)
		}
		f := o.Format
		if f == nil {
			f = c.env.Store.Formats.Unknown()
		}
		add("format", "medium", f.ShortDescription)
		add("format", "mimetype", f.MIMEType)
		add("format", "supportlevel", f.SupportLevel.String())
		add("format", "internal", strconv.FormatBool(f.Internal))

	case *content.Collection:
		add("identifier", "uri", handleScheme+o.Handle)
		for i, parent := range o.Communities {
			if i == 0 {
				addHandle("relation", "isPartOf", parent.Handle)
			} else {
				addHandle("relation", "isReferencedBy", parent.Handle)
			}
		}

	case *content.Community:
		add("identifier", "uri", handleScheme+o.Handle)
		if len(o.Parents) == 0 {
			addHandle("relation", "isPartOf", c.env.Store.Site().Handle)
		} else {
			addHandle("relation", "isPartOf", o.Parents[0].Handle)
		}

	case *content.Site:
		add("identifier", "uri", handleScheme+o.Handle)
		url := o.URL
		if url == "" {
			url = c.env.Config.SiteURL
		}
		if url != "" {
			add("identifier", "uri", url)
		}
		for _, top := range c.env.Store.TopCommunities() {
			addHandle("relation", "hasPart", top.Handle)
		}

	default:
		return nil, crosswalk.NotSupported(Name, obj)
	}
	return out, nil
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env), nil
	})
}
