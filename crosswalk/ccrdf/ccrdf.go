// Package ccrdf streams the Creative Commons RDF an item was licensed
// under, and records a license RDF document against an item.
package ccrdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Name is the plugin name.
const Name = "ccrdf"

// BitstreamName is the name of the RDF bitstream in the CC-LICENSE bundle.
const BitstreamName = "license_rdf"

// MIMEType is the type of the disseminated stream.
const MIMEType = "text/xml"

// Creative Commons RDF vocabularies, current and legacy.
var (
	CC       = crosswalk.Namespace{Prefix: "cc", URI: "http://creativecommons.org/ns#"}
	CCLegacy = crosswalk.Namespace{Prefix: "cc", URI: "http://web.resource.org/cc/"}
	RDFS     = crosswalk.Namespace{Prefix: "rdfs", URI: "http://www.w3.org/2000/01/rdf-schema#"}
)

// Crosswalk implements CC RDF stream dissemination and ingestion.
type Crosswalk struct {
	env *crosswalk.Env
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.StreamDisseminator = (*Crosswalk)(nil)
	_ crosswalk.StreamIngester     = (*Crosswalk)(nil)
)

// New returns a CC RDF crosswalk bound to env.
func New(env *crosswalk.Env) *Crosswalk {
	return &Crosswalk{env: env}
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "Creative Commons license RDF"
}

// CanDisseminate reports whether obj is an item holding a license_rdf
// bitstream in a CC-LICENSE bundle.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	item, ok := obj.(*content.Item)
	return ok && licenseRDF(item) != nil
}

// MIMEType returns text/xml.
func (c *Crosswalk) MIMEType(content.Object) string {
	return MIMEType
}

// IngestMIMEType returns text/xml.
func (c *Crosswalk) IngestMIMEType() string {
	return MIMEType
}

// Disseminate copies the license_rdf bitstream to w unchanged.
func (c *Crosswalk) Disseminate(ctx context.Context, obj content.Object, w io.Writer) error {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return err
	}
	bs := licenseRDF(item)
	if bs == nil {
		return crosswalk.NotSupported(Name, obj)
	}
	slogcontext.Log(ctx, slog.LevelDebug, "streaming license RDF", "crosswalk", Name, "bitstream", bs.ID())
	if _, err := w.Write(bs.Content()); err != nil {
		return crosswalk.Failed("writing license RDF", err)
	}
	return nil
}

// Ingest stores r as the item's license_rdf, replacing any earlier one, and
// records the license URI and label in dc.rights.uri and dc.rights.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, r io.Reader, mimeType string) error {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	data, err := io.ReadAll(r)
	if err != nil {
		return crosswalk.Failed("reading license RDF", err)
	}
	root, err := crosswalk.Parse(bytes.NewReader(data))
	if err != nil {
		return crosswalk.Invalid("license RDF is not XML: %v", err)
	}
	uri, label := license(root)
	if uri == "" {
		return crosswalk.Invalid("license RDF names no cc:License")
	}

	store := c.env.Store
	bundle := store.EnsureBundle(item, content.BundleCCLicense)
	if old := bundle.BitstreamNamed(BitstreamName); old != nil {
		store.DeleteBitstream(old)
	}
	bs, err := store.NewBitstream(bundle, BitstreamName, data)
	if err != nil {
		return crosswalk.Failed("storing license RDF", err)
	}
	if f := store.Formats.ByShortDescription("RDF XML"); f != nil {
		bs.Format = f
	}

	for _, kv := range [][2]string{{"dc.rights.uri", uri}, {"dc.rights", label}} {
		f, v := content.MustField(kv[0]), kv[1]
		ok, err := crosswalk.CheckMetadata(ctx, c.env, f, false)
		if err != nil {
			return fmt.Errorf("recording license: %w", err)
		}
		if ok {
			item.SetMetadataSingleValue(f, "", v)
		}
	}
	slogcontext.Log(ctx, slog.LevelInfo, "recorded Creative Commons license", "uri", uri, "mime", mimeType)
	return nil
}

// license finds the first cc:License and returns its URI and a label: the
// RDF's own title or label when present, otherwise one derived from the URI.
func license(root *etree.Element) (uri, label string) {
	for _, e := range append([]*etree.Element{root}, root.FindElements("//License")...) {
		if !crosswalk.Is(e, CC, "License") && !crosswalk.Is(e, CCLegacy, "License") {
			continue
		}
		uri = crosswalk.NSAttr(e, crosswalk.RDF, "about")
		if uri == "" {
			continue
		}
		label = crosswalk.ChildText(e, crosswalk.DC, "title")
		if label == "" {
			label = crosswalk.ChildText(e, RDFS, "label")
		}
		if label == "" {
			label = content.LicenseLabel(uri)
		}
		return uri, label
	}
	return "", ""
}

func licenseRDF(item *content.Item) *content.Bitstream {
	for _, b := range item.BundlesNamed(content.BundleCCLicense) {
		if bs := b.BitstreamNamed(BitstreamName); bs != nil && !bs.Deleted {
			return bs
		}
	}
	return nil
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env), nil
	})
}
