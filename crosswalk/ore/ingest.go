package ore

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/gabriel-vasile/mimetype"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Ingest accepts an atom:entry resource map.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	if !crosswalk.Is(root, Atom, "entry") {
		return crosswalk.Invalid("ORE ingest expects atom:entry, got %s", root.FullTag())
	}
	return c.IngestList(ctx, obj, root.ChildElements(), createMissing)
}

// IngestList fetches every aggregated resource and stores it as a
// bitstream of the item. The bundle comes from the resource's
// dcterms:description triple, ORIGINAL when there is none.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	bundles := map[string]string{}
	for _, e := range elems {
		if !crosswalk.Is(e, OREAtom, "triples") {
			continue
		}
		for _, desc := range crosswalk.Children(e, crosswalk.RDF, "Description") {
			about := crosswalk.NSAttr(desc, crosswalk.RDF, "about")
			if name := crosswalk.ChildText(desc, crosswalk.DCTerms, "description"); about != "" && name != "" {
				bundles[about] = name
			}
		}
	}

	store := c.env.Store
	for _, e := range elems {
		if !crosswalk.Is(e, Atom, "link") || crosswalk.Attr(e, "rel") != RelAggregates {
			continue
		}
		href := strings.TrimSpace(crosswalk.Attr(e, "href"))
		if href == "" {
			slogcontext.Log(ctx, slog.LevelWarn, "aggregates link without href")
			continue
		}
		data, served, err := c.env.Fetcher.Fetch(ctx, href)
		if err != nil {
			return crosswalk.Failed("fetching aggregated resource "+href, err)
		}

		bundleName := bundles[href]
		if bundleName == "" {
			bundleName = content.BundleOriginal
		}
		name := crosswalk.Attr(e, "title")
		if name == "" {
			name = path.Base(href)
		}
		bs, err := store.NewBitstream(store.EnsureBundle(item, bundleName), name, data)
		if err != nil {
			return crosswalk.Failed("storing "+href, err)
		}
		bs.Format = c.format(crosswalk.Attr(e, "type"), served, data)
		slogcontext.Log(ctx, slog.LevelDebug, "ingested aggregated resource",
			"href", href, "bundle", bundleName, "format", bs.Format.ShortDescription)
	}
	return nil
}

// format picks the bitstream format from the declared type, then the type
// the server reported, then the detected content type.
func (c *Crosswalk) format(declared, served string, data []byte) *content.BitstreamFormat {
	formats := c.env.Store.Formats
	for _, m := range []string{declared, served} {
		if f := formats.ByMIMEType(m); f != nil {
			return f
		}
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if f := formats.ByMIMEType(m.String()); f != nil {
			return f
		}
	}
	return formats.Unknown()
}
