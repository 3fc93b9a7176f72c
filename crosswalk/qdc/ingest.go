package qdc

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

// Ingest accepts a wrapper root (qdc:qualifieddc or any element holding dc
// children) or a single dc/dcterms element.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	if c.isWrapper(root) {
		return c.IngestList(ctx, obj, root.ChildElements(), createMissing)
	}
	return c.IngestList(ctx, obj, []*etree.Element{root}, createMissing)
}

// IngestList stores each element under the field the reversed profile
// names. Elements with no mapping are logged and skipped.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	for _, e := range elems {
		key := mapping.ElementKey(crosswalk.PrefixedName(c.profile, e), nil)
		field, ok := c.reverse[key]
		if !ok {
			slogcontext.Log(ctx, slog.LevelWarn, "skipping unmapped QDC element", "element", key)
			continue
		}
		f, err := content.ParseField(field)
		if err != nil {
			return crosswalk.Failed("profile "+c.profile.Name, err)
		}
		value := strings.TrimSpace(e.Text())
		if value == "" {
			continue
		}
		lang := crosswalk.NormalizeLang(crosswalk.Lang(e))
		if _, err := crosswalk.AddChecked(ctx, c.env, item, f, lang, value, "", content.ConfidenceUnset, createMissing); err != nil {
			return err
		}
	}
	return nil
}

func (c *Crosswalk) isWrapper(e *etree.Element) bool {
	if e.Tag == "qualifieddc" || e.Tag == "qdc" {
		return true
	}
	prefix, _ := mapping.SplitName(crosswalk.PrefixedName(c.profile, e))
	return prefix != "dc" && prefix != "dcterms" && len(e.ChildElements()) > 0
}
