package mods

import (
	"context"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/helpers"
)

type extracted struct {
	value string
	lang  string
}

// Ingest accepts a mods:mods root, the first record of a
// mods:modsCollection, or a single top-level MODS element.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	switch {
	case crosswalk.Is(root, NS, "modsCollection"):
		first := crosswalk.Child(root, NS, "mods")
		if first == nil {
			return crosswalk.Invalid("modsCollection holds no mods record")
		}
		return c.IngestList(ctx, obj, first.ChildElements(), createMissing)
	case crosswalk.Is(root, NS, "mods"):
		return c.IngestList(ctx, obj, root.ChildElements(), createMissing)
	}
	return c.IngestList(ctx, obj, []*etree.Element{root}, createMissing)
}

// IngestList resolves each top-level element against the profile. Among
// mappings that extract values along the same path, the one with the most
// predicates wins; mappings along different paths all apply.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	if !c.CanDisseminate(obj) {
		return crosswalk.NotSupported(Name, obj)
	}
	_, isItem := obj.(*content.Item)
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	for _, e := range elems {
		if !crosswalk.Is(e, NS, e.Tag) {
			slogcontext.Log(ctx, slog.LevelWarn, "skipping non-MODS element", "element", e.FullTag())
			continue
		}
		resolved := false
		done := map[string]bool{}
		for _, r := range c.byTop[e.Tag] {
			if done[r.shape] {
				continue
			}
			values := r.extract(e)
			if len(values) == 0 {
				continue
			}
			done[r.shape] = true
			resolved = true
			if !isItem && !containerFields[r.field.String()] {
				continue
			}
			authority, confidence := "", content.ConfidenceUnset
			if uri := crosswalk.Attr(e, "valueURI"); uri != "" && e.Tag == "name" {
				authority, confidence = uri, content.ConfidenceAccepted
			}
			for _, v := range values {
				text := r.convert.Convert(v.value)
				if text == "" {
					continue
				}
				if _, err := crosswalk.AddChecked(ctx, c.env, obj, r.field, v.lang, text, authority, confidence, createMissing); err != nil {
					return err
				}
			}
		}
		if !resolved {
			slogcontext.Log(ctx, slog.LevelWarn, "skipping unmapped MODS element", "element", e.Tag)
		}
	}
	return nil
}

// extract returns the values r finds under top, or nil when top does not
// satisfy its predicates.
func (r *rule) extract(top *etree.Element) []extracted {
	if !hasAttrs(top, r.steps[0].attrs) {
		return nil
	}
	if r.role != "" && !roleMatches(top, r.role) {
		return nil
	}
	cur := []*etree.Element{top}
	for _, s := range r.steps[1:] {
		var next []*etree.Element
		for _, e := range cur {
			for _, ch := range crosswalk.Children(e, NS, s.name) {
				if hasAttrs(ch, s.attrs) {
					next = append(next, ch)
				}
			}
		}
		cur = next
	}
	if len(cur) == 0 {
		return nil
	}

	if r.steps[len(r.steps)-1].name == "namePart" {
		if v := joinNameParts(cur); v != "" {
			return []extracted{{value: v, lang: crosswalk.NormalizeLang(crosswalk.Lang(cur[0]))}}
		}
		return nil
	}
	var out []extracted
	for _, leaf := range cur {
		v := strings.TrimSpace(leaf.Text())
		if v == "" {
			continue
		}
		out = append(out, extracted{value: v, lang: crosswalk.NormalizeLang(crosswalk.Lang(leaf))})
	}
	return out
}

func hasAttrs(e *etree.Element, attrs [][2]string) bool {
	for _, a := range attrs {
		if e.SelectAttrValue(a[0], "") != a[1] {
			return false
		}
	}
	return true
}

// roleMatches compares the roleTerms of a name with a relator code. A name
// without any role counts as a contributor.
func roleMatches(name *etree.Element, code string) bool {
	var terms []string
	for _, role := range crosswalk.Children(name, NS, "role") {
		for _, t := range crosswalk.Children(role, NS, "roleTerm") {
			if s := strings.TrimSpace(t.Text()); s != "" {
				terms = append(terms, s)
			}
		}
	}
	if len(terms) == 0 {
		return code == "ctb"
	}
	for _, t := range terms {
		if helpers.NormalizeRole(t) == code {
			return true
		}
	}
	return false
}

// joinNameParts renders typed nameParts as "family, given". Untyped parts
// are joined with spaces; dates and terms of address are left out.
func joinNameParts(parts []*etree.Element) string {
	var family, given []string
	for _, p := range parts {
		t := strings.TrimSpace(p.Text())
		if t == "" {
			continue
		}
		switch p.SelectAttrValue("type", "") {
		case "given":
			given = append(given, t)
		case "date", "termsOfAddress":
		default:
			family = append(family, t)
		}
	}
	name := strings.Join(family, " ")
	if len(given) > 0 {
		if name != "" {
			name += ", "
		}
		name += strings.Join(given, " ")
	}
	return name
}
