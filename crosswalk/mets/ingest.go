package mets

import (
	"context"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Ingest reads descriptive metadata from a mets:mets document: the DIM
// dmdSec when there is one, otherwise the MODS dmdSec.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	if !crosswalk.Is(root, NS, "mets") {
		return crosswalk.Invalid("METS root must be mets, got %s", root.FullTag())
	}
	return c.IngestList(ctx, obj, crosswalk.Children(root, NS, "dmdSec"), createMissing)
}

// IngestList reads a list of dmdSec elements.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	var dimMD, modsMD *etree.Element
	for _, sec := range elems {
		if !crosswalk.Is(sec, NS, "dmdSec") {
			continue
		}
		w := crosswalk.Child(sec, NS, "mdWrap")
		md := firstChild(crosswalk.Child(w, NS, "xmlData"))
		if w == nil || md == nil {
			continue
		}
		mdType := strings.ToUpper(crosswalk.Attr(w, "MDTYPE"))
		switch {
		case mdType == "OTHER" && strings.EqualFold(crosswalk.Attr(w, "OTHERMDTYPE"), "DIM"):
			if dimMD == nil {
				dimMD = md
			}
		case mdType == "MODS":
			if modsMD == nil {
				modsMD = md
			}
		default:
			slogcontext.Log(ctx, slog.LevelDebug, "ignoring dmdSec", "id", crosswalk.Attr(sec, "ID"), "mdtype", mdType)
		}
	}

	switch {
	case dimMD != nil:
		return c.dim.Ingest(ctx, item, dimMD, createMissing)
	case modsMD != nil:
		return c.mods.Ingest(ctx, item, modsMD, createMissing)
	}
	return crosswalk.Invalid("METS document has no DIM or MODS dmdSec")
}

func firstChild(e *etree.Element) *etree.Element {
	if e == nil {
		return nil
	}
	kids := e.ChildElements()
	if len(kids) == 0 {
		return nil
	}
	return kids[0]
}
