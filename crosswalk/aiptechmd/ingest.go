package aiptechmd

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/dim"
)

// Ingest accepts a dim:dim root.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	if !crosswalk.Is(root, dim.NS, "dim") {
		return crosswalk.Invalid("AIP technical metadata expects dim:dim, got %s", root.FullTag())
	}
	return c.IngestList(ctx, obj, root.ChildElements(), createMissing)
}

// IngestList applies dc fields of elems to obj. Fields of other schemas are
// skipped; elements other than dim:dim and dim:field are rejected.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	if !c.CanDisseminate(obj) {
		return crosswalk.NotSupported(Name, obj)
	}
	if err := checkElements(elems); err != nil {
		return err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))
	values, err := dim.Read(ctx, elems)
	if err != nil {
		return err
	}

	var fmtSpec formatSpec
	for _, v := range values {
		if v.Field.Schema != "dc" {
			slogcontext.Log(ctx, slog.LevelWarn, "skipping field outside dc", "field", v.Field.String())
			continue
		}
		field := v.Field.Element
		if v.Field.Qualifier != "" {
			field += "." + v.Field.Qualifier
		}
		switch o := obj.(type) {
		case *content.Bitstream:
			err = c.bitstreamField(ctx, o, field, v.Value, &fmtSpec)
		case *content.Item:
			c.itemField(ctx, o, field, v.Value)
		case *content.Collection, *content.Community:
			switch field {
			case "identifier.uri", "relation.isPartOf", "relation.isReferencedBy":
			default:
				slogcontext.Log(ctx, slog.LevelWarn, "unrecognized field for container", "field", field)
			}
		}
		if err != nil {
			return err
		}
	}

	if bs, ok := obj.(*content.Bitstream); ok && fmtSpec.shortName != "" {
		c.setFormat(ctx, bs, fmtSpec)
	}
	return nil
}

func checkElements(elems []*etree.Element) error {
	for _, e := range elems {
		switch {
		case crosswalk.Is(e, dim.NS, "dim"):
			if err := checkElements(e.ChildElements()); err != nil {
				return err
			}
		case crosswalk.Is(e, dim.NS, "field"):
		default:
			return crosswalk.Invalid("unexpected element in DIM list: %s", e.FullTag())
		}
	}
	return nil
}

func (c *Crosswalk) itemField(ctx context.Context, item *content.Item, field, value string) {
	store := c.env.Store
	switch field {
	case "creator":
		sub, ok := store.EPersonByEmail(value)
		if !ok {
			if !c.env.Config.CreateSubmitter {
				slogcontext.Log(ctx, slog.LevelWarn, "ignoring unknown submitter", "email", value)
				return
			}
			sub = store.NewEPerson(value)
			sub.CanLogIn = false
			slogcontext.Log(ctx, slog.LevelInfo, "created submitter", "email", value)
		}
		item.Submitter = sub

	case "rights.accessRights":
		if strings.EqualFold(value, Withdrawn) && !item.Withdrawn {
			item.Withdraw(nil, c.env.Now())
		}

	case "identifier.uri", "relation.isPartOf":
		// set when the item was created

	case "relation.isReferencedBy":
		parent, ok := store.ByHandle(strings.TrimSpace(value))
		if !ok {
			slogcontext.Log(ctx, slog.LevelDebug, "referenced collection not found", "handle", value)
			return
		}
		if col, ok := parent.(*content.Collection); ok {
			item.AddToCollection(col)
		}

	default:
		slogcontext.Log(ctx, slog.LevelWarn, "unrecognized field for item", "field", field)
	}
}

// formatSpec accumulates the format fields of a bitstream.
type formatSpec struct {
	shortName string
	mimeType  string
	support   content.SupportLevel
	internal  bool
}

func (c *Crosswalk) bitstreamField(ctx context.Context, bs *content.Bitstream, field, value string, f *formatSpec) error {
	switch field {
	case "title":
		bs.SetName(value)
	case "title.alternative":
		bs.SetMetadataSingleValue(content.MustField("dc.source"), "", value)
	case "description":
		bs.SetMetadataSingleValue(content.MustField("dc.description"), "", value)
	case "format":
		bs.SetMetadataSingleValue(content.MustField("dc.format"), "", value)
	case "format.medium":
		f.shortName = value
	case "format.mimetype":
		f.mimeType = value
	case "format.supportlevel":
		level, ok := content.LookupSupportLevel(value)
		if !ok {
			return crosswalk.Invalid("unrecognized bitstream support level: %s", value)
		}
		f.support = level
	case "format.internal":
		f.internal, _ = strconv.ParseBool(value)
	default:
		slogcontext.Log(ctx, slog.LevelWarn, "unrecognized field for bitstream", "field", field)
	}
	return nil
}

// setFormat finds the format by short description, registering a new one
// when a MIME type was given.
func (c *Crosswalk) setFormat(ctx context.Context, bs *content.Bitstream, f formatSpec) {
	formats := c.env.Store.Formats
	bsf := formats.ByShortDescription(f.shortName)
	if bsf == nil && f.mimeType != "" {
		bsf = &content.BitstreamFormat{
			ShortDescription: f.shortName,
			Description:      f.shortName,
			MIMEType:         f.mimeType,
			SupportLevel:     f.support,
			Internal:         f.internal,
		}
		formats.Add(bsf)
		slogcontext.Log(ctx, slog.LevelInfo, "registered bitstream format", "format", f.shortName, "mime", f.mimeType)
	}
	if bsf == nil {
		slogcontext.Log(ctx, slog.LevelWarn, "no bitstream format", "format", f.shortName)
		return
	}
	bs.Format = bsf
}
