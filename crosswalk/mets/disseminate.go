package mets

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// DisseminateList returns the mets:mets document as its only element.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	e, err := c.DisseminateElement(ctx, obj)
	if err != nil {
		return nil, err
	}
	return []*etree.Element{e}, nil
}

// DisseminateElement renders the METS document of an item.
func (c *Crosswalk) DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error) {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return nil, err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	root := crosswalk.NewElement(NS, "mets")
	crosswalk.Declare(root, c.Namespaces()...)
	root.CreateAttr("xsi:schemaLocation", c.SchemaLocation())
	root.CreateAttr("ID", "DSpace_ITEM_"+idSafe(handleOr(item)))
	if item.Handle != "" {
		root.CreateAttr("OBJID", "hdl:"+item.Handle)
	}
	root.CreateAttr("TYPE", "DSpace ITEM")
	root.CreateAttr("PROFILE", Profile)

	hdr := crosswalk.AddElement(root, NS, "metsHdr")
	hdr.CreateAttr("CREATEDATE", c.env.Now().UTC().Format(time.RFC3339))
	agent := crosswalk.AddElement(hdr, NS, "agent")
	agent.CreateAttr("ROLE", "CUSTODIAN")
	agent.CreateAttr("TYPE", "ORGANIZATION")
	crosswalk.AddText(agent, NS, "name", c.env.Store.Site().SiteName)

	modsRoot, err := c.mods.DisseminateElement(ctx, item)
	if err != nil {
		return nil, err
	}
	dimRoot, err := c.dim.DisseminateElement(ctx, item)
	if err != nil {
		return nil, err
	}
	addDmdSec(root, "dmdSec_1", modsRoot, "MODS", "")
	addDmdSec(root, "dmdSec_2", dimRoot, "OTHER", "DIM")

	bitstreams := liveBitstreams(item)
	amd := crosswalk.AddElement(root, NS, "amdSec")
	amd.CreateAttr("ID", "amd_item")
	techIDs := make(map[*content.Bitstream]string, len(bitstreams))
	for i, bs := range bitstreams {
		p, err := c.premis.DisseminateElement(ctx, bs)
		if err != nil {
			return nil, err
		}
		id := "techMD_" + strconv.Itoa(i+1)
		techIDs[bs] = id
		wrap(crosswalk.AddElement(amd, NS, "techMD"), id, p, "PREMIS", "")
	}
	rights, err := c.rights.DisseminateElement(ctx, item)
	if err != nil {
		return nil, err
	}
	wrap(crosswalk.AddElement(amd, NS, "rightsMD"), "rightsMD_item", rights, "OTHER", "METSRIGHTS")

	fileSec := crosswalk.AddElement(root, NS, "fileSec")
	fileIDs := make(map[*content.Bitstream]string, len(bitstreams))
	for _, b := range item.Bundles {
		grp := crosswalk.AddElement(fileSec, NS, "fileGrp")
		grp.CreateAttr("USE", b.Name())
		for _, bs := range b.Bitstreams {
			if bs.Deleted {
				continue
			}
			id := "bitstream_" + idSafe(bs.ID().String())
			fileIDs[bs] = id
			f := crosswalk.AddElement(grp, NS, "file")
			f.CreateAttr("ID", id)
			f.CreateAttr("MIMETYPE", bs.MIMEType())
			f.CreateAttr("SIZE", strconv.FormatInt(bs.Size, 10))
			if bs.Checksum != "" {
				f.CreateAttr("CHECKSUM", bs.Checksum)
				f.CreateAttr("CHECKSUMTYPE", bs.ChecksumAlgorithm)
			}
			if adm := techIDs[bs]; adm != "" {
				f.CreateAttr("ADMID", adm)
			}
			if bs.SequenceID > 0 {
				f.CreateAttr("SEQ", strconv.Itoa(bs.SequenceID))
			}
			loc := crosswalk.AddElement(f, NS, "FLocat")
			loc.CreateAttr("LOCTYPE", "URL")
			loc.CreateAttr("xlink:type", "simple")
			loc.CreateAttr("xlink:href", c.env.Config.BitstreamURL(bs.ID().String()))
			if name := bs.Name(); name != "" {
				loc.CreateAttr("xlink:title", name)
			}
		}
	}

	smap := crosswalk.AddElement(root, NS, "structMap")
	smap.CreateAttr("TYPE", "LOGICAL")
	smap.CreateAttr("LABEL", "DSpace Object")
	div := crosswalk.AddElement(smap, NS, "div")
	div.CreateAttr("TYPE", "DSpace Object Contents")
	div.CreateAttr("DMDID", "dmdSec_1 dmdSec_2")
	div.CreateAttr("ADMID", "rightsMD_item")
	if label := item.Name(); label != "" {
		div.CreateAttr("LABEL", label)
	}
	for _, bs := range bitstreams {
		id, ok := fileIDs[bs]
		if !ok {
			continue
		}
		bdiv := crosswalk.AddElement(div, NS, "div")
		bdiv.CreateAttr("TYPE", "DSpace BITSTREAM")
		ptr := crosswalk.AddElement(bdiv, NS, "fptr")
		ptr.CreateAttr("FILEID", id)
	}
	return root, nil
}

func addDmdSec(root *etree.Element, id string, md *etree.Element, mdType, other string) {
	sec := crosswalk.AddElement(root, NS, "dmdSec")
	wrap(sec, id, md, mdType, other)
}

// wrap sets ID on sec and places md under mdWrap/xmlData.
func wrap(sec *etree.Element, id string, md *etree.Element, mdType, other string) {
	sec.CreateAttr("ID", id)
	w := crosswalk.AddElement(sec, NS, "mdWrap")
	w.CreateAttr("MDTYPE", mdType)
	if other != "" {
		w.CreateAttr("OTHERMDTYPE", other)
	}
	data := crosswalk.AddElement(w, NS, "xmlData")
	data.AddChild(md)
}

func liveBitstreams(item *content.Item) []*content.Bitstream {
	var out []*content.Bitstream
	for _, bs := range item.Bitstreams() {
		if !bs.Deleted {
			out = append(out, bs)
		}
	}
	return out
}

func handleOr(item *content.Item) string {
	if item.Handle != "" {
		return item.Handle
	}
	return item.ID().String()
}

// idSafe turns s into a valid XML ID fragment.
func idSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, s)
}
