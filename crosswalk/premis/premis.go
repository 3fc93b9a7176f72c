// Package premis describes bitstreams as PREMIS objects: identifier,
// fixity, size, format and original name.
package premis

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Name is the plugin name.
const Name = "premis"

// NS is the PREMIS namespace.
var NS = crosswalk.Namespace{Prefix: "premis", URI: "http://www.loc.gov/standards/premis"}

// Crosswalk implements PREMIS for bitstreams.
type Crosswalk struct {
	env *crosswalk.Env
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.Disseminator = (*Crosswalk)(nil)
	_ crosswalk.Ingester     = (*Crosswalk)(nil)
)

// New returns a PREMIS crosswalk bound to env.
func New(env *crosswalk.Env) *Crosswalk {
	return &Crosswalk{env: env}
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "PREMIS object description of a bitstream"
}

// Namespaces returns the premis and xsi namespaces.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return []crosswalk.Namespace{NS, crosswalk.XSI}
}

// SchemaLocation returns the PREMIS schema location.
func (c *Crosswalk) SchemaLocation() string {
	return NS.URI + " http://www.loc.gov/standards/premis/PREMIS-v1-0.xsd"
}

// CanDisseminate returns true for bitstreams.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	_, ok := obj.(*content.Bitstream)
	return ok
}

// PreferList returns false.
func (c *Crosswalk) PreferList() bool {
	return false
}

// DisseminateElement renders premis:premis around the object.
func (c *Crosswalk) DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error) {
	list, err := c.DisseminateList(ctx, obj)
	if err != nil {
		return nil, err
	}
	root := crosswalk.NewElement(NS, "premis")
	crosswalk.Declare(root, c.Namespaces()...)
	root.CreateAttr("xsi:schemaLocation", c.SchemaLocation())
	for _, e := range list {
		root.AddChild(e)
	}
	return root, nil
}

// DisseminateList returns the single premis:object element.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	bs, err := crosswalk.AsBitstream(Name, obj)
	if err != nil {
		return nil, err
	}
	o := crosswalk.NewElement(NS, "object")
	crosswalk.Declare(o, NS)

	id := crosswalk.AddElement(o, NS, "objectIdentifier")
	crosswalk.AddText(id, NS, "objectIdentifierType", "URL")
	crosswalk.AddText(id, NS, "objectIdentifierValue", c.env.Config.BitstreamURL(bs.ID().String()))

	crosswalk.AddText(o, NS, "objectCategory", "File")

	chars := crosswalk.AddElement(o, NS, "objectCharacteristics")
	crosswalk.AddText(chars, NS, "compositionLevel", "0")
	if bs.Checksum != "" {
		fixity := crosswalk.AddElement(chars, NS, "fixity")
		crosswalk.AddText(fixity, NS, "messageDigestAlgorithm", bs.ChecksumAlgorithm)
		crosswalk.AddText(fixity, NS, "messageDigest", bs.Checksum)
	}
	crosswalk.AddText(chars, NS, "size", strconv.FormatInt(bs.Size, 10))
	format := crosswalk.AddElement(chars, NS, "format")
	designation := crosswalk.AddElement(format, NS, "formatDesignation")
	crosswalk.AddText(designation, NS, "formatName", bs.MIMEType())

	if name := bs.Name(); name != "" {
		crosswalk.AddText(o, NS, "originalName", name)
	}
	return []*etree.Element{o}, nil
}

// Ingest accepts premis:premis or premis:object.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	if crosswalk.Is(root, NS, "premis") {
		return c.IngestList(ctx, obj, root.ChildElements(), createMissing)
	}
	return c.IngestList(ctx, obj, []*etree.Element{root}, createMissing)
}

// IngestList applies the first premis:object: the name from originalName,
// the format from formatName, and a fixity check against the stored
// checksum.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	bs, err := crosswalk.AsBitstream(Name, obj)
	if err != nil {
		return err
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	var o *etree.Element
	for _, e := range elems {
		if crosswalk.Is(e, NS, "object") {
			o = e
			break
		}
	}
	if o == nil {
		return crosswalk.Invalid("no premis:object element")
	}

	if name := crosswalk.ChildText(o, NS, "originalName"); name != "" {
		bs.SetName(name)
	}

	chars := crosswalk.Child(o, NS, "objectCharacteristics")
	if mime := crosswalk.Text(crosswalk.Path(chars, NS, "format", "formatDesignation", "formatName")); mime != "" {
		formats := c.env.Store.Formats
		f := formats.ByMIMEType(mime)
		if f == nil {
			slogcontext.Log(ctx, slog.LevelWarn, "no bitstream format for MIME type, guessing", "mime", mime)
			f = formats.Guess(bs.Name(), bs.Content())
		}
		bs.Format = f
	}

	if fixity := crosswalk.Child(chars, NS, "fixity"); fixity != nil {
		return verify(bs, crosswalk.ChildText(fixity, NS, "messageDigestAlgorithm"), crosswalk.ChildText(fixity, NS, "messageDigest"))
	}
	return nil
}

// verify compares a declared digest with the bitstream. A digest in another
// algorithm is recomputed from the stored content.
func verify(bs *content.Bitstream, algorithm, digest string) error {
	if digest == "" || bs.Checksum == "" {
		return nil
	}
	have := bs.Checksum
	if algorithm != "" && normalizeAlgorithm(algorithm) != normalizeAlgorithm(bs.ChecksumAlgorithm) {
		if len(bs.Content()) == 0 {
			return nil
		}
		sum, err := content.Checksum(algorithm, bs.Content())
		if err != nil {
			return crosswalk.Invalid("fixity algorithm %s: %v", algorithm, err)
		}
		have = sum
	}
	if !strings.EqualFold(have, digest) {
		return crosswalk.Invalid("fixity mismatch for %s: declared %s %s, stored %s", bs.Name(), algorithm, digest, have)
	}
	return nil
}

func normalizeAlgorithm(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env), nil
	})
}
