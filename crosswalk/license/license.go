// Package license streams the deposit license an item was submitted under.
package license

import (
	"context"
	"io"
	"log/slog"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Name is the plugin name.
const Name = "license"

// BitstreamName is the name of the license bitstream.
const BitstreamName = "license.txt"

// MIMEType is the type of the license stream.
const MIMEType = "text/plain; charset=utf-8"

// Crosswalk implements deposit license streaming.
type Crosswalk struct {
	env *crosswalk.Env
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.StreamDisseminator = (*Crosswalk)(nil)
	_ crosswalk.StreamIngester     = (*Crosswalk)(nil)
)

// New returns a license crosswalk bound to env.
func New(env *crosswalk.Env) *Crosswalk {
	return &Crosswalk{env: env}
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "Deposit license text"
}

// CanDisseminate reports whether obj is an item with a license.txt in a
// LICENSE bundle.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	item, ok := obj.(*content.Item)
	return ok && find(item) != nil
}

// MIMEType returns the plain text type.
func (c *Crosswalk) MIMEType(content.Object) string {
	return MIMEType
}

// IngestMIMEType returns the plain text type.
func (c *Crosswalk) IngestMIMEType() string {
	return MIMEType
}

// Disseminate copies the license text to w.
func (c *Crosswalk) Disseminate(ctx context.Context, obj content.Object, w io.Writer) error {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return err
	}
	bs := find(item)
	if bs == nil {
		return crosswalk.NotSupported(Name, obj)
	}
	if _, err := w.Write(bs.Content()); err != nil {
		return crosswalk.Failed("writing license", err)
	}
	return nil
}

// Ingest stores r as license.txt in a new LICENSE bundle.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, r io.Reader, mimeType string) error {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return crosswalk.Failed("reading license", err)
	}
	store := c.env.Store
	bs, err := store.NewBitstream(store.NewBundle(item, content.BundleLicense), BitstreamName, data)
	if err != nil {
		return crosswalk.Failed("storing license", err)
	}
	bs.Format = store.Formats.ByShortDescription(content.FormatLicense)
	slogcontext.Log(ctx, slog.LevelInfo, "stored deposit license",
		"crosswalk", Name, "object", content.Describe(obj), "size", bs.Size, "mime", mimeType)
	return nil
}

func find(item *content.Item) *content.Bitstream {
	for _, b := range item.BundlesNamed(content.BundleLicense) {
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
