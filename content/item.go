package content

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
	"time"
)

// Well-known bundle names.
const (
	BundleOriginal  = "ORIGINAL"
	BundleLicense   = "LICENSE"
	BundleCCLicense = "CC-LICENSE"
	BundleText      = "TEXT"
	BundleThumbnail = "THUMBNAIL"
	BundleMetadata  = "METADATA"
)

// Item is an archived or in-progress submission.
type Item struct {
	DSpaceObject

	Submitter        *EPerson
	OwningCollection *Collection
	// Collections holds every collection the item appears in, including the
	// owning collection.
	Collections  []*Collection
	Bundles      []*Bundle
	InArchive    bool
	Withdrawn    bool
	Discoverable bool
	LastModified time.Time
	// TemplateFor is set when the item is the template item of a collection.
	TemplateFor *Collection
}

// Type returns ITEM.
func (i *Item) Type() Type { return ITEM }

// Name returns the item's title.
func (i *Item) Name() string { return i.FirstValue("dc.title") }

// IsTemplate reports whether the item is a collection template.
func (i *Item) IsTemplate() bool { return i.TemplateFor != nil }

// BundlesNamed returns the item's bundles with the given name.
func (i *Item) BundlesNamed(name string) []*Bundle {
	var out []*Bundle
	for _, b := range i.Bundles {
		if b.Name() == name {
			out = append(out, b)
		}
	}
	return out
}

// InCollection reports whether the item is mapped to c.
func (i *Item) InCollection(c *Collection) bool {
	for _, col := range i.Collections {
		if col == c {
			return true
		}
	}
	return false
}

// AddToCollection maps the item into c.
func (i *Item) AddToCollection(c *Collection) {
	if !i.InCollection(c) {
		i.Collections = append(i.Collections, c)
	}
}

// Withdraw takes the item out of the archive and records provenance.
func (i *Item) Withdraw(by *EPerson, now time.Time) {
	who := "unknown"
	if by != nil {
		who = by.Name() + " (" + by.Email + ")"
	}
	i.AddMetadata(MustField("dc.description.provenance"), "en",
		fmt.Sprintf("Item withdrawn by %s on %s", who, now.UTC().Format(time.RFC3339)), "", ConfidenceUnset)
	i.Withdrawn = true
	i.InArchive = false
	i.LastModified = now
}

// Reinstate puts a withdrawn item back into the archive.
func (i *Item) Reinstate(by *EPerson, now time.Time) {
	who := "unknown"
	if by != nil {
		who = by.Name() + " (" + by.Email + ")"
	}
	i.AddMetadata(MustField("dc.description.provenance"), "en",
		fmt.Sprintf("Item reinstated by %s on %s", who, now.UTC().Format(time.RFC3339)), "", ConfidenceUnset)
	i.Withdrawn = false
	i.InArchive = true
	i.LastModified = now
}

// Bitstreams returns every bitstream of every bundle.
func (i *Item) Bitstreams() []*Bitstream {
	var out []*Bitstream
	for _, b := range i.Bundles {
		out = append(out, b.Bitstreams...)
	}
	return out
}

// Bundle groups bitstreams of an item.
type Bundle struct {
	DSpaceObject

	Bitstreams []*Bitstream
	Items      []*Item
	Primary    *Bitstream
}

// Type returns BUNDLE.
func (b *Bundle) Type() Type { return BUNDLE }

// Name returns the bundle name, held in dc.title.
func (b *Bundle) Name() string { return b.FirstValue("dc.title") }

// AddBitstream appends bs to the bundle.
func (b *Bundle) AddBitstream(bs *Bitstream) {
	for _, have := range b.Bitstreams {
		if have == bs {
			return
		}
	}
	b.Bitstreams = append(b.Bitstreams, bs)
	bs.Bundles = append(bs.Bundles, b)
}

// RemoveBitstream detaches bs from the bundle.
func (b *Bundle) RemoveBitstream(bs *Bitstream) bool {
	for i, have := range b.Bitstreams {
		if have == bs {
			b.Bitstreams = append(b.Bitstreams[:i], b.Bitstreams[i+1:]...)
			for j, owner := range bs.Bundles {
				if owner == b {
					bs.Bundles = append(bs.Bundles[:j], bs.Bundles[j+1:]...)
					break
				}
			}
			if b.Primary == bs {
				b.Primary = nil
			}
			return true
		}
	}
	return false
}

// MoveBitstream moves the bitstream at position from to position to.
func (b *Bundle) MoveBitstream(from, to int) error {
	n := len(b.Bitstreams)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d in bundle of %d", ErrIndexOutOfRange, from, to, n)
	}
	bs := b.Bitstreams[from]
	rest := append(b.Bitstreams[:from:from], b.Bitstreams[from+1:]...)
	moved := make([]*Bitstream, 0, n)
	moved = append(moved, rest[:to]...)
	moved = append(moved, bs)
	moved = append(moved, rest[to:]...)
	b.Bitstreams = moved
	return nil
}

// BitstreamNamed returns the first bitstream with the given name.
func (b *Bundle) BitstreamNamed(name string) *Bitstream {
	for _, bs := range b.Bitstreams {
		if bs.Name() == name {
			return bs
		}
	}
	return nil
}

// Bitstream is a stored file.
type Bitstream struct {
	DSpaceObject

	SequenceID        int
	Size              int64
	Checksum          string
	ChecksumAlgorithm string
	Format            *BitstreamFormat
	Bundles           []*Bundle
	Deleted           bool

	data []byte
}

// Type returns BITSTREAM.
func (bs *Bitstream) Type() Type { return BITSTREAM }

// Name returns the bitstream file name.
func (bs *Bitstream) Name() string { return bs.FirstValue("dc.title") }

// Source returns the original path of the file, held in dc.source.
func (bs *Bitstream) Source() string { return bs.FirstValue("dc.source") }

// Description returns dc.description.
func (bs *Bitstream) Description() string { return bs.FirstValue("dc.description") }

// UserFormatDescription returns the submitter's description of an unknown
// format, held in dc.format.
func (bs *Bitstream) UserFormatDescription() string { return bs.FirstValue("dc.format") }

// SetName sets the file name.
func (bs *Bitstream) SetName(name string) {
	bs.SetMetadataSingleValue(MustField("dc.title"), "", name)
}

// MIMEType returns the MIME type of the bitstream's format.
func (bs *Bitstream) MIMEType() string {
	if bs.Format == nil {
		return "application/octet-stream"
	}
	return bs.Format.MIMEType
}

// Content returns the stored bytes.
func (bs *Bitstream) Content() []byte {
	return bs.data
}

// SetContent stores data and computes its size and checksum.
func (bs *Bitstream) SetContent(data []byte, algorithm string) error {
	sum, err := Checksum(algorithm, data)
	if err != nil {
		return err
	}
	bs.data = data
	bs.Size = int64(len(data))
	bs.Checksum = sum
	bs.ChecksumAlgorithm = strings.ToUpper(algorithm)
	return nil
}

// Item returns the first item owning the bitstream, if any.
func (bs *Bitstream) Item() *Item {
	for _, b := range bs.Bundles {
		if len(b.Items) > 0 {
			return b.Items[0]
		}
	}
	return nil
}

// Checksum computes the hex digest of data with the named algorithm.
func Checksum(algorithm string, data []byte) (string, error) {
	var h hash.Hash
	switch strings.ToUpper(strings.ReplaceAll(algorithm, "-", "")) {
	case "MD5", "":
		h = md5.New()
	case "SHA1":
		h = sha1.New()
	case "SHA256":
		h = sha256.New()
	default:
		return "", fmt.Errorf("unsupported checksum algorithm %q", algorithm)
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
