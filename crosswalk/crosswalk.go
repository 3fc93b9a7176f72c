// Package crosswalk defines the plugin interfaces that translate repository
// objects to and from external metadata vocabularies, and the registry the
// vocabulary packages register themselves with.
package crosswalk

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
)

var (
	// ErrObjectNotSupported is returned when a crosswalk is asked to handle
	// an object type it does not know.
	ErrObjectNotSupported = errors.New("crosswalk object not supported")

	// ErrMetadataValidation is returned when input cannot be applied to the
	// repository: unknown fields, wrong root elements, bad checksums.
	ErrMetadataValidation = errors.New("metadata validation failed")

	// ErrCrosswalk wraps other failures inside a crosswalk.
	ErrCrosswalk = errors.New("crosswalk failed")
)

// NotSupported reports that crosswalk name cannot handle obj.
func NotSupported(name string, obj content.Object) error {
	return fmt.Errorf("%w: %s cannot handle %s", ErrObjectNotSupported, name, content.Describe(obj))
}

// Invalid builds an ErrMetadataValidation error.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMetadataValidation, fmt.Sprintf(format, args...))
}

// Failed wraps err as ErrCrosswalk with a message.
func Failed(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrCrosswalk, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrCrosswalk, msg, err)
}

// Crosswalk is implemented by every plugin.
type Crosswalk interface {
	// Name returns the plugin name the crosswalk is registered under
	Name() string

	// Description returns a human-readable summary
	Description() string
}

// Disseminator renders repository objects as XML elements.
type Disseminator interface {
	Crosswalk

	// Namespaces lists the namespaces the output uses
	Namespaces() []Namespace

	// SchemaLocation returns the xsi:schemaLocation value, or ""
	SchemaLocation() string

	// CanDisseminate reports whether obj can be rendered
	CanDisseminate(obj content.Object) bool

	// PreferList reports whether DisseminateList is the natural output
	PreferList() bool

	// DisseminateList renders obj as a list of sibling elements
	DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error)

	// DisseminateElement renders obj under a single root element
	DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error)
}

// Ingester applies XML metadata to repository objects.
type Ingester interface {
	Crosswalk

	// Ingest applies the document rooted at root to obj
	Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error

	// IngestList applies a list of sibling elements to obj
	IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error
}

// StreamDisseminator writes an object as an opaque byte stream.
type StreamDisseminator interface {
	Crosswalk

	CanDisseminate(obj content.Object) bool
	Disseminate(ctx context.Context, obj content.Object, w io.Writer) error

	// MIMEType is the type of the stream Disseminate writes for obj
	MIMEType(obj content.Object) string
}

// StreamIngester reads an opaque byte stream into an object.
type StreamIngester interface {
	Crosswalk

	Ingest(ctx context.Context, obj content.Object, r io.Reader, mimeType string) error

	// IngestMIMEType is the type of stream Ingest expects
	IngestMIMEType() string
}

// AsItem returns obj as an item, or an ErrObjectNotSupported error naming
// crosswalk name.
func AsItem(name string, obj content.Object) (*content.Item, error) {
	item, ok := obj.(*content.Item)
	if !ok || item == nil {
		return nil, NotSupported(name, obj)
	}
	return item, nil
}

// AsBitstream is AsItem for bitstreams.
func AsBitstream(name string, obj content.Object) (*content.Bitstream, error) {
	bs, ok := obj.(*content.Bitstream)
	if !ok || bs == nil {
		return nil, NotSupported(name, obj)
	}
	return bs, nil
}
