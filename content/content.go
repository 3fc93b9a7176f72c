// Package content holds the repository object model that crosswalks and
// patch operations act on: communities, collections, items, bundles,
// bitstreams, epersons, groups and resource policies.
package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Type identifies the kind of a repository object. The numeric values match
// the constants used by DSpace so they can appear in exported documents.
type Type int

const (
	BITSTREAM  Type = 0
	BUNDLE     Type = 1
	ITEM       Type = 2
	COLLECTION Type = 3
	COMMUNITY  Type = 4
	SITE       Type = 5
	GROUP      Type = 6
	EPERSON    Type = 7
)

var typeNames = map[Type]string{
	BITSTREAM:  "BITSTREAM",
	BUNDLE:     "BUNDLE",
	ITEM:       "ITEM",
	COLLECTION: "COLLECTION",
	COMMUNITY:  "COMMUNITY",
	SITE:       "SITE",
	GROUP:      "GROUP",
	EPERSON:    "EPERSON",
}

// String returns the upper-case type name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE(%d)", int(t))
}

// ParseType parses a type name case-insensitively.
func ParseType(s string) (Type, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown object type: %q", s)
}

// Object is implemented by every repository object that carries metadata.
type Object interface {
	ID() uuid.UUID
	Type() Type
	Name() string
	Base() *DSpaceObject
}

// DSpaceObject is the state shared by all repository objects.
type DSpaceObject struct {
	UUID   uuid.UUID
	Handle string

	metadata []MetadataValue
}

func newDSpaceObject() DSpaceObject {
	return DSpaceObject{UUID: uuid.New()}
}

// ID returns the object's UUID.
func (o *DSpaceObject) ID() uuid.UUID {
	return o.UUID
}

// Base returns the object itself. It lets generic code reach the metadata
// operations through the Object interface.
func (o *DSpaceObject) Base() *DSpaceObject {
	return o
}

// Describe renders an object as "TYPE uuid" for log and error messages.
func Describe(obj Object) string {
	if obj == nil {
		return "<nil>"
	}
	return obj.Type().String() + " " + obj.ID().String()
}
