// Package metsrights renders resource policies as a METSRights
// RightsDeclarationMD and restores them from one.
package metsrights

import (
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Name is the plugin name.
const Name = "metsrights"

// NS is the METSRights namespace.
var NS = crosswalk.Namespace{Prefix: "rights", URI: "http://cosimo.stanford.edu/sdr/metsrights/"}

// Context classes and user types.
const (
	ClassGroup     = "MANAGED GRP"
	ClassPerson    = "ACADEMIC USER"
	ClassAnonymous = "GENERAL PUBLIC"
	ClassAdmin     = "REPOSITORY MGR"

	UserTypeGroup  = "GROUP"
	UserTypePerson = "INDIVIDUAL"
)

// otherPermitTypes names the actions that have no plain permission flag.
var otherPermitTypes = map[content.Action]string{
	content.ActionAdd:                  "ADD CONTENTS",
	content.ActionRemove:               "REMOVE CONTENTS",
	content.ActionAdmin:                "ADMIN",
	content.ActionDefaultBitstreamRead: "READ FILE CONTENTS",
	content.ActionDefaultItemRead:      "READ ITEM CONTENTS",
}

// Crosswalk implements METSRights.
type Crosswalk struct {
	env *crosswalk.Env
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.Disseminator = (*Crosswalk)(nil)
	_ crosswalk.Ingester     = (*Crosswalk)(nil)
)

// New returns a METSRights crosswalk bound to env.
func New(env *crosswalk.Env) *Crosswalk {
	return &Crosswalk{env: env}
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "METSRights declaration of resource policies"
}

// Namespaces returns the rights and xsi namespaces.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return []crosswalk.Namespace{NS, crosswalk.XSI}
}

// SchemaLocation returns the METSRights schema location.
func (c *Crosswalk) SchemaLocation() string {
	return NS.URI + " http://cosimo.stanford.edu/sdr/metsrights.xsd"
}

// CanDisseminate returns true for bitstreams, bundles, items, collections
// and communities.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	switch obj.(type) {
	case *content.Bitstream, *content.Bundle, *content.Item, *content.Collection, *content.Community:
		return true
	}
	return false
}

// PreferList returns false.
func (c *Crosswalk) PreferList() bool {
	return false
}

// permission is one attribute of a Permissions element.
type permission struct {
	name  string
	value string
}

// permissions returns the Permissions attributes for a, in document order.
func permissions(a content.Action) []permission {
	var perms []permission
	switch a {
	case content.ActionWrite, content.ActionAdd:
		perms = []permission{{"DISCOVER", "true"}, {"DISPLAY", "true"}, {"MODIFY", "true"}, {"DELETE", "false"}}
	case content.ActionDelete, content.ActionRemove:
		perms = []permission{{"DISCOVER", "true"}, {"DISPLAY", "true"}, {"MODIFY", "true"}, {"DELETE", "true"}}
	case content.ActionAdmin:
		perms = []permission{
			{"DISCOVER", "true"}, {"DISPLAY", "true"}, {"COPY", "true"}, {"DUPLICATE", "true"},
			{"MODIFY", "true"}, {"DELETE", "true"}, {"PRINT", "true"},
		}
	case content.ActionRead, content.ActionDefaultBitstreamRead, content.ActionDefaultItemRead:
		perms = []permission{{"DISCOVER", "true"}, {"DISPLAY", "true"}, {"MODIFY", "false"}, {"DELETE", "false"}}
	default:
		perms = []permission{{"DISCOVER", "true"}, {"DISPLAY", "true"}}
	}
	if other, ok := otherPermitTypes[a]; ok {
		perms = append(perms, permission{"OTHER", "true"}, permission{"OTHERPERMITTYPE", other})
	}
	return perms
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env), nil
	})
}
