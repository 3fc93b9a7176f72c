// Package mets packages an item as a METS document: descriptive metadata
// in MODS and DIM, rights and technical metadata, the file inventory and a
// logical structure map.
package mets

import (
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/dim"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/metsrights"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/mods"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/premis"
)

// Name is the plugin name.
const Name = "mets"

// Profile is written to the PROFILE attribute.
const Profile = "DSpace METS SIP Profile 1.0"

// NS is the METS namespace.
var NS = crosswalk.Namespace{Prefix: "mets", URI: "http://www.loc.gov/METS/"}

// Crosswalk implements METS for items.
type Crosswalk struct {
	env    *crosswalk.Env
	mods   *mods.Crosswalk
	dim    *dim.Crosswalk
	rights *metsrights.Crosswalk
	premis *premis.Crosswalk
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.Disseminator = (*Crosswalk)(nil)
	_ crosswalk.Ingester     = (*Crosswalk)(nil)
)

// New returns a METS crosswalk bound to env.
func New(env *crosswalk.Env) (*Crosswalk, error) {
	m, err := mods.New(env)
	if err != nil {
		return nil, err
	}
	return &Crosswalk{
		env:    env,
		mods:   m,
		dim:    dim.New(env),
		rights: metsrights.New(env),
		premis: premis.New(env),
	}, nil
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "METS package of an item's metadata and files"
}

// Namespaces returns mets, xlink and xsi.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return []crosswalk.Namespace{NS, crosswalk.XLink, crosswalk.XSI}
}

// SchemaLocation returns the METS schema location.
func (c *Crosswalk) SchemaLocation() string {
	return NS.URI + " http://www.loc.gov/standards/mets/mets.xsd"
}

// CanDisseminate returns true for items.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	_, ok := obj.(*content.Item)
	return ok
}

// PreferList returns false.
func (c *Crosswalk) PreferList() bool {
	return false
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env)
	})
}
