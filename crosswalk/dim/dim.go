// Package dim provides the DSpace Intermediate Metadata crosswalk, a direct
// XML rendering of an object's metadata values.
package dim

import (
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Name is the plugin name.
const Name = "dim"

// NS is the DIM namespace.
var NS = crosswalk.Namespace{Prefix: "dim", URI: "http://www.dspace.org/xmlns/dspace/dim"}

// Crosswalk implements DIM dissemination and ingestion.
type Crosswalk struct {
	env *crosswalk.Env
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.Disseminator = (*Crosswalk)(nil)
	_ crosswalk.Ingester     = (*Crosswalk)(nil)
)

// New returns a DIM crosswalk bound to env.
func New(env *crosswalk.Env) *Crosswalk {
	return &Crosswalk{env: env}
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "DSpace Intermediate Metadata"
}

// Namespaces returns the DIM namespace.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return []crosswalk.Namespace{NS}
}

// SchemaLocation returns "": DIM has no published schema.
func (c *Crosswalk) SchemaLocation() string {
	return ""
}

// CanDisseminate returns true for every object.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	return obj != nil
}

// PreferList returns false.
func (c *Crosswalk) PreferList() bool {
	return false
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env), nil
	})
}
