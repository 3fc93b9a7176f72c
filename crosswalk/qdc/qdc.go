// Package qdc provides the qualified Dublin Core crosswalk for items, driven
// by the qdc mapping profile.
package qdc

import (
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
)

// Name is the plugin name.
const Name = "qdc"

// ProfileName is the mapping profile the crosswalk reads.
const ProfileName = "qdc"

// Crosswalk implements qualified Dublin Core.
type Crosswalk struct {
	env     *crosswalk.Env
	profile *mapping.Profile
	reverse map[string]string
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.Disseminator = (*Crosswalk)(nil)
	_ crosswalk.Ingester     = (*Crosswalk)(nil)
)

// New returns a QDC crosswalk using the qdc profile from env.
func New(env *crosswalk.Env) (*Crosswalk, error) {
	p, err := env.Profile(ProfileName)
	if err != nil {
		return nil, err
	}
	return NewWithProfile(env, p), nil
}

// NewWithProfile returns a QDC crosswalk over a custom profile.
func NewWithProfile(env *crosswalk.Env, p *mapping.Profile) *Crosswalk {
	return &Crosswalk{env: env, profile: p, reverse: p.Reverse()}
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "Qualified Dublin Core (" + c.profile.VersionedName() + ")"
}

// Namespaces returns the namespaces bound by the profile.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return crosswalk.ProfileNamespaces(c.profile)
}

// SchemaLocation returns the profile's schema location.
func (c *Crosswalk) SchemaLocation() string {
	return c.profile.Options.SchemaLocation
}

// CanDisseminate returns true for items.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	_, ok := obj.(*content.Item)
	return ok
}

// PreferList returns true: QDC is usually embedded as a flat list.
func (c *Crosswalk) PreferList() bool {
	return true
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env)
	})
}
