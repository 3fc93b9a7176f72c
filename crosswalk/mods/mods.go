// Package mods implements the MODS 3.x crosswalk. The mods mapping profile
// drives both directions: each field names a slash path under the mods root
// whose steps may carry [@attr=value] predicates.
package mods

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/convert"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/helpers"
	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
)

// Name is the plugin name.
const Name = "mods"

// NS is the MODS v3 namespace.
var NS = crosswalk.Namespace{Prefix: "mods", URI: "http://www.loc.gov/mods/v3"}

// Fields disseminated for containers and the site.
var containerFields = map[string]bool{
	"dc.title":                true,
	"dc.description.abstract": true,
}

// Crosswalk implements MODS.
type Crosswalk struct {
	env     *crosswalk.Env
	profile *mapping.Profile
	rules   map[string]*rule
	byTop   map[string][]*rule
}

// Ensure Crosswalk implements the interfaces
var (
	_ crosswalk.Disseminator = (*Crosswalk)(nil)
	_ crosswalk.Ingester     = (*Crosswalk)(nil)
)

type step struct {
	name  string
	attrs [][2]string
}

type rule struct {
	field   content.MetadataField
	mapping mapping.FieldMapping
	steps   []step
	role    string // MARC relator code
	shape   string
	score   int
	convert convert.Converter
}

// New returns a MODS crosswalk using the mods profile.
func New(env *crosswalk.Env) (*Crosswalk, error) {
	p, err := env.Profile(Name)
	if err != nil {
		return nil, err
	}
	return NewWithProfile(env, p)
}

// NewWithProfile compiles the paths of p.
func NewWithProfile(env *crosswalk.Env, p *mapping.Profile) (*Crosswalk, error) {
	c := &Crosswalk{
		env:     env,
		profile: p,
		rules:   make(map[string]*rule, len(p.Fields)),
		byTop:   make(map[string][]*rule),
	}
	for _, name := range p.FieldNames() {
		m := p.Fields[name]
		f, err := content.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("mods profile: %w", err)
		}
		steps, err := parsePath(m.Element)
		if err != nil {
			return nil, fmt.Errorf("mods profile field %s: %w", name, err)
		}
		conv, err := convert.Parse(m.Transform)
		if err != nil {
			return nil, fmt.Errorf("mods profile field %s: %w", name, err)
		}
		r := &rule{field: f, mapping: m, steps: steps, convert: conv}
		names := make([]string, len(steps))
		for i, s := range steps {
			names[i] = s.name
			r.score += len(s.attrs)
		}
		r.shape = strings.Join(names, "/")
		if m.Role != "" {
			r.role = helpers.NormalizeRole(m.Role)
			r.score++
		}
		c.rules[name] = r
		if !m.DisseminateOnly {
			c.byTop[steps[0].name] = append(c.byTop[steps[0].name], r)
		}
	}
	for _, rs := range c.byTop {
		sort.SliceStable(rs, func(i, j int) bool {
			if rs[i].score != rs[j].score {
				return rs[i].score > rs[j].score
			}
			return rs[i].mapping.Priority > rs[j].mapping.Priority
		})
	}
	return c, nil
}

// parsePath splits "a[@x=1]/b" into steps.
func parsePath(path string) ([]step, error) {
	var steps []step
	for _, part := range strings.Split(path, "/") {
		name, rest, _ := strings.Cut(part, "[")
		s := step{name: strings.TrimSpace(name)}
		if s.name == "" {
			return nil, fmt.Errorf("empty step in %q", path)
		}
		if rest != "" {
			rest = "[" + rest
		}
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if !strings.HasPrefix(rest, "[@") || end < 0 {
				return nil, fmt.Errorf("bad predicate in %q", path)
			}
			k, v, ok := strings.Cut(rest[2:end], "=")
			if !ok {
				return nil, fmt.Errorf("predicate without value in %q", path)
			}
			s.attrs = append(s.attrs, [2]string{strings.TrimSpace(k), strings.Trim(strings.TrimSpace(v), `'"`)})
			rest = rest[end+1:]
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "MODS " + c.profile.Version + " descriptive metadata"
}

// Namespaces returns mods, xlink and xsi.
func (c *Crosswalk) Namespaces() []crosswalk.Namespace {
	return crosswalk.ProfileNamespaces(c.profile)
}

// SchemaLocation returns the MODS schema location.
func (c *Crosswalk) SchemaLocation() string {
	return c.profile.Options.SchemaLocation
}

// CanDisseminate returns true for items, collections, communities and the
// site.
func (c *Crosswalk) CanDisseminate(obj content.Object) bool {
	switch obj.(type) {
	case *content.Item, *content.Collection, *content.Community, *content.Site:
		return true
	}
	return false
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
