package crosswalk

import (
	"sort"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
)

// ProfileNamespaces returns the namespaces a mapping profile binds, ordered
// by prefix.
func ProfileNamespaces(p *mapping.Profile) []Namespace {
	out := make([]Namespace, 0, len(p.Namespaces))
	for prefix, uri := range p.Namespaces {
		out = append(out, Namespace{Prefix: prefix, URI: uri})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// ProfileElement creates the element a profile names, such as
// "dcterms:issued", with the mapping's fixed attributes.
func ProfileElement(p *mapping.Profile, m mapping.FieldMapping) *etree.Element {
	prefix, local := mapping.SplitName(m.Element)
	e := NewElement(Namespace{Prefix: prefix, URI: p.Namespace(prefix)}, local)
	names := make([]string, 0, len(m.Attributes))
	for name := range m.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e.CreateAttr(name, m.Attributes[name])
	}
	return e
}

// PrefixedName returns "prefix:local" for e using the prefix the profile
// binds to e's namespace. Elements whose namespace the profile does not
// know keep their own prefix.
func PrefixedName(p *mapping.Profile, e *etree.Element) string {
	uri := e.NamespaceURI()
	if uri != "" {
		for prefix, bound := range p.Namespaces {
			if bound == uri {
				return prefix + ":" + e.Tag
			}
		}
	}
	if e.Space == "" {
		return e.Tag
	}
	return e.Space + ":" + e.Tag
}
