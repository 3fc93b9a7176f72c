// Package cerif ingests OpenAIRE CERIF 1.1 entities (publications, people,
// projects and organisation units) into items.
package cerif

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/convert"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// Name is the plugin name.
const Name = "cerif"

// Placeholder fills a slot of a grouped field that has no value, keeping
// the positions of the group aligned.
const Placeholder = "#PLACEHOLDER_PARENT_METADATA_VALUE#"

// GeneratedAuthority prefixes the authority of a value that points at an
// entity the repository has yet to create.
const GeneratedAuthority = "will be generated::"

// NS is the CERIF profile namespace.
var NS = crosswalk.Namespace{Prefix: "cerif", URI: "https://www.openaire.eu/cerif-profile/1.1/"}

// Crosswalk implements CERIF ingestion.
type Crosswalk struct {
	env      *crosswalk.Env
	types    convert.Converter
	entities convert.Converter
	handlers map[string]func(*ingest, *etree.Element)
}

// Ensure Crosswalk implements the interfaces
var _ crosswalk.Ingester = (*Crosswalk)(nil)

// New returns a CERIF crosswalk bound to env. Publication types are mapped
// through the coar-types profile, or through the properties file named by
// crosswalk.cerif.types_file when one is set.
func New(env *crosswalk.Env) (*Crosswalk, error) {
	var types convert.Converter
	if path := env.Config.CerifTypesFile; path != "" {
		table, err := convert.LoadPropertiesFile(path)
		if err != nil {
			return nil, fmt.Errorf("crosswalk.cerif.types_file: %w", err)
		}
		types = table
	} else {
		coar, err := env.Profile("coar-types")
		if err != nil {
			return nil, err
		}
		types = convert.FromProfile(coar)
	}
	entities, err := env.Profile("cerif-types")
	if err != nil {
		return nil, err
	}
	c := &Crosswalk{
		env:      env,
		types:    types,
		entities: convert.FromProfile(entities),
	}
	c.handlers = map[string]func(*ingest, *etree.Element){
		"Publication": (*ingest).publication,
		"Person":      (*ingest).person,
		"Project":     (*ingest).project,
		"OrgUnit":     (*ingest).orgUnit,
	}
	return c, nil
}

// Name returns the plugin name.
func (c *Crosswalk) Name() string {
	return Name
}

// Description returns a human-readable description.
func (c *Crosswalk) Description() string {
	return "OpenAIRE CERIF 1.1 entities"
}

// Ingest applies a CERIF entity to an item. The root element names the
// entity type.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	item, err := crosswalk.AsItem(Name, obj)
	if err != nil {
		return err
	}
	handler, ok := c.handlers[root.Tag]
	if !ok || (root.NamespaceURI() != "" && root.NamespaceURI() != NS.URI) {
		return crosswalk.Invalid("CERIF ingest does not handle %s", root.FullTag())
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj), "entity", root.Tag)

	in := &ingest{ctx: ctx, c: c, item: item, createMissing: createMissing}
	if item.FirstValue("dspace.entity.type") == "" {
		in.add("dspace.entity.type", c.entities.Convert(root.Tag), "")
	}
	handler(in, root)
	return in.err
}

// IngestList ingests each element as an entity.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	for _, e := range elems {
		if err := c.Ingest(ctx, obj, e, createMissing); err != nil {
			return err
		}
	}
	return nil
}

// ingest carries the state of one entity ingestion. The first error stops
// further additions.
type ingest struct {
	ctx           context.Context
	c             *Crosswalk
	item          *content.Item
	createMissing bool
	err           error
}

// add stores value in field. Blank values are dropped. A non-empty
// authority is stored with uncertain confidence.
func (in *ingest) add(field, value, authority string) {
	value = strings.TrimSpace(value)
	if in.err != nil || value == "" {
		return
	}
	f, err := content.ParseField(field)
	if err != nil {
		in.err = crosswalk.Invalid("%v", err)
		return
	}
	confidence := content.ConfidenceUnset
	if authority != "" {
		confidence = content.ConfidenceUncertain
	}
	_, in.err = crosswalk.AddChecked(in.ctx, in.c.env, in.item, f, "", value, authority, confidence, in.createMissing)
}

// known reports whether every field may be written. Under the ignore
// policy an unknown field makes it false, so a group of parallel fields is
// written whole or not at all.
func (in *ingest) known(fields ...string) bool {
	if in.err != nil {
		return false
	}
	for _, field := range fields {
		f, err := content.ParseField(field)
		if err != nil {
			in.err = crosswalk.Invalid("%v", err)
			return false
		}
		ok, err := crosswalk.CheckMetadata(in.ctx, in.c.env, f, in.createMissing)
		if err != nil {
			in.err = err
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

// texts adds the text of every element at path under e.
func (in *ingest) texts(e *etree.Element, path, field string) {
	for _, x := range e.FindElements(path) {
		in.add(field, crosswalk.Text(x), "")
	}
}

// refs adds the text at name under every entity at path, with an authority
// built from the entity's id.
func (in *ingest) refs(e *etree.Element, path, name, field string) {
	for _, x := range e.FindElements(path) {
		in.add(field, crosswalk.Text(x.FindElement(name)), in.authority(x))
	}
}

// authority returns the generated authority of a referenced entity, or ""
// when it carries no id.
func (in *ingest) authority(e *etree.Element) string {
	if e == nil {
		return ""
	}
	id := strings.TrimSpace(crosswalk.Attr(e, "id"))
	if id == "" {
		return ""
	}
	return GeneratedAuthority + in.c.env.Config.CerifIDPrefix + id
}

// personName renders a Person element as "Family, First", falling back to
// whichever part is present.
func personName(p *etree.Element) string {
	if p == nil {
		return ""
	}
	family := crosswalk.Text(p.FindElement("PersonName/FamilyNames"))
	first := crosswalk.Text(p.FindElement("PersonName/FirstNames"))
	switch {
	case family != "" && first != "":
		return family + ", " + first
	case family != "":
		return family
	}
	return first
}

func init() {
	crosswalk.Register(Name, func(env *crosswalk.Env) (crosswalk.Crosswalk, error) {
		return New(env)
	})
}
