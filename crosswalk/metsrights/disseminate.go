package metsrights

import (
	"context"
	"log/slog"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// DisseminateElement renders a RightsDeclarationMD holding one Context per
// resource policy of obj.
func (c *Crosswalk) DisseminateElement(ctx context.Context, obj content.Object) (*etree.Element, error) {
	contexts, err := c.contexts(ctx, obj)
	if err != nil {
		return nil, err
	}
	root := crosswalk.NewElement(NS, "RightsDeclarationMD")
	crosswalk.Declare(root, c.Namespaces()...)
	root.CreateAttr("xsi:schemaLocation", c.SchemaLocation())
	root.CreateAttr("RIGHTSCATEGORY", "LICENSED")
	for _, e := range contexts {
		root.AddChild(e)
	}
	return root, nil
}

// DisseminateList returns the Context elements alone.
func (c *Crosswalk) DisseminateList(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	contexts, err := c.contexts(ctx, obj)
	if err != nil {
		return nil, err
	}
	for _, e := range contexts {
		crosswalk.Declare(e, NS)
	}
	return contexts, nil
}

func (c *Crosswalk) contexts(ctx context.Context, obj content.Object) ([]*etree.Element, error) {
	if !c.CanDisseminate(obj) {
		return nil, crosswalk.NotSupported(Name, obj)
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))
	now := c.env.Now()

	var out []*etree.Element
	for _, p := range c.env.Store.Policies(obj) {
		e := crosswalk.NewElement(NS, "Context")
		if p.Name != "" {
			e.CreateAttr("rpName", p.Name)
		}
		if p.IsActive(now) {
			e.CreateAttr("in-effect", "true")
		} else {
			e.CreateAttr("in-effect", "false")
		}
		if !p.StartDate.IsZero() {
			e.CreateAttr("start-date", p.StartDate.Format(content.DateLayout))
		}
		if !p.EndDate.IsZero() {
			e.CreateAttr("end-date", p.EndDate.Format(content.DateLayout))
		}

		switch {
		case p.Group != nil:
			class := ClassGroup
			switch {
			case p.Group.IsAnonymous():
				class = ClassAnonymous
			case p.Group.IsAdministrator():
				class = ClassAdmin
			}
			e.CreateAttr("CONTEXTCLASS", class)
			if class == ClassGroup {
				if p.Group.GroupName == "" {
					slogcontext.Log(ctx, slog.LevelWarn, "skipping policy of unnamed group", "policy", p.ID)
					continue
				}
				user := crosswalk.AddText(e, NS, "UserName", p.Group.GroupName)
				user.CreateAttr("USERTYPE", UserTypeGroup)
			}
		case p.EPerson != nil:
			e.CreateAttr("CONTEXTCLASS", ClassPerson)
			user := crosswalk.AddText(e, NS, "UserName", p.EPerson.Email)
			user.CreateAttr("USERTYPE", UserTypePerson)
		default:
			slogcontext.Log(ctx, slog.LevelError, "policy has neither group nor eperson", "policy", p.ID)
			continue
		}

		perms := crosswalk.AddElement(e, NS, "Permissions")
		for _, perm := range permissions(p.Action) {
			perms.CreateAttr(perm.name, perm.value)
		}
		out = append(out, e)
	}
	return out, nil
}
