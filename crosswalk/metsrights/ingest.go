package metsrights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/beevik/etree"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/value"
)

// Ingest replaces the policies of obj with those declared under a
// RightsDeclarationMD root.
func (c *Crosswalk) Ingest(ctx context.Context, obj content.Object, root *etree.Element, createMissing bool) error {
	if !crosswalk.Is(root, NS, "RightsDeclarationMD") {
		return crosswalk.Invalid("METSRights root must be RightsDeclarationMD, got %s", root.FullTag())
	}
	return c.IngestList(ctx, obj, root.ChildElements(), createMissing)
}

// IngestList turns each Context element into a resource policy. A leading
// RightsDeclarationMD is unwrapped. The object's existing policies are
// removed first, so an empty list leaves it with none.
func (c *Crosswalk) IngestList(ctx context.Context, obj content.Object, elems []*etree.Element, createMissing bool) error {
	if !c.CanDisseminate(obj) {
		return crosswalk.NotSupported(Name, obj)
	}
	if len(elems) > 0 && crosswalk.Is(elems[0], NS, "RightsDeclarationMD") {
		return c.IngestList(ctx, obj, elems[0].ChildElements(), createMissing)
	}
	ctx = slogcontext.With(ctx, "crosswalk", Name, "object", content.Describe(obj))

	var policies []*content.ResourcePolicy
	for _, e := range elems {
		if !crosswalk.Is(e, NS, "Context") {
			continue
		}
		p, err := c.policy(ctx, obj, e)
		if err != nil {
			return err
		}
		if p != nil {
			policies = append(policies, p)
		}
	}

	c.env.Store.RemovePolicies(obj, nil)
	for _, p := range policies {
		c.env.Store.AddPolicy(p)
	}
	slogcontext.Log(ctx, slog.LevelDebug, "replaced resource policies", "count", len(policies))
	return nil
}

func (c *Crosswalk) policy(ctx context.Context, obj content.Object, e *etree.Element) (*content.ResourcePolicy, error) {
	perms := crosswalk.Child(e, NS, "Permissions")
	if perms == nil {
		slogcontext.Log(ctx, slog.LevelError, "Context without Permissions skipped")
		return nil, nil
	}
	action, ok := parsePermissions(perms)
	if !ok {
		slogcontext.Log(ctx, slog.LevelWarn, "unparseable permissions skipped", "permissions", attrString(perms))
		return nil, nil
	}

	p := &content.ResourcePolicy{
		Object:     obj,
		Action:     action,
		Name:       crosswalk.Attr(e, "rpName"),
		PolicyType: content.PolicyTypeCustom,
	}
	if s := crosswalk.Attr(e, "start-date"); s != "" {
		if t, err := time.Parse(content.DateLayout, s); err == nil {
			p.StartDate = t
		} else {
			slogcontext.Log(ctx, slog.LevelError, "bad start-date", "value", s)
		}
	}
	if s := crosswalk.Attr(e, "end-date"); s != "" {
		if t, err := time.Parse(content.DateLayout, s); err == nil {
			p.EndDate = t
		} else {
			slogcontext.Log(ctx, slog.LevelError, "bad end-date", "value", s)
		}
	}

	store := c.env.Store
	user := crosswalk.ChildText(e, NS, "UserName")
	switch class := crosswalk.Attr(e, "CONTEXTCLASS"); class {
	case ClassAnonymous:
		p.Group = store.Anonymous()
	case ClassAdmin:
		p.Group = store.Administrators()
	case ClassGroup:
		g, ok := store.GroupByName(user)
		if !ok {
			return nil, crosswalk.Failed(fmt.Sprintf("cannot restore policy on %s", content.Describe(obj)),
				fmt.Errorf("group %q does not exist", user))
		}
		p.Group = g
	case ClassPerson:
		ep, ok := store.EPersonByEmail(user)
		if !ok {
			ep, ok = store.EPersonByNetid(user)
		}
		if !ok {
			return nil, crosswalk.Failed(fmt.Sprintf("cannot restore policy on %s", content.Describe(obj)),
				fmt.Errorf("eperson with email or netid %q does not exist", user))
		}
		p.EPerson = ep
	default:
		slogcontext.Log(ctx, slog.LevelError, "unrecognized CONTEXTCLASS", "class", class)
		return nil, nil
	}
	return p, nil
}

// parsePermissions maps a Permissions element back to an action.
func parsePermissions(e *etree.Element) (content.Action, bool) {
	if other := crosswalk.Attr(e, "OTHERPERMITTYPE"); other != "" {
		for a, name := range otherPermitTypes {
			if name == other {
				return a, true
			}
		}
		return 0, false
	}
	flag := func(name string) bool {
		return value.Bool(crosswalk.Attr(e, name))
	}
	if flag("OTHER") {
		return 0, false
	}
	switch {
	case flag("DELETE"):
		return content.ActionDelete, true
	case flag("MODIFY"):
		return content.ActionWrite, true
	case flag("DISCOVER") && flag("DISPLAY"):
		return content.ActionRead, true
	}
	return 0, false
}

func attrString(e *etree.Element) string {
	parts := make([]string, 0, len(e.Attr))
	for _, a := range e.Attr {
		parts = append(parts, a.Key+"="+a.Value)
	}
	return strings.Join(parts, " ")
}
