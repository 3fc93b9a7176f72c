// Package resourcepolicy implements patch operations on the dates, name
// and description of resource policies.
package resourcepolicy

import (
	"context"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// Resource is the patch resource name.
const Resource = "resourcepolicies"

// attribute reads and writes one optional property of a policy.
type attribute struct {
	isSet func(*content.ResourcePolicy) bool
	clear func(*content.ResourcePolicy)
	set   func(*content.ResourcePolicy, string) error
}

var attributes = map[string]attribute{
	"/startDate": {
		isSet: func(p *content.ResourcePolicy) bool { return !p.StartDate.IsZero() },
		clear: func(p *content.ResourcePolicy) { p.StartDate = time.Time{} },
		set: func(p *content.ResourcePolicy, s string) error {
			return setDate(p, s, &p.StartDate)
		},
	},
	"/endDate": {
		isSet: func(p *content.ResourcePolicy) bool { return !p.EndDate.IsZero() },
		clear: func(p *content.ResourcePolicy) { p.EndDate = time.Time{} },
		set: func(p *content.ResourcePolicy, s string) error {
			return setDate(p, s, &p.EndDate)
		},
	},
	"/name": {
		isSet: func(p *content.ResourcePolicy) bool { return p.Name != "" },
		clear: func(p *content.ResourcePolicy) { p.Name = "" },
		set:   func(p *content.ResourcePolicy, s string) error { p.Name = s; return nil },
	},
	"/description": {
		isSet: func(p *content.ResourcePolicy) bool { return p.Description != "" },
		clear: func(p *content.ResourcePolicy) { p.Description = "" },
		set:   func(p *content.ResourcePolicy, s string) error { p.Description = s; return nil },
	},
}

// setDate parses s into *field and rejects a range whose start falls after
// its end. The old date is kept on failure.
func setDate(p *content.ResourcePolicy, s string, field *time.Time) error {
	d, err := time.Parse(content.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return patch.BadRequest("invalid date %q, expected yyyy-MM-dd", s)
	}
	old := *field
	*field = d
	if !p.ValidDateRange() {
		*field = old
		return patch.Unprocessable("the start date must not be after the end date")
	}
	return nil
}

// Perform applies add, replace or remove to one attribute. Add needs the
// attribute unset; replace and remove need it set.
func Perform(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	p, ok := obj.(*content.ResourcePolicy)
	if !ok {
		return patch.BadRequest(patch.Unsupported)
	}
	attr, ok := attributes[op.Path]
	if !ok {
		return patch.BadRequest(patch.Unsupported)
	}
	switch op.Op {
	case patch.OpAdd:
		if attr.isSet(p) {
			return patch.BadRequest("%s is already set; use replace", op.Path)
		}
	case patch.OpReplace, patch.OpRemove:
		if !attr.isSet(p) {
			return patch.BadRequest("%s is not set", op.Path)
		}
	}
	if op.Op == patch.OpRemove {
		attr.clear(p)
		return nil
	}
	s, ok := patch.StringValue(op.Value)
	if !ok {
		return patch.BadRequest("%s must be a string", op.Path)
	}
	return attr.set(p, s)
}

func init() {
	for path := range attributes {
		for _, op := range []string{patch.OpAdd, patch.OpReplace, patch.OpRemove} {
			patch.Register(patch.Definition{Resource: Resource, Op: op, Path: path, Perform: Perform})
		}
	}
}
