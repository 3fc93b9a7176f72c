// Package subscription implements patches of subscription parameters.
package subscription

import (
	"context"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// Resource is the patch resource name.
const Resource = "subscriptions"

// Frequency is the only parameter a subscription understands.
const Frequency = "frequency"

// Frequencies are the accepted frequency values: daily, weekly, monthly.
var Frequencies = []string{"D", "W", "M"}

// parameter reads a {name, value} object and validates it.
func parameter(op patch.Operation) (content.SubscriptionParameter, error) {
	obj, ok := patch.ObjectValue(op.Value)
	if !ok {
		return content.SubscriptionParameter{}, patch.BadRequest("%s needs a {name, value} object", op.Path)
	}
	name, _ := patch.StringValue(obj["name"])
	value, _ := patch.StringValue(obj["value"])
	name = strings.TrimSpace(name)
	if name != Frequency {
		return content.SubscriptionParameter{}, patch.Unprocessable("unknown subscription parameter %q", name)
	}
	value = strings.ToUpper(strings.TrimSpace(value))
	valid := false
	for _, f := range Frequencies {
		valid = valid || f == value
	}
	if !valid {
		return content.SubscriptionParameter{}, patch.Unprocessable("invalid frequency %q, expected D, W or M", value)
	}
	return content.SubscriptionParameter{Name: name, Value: value}, nil
}

// Perform adds, replaces or removes a parameter. Adding always appends a new
// parameter; the id in the path only matters to replace and remove.
func Perform(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	sub, ok := obj.(*content.Subscription)
	if !ok {
		return patch.BadRequest(patch.Unsupported)
	}
	if op.Op == patch.OpAdd {
		p, err := parameter(op)
		if err != nil {
			return err
		}
		p.ID = sub.NextParameterID()
		sub.Parameters = append(sub.Parameters, p)
		return nil
	}

	seg := op.Segments()
	if len(seg) != 2 {
		return patch.BadRequest(patch.Unsupported)
	}
	id, err := strconv.Atoi(seg[1])
	if err != nil {
		return patch.Unprocessable("invalid subscription parameter id %q", seg[1])
	}
	i := sub.Parameter(id)
	if i < 0 {
		return patch.Unprocessable("subscription %d has no parameter %d", sub.ID, id)
	}
	if op.Op == patch.OpRemove {
		sub.Parameters = append(sub.Parameters[:i], sub.Parameters[i+1:]...)
		return nil
	}
	p, err := parameter(op)
	if err != nil {
		return err
	}
	p.ID = id
	sub.Parameters[i] = p
	return nil
}

func init() {
	patch.Register(patch.Definition{Resource: Resource, Op: patch.OpAdd, Path: "/subscriptionsParameter", Perform: Perform})
	for _, op := range []string{patch.OpAdd, patch.OpReplace, patch.OpRemove} {
		patch.Register(patch.Definition{Resource: Resource, Op: op, Path: "/subscriptionsParameter/*", Perform: Perform})
	}
}
