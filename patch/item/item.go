// Package item implements the withdrawn and discoverable patches of items.
package item

import (
	"context"
	"log/slog"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// Resource is the patch resource name.
const Resource = "items"

func flag(obj any, op patch.Operation) (*content.Item, bool, error) {
	item, ok := obj.(*content.Item)
	if !ok {
		return nil, false, patch.BadRequest(patch.Unsupported)
	}
	if patch.IsNull(op.Value) {
		return nil, false, patch.BadRequest("%s needs a value", op.Path)
	}
	b, ok := patch.BoolValue(op.Value)
	if !ok {
		return nil, false, patch.BadRequest("%s must be true or false", op.Path)
	}
	return item, b, nil
}

// Withdrawn withdraws an archived item or reinstates a withdrawn one.
// Setting the current state again does nothing.
func Withdrawn(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	item, withdraw, err := flag(obj, op)
	if err != nil {
		return err
	}
	switch {
	case withdraw == item.Withdrawn:
		return nil
	case withdraw && !item.InArchive:
		return patch.Unprocessable("only archived items can be withdrawn")
	case withdraw:
		item.Withdraw(nil, env.Now())
		slogcontext.Log(ctx, slog.LevelInfo, "withdrew item", "item", item.ID().String())
	default:
		item.Reinstate(nil, env.Now())
		slogcontext.Log(ctx, slog.LevelInfo, "reinstated item", "item", item.ID().String())
	}
	return nil
}

// Discoverable sets whether the item shows up in search and browse.
func Discoverable(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	item, discoverable, err := flag(obj, op)
	if err != nil {
		return err
	}
	if item.IsTemplate() {
		return patch.Unprocessable("a template item cannot be made discoverable or private")
	}
	item.Discoverable = discoverable
	item.LastModified = env.Now()
	return nil
}

func init() {
	patch.Register(patch.Definition{Resource: Resource, Op: patch.OpReplace, Path: "/withdrawn", Perform: Withdrawn})
	patch.Register(patch.Definition{Resource: Resource, Op: patch.OpReplace, Path: "/discoverable", Perform: Discoverable})
}
