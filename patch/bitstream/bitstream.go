// Package bitstream implements the bulk bitstream delete: a patch on the
// bitstreams endpoint of the site holding one remove per bitstream.
package bitstream

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// Resource is the patch resource name.
const Resource = "bitstreams"

// Delete removes the bitstream named by /bitstreams/{uuid} from its bundles
// and marks it deleted.
func Delete(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	if _, ok := obj.(*content.Site); !ok {
		return patch.BadRequest(patch.Unsupported)
	}
	seg := op.Segments()
	if len(seg) != 2 {
		return patch.BadRequest(patch.Unsupported)
	}
	id, err := uuid.Parse(seg[1])
	if err != nil {
		return patch.Unprocessable("invalid bitstream uuid: %s", seg[1])
	}
	bs, ok := content.Lookup[*content.Bitstream](env.Store, id)
	if !ok {
		return patch.Unprocessable("bitstream %s not found", id)
	}
	if bs.Deleted {
		return patch.Unprocessable("bitstream %s is already deleted", id)
	}
	item := bs.Item()
	env.Store.DeleteBitstream(bs)
	if item != nil {
		item.LastModified = env.Now()
	}
	slogcontext.Log(ctx, slog.LevelInfo, "deleted bitstream", "bitstream", id.String())
	return nil
}

func init() {
	patch.Register(patch.Definition{Resource: Resource, Op: patch.OpRemove, Path: "/bitstreams/*", Perform: Delete})
}
