// Package bundle implements reordering the bitstreams of a bundle.
package bundle

import (
	"context"
	"log/slog"
	"strconv"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// Resource is the patch resource name.
const Resource = "bundles"

const linkPath = "/_links/bitstreams/*/href"

// Move moves the bitstream at the from position to the path position.
func Move(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	b, ok := obj.(*content.Bundle)
	if !ok {
		return patch.BadRequest(patch.Unsupported)
	}
	n := len(b.Bitstreams)
	if n == 0 {
		return patch.BadRequest("No bitstreams found.")
	}
	from, err := position(op.FromSegments(), "from", n)
	if err != nil {
		return err
	}
	to, err := position(op.Segments(), "to", n)
	if err != nil {
		return err
	}
	if err := b.MoveBitstream(from, to); err != nil {
		return patch.BadRequest("%v", err)
	}
	for _, item := range b.Items {
		item.LastModified = env.Now()
	}
	slogcontext.Log(ctx, slog.LevelDebug, "moved bitstream", "bundle", b.ID().String(), "from", from, "to", to)
	return nil
}

// position reads the index of /_links/bitstreams/{i}/href.
func position(seg []string, name string, n int) (int, error) {
	if len(seg) != 4 || seg[0] != "_links" || seg[1] != "bitstreams" || seg[3] != "href" {
		return 0, patch.BadRequest("invalid %s path", name)
	}
	i, err := strconv.Atoi(seg[2])
	if err != nil || i < 0 || i >= n {
		return 0, patch.BadRequest("The \"%s\" location is out of bounds. Latest available position: %d", name, n-1)
	}
	return i, nil
}

func init() {
	patch.Register(patch.Definition{Resource: Resource, Op: patch.OpMove, Path: linkPath, Perform: Move})
}
