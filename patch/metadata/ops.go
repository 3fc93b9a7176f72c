package metadata

import (
	"context"
	"log/slog"
	"sort"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// Resources are the REST models whose metadata can be patched.
var Resources = []string{"items", "bitstreams", "bundles", "collections", "communities", "sites", "epersons", "groups"}

func target(obj any) (content.Object, *content.DSpaceObject, error) {
	o, ok := obj.(content.Object)
	if !ok || o == nil {
		return nil, nil, patch.BadRequest("metadata cannot be patched on %T", obj)
	}
	return o, o.Base(), nil
}

// touch records the modification on items.
func touch(env *patch.Env, obj content.Object) {
	if item, ok := obj.(*content.Item); ok {
		item.LastModified = env.Now()
	}
}

// Add appends values to a field, or inserts them at an index.
func Add(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	o, base, err := target(obj)
	if err != nil {
		return err
	}
	p, err := ParsePath(op.Path)
	if err != nil {
		return err
	}
	if p.Property != "" {
		return patch.BadRequest("cannot add the %s of a metadata value", p.Property)
	}
	f, err := CheckField(env.Fields, p.Field)
	if err != nil {
		return err
	}
	vals, err := ExtractValues(op)
	if err != nil {
		return err
	}
	for k, v := range vals {
		if p.HasIndex() {
			v.Field = f
			if err := base.InsertMetadata(v, p.Index+k); err != nil {
				return outOfRange(err)
			}
			continue
		}
		base.AddMetadata(f, v.Language, v.Value, v.Authority, v.Confidence)
	}
	touch(env, o)
	slogcontext.Log(ctx, slog.LevelDebug, "added metadata", "field", f.String(), "count", len(vals))
	return nil
}

// Remove clears a field or removes one value.
func Remove(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	o, base, err := target(obj)
	if err != nil {
		return err
	}
	p, err := ParsePath(op.Path)
	if err != nil {
		return err
	}
	if p.Field == "" {
		return patch.Unprocessable("removing all metadata is not allowed")
	}
	if p.Property != "" || p.Append {
		return patch.BadRequest(patch.Unsupported)
	}
	f, err := CheckField(env.Fields, p.Field)
	if err != nil {
		return err
	}
	if p.HasIndex() {
		if _, err := base.RemoveMetadataAt(f, p.Index); err != nil {
			return outOfRange(err)
		}
	} else {
		base.ClearField(f)
	}
	touch(env, o)
	return nil
}

// Replace replaces all metadata, a field, a value or one property of a
// value.
func Replace(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	o, base, err := target(obj)
	if err != nil {
		return err
	}
	p, err := ParsePath(op.Path)
	if err != nil {
		return err
	}
	if p.Append {
		return patch.BadRequest("cannot replace at the end of %s", p.Field)
	}
	if p.Field == "" {
		err = replaceAll(env, base, op)
	} else {
		err = replaceField(env, base, p, op)
	}
	if err != nil {
		return err
	}
	touch(env, o)
	return nil
}

func replaceAll(env *patch.Env, base *content.DSpaceObject, op patch.Operation) error {
	if patch.IsNull(op.Value) {
		base.ClearAllMetadata()
		return nil
	}
	if list, ok := patch.ListValue(op.Value); ok && len(list) == 0 {
		base.ClearAllMetadata()
		return nil
	}
	fields, ok := patch.ObjectValue(op.Value)
	if !ok {
		return patch.BadRequest(extractFailed)
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var all []content.MetadataValue
	for _, name := range names {
		f, err := CheckField(env.Fields, name)
		if err != nil {
			return err
		}
		if list, ok := patch.ListValue(fields[name]); ok && len(list) == 0 {
			continue
		}
		vals, err := ExtractValues(patch.Operation{Value: fields[name]})
		if err != nil {
			return err
		}
		for _, v := range vals {
			v.Field = f
			all = append(all, v)
		}
	}
	base.ClearAllMetadata()
	for _, v := range all {
		base.AddMetadata(v.Field, v.Language, v.Value, v.Authority, v.Confidence)
	}
	return nil
}

func replaceField(env *patch.Env, base *content.DSpaceObject, p Path, op patch.Operation) error {
	f, err := CheckField(env.Fields, p.Field)
	if err != nil {
		return err
	}
	switch {
	case !p.HasIndex():
		var vals []content.MetadataValue
		if list, ok := patch.ListValue(op.Value); !ok || len(list) > 0 {
			if vals, err = ExtractValues(op); err != nil {
				return err
			}
		}
		base.ClearField(f)
		for _, v := range vals {
			base.AddMetadata(f, v.Language, v.Value, v.Authority, v.Confidence)
		}
	case p.Property == "":
		v, err := ExtractValue(op)
		if err != nil {
			return err
		}
		if err := base.ReplaceMetadataAt(f, p.Index, v); err != nil {
			return outOfRange(err)
		}
	default:
		v, err := base.MetadataAt(f, p.Index)
		if err != nil {
			return outOfRange(err)
		}
		if err := setProperty(&v, p.Property, op.Value); err != nil {
			return err
		}
		if err := base.ReplaceMetadataAt(f, p.Index, v); err != nil {
			return outOfRange(err)
		}
	}
	return nil
}

// Move reorders a value within its field.
func Move(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	o, base, err := target(obj)
	if err != nil {
		return err
	}
	from, err := ParsePath(op.From)
	if err != nil {
		return err
	}
	to, err := ParsePath(op.Path)
	if err != nil {
		return err
	}
	if from.Field != to.Field {
		return patch.BadRequest("metadata can only be moved within one field: %s to %s", from.Field, to.Field)
	}
	if !from.HasIndex() || !to.HasIndex() || from.Property != "" || to.Property != "" {
		return patch.BadRequest("move needs a value index in from and path")
	}
	f, err := CheckField(env.Fields, to.Field)
	if err != nil {
		return err
	}
	if err := base.MoveMetadata(f, from.Index, to.Index); err != nil {
		return outOfRange(err)
	}
	touch(env, o)
	return nil
}

// Copy duplicates the value at from into the path field.
func Copy(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	o, base, err := target(obj)
	if err != nil {
		return err
	}
	from, err := ParsePath(op.From)
	if err != nil {
		return err
	}
	to, err := ParsePath(op.Path)
	if err != nil {
		return err
	}
	if !from.HasIndex() || from.Property != "" || to.Property != "" {
		return patch.BadRequest("copy needs a value index in from")
	}
	src, err := CheckField(env.Fields, from.Field)
	if err != nil {
		return err
	}
	dst, err := CheckField(env.Fields, to.Field)
	if err != nil {
		return err
	}
	v, err := base.MetadataAt(src, from.Index)
	if err != nil {
		return outOfRange(err)
	}
	if to.HasIndex() {
		v.Field = dst
		if err := base.InsertMetadata(v, to.Index); err != nil {
			return outOfRange(err)
		}
	} else {
		base.AddMetadata(dst, v.Language, v.Value, v.Authority, v.Confidence)
	}
	touch(env, o)
	return nil
}

func init() {
	for _, r := range Resources {
		patch.Register(patch.Definition{Resource: r, Op: patch.OpAdd, Path: "/metadata/**", Perform: Add})
		patch.Register(patch.Definition{Resource: r, Op: patch.OpRemove, Path: "/metadata", Perform: Remove})
		patch.Register(patch.Definition{Resource: r, Op: patch.OpRemove, Path: "/metadata/**", Perform: Remove})
		patch.Register(patch.Definition{Resource: r, Op: patch.OpReplace, Path: "/metadata", Perform: Replace})
		patch.Register(patch.Definition{Resource: r, Op: patch.OpReplace, Path: "/metadata/**", Perform: Replace})
		patch.Register(patch.Definition{Resource: r, Op: patch.OpMove, Path: "/metadata/**", Perform: Move})
		patch.Register(patch.Definition{Resource: r, Op: patch.OpCopy, Path: "/metadata/**", Perform: Copy})
	}
}
