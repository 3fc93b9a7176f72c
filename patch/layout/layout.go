// Package layout implements patches of the layout boxes and tabs that make
// up entity pages.
package layout

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// Resource names.
const (
	Boxes = "boxes"
	Tabs  = "tabs"
)

var (
	textOps     = []string{patch.OpAdd, patch.OpReplace, patch.OpRemove}
	replaceOnly = []string{patch.OpReplace}
)

// property is one patchable attribute of a T. set receives a nil value on
// remove.
type property[T any] struct {
	ops []string
	set func(obj T, path string, v *structpb.Value) error
}

func text[T any](field func(T) *string) property[T] {
	return property[T]{textOps, func(obj T, path string, v *structpb.Value) error {
		if v == nil {
			*field(obj) = ""
			return nil
		}
		s, ok := patch.StringValue(v)
		if !ok {
			return patch.Unprocessable("%s must be a string", path)
		}
		*field(obj) = s
		return nil
	}}
}

func flag[T any](field func(T) *bool) property[T] {
	return property[T]{replaceOnly, func(obj T, path string, v *structpb.Value) error {
		b, ok := patch.BoolValue(v)
		if !ok {
			return patch.Unprocessable("%s must be true or false", path)
		}
		*field(obj) = b
		return nil
	}}
}

func number[T any](field func(T) *int) property[T] {
	return property[T]{replaceOnly, func(obj T, path string, v *structpb.Value) error {
		n, ok := patch.IntValue(v)
		if !ok {
			s, _ := patch.StringValue(v)
			parsed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
			if err != nil {
				return patch.Unprocessable("%s must be a whole number", path)
			}
			n = int(parsed)
		}
		if n < 0 {
			return patch.Unprocessable("%s must not be negative", path)
		}
		*field(obj) = n
		return nil
	}}
}

func security[T any](field func(T) *content.Security) property[T] {
	return property[T]{replaceOnly, func(obj T, path string, v *structpb.Value) error {
		s, _ := patch.StringValue(v)
		sec, err := content.ParseSecurity(s)
		if err != nil {
			return patch.Unprocessable("%s", err)
		}
		*field(obj) = sec
		return nil
	}}
}

var boxProperties = map[string]property[*content.LayoutBox]{
	"/shortname":  text(func(b *content.LayoutBox) *string { return &b.Shortname }),
	"/header":     text(func(b *content.LayoutBox) *string { return &b.Header }),
	"/style":      text(func(b *content.LayoutBox) *string { return &b.Style }),
	"/collapsed":  flag(func(b *content.LayoutBox) *bool { return &b.Collapsed }),
	"/minor":      flag(func(b *content.LayoutBox) *bool { return &b.Minor }),
	"/container":  flag(func(b *content.LayoutBox) *bool { return &b.Container }),
	"/security":   security(func(b *content.LayoutBox) *content.Security { return &b.Security }),
	"/maxColumns": number(func(b *content.LayoutBox) *int { return &b.MaxColumns }),
}

var tabProperties = map[string]property[*content.LayoutTab]{
	"/shortname": text(func(t *content.LayoutTab) *string { return &t.Shortname }),
	"/header":    text(func(t *content.LayoutTab) *string { return &t.Header }),
	"/priority":  number(func(t *content.LayoutTab) *int { return &t.Priority }),
	"/leading":   flag(func(t *content.LayoutTab) *bool { return &t.Leading }),
	"/security":  security(func(t *content.LayoutTab) *content.Security { return &t.Security }),
}

// performer builds the PerformFunc of one property. The value is checked
// before the field is written.
func performer[T any](prop property[T]) patch.PerformFunc {
	return func(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
		target, ok := obj.(T)
		if !ok {
			return patch.Unprocessable(patch.Unsupported)
		}
		v := op.Value
		if op.Op == patch.OpRemove {
			v = nil
		} else if patch.IsNull(v) {
			return patch.Unprocessable("%s needs a value", op.Path)
		}
		return prop.set(target, op.Path, v)
	}
}

func register[T any](resource string, props map[string]property[T]) {
	for path, prop := range props {
		for _, op := range prop.ops {
			patch.Register(patch.Definition{Resource: resource, Op: op, Path: path, Perform: performer(prop)})
		}
	}
	patch.UnsupportedStatus(resource, http.StatusUnprocessableEntity)
}

func init() {
	register(Boxes, boxProperties)
	register(Tabs, tabProperties)
}
