// Package metadata implements JSON Patch operations on the metadata of
// repository objects.
package metadata

import (
	"errors"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
	"github.com/lehigh-university-libraries/dspace-crosswalk/schema"
)

// Properties of a metadata value a path can address.
const (
	PropValue      = "value"
	PropLanguage   = "language"
	PropAuthority  = "authority"
	PropConfidence = "confidence"
)

// NoIndex marks a path without an index segment.
const NoIndex = -1

// Path is a parsed /metadata path.
type Path struct {
	// Field is empty for /metadata itself.
	Field    string
	Index    int
	Append   bool
	Property string
}

// HasIndex reports whether the path addresses one value.
func (p Path) HasIndex() bool {
	return p.Index != NoIndex
}

// ParsePath parses /metadata[/field[/index|-[/property]]].
func ParsePath(path string) (Path, error) {
	out := Path{Index: NoIndex}
	rest, ok := strings.CutPrefix(path, "/metadata")
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return out, patch.BadRequest("not a metadata path: %s", path)
	}
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return out, nil
	}
	parts := strings.Split(rest, "/")
	if len(parts) > 3 {
		return out, patch.BadRequest("metadata path too long: %s", path)
	}
	out.Field = parts[0]
	if out.Field == "" {
		return out, patch.BadRequest("missing metadata field in %s", path)
	}
	if len(parts) > 1 {
		if parts[1] == "-" {
			out.Append = true
		} else {
			i, err := strconv.Atoi(parts[1])
			if err != nil || i < 0 {
				return out, patch.BadRequest("invalid metadata index %q in %s", parts[1], path)
			}
			out.Index = i
		}
	}
	if len(parts) > 2 {
		out.Property = parts[2]
	}
	return out, nil
}

// CheckField resolves name against the field registry. An unknown field is
// a 422.
func CheckField(fields *schema.Registry, name string) (content.MetadataField, error) {
	f, err := content.ParseField(name)
	if err != nil {
		return f, patch.Unprocessable("%v", err)
	}
	if fields != nil {
		if _, ok := fields.Field(f.Schema, f.Element, f.Qualifier); !ok {
			return f, patch.Unprocessable("Unknown metadata field: %s", name)
		}
	}
	return f, nil
}

const extractFailed = "Could not extract MetadataValue Object from Operation"

// ExtractValue reads one value from the operation. An object carries
// value, language, authority and confidence; of a list the first element is
// used; a string is a plain value.
func ExtractValue(op patch.Operation) (content.MetadataValue, error) {
	vals, err := ExtractValues(op)
	if err != nil {
		return content.MetadataValue{}, err
	}
	return vals[0], nil
}

// ExtractValues reads every value of a list, or the single value of an
// object or string.
func ExtractValues(op patch.Operation) ([]content.MetadataValue, error) {
	if list, ok := patch.ListValue(op.Value); ok {
		if len(list) == 0 {
			return nil, patch.BadRequest(extractFailed)
		}
		out := make([]content.MetadataValue, 0, len(list))
		for _, v := range list {
			mv, err := valueOf(v)
			if err != nil {
				return nil, err
			}
			out = append(out, mv)
		}
		return out, nil
	}
	mv, err := valueOf(op.Value)
	if err != nil {
		return nil, err
	}
	return []content.MetadataValue{mv}, nil
}

func valueOf(v *structpb.Value) (content.MetadataValue, error) {
	mv := content.MetadataValue{Confidence: content.ConfidenceUnset}
	if s, ok := patch.StringValue(v); ok {
		mv.Value = s
		return mv, nil
	}
	obj, ok := patch.ObjectValue(v)
	if !ok {
		return mv, patch.BadRequest(extractFailed)
	}
	for _, name := range []string{PropValue, PropLanguage, PropAuthority, PropConfidence} {
		prop, ok := obj[name]
		if !ok || patch.IsNull(prop) {
			continue
		}
		if err := setProperty(&mv, name, prop); err != nil {
			return mv, err
		}
	}
	if mv.Authority != "" && mv.Confidence == content.ConfidenceUnset {
		mv.Confidence = content.ConfidenceAccepted
	}
	return mv, nil
}

// setProperty sets one addressed property of mv from v.
func setProperty(mv *content.MetadataValue, name string, v *structpb.Value) error {
	switch name {
	case PropValue, PropLanguage, PropAuthority:
		s, ok := patch.Scalar(v)
		if !ok {
			return patch.BadRequest("metadata %s must be a string", name)
		}
		switch name {
		case PropValue:
			mv.Value = s
		case PropLanguage:
			mv.Language = s
		default:
			mv.Authority = s
		}
	case PropConfidence:
		if n, ok := patch.IntValue(v); ok {
			mv.Confidence = n
			return nil
		}
		s, ok := patch.StringValue(v)
		if !ok {
			return patch.BadRequest("metadata confidence must be a number")
		}
		mv.Confidence = content.ParseConfidence(s)
	default:
		return patch.BadRequest("Unknown metadata property: %s", name)
	}
	return nil
}

// outOfRange maps index errors of the content model to 422.
func outOfRange(err error) error {
	if errors.Is(err, content.ErrIndexOutOfRange) {
		return patch.Unprocessable("%v", err)
	}
	return err
}
