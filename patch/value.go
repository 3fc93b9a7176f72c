package patch

import (
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/dspace-crosswalk/value"
)

// IsNull reports whether the operation carries no value or a JSON null.
func IsNull(v *structpb.Value) bool {
	if v == nil {
		return true
	}
	_, null := v.GetKind().(*structpb.Value_NullValue)
	return null
}

// StringValue returns a string value.
func StringValue(v *structpb.Value) (string, bool) {
	if s, ok := v.GetKind().(*structpb.Value_StringValue); ok {
		return s.StringValue, true
	}
	return "", false
}

// BoolValue accepts a JSON bool or the strings "true" and "false".
func BoolValue(v *structpb.Value) (bool, bool) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return k.BoolValue, true
	case *structpb.Value_StringValue:
		b, err := value.ParseBool(k.StringValue)
		return b, err == nil
	}
	return false, false
}

// IntValue accepts a whole JSON number in the int32 range.
func IntValue(v *structpb.Value) (int, bool) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, false
	}
	if n.NumberValue < math.MinInt32 || n.NumberValue > math.MaxInt32 {
		return 0, false
	}
	return int(n.NumberValue), true
}

// ObjectValue returns the fields of a JSON object.
func ObjectValue(v *structpb.Value) (map[string]*structpb.Value, bool) {
	s, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok || s.StructValue == nil {
		return nil, false
	}
	return s.StructValue.GetFields(), true
}

// ListValue returns the elements of a JSON array.
func ListValue(v *structpb.Value) ([]*structpb.Value, bool) {
	l, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok || l.ListValue == nil {
		return nil, false
	}
	return l.ListValue.GetValues(), true
}

// Scalar renders strings, numbers and bools as text.
func Scalar(v *structpb.Value) (string, bool) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, true
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64), true
	case *structpb.Value_BoolValue:
		if k.BoolValue {
			return "true", true
		}
		return "false", true
	}
	return "", false
}
