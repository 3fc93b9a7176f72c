package value

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Precision is the granularity of a W3CDTF value.
type Precision int

const (
	PrecisionUnknown Precision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
	PrecisionTime
)

var w3cdtfRegex = regexp.MustCompile(`^\d{4}(?:-\d{2}(?:-\d{2}(?:T\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:\d{2}))?)?)?$`)

// IsW3CDTF reports whether s is a W3C date-time profile of ISO 8601:
// YYYY, YYYY-MM, YYYY-MM-DD or a full timestamp with a zone.
func IsW3CDTF(s string) bool {
	return w3cdtfRegex.MatchString(strings.TrimSpace(s))
}

var w3cdtfLayouts = []struct {
	layout    string
	precision Precision
}{
	{time.RFC3339Nano, PrecisionTime},
	{"2006-01-02T15:04Z07:00", PrecisionTime},
	{"2006-01-02", PrecisionDay},
	{"2006-01", PrecisionMonth},
	{"2006", PrecisionYear},
}

// ParseW3CDTF parses a W3CDTF value such as dc.date.issued. Partial dates
// resolve to the first instant of the period in UTC.
func ParseW3CDTF(s string) (time.Time, Precision, error) {
	s = strings.TrimSpace(s)
	if !w3cdtfRegex.MatchString(s) {
		return time.Time{}, PrecisionUnknown, fmt.Errorf("not a W3CDTF date: %q", s)
	}
	for _, l := range w3cdtfLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return t, l.precision, nil
		}
	}
	return time.Time{}, PrecisionUnknown, fmt.Errorf("invalid W3CDTF date: %q", s)
}
