package convert

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/dspace-crosswalk/helpers"
)

// Identity returns values unchanged.
var Identity Converter = Func(func(v string) string { return v })

// Parse compiles the transform of a field mapping. Steps are separated by
// commas and applied left to right:
//
//	remove_last_dot    drop one trailing full stop
//	strip_html         remove markup
//	trim               trim surrounding space
//	lowercase          lower-case the value
//	map:<file>         look the value up in a properties file
//
// An empty transform yields Identity.
func Parse(transform string) (Converter, error) {
	var steps []Converter
	for _, part := range strings.Split(transform, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if path, ok := strings.CutPrefix(part, "map:"); ok {
			c, err := LoadPropertiesFile(strings.TrimSpace(path))
			if err != nil {
				return nil, fmt.Errorf("transform %q: %w", part, err)
			}
			steps = append(steps, c)
			continue
		}
		c, ok := named[part]
		if !ok {
			return nil, fmt.Errorf("unknown transform %q", part)
		}
		steps = append(steps, c)
	}
	switch len(steps) {
	case 0:
		return Identity, nil
	case 1:
		return steps[0], nil
	}
	return Chain(steps...), nil
}

var named = map[string]Converter{
	"remove_last_dot": RemoveLastDotConverter{},
	"strip_html":      Func(helpers.StripHTML),
	"trim":            Func(strings.TrimSpace),
	"lowercase":       Func(strings.ToLower),
}
