// Package convert provides the small string-to-string value converters
// crosswalks apply to metadata values on the way in or out.
package convert

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
)

// Converter turns one value into another.
type Converter interface {
	Convert(value string) string
}

// Func adapts a plain function to Converter.
type Func func(string) string

// Convert calls f.
func (f Func) Convert(value string) string { return f(value) }

// Chain applies converters in order.
func Chain(cs ...Converter) Converter {
	return Func(func(v string) string {
		for _, c := range cs {
			v = c.Convert(v)
		}
		return v
	})
}

// MapConverter looks values up in a table. A value missing from the table
// comes back as DefaultValue when one is set, otherwise unchanged.
type MapConverter struct {
	Mapping      map[string]string
	DefaultValue string
}

// NewMapConverter returns a converter over mapping.
func NewMapConverter(mapping map[string]string, defaultValue string) *MapConverter {
	if mapping == nil {
		mapping = map[string]string{}
	}
	return &MapConverter{Mapping: mapping, DefaultValue: defaultValue}
}

// FromProfile builds a converter from a mapping profile's Values table and
// Default.
func FromProfile(p *mapping.Profile) *MapConverter {
	return NewMapConverter(p.Values, p.Default)
}

// Convert returns the mapped value.
func (c *MapConverter) Convert(value string) string {
	if mapped, ok := c.Mapping[value]; ok {
		return mapped
	}
	if c.DefaultValue != "" {
		return c.DefaultValue
	}
	return value
}

// LoadProperties reads "key = value" lines into a converter. Blank lines and
// lines starting with # or ! are skipped. The key "default" sets
// DefaultValue. Backslash-escaped separators and spaces in keys are
// honoured, so URIs with colons can be written as http\://...
func LoadProperties(r io.Reader) (*MapConverter, error) {
	c := NewMapConverter(nil, "")
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' || text[0] == '!' {
			continue
		}
		key, value, ok := splitProperty(text)
		if !ok {
			return nil, fmt.Errorf("line %d: expected key = value", line)
		}
		if key == "default" {
			c.DefaultValue = value
			continue
		}
		c.Mapping[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading properties: %w", err)
	}
	return c, nil
}

// LoadPropertiesFile reads a properties file from disk.
func LoadPropertiesFile(path string) (*MapConverter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := LoadProperties(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func splitProperty(line string) (key, value string, ok bool) {
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if ch == '\\' && i+1 < len(line) {
			i++
			b.WriteByte(line[i])
			continue
		}
		if ch == '=' || ch == ':' {
			return strings.TrimSpace(b.String()), strings.TrimSpace(line[i+1:]), true
		}
		b.WriteByte(ch)
	}
	return "", "", false
}

// RemoveLastDotConverter drops one trailing full stop, ignoring trailing
// spaces. Catalogue records often end titles and names with a period that
// should not be stored.
type RemoveLastDotConverter struct{}

// Convert strips the final dot of value.
func (RemoveLastDotConverter) Convert(value string) string {
	if value == "" {
		return value
	}
	trimmed := strings.TrimRight(value, " ")
	if strings.HasSuffix(trimmed, ".") {
		return trimmed[:len(trimmed)-1]
	}
	return value
}
