package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
)

func TestMapConverter(t *testing.T) {
	c := NewMapConverter(map[string]string{"M": "Male", "F": "Female"}, "")
	assert.Equal(t, "Male", c.Convert("M"))
	assert.Equal(t, "X", c.Convert("X"))

	c.DefaultValue = "Unknown"
	assert.Equal(t, "Unknown", c.Convert("X"))
	assert.Equal(t, "Female", c.Convert("F"))
}

func TestRemoveLastDotConverter(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"Smith, John.", "Smith, John"},
		{"Title. ", "Title"},
		{"Title..", "Title."},
		{"No dot", "No dot"},
		{".", ""},
		{"   ", "   "},
	}
	var c RemoveLastDotConverter
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Convert(tc.in), "input %q", tc.in)
	}
}

func TestLoadProperties(t *testing.T) {
	input := `
# COAR types
http\://purl.org/coar/resource_type/c_efa0 = Controlled Vocabulary for Resource Type Genres::text::review
! other comment
journal = Journal
default = Other
`
	c, err := LoadProperties(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Controlled Vocabulary for Resource Type Genres::text::review",
		c.Convert("http://purl.org/coar/resource_type/c_efa0"))
	assert.Equal(t, "Journal", c.Convert("journal"))
	assert.Equal(t, "Other", c.Convert("anything"))

	_, err = LoadProperties(strings.NewReader("no separator here"))
	assert.Error(t, err)
}

func TestFromProfileAndChain(t *testing.T) {
	registry, err := mapping.NewProfileRegistry()
	require.NoError(t, err)
	coar, ok := registry.Get("coar-types")
	require.True(t, ok)

	c := FromProfile(coar)
	assert.Equal(t,
		"Controlled Vocabulary for Resource Type Genres::text::conference object::conference proceedings::conference paper",
		c.Convert("http://purl.org/coar/resource_type/c_5794"))
	assert.Equal(t, "unmapped", c.Convert("unmapped"))

	chained := Chain(RemoveLastDotConverter{}, NewMapConverter(map[string]string{"Book": "book"}, ""))
	assert.Equal(t, "book", chained.Convert("Book."))
}
