package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	dir := t.TempDir()
	props := filepath.Join(dir, "genres.properties")
	require.NoError(t, os.WriteFile(props, []byte("thesis = Thesis\ndefault = Other\n"), 0o644))

	cases := []struct {
		transform string
		in, want  string
	}{
		{"", " As is. ", " As is. "},
		{"remove_last_dot", "Smith, John.", "Smith, John"},
		{"strip_html", "<b>Bold</b> text", "Bold text"},
		{"trim, remove_last_dot", "  A title. ", "A title"},
		{"trim,lowercase", " THESIS ", "thesis"},
		{"trim,lowercase,map:" + props, " THESIS ", "Thesis"},
		{"map:" + props, "poster", "Other"},
	}
	for _, tc := range cases {
		c, err := Parse(tc.transform)
		require.NoError(t, err, tc.transform)
		assert.Equal(t, tc.want, c.Convert(tc.in), tc.transform)
	}
}

func TestParseRejects(t *testing.T) {
	for _, transform := range []string{
		"upper",
		"trim,shout",
		"map:" + filepath.Join(t.TempDir(), "missing.properties"),
	} {
		_, err := Parse(transform)
		assert.Error(t, err, transform)
	}
}
