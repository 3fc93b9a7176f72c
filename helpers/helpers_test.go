package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<p>First</p><p>Second &amp; third</p>", "First Second & third"},
		{"a<br/>b <!-- note --> c", "a b c"},
		{"  <b>bold</b>\n\ttext ", "bold text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripHTML(tt.in), tt.in)
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"aut", "aut"},
		{"AUT", "aut"},
		{"relators:edt", "edt"},
		{"http://id.loc.gov/vocabulary/relators/ths", "ths"},
		{"Thesis advisor", "ths"},
		{"thesis advisor", "ths"},
		{"advisor", "ths"},
		{"author", "aut"},
		{" contributor ", "ctb"},
		{"sculptor", "sculptor"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRole(tt.in), tt.in)
	}
}
