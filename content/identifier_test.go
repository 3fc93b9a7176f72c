package content

import (
	"testing"
)

func TestDetectIdentifierType(t *testing.T) {
	cases := []struct {
		in   string
		want IdentifierType
	}{
		{"10.1080/17480272.2015.1061596", IdentifierDOI},
		{"doi:10.3972/test", IdentifierDOI},
		{"https://doi.org/10.1007/978-3-642-35233-1", IdentifierDOI},
		{"123456789/42", IdentifierHandle},
		{"hdl:10673/7", IdentifierHandle},
		{"0000-0002-9079-5932", IdentifierORCID},
		{"2049-3630", IdentifierISSN},
		{"978-3-16-148410-0", IdentifierISBN},
		{"urn:nbn:de:1234", IdentifierURN},
		{"https://example.org/x", IdentifierURL},
		{"free text", IdentifierUnknown},
	}
	for _, tc := range cases {
		if got := DetectIdentifierType(tc.in); got != tc.want {
			t.Errorf("DetectIdentifierType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIdentifierURI(t *testing.T) {
	if got := IdentifierURI("doi:10.3972/test"); got != "https://doi.org/10.3972/test" {
		t.Errorf("got %q", got)
	}
	if got := IdentifierURI("123456789/42"); got != "https://hdl.handle.net/123456789/42" {
		t.Errorf("got %q", got)
	}
}

func TestLicenseLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"http://creativecommons.org/licenses/by-nc-sa/4.0/", "CC BY-NC-SA 4.0"},
		{"https://creativecommons.org/licenses/by/3.0/us/", "CC BY 3.0"},
		{"http://creativecommons.org/publicdomain/zero/1.0/", "CC0 1.0"},
		{"http://rightsstatements.org/vocab/InC/1.0/", "In Copyright"},
		{"https://example.org/license", "https://example.org/license"},
	}
	for _, tc := range cases {
		if got := LicenseLabel(tc.in); got != tc.want {
			t.Errorf("LicenseLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
