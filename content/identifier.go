package content

import (
	"regexp"
	"strings"
)

// IdentifierType classifies an identifier string.
type IdentifierType string

const (
	IdentifierUnknown IdentifierType = ""
	IdentifierDOI     IdentifierType = "doi"
	IdentifierHandle  IdentifierType = "handle"
	IdentifierORCID   IdentifierType = "orcid"
	IdentifierISBN    IdentifierType = "isbn"
	IdentifierISSN    IdentifierType = "issn"
	IdentifierUUID    IdentifierType = "uuid"
	IdentifierURN     IdentifierType = "urn"
	IdentifierURL     IdentifierType = "url"
)

var (
	doiRegex    = regexp.MustCompile(`^10\.\d{4,}/[^\s]+$`)
	handleRegex = regexp.MustCompile(`^\d+(\.\d+)*/[^\s]+$`)
	orcidRegex  = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
	isbnRegex   = regexp.MustCompile(`^(?:\d{9}[\dX]|\d{13})$`)
	issnRegex   = regexp.MustCompile(`^\d{4}-\d{3}[\dX]$`)
	uuidRegex   = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// DetectIdentifierType guesses the kind of an identifier from its value.
func DetectIdentifierType(value string) IdentifierType {
	value = strings.TrimSpace(value)
	lower := strings.ToLower(value)

	switch {
	case strings.HasPrefix(lower, "doi:"),
		strings.HasPrefix(lower, "https://doi.org/"),
		strings.HasPrefix(lower, "http://doi.org/"),
		strings.HasPrefix(lower, "http://dx.doi.org/"),
		doiRegex.MatchString(value):
		return IdentifierDOI
	case strings.HasPrefix(lower, "hdl:"),
		strings.HasPrefix(lower, "https://hdl.handle.net/"),
		strings.HasPrefix(lower, "http://hdl.handle.net/"):
		return IdentifierHandle
	case orcidRegex.MatchString(value), strings.HasPrefix(lower, "https://orcid.org/"):
		return IdentifierORCID
	case uuidRegex.MatchString(value):
		return IdentifierUUID
	case strings.HasPrefix(lower, "urn:"):
		return IdentifierURN
	case issnRegex.MatchString(value):
		return IdentifierISSN
	case isbnRegex.MatchString(strings.ReplaceAll(value, "-", "")):
		return IdentifierISBN
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return IdentifierURL
	case handleRegex.MatchString(value):
		return IdentifierHandle
	}
	return IdentifierUnknown
}

// NormalizeIdentifier strips resolver prefixes from value.
func NormalizeIdentifier(value string, t IdentifierType) string {
	value = strings.TrimSpace(value)
	switch t {
	case IdentifierDOI:
		for _, p := range []string{"https://doi.org/", "http://doi.org/", "http://dx.doi.org/", "doi:", "DOI:"} {
			value = strings.TrimPrefix(value, p)
		}
	case IdentifierHandle:
		for _, p := range []string{"https://hdl.handle.net/", "http://hdl.handle.net/", "hdl:"} {
			value = strings.TrimPrefix(value, p)
		}
	case IdentifierORCID:
		value = strings.TrimPrefix(value, "https://orcid.org/")
		value = strings.TrimPrefix(value, "http://orcid.org/")
	case IdentifierISBN, IdentifierISSN:
		value = strings.ToUpper(value)
	}
	return value
}

// IdentifierURI returns a resolvable URI for value where one exists.
func IdentifierURI(value string) string {
	t := DetectIdentifierType(value)
	v := NormalizeIdentifier(value, t)
	switch t {
	case IdentifierDOI:
		return "https://doi.org/" + v
	case IdentifierHandle:
		return "https://hdl.handle.net/" + v
	case IdentifierORCID:
		return "https://orcid.org/" + v
	}
	return value
}
