package helpers

import "strings"

// MARCRelators maps the MARC relator codes used for DSpace contributor
// qualifiers to their labels.
var MARCRelators = map[string]string{
	"aut": "Author",
	"cre": "Creator",
	"ctb": "Contributor",
	"edt": "Editor",
	"ill": "Illustrator",
	"trl": "Translator",
	"ths": "Thesis advisor",
	"dgc": "Degree committee member",
	"dgg": "Degree granting institution",
	"pbl": "Publisher",
	"fnd": "Funder",
	"spn": "Sponsor",
	"cph": "Copyright holder",
	"oth": "Other",
}

// roleAliases maps DSpace contributor qualifiers and common spellings to
// relator codes.
var roleAliases = map[string]string{
	"author":     "aut",
	"creator":    "cre",
	"editor":     "edt",
	"advisor":    "ths",
	"committee":  "dgc",
	"other":      "oth",
	"translator": "trl",
	"sponsor":    "spn",
	"funder":     "fnd",
}

// RelatorCode strips the "relators:" prefix or the id.loc.gov vocabulary
// path from s.
func RelatorCode(s string) string {
	if strings.HasPrefix(s, "relators:") {
		return strings.TrimPrefix(s, "relators:")
	}
	if _, code, ok := strings.Cut(s, "/vocabulary/relators/"); ok {
		return strings.TrimSuffix(code, "/")
	}
	return s
}

// NormalizeRole returns the relator code of role, which may be a code, a
// relator URI, a label or a contributor qualifier. Unknown roles are
// returned trimmed.
func NormalizeRole(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return ""
	}
	code := strings.ToLower(RelatorCode(role))
	if _, ok := MARCRelators[code]; ok {
		return code
	}
	lower := strings.ToLower(role)
	for c, label := range MARCRelators {
		if strings.ToLower(label) == lower {
			return c
		}
	}
	if c, ok := roleAliases[lower]; ok {
		return c
	}
	return role
}
