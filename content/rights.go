package content

import (
	"strings"
)

// RightsStatements maps rightsstatements.org codes to labels.
var RightsStatements = map[string]string{
	"InC":       "In Copyright",
	"InC-OW-EU": "In Copyright - EU Orphan Work",
	"InC-EDU":   "In Copyright - Educational Use Permitted",
	"InC-NC":    "In Copyright - Non-Commercial Use Permitted",
	"InC-RUU":   "In Copyright - Rights-holder(s) Unlocatable or Unidentifiable",
	"NoC-CR":    "No Copyright - Contractual Restrictions",
	"NoC-NC":    "No Copyright - Non-Commercial Use Only",
	"NoC-OKLR":  "No Copyright - Other Known Legal Restrictions",
	"NoC-US":    "No Copyright - United States",
	"CNE":       "Copyright Not Evaluated",
	"UND":       "Copyright Undetermined",
	"NKC":       "No Known Copyright",
}

// IsCreativeCommons reports whether uri points at a Creative Commons license
// or dedication.
func IsCreativeCommons(uri string) bool {
	return strings.Contains(strings.ToLower(uri), "creativecommons.org/")
}

// LicenseLabel returns a short label for a license URI, such as
// "CC BY-NC-SA 4.0" or "In Copyright". Unrecognised URIs come back as is.
func LicenseLabel(uri string) string {
	if strings.Contains(uri, "rightsstatements.org") {
		parts := strings.Split(strings.TrimSuffix(uri, "/"), "/")
		if len(parts) >= 2 {
			if label, ok := RightsStatements[parts[len(parts)-2]]; ok {
				return label
			}
		}
		return uri
	}
	if !IsCreativeCommons(uri) {
		return uri
	}

	// .../licenses/by-nc-sa/4.0/ or .../publicdomain/zero/1.0/
	_, path, _ := strings.Cut(uri, "creativecommons.org/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "publicdomain" {
		if parts[1] == "zero" {
			return strings.TrimSpace("CC0 " + partAt(parts, 2))
		}
		return "Public Domain Mark " + partAt(parts, 2)
	}
	if len(parts) >= 2 && parts[0] == "licenses" {
		label := "CC " + strings.ToUpper(parts[1])
		if v := partAt(parts, 2); v != "" {
			label += " " + v
		}
		return label
	}
	return uri
}

func partAt(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
