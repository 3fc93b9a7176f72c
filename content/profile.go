package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Subscription asks for notifications about changes to an object.
type Subscription struct {
	ID         int
	Type       string
	Object     Object
	EPerson    *EPerson
	Parameters []SubscriptionParameter
}

// SubscriptionParameter is a name/value setting of a subscription, such as
// frequency=W.
type SubscriptionParameter struct {
	ID    int
	Name  string
	Value string
}

// Parameter returns the index of the parameter with the given id, or -1.
func (s *Subscription) Parameter(id int) int {
	for i, p := range s.Parameters {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// NextParameterID returns an id not used by any parameter.
func (s *Subscription) NextParameterID() int {
	next := 1
	for _, p := range s.Parameters {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

// ResearcherProfile links an eperson to the Person item describing them.
type ResearcherProfile struct {
	ID      uuid.UUID
	EPerson *EPerson
	Item    *Item

	OrcidAccessToken string
}

// OrcidID returns the ORCID iD recorded on the profile item.
func (p *ResearcherProfile) OrcidID() string {
	if p.Item == nil {
		return ""
	}
	return p.Item.FirstValue("person.identifier.orcid")
}

// IsLinkedToOrcid reports whether the profile holds an ORCID iD and an
// access token.
func (p *ResearcherProfile) IsLinkedToOrcid() bool {
	return p.OrcidAccessToken != "" && p.OrcidID() != ""
}

// Security controls who may see a layout box or tab.
type Security int

const (
	SecurityPublic Security = iota
	SecurityAdministrator
	SecurityOwnerOnly
	SecurityOwnerAndAdministrator
	SecurityCustomData
	SecurityCustomDataAndAdministrator
)

var securityNames = []string{
	"PUBLIC",
	"ADMINISTRATOR",
	"OWNER_ONLY",
	"OWNER_AND_ADMINISTRATOR",
	"CUSTOM_DATA",
	"CUSTOM_DATA_AND_ADMINISTRATOR",
}

// String returns the security level name.
func (s Security) String() string {
	if int(s) >= 0 && int(s) < len(securityNames) {
		return securityNames[s]
	}
	return fmt.Sprintf("SECURITY(%d)", int(s))
}

// ParseSecurity parses a security level name.
func ParseSecurity(s string) (Security, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range securityNames {
		if name == s {
			return Security(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layout security: %q", s)
}

// LayoutBox is a configurable panel on an entity page.
type LayoutBox struct {
	ID         int
	EntityType string
	Shortname  string
	Header     string
	Style      string
	BoxType    string
	Collapsed  bool
	Minor      bool
	Container  bool
	Security   Security
	MaxColumns int
}

// LayoutTab groups boxes on an entity page.
type LayoutTab struct {
	ID         int
	EntityType string
	Shortname  string
	Header     string
	Priority   int
	Leading    bool
	Security   Security
	Boxes      []*LayoutBox
}
