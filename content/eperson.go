package content

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Names of the groups every repository has.
const (
	GroupAnonymous     = "Anonymous"
	GroupAdministrator = "Administrator"
)

// EPerson is a user account.
type EPerson struct {
	DSpaceObject

	Email              string
	Netid              string
	CanLogIn           bool
	RequireCertificate bool
	SelfRegistered     bool
	LastActive         time.Time

	passwordHash []byte
}

// Type returns EPERSON.
func (e *EPerson) Type() Type { return EPERSON }

// Name returns "First Last" from the eperson metadata, falling back to the
// email address.
func (e *EPerson) Name() string {
	first := e.FirstValue("eperson.firstname")
	last := e.FirstValue("eperson.lastname")
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return e.Email
	}
	return name
}

// SetPassword stores a bcrypt hash of password.
func (e *EPerson) SetPassword(password string) error {
	if password == "" {
		return errors.New("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.passwordHash = hash
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (e *EPerson) CheckPassword(password string) bool {
	if len(e.passwordHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(e.passwordHash, []byte(password)) == nil
}

// HasPassword reports whether a password has been set.
func (e *EPerson) HasPassword() bool {
	return len(e.passwordHash) > 0
}

// Group is a named set of epersons and other groups.
type Group struct {
	DSpaceObject

	GroupName string
	Members   []*EPerson
	Subgroups []*Group
}

// Type returns GROUP.
func (g *Group) Type() Type { return GROUP }

// Name returns the group name.
func (g *Group) Name() string { return g.GroupName }

// IsAnonymous reports whether g is the Anonymous group.
func (g *Group) IsAnonymous() bool { return g.GroupName == GroupAnonymous }

// IsAdministrator reports whether g is the Administrator group.
func (g *Group) IsAdministrator() bool { return g.GroupName == GroupAdministrator }

// AddMember adds e to the group.
func (g *Group) AddMember(e *EPerson) {
	for _, m := range g.Members {
		if m == e {
			return
		}
	}
	g.Members = append(g.Members, e)
}

// IsMember reports whether e belongs to g directly or through a subgroup.
func (g *Group) IsMember(e *EPerson) bool {
	return g.isMember(e, map[*Group]bool{})
}

func (g *Group) isMember(e *EPerson, seen map[*Group]bool) bool {
	if seen[g] {
		return false
	}
	seen[g] = true
	for _, m := range g.Members {
		if m == e {
			return true
		}
	}
	for _, sub := range g.Subgroups {
		if sub.isMember(e, seen) {
			return true
		}
	}
	return false
}
