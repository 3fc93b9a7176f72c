// Package orcid implements patch operations on researcher profiles: public
// visibility and the ORCID synchronization preferences.
package orcid

import (
	"context"
	"log/slog"
	"strings"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// Resource is the patch resource name.
const Resource = "profiles"

// Fields holding the synchronization preferences on the profile item.
const (
	FieldPublications = "dspace.orcid.sync-publications"
	FieldFundings     = "dspace.orcid.sync-fundings"
	FieldProfile      = "dspace.orcid.sync-profile"
	FieldMode         = "dspace.orcid.sync-mode"
)

// preference is a single-valued setting with a closed set of values.
type preference struct {
	field   string
	allowed []string
}

var preferences = map[string]preference{
	"/orcid/publications": {FieldPublications, []string{"ALL", "DISABLED"}},
	"/orcid/fundings":     {FieldFundings, []string{"ALL", "DISABLED"}},
	"/orcid/mode":         {FieldMode, []string{"BATCH", "MANUAL"}},
}

// ProfileSections are the parts of a profile that can be pushed to ORCID.
var ProfileSections = []string{"AFFILIATION", "EDUCATION", "BIOGRAPHICAL", "IDENTIFIERS"}

func profile(obj any) (*content.ResearcherProfile, error) {
	p, ok := obj.(*content.ResearcherProfile)
	if !ok || p.Item == nil {
		return nil, patch.BadRequest(patch.Unsupported)
	}
	return p, nil
}

// Visible grants or revokes anonymous READ on the profile item.
func Visible(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	p, err := profile(obj)
	if err != nil {
		return err
	}
	visible, ok := patch.BoolValue(op.Value)
	if !ok {
		return patch.BadRequest("/visible must be true or false")
	}
	store := env.Store
	anonymousRead := func(rp *content.ResourcePolicy) bool {
		return rp.Action == content.ActionRead && rp.Group != nil && rp.Group.IsAnonymous()
	}
	if !visible {
		store.RemovePolicies(p.Item, anonymousRead)
	} else if !store.AnonymousCanRead(p.Item) {
		store.AddPolicy(&content.ResourcePolicy{Object: p.Item, Action: content.ActionRead, Group: store.Anonymous()})
	}
	slogcontext.Log(ctx, slog.LevelInfo, "profile visibility", "profile", p.ID.String(), "visible", visible)
	return nil
}

// Preference sets the publications, fundings or mode preference.
func Preference(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	p, err := linked(obj)
	if err != nil {
		return err
	}
	pref := preferences[op.Path]
	s, _ := patch.StringValue(op.Value)
	s = strings.ToUpper(strings.TrimSpace(s))
	if !contains(pref.allowed, s) {
		return patch.Unprocessable("invalid value %q for %s, expected one of %s", s, op.Path, strings.Join(pref.allowed, ", "))
	}
	p.Item.SetMetadataSingleValue(content.MustField(pref.field), "", s)
	p.Item.LastModified = env.Now()
	return nil
}

// Profile sets the sections of the profile to synchronize from a comma
// separated list. An empty list disables profile synchronization.
func Profile(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	p, err := linked(obj)
	if err != nil {
		return err
	}
	s, ok := patch.StringValue(op.Value)
	if !ok && !patch.IsNull(op.Value) {
		return patch.Unprocessable("/orcid/profile must be a comma separated list")
	}
	var sections []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !contains(ProfileSections, part) {
			return patch.Unprocessable("invalid profile section %q", part)
		}
		if !contains(sections, part) {
			sections = append(sections, part)
		}
	}
	f := content.MustField(FieldProfile)
	p.Item.ClearField(f)
	for _, section := range sections {
		p.Item.AddMetadata(f, "", section, "", content.ConfidenceUnset)
	}
	p.Item.LastModified = env.Now()
	return nil
}

func linked(obj any) (*content.ResearcherProfile, error) {
	p, err := profile(obj)
	if err != nil {
		return nil, err
	}
	if !p.IsLinkedToOrcid() {
		return nil, patch.Unprocessable("the profile is not linked to an ORCID account")
	}
	return p, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func init() {
	patch.Register(patch.Definition{Resource: Resource, Op: patch.OpReplace, Path: "/visible", Perform: Visible})
	for path := range preferences {
		patch.Register(patch.Definition{Resource: Resource, Op: patch.OpReplace, Path: path, Perform: Preference})
	}
	patch.Register(patch.Definition{Resource: Resource, Op: patch.OpReplace, Path: "/orcid/profile", Perform: Profile})
}
