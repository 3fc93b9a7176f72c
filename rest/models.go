package rest

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
)

// model is a patchable REST endpoint: /api/{category}/{name}/{id}. The
// patch resource is the endpoint name.
type model struct {
	category string
	name     string
	find     func(s *content.Store, id string) (any, bool)
}

func (m model) path() string {
	return m.category + "/" + m.name
}

func byUUID[T content.Object](s *content.Store, id string) (any, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	obj, ok := content.Lookup[T](s, u)
	if !ok {
		return nil, false
	}
	return obj, true
}

func byInt[T any](get func(*content.Store, int) (T, bool)) func(*content.Store, string) (any, bool) {
	return func(s *content.Store, id string) (any, bool) {
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, false
		}
		v, ok := get(s, n)
		if !ok {
			return nil, false
		}
		return v, true
	}
}

func profileByUUID(s *content.Store, id string) (any, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	p, ok := s.Profile(u)
	if !ok {
		return nil, false
	}
	return p, true
}

var models = []model{
	{"core", "items", byUUID[*content.Item]},
	{"core", "bitstreams", byUUID[*content.Bitstream]},
	{"core", "bundles", byUUID[*content.Bundle]},
	{"core", "collections", byUUID[*content.Collection]},
	{"core", "communities", byUUID[*content.Community]},
	{"core", "sites", byUUID[*content.Site]},
	{"core", "subscriptions", byInt((*content.Store).Subscription)},
	{"eperson", "epersons", byUUID[*content.EPerson]},
	{"eperson", "groups", byUUID[*content.Group]},
	{"eperson", "profiles", profileByUUID},
	{"authz", "resourcepolicies", byInt((*content.Store).Policy)},
	{"layout", "boxes", byInt((*content.Store).Box)},
	{"layout", "tabs", byInt((*content.Store).Tab)},
}

func lookupModel(category, name string) (model, error) {
	for _, m := range models {
		if m.category == category && m.name == name {
			return m, nil
		}
	}
	return model{}, fmt.Errorf("no endpoint %s/%s", category, name)
}

// Find returns the object behind the patch endpoint called name, such as
// "items" or "boxes", with the given id.
func Find(s *content.Store, name, id string) (any, error) {
	for _, m := range models {
		if m.name != name {
			continue
		}
		if obj, ok := m.find(s, id); ok {
			return obj, nil
		}
		return nil, fmt.Errorf("%w: %s %s", content.ErrNotFound, m.path(), id)
	}
	return nil, fmt.Errorf("no endpoint %s", name)
}

// Models returns the category/name of every patch endpoint.
func Models() []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		out = append(out, m.path())
	}
	return out
}
