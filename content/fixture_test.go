package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
  "handle_prefix": "10673",
  "epersons": [
    {"email": "admin@example.com", "netid": "admin", "can_login": true,
     "metadata": {"eperson.firstname": ["Ada"], "eperson.lastname": ["Admin"]}}
  ],
  "groups": [{"name": "Administrator", "members": ["admin@example.com"]}],
  "communities": [{
    "id": "0b7d4e1f-3c5b-4a70-9b7e-2d8c1a2b3c4d",
    "metadata": {"dc.title": ["Research"]},
    "collections": [{
      "handle": "10673/20",
      "metadata": {"dc.title": ["Articles"]},
      "items": [{
        "id": "5e0b1a44-1d9a-4a58-8f37-5d7f6c2a9e11",
        "submitter": "admin@example.com",
        "metadata": {
          "dc.title": ["On crosswalks"],
          "dc.subject": ["metadata", {"value": "xml", "language": "en", "authority": "sh1", "confidence": 600}]
        },
        "bundles": [{"name": "ORIGINAL", "bitstreams": [{"name": "a.txt", "content": "hello"}]}]
      }]
    }]
  }],
  "policies": [
    {"id": 7, "object": "5e0b1a44-1d9a-4a58-8f37-5d7f6c2a9e11", "action": "READ", "group": "Anonymous", "start_date": "2024-01-01"}
  ],
  "subscriptions": [
    {"id": 3, "object": "5e0b1a44-1d9a-4a58-8f37-5d7f6c2a9e11", "eperson": "admin@example.com", "parameters": {"frequency": "W"}}
  ],
  "boxes": [{"id": 11, "shortname": "box", "security": "OWNER_ONLY"}]
}`

func TestLoadFixture(t *testing.T) {
	s, err := LoadFixture(strings.NewReader(fixtureJSON))
	require.NoError(t, err)

	obj, ok := s.Find("5e0b1a44-1d9a-4a58-8f37-5d7f6c2a9e11")
	require.True(t, ok)
	item := obj.(*Item)

	assert.Equal(t, "On crosswalks", item.Name())
	assert.Equal(t, "admin@example.com", item.Submitter.Email)
	assert.Equal(t, "Articles", item.OwningCollection.Name())
	assert.Equal(t, "10673/20", item.OwningCollection.Handle)
	assert.True(t, strings.HasPrefix(item.Handle, "10673/"))
	assert.NotEqual(t, "10673/20", item.Handle)

	subjects := item.Values(MustField("dc.subject"))
	require.Len(t, subjects, 2)
	assert.Equal(t, "xml", subjects[1].Value)
	assert.Equal(t, "en", subjects[1].Language)
	assert.Equal(t, ConfidenceAccepted, subjects[1].Confidence)

	bs := item.BundlesNamed(BundleOriginal)[0].Bitstreams[0]
	assert.Equal(t, "hello", string(bs.Content()))

	admins := s.Administrators()
	e, _ := s.EPersonByEmail("admin@example.com")
	assert.True(t, admins.IsMember(e))
	assert.Equal(t, "Ada Admin", e.Name())

	p, ok := s.Policy(7)
	require.True(t, ok)
	assert.Equal(t, ActionRead, p.Action)
	assert.True(t, p.Group.IsAnonymous())

	sub, ok := s.Subscription(3)
	require.True(t, ok)
	assert.Equal(t, "W", sub.Parameters[0].Value)

	box, ok := s.Box(11)
	require.True(t, ok)
	assert.Equal(t, SecurityOwnerOnly, box.Security)
}

func TestLoadFixtureErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{name: "invalid json", input: `{"communities": [`},
		{name: "unknown submitter", input: `{"communities": [{"collections": [{"items": [{"submitter": "nobody@example.com"}]}]}]}`},
		{name: "bad field", input: `{"communities": [{"metadata": {"title": ["x"]}}]}`},
		{name: "bad action", input: `{"policies": [{"object": "123456789/0", "action": "FLY"}]}`},
	}
	for _, tc := range cases {
		_, err := LoadFixture(strings.NewReader(tc.input))
		assert.Error(t, err, tc.name)
	}
}
