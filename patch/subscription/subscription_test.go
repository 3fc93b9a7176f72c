package subscription

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch/patchtest"
)

func TestParameters(t *testing.T) {
	env := patchtest.NewEnv(t)
	e := env.Store.NewEPerson("reader@example.edu")
	sub := env.Store.AddSubscription(&content.Subscription{
		Type:       "content",
		Object:     env.Store.NewItem(nil, nil),
		EPerson:    e,
		Parameters: []content.SubscriptionParameter{{ID: 1, Name: Frequency, Value: "D"}},
	})

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, sub,
		`[{"op":"add","path":"/subscriptionsParameter","value":{"name":"frequency","value":"w"}}]`))
	assert.Equal(t, []content.SubscriptionParameter{
		{ID: 1, Name: Frequency, Value: "D"},
		{ID: 2, Name: Frequency, Value: "W"},
	}, sub.Parameters)

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, sub,
		`[{"op":"add","path":"/subscriptionsParameter/1","value":{"name":"frequency","value":"M"}}]`))
	assert.Len(t, sub.Parameters, 3)
	assert.Equal(t, 3, sub.Parameters[2].ID)

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, sub,
		`[{"op":"replace","path":"/subscriptionsParameter/2","value":{"name":"frequency","value":"M"}}]`))
	assert.Equal(t, content.SubscriptionParameter{ID: 2, Name: Frequency, Value: "M"}, sub.Parameters[1])

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, sub,
		`[{"op":"remove","path":"/subscriptionsParameter/1"}]`))
	assert.Equal(t, -1, sub.Parameter(1))
	assert.Len(t, sub.Parameters, 2)
}

func TestRejects(t *testing.T) {
	env := patchtest.NewEnv(t)
	sub := env.Store.AddSubscription(&content.Subscription{
		Type:       "content",
		Parameters: []content.SubscriptionParameter{{ID: 1, Name: Frequency, Value: "D"}},
	})

	cases := []struct {
		body   string
		status int
	}{
		{`[{"op":"add","path":"/subscriptionsParameter","value":{"name":"frequency","value":"hourly"}}]`, http.StatusUnprocessableEntity},
		{`[{"op":"add","path":"/subscriptionsParameter","value":{"name":"colour","value":"D"}}]`, http.StatusUnprocessableEntity},
		{`[{"op":"add","path":"/subscriptionsParameter","value":"D"}]`, http.StatusBadRequest},
		{`[{"op":"replace","path":"/subscriptionsParameter/9","value":{"name":"frequency","value":"D"}}]`, http.StatusUnprocessableEntity},
		{`[{"op":"remove","path":"/subscriptionsParameter/9"}]`, http.StatusUnprocessableEntity},
		{`[{"op":"remove","path":"/subscriptionsParameter/one"}]`, http.StatusUnprocessableEntity},
		{`[{"op":"replace","path":"/type","value":"statistics"}]`, http.StatusBadRequest},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, patchtest.Status(t, env, Resource, sub, c.body), c.body)
	}
	assert.Equal(t, []content.SubscriptionParameter{{ID: 1, Name: Frequency, Value: "D"}}, sub.Parameters)
}
