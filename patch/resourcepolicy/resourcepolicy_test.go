package resourcepolicy

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch/patchtest"
)

func TestDates(t *testing.T) {
	env := patchtest.NewEnv(t)
	item := env.Store.NewItem(nil, nil)
	p := env.Store.AddPolicy(&content.ResourcePolicy{Object: item, Action: content.ActionRead, Group: env.Store.Anonymous()})

	cases := []struct {
		body   string
		status int
	}{
		{`[{"op":"replace","path":"/startDate","value":"2024-01-01"}]`, http.StatusBadRequest},
		{`[{"op":"remove","path":"/endDate"}]`, http.StatusBadRequest},
		{`[{"op":"add","path":"/startDate","value":"2024-01-01"}]`, http.StatusOK},
		{`[{"op":"add","path":"/startDate","value":"2024-02-01"}]`, http.StatusBadRequest},
		{`[{"op":"add","path":"/endDate","value":"2023-12-31"}]`, http.StatusUnprocessableEntity},
		{`[{"op":"add","path":"/endDate","value":"31/12/2024"}]`, http.StatusBadRequest},
		{`[{"op":"add","path":"/endDate","value":"2024-12-31"}]`, http.StatusOK},
		{`[{"op":"replace","path":"/startDate","value":"2025-01-01"}]`, http.StatusUnprocessableEntity},
		{`[{"op":"replace","path":"/startDate","value":"2024-06-01"}]`, http.StatusOK},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, patchtest.Status(t, env, Resource, p, c.body), c.body)
	}
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), p.StartDate)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), p.EndDate)

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, p, `[{"op":"remove","path":"/startDate"}]`))
	assert.True(t, p.StartDate.IsZero())
}

func TestNameAndDescription(t *testing.T) {
	env := patchtest.NewEnv(t)
	p := env.Store.AddPolicy(&content.ResourcePolicy{Object: env.Store.NewItem(nil, nil), Action: content.ActionRead})

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, p,
		`[{"op":"add","path":"/name","value":"embargo"},{"op":"add","path":"/description","value":"until publication"}]`))
	assert.Equal(t, "embargo", p.Name)
	assert.Equal(t, "until publication", p.Description)

	assert.Equal(t, http.StatusBadRequest, patchtest.Status(t, env, Resource, p, `[{"op":"add","path":"/name","value":"again"}]`))
	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, p, `[{"op":"replace","path":"/name","value":"lease"}]`))
	assert.Equal(t, "lease", p.Name)
	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, p, `[{"op":"remove","path":"/description"}]`))
	assert.Empty(t, p.Description)
	assert.Equal(t, http.StatusBadRequest, patchtest.Status(t, env, Resource, p, `[{"op":"remove","path":"/description"}]`))
	assert.Equal(t, http.StatusBadRequest, patchtest.Status(t, env, Resource, p, `[{"op":"replace","path":"/action","value":"WRITE"}]`))
}
