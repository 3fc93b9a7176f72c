// Package patchtest provides an environment and helpers for patch tests.
package patchtest

import (
	"testing"
	"time"

	"github.com/lehigh-university-libraries/dspace-crosswalk/config"
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
	"github.com/lehigh-university-libraries/dspace-crosswalk/schema"
)

// Now is the fixed clock of test stores.
var Now = time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

// NewEnv returns a patch environment over an empty store with the default
// configuration and field registry.
func NewEnv(t testing.TB) *patch.Env {
	t.Helper()
	fields, err := schema.NewDefaultRegistry()
	if err != nil {
		t.Fatalf("field registry: %v", err)
	}
	cfg := config.Default()
	store := content.NewStore(cfg.HandlePrefix, cfg.SiteName)
	store.Now = func() time.Time { return Now }
	return &patch.Env{Store: store, Fields: fields, Config: cfg}
}

// Decode decodes a JSON Patch document or fails the test.
func Decode(t testing.TB, body string) []patch.Operation {
	t.Helper()
	ops, err := patch.Decode([]byte(body))
	if err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return ops
}

// Status applies body to obj through the default registry and returns the
// resulting HTTP status.
func Status(t testing.TB, env *patch.Env, resource string, obj any, body string) int {
	t.Helper()
	err := patch.Apply(t.Context(), env, resource, obj, Decode(t, body))
	return patch.StatusOf(err)
}
