package item

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lehigh-university-libraries/dspace-crosswalk/patch/patchtest"
)

func TestWithdrawn(t *testing.T) {
	env := patchtest.NewEnv(t)
	item := env.Store.NewItem(nil, nil)

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, item,
		`[{"op":"replace","path":"/withdrawn","value":true}]`))
	assert.True(t, item.Withdrawn)
	assert.False(t, item.InArchive)
	assert.Contains(t, item.FirstValue("dc.description.provenance"), "Item withdrawn by")

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, item,
		`[{"op":"replace","path":"/withdrawn","value":true}]`), "withdrawing twice is a no-op")

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, item,
		`[{"op":"replace","path":"/withdrawn","value":"false"}]`))
	assert.False(t, item.Withdrawn)
	assert.True(t, item.InArchive)

	assert.Equal(t, http.StatusBadRequest, patchtest.Status(t, env, Resource, item,
		`[{"op":"replace","path":"/withdrawn","value":null}]`))
}

func TestWithdrawUnarchived(t *testing.T) {
	env := patchtest.NewEnv(t)
	item := env.Store.NewItem(nil, nil)
	item.InArchive = false

	assert.Equal(t, http.StatusUnprocessableEntity, patchtest.Status(t, env, Resource, item,
		`[{"op":"replace","path":"/withdrawn","value":true}]`))
	assert.False(t, item.Withdrawn)
}

func TestDiscoverable(t *testing.T) {
	env := patchtest.NewEnv(t)
	item := env.Store.NewItem(nil, nil)

	assert.Equal(t, http.StatusOK, patchtest.Status(t, env, Resource, item,
		`[{"op":"replace","path":"/discoverable","value":false}]`))
	assert.False(t, item.Discoverable)

	col := env.Store.NewCollection(nil, "Theses")
	template := env.Store.NewTemplateItem(col)
	assert.Equal(t, http.StatusUnprocessableEntity, patchtest.Status(t, env, Resource, template,
		`[{"op":"replace","path":"/discoverable","value":true}]`))
	assert.Equal(t, http.StatusBadRequest, patchtest.Status(t, env, Resource, item,
		`[{"op":"add","path":"/discoverable","value":true}]`))
}
