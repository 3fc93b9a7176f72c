package crosswalk_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/dspace-crosswalk/config"
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/crosswalktest"
)

func TestValidatorCheckMetadata(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	v := env.Validator()

	f, err := v.CheckMetadata("dc", "title", "", false)
	require.NoError(t, err)
	assert.Equal(t, "dc.title", f.Name())

	_, err = v.CheckMetadata("dc", "nonsense", "", false)
	assert.True(t, errors.Is(err, crosswalk.ErrMetadataValidation))

	_, err = v.CheckMetadata("madeup", "thing", "", false)
	assert.True(t, errors.Is(err, crosswalk.ErrMetadataValidation))

	f, err = v.CheckMetadata("madeup", "thing", "sub", true)
	require.NoError(t, err)
	assert.Equal(t, "madeup.thing.sub", f.Name())
	s, ok := env.Fields.Schema("madeup")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(s.Namespace, "urn:uuid:"))

	again, err := v.CheckMetadata("madeup", "thing", "sub", false)
	require.NoError(t, err)
	assert.Same(t, f, again)
}

func TestCheckMetadataPolicies(t *testing.T) {
	ctx := context.Background()
	unknown := content.NewField("dc", "unheardof", "")

	cases := []struct {
		policy  string
		create  bool
		wantOK  bool
		wantErr bool
	}{
		{config.MissingFieldFail, false, false, true},
		{config.MissingFieldFail, true, true, false},
		{config.MissingFieldIgnore, false, false, false},
		{config.MissingFieldAdd, false, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.policy, func(t *testing.T) {
			cfg := config.Default()
			cfg.MissingField = tc.policy
			env := crosswalktest.NewEnvWith(t, cfg)

			ok, err := crosswalk.CheckMetadata(ctx, env, unknown, tc.create)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantErr {
				assert.True(t, errors.Is(err, crosswalk.ErrMetadataValidation), "err = %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddChecked(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	item := env.Store.NewItem(nil, nil)

	require.NoError(t, crosswalk.AddField(ctx, env, item, "dc.title", "en", "A title", false))
	assert.Equal(t, "A title", item.FirstValue("dc.title"))

	err := crosswalk.AddField(ctx, env, item, "dc.bogus", "", "x", false)
	assert.True(t, errors.Is(err, crosswalk.ErrMetadataValidation))
	assert.Empty(t, item.FirstValue("dc.bogus"))
}

type fakeCrosswalk struct{}

func (fakeCrosswalk) Name() string        { return "fake" }
func (fakeCrosswalk) Description() string { return "test double" }

func TestRegistry(t *testing.T) {
	r := crosswalk.NewRegistry()
	r.Register("Fake", func(*crosswalk.Env) (crosswalk.Crosswalk, error) { return fakeCrosswalk{}, nil })

	cw, err := r.Build("FAKE", nil)
	require.NoError(t, err)
	assert.Equal(t, "fake", cw.Name())

	_, err = r.Disseminator("fake", nil)
	assert.ErrorContains(t, err, "does not support dissemination")
	_, err = r.Ingester("fake", nil)
	assert.Error(t, err)
	_, err = r.Build("missing", nil)
	assert.ErrorContains(t, err, "unknown crosswalk")

	assert.Equal(t, []string{"fake"}, r.List())

	infos, err := r.Describe(nil)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.False(t, infos[0].Disseminate)
}

func TestDOMHelpers(t *testing.T) {
	root, err := crosswalk.ParseString(`<r xmlns="urn:a" xmlns:b="urn:b"><x>1</x><b:y xml:lang="en"> two </b:y><x>3</x></r>`)
	require.NoError(t, err)

	a := crosswalk.Namespace{Prefix: "a", URI: "urn:a"}
	b := crosswalk.Namespace{Prefix: "b", URI: "urn:b"}
	assert.True(t, crosswalk.Is(root, a, "r"))
	assert.Len(t, crosswalk.Children(root, a, "x"), 2)
	assert.Equal(t, "two", crosswalk.ChildText(root, b, "y"))
	assert.Equal(t, "en", crosswalk.Lang(crosswalk.Child(root, b, "y")))
	assert.Nil(t, crosswalk.Child(root, b, "x"))

	_, err = crosswalk.ParseString("just text, no elements")
	assert.True(t, errors.Is(err, crosswalk.ErrMetadataValidation))
}

func TestNormalizeLang(t *testing.T) {
	cases := map[string]string{
		"":       "",
		"en":     "en",
		"EN_us":  "en-US",
		"pt-br":  "pt-BR",
		"*":      "*",
		"not a!": "not a!",
	}
	for in, want := range cases {
		assert.Equal(t, want, crosswalk.NormalizeLang(in), "input %q", in)
	}
}

func TestSerialize(t *testing.T) {
	e := crosswalk.NewElement(crosswalk.DC, "title")
	crosswalk.Declare(e, crosswalk.DC)
	crosswalk.SetLang(e, "en")
	e.SetText("Hello & goodbye")

	var buf bytes.Buffer
	require.NoError(t, crosswalk.Serialize(&buf, []*etree.Element{e}, false))
	assert.Equal(t, `<dc:title xmlns:dc="http://purl.org/dc/elements/1.1/" xml:lang="en">Hello &amp; goodbye</dc:title>`+"\n", buf.String())

	parent := crosswalk.NewElement(crosswalk.DC, "wrapper")
	crosswalk.Declare(parent, crosswalk.DC)
	crosswalk.AddText(parent, crosswalk.DC, "creator", "Doe")
	out, err := crosswalk.SerializeString([]*etree.Element{parent}, true)
	require.NoError(t, err)
	assert.Contains(t, out, "\n  <dc:creator>Doe</dc:creator>")
}
