package license

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/crosswalktest"
)

func TestDisseminate(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	cw := New(env)

	require.True(t, cw.CanDisseminate(sample.Item))
	assert.Equal(t, "text/plain; charset=utf-8", cw.MIMEType(sample.Item))

	var buf bytes.Buffer
	require.NoError(t, cw.Disseminate(context.Background(), sample.Item, &buf))
	assert.Equal(t, "You grant the repository a non-exclusive license.", buf.String())
}

func TestDisseminateWithoutLicense(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	cw := New(env)
	item := env.Store.NewItem(nil, nil)

	assert.False(t, cw.CanDisseminate(item))
	err := cw.Disseminate(context.Background(), item, &bytes.Buffer{})
	assert.True(t, errors.Is(err, crosswalk.ErrObjectNotSupported))
}

func TestIngest(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	cw := New(env)
	item := env.Store.NewItem(nil, nil)

	require.NoError(t, cw.Ingest(context.Background(), item, strings.NewReader("Deposit terms."), cw.IngestMIMEType()))
	bundles := item.BundlesNamed(content.BundleLicense)
	require.Len(t, bundles, 1)
	bs := bundles[0].BitstreamNamed(BitstreamName)
	require.NotNil(t, bs)
	assert.Equal(t, content.FormatLicense, bs.Format.ShortDescription)
	assert.Equal(t, "Deposit terms.", string(bs.Content()))

	var buf bytes.Buffer
	require.NoError(t, cw.Disseminate(context.Background(), item, &buf))
	assert.Equal(t, "Deposit terms.", buf.String())
}
