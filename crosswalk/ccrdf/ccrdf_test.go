package ccrdf

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

const byNC = `<rdf:RDF xmlns="http://creativecommons.org/ns#" xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <Work rdf:about=""><license rdf:resource="http://creativecommons.org/licenses/by-nc/4.0/"/></Work>
  <License rdf:about="http://creativecommons.org/licenses/by-nc/4.0/">
    <permits rdf:resource="http://creativecommons.org/ns#Reproduction"/>
  </License>
</rdf:RDF>`

const zeroWithTitle = `<rdf:RDF xmlns:cc="http://web.resource.org/cc/" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <cc:License rdf:about="http://creativecommons.org/publicdomain/zero/1.0/">
    <dc:title>CC0 1.0 Universal</dc:title>
  </cc:License>
</rdf:RDF>`

func TestIngestAndDisseminate(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	cw := New(env)
	item := env.Store.NewItem(nil, nil)
	assert.False(t, cw.CanDisseminate(item))

	require.NoError(t, cw.Ingest(ctx, item, strings.NewReader(byNC), cw.IngestMIMEType()))
	assert.Equal(t, "http://creativecommons.org/licenses/by-nc/4.0/", item.FirstValue("dc.rights.uri"))
	assert.Equal(t, "CC BY-NC 4.0", item.FirstValue("dc.rights"))

	require.True(t, cw.CanDisseminate(item))
	assert.Equal(t, "text/xml", cw.MIMEType(item))
	var buf bytes.Buffer
	require.NoError(t, cw.Disseminate(ctx, item, &buf))
	assert.Equal(t, byNC, buf.String())

	// a second license replaces the first
	require.NoError(t, cw.Ingest(ctx, item, strings.NewReader(zeroWithTitle), cw.IngestMIMEType()))
	assert.Equal(t, "CC0 1.0 Universal", item.FirstValue("dc.rights"))
	assert.Len(t, item.Values(content.MustField("dc.rights.uri")), 1)
	bundles := item.BundlesNamed(content.BundleCCLicense)
	require.Len(t, bundles, 1)
	assert.Len(t, bundles[0].Bitstreams, 1)

	buf.Reset()
	require.NoError(t, cw.Disseminate(ctx, item, &buf))
	assert.Equal(t, zeroWithTitle, buf.String())
}

func TestIngestRejects(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	cw := New(env)

	for _, doc := range []string{
		"not xml",
		`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/>`,
	} {
		item := env.Store.NewItem(nil, nil)
		err := cw.Ingest(context.Background(), item, strings.NewReader(doc), "text/xml")
		assert.True(t, errors.Is(err, crosswalk.ErrMetadataValidation), doc)
		assert.Empty(t, item.BundlesNamed(content.BundleCCLicense))
	}
}

func TestDisseminateWithoutRDF(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	err := New(env).Disseminate(context.Background(), sample.Item, &bytes.Buffer{})
	assert.True(t, errors.Is(err, crosswalk.ErrObjectNotSupported))
}
