package oaidc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/crosswalktest"
)

func TestDisseminate(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	sample.Item.AddValue("dc.description.sponsorship", "NSF")
	sample.Item.AddMetadata(content.MustField("dcterms.spatial"), "", "Bethlehem", "", content.ConfidenceUnset)

	cw, err := New(env)
	require.NoError(t, err)
	root, err := cw.DisseminateElement(ctx, sample.Item)
	require.NoError(t, err)

	assert.Equal(t, "oai_dc:dc", root.FullTag())
	assert.Equal(t, "http://www.openarchives.org/OAI/2.0/oai_dc/ http://www.openarchives.org/OAI/2.0/oai_dc.xsd",
		root.SelectAttrValue("xsi:schemaLocation", ""))

	counts := map[string]int{}
	texts := map[string][]string{}
	for _, e := range root.ChildElements() {
		assert.Equal(t, "dc", e.Space)
		counts[e.Tag]++
		texts[e.Tag] = append(texts[e.Tag], e.Text())
	}
	assert.Equal(t, 2, counts["title"], "title and title.alternative")
	assert.Equal(t, 2, counts["contributor"])
	assert.Equal(t, 2, counts["identifier"], "uri and doi")
	assert.Contains(t, texts["identifier"], "http://hdl.handle.net/"+sample.Item.Handle)
	assert.NotContains(t, texts["description"], "Submitted by Jane Doe")
	assert.Contains(t, texts["description"], "NSF")
	assert.Zero(t, counts["spatial"])

	_, err = cw.DisseminateElement(ctx, sample.PDF)
	assert.True(t, errors.Is(err, crosswalk.ErrObjectNotSupported))
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	cw, err := New(env)
	require.NoError(t, err)
	item := env.Store.NewItem(nil, nil)

	root, err := crosswalk.ParseString(`<oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"
    xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title xml:lang="de">Bodenkohlenstoff</dc:title>
  <dc:creator>Müller, K.</dc:creator>
  <dc:date>2001</dc:date>
  <other>skip</other>
</oai_dc:dc>`)
	require.NoError(t, err)
	require.NoError(t, cw.Ingest(ctx, item, root, false))

	title := item.Metadata("dc", "title", "", "de")
	require.Len(t, title, 1)
	assert.Equal(t, "Bodenkohlenstoff", title[0].Value)
	assert.Equal(t, "Müller, K.", item.FirstValue("dc.creator"))
	assert.Equal(t, "2001", item.FirstValue("dc.date"))
	assert.Len(t, item.AllMetadata(), 3)
}
