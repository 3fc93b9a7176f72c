package qdc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
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
	cw, err := New(env)
	require.NoError(t, err)

	list, err := cw.DisseminateList(ctx, sample.Item)
	require.NoError(t, err)

	var names []string
	for _, e := range list {
		names = append(names, e.FullTag())
	}
	assert.Contains(t, names, "dc:title")
	assert.Contains(t, names, "dcterms:issued")
	assert.Contains(t, names, "dcterms:alternative")
	assert.Contains(t, names, "dcterms:isPartOf")

	creators := 0
	for _, e := range list {
		if e.FullTag() == "dc:creator" {
			creators++
		}
		assert.NotEqual(t, "Submitted by Jane Doe", e.Text(), "provenance has no QDC mapping")
	}
	assert.Equal(t, 2, creators)
	assert.Equal(t, "en", crosswalk.Lang(list[0]))

	root, err := cw.DisseminateElement(ctx, sample.Item)
	require.NoError(t, err)
	assert.Equal(t, "qdc:qualifieddc", root.FullTag())
	assert.Contains(t, root.SelectAttrValue("xsi:schemaLocation", ""), "dcterms.xsd")
	assert.Len(t, root.ChildElements(), len(list))

	_, err = cw.DisseminateList(ctx, sample.Collection)
	assert.True(t, errors.Is(err, crosswalk.ErrObjectNotSupported))
	assert.False(t, cw.CanDisseminate(sample.Collection))
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	cw, err := New(env)
	require.NoError(t, err)
	item := env.Store.NewItem(nil, nil)

	root, err := crosswalk.ParseString(`<qdc:qualifieddc xmlns:qdc="http://epubs.cclrc.ac.uk/xmlns/qdc/"
    xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">
  <dc:title xml:lang="EN">Harvested record</dc:title>
  <dc:creator>Smith, Ann</dc:creator>
  <dcterms:issued>2019-11</dcterms:issued>
  <dc:identifier>http://hdl.handle.net/1/2</dc:identifier>
  <dcterms:abstract>Summary</dcterms:abstract>
  <dcterms:educationLevel>graduate</dcterms:educationLevel>
  <dc:subject>   </dc:subject>
</qdc:qualifieddc>`)
	require.NoError(t, err)
	require.NoError(t, cw.Ingest(ctx, item, root, false))

	title := item.Metadata("dc", "title", "", content.Any)
	require.Len(t, title, 1)
	assert.Equal(t, "Harvested record", title[0].Value)
	assert.Equal(t, "en", title[0].Language)
	assert.Equal(t, "Smith, Ann", item.FirstValue("dc.contributor.author"))
	assert.Equal(t, "2019-11", item.FirstValue("dc.date.issued"))
	assert.Equal(t, "http://hdl.handle.net/1/2", item.FirstValue("dc.identifier.uri"))
	assert.Equal(t, "Summary", item.FirstValue("dc.description.abstract"))
	assert.Empty(t, item.Metadata("dc", "subject", content.Any, content.Any))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	cw, err := New(env)
	require.NoError(t, err)

	root, err := cw.DisseminateElement(ctx, sample.Item)
	require.NoError(t, err)
	xml, err := crosswalk.SerializeString([]*etree.Element{root}, false)
	require.NoError(t, err)

	parsed, err := crosswalk.ParseString(xml)
	require.NoError(t, err)
	target := env.Store.NewItem(nil, nil)
	require.NoError(t, cw.Ingest(ctx, target, parsed, false))

	for _, field := range []string{"dc.title", "dc.title.alternative", "dc.date.issued", "dc.publisher", "dc.relation.ispartof", "dc.type"} {
		assert.Equal(t, sample.Item.FirstValue(field), target.FirstValue(field), field)
	}
	assert.Len(t, target.Metadata("dc", "contributor", "author", content.Any), 2)
	assert.True(t, strings.HasPrefix(target.FirstValue("dc.identifier.uri"), "http://hdl.handle.net/"))
}
