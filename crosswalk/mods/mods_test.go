package mods

import (
	"context"
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/crosswalktest"
	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
)

func TestParsePath(t *testing.T) {
	cases := []struct {
		path    string
		want    []step
		wantErr bool
	}{
		{path: "abstract", want: []step{{name: "abstract"}}},
		{
			path: "titleInfo[@type=alternative]/title",
			want: []step{{name: "titleInfo", attrs: [][2]string{{"type", "alternative"}}}, {name: "title"}},
		},
		{
			path: "accessCondition[@type='use and reproduction']",
			want: []step{{name: "accessCondition", attrs: [][2]string{{"type", "use and reproduction"}}}},
		},
		{
			path: "languageTerm[@type=code][@authority=rfc3066]",
			want: []step{{name: "languageTerm", attrs: [][2]string{{"type", "code"}, {"authority", "rfc3066"}}}},
		},
		{path: "a//b", wantErr: true},
		{path: "a[type=x]", wantErr: true},
		{path: "a[@type]", wantErr: true},
		{path: "a[@type=x", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got, err := parsePath(tc.path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func findAll(root *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, e := range root.ChildElements() {
		if e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

func TestDisseminateItem(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	cw, err := New(env)
	require.NoError(t, err)

	root, err := cw.DisseminateElement(ctx, sample.Item)
	require.NoError(t, err)
	assert.Equal(t, "mods:mods", root.FullTag())
	assert.Equal(t, "3.7", root.SelectAttrValue("version", ""))
	assert.Contains(t, root.SelectAttrValue("xsi:schemaLocation", ""), "mods-3-7.xsd")

	names := findAll(root, "name")
	require.Len(t, names, 2)
	assert.Equal(t, "personal", names[0].SelectAttrValue("type", ""))
	assert.Equal(t, "rp-0001", names[0].SelectAttrValue("valueURI", ""))
	assert.Equal(t, "Doe, Jane", names[0].FindElement("namePart").Text())
	var terms []string
	for _, rt := range names[0].FindElements("role/roleTerm") {
		terms = append(terms, rt.SelectAttrValue("type", "")+":"+rt.Text())
	}
	assert.Equal(t, []string{"text:author", "code:aut"}, terms)
	assert.Empty(t, names[1].SelectAttrValue("valueURI", ""))

	titles := findAll(root, "titleInfo")
	require.Len(t, titles, 2)
	assert.Equal(t, "en", crosswalk.Lang(titles[0].FindElement("title")))
	assert.Equal(t, "alternative", titles[1].SelectAttrValue("type", ""))

	issued := root.FindElement("originInfo/dateIssued")
	require.NotNil(t, issued)
	assert.Equal(t, "2021-06-01", issued.Text())
	assert.Equal(t, "iso8601", issued.SelectAttrValue("encoding", ""))

	var doi string
	for _, id := range findAll(root, "identifier") {
		if id.SelectAttrValue("type", "") == "doi" {
			doi = id.Text()
		}
	}
	assert.Equal(t, "10.1234/abc.5678", doi)
	assert.Len(t, findAll(root, "subject"), 2)
	assert.Equal(t, "Article", root.FindElement("genre").Text())
	assert.Equal(t, "Journal of Buffers", root.FindElement("relatedItem[@type='host']/titleInfo/title").Text())
	assert.Equal(t, "use and reproduction", root.FindElement("accessCondition").SelectAttrValue("type", ""))
	assert.Len(t, findAll(root, "note"), 0, "provenance is excluded")

	list, err := cw.DisseminateList(ctx, sample.Item)
	require.NoError(t, err)
	assert.Len(t, list, len(root.ChildElements()))
}

func TestDisseminateFreeTextDate(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	cw, err := New(env)
	require.NoError(t, err)
	item := env.Store.NewItem(nil, nil)
	item.AddValue("dc.date.issued", "circa 1890")

	root, err := cw.DisseminateElement(ctx, item)
	require.NoError(t, err)
	issued := root.FindElement("originInfo/dateIssued")
	require.NotNil(t, issued)
	assert.Equal(t, "circa 1890", issued.Text())
	assert.Nil(t, issued.SelectAttr("encoding"))
}

func TestDisseminateContainers(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	sample.Collection.AddValue("dc.description.abstract", "Peer reviewed articles")
	sample.Collection.AddValue("dc.rights", "CC-BY")
	cw, err := New(env)
	require.NoError(t, err)

	root, err := cw.DisseminateElement(ctx, sample.Collection)
	require.NoError(t, err)
	var tags []string
	for _, e := range root.ChildElements() {
		tags = append(tags, e.Tag)
	}
	assert.Equal(t, []string{"titleInfo", "abstract"}, tags)

	site, err := cw.DisseminateElement(ctx, env.Store.Site())
	require.NoError(t, err)
	title := site.FindElement("titleInfo/title")
	require.NotNil(t, title)
	assert.Equal(t, env.Store.Site().SiteName, title.Text())

	_, err = cw.DisseminateElement(ctx, sample.PDF)
	assert.True(t, errors.Is(err, crosswalk.ErrObjectNotSupported))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	cw, err := New(env)
	require.NoError(t, err)

	root, err := cw.DisseminateElement(ctx, sample.Item)
	require.NoError(t, err)
	xml, err := crosswalk.SerializeString([]*etree.Element{root}, true)
	require.NoError(t, err)
	parsed, err := crosswalk.ParseString(xml)
	require.NoError(t, err)

	target := env.Store.NewItem(nil, nil)
	require.NoError(t, cw.Ingest(ctx, target, parsed, false))

	for _, field := range []string{
		"dc.title", "dc.title.alternative", "dc.date.issued", "dc.identifier.uri", "dc.identifier.doi",
		"dc.description.abstract", "dc.type", "dc.language.iso", "dc.publisher", "dc.relation.ispartof", "dc.rights",
	} {
		assert.Equal(t, sample.Item.FirstValue(field), target.FirstValue(field), field)
	}
	authors := target.Metadata("dc", "contributor", "author", content.Any)
	require.Len(t, authors, 2)
	assert.Equal(t, "Doe, Jane", authors[0].Value)
	assert.Equal(t, "rp-0001", authors[0].Authority)
	assert.Equal(t, content.ConfidenceAccepted, authors[0].Confidence)
	assert.Len(t, target.Metadata("dc", "subject", "", content.Any), 2)
	assert.Empty(t, target.Metadata("dc", "contributor", "", content.Any))
	assert.Empty(t, target.Metadata("dc", "description", "provenance", content.Any))
}

func TestIngestCollection(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	cw, err := New(env)
	require.NoError(t, err)
	item := env.Store.NewItem(nil, nil)

	root, err := crosswalk.ParseString(`<modsCollection xmlns="http://www.loc.gov/mods/v3">
  <mods>
    <titleInfo><title>First</title></titleInfo>
    <name type="personal">
      <namePart type="family">Curie</namePart>
      <namePart type="given">Marie</namePart>
      <namePart type="date">1867-1934</namePart>
      <role><roleTerm type="code" authority="marcrelator">aut</roleTerm></role>
    </name>
    <name><namePart>Lab Group</namePart></name>
    <name type="personal"><namePart>Pierre</namePart><role><roleTerm type="text">translator</roleTerm></role></name>
    <identifier type="isbn">978-3-16</identifier>
    <identifier type="local-thing">x-1</identifier>
    <subject authority="lcsh"><topic>Radioactivity</topic><geographic>Paris</geographic></subject>
    <physicalDescription><extent>12 p.</extent></physicalDescription>
    <unknownThing>z</unknownThing>
  </mods>
  <mods><titleInfo><title>Second</title></titleInfo></mods>
</modsCollection>`)
	require.NoError(t, err)
	require.NoError(t, cw.Ingest(ctx, item, root, false))

	got := map[string][]string{}
	for _, v := range item.AllMetadata() {
		got[v.Field.String()] = append(got[v.Field.String()], v.Value)
	}
	assert.Equal(t, map[string][]string{
		"dc.title":              {"First"},
		"dc.contributor.author": {"Curie, Marie"},
		"dc.contributor":        {"Lab Group"},
		"dc.identifier.isbn":    {"978-3-16"},
		"dc.identifier":         {"x-1"},
		"dc.subject.lcsh":       {"Radioactivity"},
		"dc.coverage.spatial":   {"Paris"},
		"dc.format.extent":      {"12 p."},
	}, got)
}

func TestIngestEmptyCollection(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	cw, err := New(env)
	require.NoError(t, err)
	root, err := crosswalk.ParseString(`<modsCollection xmlns="http://www.loc.gov/mods/v3"/>`)
	require.NoError(t, err)
	err = cw.Ingest(context.Background(), env.Store.NewItem(nil, nil), root, false)
	assert.True(t, errors.Is(err, crosswalk.ErrMetadataValidation))
}

func TestIngestTransforms(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	cw, err := New(env)
	require.NoError(t, err)
	item := env.Store.NewItem(nil, nil)

	root, err := crosswalk.ParseString(`<mods xmlns="http://www.loc.gov/mods/v3">
  <titleInfo><title>Radioactive substances.</title></titleInfo>
  <name type="personal"><namePart>Curie, Marie. </namePart><role><roleTerm type="code">aut</roleTerm></role></name>
  <physicalDescription><extent>12 p.</extent></physicalDescription>
</mods>`)
	require.NoError(t, err)
	require.NoError(t, cw.Ingest(ctx, item, root, false))

	assert.Equal(t, "Radioactive substances", item.FirstValue("dc.title"))
	assert.Equal(t, "Curie, Marie", item.FirstValue("dc.contributor.author"))
	assert.Equal(t, "12 p.", item.FirstValue("dc.format.extent"))
}

func TestNewRejectsUnknownTransform(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	p := &mapping.Profile{
		Name:   Name,
		Format: "mods",
		Fields: map[string]mapping.FieldMapping{
			"dc.title": {Element: "titleInfo/title", Transform: "shout"},
		},
	}
	_, err := NewWithProfile(env, p)
	assert.ErrorContains(t, err, "dc.title")
}
