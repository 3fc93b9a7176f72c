package aiptechmd

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
)

// fields returns "element[.qualifier]" -> values of a dim:dim root.
func fields(root *etree.Element) map[string][]string {
	out := map[string][]string{}
	for _, f := range root.ChildElements() {
		name := f.SelectAttrValue("element", "")
		if q := f.SelectAttrValue("qualifier", ""); q != "" {
			name += "." + q
		}
		out[name] = append(out[name], f.Text())
	}
	return out
}

func TestDisseminateItem(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	other := env.Store.NewCollection(sample.Community, "Datasets")
	sample.Item.AddToCollection(other)
	sample.Item.Withdraw(nil, crosswalktest.Now)

	root, err := New(env).DisseminateElement(context.Background(), sample.Item)
	require.NoError(t, err)
	assert.Equal(t, "dim", root.Tag)
	assert.Equal(t, "ITEM", root.SelectAttrValue("dspaceType", ""))

	got := fields(root)
	assert.Equal(t, []string{"jdoe@example.edu"}, got["creator"])
	assert.Equal(t, []string{"hdl:" + sample.Item.Handle}, got["identifier.uri"])
	assert.Equal(t, []string{"hdl:" + sample.Collection.Handle}, got["relation.isPartOf"])
	assert.Equal(t, []string{"hdl:" + other.Handle}, got["relation.isReferencedBy"])
	assert.Equal(t, []string{Withdrawn}, got["rights.accessRights"])
	assert.NotContains(t, got, "title", "descriptive metadata is not technical")
}

func TestDisseminateBitstream(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)

	root, err := New(env).DisseminateElement(context.Background(), sample.PDF)
	require.NoError(t, err)
	got := fields(root)
	assert.Equal(t, []string{"article.pdf"}, got["title"])
	assert.Equal(t, []string{"Author manuscript"}, got["description"])
	assert.Equal(t, []string{"Adobe PDF"}, got["format.medium"])
	assert.Equal(t, []string{"application/pdf"}, got["format.mimetype"])
	assert.Equal(t, []string{"KNOWN"}, got["format.supportlevel"])
	assert.Equal(t, []string{"false"}, got["format.internal"])
}

func TestDisseminateContainers(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	sub := env.Store.NewCommunity(sample.Community, "Hydrology")
	cw := New(env)
	ctx := context.Background()

	root, err := cw.DisseminateElement(ctx, sample.Community)
	require.NoError(t, err)
	assert.Equal(t, []string{"hdl:" + env.Store.Site().Handle}, fields(root)["relation.isPartOf"])

	root, err = cw.DisseminateElement(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"hdl:" + sample.Community.Handle}, fields(root)["relation.isPartOf"])

	root, err = cw.DisseminateElement(ctx, sample.Collection)
	require.NoError(t, err)
	got := fields(root)
	assert.Equal(t, []string{"hdl:" + sample.Collection.Handle}, got["identifier.uri"])
	assert.Equal(t, []string{"hdl:" + sample.Community.Handle}, got["relation.isPartOf"])

	root, err = cw.DisseminateElement(ctx, env.Store.Site())
	require.NoError(t, err)
	got = fields(root)
	assert.Contains(t, got["identifier.uri"], "hdl:"+env.Store.Site().Handle)
	assert.Equal(t, []string{"hdl:" + sample.Community.Handle}, got["relation.hasPart"])
}

func TestDisseminateList(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)

	elems, err := New(env).DisseminateList(context.Background(), sample.Item)
	require.NoError(t, err)
	require.NotEmpty(t, elems)
	for _, e := range elems {
		assert.Equal(t, "field", e.Tag)
	}
}

func TestRoundTripItem(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	other := env.Store.NewCollection(sample.Community, "Datasets")
	sample.Item.AddToCollection(other)
	sample.Item.Withdraw(nil, crosswalktest.Now)
	cw := New(env)

	root, err := cw.DisseminateElement(ctx, sample.Item)
	require.NoError(t, err)

	target := env.Store.NewItem(sample.Collection, nil)
	require.NoError(t, cw.Ingest(ctx, target, root, false))
	assert.Same(t, sample.Submitter, target.Submitter)
	assert.True(t, target.Withdrawn)
	assert.True(t, target.InCollection(other))
}

func TestIngestSubmitter(t *testing.T) {
	ctx := context.Background()
	doc := `<dim:dim xmlns:dim="http://www.dspace.org/xmlns/dspace/dim">
  <dim:field mdschema="dc" element="creator">new@example.edu</dim:field>
  <dim:field mdschema="local" element="note">skipped</dim:field>
</dim:dim>`

	env := crosswalktest.NewEnv(t)
	item := env.Store.NewItem(nil, nil)
	root, err := crosswalk.ParseString(doc)
	require.NoError(t, err)
	require.NoError(t, New(env).Ingest(ctx, item, root, false))
	assert.Nil(t, item.Submitter)
	_, found := env.Store.EPersonByEmail("new@example.edu")
	assert.False(t, found)

	env.Config.CreateSubmitter = true
	require.NoError(t, New(env).Ingest(ctx, item, root, false))
	require.NotNil(t, item.Submitter)
	assert.Equal(t, "new@example.edu", item.Submitter.Email)
	assert.False(t, item.Submitter.CanLogIn)
}

func TestIngestBitstream(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	bs, err := env.Store.NewBitstream(sample.Original, "upload.bin", []byte{0x01, 0x02})
	require.NoError(t, err)

	doc := `<dim:dim xmlns:dim="http://www.dspace.org/xmlns/dspace/dim">
  <dim:field mdschema="dc" element="title">scan.fits</dim:field>
  <dim:field mdschema="dc" element="title" qualifier="alternative">/scans/scan.fits</dim:field>
  <dim:field mdschema="dc" element="description">Telescope frame</dim:field>
  <dim:field mdschema="dc" element="format" qualifier="medium">FITS</dim:field>
  <dim:field mdschema="dc" element="format" qualifier="mimetype">image/fits</dim:field>
  <dim:field mdschema="dc" element="format" qualifier="supportlevel">SUPPORTED</dim:field>
  <dim:field mdschema="dc" element="format" qualifier="internal">false</dim:field>
</dim:dim>`
	root, err := crosswalk.ParseString(doc)
	require.NoError(t, err)
	require.NoError(t, New(env).Ingest(ctx, bs, root, false))

	assert.Equal(t, "scan.fits", bs.Name())
	assert.Equal(t, "/scans/scan.fits", bs.Source())
	assert.Equal(t, "Telescope frame", bs.Description())
	require.NotNil(t, bs.Format)
	assert.Equal(t, "FITS", bs.Format.ShortDescription)
	assert.Equal(t, content.SupportSupported, bs.Format.SupportLevel)
	assert.Same(t, bs.Format, env.Store.Formats.ByShortDescription("FITS"))

	// a known format is reused
	pdfDoc := `<dim:dim xmlns:dim="http://www.dspace.org/xmlns/dspace/dim"><dim:field mdschema="dc" element="format" qualifier="medium">Adobe PDF</dim:field></dim:dim>`
	root, err = crosswalk.ParseString(pdfDoc)
	require.NoError(t, err)
	require.NoError(t, New(env).Ingest(ctx, bs, root, false))
	assert.Equal(t, "application/pdf", bs.Format.MIMEType)
}

func TestIngestRejects(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	cw := New(env)

	for name, doc := range map[string]string{
		"support level": `<dim:dim xmlns:dim="http://www.dspace.org/xmlns/dspace/dim"><dim:field mdschema="dc" element="format" qualifier="supportlevel">PERFECT</dim:field></dim:dim>`,
		"stray element": `<dim:dim xmlns:dim="http://www.dspace.org/xmlns/dspace/dim"><title>x</title></dim:dim>`,
		"root":          `<mods xmlns="http://www.loc.gov/mods/v3"/>`,
	} {
		root, err := crosswalk.ParseString(doc)
		require.NoError(t, err, name)
		err = cw.Ingest(ctx, sample.PDF, root, false)
		assert.True(t, errors.Is(err, crosswalk.ErrMetadataValidation), name)
	}

	root, err := crosswalk.ParseString(`<dim:dim xmlns:dim="http://www.dspace.org/xmlns/dspace/dim"/>`)
	require.NoError(t, err)
	err = cw.Ingest(ctx, sample.Original, root, false)
	assert.True(t, errors.Is(err, crosswalk.ErrObjectNotSupported))
}
