package xoai

import (
	"context"
	"errors"
	"strconv"
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

	root, err := New(env).DisseminateElement(context.Background(), sample.Item)
	require.NoError(t, err)
	assert.Equal(t, "metadata", root.Tag)
	assert.Equal(t, NS.URI, root.SelectAttrValue("xmlns", ""))

	title := root.FindElement("element[@name='dc']/element[@name='title']/element[@name='none']/element[@name='en']/field[@name='value']")
	require.NotNil(t, title)
	assert.Equal(t, "Soil carbon in riparian buffers", title.Text())

	authors := root.FindElement("element[@name='dc']/element[@name='contributor']/element[@name='author']/element[@name='none']")
	require.NotNil(t, authors)
	values := authors.FindElements("field[@name='value']")
	require.Len(t, values, 2)
	assert.Equal(t, "Doe, Jane", values[0].Text())
	assert.Equal(t, "Roe, Richard", values[1].Text())
	assert.Equal(t, "rp-0001", authors.FindElement("field[@name='authority']").Text())
	assert.Equal(t, strconv.Itoa(content.ConfidenceAccepted), authors.FindElement("field[@name='confidence']").Text())

	subjects := root.FindElements("element[@name='dc']/element[@name='subject']/element[@name='none']/element[@name='none']/field[@name='value']")
	assert.Len(t, subjects, 2, "repeated values share one branch")

	bundles := root.FindElements("element[@name='bundles']/element[@name='bundle']")
	require.Len(t, bundles, 2)
	assert.Equal(t, content.BundleOriginal, bundles[0].FindElement("field[@name='name']").Text())
	bs := bundles[0].FindElement("element[@name='bitstreams']/element[@name='bitstream']")
	require.NotNil(t, bs)
	assert.Equal(t, "article.pdf", bs.FindElement("field[@name='name']").Text())
	assert.Equal(t, "Author manuscript", bs.FindElement("field[@name='description']").Text())
	assert.Equal(t, "application/pdf", bs.FindElement("field[@name='format']").Text())
	assert.Equal(t, sample.PDF.Checksum, bs.FindElement("field[@name='checksum']").Text())
	assert.Equal(t, env.Config.BitstreamURL(sample.PDF.ID().String()), bs.FindElement("field[@name='url']").Text())
	assert.Equal(t, "1", bs.FindElement("field[@name='sid']").Text())

	others := root.FindElement("element[@name='others']")
	require.NotNil(t, others)
	assert.Equal(t, sample.Item.Handle, others.FindElement("field[@name='handle']").Text())
	assert.Equal(t, "oai:localhost:"+sample.Item.Handle, others.FindElement("field[@name='identifier']").Text())
	assert.Equal(t, "2024-03-14T15:09:26Z", others.FindElement("field[@name='lastModifyDate']").Text())

	repo := root.FindElement("element[@name='repository']")
	require.NotNil(t, repo)
	assert.Equal(t, env.Store.Site().SiteName, repo.FindElement("field[@name='name']").Text())
	assert.Equal(t, env.Config.AdminEmail, repo.FindElement("field[@name='mail']").Text())
}

func TestDisseminateList(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)

	elems, err := New(env).DisseminateList(context.Background(), sample.Item)
	require.NoError(t, err)
	require.NotEmpty(t, elems)
	for _, e := range elems {
		assert.Nil(t, e.Parent())
		assert.Equal(t, NS.URI, e.SelectAttrValue("xmlns", ""))
	}
	assert.Equal(t, "repository", elems[len(elems)-1].SelectAttrValue("name", ""))
}

func TestNotSupported(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	cw := New(env)
	col := env.Store.NewCollection(nil, "Articles")
	assert.False(t, cw.CanDisseminate(col))
	_, err := cw.DisseminateElement(context.Background(), col)
	assert.True(t, errors.Is(err, crosswalk.ErrObjectNotSupported))
}
