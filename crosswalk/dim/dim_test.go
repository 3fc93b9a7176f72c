package dim

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/crosswalktest"
)

func TestDisseminateElement(t *testing.T) {
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)

	root, err := New(env).DisseminateElement(context.Background(), sample.Item)
	if err != nil {
		t.Fatalf("DisseminateElement: %v", err)
	}
	if got := root.SelectAttrValue("dspaceType", ""); got != "ITEM" {
		t.Errorf("dspaceType = %q", got)
	}

	fields := crosswalk.Children(root, NS, "field")
	if len(fields) != len(sample.Item.AllMetadata()) {
		t.Fatalf("got %d fields, want %d", len(fields), len(sample.Item.AllMetadata()))
	}

	var author *etree.Element
	for _, f := range fields {
		if f.SelectAttrValue("element", "") == "contributor" && f.Text() == "Doe, Jane" {
			author = f
		}
	}
	if author == nil {
		t.Fatal("author field missing")
	}
	if author.SelectAttrValue("authority", "") != "rp-0001" || author.SelectAttrValue("confidence", "") != "ACCEPTED" {
		t.Errorf("author attrs = %v", author.Attr)
	}
	if author.SelectAttrValue("qualifier", "") != "author" {
		t.Errorf("qualifier = %q", author.SelectAttrValue("qualifier", ""))
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	sample := crosswalktest.SampleItem(t, env)
	cw := New(env)

	list, err := cw.DisseminateList(ctx, sample.Item)
	if err != nil {
		t.Fatal(err)
	}
	xml, err := crosswalk.SerializeString(list, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(xml, `xmlns:dim="http://www.dspace.org/xmlns/dspace/dim"`) {
		t.Errorf("list elements must declare the dim namespace:\n%s", xml)
	}

	target := env.Store.NewItem(sample.Collection, nil)
	if err := cw.IngestList(ctx, target, list, false); err != nil {
		t.Fatalf("IngestList: %v", err)
	}
	want := sample.Item.AllMetadata()
	got := target.AllMetadata()
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	item := env.Store.NewItem(nil, nil)

	root, err := crosswalk.ParseString(`<dim:dim xmlns:dim="http://www.dspace.org/xmlns/dspace/dim" dspaceType="ITEM">
  <dim:field mdschema="dc" element="title" lang="en">Ingested</dim:field>
  <dim:field mdschema="dc" element="contributor" qualifier="author" authority="a-1" confidence="400">Smith, A.</dim:field>
  <dim:field mdschema="dc" element="subject" authority="x" confidence="bogus">topic</dim:field>
  <dim:other>ignored</dim:other>
</dim:dim>`)
	if err != nil {
		t.Fatal(err)
	}
	if err := New(env).Ingest(ctx, item, root, false); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	title := item.Metadata("dc", "title", "", "en")
	if len(title) != 1 || title[0].Value != "Ingested" {
		t.Errorf("title = %+v", title)
	}
	author := item.Metadata("dc", "contributor", "author", content.Any)
	if len(author) != 1 || author[0].Confidence != content.ConfidenceAmbiguous || author[0].Authority != "a-1" {
		t.Errorf("author = %+v", author)
	}
	subject := item.Metadata("dc", "subject", "", content.Any)
	if len(subject) != 1 || subject[0].Confidence != content.ConfidenceUnset {
		t.Errorf("subject = %+v", subject)
	}
}

func TestIngestErrors(t *testing.T) {
	ctx := context.Background()
	env := crosswalktest.NewEnv(t)
	item := env.Store.NewItem(nil, nil)
	cw := New(env)

	cases := []struct {
		name string
		xml  string
	}{
		{"wrong root", `<foo/>`},
		{"unknown field", `<dim:dim xmlns:dim="http://www.dspace.org/xmlns/dspace/dim"><dim:field mdschema="dc" element="nope">x</dim:field></dim:dim>`},
		{"missing schema attr", `<dim:field xmlns:dim="http://www.dspace.org/xmlns/dspace/dim" element="title">x</dim:field>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root, err := crosswalk.ParseString(tc.xml)
			if err != nil {
				t.Fatal(err)
			}
			err = cw.Ingest(ctx, item, root, false)
			if !errors.Is(err, crosswalk.ErrMetadataValidation) {
				t.Errorf("err = %v, want ErrMetadataValidation", err)
			}
		})
	}

	root, _ := crosswalk.ParseString(`<dim:field xmlns:dim="http://www.dspace.org/xmlns/dspace/dim" mdschema="local" element="note">x</dim:field>`)
	if err := cw.Ingest(ctx, item, root, true); err != nil {
		t.Fatalf("createMissing ingest: %v", err)
	}
	if item.FirstValue("local.note") != "x" {
		t.Error("created field value missing")
	}
}
