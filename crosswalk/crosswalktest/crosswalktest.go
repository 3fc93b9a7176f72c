// Package crosswalktest provides an environment and sample objects for
// crosswalk tests.
package crosswalktest

import (
	"testing"
	"time"

	"github.com/lehigh-university-libraries/dspace-crosswalk/config"
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
	"github.com/lehigh-university-libraries/dspace-crosswalk/schema"
)

// Now is the fixed clock of test stores.
var Now = time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

// NewEnv returns an environment over an empty store with handle prefix
// 123456789 and the default configuration.
func NewEnv(t testing.TB) *crosswalk.Env {
	t.Helper()
	return NewEnvWith(t, config.Default())
}

// NewEnvWith is NewEnv with a custom configuration.
func NewEnvWith(t testing.TB, cfg *config.Config) *crosswalk.Env {
	t.Helper()
	fields, err := schema.NewDefaultRegistry()
	if err != nil {
		t.Fatalf("field registry: %v", err)
	}
	profiles, err := mapping.NewProfileRegistry()
	if err != nil {
		t.Fatalf("mapping profiles: %v", err)
	}
	store := content.NewStore(cfg.HandlePrefix, cfg.SiteName)
	store.Now = func() time.Time { return Now }
	return crosswalk.NewEnv(store, fields, cfg, profiles)
}

// Sample holds the objects SampleItem creates.
type Sample struct {
	Community  *content.Community
	Collection *content.Collection
	Submitter  *content.EPerson
	Item       *content.Item
	Original   *content.Bundle
	PDF        *content.Bitstream
	License    *content.Bitstream
}

// SampleItem creates a community, a collection and an archived article
// with two authors, an ORIGINAL bundle holding a PDF and a LICENSE bundle.
func SampleItem(t testing.TB, env *crosswalk.Env) *Sample {
	t.Helper()
	s := env.Store
	out := &Sample{}
	out.Community = s.NewCommunity(nil, "Faculty Research")
	out.Collection = s.NewCollection(out.Community, "Articles")
	out.Submitter = s.NewEPerson("jdoe@example.edu")
	out.Submitter.AddValue("eperson.firstname", "Jane")
	out.Submitter.AddValue("eperson.lastname", "Doe")

	item := s.NewItem(out.Collection, out.Submitter)
	item.AddMetadata(content.MustField("dc.title"), "en", "Soil carbon in riparian buffers", "", content.ConfidenceUnset)
	item.AddValue("dc.title.alternative", "Riparian soil carbon")
	item.AddMetadata(content.MustField("dc.contributor.author"), "", "Doe, Jane", "rp-0001", content.ConfidenceAccepted)
	item.AddValue("dc.contributor.author", "Roe, Richard")
	item.AddValue("dc.date.issued", "2021-06-01")
	item.AddValue("dc.identifier.uri", "http://hdl.handle.net/"+item.Handle)
	item.AddValue("dc.identifier.doi", "10.1234/abc.5678")
	item.AddMetadata(content.MustField("dc.description.abstract"), "en", "We measure <b>carbon</b> storage.", "", content.ConfidenceUnset)
	item.AddValue("dc.description.provenance", "Submitted by Jane Doe")
	item.AddValue("dc.subject", "soil")
	item.AddValue("dc.subject", "carbon")
	item.AddValue("dc.type", "Article")
	item.AddValue("dc.language.iso", "en")
	item.AddValue("dc.publisher", "Example University Press")
	item.AddValue("dc.relation.ispartof", "Journal of Buffers")
	item.AddValue("dc.rights", "In Copyright")
	item.LastModified = Now
	out.Item = item

	out.Original = s.NewBundle(item, content.BundleOriginal)
	pdf, err := s.NewBitstream(out.Original, "article.pdf", []byte("%PDF-1.4\n%test\n"))
	if err != nil {
		t.Fatalf("bitstream: %v", err)
	}
	pdf.AddValue("dc.description", "Author manuscript")
	out.PDF = pdf
	out.Original.Primary = pdf

	license := s.NewBundle(item, content.BundleLicense)
	lic, err := s.NewBitstream(license, "license.txt", []byte("You grant the repository a non-exclusive license."))
	if err != nil {
		t.Fatalf("license bitstream: %v", err)
	}
	lic.Format = s.Formats.ByShortDescription(content.FormatLicense)
	out.License = lic

	s.AddPolicy(&content.ResourcePolicy{Object: item, Action: content.ActionRead, Group: s.Anonymous()})
	return out
}
