package content

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreHierarchy(t *testing.T) {
	s := NewStore("123456789", "Test Repository")
	top := s.NewCommunity(nil, "Top")
	sub := s.NewCommunity(top, "Sub")
	col := s.NewCollection(sub, "Theses")
	item := s.NewItem(col, nil)
	item.AddValue("dc.title", "A thesis")

	assert.Equal(t, "123456789/0", s.Site().Handle)
	assert.Equal(t, []*Community{top}, s.TopCommunities())
	assert.Equal(t, []*Community{top}, sub.Parents)
	assert.Equal(t, []*Community{sub}, col.Communities)

	got, ok := s.ByHandle("hdl:" + item.Handle)
	require.True(t, ok)
	assert.Same(t, item, got)

	got, ok = s.Find("https://hdl.handle.net/" + item.Handle)
	require.True(t, ok)
	assert.Same(t, item, got)

	found, ok := Lookup[*Item](s, item.ID())
	require.True(t, ok)
	assert.Equal(t, "A thesis", found.Name())

	_, ok = Lookup[*Collection](s, item.ID())
	assert.False(t, ok)

	assert.Equal(t, []*Item{item}, s.CollectionItems(col))
	assert.True(t, item.InArchive)
	assert.True(t, item.Discoverable)
}

func TestStoreBitstreams(t *testing.T) {
	s := NewStore("123456789", "Test")
	col := s.NewCollection(s.NewCommunity(nil, "c"), "col")
	item := s.NewItem(col, nil)
	orig := s.NewBundle(item, BundleOriginal)

	first, err := s.NewBitstream(orig, "paper.pdf", []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	second, err := s.NewBitstream(orig, "notes.txt", []byte("some notes"))
	require.NoError(t, err)

	assert.Equal(t, 1, first.SequenceID)
	assert.Equal(t, 2, second.SequenceID)
	assert.Equal(t, "Adobe PDF", first.Format.ShortDescription)
	assert.Equal(t, "Text", second.Format.ShortDescription)
	assert.Equal(t, "MD5", first.ChecksumAlgorithm)
	assert.Len(t, first.Checksum, 32)
	assert.Same(t, item, first.Item())

	s.DeleteBitstream(first)
	assert.True(t, first.Deleted)
	assert.Equal(t, []*Bitstream{second}, orig.Bitstreams)
	assert.Empty(t, first.Bundles)
}

func TestStorePolicies(t *testing.T) {
	s := NewStore("123456789", "Test")
	item := s.NewItem(nil, nil)
	read := s.AddPolicy(&ResourcePolicy{Object: item, Action: ActionRead, Group: s.Anonymous()})
	s.AddPolicy(&ResourcePolicy{ID: 40, Object: item, Action: ActionWrite, Group: s.Administrators()})
	next := s.AddPolicy(&ResourcePolicy{Object: item, Action: ActionAdmin, Group: s.Administrators()})

	assert.Equal(t, PolicyTypeCustom, read.PolicyType)
	assert.Equal(t, 41, next.ID)
	assert.Len(t, s.Policies(item), 3)

	n := s.RemovePolicies(item, func(p *ResourcePolicy) bool { return p.Action == ActionRead })
	assert.Equal(t, 1, n)
	assert.Len(t, s.Policies(item), 2)
}

func TestResourcePolicyDates(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse(DateLayout, s)
		require.NoError(t, err)
		return d
	}
	p := &ResourcePolicy{StartDate: day("2024-01-01"), EndDate: day("2024-12-31")}
	assert.True(t, p.IsActive(day("2024-06-01")))
	assert.False(t, p.IsActive(day("2025-01-01")))
	assert.True(t, p.ValidDateRange())

	p.StartDate = day("2025-01-01")
	assert.False(t, p.ValidDateRange())
}

func TestBundleMoveBitstream(t *testing.T) {
	s := NewStore("123456789", "Test")
	b := s.NewBundle(s.NewItem(nil, nil), BundleOriginal)
	var names []string
	for _, n := range []string{"a", "b", "c", "d"} {
		_, err := s.NewBitstream(b, n, []byte(n))
		require.NoError(t, err)
	}
	require.NoError(t, b.MoveBitstream(0, 2))
	for _, bs := range b.Bitstreams {
		names = append(names, bs.Name())
	}
	assert.Equal(t, "b,c,a,d", strings.Join(names, ","))
	assert.ErrorIs(t, b.MoveBitstream(0, 4), ErrIndexOutOfRange)
}

func TestEPersonPassword(t *testing.T) {
	s := NewStore("123456789", "Test")
	e := s.NewEPerson("Jane@Example.com")
	e.AddValue("eperson.firstname", "Jane")
	e.AddValue("eperson.lastname", "Doe")

	assert.Equal(t, "Jane Doe", e.Name())
	assert.False(t, e.CheckPassword("secret"))
	require.NoError(t, e.SetPassword("correct horse"))
	assert.True(t, e.CheckPassword("correct horse"))
	assert.False(t, e.CheckPassword("wrong"))

	found, ok := s.EPersonByEmail("jane@example.com")
	require.True(t, ok)
	assert.Same(t, e, found)
}
