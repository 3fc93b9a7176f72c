package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(o *DSpaceObject, field string) []string {
	var out []string
	for _, v := range o.Values(MustField(field)) {
		out = append(out, v.Value)
	}
	return out
}

func subjects(o *DSpaceObject) *DSpaceObject {
	for _, s := range []string{"0", "1", "2", "3", "4"} {
		o.AddValue("dc.subject", s)
	}
	return o
}

func TestParseField(t *testing.T) {
	cases := []struct {
		in      string
		want    MetadataField
		wantErr bool
	}{
		{in: "dc.title", want: MetadataField{Schema: "dc", Element: "title"}},
		{in: "dc.title.alternative", want: MetadataField{Schema: "dc", Element: "title", Qualifier: "alternative"}},
		{in: "dc", wantErr: true},
		{in: "dc.title.", wantErr: true},
		{in: ".title", wantErr: true},
		{in: "a.b.c.d", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseField(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.in, got.String())
	}
}

func TestMetadataWildcards(t *testing.T) {
	o := &DSpaceObject{}
	o.AddValue("dc.title", "Title")
	o.AddMetadata(MustField("dc.title.alternative"), "en", "Alt", "", ConfidenceUnset)
	o.AddValue("dc.contributor.author", "Smith, J.")

	assert.Len(t, o.Metadata("dc", "title", "", Any), 1)
	assert.Len(t, o.Metadata("dc", "title", Any, Any), 2)
	assert.Len(t, o.Metadata(Any, Any, Any, Any), 3)
	assert.Len(t, o.Metadata("dc", "title", "alternative", ""), 0)
	assert.Len(t, o.Metadata("dc", "title", "alternative", "en"), 1)
	assert.Equal(t, "Title", o.FirstValue("dc.title"))
	assert.Equal(t, "", o.FirstValue("dc.date.issued"))
}

func TestInsertMetadataShiftsRight(t *testing.T) {
	o := subjects(&DSpaceObject{})
	f := MustField("dc.subject")

	require.NoError(t, o.InsertMetadata(MetadataValue{Field: f, Value: "new"}, 1))
	assert.Equal(t, []string{"0", "new", "1", "2", "3", "4"}, values(o, "dc.subject"))

	require.NoError(t, o.InsertMetadata(MetadataValue{Field: f, Value: "last"}, 6))
	assert.Equal(t, "last", values(o, "dc.subject")[6])

	err := o.InsertMetadata(MetadataValue{Field: f, Value: "x"}, 9)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	for i, v := range o.Values(f) {
		assert.Equal(t, i, v.Place)
	}
}

func TestMoveMetadata(t *testing.T) {
	cases := []struct {
		from, to int
		want     []string
	}{
		{from: 1, to: 0, want: []string{"1", "0", "2", "3", "4"}},
		{from: 1, to: 3, want: []string{"0", "2", "3", "1", "4"}},
		{from: 4, to: 1, want: []string{"0", "4", "1", "2", "3"}},
		{from: 2, to: 2, want: []string{"0", "1", "2", "3", "4"}},
	}
	for _, tc := range cases {
		o := subjects(&DSpaceObject{})
		require.NoError(t, o.MoveMetadata(MustField("dc.subject"), tc.from, tc.to))
		assert.Equal(t, tc.want, values(o, "dc.subject"), "move %d -> %d", tc.from, tc.to)
	}

	o := subjects(&DSpaceObject{})
	assert.ErrorIs(t, o.MoveMetadata(MustField("dc.subject"), 5, 0), ErrIndexOutOfRange)
	assert.ErrorIs(t, o.MoveMetadata(MustField("dc.subject"), 0, 5), ErrIndexOutOfRange)
}

func TestRemoveAndReplaceMetadata(t *testing.T) {
	o := subjects(&DSpaceObject{})
	o.AddValue("dc.title", "Title")
	f := MustField("dc.subject")

	removed, err := o.RemoveMetadataAt(f, 2)
	require.NoError(t, err)
	assert.Equal(t, "2", removed.Value)
	assert.Equal(t, []string{"0", "1", "3", "4"}, values(o, "dc.subject"))

	_, err = o.RemoveMetadataAt(f, 4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	require.NoError(t, o.ReplaceMetadataAt(f, 0, MetadataValue{Value: "zero", Language: "en"}))
	v, err := o.MetadataAt(f, 0)
	require.NoError(t, err)
	assert.Equal(t, "zero", v.Value)
	assert.Equal(t, "en", v.Language)
	assert.Equal(t, 0, v.Place)
	assert.Equal(t, f, v.Field)

	assert.Equal(t, 4, o.ClearField(f))
	assert.Empty(t, o.Values(f))
	assert.Equal(t, "Title", o.FirstValue("dc.title"))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, "ACCEPTED", ConfidenceName(ConfidenceAccepted))
	assert.Equal(t, ConfidenceUncertain, ParseConfidence("uncertain"))
	assert.Equal(t, 500, ParseConfidence("500"))
	assert.Equal(t, ConfidenceUnset, ParseConfidence("bogus"))
}
