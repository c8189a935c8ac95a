package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		input string
		want  Field
	}{
		{"name", Name},
		{"NAME", Name},
		{" postcode ", Postcode},
	}

	for _, tt := range tests {
		got, err := ParseField(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseField("dob")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "name", Name.String())
	assert.Equal(t, "postcode", Postcode.String())
	assert.Equal(t, "unknown", Field(5).String())
}

func TestNewQuery(t *testing.T) {
	q, err := NewQuery(Postcode, "AB1")
	require.NoError(t, err)
	assert.Equal(t, Query{Field: Postcode, Op: Contains, Term: "AB1"}, q)
	assert.Equal(t, `postcode contains "AB1"`, q.String())

	_, err = NewQuery(Field(3), "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestEveryFieldHasABuilder(t *testing.T) {
	for _, f := range []Field{Name, Postcode} {
		_, ok := queryBuilders[f]
		assert.True(t, ok, "missing builder for %s", f)
	}
}

func TestFilterStates(t *testing.T) {
	assert.Equal(t, Unfiltered, UnfilteredState().Mode)
	assert.Equal(t, "unfiltered", Unfiltered.String())
	assert.Equal(t, "filtered", Filtered.String())

	empty := FilteredState(nil)
	assert.Equal(t, Filtered, empty.Mode)
	assert.NotNil(t, empty.Results)
	assert.Empty(t, empty.Results)
}
