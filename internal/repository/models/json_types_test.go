package models

import (
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSlice_Value(t *testing.T) {
	tests := []struct {
		name    string
		s       StringSlice
		wantVal driver.Value
	}{
		{name: "nil slice", s: nil, wantVal: "[]"},
		{name: "empty slice", s: StringSlice{}, wantVal: "[]"},
		{name: "two options", s: StringSlice{"Revenue", "Profit"}, wantVal: `["Revenue","Profit"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.s.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.wantVal, got)
		})
	}
}

func TestStringSlice_Scan(t *testing.T) {
	var s StringSlice
	require.NoError(t, s.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringSlice{"a", "b"}, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, StringSlice{}, s)

	require.NoError(t, s.Scan("null"))
	assert.Equal(t, StringSlice{}, s)

	assert.Error(t, s.Scan(42))
}

func TestIntSlice_Scan(t *testing.T) {
	var s IntSlice
	require.NoError(t, s.Scan(`[0, 2]`))
	assert.Equal(t, IntSlice{0, 2}, s)

	require.NoError(t, s.Scan([]byte(`3`)))
	assert.Equal(t, IntSlice{3}, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, IntSlice{}, s)
}

func TestJSONMap(t *testing.T) {
	v, err := JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var m JSONMap
	require.NoError(t, m.Scan([]byte(`{"title":"Level 1"}`)))
	assert.Equal(t, "Level 1", m["title"])

	require.NoError(t, m.Scan(nil))
	assert.Nil(t, m)
}
