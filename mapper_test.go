package gdpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapperStatus int

func TestMapValue(t *testing.T) {
	m := Marker{Field: "status", ValueMap: ValueMap{"1": "active", "2": "inactive", "true": "yes", "1.5": "half"}}

	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"mapped int", 1, "active"},
		{"mapped int64", int64(2), "inactive"},
		{"mapped uint", uint8(1), "active"},
		{"mapped named type", mapperStatus(2), "inactive"},
		{"mapped string", "1", "active"},
		{"mapped bool", true, "yes"},
		{"mapped float", 1.5, "half"},
		{"unmapped scalar", 3, nil},
		{"unmapped bool", false, nil},
		{"nil", nil, nil},
		{"non-scalar", []int{1}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapValue(m, tt.raw))
		})
	}
}

func TestMapValue_NoMap(t *testing.T) {
	m := Marker{Field: "status"}
	assert.Equal(t, 3, MapValue(m, 3))
	assert.Equal(t, "x", MapValue(m, "x"))
}

func TestMapValue_EmptyMap(t *testing.T) {
	m := Marker{Field: "status", ValueMap: ValueMap{}}
	assert.Nil(t, MapValue(m, 1))
	assert.Nil(t, MapValue(m, "active"))
}

func TestMapValue_NonScalarTarget(t *testing.T) {
	target := map[string]any{"code": 1}
	m := Marker{Field: "status", ValueMap: ValueMap{"1": target}}
	assert.Equal(t, target, MapValue(m, 1))
}

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar("x"))
	assert.True(t, IsScalar(0))
	assert.True(t, IsScalar(float32(1.25)))
	assert.True(t, IsScalar(mapperStatus(1)))
	assert.False(t, IsScalar(nil))
	assert.False(t, IsScalar([]byte("x")))
	assert.False(t, IsScalar(struct{}{}))
}
