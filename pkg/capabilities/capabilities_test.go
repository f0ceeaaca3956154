package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := NewSet("Geometry", " crs ", "")
	assert.True(t, s.Has(Geometry))
	assert.True(t, s.Has("CRS"))
	assert.False(t, s.Has("raster"))
	assert.Equal(t, []string{"crs", "geometry"}, s.Names())

	var zero Set
	assert.False(t, zero.Has(Geometry))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"crs", "geometry"}},
		{"all", []string{"crs", "geometry"}},
		{"NONE", []string{}},
		{"geometry", []string{"geometry"}},
		{"geometry;crs", []string{"crs", "geometry"}},
		{"crs, raster", []string{"crs", "raster"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in).Names())
		})
	}
}

func TestDefault_Memoized(t *testing.T) {
	a := Default()
	t.Setenv(EnvVar, "none")
	b := Default()
	assert.Equal(t, a.Names(), b.Names())
}
