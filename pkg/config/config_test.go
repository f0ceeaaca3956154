package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacharyburnett/TypePigeon/pkg/capabilities"
	"github.com/zacharyburnett/TypePigeon/pkg/coerce"
)

func writeProfile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile_"+name+".yaml"), []byte(body), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TYPEPIGEON_PROFILE", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, "all", cfg.Capabilities)
	assert.False(t, cfg.DayFirst)
	assert.True(t, cfg.Probe().Has(capabilities.Geometry))
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TYPEPIGEON_PROFILE", "")
	t.Setenv("TYPEPIGEON_MAX_DEPTH", "8")
	t.Setenv("TYPEPIGEON_CAPABILITIES", "crs")
	t.Setenv("TYPEPIGEON_DAY_FIRST", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.True(t, cfg.DayFirst)
	assert.True(t, cfg.Probe().Has(capabilities.CRS))
	assert.False(t, cfg.Probe().Has(capabilities.Geometry))
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("TYPEPIGEON_PROFILE", "")
	t.Setenv("TYPEPIGEON_MAX_DEPTH", "0")
	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric depth", "TYPEPIGEON_MAX_DEPTH", "deep"},
		{"fractional depth", "TYPEPIGEON_MAX_DEPTH", "1.5"},
		{"non-boolean day first", "TYPEPIGEON_DAY_FIRST", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TYPEPIGEON_MAX_DEPTH", "64")
			t.Setenv("TYPEPIGEON_DAY_FIRST", "false")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_NamedProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "eu", "max_depth: 12\nday_first: true\ncapabilities: none\n")
	t.Setenv("TYPEPIGEON_PROFILE", "EU")
	t.Setenv("TYPEPIGEON_PROFILE_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "eu", cfg.Profile)
	assert.Equal(t, 12, cfg.MaxDepth)
	assert.True(t, cfg.DayFirst)
	assert.Empty(t, cfg.Probe().Names())
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()

	t.Run("partial profile keeps defaults", func(t *testing.T) {
		writeProfile(t, dir, "dates", "day_first: true\n")
		cfg, err := LoadProfile(dir, "dates")
		require.NoError(t, err)
		assert.True(t, cfg.DayFirst)
		assert.Equal(t, 64, cfg.MaxDepth)
		assert.Equal(t, "all", cfg.Capabilities)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := LoadProfile(dir, "nope")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		writeProfile(t, dir, "broken", "max_depth: [\n")
		_, err := LoadProfile(dir, "broken")
		assert.Error(t, err)
	})

	t.Run("invalid settings", func(t *testing.T) {
		writeProfile(t, dir, "huge", "max_depth: 1000000\n")
		_, err := LoadProfile(dir, "huge")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.MaxDepth = 2
	cfg.Capabilities = "none"
	cfg.DayFirst = true
	e := coerce.NewEngine(cfg.EngineOptions()...)

	_, err := e.Coerce("[]", "List[List[List[int]]]")
	assert.ErrorIs(t, err, coerce.ErrDescriptorDepth)

	_, err = e.Coerce(4326, "CRS")
	assert.ErrorIs(t, err, coerce.ErrCapabilityUnavailable)

	out, err := e.Coerce("02/01/2021", "date")
	require.NoError(t, err)
	assert.Equal(t, "2021-01-02", out.(interface{ String() string }).String())
}
