package arrange

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, float64(DefaultArrowPadding), cfg.ArrowPadding)
	assert.Equal(t, 1.0, cfg.Zoom)
	assert.Equal(t, DefaultRatioFloor, cfg.RatioFloor)
	assert.Equal(t, DefaultRatioCutoff, cfg.RatioCutoff)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("arrow_padding: 4\nzoom: 1.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.ArrowPadding)
	assert.Equal(t, 1.5, cfg.Zoom)
	// Unset fields keep their defaults.
	assert.Equal(t, DefaultRatioCutoff, cfg.RatioCutoff)
	assert.Equal(t, DefaultMinArrowLength, cfg.MinArrowLength)
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero zoom", "zoom: 0", "Zoom"},
		{"negative padding", "arrow_padding: -1", "ArrowPadding"},
		{"cutoff below floor", "ratio_floor: 2\nratio_cutoff: 1.5", "RatioCutoff"},
		{"not yaml", "zoom: [1", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "arrange.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ratio_cutoff: 3\n"), 0o644))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.RatioCutoff)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
