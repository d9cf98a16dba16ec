package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, [4]float64{0.5, 0.5, 0.75, 1.0}, cfg.Surface.ClearColor)
	assert.Equal(t, []uint32{common.KeyEsc}, cfg.ExitKeyCodes())
}

func TestLoadEmptyPathAndMissingFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.yaml")
	doc := `
window:
  width: 1024
shader:
  watch: true
loop:
  exit_keys: [escape, q]
  frame_limit: 60
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "Awesome Voxel Game", cfg.Window.Title)
	assert.True(t, cfg.Shader.Watch)
	assert.Equal(t, "vs_main", cfg.Shader.VertexEntry)
	assert.Equal(t, []uint32{common.KeyEsc, common.KeyQ}, cfg.ExitKeyCodes())
	assert.InDelta(t, 60.0, cfg.Loop.FrameLimit, 1e-9)

	level, err := ParseLevel(cfg.Log.Level)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative width": "window:\n  width: -1\n",
		"power":          "surface:\n  power_preference: turbo\n",
		"present mode":   "surface:\n  present_mode: vsync\n",
		"exit key":       "loop:\n  exit_keys: [hyperspace]\n",
		"frame limit":    "loop:\n  frame_limit: -5\n",
		"log level":      "log:\n  level: chatty\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("window: [unterminated"))
	assert.Error(t, err)
}
