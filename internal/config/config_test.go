package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/emojidraw/internal/shape"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emojidraw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1280, cfg.Camera.Width)
	assert.Equal(t, 720, cfg.Camera.Height)
	assert.Equal(t, 30, cfg.Camera.FPS)
	assert.Equal(t, 1, cfg.Tracker.MaxHands)
	assert.Equal(t, 0.7, cfg.Tracker.MinConfidence)
	assert.Equal(t, 50.0, cfg.Pinch.Distance)
	assert.Equal(t, shape.DefaultThresholds(), cfg.Shape)
	assert.Equal(t, 5*time.Second, cfg.Plugins.Timeout)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Addr, cfg.Server.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: 0.0.0.0:9090
stroke:
  brush_radius: 8
  brush_color: "#00ff00"
shape:
  min_area: 1200
  star_a:
    max_corners: 16
loop:
  idle_timeout: 5s
tray: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Stroke.BrushRadius)
	assert.Equal(t, 5, cfg.Stroke.SmoothingWindow, "unset fields keep defaults")
	assert.Equal(t, 1200.0, cfg.Shape.MinArea)
	assert.Equal(t, 16, cfg.Shape.StarA.MaxCorners)
	assert.Equal(t, 7, cfg.Shape.StarA.MinCorners)
	assert.Equal(t, 0.65, cfg.Shape.StarA.MaxCircularity)
	assert.Equal(t, 5*time.Second, cfg.Loop.IdleTimeout)
	assert.False(t, cfg.Tray)

	col, err := cfg.Stroke.Color()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, col)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: 0.0.0.0:9090\n")
	t.Setenv("EMOJIDRAW_ADDR", "127.0.0.1:7000")
	t.Setenv("EMOJIDRAW_CAMERA", "2")
	t.Setenv("EMOJIDRAW_DB", "/tmp/attempts.db")
	t.Setenv("EMOJIDRAW_PLUGIN_DIR", "/tmp/plugins")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Camera.Device)
	assert.Equal(t, "/tmp/attempts.db", cfg.Store.Path)
	assert.Equal(t, "/tmp/plugins", cfg.Plugins.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadCameraEnvIgnored(t *testing.T) {
	t.Setenv("EMOJIDRAW_CAMERA", "front")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Camera.Device)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "server: [unclosed"},
		{name: "bad address", body: "server:\n  addr: nowhere\n"},
		{name: "bad colour", body: "stroke:\n  brush_color: purple\n"},
		{name: "zero brush", body: "stroke:\n  brush_radius: 0\n"},
		{name: "zero pinch", body: "pinch:\n  distance: 0\n"},
		{name: "confidence out of range", body: "tracker:\n  min_confidence: 1.5\n"},
		{name: "no hands", body: "tracker:\n  max_hands: 0\n"},
		{name: "zero popup", body: "popup:\n  frames: 0\n"},
		{name: "bad quality", body: "loop:\n  preview_quality: 0\n"},
		{name: "zero plugin timeout", body: "plugins:\n  timeout: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Session(t *testing.T) {
	cfg := Default()
	cfg.Stroke.BrushColor = "#102030"

	s, err := cfg.Session()
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}, s.Stroke.BrushColor)
	assert.Equal(t, 12, s.Stroke.BrushRadius)
	assert.Equal(t, 2048, s.Stroke.Capacity)
	assert.Equal(t, 75, s.Popup.Frames)
	assert.Equal(t, cfg.Shape, s.Thresholds)
}
