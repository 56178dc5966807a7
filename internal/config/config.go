// Package config loads emojidraw settings from an optional YAML file and
// the environment.
package config

import (
	"image/color"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/emojidraw/internal/canvas"
	"github.com/ayusman/emojidraw/internal/capture"
	"github.com/ayusman/emojidraw/internal/emoji"
	"github.com/ayusman/emojidraw/internal/gesture"
	"github.com/ayusman/emojidraw/internal/hand"
	"github.com/ayusman/emojidraw/internal/session"
	"github.com/ayusman/emojidraw/internal/shape"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig         `yaml:"server"`
	Camera  capture.Config       `yaml:"camera"`
	Motion  capture.MotionConfig `yaml:"motion"`
	Tracker hand.Config          `yaml:"tracker"`
	Loop    LoopConfig           `yaml:"loop"`
	Pinch   PinchConfig          `yaml:"pinch"`
	Stroke  StrokeConfig         `yaml:"stroke"`
	Shape   shape.Thresholds     `yaml:"shape"`
	Popup   session.PopupConfig  `yaml:"popup"`
	Emoji   EmojiConfig          `yaml:"emoji"`
	Store   StoreConfig          `yaml:"store"`
	Plugins PluginConfig         `yaml:"plugins"`
	Log     LogConfig            `yaml:"log"`
	Tray    bool                 `yaml:"tray"`
}

// ServerConfig holds the HTTP settings.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
	// MaxUploadBytes bounds canvases posted for classification.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// LoopConfig holds frame loop settings.
type LoopConfig struct {
	// IdleFPS is the rate used after IdleTimeout without motion.
	IdleFPS     int           `yaml:"idle_fps"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	// PreviewQuality is the JPEG quality of the streamed preview.
	PreviewQuality int `yaml:"preview_quality"`
}

// PinchConfig holds the drawing gesture settings.
type PinchConfig struct {
	Distance float64 `yaml:"distance"` // pixels
}

// StrokeConfig holds the brush settings.
type StrokeConfig struct {
	BrushRadius       int    `yaml:"brush_radius"`
	BrushColor        string `yaml:"brush_color"` // hex, e.g. "#ff00ff"
	SmoothingWindow   int    `yaml:"smoothing_window"`
	InterpolationStep int    `yaml:"interpolation_step"`
	Capacity          int    `yaml:"capacity"`
}

// EmojiConfig locates the emoji artwork.
type EmojiConfig struct {
	Dir  string `yaml:"dir"`
	Size int    `yaml:"size"`
}

// StoreConfig locates the attempt log.
type StoreConfig struct {
	Path string `yaml:"path"` // empty disables the log
}

// PluginConfig locates reward plugins.
type PluginConfig struct {
	Dir     string        `yaml:"dir"` // empty disables plugins
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DataDir returns ~/.emojidraw.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".emojidraw"
	}
	return filepath.Join(home, ".emojidraw")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			StaticDir:      "web",
			MaxUploadBytes: 10 << 20,
		},
		Camera:  capture.DefaultConfig(),
		Motion:  capture.DefaultMotionConfig(),
		Tracker: hand.DefaultConfig(),
		Loop: LoopConfig{
			IdleFPS:        5,
			IdleTimeout:    2 * time.Second,
			PreviewQuality: 80,
		},
		Pinch: PinchConfig{Distance: gesture.DefaultPinchDistance},
		Stroke: StrokeConfig{
			BrushRadius:       12,
			BrushColor:        "#ff00ff",
			SmoothingWindow:   5,
			InterpolationStep: 2,
			Capacity:          2048,
		},
		Shape: shape.DefaultThresholds(),
		Popup: session.DefaultPopupConfig(),
		Emoji: EmojiConfig{
			Dir:  filepath.Join("assets", "emojis"),
			Size: emoji.DefaultSize,
		},
		Store: StoreConfig{Path: filepath.Join(DataDir(), "emojidraw.db")},
		Plugins: PluginConfig{
			Dir:     filepath.Join(DataDir(), "plugins"),
			Timeout: 5 * time.Second,
		},
		Log:  LogConfig{Level: "info"},
		Tray: true,
	}
}

// Load returns the defaults overlaid with the YAML file at path (when path
// is not empty) and then with environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnvOrDefault("EMOJIDRAW_ADDR", c.Server.Addr)
	c.Camera.Device = parseIntOrDefault("EMOJIDRAW_CAMERA", c.Camera.Device)
	c.Store.Path = getEnvOrDefault("EMOJIDRAW_DB", c.Store.Path)
	c.Emoji.Dir = getEnvOrDefault("EMOJIDRAW_EMOJI_DIR", c.Emoji.Dir)
	c.Tracker.Script = getEnvOrDefault("EMOJIDRAW_TRACKER", c.Tracker.Script)
	c.Plugins.Dir = getEnvOrDefault("EMOJIDRAW_PLUGIN_DIR", c.Plugins.Dir)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.Wrapf(err, "invalid server.addr %q", c.Server.Addr)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.Errorf("server.max_upload_bytes must be > 0 (got %d)", c.Server.MaxUploadBytes)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 || c.Camera.FPS <= 0 {
		return errors.Errorf("camera size and fps must be > 0 (got %dx%d@%d)", c.Camera.Width, c.Camera.Height, c.Camera.FPS)
	}
	if c.Tracker.MaxHands < 1 {
		return errors.Errorf("tracker.max_hands must be >= 1 (got %d)", c.Tracker.MaxHands)
	}
	if c.Tracker.MinConfidence < 0 || c.Tracker.MinConfidence > 1 {
		return errors.Errorf("tracker.min_confidence must be in [0,1] (got %g)", c.Tracker.MinConfidence)
	}
	if c.Pinch.Distance <= 0 {
		return errors.Errorf("pinch.distance must be > 0 (got %g)", c.Pinch.Distance)
	}
	if c.Stroke.BrushRadius <= 0 || c.Stroke.SmoothingWindow <= 0 || c.Stroke.InterpolationStep <= 0 || c.Stroke.Capacity <= 0 {
		return errors.New("stroke settings must be > 0")
	}
	if _, err := c.Stroke.Color(); err != nil {
		return err
	}
	if c.Shape.KernelSize <= 0 || c.Shape.ApproxTolerance <= 0 || c.Shape.MinArea < 0 {
		return errors.New("shape extraction settings must be > 0")
	}
	if c.Popup.Frames <= 0 {
		return errors.Errorf("popup.frames must be > 0 (got %d)", c.Popup.Frames)
	}
	if c.Plugins.Timeout <= 0 {
		return errors.Errorf("plugins.timeout must be > 0 (got %s)", c.Plugins.Timeout)
	}
	if c.Loop.PreviewQuality < 1 || c.Loop.PreviewQuality > 100 {
		return errors.Errorf("loop.preview_quality must be in [1,100] (got %d)", c.Loop.PreviewQuality)
	}
	return nil
}

// Color parses BrushColor.
func (s StrokeConfig) Color() (color.RGBA, error) {
	c, err := colorful.Hex(s.BrushColor)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "invalid stroke.brush_color %q", s.BrushColor)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Canvas converts the stroke settings for the accumulator.
func (s StrokeConfig) Canvas() (canvas.Config, error) {
	col, err := s.Color()
	if err != nil {
		return canvas.Config{}, err
	}
	return canvas.Config{
		BrushRadius:       s.BrushRadius,
		BrushColor:        col,
		SmoothingWindow:   s.SmoothingWindow,
		InterpolationStep: s.InterpolationStep,
		Capacity:          s.Capacity,
	}, nil
}

// Session assembles the session settings.
func (c *Config) Session() (session.Config, error) {
	stroke, err := c.Stroke.Canvas()
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		Stroke:     stroke,
		Thresholds: c.Shape,
		Popup:      c.Popup,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}
