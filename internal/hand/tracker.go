package hand

import (
	"time"

	"gocv.io/x/gocv"
)

// Tracker finds hands in a video frame.
type Tracker interface {
	// Track returns the hands found in frame, or an empty slice.
	Track(frame *gocv.Mat) ([]Landmarks, error)

	// Close releases any resources held by the tracker.
	Close() error
}

// Config holds hand tracker options.
type Config struct {
	// MaxHands is the maximum number of hands to report.
	MaxHands int `yaml:"max_hands"`

	// MinConfidence is the minimum detection confidence (0.0-1.0).
	MinConfidence float64 `yaml:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`

	// Script is the path of the tracker service. Empty means search the
	// usual locations.
	Script string `yaml:"script"`

	// Python is the interpreter. Empty means a local venv, then python3.
	Python string `yaml:"python"`

	// IdleTimeout stops the service after this long without frames.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// DefaultConfig returns the tracker settings used by the game: one hand,
// detection confidence 0.7.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}
