// Package plugin runs external reward plugins when the player draws a
// recognized shape.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/emojidraw/internal/shape"
)

// Manifest describes a plugin's metadata and the shapes it reacts to.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Shapes      []string `json:"shapes,omitempty"`
	// Config is passed through to the plugin unchanged.
	Config json.RawMessage `json:"config,omitempty"`
}

// Accepts reports whether the plugin wants events for l. A manifest with
// no shapes accepts every recognized shape.
func (m Manifest) Accepts(l shape.Label) bool {
	if l == shape.None {
		return false
	}
	if len(m.Shapes) == 0 {
		return true
	}
	for _, s := range m.Shapes {
		if shape.ParseLabel(s) == l {
			return true
		}
	}
	return false
}

// Point is a canvas pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Request is written as JSON to the plugin's stdin.
type Request struct {
	Event  string          `json:"event"`
	Shape  string          `json:"shape"`
	Emoji  string          `json:"emoji,omitempty"`
	Name   string          `json:"name,omitempty"`
	Center Point           `json:"center"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is read as JSON from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
