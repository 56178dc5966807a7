// Package main provides a plugin that types the earned emoji into the
// focused application on macOS via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event  string          `json:"event"`
	Shape  string          `json:"shape"`
	Emoji  string          `json:"emoji"`
	Name   string          `json:"name"`
	Config json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config is read from the manifest.
type Config struct {
	Suffix string `json:"suffix"`
}

// glyphs maps emoji keys to the characters typed.
var glyphs = map[string]string{
	"smile":     "\U0001F600",
	"heart":     "❤️",
	"star":      "⭐",
	"check":     "✅",
	"thumbs_up": "\U0001F44D",
	"square":    "\U0001F7E6",
	"triangle":  "\U0001F53A",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Event != "shape" {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", req.Event))
		return
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	glyph, ok := glyphs[req.Emoji]
	if !ok {
		writeErrorResponse(fmt.Sprintf("no glyph for emoji %q", req.Emoji))
		return
	}

	if err := runAppleScript(buildTypeScript(glyph + cfg.Suffix)); err != nil {
		writeErrorResponse(fmt.Sprintf("typing %s failed: %v", req.Emoji, err))
		return
	}

	data, _ := json.Marshal(map[string]string{"typed": glyph})
	writeSuccessResponse(data)
}

// buildTypeScript generates an AppleScript that types text.
func buildTypeScript(text string) string {
	escaped := strings.ReplaceAll(text, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, escaped)
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse(data json.RawMessage) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
