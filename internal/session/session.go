// Package session owns the per-player drawing state and turns per-frame
// pointer input into classification attempts.
package session

import (
	"image"

	"github.com/ayusman/emojidraw/internal/canvas"
	"github.com/ayusman/emojidraw/internal/gesture"
	"github.com/ayusman/emojidraw/internal/logger"
	"github.com/ayusman/emojidraw/internal/shape"
)

// Config holds the session settings.
type Config struct {
	Stroke     canvas.Config
	Thresholds shape.Thresholds
	Popup      PopupConfig
}

// DefaultConfig returns the game defaults.
func DefaultConfig() Config {
	return Config{
		Stroke:     canvas.DefaultConfig(),
		Thresholds: shape.DefaultThresholds(),
		Popup:      DefaultPopupConfig(),
	}
}

// Input is the drawing signal for one frame.
type Input struct {
	// HandVisible is false when the tracker found no hand.
	HandVisible bool

	// Drawing is true while the drawing gesture is held.
	Drawing bool

	// Tip is the pointer position in canvas pixels.
	Tip image.Point
}

// Outcome describes what one Step did.
type Outcome struct {
	Edge gesture.Edge

	// Point is the smoothed position painted this frame, when drawing.
	Point   image.Point
	Painted bool

	// Attempted is true on the frame a finished drawing was classified.
	Attempted bool
	Result    shape.Result

	// Path is the stroke the attempt was made with, oldest point first.
	Path []image.Point
}

// Session is the state of one drawing game: canvas, stroke, gesture edge
// and popup. It is not safe for concurrent use; the frame loop owns it.
type Session struct {
	cfg      Config
	canvas   *canvas.Canvas
	stroke   *canvas.Accumulator
	edge     gesture.EdgeDetector
	detector *shape.Detector
	popup    *Popup
	last     shape.Result
}

// New creates a session with a blank canvas of the given size.
func New(width, height int, cfg Config) *Session {
	c := canvas.New(width, height)
	return &Session{
		cfg:      cfg,
		canvas:   c,
		stroke:   canvas.NewAccumulator(c, cfg.Stroke),
		detector: shape.NewDetector(cfg.Thresholds),
		popup:    NewPopup(cfg.Popup),
	}
}

// Step advances the session by one frame.
//
// While the gesture is held the pointer is painted. On the release edge the
// drawing is classified exactly once and the canvas is cleared whatever the
// result. A lost hand ends the stroke without classifying; the ink stays so
// the drawing can be continued.
func (s *Session) Step(in Input) Outcome {
	if !in.HandVisible {
		if s.edge.Active() {
			logger.Logger.Debug("hand lost, stroke broken")
		}
		s.edge.Reset()
		s.stroke.Break()
		return Outcome{}
	}

	out := Outcome{Edge: s.edge.Update(in.Drawing)}

	if in.Drawing {
		out.Point = s.stroke.Add(in.Tip)
		out.Painted = true
		return out
	}

	if out.Edge == gesture.Released {
		out.Attempted = true
		out.Path = s.stroke.Points()
		out.Result = s.classify()
	}

	return out
}

func (s *Session) classify() shape.Result {
	defer s.stroke.Reset()

	n := s.stroke.Len()
	if n < s.cfg.Thresholds.MinStrokePoints {
		logger.WithField("points", n).Debug("stroke too short, not classified")
		return shape.Result{Label: shape.None}
	}

	r := s.detector.Detect(s.canvas.Mat())
	if r.OK() {
		s.popup.Start(r.Label, r.Center)
		s.last = r
	}
	return r
}

// Clear discards the drawing in progress.
func (s *Session) Clear() {
	s.stroke.Reset()
}

// Canvas returns the drawing canvas.
func (s *Session) Canvas() *canvas.Canvas {
	return s.canvas
}

// Stroke returns the stroke accumulator.
func (s *Session) Stroke() *canvas.Accumulator {
	return s.stroke
}

// Popup returns the feedback animation.
func (s *Session) Popup() *Popup {
	return s.popup
}

// Last returns the most recent successful classification.
func (s *Session) Last() (shape.Result, bool) {
	return s.last, s.last.OK()
}

// Drawing reports whether the gesture is currently held.
func (s *Session) Drawing() bool {
	return s.edge.Active()
}

// Close releases the canvas.
func (s *Session) Close() error {
	return s.canvas.Close()
}
