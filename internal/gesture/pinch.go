// Package gesture derives the drawing signal from tracked hand landmarks.
package gesture

import (
	"image"

	"github.com/ayusman/emojidraw/internal/hand"
)

// DefaultPinchDistance is the thumb-to-index distance, in pixels, below
// which the hand is drawing.
const DefaultPinchDistance = 50

// Pointer is the per-frame drawing input extracted from one hand.
type Pointer struct {
	// Tip is the index fingertip in frame pixels.
	Tip image.Point

	// Distance is the thumb-to-index fingertip distance in pixels.
	Distance float64

	// Pinching is true while Distance is below the pinch threshold.
	Pinching bool
}

// PinchDetector turns landmarks into a Pointer.
type PinchDetector struct {
	threshold float64
}

// NewPinchDetector creates a detector. A non-positive threshold uses
// DefaultPinchDistance.
func NewPinchDetector(threshold float64) *PinchDetector {
	if threshold <= 0 {
		threshold = DefaultPinchDistance
	}
	return &PinchDetector{threshold: threshold}
}

// Threshold returns the pinch distance in pixels.
func (d *PinchDetector) Threshold() float64 {
	return d.threshold
}

// Pointer computes the drawing input for a hand seen in a frame of the
// given size.
func (d *PinchDetector) Pointer(lm *hand.Landmarks, frame image.Point) Pointer {
	dist := lm.PixelDistance(hand.IndexTip, hand.ThumbTip, frame)
	return Pointer{
		Tip:      lm.Pixel(hand.IndexTip, frame),
		Distance: dist,
		Pinching: dist < d.threshold,
	}
}
