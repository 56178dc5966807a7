package shape

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/emojidraw/internal/logger"
)

// Result is the outcome of running the full pipeline on a canvas.
type Result struct {
	Label    Label       `json:"label"`
	Center   image.Point `json:"center"`
	Features Features    `json:"features"`
	Contour  Contour     `json:"-"`
}

// OK reports whether a shape was recognized. Center is only meaningful when
// OK returns true.
func (r Result) OK() bool {
	return r.Label != None
}

// Detector runs extraction, feature computation and classification with a
// fixed threshold table. It holds no per-canvas state and is safe for
// concurrent use.
type Detector struct {
	thresholds Thresholds
	classifier *Classifier
}

// NewDetector creates a Detector with the default rule order.
func NewDetector(t Thresholds) *Detector {
	return &Detector{thresholds: t, classifier: NewClassifier(t)}
}

// Thresholds returns the detector's threshold table.
func (d *Detector) Thresholds() Thresholds {
	return d.thresholds
}

// Detect classifies the drawing on canvas. The canvas is not modified.
func (d *Detector) Detect(canvas gocv.Mat) Result {
	contour, ok := Extract(canvas, d.thresholds)
	if !ok {
		return Result{Label: None}
	}

	f := ComputeFeatures(contour, d.thresholds)
	label := d.classifier.Classify(f, contour)

	logger.WithFields(map[string]interface{}{
		"label":        label.String(),
		"area":         f.Area,
		"circularity":  f.Circularity,
		"aspect":       f.AspectRatio,
		"corners":      f.Corners,
		"solidity":     f.Solidity,
		"deep_defects": f.DeepDefects,
	}).Debug("shape classified")

	r := Result{Label: label, Features: f, Contour: contour}
	if label != None {
		r.Center = contour.Center()
	}
	return r
}

// Detect is a convenience wrapper around NewDetector(t).Detect(canvas).
func Detect(canvas gocv.Mat, t Thresholds) Result {
	return NewDetector(t).Detect(canvas)
}
