// Package shape turns a freehand drawing canvas into one of a small set of
// symbolic shapes.
//
// The pipeline has three stages:
//
//  1. Extract: binarize the canvas, close small gaps between strokes and keep
//     the outer contour of the largest blob.
//  2. ComputeFeatures: derive scale-invariant descriptors (circularity,
//     aspect ratio, corner count, solidity, convexity defects).
//  3. Classifier.Classify: walk an ordered rule list; the first rule whose
//     predicate holds decides the label.
//
// A canvas with nothing substantial on it, or a drawing that matches no rule,
// produces None. Neither is an error.
package shape

// Label identifies a recognized shape.
type Label int

const (
	// None means no shape was recognized.
	None Label = iota
	Circle
	Heart
	Star
	CheckMark
	Triangle
	Square
	VerticalStroke
)

var labelNames = [...]string{
	None:           "none",
	Circle:         "circle",
	Heart:          "heart",
	Star:           "star",
	CheckMark:      "check-mark",
	Triangle:       "triangle",
	Square:         "square",
	VerticalStroke: "vertical-stroke",
}

// Labels lists every recognizable shape, excluding None.
func Labels() []Label {
	return []Label{Circle, Heart, Star, CheckMark, Triangle, Square, VerticalStroke}
}

// String returns the wire name of the label.
func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return labelNames[None]
	}
	return labelNames[l]
}

// ParseLabel converts a wire name back into a Label. Unknown names map to None.
func ParseLabel(s string) Label {
	for i, name := range labelNames {
		if name == s {
			return Label(i)
		}
	}
	return None
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	*l = ParseLabel(string(text))
	return nil
}
