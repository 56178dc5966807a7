package api

import (
	"image"
	"time"

	"github.com/ayusman/emojidraw/internal/emoji"
	"github.com/ayusman/emojidraw/internal/shape"
	"github.com/ayusman/emojidraw/internal/store"
)

// Point is a pixel position on the canvas.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Result is the JSON form of one classification. It is returned by
// POST /api/classify and pushed to /api/events subscribers.
type Result struct {
	ID        string         `json:"id,omitempty"`
	Label     shape.Label    `json:"label"`
	Source    store.Source   `json:"source"`
	Center    *Point         `json:"center"`
	Emoji     *emoji.Emoji   `json:"emoji"`
	Features  shape.Features `json:"features"`
	Points    int            `json:"points"`
	Timestamp int64          `json:"timestamp"`
}

// NewResult converts a classification to its JSON form. Center and Emoji
// are null when nothing was recognized.
func NewResult(id string, src store.Source, r shape.Result, points int) Result {
	out := Result{
		ID:        id,
		Label:     r.Label,
		Source:    src,
		Features:  r.Features,
		Points:    points,
		Timestamp: time.Now().UnixMilli(),
	}
	if r.OK() {
		out.Center = toPoint(r.Center)
		if e, ok := emoji.ForShape(r.Label); ok {
			out.Emoji = &e
		}
	}
	return out
}

func toPoint(p image.Point) *Point {
	return &Point{X: p.X, Y: p.Y}
}
