// Package emoji maps recognized shapes to the emoji the player earns and
// loads their artwork.
package emoji

import "github.com/ayusman/emojidraw/internal/shape"

// Emoji is one catalog entry.
type Emoji struct {
	Key   string      `json:"key"`
	Name  string      `json:"name"`
	File  string      `json:"file"`
	Hint  string      `json:"hint"`
	Shape shape.Label `json:"shape"`
}

var catalog = []Emoji{
	{Key: "smile", Name: "Smile", File: "smile.png", Hint: "Draw: O", Shape: shape.Circle},
	{Key: "heart", Name: "Heart", File: "heart.png", Hint: "Draw: <3", Shape: shape.Heart},
	{Key: "star", Name: "Star", File: "star.png", Hint: "Draw: *", Shape: shape.Star},
	{Key: "check", Name: "Check", File: "check.png", Hint: "Draw: v", Shape: shape.CheckMark},
	{Key: "thumbs_up", Name: "Thumbs Up", File: "thumbs_up.png", Hint: "Draw: |", Shape: shape.VerticalStroke},
	{Key: "square", Name: "Square", File: "square.png", Hint: "Draw: []", Shape: shape.Square},
	{Key: "triangle", Name: "Triangle", File: "triangle.png", Hint: "Draw: ^", Shape: shape.Triangle},
}

// Catalog returns every emoji in display order.
func Catalog() []Emoji {
	out := make([]Emoji, len(catalog))
	copy(out, catalog)
	return out
}

// ForShape returns the emoji earned by drawing l.
func ForShape(l shape.Label) (Emoji, bool) {
	for _, e := range catalog {
		if e.Shape == l {
			return e, true
		}
	}
	return Emoji{}, false
}

// ByKey looks an emoji up by key.
func ByKey(key string) (Emoji, bool) {
	for _, e := range catalog {
		if e.Key == key {
			return e, true
		}
	}
	return Emoji{}, false
}
