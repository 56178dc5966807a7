// Package testdata builds synthetic drawing canvases for tests.
package testdata

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const (
	// Width and Height of every generated canvas.
	Width  = 640
	Height = 480

	// BrushRadius matches the default stroke brush.
	BrushRadius = 12
)

// Ink is the stroke colour used for generated drawings.
var Ink = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// Blank returns an empty canvas. The caller must Close it.
func Blank() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), Height, Width, gocv.MatTypeCV8UC3)
}

// Circle returns a canvas with a filled circle of radius r at center.
func Circle(center image.Point, r int) gocv.Mat {
	m := Blank()
	gocv.Circle(&m, center, r, Ink, -1)
	return m
}

// Square returns a canvas with a filled axis-aligned square.
func Square(rect image.Rectangle) gocv.Mat {
	return Polygon([]image.Point{
		rect.Min,
		{X: rect.Max.X, Y: rect.Min.Y},
		rect.Max,
		{X: rect.Min.X, Y: rect.Max.Y},
	})
}

// Star returns a canvas with a filled five-pointed star. inner is the
// ratio between the inner and outer radius; 0.382 gives a regular star.
func Star(center image.Point, outer int, inner float64) gocv.Mat {
	return Polygon(StarPoints(center, outer, inner))
}

// StarPoints returns the ten vertices of a five-pointed star with its top
// point facing up.
func StarPoints(center image.Point, outer int, inner float64) []image.Point {
	pts := make([]image.Point, 0, 10)
	for i := 0; i < 10; i++ {
		r := float64(outer)
		if i%2 == 1 {
			r *= inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, image.Point{
			X: center.X + int(math.Round(r*math.Cos(a))),
			Y: center.Y + int(math.Round(r*math.Sin(a))),
		})
	}
	return pts
}

// Heart returns a canvas with a filled heart whose lobes have radius r.
// The sides bow inward on the way to the point and the cleft between the
// lobes is shallow, so the outline has exactly two deep concavities.
func Heart(center image.Point, r int) gocv.Mat {
	return Polygon(HeartPoints(center, r))
}

// HeartPoints returns the outline of Heart, starting at the cleft and
// running clockwise.
func HeartPoints(center image.Point, r int) []image.Point {
	const arcSteps, sideSteps = 24, 16

	radius := float64(r)
	cx := float64(center.X)
	cy := float64(center.Y) - radius/2 // lobe centres
	dx := 0.3 * radius

	// Right lobe, from the cleft over the top to just below its widest point.
	from := math.Atan2(-math.Sqrt(radius*radius-dx*dx), -dx)
	const to = 0.6
	right := make([][2]float64, 0, arcSteps+sideSteps)
	for i := 0; i <= arcSteps; i++ {
		a := from + (to-from)*float64(i)/arcSteps
		right = append(right, [2]float64{cx + dx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}

	// Right side, a quadratic curve pulled towards the axis.
	e := right[len(right)-1]
	tipY := cy + 2*radius
	qx, qy := (e[0]+cx)/2-0.9*radius, (e[1]+tipY)/2
	for i := 1; i < sideSteps; i++ {
		t := float64(i) / sideSteps
		u := 1 - t
		right = append(right, [2]float64{
			u*u*e[0] + 2*u*t*qx + t*t*cx,
			u*u*e[1] + 2*u*t*qy + t*t*tipY,
		})
	}

	half := make([]image.Point, len(right))
	for i, p := range right {
		half[i] = image.Pt(int(math.Round(p[0])), int(math.Round(p[1])))
	}

	pts := make([]image.Point, 0, 2*len(half)+1)
	pts = append(pts, half...)
	pts = append(pts, image.Pt(center.X, int(math.Round(tipY))))
	for i := len(half) - 1; i >= 0; i-- {
		pts = append(pts, image.Pt(2*center.X-half[i].X, half[i].Y))
	}
	return dedupe(pts)
}

func dedupe(pts []image.Point) []image.Point {
	out := pts[:0]
	for _, p := range pts {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// Polygon returns a canvas with the filled polygon pts.
func Polygon(pts []image.Point) gocv.Mat {
	m := Blank()
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(&m, pv, Ink)
	return m
}

// Stroke returns a canvas with a brush stroke through pts, stamped the way
// the live accumulator paints.
func Stroke(pts ...image.Point) gocv.Mat {
	m := Blank()
	StampPath(&m, pts, BrushRadius)
	return m
}

// Check returns a canvas with a V drawn with the default brush.
func Check() gocv.Mat {
	return Stroke(image.Pt(100, 100), image.Pt(175, 200), image.Pt(250, 100))
}

// Dot returns a canvas with a single brush stamp, smaller than any shape.
func Dot() gocv.Mat {
	return Stroke(image.Pt(Width/2, Height/2))
}

// StampPath stamps filled discs every 2 px along the polyline pts.
func StampPath(m *gocv.Mat, pts []image.Point, radius int) {
	for i, p := range pts {
		if i == 0 {
			gocv.Circle(m, p, radius, Ink, -1)
			continue
		}
		prev := pts[i-1]
		dx, dy := float64(p.X-prev.X), float64(p.Y-prev.Y)
		steps := int(math.Hypot(dx, dy) / 2)
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			q := image.Pt(prev.X+int(math.Round(dx*t)), prev.Y+int(math.Round(dy*t)))
			gocv.Circle(m, q, radius, Ink, -1)
		}
		gocv.Circle(m, p, radius, Ink, -1)
	}
}

// PNG encodes a canvas for upload tests.
func PNG(m gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, m)
	if err != nil {
		return nil, errors.Wrap(err, "encode canvas")
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}
