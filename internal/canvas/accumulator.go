package canvas

import (
	"image"
	"image/color"
	"math"
)

// Config holds the stroke accumulator settings.
type Config struct {
	BrushRadius       int
	BrushColor        color.RGBA
	SmoothingWindow   int
	InterpolationStep int
	Capacity          int
}

// DefaultConfig returns the settings used by the game.
func DefaultConfig() Config {
	return Config{
		BrushRadius:       12,
		BrushColor:        color.RGBA{R: 255, G: 0, B: 255, A: 255},
		SmoothingWindow:   5,
		InterpolationStep: 2,
		Capacity:          2048,
	}
}

// Surface is what the accumulator paints on. *Canvas implements it.
type Surface interface {
	Stamp(p image.Point, radius int, col color.RGBA)
	Clear()
}

// Accumulator turns raw fingertip positions into a smoothed, gap-free stroke
// painted on a Surface.
type Accumulator struct {
	cfg     Config
	surface Surface

	window  []image.Point
	prev    image.Point
	hasPrev bool

	points []image.Point
}

// NewAccumulator creates an accumulator painting onto s. Zero fields in cfg
// take their DefaultConfig values.
func NewAccumulator(s Surface, cfg Config) *Accumulator {
	def := DefaultConfig()
	if cfg.BrushRadius <= 0 {
		cfg.BrushRadius = def.BrushRadius
	}
	if cfg.BrushColor == (color.RGBA{}) {
		cfg.BrushColor = def.BrushColor
	}
	if cfg.SmoothingWindow <= 0 {
		cfg.SmoothingWindow = def.SmoothingWindow
	}
	if cfg.InterpolationStep <= 0 {
		cfg.InterpolationStep = def.InterpolationStep
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}

	return &Accumulator{
		cfg:     cfg,
		surface: s,
		window:  make([]image.Point, 0, cfg.SmoothingWindow),
		points:  make([]image.Point, 0, cfg.Capacity),
	}
}

// Config returns the effective settings.
func (a *Accumulator) Config() Config {
	return a.cfg
}

// Add records a raw fingertip position, paints the stroke up to its smoothed
// position and returns that position.
func (a *Accumulator) Add(raw image.Point) image.Point {
	p := a.smooth(raw)

	if !a.hasPrev {
		a.stamp(p)
	} else {
		a.segment(a.prev, p)
	}

	a.prev = p
	a.hasPrev = true
	return p
}

// Break ends the current stroke segment. The next Add starts a new segment
// without a connecting line. Ink stays on the canvas.
func (a *Accumulator) Break() {
	a.hasPrev = false
	a.window = a.window[:0]
}

// Reset clears the surface, the recorded points and the smoothing window.
func (a *Accumulator) Reset() {
	a.Break()
	a.points = a.points[:0]
	a.surface.Clear()
}

// Len returns the number of recorded stroke points.
func (a *Accumulator) Len() int {
	return len(a.points)
}

// Points returns a copy of the recorded stroke points, oldest first.
func (a *Accumulator) Points() []image.Point {
	out := make([]image.Point, len(a.points))
	copy(out, a.points)
	return out
}

// smooth pushes raw into the window and returns the linearly weighted
// average, newest point heaviest.
func (a *Accumulator) smooth(raw image.Point) image.Point {
	if len(a.window) >= a.cfg.SmoothingWindow {
		copy(a.window, a.window[1:])
		a.window = a.window[:a.cfg.SmoothingWindow-1]
	}
	a.window = append(a.window, raw)

	var sx, sy, total float64
	for i, p := range a.window {
		w := float64(i + 1)
		sx += float64(p.X) * w
		sy += float64(p.Y) * w
		total += w
	}

	return image.Point{
		X: int(math.Round(sx / total)),
		Y: int(math.Round(sy / total)),
	}
}

// segment paints the stroke between two smoothed points. Segments longer than two brush radii are
// filled with stamps every InterpolationStep pixels; shorter ones are
// already covered by the discs at both ends.
func (a *Accumulator) segment(from, to image.Point) {
	dx := float64(to.X - from.X)
	dy := float64(to.Y - from.Y)
	dist := math.Hypot(dx, dy)

	if dist <= float64(2*a.cfg.BrushRadius) {
		a.stamp(to)
		return
	}

	steps := int(math.Ceil(dist / float64(a.cfg.InterpolationStep)))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		a.stamp(image.Point{
			X: from.X + int(math.Round(dx*t)),
			Y: from.Y + int(math.Round(dy*t)),
		})
	}
}

func (a *Accumulator) stamp(p image.Point) {
	a.record(p)
	a.surface.Stamp(p, a.cfg.BrushRadius, a.cfg.BrushColor)
}

// record appends p, evicting the oldest point at capacity. Eviction does
// not touch the surface.
func (a *Accumulator) record(p image.Point) {
	if len(a.points) >= a.cfg.Capacity {
		copy(a.points, a.points[1:])
		a.points = a.points[:a.cfg.Capacity-1]
	}
	a.points = append(a.points, p)
}
