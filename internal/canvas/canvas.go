// Package canvas holds the drawing raster and the stroke accumulator that
// paints fingertip positions onto it.
package canvas

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Canvas is a 3-channel raster the size of the video frame. Only stamped
// stroke pixels are non-black.
type Canvas struct {
	mat gocv.Mat
}

// New creates a black canvas.
func New(width, height int) *Canvas {
	return &Canvas{
		mat: gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3),
	}
}

// Mat returns the underlying raster. The canvas keeps ownership.
func (c *Canvas) Mat() gocv.Mat {
	return c.mat
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() image.Point {
	return image.Point{X: c.mat.Cols(), Y: c.mat.Rows()}
}

// Clear resets every pixel to black.
func (c *Canvas) Clear() {
	c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// Stamp paints a filled disc.
func (c *Canvas) Stamp(p image.Point, radius int, col color.RGBA) {
	gocv.Circle(&c.mat, p, radius, col, -1)
}

// IsInked reports whether any pixel has been painted.
func (c *Canvas) IsInked() bool {
	return c.Ink() > 0
}

// Ink returns the number of painted pixels.
func (c *Canvas) Ink() int {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(c.mat, &gray, gocv.ColorBGRToGray)
	return gocv.CountNonZero(gray)
}

// At returns the colour of the pixel at p.
func (c *Canvas) At(p image.Point) color.RGBA {
	v := c.mat.GetVecbAt(p.Y, p.X)
	return color.RGBA{B: v[0], G: v[1], R: v[2], A: 255}
}

// Overlay copies the painted pixels onto frame. frame must have the same
// size and type as the canvas.
func (c *Canvas) Overlay(frame *gocv.Mat) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(c.mat, &gray, gocv.ColorBGRToGray)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, 0, 255, gocv.ThresholdBinary)

	c.mat.CopyToWithMask(frame, mask)
}

// Close releases the raster.
func (c *Canvas) Close() error {
	return c.mat.Close()
}
