package shape

import (
	"image"

	"gocv.io/x/gocv"
)

// Contour is the outer boundary of the largest blob on a canvas.
type Contour struct {
	Points []image.Point
	Bounds image.Rectangle
	Area   float64
}

// Center returns the center of the contour's bounding box.
func (c Contour) Center() image.Point {
	return image.Point{
		X: c.Bounds.Min.X + c.Bounds.Dx()/2,
		Y: c.Bounds.Min.Y + c.Bounds.Dy()/2,
	}
}

// Extract finds the largest external contour on the canvas.
// It returns false when the canvas is empty or the largest blob encloses
// less than t.MinArea square pixels.
//
// Algorithm:
// 1. Convert to grayscale (single-channel canvases are used as-is)
// 2. Binary threshold at t.BinaryThreshold
// 3. Morphological close with a square kernel, t.CloseIterations times
// 4. Find external contours and keep the one with the largest area
func Extract(canvas gocv.Mat, t Thresholds) (Contour, bool) {
	if canvas.Empty() {
		return Contour{}, false
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if canvas.Channels() > 1 {
		gocv.CvtColor(canvas, &gray, gocv.ColorBGRToGray)
	} else {
		canvas.CopyTo(&gray)
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, t.BinaryThreshold, 255, gocv.ThresholdBinary)

	if gocv.CountNonZero(binary) == 0 {
		return Contour{}, false
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: t.KernelSize, Y: t.KernelSize})
	defer kernel.Close()

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyExWithParams(binary, &closed, gocv.MorphClose, kernel, t.CloseIterations, gocv.BorderConstant)

	contours := gocv.FindContours(closed, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	best := -1
	bestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if best < 0 || area > bestArea {
			best = i
			bestArea = area
		}
	}

	if best < 0 || bestArea < t.MinArea {
		return Contour{}, false
	}

	pv := contours.At(best)
	return Contour{
		Points: pv.ToPoints(),
		Bounds: gocv.BoundingRect(pv),
		Area:   bestArea,
	}, true
}
