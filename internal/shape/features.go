package shape

import (
	"math"
	"sort"

	"gocv.io/x/gocv"
)

// Features are the geometric descriptors the classifier works from.
type Features struct {
	Area        float64 `json:"area"`
	Perimeter   float64 `json:"perimeter"`
	Circularity float64 `json:"circularity"`  // 4*pi*area/perimeter^2, 1.0 for a circle
	AspectRatio float64 `json:"aspect_ratio"` // bounding box width / height
	Corners     int     `json:"corners"`
	Solidity    float64 `json:"solidity"` // area / convex hull area

	Defects        int     `json:"defects"`
	DeepDefects    int     `json:"deep_defects"`
	MaxDefectDepth float64 `json:"max_defect_depth"` // OpenCV fixed-point units
}

// ComputeFeatures derives Features from a contour. Degenerate geometry
// yields zero circularity, solidity or aspect ratio instead of dividing by
// zero.
func ComputeFeatures(c Contour, t Thresholds) Features {
	var f Features

	if c.Bounds.Dy() > 0 {
		f.AspectRatio = float64(c.Bounds.Dx()) / float64(c.Bounds.Dy())
	}

	if len(c.Points) < 3 {
		f.Area = c.Area
		f.Corners = len(c.Points)
		return f
	}

	pv := gocv.NewPointVectorFromPoints(c.Points)
	defer pv.Close()

	f.Area = gocv.ContourArea(pv)
	f.Perimeter = gocv.ArcLength(pv, true)
	if f.Perimeter > 0 {
		f.Circularity = 4 * math.Pi * f.Area / (f.Perimeter * f.Perimeter)
	}

	approx := gocv.ApproxPolyDP(pv, t.ApproxTolerance*f.Perimeter, true)
	f.Corners = approx.Size()
	approx.Close()

	hull := gocv.NewMat()
	defer hull.Close()
	gocv.ConvexHull(pv, &hull, false, true)
	if !hull.Empty() {
		hullPoints := gocv.NewPointVectorFromMat(hull)
		hullArea := gocv.ContourArea(hullPoints)
		hullPoints.Close()
		if hullArea > 0 {
			f.Solidity = f.Area / hullArea
		}
	}

	f.Defects, f.DeepDefects, f.MaxDefectDepth = convexityDefects(pv, t.DeepDefectDepth)
	return f
}

// convexityDefects counts the concave indentations of the contour and how
// many of them are deeper than deep.
func convexityDefects(pv gocv.PointVector, deep float64) (total, deepCount int, maxDepth float64) {
	if pv.Size() < 4 {
		return 0, 0, 0
	}

	indices := gocv.NewMat()
	defer indices.Close()
	gocv.ConvexHull(pv, &indices, false, false)
	if indices.Rows() < 3 {
		return 0, 0, 0
	}

	// Self-touching outlines can yield hull indices out of contour order,
	// which OpenCV rejects with an uncatchable exception.
	hull := indices
	if idx := hullIndices(indices); !monotonic(idx) {
		sort.Ints(idx)
		sorted := gocv.NewMatWithSize(len(idx), 1, gocv.MatTypeCV32S)
		defer sorted.Close()
		for i, v := range idx {
			sorted.SetIntAt(i, 0, int32(v))
		}
		hull = sorted
	}

	defects := gocv.NewMat()
	defer defects.Close()
	gocv.ConvexityDefects(pv, hull, &defects)

	// Each row is (start, end, farthest, depth*256).
	for i := 0; i < defects.Rows(); i++ {
		depth := float64(defects.GetVeciAt(i, 0)[3])
		total++
		if depth > deep {
			deepCount++
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	return total, deepCount, maxDepth
}

func hullIndices(m gocv.Mat) []int {
	idx := make([]int, m.Rows())
	for i := range idx {
		idx[i] = int(m.GetIntAt(i, 0))
	}
	return idx
}

// monotonic reports whether idx runs in one direction around the contour,
// allowing a single wrap from the last point back to the first.
func monotonic(idx []int) bool {
	var up, down int
	for i := range idx {
		next := idx[(i+1)%len(idx)]
		switch {
		case next > idx[i]:
			up++
		case next < idx[i]:
			down++
		default:
			return false
		}
	}
	return up <= 1 || down <= 1
}
