package shape

// Thresholds holds every tuning constant used by the extractor, the feature
// computer and the classifier. Field names follow the rule they belong to.
type Thresholds struct {
	// Extraction.
	BinaryThreshold float32 `yaml:"binary_threshold"`
	KernelSize      int     `yaml:"kernel_size"`
	CloseIterations int     `yaml:"close_iterations"`
	MinArea         float64 `yaml:"min_area"`
	ApproxTolerance float64 `yaml:"approx_tolerance"`  // fraction of the perimeter
	DeepDefectDepth float64 `yaml:"deep_defect_depth"` // OpenCV fixed-point units (1/256 px)
	MinStrokePoints int     `yaml:"min_stroke_points"`

	// Check-mark.
	CheckMinHalfPoints int     `yaml:"check_min_half_points"`
	CheckWidthRatio    float64 `yaml:"check_width_ratio"`
	CheckMinAspect     float64 `yaml:"check_min_aspect"`
	CheckMaxAspect     float64 `yaml:"check_max_aspect"`

	// Star, one group per sufficient condition.
	StarA StarPolygon `yaml:"star_a"`
	StarB StarPolygon `yaml:"star_b"`
	StarC StarDefects `yaml:"star_c"`
	StarD StarPolygon `yaml:"star_d"`

	// Triangle.
	TriangleMinCorners     int     `yaml:"triangle_min_corners"`
	TriangleMaxCorners     int     `yaml:"triangle_max_corners"`
	TriangleMaxCircularity float64 `yaml:"triangle_max_circularity"`
	TriangleMinAspect      float64 `yaml:"triangle_min_aspect"`
	TriangleMaxAspect      float64 `yaml:"triangle_max_aspect"`

	// Square.
	SquareMinCorners  int     `yaml:"square_min_corners"`
	SquareMaxCorners  int     `yaml:"square_max_corners"`
	SquareMinAspect   float64 `yaml:"square_min_aspect"`
	SquareMaxAspect   float64 `yaml:"square_max_aspect"`
	SquareMinSolidity float64 `yaml:"square_min_solidity"`

	// Circle.
	CircleMinCircularity float64 `yaml:"circle_min_circularity"`
	CircleMinAspect      float64 `yaml:"circle_min_aspect"`
	CircleMaxAspect      float64 `yaml:"circle_max_aspect"`

	// Heart.
	HeartMinCircularity float64 `yaml:"heart_min_circularity"`
	HeartMaxCircularity float64 `yaml:"heart_max_circularity"`
	HeartMinAspect      float64 `yaml:"heart_min_aspect"`
	HeartMaxAspect      float64 `yaml:"heart_max_aspect"`
	HeartMaxSolidity    float64 `yaml:"heart_max_solidity"`
	HeartDefects        int     `yaml:"heart_defects"`

	// Vertical stroke.
	VerticalMaxAspect  float64 `yaml:"vertical_max_aspect"`
	VerticalMinCorners int     `yaml:"vertical_min_corners"`
}

// StarPolygon is a star condition over corner count, solidity and
// circularity. A zero MaxCircularity disables the circularity bound.
type StarPolygon struct {
	MinCorners     int     `yaml:"min_corners"`
	MaxCorners     int     `yaml:"max_corners"` // 0 means unbounded
	MaxSolidity    float64 `yaml:"max_solidity"`
	MaxCircularity float64 `yaml:"max_circularity"`
}

// StarDefects is the star condition driven by deep convexity defects.
type StarDefects struct {
	MinDeepDefects int `yaml:"min_deep_defects"`
	MinCorners     int `yaml:"min_corners"`
}

// DefaultThresholds returns the values tuned for a 720p canvas drawn with a
// 12 px brush.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BinaryThreshold: 10,
		KernelSize:      5,
		CloseIterations: 2,
		MinArea:         800,
		ApproxTolerance: 0.03,
		DeepDefectDepth: 900,
		MinStrokePoints: 20,

		CheckMinHalfPoints: 3,
		CheckWidthRatio:    1.2,
		CheckMinAspect:     1.0,
		CheckMaxAspect:     2.5,

		StarA: StarPolygon{MinCorners: 7, MaxCorners: 20, MaxSolidity: 0.75, MaxCircularity: 0.65},
		StarB: StarPolygon{MinCorners: 5, MaxCorners: 12, MaxSolidity: 0.60},
		StarC: StarDefects{MinDeepDefects: 4, MinCorners: 6},
		StarD: StarPolygon{MinCorners: 8, MaxSolidity: 0.80, MaxCircularity: 0.70},

		TriangleMinCorners:     3,
		TriangleMaxCorners:     4,
		TriangleMaxCircularity: 0.75,
		TriangleMinAspect:      0.7,
		TriangleMaxAspect:      1.5,

		SquareMinCorners:  4,
		SquareMaxCorners:  6,
		SquareMinAspect:   0.7,
		SquareMaxAspect:   1.3,
		SquareMinSolidity: 0.75,

		CircleMinCircularity: 0.70,
		CircleMinAspect:      0.75,
		CircleMaxAspect:      1.30,

		HeartMinCircularity: 0.40,
		HeartMaxCircularity: 0.75,
		HeartMinAspect:      0.70,
		HeartMaxAspect:      1.40,
		HeartMaxSolidity:    0.88,
		HeartDefects:        2,

		VerticalMaxAspect:  0.60,
		VerticalMinCorners: 6,
	}
}
