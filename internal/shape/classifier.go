package shape

// Predicate decides whether a contour with the given features belongs to a
// rule's label.
type Predicate func(f Features, c Contour, t Thresholds) bool

// Rule pairs a label with the predicate that selects it.
type Rule struct {
	Label Label
	Match Predicate
}

// DefaultRules returns the decision list in priority order. Check-mark and
// star come first because their features overlap with the convex shapes
// further down.
func DefaultRules() []Rule {
	return []Rule{
		{Label: CheckMark, Match: isCheckMark},
		{Label: Star, Match: isStar},
		{Label: Triangle, Match: isTriangle},
		{Label: Square, Match: isSquare},
		{Label: Circle, Match: isCircle},
		{Label: Heart, Match: isHeart},
		{Label: VerticalStroke, Match: isVerticalStroke},
	}
}

// Classifier walks an ordered rule list and returns the first label whose
// predicate holds.
type Classifier struct {
	thresholds Thresholds
	rules      []Rule
}

// NewClassifier creates a classifier using DefaultRules.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t, rules: DefaultRules()}
}

// NewClassifierWithRules creates a classifier with a custom rule order.
func NewClassifierWithRules(t Thresholds, rules []Rule) *Classifier {
	return &Classifier{thresholds: t, rules: rules}
}

// Thresholds returns the table the classifier was built with.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify returns the label of the first matching rule, or None.
func (c *Classifier) Classify(f Features, contour Contour) Label {
	for _, r := range c.rules {
		if r.Match(f, contour, c.thresholds) {
			return r.Label
		}
	}
	return None
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func cornersWithin(n, lo, hi int) bool {
	return n >= lo && (hi == 0 || n <= hi)
}

// span tracks the horizontal extent of a set of points.
type span struct {
	min, max, n int
}

func (s *span) add(x int) {
	if s.n == 0 || x < s.min {
		s.min = x
	}
	if s.n == 0 || x > s.max {
		s.max = x
	}
	s.n++
}

func (s span) width() int {
	if s.n == 0 {
		return 0
	}
	return s.max - s.min
}

// isCheckMark looks for a V: the top half of the outline is markedly wider
// than the bottom half.
func isCheckMark(f Features, c Contour, t Thresholds) bool {
	if f.AspectRatio <= t.CheckMinAspect || f.AspectRatio >= t.CheckMaxAspect {
		return false
	}
	b := c.Bounds
	if len(c.Points) < 2*t.CheckMinHalfPoints || b.Dx() <= 0 || b.Dy() <= 0 {
		return false
	}

	midY := b.Min.Y + b.Dy()/2
	var top, bottom span
	for _, p := range c.Points {
		if p.Y < midY {
			top.add(p.X)
		} else {
			bottom.add(p.X)
		}
	}
	if top.n < t.CheckMinHalfPoints || bottom.n < t.CheckMinHalfPoints {
		return false
	}
	return bottom.width() > 0 && float64(top.width())/float64(bottom.width()) > t.CheckWidthRatio
}

func starPolygon(f Features, p StarPolygon) bool {
	if !cornersWithin(f.Corners, p.MinCorners, p.MaxCorners) {
		return false
	}
	if f.Solidity >= p.MaxSolidity {
		return false
	}
	return p.MaxCircularity == 0 || f.Circularity < p.MaxCircularity
}

func isStar(f Features, _ Contour, t Thresholds) bool {
	if starPolygon(f, t.StarA) || starPolygon(f, t.StarB) || starPolygon(f, t.StarD) {
		return true
	}
	return f.DeepDefects >= t.StarC.MinDeepDefects && f.Corners >= t.StarC.MinCorners
}

func isTriangle(f Features, _ Contour, t Thresholds) bool {
	return cornersWithin(f.Corners, t.TriangleMinCorners, t.TriangleMaxCorners) &&
		f.Circularity < t.TriangleMaxCircularity &&
		within(f.AspectRatio, t.TriangleMinAspect, t.TriangleMaxAspect)
}

func isSquare(f Features, _ Contour, t Thresholds) bool {
	return cornersWithin(f.Corners, t.SquareMinCorners, t.SquareMaxCorners) &&
		within(f.AspectRatio, t.SquareMinAspect, t.SquareMaxAspect) &&
		f.Solidity > t.SquareMinSolidity
}

func isCircle(f Features, _ Contour, t Thresholds) bool {
	return f.Circularity > t.CircleMinCircularity &&
		within(f.AspectRatio, t.CircleMinAspect, t.CircleMaxAspect)
}

func isHeart(f Features, _ Contour, t Thresholds) bool {
	return within(f.Circularity, t.HeartMinCircularity, t.HeartMaxCircularity) &&
		within(f.AspectRatio, t.HeartMinAspect, t.HeartMaxAspect) &&
		f.Solidity < t.HeartMaxSolidity &&
		f.DeepDefects == t.HeartDefects
}

func isVerticalStroke(f Features, _ Contour, t Thresholds) bool {
	return f.AspectRatio < t.VerticalMaxAspect && f.Corners >= t.VerticalMinCorners
}
