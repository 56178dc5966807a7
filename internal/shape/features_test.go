package shape

import (
	"image"
	"math"
	"testing"
)

func TestComputeFeatures_Degenerate(t *testing.T) {
	th := DefaultThresholds()

	f := ComputeFeatures(Contour{}, th)
	if f != (Features{}) {
		t.Errorf("empty contour features = %+v, want zero", f)
	}

	flat := Contour{
		Points: []image.Point{{10, 10}, {50, 10}},
		Bounds: image.Rect(10, 10, 51, 10),
	}
	f = ComputeFeatures(flat, th)
	if f.AspectRatio != 0 {
		t.Errorf("zero-height AspectRatio = %f, want 0", f.AspectRatio)
	}
	if f.Circularity != 0 || f.Solidity != 0 {
		t.Errorf("degenerate circularity/solidity = %f/%f, want 0/0", f.Circularity, f.Solidity)
	}
}

func TestComputeFeatures_Square(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV")
	}

	sq := Contour{
		Points: []image.Point{{100, 100}, {100, 300}, {300, 300}, {300, 100}},
		Bounds: image.Rect(100, 100, 301, 301),
		Area:   40000,
	}
	f := ComputeFeatures(sq, DefaultThresholds())

	if f.Corners != 4 {
		t.Errorf("Corners = %d, want 4", f.Corners)
	}
	if math.Abs(f.Circularity-math.Pi/4) > 0.01 {
		t.Errorf("Circularity = %f, want pi/4", f.Circularity)
	}
	if math.Abs(f.Solidity-1) > 0.01 {
		t.Errorf("Solidity = %f, want 1", f.Solidity)
	}
	if f.AspectRatio != 1 {
		t.Errorf("AspectRatio = %f, want 1", f.AspectRatio)
	}
	if f.DeepDefects != 0 {
		t.Errorf("DeepDefects = %d, want 0", f.DeepDefects)
	}
}

func TestComputeFeatures_StarDefects(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV")
	}

	pts := []image.Point{}
	for i := 0; i < 10; i++ {
		r := 120.0
		if i%2 == 1 {
			r = 46
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, image.Pt(320+int(math.Round(r*math.Cos(a))), 240+int(math.Round(r*math.Sin(a)))))
	}
	f := ComputeFeatures(Contour{Points: pts, Bounds: image.Rect(206, 120, 435, 218)}, DefaultThresholds())

	if f.Corners != 10 {
		t.Errorf("Corners = %d, want 10", f.Corners)
	}
	if f.DeepDefects != 5 {
		t.Errorf("DeepDefects = %d, want 5", f.DeepDefects)
	}
	if f.Solidity > 0.6 {
		t.Errorf("Solidity = %f, want < 0.6", f.Solidity)
	}
}

func TestMonotonic(t *testing.T) {
	tests := []struct {
		idx  []int
		want bool
	}{
		{[]int{0, 3, 7, 9}, true},
		{[]int{9, 7, 3, 0}, true},
		{[]int{5, 7, 9, 0, 2}, true},
		{[]int{2, 0, 9, 7, 5}, true},
		{[]int{0, 7, 3, 9}, false},
		{[]int{4, 1, 8, 2, 6}, false},
		{[]int{1, 1, 2}, false},
	}

	for _, tt := range tests {
		if got := monotonic(tt.idx); got != tt.want {
			t.Errorf("monotonic(%v) = %v, want %v", tt.idx, got, tt.want)
		}
	}
}

func TestComputeFeatures_SelfTouching(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV")
	}

	// A loop that closes onto itself: the outline passes through (320, 240)
	// twice, so hull indices need not follow contour order.
	pts := []image.Point{
		{200, 120}, {320, 240}, {440, 120}, {440, 360}, {320, 240},
		{200, 360}, {260, 240}, {320, 240}, {380, 240},
	}
	c := Contour{Points: pts, Bounds: image.Rect(200, 120, 441, 361)}

	f := ComputeFeatures(c, DefaultThresholds())

	if f.Corners == 0 {
		t.Error("expected corners for a self-touching outline")
	}
	if f.Defects < f.DeepDefects || f.DeepDefects < 0 {
		t.Errorf("Defects = %d, DeepDefects = %d, want 0 <= deep <= total", f.Defects, f.DeepDefects)
	}
	if f.AspectRatio != 1 {
		t.Errorf("AspectRatio = %f, want 1", f.AspectRatio)
	}
}
