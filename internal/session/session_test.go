package session

import (
	"image"
	"math"
	"testing"

	"github.com/ayusman/emojidraw/internal/gesture"
	"github.com/ayusman/emojidraw/internal/shape"
)

func drawing(p image.Point) Input {
	return Input{HandVisible: true, Drawing: true, Tip: p}
}

var released = Input{HandVisible: true}

func circlePath(center image.Point, r float64, n int) []image.Point {
	pts := make([]image.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, image.Pt(
			center.X+int(math.Round(r*math.Cos(a))),
			center.Y+int(math.Round(r*math.Sin(a))),
		))
	}
	return pts
}

func TestSession_DrawCircle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	s := New(640, 480, DefaultConfig())
	defer s.Close()

	path := circlePath(image.Pt(320, 240), 100, 60)
	for i, p := range path {
		out := s.Step(drawing(p))
		if !out.Painted {
			t.Fatalf("frame %d not painted", i)
		}
		if i == 0 && out.Edge != gesture.Pressed {
			t.Errorf("first frame edge = %v, want pressed", out.Edge)
		}
		if out.Attempted {
			t.Fatalf("classified while drawing at frame %d", i)
		}
	}

	out := s.Step(released)
	if out.Edge != gesture.Released || !out.Attempted {
		t.Fatalf("release outcome = %+v, want an attempt", out)
	}
	if out.Result.Label != shape.Circle {
		t.Errorf("Label = %v, want circle (features %+v)", out.Result.Label, out.Result.Features)
	}
	if s.Canvas().IsInked() {
		t.Error("canvas not cleared after classification")
	}
	if s.Stroke().Len() != 0 {
		t.Errorf("stroke has %d points after classification", s.Stroke().Len())
	}
	if !s.Popup().Active() {
		t.Error("popup not started")
	}
	if last, ok := s.Last(); !ok || last.Label != shape.Circle {
		t.Errorf("Last() = %v, %v", last.Label, ok)
	}

	// Staying released never classifies again.
	for i := 0; i < 5; i++ {
		if s.Step(released).Attempted {
			t.Fatal("classified twice for one release")
		}
	}
}

func TestSession_ShortStrokeNotClassified(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	s := New(640, 480, DefaultConfig())
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.Step(drawing(image.Pt(300+i, 200)))
	}

	out := s.Step(released)
	if !out.Attempted {
		t.Fatal("release did not produce an attempt")
	}
	if out.Result.OK() {
		t.Errorf("Label = %v, want none", out.Result.Label)
	}
	if len(out.Path) >= DefaultConfig().Thresholds.MinStrokePoints {
		t.Errorf("len(Path) = %d, want a short stroke", len(out.Path))
	}
	if s.Canvas().IsInked() {
		t.Error("canvas not cleared after a failed attempt")
	}
	if s.Popup().Active() {
		t.Error("popup started for a failed attempt")
	}
}

func TestSession_HandLost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	s := New(640, 480, DefaultConfig())
	defer s.Close()

	for i := 0; i < 30; i++ {
		s.Step(drawing(image.Pt(100+i*5, 200)))
	}
	n := s.Stroke().Len()

	if out := s.Step(Input{}); out.Attempted {
		t.Fatal("classified when the hand was lost")
	}
	if s.Drawing() {
		t.Error("still drawing after the hand was lost")
	}
	if !s.Canvas().IsInked() {
		t.Error("ink erased when the hand was lost")
	}

	// Reappearing without the gesture is not a release.
	if out := s.Step(released); out.Attempted || out.Edge != gesture.NoEdge {
		t.Errorf("reappearing hand outcome = %+v, want nothing", out)
	}

	// Drawing elsewhere starts a new segment with no bridge.
	s.Step(drawing(image.Pt(100, 400)))
	if got := s.Stroke().Len(); got != n+1 {
		t.Errorf("Len() = %d, want %d (one stamp, no bridging line)", got, n+1)
	}
}

func TestSession_Clear(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	s := New(640, 480, DefaultConfig())
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.Step(drawing(image.Pt(200, 100+i*5)))
	}
	s.Clear()

	if s.Canvas().IsInked() || s.Stroke().Len() != 0 {
		t.Error("Clear() left the drawing behind")
	}

	// The gesture is still held; the next point starts fresh.
	out := s.Step(drawing(image.Pt(400, 300)))
	if out.Point != image.Pt(400, 300) {
		t.Errorf("Point after Clear = %v, want unsmoothed (400,300)", out.Point)
	}
}
