package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector_Defaults(t *testing.T) {
	tests := []struct {
		name string
		cfg  MotionConfig
		want MotionConfig
	}{
		{
			name: "zero config",
			cfg:  MotionConfig{},
			want: DefaultMotionConfig(),
		},
		{
			name: "even blur replaced",
			cfg:  MotionConfig{Threshold: 5, BlurSize: 10, DiffThreshold: 40},
			want: MotionConfig{Threshold: 5, BlurSize: 21, DiffThreshold: 40},
		},
		{
			name: "custom kept",
			cfg:  MotionConfig{Threshold: 0.5, BlurSize: 11, DiffThreshold: 10},
			want: MotionConfig{Threshold: 0.5, BlurSize: 11, DiffThreshold: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.cfg)
			defer md.Close()

			if md.cfg != tt.want {
				t.Errorf("cfg = %+v, want %+v", md.cfg, tt.want)
			}
			if md.initialized {
				t.Error("motion detector should not be initialized initially")
			}
		})
	}
}

func blankFrame(v float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), 480, 640, gocv.MatTypeCV8UC3)
}

func TestMotionDetector_NoMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(DefaultMotionConfig())
	defer md.Close()

	frame1 := blankFrame(0)
	defer frame1.Close()
	frame2 := blankFrame(0)
	defer frame2.Close()

	if detected, changed := md.Detect(&frame1); detected || changed != 0 {
		t.Errorf("first frame = %v, %f, want baseline only", detected, changed)
	}
	if detected, changed := md.Detect(&frame2); detected {
		t.Errorf("identical frames detected motion, changed = %f", changed)
	}
}

func TestMotionDetector_WithMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(DefaultMotionConfig())
	defer md.Close()

	black := blankFrame(0)
	defer black.Close()
	white := blankFrame(255)
	defer white.Close()

	md.Detect(&black)
	detected, changed := md.Detect(&white)
	if !detected {
		t.Errorf("black to white should detect motion, changed = %f", changed)
	}
	if changed < 50.0 {
		t.Errorf("changed = %f, expected > 50%%", changed)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(DefaultMotionConfig())
	defer md.Close()

	black := blankFrame(0)
	defer black.Close()
	white := blankFrame(255)
	defer white.Close()

	md.Detect(&black)
	md.Reset()

	if detected, _ := md.Detect(&white); detected {
		t.Error("first frame after Reset should only set the baseline")
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(DefaultMotionConfig())

	md.Close()
	md.Close()
}

func TestMotionDetector_NilFrame(t *testing.T) {
	md := NewMotionDetector(DefaultMotionConfig())
	defer md.Close()

	if detected, changed := md.Detect(nil); detected || changed != 0 {
		t.Errorf("Detect(nil) = %v, %f", detected, changed)
	}
}
