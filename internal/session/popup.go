package session

import (
	"image"

	"github.com/ayusman/emojidraw/internal/shape"
)

// PopupConfig controls the feedback animation shown after a match.
type PopupConfig struct {
	Frames    int     `yaml:"frames"`
	Fall      int     `yaml:"fall"`       // pixels travelled over the animation
	FadeStart float64 `yaml:"fade_start"` // progress at which fading begins
}

// DefaultPopupConfig returns a 75 frame animation that falls 250 px and
// fades over its last 40%.
func DefaultPopupConfig() PopupConfig {
	return PopupConfig{
		Frames:    75,
		Fall:      250,
		FadeStart: 0.6,
	}
}

// PopupFrame is what to draw for one frame of the animation.
type PopupFrame struct {
	Label    shape.Label
	Position image.Point
	Alpha    float64
}

// Popup animates the last matched label falling from its drawing's center.
type Popup struct {
	cfg       PopupConfig
	label     shape.Label
	center    image.Point
	remaining int
}

// NewPopup creates an idle popup.
func NewPopup(cfg PopupConfig) *Popup {
	if cfg.Frames <= 0 {
		cfg.Frames = DefaultPopupConfig().Frames
	}
	return &Popup{cfg: cfg}
}

// Start restarts the animation for label at center.
func (p *Popup) Start(label shape.Label, center image.Point) {
	p.label = label
	p.center = center
	p.remaining = p.cfg.Frames
}

// Active reports whether frames remain.
func (p *Popup) Active() bool {
	return p.remaining > 0
}

// Stop ends the animation.
func (p *Popup) Stop() {
	p.remaining = 0
}

// Advance returns the current frame and moves to the next one. It returns
// false when the animation is idle.
func (p *Popup) Advance() (PopupFrame, bool) {
	if p.remaining <= 0 {
		return PopupFrame{}, false
	}

	progress := 1 - float64(p.remaining)/float64(p.cfg.Frames)
	alpha := 1.0
	if progress > p.cfg.FadeStart && p.cfg.FadeStart < 1 {
		alpha = 1 - (progress-p.cfg.FadeStart)/(1-p.cfg.FadeStart)
	}

	f := PopupFrame{
		Label: p.label,
		Position: image.Point{
			X: p.center.X,
			Y: p.center.Y + int(progress*float64(p.cfg.Fall)),
		},
		Alpha: alpha,
	}

	p.remaining--
	return f, true
}
