// Package app runs the emojidraw game: it reads camera frames, tracks the
// hand, steps the drawing session and publishes the results.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ayusman/emojidraw/internal/capture"
	"github.com/ayusman/emojidraw/internal/emoji"
	"github.com/ayusman/emojidraw/internal/gesture"
	"github.com/ayusman/emojidraw/internal/hand"
	"github.com/ayusman/emojidraw/internal/logger"
	"github.com/ayusman/emojidraw/internal/plugin"
	"github.com/ayusman/emojidraw/internal/server/api"
	"github.com/ayusman/emojidraw/internal/session"
	"github.com/ayusman/emojidraw/internal/store"
)

// Frame loop defaults.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// IdleTimeout is how long without motion before switching to idle mode.
	IdleTimeout = 2 * time.Second
	// PreviewQuality is the default JPEG quality of the preview.
	PreviewQuality = 80
)

// Broadcaster publishes classification results to subscribers.
type Broadcaster interface {
	Broadcast(v interface{})
}

// Config holds the collaborators and settings of the App.
type Config struct {
	Camera  capture.Camera
	Tracker hand.Tracker

	// Motion enables idle throttling when set.
	Motion *capture.MotionDetector

	Session       session.Config
	PinchDistance float64

	// Optional sinks for results.
	Store   *store.Store
	Events  Broadcaster
	Emojis  *emoji.Library
	Plugins *plugin.Dispatcher

	IdleFPS        int
	IdleTimeout    time.Duration
	PreviewQuality int
}

// App is the frame-synchronous game loop. The session and its canvas are
// only touched by the goroutine running Run or ProcessFrame; other
// goroutines interact through RequestClear, SetEnabled and Preview.
type App struct {
	cfg     Config
	pinch   *gesture.PinchDetector
	session *session.Session
	clearCh chan struct{}

	mu      sync.RWMutex
	enabled bool
	last    api.Result
	hasLast bool
	onShape []func(api.Result)

	previewMu sync.RWMutex
	preview   []byte
}

// New creates an App. The enabled state is restored from the store when
// one is configured.
func New(cfg Config) *App {
	if cfg.IdleFPS <= 0 {
		cfg.IdleFPS = IdleFPS
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = IdleTimeout
	}
	if cfg.PreviewQuality <= 0 || cfg.PreviewQuality > 100 {
		cfg.PreviewQuality = PreviewQuality
	}
	if cfg.Session == (session.Config{}) {
		cfg.Session = session.DefaultConfig()
	}

	enabled := true
	if cfg.Store != nil {
		enabled = cfg.Store.Settings().Bool(store.SettingEnabled, true)
	}

	return &App{
		cfg:     cfg,
		pinch:   gesture.NewPinchDetector(cfg.PinchDistance),
		clearCh: make(chan struct{}, 1),
		enabled: enabled,
	}
}

// SetEnabled pauses or resumes the game and persists the choice.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if a.cfg.Store != nil {
		if err := a.cfg.Store.Settings().SetBool(store.SettingEnabled, enabled); err != nil {
			logger.WithError(err).Warn("failed to persist enabled state")
		}
	}
	logger.WithField("enabled", enabled).Info("game toggled")
}

// IsEnabled returns whether frames are being processed.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// RequestClear asks the frame loop to discard the current drawing. It never
// blocks; repeated requests before the next frame collapse into one.
func (a *App) RequestClear() {
	select {
	case a.clearCh <- struct{}{}:
	default:
	}
}

// OnShape registers fn to be called on the frame loop for every recognized
// shape.
func (a *App) OnShape(fn func(api.Result)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onShape = append(a.onShape, fn)
}

// Last returns the most recent recognized shape.
func (a *App) Last() (api.Result, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last, a.hasLast
}

// Preview returns the latest composed frame as JPEG. The slice is never
// modified after publication.
func (a *App) Preview() []byte {
	a.previewMu.RLock()
	defer a.previewMu.RUnlock()
	return a.preview
}

func (a *App) publish(jpeg []byte) {
	a.previewMu.Lock()
	a.preview = jpeg
	a.previewMu.Unlock()
}

// Session returns the drawing session, or nil before the first frame.
func (a *App) Session() *session.Session {
	return a.session
}

// Run opens the camera and processes frames until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.cfg.Camera.Open(); err != nil {
		return errors.Wrap(err, "open camera")
	}
	defer a.cfg.Camera.Close()

	activeFPS := a.cfg.Camera.FPS()
	if activeFPS <= 0 {
		activeFPS = capture.DefaultFPS
	}

	th := newThrottle(a.cfg.Motion != nil, a.cfg.IdleTimeout, time.Now())
	fps := activeFPS
	if !th.active {
		fps = a.cfg.IdleFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	logger.WithField("fps", fps).Info("frame loop started")

	for {
		select {
		case <-ctx.Done():
			logger.Logger.Info("frame loop stopped")
			return nil
		case <-ticker.C:
		}

		if !a.IsEnabled() {
			continue
		}

		frame, err := a.cfg.Camera.ReadFrame()
		if err != nil {
			logger.WithError(err).Debug("frame read failed")
			continue
		}

		motion := true
		if a.cfg.Motion != nil {
			motion, _ = a.cfg.Motion.Detect(frame)
		}
		busy := a.session != nil && a.session.Drawing()

		if th.update(motion, busy, time.Now()) {
			fps = a.cfg.IdleFPS
			if th.active {
				fps = activeFPS
			}
			a.cfg.Camera.SetFPS(fps)
			ticker.Reset(time.Second / time.Duration(fps))
			logger.WithFields(map[string]interface{}{
				"active": th.active,
				"fps":    fps,
			}).Debug("frame rate changed")
		}

		a.processFrame(frame, th.active)
		frame.Close()
	}
}

// Close releases the session and the tracker.
func (a *App) Close() error {
	var err error
	if a.session != nil {
		err = a.session.Close()
		a.session = nil
	}
	if a.cfg.Tracker != nil {
		if terr := a.cfg.Tracker.Close(); terr != nil && err == nil {
			err = terr
		}
	}
	if a.cfg.Motion != nil {
		a.cfg.Motion.Close()
	}
	return err
}
