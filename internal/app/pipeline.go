package app

import (
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/emojidraw/internal/capture"
	"github.com/ayusman/emojidraw/internal/emoji"
	"github.com/ayusman/emojidraw/internal/gesture"
	"github.com/ayusman/emojidraw/internal/logger"
	"github.com/ayusman/emojidraw/internal/server/api"
	"github.com/ayusman/emojidraw/internal/session"
	"github.com/ayusman/emojidraw/internal/store"
)

var (
	pointerIdle    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	pointerDrawing = color.RGBA{G: 255, A: 255}
)

// ProcessFrame runs one frame through the game and publishes the composed
// preview. The frame is drawn on but not closed.
func (a *App) ProcessFrame(frame *gocv.Mat) session.Outcome {
	return a.processFrame(frame, true)
}

// processFrame steps the session with the tracked hand when track is true;
// otherwise the frame is only composed.
//
// 1. Apply a pending clear request
// 2. Track the hand and derive the pinch pointer
// 3. Step the session (paint, or classify on release)
// 4. Record and broadcast any attempt
// 5. Compose canvas, pointer and popup onto the frame and publish it
func (a *App) processFrame(frame *gocv.Mat, track bool) session.Outcome {
	size := capture.Size(frame)
	a.ensureSession(size)

	select {
	case <-a.clearCh:
		a.session.Clear()
		logger.Logger.Debug("canvas cleared")
	default:
	}

	var out session.Outcome
	var pointer *gesture.Pointer

	if track && a.cfg.Tracker != nil {
		hands, err := a.cfg.Tracker.Track(frame)
		if err != nil {
			logger.WithError(err).Warn("hand tracking failed")
		} else {
			in := session.Input{}
			if len(hands) > 0 {
				p := a.pinch.Pointer(&hands[0], size)
				pointer = &p
				in = session.Input{HandVisible: true, Drawing: p.Pinching, Tip: p.Tip}
			}
			out = a.session.Step(in)
		}
	}

	if out.Attempted {
		a.record(out)
	}

	a.compose(frame, pointer)
	return out
}

// ensureSession creates the session on the first frame and recreates it
// when the frame size changes.
func (a *App) ensureSession(size image.Point) {
	if a.session != nil && a.session.Canvas().Size() == size {
		return
	}
	if a.session != nil {
		a.session.Close()
	}
	a.session = session.New(size.X, size.Y, a.cfg.Session)
	logger.WithFields(map[string]interface{}{
		"width":  size.X,
		"height": size.Y,
	}).Info("drawing session started")
}

// record stores the attempt and fans the result out.
func (a *App) record(out session.Outcome) {
	r := out.Result

	var id string
	if a.cfg.Store != nil {
		attempt := store.NewAttempt(store.SourceLive, r, out.Path)
		if err := a.cfg.Store.Attempts().Create(attempt); err != nil {
			logger.WithError(err).Warn("failed to record attempt")
		} else {
			id = attempt.ID
		}
	}

	msg := api.NewResult(id, store.SourceLive, r, len(out.Path))

	logger.WithFields(map[string]interface{}{
		"label":  r.Label.String(),
		"points": len(out.Path),
	}).Info("drawing classified")

	if a.cfg.Events != nil {
		a.cfg.Events.Broadcast(msg)
	}

	if !r.OK() {
		return
	}

	a.mu.Lock()
	a.last = msg
	a.hasLast = true
	callbacks := append([]func(api.Result){}, a.onShape...)
	a.mu.Unlock()

	for _, fn := range callbacks {
		fn(msg)
	}

	if a.cfg.Plugins != nil {
		a.cfg.Plugins.Notify(r)
	}
}

// compose draws the game state onto frame and publishes it as JPEG.
func (a *App) compose(frame *gocv.Mat, pointer *gesture.Pointer) {
	a.session.Canvas().Overlay(frame)

	if pointer != nil {
		col := pointerIdle
		if pointer.Pinching {
			col = pointerDrawing
		}
		gocv.Circle(frame, pointer.Tip, 8, col, 2)
	}

	if pf, ok := a.session.Popup().Advance(); ok {
		if e, found := emoji.ForShape(pf.Label); found && a.cfg.Emojis != nil {
			a.cfg.Emojis.Draw(frame, e.Key, pf.Position, pf.Alpha)
		}
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame, []int{gocv.IMWriteJpegQuality, a.cfg.PreviewQuality})
	if err != nil {
		logger.WithError(err).Debug("preview encode failed")
		return
	}
	defer buf.Close()

	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	a.publish(jpeg)
}

// throttle tracks whether the loop runs at the active or the idle rate.
type throttle struct {
	enabled    bool
	active     bool
	timeout    time.Duration
	lastMotion time.Time
}

// newThrottle starts active. A disabled throttle stays active forever.
func newThrottle(enabled bool, timeout time.Duration, now time.Time) *throttle {
	return &throttle{enabled: enabled, active: true, timeout: timeout, lastMotion: now}
}

// update records one frame and reports whether the mode changed. Motion or
// a drawing in progress keeps the loop active; IdleTimeout without either
// switches to idle.
func (t *throttle) update(motion, busy bool, now time.Time) bool {
	if !t.enabled {
		return false
	}

	if motion || busy {
		t.lastMotion = now
		if !t.active {
			t.active = true
			return true
		}
		return false
	}

	if t.active && now.Sub(t.lastMotion) > t.timeout {
		t.active = false
		return true
	}
	return false
}
