package hand

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ayusman/emojidraw/internal/logger"
)

const scriptName = "hand_service.py"

// ErrScriptNotFound is returned when the tracker service cannot be located.
var ErrScriptNotFound = errors.New(scriptName + " not found")

// MediaPipeTracker implements Tracker using a Python MediaPipe subprocess.
//
// Each frame is written to the subprocess stdin as a 4-byte big-endian length
// followed by JPEG bytes; the subprocess answers with one JSON line.
type MediaPipeTracker struct {
	config    Config
	script    string
	python    string
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeTracker creates a tracker. The Python process is started
// lazily on the first frame.
func NewMediaPipeTracker(config Config) (*MediaPipeTracker, error) {
	script := config.Script
	if script == "" {
		script = findScript()
	}
	if script == "" {
		return nil, ErrScriptNotFound
	}
	if _, err := os.Stat(script); err != nil {
		return nil, errors.Wrapf(ErrScriptNotFound, "stat %s", script)
	}

	python := config.Python
	if python == "" {
		python = findVenvPython()
	}
	if python == "" {
		python = "python3"
	}

	return &MediaPipeTracker{
		config: config,
		script: script,
		python: python,
	}, nil
}

// Track sends a frame to the service and returns the hands it reports.
func (t *MediaPipeTracker) Track(frame *gocv.Mat) ([]Landmarks, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, errors.Wrap(err, "encode frame")
	}
	defer buf.Close()

	if err := writeFrame(t.stdin, buf.GetBytes()); err != nil {
		t.abort()
		return nil, err
	}

	hands, err := readHands(t.stdout)
	if err != nil {
		t.abort()
		return nil, err
	}

	t.resetIdleTimer()
	return hands, nil
}

// Close shuts down the Python process.
func (t *MediaPipeTracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shutdown()
}

func (t *MediaPipeTracker) ensureStarted() error {
	if t.started {
		return nil
	}

	t.cmd = exec.Command(t.python, t.script,
		"--max-hands", strconv.Itoa(t.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(t.config.MinConfidence, 'f', 2, 64),
		"--min-tracking-confidence", strconv.FormatFloat(t.config.MinTrackingConf, 'f', 2, 64),
	)

	stdin, err := t.cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, "create stdin pipe")
	}

	stdout, err := t.cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "create stdout pipe")
	}

	t.cmd.Stderr = os.Stderr

	if err := t.cmd.Start(); err != nil {
		return errors.Wrap(err, "start hand tracker")
	}

	logger.WithFields(map[string]interface{}{
		"python": t.python,
		"script": t.script,
		"pid":    t.cmd.Process.Pid,
	}).Info("hand tracker started")

	t.stdin = stdin
	t.stdout = bufio.NewReader(stdout)
	t.started = true

	return nil
}

// abort kills a service that broke the protocol so the next frame starts a
// fresh one.
func (t *MediaPipeTracker) abort() {
	if t.cmd != nil && t.cmd.Process != nil {
		t.cmd.Process.Kill()
	}
	if err := t.shutdown(); err != nil {
		logger.WithError(err).Debug("hand tracker exited")
	}
}

func (t *MediaPipeTracker) shutdown() error {
	if !t.started {
		return nil
	}

	if t.idleTimer != nil {
		t.idleTimer.Stop()
		t.idleTimer = nil
	}

	if t.stdin != nil {
		t.stdin.Close()
	}

	err := t.cmd.Wait()
	t.started = false
	t.cmd = nil
	t.stdin = nil
	t.stdout = nil

	return err
}

func (t *MediaPipeTracker) resetIdleTimer() {
	if t.config.IdleTimeout <= 0 {
		return
	}
	if t.idleTimer != nil {
		t.idleTimer.Stop()
	}
	t.idleTimer = time.AfterFunc(t.config.IdleTimeout, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		logger.Logger.Info("hand tracker idle, stopping")
		t.shutdown()
	})
}

// writeFrame writes one length-prefixed frame.
func writeFrame(w io.Writer, data []byte) error {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := w.Write(length); err != nil {
		return errors.Wrap(err, "write length")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write data")
	}
	return nil
}

// readHands reads one JSON response line.
func readHands(r *bufio.Reader) ([]Landmarks, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	var response struct {
		Hands []jsonHand `json:"hands"`
		Error string     `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, errors.Wrap(err, "parse response")
	}
	if response.Error != "" {
		return nil, errors.Errorf("hand tracker: %s", response.Error)
	}

	hands := make([]Landmarks, len(response.Hands))
	for i, h := range response.Hands {
		hands[i] = h.toLandmarks()
	}
	return hands, nil
}

func findScript() string {
	var execDir string
	if execPath, err := os.Executable(); err == nil {
		execDir = filepath.Dir(execPath)
	}

	return firstExisting(
		filepath.Join("scripts", scriptName),
		filepath.Join("..", "scripts", scriptName),
		filepath.Join(execDir, "scripts", scriptName),
		filepath.Join(os.Getenv("HOME"), ".emojidraw", "scripts", scriptName),
	)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	var execDir string
	if execPath, err := os.Executable(); err == nil {
		execDir = filepath.Dir(execPath)
	}

	return firstExisting(
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".emojidraw", "venv", "bin", "python"),
	)
}

func firstExisting(candidates ...string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

// jsonHand is the wire form of one hand.
type jsonHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

func (h jsonHand) toLandmarks() Landmarks {
	lm := Landmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	copy(lm.Points[:], h.Points)
	return lm
}
