package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"image"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/emojidraw/internal/app"
	"github.com/ayusman/emojidraw/internal/capture"
	"github.com/ayusman/emojidraw/internal/emoji"
	"github.com/ayusman/emojidraw/internal/hand"
	"github.com/ayusman/emojidraw/internal/plugin"
	"github.com/ayusman/emojidraw/internal/server"
	"github.com/ayusman/emojidraw/internal/server/api"
	"github.com/ayusman/emojidraw/internal/shape"
	"github.com/ayusman/emojidraw/internal/store"
	"github.com/ayusman/emojidraw/testdata"
)

// circleHands returns pinching hands tracing a circle of radius r pixels
// around the center of a testdata-sized frame.
func circleHands(r float64, n int) [][]hand.Landmarks {
	frames := make([][]hand.Landmarks, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x := (float64(testdata.Width)/2 + r*math.Cos(a)) / testdata.Width
		y := (float64(testdata.Height)/2 + r*math.Sin(a)) / testdata.Height
		frames = append(frames, []hand.Landmarks{hand.PinchLandmarks(x, y, 0.02)})
	}
	return frames
}

// rewardPlugin installs a plugin that appends every request to a file.
func rewardPlugin(t *testing.T, dir string) string {
	t.Helper()

	pluginDir := filepath.Join(dir, "recorder")
	require.NoError(t, os.MkdirAll(pluginDir, 0755))

	out := filepath.Join(dir, "rewards")
	manifest := `{"name":"recorder","version":"1.0.0","executable":"run.sh","shapes":["circle"]}`
	script := "#!/bin/sh\ncat >> " + out + "\necho >> " + out + "\necho '{\"success\":true}'\n"

	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "run.sh"), []byte(script), 0755))
	return out
}

func TestE2E_LiveDrawing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	require.NoError(t, err)
	defer s.Close()

	// Plugins
	rewards := rewardPlugin(t, filepath.Join(tmpDir, "plugins"))
	manager := plugin.NewManager(filepath.Join(tmpDir, "plugins"))
	require.NoError(t, manager.Discover())
	require.Len(t, manager.List(), 1)
	dispatcher := plugin.NewDispatcher(manager, plugin.NewExecutor(5*time.Second), 0)

	// Camera and tracker
	blank := testdata.Blank()
	defer blank.Close()
	cam := capture.NewMockCamera([]*gocv.Mat{&blank}, true)
	cam.SetFPS(100)

	tracker := hand.NewMockTracker()
	tracker.SetHands([]hand.Landmarks{hand.OpenHandLandmarks()})

	hub := server.NewHub()
	lib := emoji.NewLibrary(0)

	game := app.New(app.Config{
		Camera:  cam,
		Tracker: tracker,
		Store:   s,
		Events:  hub,
		Emojis:  lib,
		Plugins: dispatcher,
	})
	defer game.Close()

	srv := server.New(server.Config{
		Store:   s,
		Emojis:  lib,
		Preview: game,
		Events:  hub,
		Canvas:  game,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// Subscribe before drawing
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() < 1 {
		require.False(t, time.Now().After(deadline), "subscriber not registered")
		time.Sleep(10 * time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	tracker.Queue(circleHands(100, 60)...)

	done := make(chan error, 1)
	go func() { done <- game.Run(ctx) }()

	t.Run("Event", func(t *testing.T) {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))

		var event api.Result
		require.NoError(t, conn.ReadJSON(&event))

		assert.Equal(t, shape.Circle, event.Label)
		assert.Equal(t, store.SourceLive, event.Source)
		require.NotNil(t, event.Emoji)
		assert.Equal(t, "smile", event.Emoji.Key)
		assert.NotEmpty(t, event.ID)
	})

	t.Run("Attempts", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/attempts")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list struct {
			Attempts []struct {
				ID     string `json:"id"`
				Label  string `json:"label"`
				Source string `json:"source"`
			} `json:"attempts"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		require.Len(t, list.Attempts, 1)
		assert.Equal(t, "circle", list.Attempts[0].Label)
		assert.Equal(t, "live", list.Attempts[0].Source)
	})

	t.Run("Reward", func(t *testing.T) {
		deadline := time.Now().Add(5 * time.Second)
		for dispatcher.Handled() < 1 {
			require.False(t, time.Now().After(deadline), "plugin not run")
			time.Sleep(10 * time.Millisecond)
		}

		data, err := os.ReadFile(rewards)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"shape":"circle"`)
		assert.Contains(t, string(data), `"emoji":"smile"`)
	})

	t.Run("Stream", func(t *testing.T) {
		streamCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()

		req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, ts.URL+"/api/stream", nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Contains(t, resp.Header.Get("Content-Type"), "multipart/x-mixed-replace")

		r := bufio.NewReader(resp.Body)
		found := false
		for !found {
			line, err := r.ReadString('\n')
			require.NoError(t, err)
			found = strings.HasPrefix(line, "Content-Type: image/jpeg")
		}
	})

	t.Run("ClearAndToggle", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/canvas/clear", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)

		game.SetEnabled(false)
		assert.False(t, s.Settings().Bool(store.SettingEnabled, true))
		game.SetEnabled(true)
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("frame loop did not stop")
	}
	assert.False(t, cam.IsOpen(), "camera left open")

	// The server keeps serving history after the loop stops
	resp, err := client.Get(ts.URL + "/api/attempts/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var stats struct {
		Total  int            `json:"total"`
		Labels map[string]int `json:"labels"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Labels["circle"])
}

func TestE2E_UploadClassification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer s.Close()

	srv := server.New(server.Config{Store: s, Emojis: emoji.NewLibrary(0)})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	star := testdata.Star(image.Pt(testdata.Width/2, testdata.Height/2), 120, 0.382)
	body, err := testdata.PNG(star)
	star.Close()
	require.NoError(t, err)

	resp, err := ts.Client().Post(ts.URL+"/api/classify", "image/png", strings.NewReader(string(body)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, shape.Star, result.Label)
	assert.Equal(t, store.SourceUpload, result.Source)
	require.NotNil(t, result.Emoji)
	assert.Equal(t, "star", result.Emoji.Key)

	stored, err := s.Attempts().GetByID(result.ID)
	require.NoError(t, err)
	assert.Equal(t, shape.Star, stored.Label)
	assert.Empty(t, stored.Path)
}
