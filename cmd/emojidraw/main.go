package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/emojidraw/internal/app"
	"github.com/ayusman/emojidraw/internal/capture"
	"github.com/ayusman/emojidraw/internal/config"
	"github.com/ayusman/emojidraw/internal/emoji"
	"github.com/ayusman/emojidraw/internal/hand"
	"github.com/ayusman/emojidraw/internal/logger"
	"github.com/ayusman/emojidraw/internal/plugin"
	"github.com/ayusman/emojidraw/internal/server"
	"github.com/ayusman/emojidraw/internal/server/api"
	"github.com/ayusman/emojidraw/internal/shape"
	"github.com/ayusman/emojidraw/internal/store"
	"github.com/ayusman/emojidraw/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	noTray := flag.Bool("no-tray", false, "run without the system tray")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emojidraw: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.JSON)

	if err := run(cfg, cfg.Tray && !*noTray); err != nil {
		logger.WithError(err).Fatal("emojidraw stopped")
	}
}

func run(cfg *config.Config, withTray bool) error {
	logger.Logger.Info("emojidraw - pinch to draw, release to earn an emoji")

	var st *store.Store
	if cfg.Store.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
			return errors.Wrap(err, "create data directory")
		}
		s, err := store.New(cfg.Store.Path)
		if err != nil {
			return errors.Wrap(err, "open store")
		}
		defer s.Close()
		st = s
	}

	lib, _ := emoji.Load(cfg.Emoji.Dir, cfg.Emoji.Size)

	tracker := newTracker(cfg.Tracker)

	motion := capture.NewMotionDetector(cfg.Motion)
	defer motion.Close()

	sessionCfg, err := cfg.Session()
	if err != nil {
		return err
	}

	var dispatcher *plugin.Dispatcher
	if cfg.Plugins.Dir != "" {
		manager := plugin.NewManager(cfg.Plugins.Dir)
		if err := manager.Discover(); err != nil {
			logger.WithError(err).Warn("plugin discovery failed")
		} else {
			logger.WithField("count", len(manager.List())).Info("plugins discovered")
		}
		dispatcher = plugin.NewDispatcher(manager, plugin.NewExecutor(cfg.Plugins.Timeout), plugin.DefaultQueueSize)
	}

	hub := server.NewHub()

	game := app.New(app.Config{
		Camera:         capture.NewCamera(cfg.Camera),
		Tracker:        tracker,
		Motion:         motion,
		Session:        sessionCfg,
		PinchDistance:  cfg.Pinch.Distance,
		Store:          st,
		Events:         hub,
		Emojis:         lib,
		Plugins:        dispatcher,
		IdleFPS:        cfg.Loop.IdleFPS,
		IdleTimeout:    cfg.Loop.IdleTimeout,
		PreviewQuality: cfg.Loop.PreviewQuality,
	})
	defer game.Close()

	webDir := findWebDir(cfg.Server.StaticDir)
	if webDir != "" {
		logger.WithField("dir", webDir).Info("serving static files")
	}

	srv := server.New(server.Config{
		StaticDir:      webDir,
		Store:          st,
		Detector:       shape.NewDetector(cfg.Shape),
		Emojis:         lib,
		Preview:        game,
		Events:         hub,
		Canvas:         game,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", cfg.Server.Addr).Info("starting server")
		return srv.Run(ctx, cfg.Server.Addr)
	})
	g.Go(func() error {
		// Uploads keep working without a camera.
		if err := game.Run(ctx); err != nil {
			logger.WithError(err).Error("frame loop stopped, live drawing unavailable")
		}
		return nil
	})
	if dispatcher != nil {
		g.Go(func() error {
			return dispatcher.Run(ctx)
		})
	}

	if !withTray {
		return g.Wait()
	}

	t := tray.New()
	t.SetEnabled(game.IsEnabled())
	t.OnToggle(game.SetEnabled)
	t.OnClear(game.RequestClear)
	t.OnOpen(func() {
		openBrowser(previewURL(cfg.Server.Addr))
	})
	t.OnQuit(stop)
	game.OnShape(func(r api.Result) {
		if r.Emoji != nil {
			t.SetLastShape(r.Emoji.Name)
			return
		}
		t.SetLastShape(r.Label.String())
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Wait()
		t.Quit()
	}()

	// systray must own the main thread on macOS.
	t.Run()
	stop()
	return <-errCh
}

// newTracker starts the MediaPipe tracker, falling back to a tracker that
// never sees a hand so the server stays usable for uploads.
func newTracker(cfg hand.Config) hand.Tracker {
	t, err := hand.NewMediaPipeTracker(cfg)
	if err != nil {
		logger.WithError(err).Warn("hand tracker unavailable, live drawing disabled")
		return hand.NewMockTracker()
	}
	return t
}

// previewURL returns the browser address of the server listening on addr.
func previewURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.WithError(err).WithField("url", url).Warn("failed to open browser")
		return
	}
	go cmd.Wait()
}

// findWebDir searches for the web directory in common locations.
// It checks the configured dir, "web", "../web", "../../web", and ~/.emojidraw/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(configured string) string {
	// Check relative paths from current working directory
	relativePaths := []string{configured, "web", "../web", "../../web"}
	for _, p := range relativePaths {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(config.DataDir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
