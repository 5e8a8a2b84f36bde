package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/1broseidon/panelsnap/internal/config"
	"github.com/1broseidon/panelsnap/internal/daemon"
	"github.com/1broseidon/panelsnap/internal/hotkeys"
	"github.com/1broseidon/panelsnap/internal/ipc"
	"github.com/1broseidon/panelsnap/internal/logging"
	"github.com/1broseidon/panelsnap/internal/overlay"
	"github.com/1broseidon/panelsnap/internal/platform"
	"github.com/1broseidon/panelsnap/internal/runtimepath"
	"github.com/1broseidon/panelsnap/internal/stream"
	"github.com/1broseidon/panelsnap/internal/x11"
)

// dragBinder routes pointer drags on the panel window to the controller.
type dragBinder struct {
	conn    *x11.Connection
	handler x11.DragHandler

	mu     sync.Mutex
	button string
}

func (b *dragBinder) setButton(button string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.button = button
}

func (b *dragBinder) Bind(win platform.WindowID) error {
	b.mu.Lock()
	button := b.button
	b.mu.Unlock()
	return b.conn.BindDrag(xproto.Window(win), button, b.handler)
}

func (b *dragBinder) Unbind(win platform.WindowID) {
	b.conn.UnbindDrag(xproto.Window(win))
}

func runDaemon(args []string) int {
	if isHelpArg(args) {
		fmt.Fprintln(os.Stdout, "Usage: panelsnap daemon")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Track the panel window, snap it to screen edges after drags and")
		fmt.Fprintln(os.Stdout, "serve IPC requests. Runs in the foreground.")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: panelsnap daemon")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	logger, err := logging.FromSettings(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid logging settings: %v\n", err)
		return 1
	}
	for _, w := range cfg.Warnings() {
		logger.Warn().Msg(w)
	}
	logger.Info().
		Str("title", cfg.Panel.Title).
		Str("class", cfg.Panel.Class).
		Str("drag_button", cfg.DragButton).
		Stringer("constraints", cfg.Constraints).
		Msg("configuration loaded")

	if err := serveDaemon(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("daemon stopped")
		return 1
	}
	return 0
}

func serveDaemon(cfg *config.Config, logger zerolog.Logger) error {
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		return err
	}
	defer conn.Close()

	backend := platform.NewLinuxBackend(conn)

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	statePath, err := runtimepath.StatePath()
	if err != nil {
		logger.Warn().Err(err).Msg("panel state will not persist")
		statePath = ""
	}

	binder := &dragBinder{conn: conn, button: cfg.DragButton}
	loader := func() (*config.Config, error) {
		next, err := config.Load()
		if err == nil {
			binder.setButton(next.DragButton)
		}
		return next, err
	}

	opts := daemon.Options{
		Backend:     backend,
		Match:       daemon.MatchFromConfig(cfg),
		Constraints: cfg.Constraints,
		InitialEdge: cfg.InitialEdge(),
		Binder:      binder,
		StatePath:   statePath,
		Loader:      loader,
		Logger:      logger,
	}
	if cfg.Preview {
		preview := overlay.NewPreview(conn.XUtil, conn.Root)
		defer preview.Destroy()
		opts.Preview = preview
	}

	ctrl := daemon.NewController(opts)
	binder.handler = ctrl
	defer ctrl.Close()

	keys := hotkeys.NewHandler(conn, ctrl, logger)
	if err := keys.RegisterSnapHotkeys(cfg.SnapHotkeys); err != nil {
		logger.Warn().Err(err).Msg("failed to register snap hotkeys")
	}
	defer keys.UnregisterAll()

	ipcServer := ipc.NewServer(socketPath, ctrl, logging.Component(logger, "ipc"))
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracker := daemon.NewTracker(daemon.TrackerConfig{
		Interval: time.Duration(cfg.TrackIntervalSeconds) * time.Second,
		Logger:   logger,
	}, ctrl)
	go func() {
		if err := tracker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Msg("panel tracker stopped")
		}
	}()

	if cfg.Stream.Listen != "" {
		streamServer := stream.NewServer(stream.Options{
			Constraints: ctrl.Constraints,
			InitialEdge: cfg.InitialEdge(),
			Logger:      logger,
		})
		go func() {
			if err := streamServer.ListenAndServe(ctx, cfg.Stream.Listen); err != nil {
				logger.Error().Err(err).Msg("panel stream stopped")
			}
		}()
	}

	if path, err := config.DefaultConfigPath(); err == nil {
		watcher := config.NewWatcher(path, logging.Component(logger, "config"))
		watcher.OnChange(func(res *config.LoadResult) {
			binder.setButton(res.Config.DragButton)
			ctrl.ApplyConfig(res.Config)
			tracker.CheckNow()
		})
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn().Err(err).Msg("config watcher stopped")
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info().Msg("received SIGHUP, reloading config")
					if err := ctrl.Reload(); err != nil {
						logger.Error().Err(err).Msg("config reload failed")
					}
					continue
				}
				logger.Info().Str("signal", sig.String()).Msg("shutting down")
				cancel()
				conn.Quit()
				return
			}
		}
	}()

	logger.Info().Str("socket", socketPath).Msg("panelsnap daemon started")
	conn.EventLoop()
	return nil
}
