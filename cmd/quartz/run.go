package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/urfave/cli/v3"

	"github.com/openwearables/quartz/internal/engine"
	"github.com/openwearables/quartz/internal/engine/scheduler"
	"github.com/openwearables/quartz/internal/render"
	"github.com/openwearables/quartz/internal/render/canvas"
	"github.com/openwearables/quartz/internal/storage"
	"github.com/openwearables/quartz/internal/storage/memory"
	"github.com/openwearables/quartz/internal/storage/sqlite"
)

var runCmd = &cli.Command{
	Name:      "run",
	Usage:     "Run the watch-face engine",
	ArgsUsage: "[face.toml]",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Usage:   "Path to the SQLite state database (empty for in-memory state)",
			Aliases: []string{"d"},
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "Canvas width in pixels",
			Value: 200,
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "Canvas height in pixels",
			Value: 200,
		},
		&cli.BoolFlag{
			Name:  "ambient",
			Usage: "Start in ambient mode",
		},
	}, logFlags...),
	Action: func(ctx context.Context, cmd *cli.Command) error {
		handler := setupLogging(cmd)
		logger := slog.Default()

		cfg, err := loadFaceConfig(cmd)
		if err != nil {
			return cli.Exit(err, 1)
		}

		store, err := openStore(cmd.String("db"), handler)
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to open state store: %w", err), 1)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close state store", "error", err)
			}
		}()

		bounds := image.Rect(0, 0, int(cmd.Int("width")), int(cmd.Int("height")))

		mode := render.ModeInteractive
		if cmd.Bool("ambient") {
			mode = render.ModeAmbient
		}

		var eng *engine.Runner
		factory := render.FactoryFunc(func(ctx context.Context) (render.Renderer, error) {
			return canvas.New(eng.Styles(), eng.Slots(), canvas.WithLogHandler(handler)), nil
		})

		eng, err = engine.NewRunner(cfg, store, factory,
			engine.WithContext(ctx),
			engine.WithLogHandler(handler),
			engine.WithCanvasBounds(bounds),
			engine.WithMode(mode),
		)
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to create engine: %w", err), 1)
		}

		sched, err := scheduler.NewRunner(eng,
			scheduler.WithContext(ctx),
			scheduler.WithLogHandler(handler),
			scheduler.WithInteractiveInterval(time.Duration(cfg.InteractiveInterval)),
		)
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to create scheduler: %w", err), 1)
		}

		go drainFaults(ctx, eng, logger)
		go requestFrames(ctx, eng, sched, time.Duration(cfg.InteractiveInterval))

		super, err := supervisor.New(
			supervisor.WithContext(ctx),
			supervisor.WithLogHandler(handler),
			supervisor.WithRunnables(eng, sched),
		)
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to create supervisor: %w", err), 1)
		}
		if err := super.Run(); err != nil {
			return cli.Exit(fmt.Errorf("failed to run engine: %w", err), 1)
		}

		logger.Info("Engine shutdown complete")
		return nil
	},
}

func openStore(path string, handler slog.Handler) (storage.Store, error) {
	if path == "" {
		return memory.New(memory.WithLogHandler(handler)), nil
	}
	return sqlite.Open(path, sqlite.WithLogHandler(handler))
}

// drainFaults logs background persistence failures. The engine keeps
// rendering through them.
func drainFaults(ctx context.Context, eng *engine.Runner, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-eng.Faults():
			logger.Error("Persistence fault", "error", err)
		}
	}
}

// requestFrames keeps a frame request outstanding. ScheduleNextFrame is a
// no-op while a frame is already armed and defers while one is rendering, so
// polling re-requests are safe.
func requestFrames(ctx context.Context, eng *engine.Runner, sched *scheduler.Runner, interval time.Duration) {
	if interval <= 0 {
		interval = scheduler.DefaultInteractiveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if eng.IsRunning() && sched.IsRunning() {
				sched.ScheduleNextFrame()
			}
		}
	}
}
