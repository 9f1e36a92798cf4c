// Command scenetrace presents a YAML scene through a recording context and
// prints the GPU commands the renderer issues.
//
// Usage:
//
//	scenetrace [-watch] [-settings file.toml] [-clear #rrggbb] scene.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/uigl"
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/uigl/recording"
)

func main() {
	var (
		watch        = flag.Bool("watch", false, "re-render when the scene file changes")
		settingsPath = flag.String("settings", "", "TOML settings file")
		clearColor   = flag.String("clear", "#ffffff", "clear color")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: scenetrace [flags] scene.yaml\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	uigl.SetLogger(logger)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, flag.Arg(0), *settingsPath, *clearColor, *watch); err != nil {
		logger.Error("scenetrace failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, scenePath, settingsPath, clearColor string, watch bool) error {
	settings := uigl.DefaultSettings()
	if settingsPath != "" {
		var err error
		if settings, err = uigl.LoadSettings(settingsPath); err != nil {
			return err
		}
	}
	background, err := parseColor(clearColor, core.White)
	if err != nil {
		return fmt.Errorf("-clear: %w", err)
	}

	t, err := newTracer(settings, background, os.Stdout)
	if err != nil {
		return err
	}
	if err := t.traceFile(scenePath); err != nil {
		if !watch {
			return err
		}
		logger.Error("render failed", "scene", scenePath, "err", err)
	}
	if !watch {
		return nil
	}

	logger.Info("watching scene", "scene", scenePath)
	return watchFile(ctx, scenePath, defaultDebounce, func() {
		if err := t.traceFile(scenePath); err != nil {
			logger.Error("render failed", "scene", scenePath, "err", err)
		}
	})
}

// tracer presents frames on a recorder and writes their command trace.
type tracer struct {
	recorder   *recording.Recorder
	compositor *uigl.Compositor
	backend    *uigl.Backend
	background core.Color
	out        io.Writer
	frames     int
}

func newTracer(settings uigl.Settings, background core.Color, out io.Writer) (*tracer, error) {
	rec := recording.NewRecorder()
	compositor, backend, err := uigl.NewCompositor(settings, func() (gpucore.Context, error) {
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return &tracer{
		recorder:   rec,
		compositor: compositor,
		backend:    backend,
		background: background,
		out:        out,
	}, nil
}

func (t *tracer) traceFile(path string) error {
	f, err := loadScene(path)
	if err != nil {
		return err
	}
	return t.trace(f)
}

// trace presents f and writes the commands of that frame only.
func (t *tracer) trace(f frame) error {
	t.recorder.Reset()
	width, height := f.viewport.PhysicalSize()
	t.compositor.ResizeViewport(width, height)

	interaction, err := t.compositor.Draw(t.backend, f.viewport, t.background, f.output, f.overlay)
	if err != nil {
		return err
	}
	t.frames++

	fmt.Fprintf(t.out, "# frame %d: %s, interaction %s, %d draws\n",
		t.frames, f.viewport, interaction, len(t.recorder.Draws()))
	return t.recorder.WriteTrace(t.out)
}
