// Command okpaint renders a scene of decorated elements and SVG images to
// a PNG file, with the software backend.
//
// Usage:
//
//	okpaint -scene scene.toml -out out.png [-watch] [-v]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	scenePath = flag.String("scene", "scene.toml", "Scene file")
	outPath   = flag.String("out", "out.png", "Output image")
	watch     = flag.Bool("watch", false, "Render again when the scene file changes")
	verbose   = flag.Bool("v", false, "Log cache and backend activity")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	sr := newSceneRenderer(logger)
	if err := renderFile(sr, *scenePath, *outPath); err != nil {
		logger.Error("rendering failed", zap.Error(err))
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := watchScene(ctx, logger, *scenePath, func() error {
		return renderFile(sr, *scenePath, *outPath)
	}); err != nil {
		logger.Error("watching failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return logger
}

// renderFile renders the scene file at scene to the image file out. The
// image is written even if some elements are invalid.
func renderFile(sr *sceneRenderer, scene, out string) error {
	s, err := LoadScene(scene)
	if err != nil {
		return err
	}
	img, renderErr := sr.Render(s, scene)
	if img == nil {
		return renderErr
	}
	if err := imaging.Save(img, out); err != nil {
		return err
	}
	sr.logger.Info("scene rendered", zap.String("scene", scene), zap.String("out", out))
	return renderErr
}

// watchScene calls onChange each time the file at path is written, until
// ctx is done. The parent directory is watched, so that editors replacing
// the file are supported.
func watchScene(ctx context.Context, logger *zap.Logger, path string, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watching scene", zap.String("path", abs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := onChange(); err != nil {
				logger.Error("rendering failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
