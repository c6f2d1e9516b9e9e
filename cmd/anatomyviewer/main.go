// Package main is the entry point for the dual-view anatomy viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/anatomy-viewer/internal/app"
	"github.com/Faultbox/anatomy-viewer/internal/catalog"
	"github.com/Faultbox/anatomy-viewer/internal/config"
	"github.com/Faultbox/anatomy-viewer/internal/logger"
)

// viewer is the running application as main sees it.
type viewer interface {
	Run() error
	Close()
}

func main() {
	config.ParseFlags()

	// os.Exit skips deferred calls, so everything that must be released
	// lives in run.
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return err
	}
	defer logger.Sync()

	logger.Info("=== Anatomy Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Error("failed to load catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
		return err
	}
	logger.Info("catalog loaded", zap.Int("models", cat.Len()))

	a, err := app.New(cfg, cat)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		return err
	}
	return serve(a)
}

// serve runs v until it quits and closes it on every path.
func serve(v viewer) error {
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return err
	}
	logger.Info("viewer closed normally")
	return nil
}
