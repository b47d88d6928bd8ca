// Package app assembles NoteForge's components from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/noteforge/noteforge/internal/compile"
	"github.com/noteforge/noteforge/internal/config"
	"github.com/noteforge/noteforge/internal/convert"
	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/ingest"
	"github.com/noteforge/noteforge/internal/observability"
	"github.com/noteforge/noteforge/internal/pipeline"
	"github.com/noteforge/noteforge/internal/store"
)

// App holds the wired components. Close releases backend connections.
type App struct {
	Uploads   *ingest.Store
	Converter domain.PageConverter
	Artifacts *store.FSStore
	Compiler  *compile.Compiler
	Janitor   *compile.Janitor
	Pipeline  *pipeline.Service

	closers []func() error
}

// Build wires every component described by cfg.
func Build(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*App, error) {
	a := &App{}

	locker, err := newLocker(cfg.Locking, logger)
	if err != nil {
		return nil, err
	}
	if rl, ok := locker.(*store.RedisLocker); ok {
		a.closers = append(a.closers, rl.Close)
	}

	conv, closeConv, err := convert.New(ctx, cfg.Converter, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create converter: %w", err)
	}
	a.closers = append(a.closers, closeConv)
	a.Converter = conv

	a.Compiler, err = compile.New(compile.Options{
		Engine:       cfg.Compiler.Engine,
		Binary:       cfg.Compiler.Binary,
		Timeout:      cfg.Compiler.Timeout,
		ScratchRoot:  cfg.Compiler.ScratchRoot,
		LogTailBytes: cfg.Compiler.LogTailBytes,
		Logger:       logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create compiler: %w", err)
	}

	a.Janitor = compile.NewJanitor(cfg.Compiler.ScratchRoot, cfg.Compiler.SweepInterval, cfg.Compiler.StaleAfter, logger)

	a.Uploads = ingest.NewStore(cfg.UploadsPath(), ingest.Limits{
		MaxFileSize:  cfg.Upload.MaxFileSize,
		MaxFiles:     cfg.Upload.MaxFiles,
		AllowedTypes: cfg.Upload.AllowedTypes,
	})
	a.Artifacts = store.NewFSStore(cfg.LatexPath(), locker)

	a.Pipeline = pipeline.NewService(a.Uploads, a.Converter, a.Artifacts, a.Compiler, pipeline.Config{
		PDFDir:         cfg.PDFPath(),
		ConvertTimeout: cfg.Converter.Timeout,
	}, logger)

	return a, nil
}

// Close releases every resource opened by Build.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newLocker(cfg config.LockingConfig, logger *observability.Logger) (store.Locker, error) {
	switch cfg.Driver {
	case "", "memory":
		return store.NewKeyedMutex(), nil
	case "redis":
		rl, err := store.NewRedisLocker(cfg.Redis, cfg.TTL, logger)
		if err != nil {
			return nil, fmt.Errorf("create redis locker: %w", err)
		}
		return rl, nil
	default:
		return nil, fmt.Errorf("unknown lock driver %q", cfg.Driver)
	}
}
