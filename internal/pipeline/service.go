// Package pipeline wires upload resolution, page conversion, artifact storage and compilation
// into the two operations exposed over HTTP and the CLI.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/noteforge/noteforge/internal/assemble"
	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/observability"
)

// PageResolver finds the stored page images for an upload id.
type PageResolver interface {
	Resolve(id uuid.UUID, multiPage bool) ([]domain.PageImage, error)
}

// Compiler turns LaTeX into a PDF, optionally keeping a copy at outputPath.
type Compiler interface {
	Compile(ctx context.Context, latex string, outputPath string) (*domain.RenderResult, error)
}

// Config bounds the work done per request.
type Config struct {
	PDFDir         string
	ConvertTimeout time.Duration // 0 disables
}

// Service orchestrates conversion and rendering.
type Service struct {
	pages     PageResolver
	converter domain.PageConverter
	store     domain.ArtifactStore
	compiler  Compiler
	cfg       Config
	logger    *observability.Logger
}

// NewService creates a new pipeline service
func NewService(pages PageResolver, converter domain.PageConverter, store domain.ArtifactStore,
	compiler Compiler, cfg Config, logger *observability.Logger) *Service {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Service{
		pages:     pages,
		converter: converter,
		store:     store,
		compiler:  compiler,
		cfg:       cfg,
		logger:    logger.WithComponent("pipeline"),
	}
}

// Convert resolves the upload, converts its pages and stores the assembled LaTeX.
// The work is detached from ctx cancellation and bounded by the configured timeout instead.
func (s *Service) Convert(ctx context.Context, id uuid.UUID, multiPage bool) (*domain.Document, error) {
	log := s.logger.WithContext(ctx).WithDocument(id.String()).WithOperation("convert")
	start := time.Now()

	ctx = context.WithoutCancel(ctx)
	if s.cfg.ConvertTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ConvertTimeout)
		defer cancel()
	}

	images, err := s.pages.Resolve(id, multiPage)
	if err != nil {
		return nil, err
	}

	log.Info().Int("pages", len(images)).Bool("multi_page", multiPage).Msg("Converting upload")

	var content string
	if multiPage {
		content, err = assemble.NewAssembler(s.converter, assemble.WithLogger(log)).Assemble(ctx, images)
	} else {
		content, err = s.converter.Convert(ctx, images[0], domain.RoleSingle)
	}
	if err != nil {
		log.Error().Err(err).Msg("Conversion failed")
		return nil, err
	}

	if err := s.store.Put(ctx, id.String(), content); err != nil {
		return nil, err
	}

	log.Info().Int("bytes", len(content)).Dur("duration", time.Since(start)).Msg("Conversion complete")
	return domain.NewDocument(id, content), nil
}

// Render compiles the stored LaTeX for id and keeps a copy under the PDF directory.
// A missing artifact is reported before the compiler is invoked.
func (s *Service) Render(ctx context.Context, id uuid.UUID) (*domain.RenderResult, error) {
	log := s.logger.WithContext(ctx).WithDocument(id.String()).WithOperation("render")
	ctx = context.WithoutCancel(ctx)

	latex, err := s.store.Get(ctx, id.String())
	if err != nil {
		return nil, err
	}

	outputPath := ""
	if s.cfg.PDFDir != "" {
		outputPath = filepath.Join(s.cfg.PDFDir, id.String()+".pdf")
	}

	result, err := s.compiler.Compile(ctx, latex, outputPath)
	if err != nil {
		log.Error().Err(err).Msg("Render failed")
		return nil, err
	}

	log.Info().Int("bytes", len(result.PDF)).Int("pages", result.Pages).Msg("Render complete")
	return result, nil
}
