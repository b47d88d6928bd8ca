package assemble

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/observability"
)

// PageEvent reports progress through a submission.
type PageEvent struct {
	Index int
	Total int
	Role  domain.PageRole
	Done  bool
}

// Assembler drives a PageConverter over every page of a submission.
type Assembler struct {
	converter domain.PageConverter
	logger    *observability.Logger
	progress  func(PageEvent)
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the assembler's logger.
func WithLogger(logger *observability.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithProgress registers a callback invoked before and after each page.
func WithProgress(fn func(PageEvent)) Option {
	return func(a *Assembler) {
		a.progress = fn
	}
}

// NewAssembler creates an assembler around converter.
func NewAssembler(converter domain.PageConverter, opts ...Option) *Assembler {
	a := &Assembler{
		converter: converter,
		logger:    observability.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble converts images in order and joins the fragments with page breaks.
// Any page failure aborts the whole document; no partial text is returned.
func (a *Assembler) Assemble(ctx context.Context, images []domain.PageImage) (string, error) {
	roles, err := Classify(len(images))
	if err != nil {
		return "", err
	}

	startTime := time.Now()
	var doc strings.Builder

	for i, image := range images {
		if err := ctx.Err(); err != nil {
			return "", domain.ConversionError("conversion cancelled", err)
		}

		role := roles[i]
		a.emit(PageEvent{Index: i, Total: len(images), Role: role})

		a.logger.Debug().
			Int("page", i+1).
			Int("total", len(images)).
			Str("role", string(role)).
			Msg("Converting page")

		fragment, err := a.converter.Convert(ctx, image, role)
		if err != nil {
			a.logger.Error().Err(err).Int("page", i+1).Msg("Page conversion failed")
			return "", wrapPageError(i+1, err)
		}

		if i > 0 {
			doc.WriteString(domain.PageBreak)
		}
		doc.WriteString(fragment)

		a.emit(PageEvent{Index: i, Total: len(images), Role: role, Done: true})
	}

	a.logger.Info().
		Int("pages", len(images)).
		Dur("duration", time.Since(startTime)).
		Msg("Document assembled")

	return doc.String(), nil
}

func (a *Assembler) emit(evt PageEvent) {
	if a.progress != nil {
		a.progress(evt)
	}
}

// wrapPageError keeps the original error type while naming the failing page.
func wrapPageError(page int, err error) error {
	msg := fmt.Sprintf("page %d", page)
	return domain.NewError(domain.TypeOf(err), msg, err)
}
