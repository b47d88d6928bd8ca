package convert

import (
	"context"
	"time"

	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/observability"
)

// Logged records one log line per page conversion.
type Logged struct {
	inner   domain.PageConverter
	backend string
	logger  *observability.Logger
}

// NewLogged wraps inner so every call is logged under the backend name.
func NewLogged(inner domain.PageConverter, backend string, logger *observability.Logger) *Logged {
	return &Logged{
		inner:   inner,
		backend: backend,
		logger:  logger.WithComponent("converter"),
	}
}

func (l *Logged) Convert(ctx context.Context, image domain.PageImage, role domain.PageRole) (string, error) {
	start := time.Now()
	text, err := l.inner.Convert(ctx, image, role)

	log := l.logger.WithContext(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("backend", l.backend).
			Int("page", image.Index).
			Str("role", string(role)).
			Dur("duration", time.Since(start)).
			Msg("page conversion failed")
		return "", err
	}

	log.Debug().
		Str("backend", l.backend).
		Int("page", image.Index).
		Str("role", string(role)).
		Int("bytes", len(text)).
		Dur("duration", time.Since(start)).
		Msg("page converted")
	return text, nil
}
