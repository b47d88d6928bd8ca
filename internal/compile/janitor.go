package compile

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/noteforge/noteforge/internal/observability"
)

// Janitor removes compile workspaces left behind by a crashed process.
type Janitor struct {
	root       string
	interval   time.Duration
	staleAfter time.Duration
	logger     *observability.Logger
	now        func() time.Time
}

// NewJanitor creates a Janitor for workspaces under root.
func NewJanitor(root string, interval, staleAfter time.Duration, logger *observability.Logger) *Janitor {
	if root == "" {
		root = os.TempDir()
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = time.Hour
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Janitor{
		root:       root,
		interval:   interval,
		staleAfter: staleAfter,
		logger:     logger.WithComponent("janitor"),
		now:        time.Now,
	}
}

// Run sweeps once immediately and then every interval until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		if n, err := j.Sweep(); err != nil {
			j.logger.Warn().Err(err).Msg("workspace sweep failed")
		} else if n > 0 {
			j.logger.Info().Int("removed", n).Msg("removed stale compile workspaces")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep removes every stale workspace and reports how many were removed.
func (j *Janitor) Sweep() (int, error) {
	matches, err := filepath.Glob(filepath.Join(j.root, WorkspacePattern))
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-j.staleAfter)
	removed := 0
	for _, dir := range matches {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			j.logger.Warn().Err(err).Str("workspace", dir).Msg("failed to remove stale workspace")
			continue
		}
		removed++
	}
	return removed, nil
}
