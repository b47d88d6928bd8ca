// Package compile turns assembled LaTeX into PDF bytes with an external TeX engine.
package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/observability"
)

// WorkspacePattern names scratch directories. The janitor only touches matching entries.
const WorkspacePattern = "noteforge-latex-*"

// Options configures a Compiler.
type Options struct {
	Engine       string
	Binary       string // defaults to Engine
	Timeout      time.Duration
	ScratchRoot  string // defaults to os.TempDir()
	LogTailBytes int
	Runner       Runner
	Logger       *observability.Logger
}

// Compiler runs one engine invocation per call in a private workspace.
type Compiler struct {
	engine      string
	binary      string
	timeout     time.Duration
	scratchRoot string
	tailBytes   int
	runner      Runner
	logger      *observability.Logger
}

// New creates a Compiler, rejecting unknown engines.
func New(opts Options) (*Compiler, error) {
	if opts.Engine == "" {
		opts.Engine = EngineTectonic
	}
	if _, err := engineArgs(opts.Engine, ""); err != nil {
		return nil, domain.ValidationError(err.Error(), nil)
	}
	if opts.Binary == "" {
		opts.Binary = opts.Engine
	}
	if opts.ScratchRoot == "" {
		opts.ScratchRoot = os.TempDir()
	}
	if opts.LogTailBytes <= 0 {
		opts.LogTailBytes = 4096
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = observability.Nop()
	}

	return &Compiler{
		engine:      opts.Engine,
		binary:      opts.Binary,
		timeout:     opts.Timeout,
		scratchRoot: opts.ScratchRoot,
		tailBytes:   opts.LogTailBytes,
		runner:      opts.Runner,
		logger:      opts.Logger.WithComponent("compiler"),
	}, nil
}

// Compile typesets latex and returns the PDF. When outputPath is set, a copy is written there.
// The scratch workspace is removed before Compile returns.
func (c *Compiler) Compile(ctx context.Context, latex string, outputPath string) (*domain.RenderResult, error) {
	start := time.Now()

	var pdf []byte
	err := c.withWorkspace(ctx, func(workspace string) error {
		var err error
		pdf, err = c.run(ctx, workspace, latex)
		return err
	})
	if err != nil {
		return nil, err
	}

	log := c.logger.WithContext(ctx)
	result := &domain.RenderResult{PDF: pdf, Filename: outputName}

	if pages, err := pageCount(pdf); err != nil {
		log.Warn().Err(err).Msg("could not inspect compiled PDF")
	} else {
		result.Pages = pages
	}

	if outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return nil, domain.IOError("create pdf directory", err)
		}
		if err := os.WriteFile(outputPath, pdf, 0o644); err != nil {
			return nil, domain.IOError("write pdf copy", err)
		}
		result.Path = outputPath
		result.Filename = filepath.Base(outputPath)
	}

	log.Info().
		Str("engine", c.engine).
		Int("bytes", len(pdf)).
		Int("pages", result.Pages).
		Dur("duration", time.Since(start)).
		Msg("LaTeX compiled")

	return result, nil
}

// withWorkspace creates a private scratch directory, hands it to fn and removes it afterwards,
// including when fn panics.
func (c *Compiler) withWorkspace(ctx context.Context, fn func(workspace string) error) error {
	workspace, err := os.MkdirTemp(c.scratchRoot, WorkspacePattern)
	if err != nil {
		return domain.IOError("create compile workspace", err)
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			c.logger.WithContext(ctx).Warn().Err(err).Str("workspace", workspace).Msg("failed to remove compile workspace")
		}
	}()

	return fn(workspace)
}

// run writes the source into workspace, invokes the engine and reads back the PDF.
func (c *Compiler) run(ctx context.Context, workspace, latex string) ([]byte, error) {
	if err := os.WriteFile(filepath.Join(workspace, sourceName), []byte(latex), 0o644); err != nil {
		return nil, domain.IOError("write LaTeX source", err)
	}

	args, err := engineArgs(c.engine, workspace)
	if err != nil {
		return nil, domain.CompileError(err.Error(), nil)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, runErr := c.runner.Run(runCtx, workspace, c.binary, args...)
	if runErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, domain.CompileError(fmt.Sprintf("%s timed out after %s", c.engine, c.timeout), runErr)
		}
		return nil, domain.CompileError(fmt.Sprintf("%s failed:\n%s", c.engine, tail(out, c.tailBytes)), runErr)
	}

	pdf, err := os.ReadFile(filepath.Join(workspace, outputName))
	if err != nil {
		return nil, domain.CompileError(fmt.Sprintf("%s produced no PDF:\n%s", c.engine, tail(out, c.tailBytes)), err)
	}
	return pdf, nil
}
