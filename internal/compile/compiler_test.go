package compile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteforge/noteforge/internal/domain"
)

// fakeRunner stands in for a TeX engine.
type fakeRunner struct {
	output  []byte
	pdf     []byte // written as document.pdf when non-nil
	err     error
	block   bool // wait for ctx instead of returning
	gotDir  string
	gotName string
	gotArgs []string
	gotTeX  string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.gotDir, f.gotName, f.gotArgs = dir, name, args
	if src, err := os.ReadFile(filepath.Join(dir, sourceName)); err == nil {
		f.gotTeX = string(src)
	}
	if f.block {
		<-ctx.Done()
		return f.output, ctx.Err()
	}
	if f.pdf != nil {
		if err := os.WriteFile(filepath.Join(dir, outputName), f.pdf, 0o644); err != nil {
			return nil, err
		}
	}
	return f.output, f.err
}

func newTestCompiler(t *testing.T, runner Runner, timeout time.Duration) (*Compiler, string) {
	t.Helper()
	scratch := t.TempDir()
	c, err := New(Options{
		Engine:       EnginePDFLaTeX,
		Timeout:      timeout,
		ScratchRoot:  scratch,
		LogTailBytes: 16,
		Runner:       runner,
	})
	require.NoError(t, err)
	return c, scratch
}

func assertNoWorkspaces(t *testing.T, scratch string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(scratch, WorkspacePattern))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCompile_Success(t *testing.T) {
	runner := &fakeRunner{pdf: []byte("%PDF-1.4 fake")}
	c, scratch := newTestCompiler(t, runner, 0)

	out := filepath.Join(t.TempDir(), "pdf", "abc.pdf")
	res, err := c.Compile(context.Background(), "\\documentclass{article}", out)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.4 fake"), res.PDF)
	assert.Equal(t, out, res.Path)
	assert.Equal(t, "abc.pdf", res.Filename)
	// Not a parseable PDF, so inspection is skipped without failing.
	assert.Equal(t, 0, res.Pages)

	copied, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.PDF, copied)

	assert.Equal(t, "pdflatex", runner.gotName)
	assert.Equal(t, "\\documentclass{article}", runner.gotTeX)
	assert.Contains(t, runner.gotArgs, "-halt-on-error")
	assert.Equal(t, sourceName, runner.gotArgs[len(runner.gotArgs)-1])
	assertNoWorkspaces(t, scratch)
}

func TestCompile_NoOutputPath(t *testing.T) {
	c, _ := newTestCompiler(t, &fakeRunner{pdf: []byte("%PDF-1.5")}, 0)

	res, err := c.Compile(context.Background(), "x", "")
	require.NoError(t, err)
	assert.Empty(t, res.Path)
	assert.Equal(t, outputName, res.Filename)
}

func TestCompile_EngineFailure(t *testing.T) {
	runner := &fakeRunner{
		output: []byte("This is pdfTeX ... ! Undefined control sequence."),
		err:    errors.New("exit status 1"),
	}
	c, scratch := newTestCompiler(t, runner, 0)

	_, err := c.Compile(context.Background(), "\\bogus", "")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeCompile, domain.TypeOf(err))
	// Only the configured tail of the log is kept.
	assert.Contains(t, err.Error(), "sequence.")
	assert.NotContains(t, err.Error(), "This is pdfTeX")
	assertNoWorkspaces(t, scratch)
}

func TestCompile_MissingPDF(t *testing.T) {
	c, scratch := newTestCompiler(t, &fakeRunner{output: []byte("ok")}, 0)

	_, err := c.Compile(context.Background(), "x", "")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeCompile, domain.TypeOf(err))
	assert.Contains(t, err.Error(), "produced no PDF")
	assertNoWorkspaces(t, scratch)
}

func TestCompile_Timeout(t *testing.T) {
	c, scratch := newTestCompiler(t, &fakeRunner{block: true}, 20*time.Millisecond)

	_, err := c.Compile(context.Background(), "x", "")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeCompile, domain.TypeOf(err))
	assert.Contains(t, err.Error(), "timed out")
	assertNoWorkspaces(t, scratch)
}

func TestCompile_OutputCopyFailure(t *testing.T) {
	c, _ := newTestCompiler(t, &fakeRunner{pdf: []byte("%PDF-1.4")}, 0)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := c.Compile(context.Background(), "x", filepath.Join(blocker, "out.pdf"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeIO, domain.TypeOf(err))
}

func TestNew_UnknownEngine(t *testing.T) {
	_, err := New(Options{Engine: "troff"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.TypeOf(err))
}

func TestEngineArgs(t *testing.T) {
	for _, engine := range []string{EngineTectonic, EnginePDFLaTeX, EngineXeLaTeX, EngineLuaLaTeX, EngineLatexmk} {
		t.Run(engine, func(t *testing.T) {
			args, err := engineArgs(engine, "/ws")
			require.NoError(t, err)
			assert.Equal(t, sourceName, args[len(args)-1])
		})
	}
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail([]byte("short"), 10))
	assert.Equal(t, "...6789", tail([]byte("0123456789"), 4))
	assert.Equal(t, "all", tail([]byte("all"), 0))
}

func TestWithWorkspace_RemovedOnPanic(t *testing.T) {
	c, scratch := newTestCompiler(t, &fakeRunner{}, 0)

	var seen string
	assert.Panics(t, func() {
		_ = c.withWorkspace(context.Background(), func(ws string) error {
			seen = ws
			panic("boom")
		})
	})
	assert.NotEmpty(t, seen)
	assertNoWorkspaces(t, scratch)
}
