package compile

import (
	"context"
	"os/exec"
)

// Runner executes an engine binary inside dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real processes.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// tail keeps the last n bytes of a log, which is where TeX engines put the error.
func tail(out []byte, n int) string {
	if n <= 0 || len(out) <= n {
		return string(out)
	}
	return "..." + string(out[len(out)-n:])
}
