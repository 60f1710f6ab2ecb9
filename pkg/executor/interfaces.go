package executor

import (
	"context"
	"os/exec"
)

// Capturer knows how to run a prepared command to completion and return
// everything it wrote to stdout and stderr. A child that exits non-zero
// yields its output together with an *exec.ExitError.
type Capturer interface {
	Capture(ctx context.Context, cmd *exec.Cmd) (stdout, stderr []byte, err error)
}

// CapturerFunc adapts a plain function to Capturer.
type CapturerFunc func(ctx context.Context, cmd *exec.Cmd) ([]byte, []byte, error)

func (f CapturerFunc) Capture(ctx context.Context, cmd *exec.Cmd) ([]byte, []byte, error) {
	return f(ctx, cmd)
}
