package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/andrej220/modexec/internal/lg"
	"golang.org/x/sync/errgroup"
)

// PipeCapturer drains stdout and stderr concurrently so a child filling
// one pipe cannot block on the other.
type PipeCapturer struct{}

var Default Capturer = PipeCapturer{}

func (PipeCapturer) Capture(ctx context.Context, cmd *exec.Cmd) ([]byte, []byte, error) {
	logger := lg.FromContext(ctx)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stderr pipe: %w", err)
	}

	logger.Debug("starting command", lg.String("path", cmd.Path), lg.Strings("args", cmd.Args))
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	var outBuf, errBuf []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		outBuf, err = io.ReadAll(stdout)
		return err
	})
	g.Go(func() error {
		var err error
		errBuf, err = io.ReadAll(stderr)
		return err
	})
	readErr := g.Wait()

	// Wait closes the pipes, so it must come after both readers finish.
	waitErr := cmd.Wait()
	if readErr != nil {
		return outBuf, errBuf, fmt.Errorf("read output: %w", readErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			logger.Debug("command exited", lg.Int("code", exitErr.ExitCode()))
			return outBuf, errBuf, exitErr
		}
		return outBuf, errBuf, fmt.Errorf("wait %s: %w", cmd.Path, waitErr)
	}
	return outBuf, errBuf, nil
}

// ExitCode extracts the child's exit status from a Capture error.
// ok is false when err is not an exit status.
func ExitCode(err error) (code int, ok bool) {
	if err == nil {
		return 0, true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
