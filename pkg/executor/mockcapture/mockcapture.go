package mockcapture

import (
	"context"
	"os/exec"
	"slices"
	"sync"

	"github.com/andrej220/modexec/pkg/executor"
)

// Behavior represents a single command execution for the mock.
type Behavior func(cmd *exec.Cmd) (stdout, stderr []byte, err error)

// Capturer is a thread-safe mock implementation of executor.Capturer.
// Behaviors are consumed in order, one per call.
type Capturer struct {
	mu        sync.Mutex
	behaviors []Behavior
	Calls     int
	Args      [][]string
}

var _ executor.Capturer = (*Capturer)(nil)

func New(behaviors ...Behavior) *Capturer {
	return &Capturer{behaviors: slices.Clone(behaviors)}
}

// Output returns a Behavior that writes fixed output and succeeds.
func Output(stdout, stderr string) Behavior {
	return func(*exec.Cmd) ([]byte, []byte, error) {
		return []byte(stdout), []byte(stderr), nil
	}
}

// Fail returns a Behavior that produces no output and fails with err.
func Fail(err error) Behavior {
	return func(*exec.Cmd) ([]byte, []byte, error) {
		return nil, nil, err
	}
}

func (c *Capturer) Capture(_ context.Context, cmd *exec.Cmd) ([]byte, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls++
	c.Args = append(c.Args, slices.Clone(cmd.Args))

	if len(c.behaviors) == 0 {
		return nil, nil, nil
	}
	behavior := c.behaviors[0]
	c.behaviors = c.behaviors[1:]
	return behavior(cmd)
}

// Remaining returns the number of queued behaviors not yet consumed.
func (c *Capturer) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.behaviors)
}
