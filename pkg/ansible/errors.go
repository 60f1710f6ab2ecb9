package ansible

import "fmt"

// ChildProcessError reports a failure to spawn a child or collect its
// output. A child that ran and exited non-zero is not a ChildProcessError.
type ChildProcessError struct {
	Op  string
	Err error
}

func (e *ChildProcessError) Error() string {
	return fmt.Sprintf("%s: child process: %v", e.Op, e.Err)
}

func (e *ChildProcessError) Unwrap() error { return e.Err }
