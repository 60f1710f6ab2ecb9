package ansible

import (
	"bytes"
	"io"
	"strings"

	"github.com/andrej220/modexec/pkg/value"
)

// Result is one module run. Payload is set only when the module printed
// something on stdout.
type Result struct {
	Module     string
	Stdout     []byte
	Stderr     []byte
	ExitCode   int
	Payload    value.Value
	HasPayload bool
}

// Summary renders the payload as a Python literal, or returns stderr
// verbatim when there is no payload.
func (r *Result) Summary() (string, error) {
	if !r.HasPayload {
		return string(r.Stderr), nil
	}
	return value.Repr(r.Payload)
}

// Strict renders the payload as JSON, or returns stderr when there is no
// payload. The text never ends with a newline.
func (r *Result) Strict() (string, error) {
	if !r.HasPayload {
		// Only the trailing line endings go; everything else is raw stderr.
		return strings.TrimRight(string(r.Stderr), "\r\n"), nil
	}
	return value.PythonJSON(r.Payload)
}

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }
