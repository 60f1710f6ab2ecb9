package cloudinit

import (
	"context"
	"fmt"

	"github.com/andrej220/modexec/internal/lg"
	"github.com/andrej220/modexec/pkg/registry"
	"github.com/andrej220/modexec/pkg/value"
)

// DefaultLoggerName names the module logger when a handler does not
// provide its own.
const DefaultLoggerName = "cloudinit"

// Handler is a configuration module's entry point. cfg is the decoded
// configuration object; args is always nil when invoked by the Runner.
type Handler interface {
	Handle(ctx context.Context, name string, cfg value.Value, cloud *Cloud, log lg.Logger, args []string) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, name string, cfg value.Value, cloud *Cloud, log lg.Logger, args []string) error

func (f HandlerFunc) Handle(ctx context.Context, name string, cfg value.Value, cloud *Cloud, log lg.Logger, args []string) error {
	return f(ctx, name, cfg, cloud, log, args)
}

// LoggerNamer is implemented by handlers that own a named logger.
type LoggerNamer interface {
	LoggerName() string
}

func loggerName(h Handler) string {
	if n, ok := h.(LoggerNamer); ok && n.LoggerName() != "" {
		return n.LoggerName()
	}
	return DefaultLoggerName
}

// NewModuleRegistry returns an empty handler registry.
func NewModuleRegistry() *registry.Registry[Handler] {
	return registry.New[Handler]("module")
}

// HandlerError reports a failure raised by a module's handler. Workspace
// is the directory left on disk, empty when it was removed.
type HandlerError struct {
	Module    string
	Workspace string
	Err       error
}

func (e *HandlerError) Error() string {
	if e.Workspace != "" {
		return fmt.Sprintf("module %s failed (workspace kept at %s): %v", e.Module, e.Workspace, e.Err)
	}
	return fmt.Sprintf("module %s failed: %v", e.Module, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
