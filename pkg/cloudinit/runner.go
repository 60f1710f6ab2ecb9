// Package cloudinit runs cloud-init style configuration modules in
// process and turns any WARNING or ERROR they log into a failed outcome.
package cloudinit

import (
	"context"
	"io"

	"github.com/andrej220/modexec/internal/lg"
	"github.com/andrej220/modexec/pkg/config"
	"github.com/andrej220/modexec/pkg/registry"
	datamodels "github.com/andrej220/modexec/pkg/shared-models"
	"github.com/andrej220/modexec/pkg/value"
	"go.uber.org/zap/zapcore"
)

// State is a step of a single invocation.
type State string

const (
	StateStart            State = "START"
	StateContextBuilt     State = "CONTEXT_BUILT"
	StateHandlerRunning   State = "HANDLER_RUNNING"
	StateHandlerFailed    State = "HANDLER_FAILED"
	StateHandlerDone      State = "HANDLER_DONE"
	StateWorkspaceCleaned State = "WORKSPACE_CLEANED"
	StateSeverityChecked  State = "SEVERITY_CHECKED"
)

// Outcome is what the severity gate observed during one invocation.
type Outcome struct {
	Warning bool
	Error   bool
	// Observed is false when no inspector was attached.
	Observed bool
}

// ExitCode is 1 when the gate tripped or nothing observed the run.
func (o Outcome) ExitCode() int {
	if !o.Observed || o.Warning || o.Error {
		return 1
	}
	return 0
}

// ModuleLoggerFunc builds the base logger a module writes through.
type ModuleLoggerFunc func(name string) lg.Logger

type Runner struct {
	Modules        *registry.Registry[Handler]
	Distros        *registry.Registry[DistroFactory]
	TmpDir         string
	CleanupOnError bool
	LogFormat      string
	// ModuleLogger overrides the stderr module logger.
	ModuleLogger ModuleLoggerFunc
	Logger       lg.Logger
	// OnState, when set, is called on every state transition.
	OnState func(State)
}

func NewRunner(s *config.Settings, modules *registry.Registry[Handler], distros *registry.Registry[DistroFactory], logger lg.Logger) *Runner {
	if logger == nil {
		logger = lg.Discard
	}
	return &Runner{
		Modules:        modules,
		Distros:        distros,
		TmpDir:         s.TmpDir,
		CleanupOnError: s.CleanupOnError,
		LogFormat:      s.Log.Format,
		Logger:         logger,
	}
}

func (r *Runner) moduleLogger(name string) lg.Logger {
	if r.ModuleLogger != nil {
		return r.ModuleLogger(name)
	}
	return lg.New(&lg.Config{
		ServiceName: "cloud-init-exec",
		Name:        name,
		Format:      r.LogFormat,
		Level:       zapcore.WarnLevel,
	})
}

func (r *Runner) enter(logger lg.Logger, s State) {
	logger.Debug("state", lg.String("state", string(s)))
	if r.OnState != nil {
		r.OnState(s)
	}
}

// Invocation is a resolved module run with its severity inspector
// attached, waiting for the module configuration.
type Invocation struct {
	runner    *Runner
	req       datamodels.CloudInitRequest
	factory   DistroFactory
	handler   Handler
	inspector *lg.Inspector
	modLog    lg.Logger
	logger    lg.Logger
}

// Prepare validates req, resolves its distro and module and builds the
// inspected module logger. Nothing touches the filesystem yet.
func (r *Runner) Prepare(req datamodels.CloudInitRequest) (*Invocation, error) {
	logger := r.Logger
	if logger == nil {
		logger = lg.Discard
	}
	logger = logger.With(
		lg.String("distro", req.Distro),
		lg.String("module", req.Module),
		lg.String("exuid", req.ExecutionUID.String()),
	)
	r.enter(logger, StateStart)

	if err := datamodels.Validate(req); err != nil {
		return nil, err
	}
	factory, err := r.Distros.Resolve(req.Distro)
	if err != nil {
		logger.Debug("distro lookup failed", lg.Err(err))
		return nil, err
	}
	handler, err := r.Modules.Resolve(req.Module)
	if err != nil {
		logger.Debug("module lookup failed", lg.Err(err))
		return nil, err
	}

	inspector := lg.NewInspector()
	return &Invocation{
		runner:    r,
		req:       req,
		factory:   factory,
		handler:   handler,
		inspector: inspector,
		modLog:    lg.WithInspector(r.moduleLogger(loggerName(handler)), inspector),
		logger:    logger,
	}, nil
}

// Run executes one module against cfg. Resolution and handler failures
// are returned as errors; severity is reported through the Outcome.
func (r *Runner) Run(ctx context.Context, req datamodels.CloudInitRequest, cfg value.Value) (Outcome, error) {
	inv, err := r.Prepare(req)
	if err != nil {
		return Outcome{}, err
	}
	return inv.Run(ctx, cfg)
}

// Run builds the workspace and cloud, calls the handler and checks the
// inspector.
func (inv *Invocation) Run(ctx context.Context, cfg value.Value) (Outcome, error) {
	r, req, logger := inv.runner, inv.req, inv.logger
	defer inv.modLog.Sync()

	ws, err := NewWorkspace(r.TmpDir, req.Module, req.ExecutionUID)
	if err != nil {
		return Outcome{}, err
	}
	paths := ws.Paths()
	sysCfg := map[string]any{}
	distro, err := inv.factory(req.Distro, sysCfg, paths)
	if err != nil {
		ws.Remove()
		return Outcome{}, err
	}
	cloud := NewCloud(NewDataSourceNone(sysCfg, distro, paths), paths, sysCfg, distro, nil)
	r.enter(logger, StateContextBuilt)

	// Distro diagnostics go to the runner's logger and do not trip the gate.
	hctx := lg.Attach(ctx, logger)
	r.enter(logger, StateHandlerRunning)
	if err := inv.handler.Handle(hctx, req.Module, cfg, cloud, inv.modLog, nil); err != nil {
		r.enter(logger, StateHandlerFailed)
		herr := &HandlerError{Module: req.Module, Workspace: ws.Root, Err: err}
		if r.CleanupOnError {
			if rerr := ws.Remove(); rerr != nil {
				logger.Warn("workspace cleanup failed", lg.Err(rerr))
			} else {
				herr.Workspace = ""
			}
		}
		logger.Debug("module handler failed", lg.Err(err), lg.String("workspace", herr.Workspace))
		return Outcome{}, herr
	}
	r.enter(logger, StateHandlerDone)

	if err := ws.Remove(); err != nil {
		return Outcome{}, err
	}
	r.enter(logger, StateWorkspaceCleaned)

	outcome := Outcome{
		Warning:  inv.inspector.HasWarning(),
		Error:    inv.inspector.HasError(),
		Observed: inv.inspector != nil,
	}
	r.enter(logger, StateSeverityChecked)
	logger.Info("module finished",
		lg.Bool("warning", outcome.Warning),
		lg.Bool("error", outcome.Error),
		lg.Int("exit_code", outcome.ExitCode()))
	return outcome, nil
}

// ReadConfig decodes the module configuration object from r.
func ReadConfig(r io.Reader) (value.Value, error) {
	return value.DecodeObject(r, "stdin")
}
