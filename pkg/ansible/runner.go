// Package ansible runs Ansible modules as isolated child interpreter
// processes and normalizes the JSON result they print.
package ansible

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/andrej220/modexec/internal/lg"
	"github.com/andrej220/modexec/internal/persistence"
	"github.com/andrej220/modexec/internal/processor"
	"github.com/andrej220/modexec/pkg/config"
	"github.com/andrej220/modexec/pkg/executor"
	datamodels "github.com/andrej220/modexec/pkg/shared-models"
	"github.com/andrej220/modexec/pkg/value"
)

// ArgsKey wraps module arguments in the file handed to a module.
const ArgsKey = "ANSIBLE_MODULE_ARGS"

// IsolatedFlag keeps user site-packages and PYTHON* variables away from
// the child. It is always passed first, whatever the configured flags.
const IsolatedFlag = "-I"

// interpreterArgs returns IsolatedFlag followed by the extra flags, then rest.
func interpreterArgs(extra []string, rest ...string) []string {
	args := []string{IsolatedFlag}
	for _, f := range extra {
		if f != IsolatedFlag {
			args = append(args, f)
		}
	}
	return append(args, rest...)
}

type Runner struct {
	Interpreter string
	// Flags are passed after IsolatedFlag.
	Flags       []string
	Locator     Locator
	Capturer    executor.Capturer
	Chain       *processor.ProcessorChain
	Processors  []string
	TmpDir      string
	Logger      lg.Logger
}

// NewRunner builds a Runner from settings. The locator is the static table
// when modules are pinned, the directory search when roots are configured,
// and the interpreter's own import machinery otherwise.
func NewRunner(s *config.Settings, logger lg.Logger) *Runner {
	if logger == nil {
		logger = lg.Discard
	}
	var locator Locator
	switch {
	case len(s.Modules) > 0:
		locator = NewStaticLocator(s.Modules)
	case len(s.ModuleRoots) > 0:
		locator = DirLocator{Roots: s.ModuleRoots}
	default:
		locator = ImportLocator{Interpreter: s.Interpreter, Flags: s.InterpreterFlags}
	}
	return &Runner{
		Interpreter: s.Interpreter,
		Flags:       s.InterpreterFlags,
		Locator:     locator,
		Capturer:    executor.Default,
		Chain:       processor.NewProcessorChain(),
		Processors:  []string{processor.ProcessorTypeStripInvocation},
		TmpDir:      s.TmpDir,
		Logger:      logger,
	}
}

// Run locates the module, runs it to completion and normalizes its stdout.
// A non-zero exit is reported in Result.ExitCode, not as an error.
func (r *Runner) Run(ctx context.Context, req datamodels.AnsibleRequest) (*Result, error) {
	if err := datamodels.Validate(req); err != nil {
		return nil, err
	}
	logger := r.Logger.With(lg.String("module", req.Module), lg.String("exuid", req.ExecutionUID.String()))
	ctx = lg.Attach(ctx, logger)

	path, err := r.Locator.Locate(ctx, req.Module)
	if err != nil {
		logger.Debug("module lookup failed", lg.Err(err))
		return nil, err
	}

	args := interpreterArgs(r.Flags, append([]string{path}, req.Args...)...)
	cmd := exec.CommandContext(ctx, r.Interpreter, args...)
	logger.Info("running module", lg.String("path", path), lg.Int("args", len(req.Args)))

	capturer := r.Capturer
	if capturer == nil {
		capturer = executor.Default
	}
	stdout, stderr, err := capturer.Capture(ctx, cmd)
	code, exited := executor.ExitCode(err)
	if !exited {
		logger.Debug("module did not run", lg.Err(err))
		return nil, &ChildProcessError{Op: "run " + req.Module, Err: err}
	}

	result := &Result{
		Module:   req.Module,
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: code,
	}
	if len(stdout) == 0 {
		logger.Info("module produced no result", lg.Int("exit_code", code), lg.Int("stderr_bytes", len(stderr)))
		return result, nil
	}

	payload, err := value.DecodeObject(bytesReader(stdout), "module stdout")
	if err != nil {
		logger.Debug("module result is not a JSON object", lg.Err(err))
		return nil, err
	}
	payload, err = r.Chain.Process(payload, r.Processors...)
	if err != nil {
		return nil, err
	}
	result.Payload = payload
	result.HasPayload = true
	logger.Info("module finished", lg.Int("exit_code", code))
	return result, nil
}

// RunWithArgs writes {"ANSIBLE_MODULE_ARGS": args} to a private temp file,
// runs the module with that file as its only argument and removes the file.
func (r *Runner) RunWithArgs(ctx context.Context, module string, args value.Value, strict bool) (*Result, error) {
	wrapped, err := wrapArgs(args)
	if err != nil {
		return nil, err
	}
	path, err := persistence.WriteTempJSON(wrapped, r.TmpDir, "modexec-ansible-args-*.json")
	if err != nil {
		return nil, fmt.Errorf("write module args: %w", err)
	}
	defer os.Remove(path)

	return r.Run(ctx, datamodels.NewAnsibleRequest(module, []string{path}, strict))
}

// WriteArgsFile writes {"ANSIBLE_MODULE_ARGS": args} to path, replacing
// any existing file.
func WriteArgsFile(path string, args value.Value) error {
	wrapped, err := wrapArgs(args)
	if err != nil {
		return err
	}
	return persistence.WriteJSONToFile(wrapped, path, persistence.JSONSerializer{}, persistence.FileWriter{Overwrite: true, Mode: 0600})
}

// wrapArgs treats null as an empty argument object.
func wrapArgs(args value.Value) (value.Value, error) {
	if args.IsNull() {
		args = value.NewObject(nil)
	}
	if !args.IsObject() {
		return value.Value{}, &value.DecodeError{Source: "module args", Err: fmt.Errorf("%w: got %s", value.ErrNotObject, args.Kind())}
	}
	wrapped := value.NewMap()
	wrapped.Set(ArgsKey, args)
	return value.NewObject(wrapped), nil
}
