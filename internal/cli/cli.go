// Package cli holds what the two executables share: global flags,
// settings loading and exit-code plumbing.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/andrej220/modexec/internal/lg"
	"github.com/andrej220/modexec/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Fail wraps err as a fatal exit 1.
func Fail(err error) error {
	return &ExitError{Code: 1, Err: err}
}

// Options are the flags every executable accepts.
type Options struct {
	ConfigPath string
	Debug      bool
	LogFormat  string
}

func (o *Options) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", "", "YAML settings file")
	cmd.PersistentFlags().BoolVar(&o.Debug, "debug", false, "verbose runner diagnostics on stderr")
	cmd.PersistentFlags().StringVar(&o.LogFormat, "log-format", "", "diagnostics encoding: json or console")
}

// Settings loads the settings file and applies flag overrides.
func (o *Options) Settings(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("debug") {
		s.Log.Debug = o.Debug
	}
	if cmd.Flags().Changed("log-format") {
		s.Log.Format = o.LogFormat
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Logger builds the runner's diagnostic logger. Without debug only
// warnings and errors are written, keeping stderr close to the module's.
func Logger(service string, s *config.Settings) lg.Logger {
	return lg.New(&lg.Config{
		ServiceName: service,
		Debug:       s.Log.Debug,
		Format:      s.Log.Format,
		Level:       zapcore.WarnLevel,
	})
}

// Execute runs cmd and returns the process exit code, printing any
// error carried by the result to stderr.
func Execute(cmd *cobra.Command, stderr io.Writer) int {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	code := 1
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		err = exitErr.Err
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}
