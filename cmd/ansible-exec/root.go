package main

import (
	"fmt"

	"github.com/andrej220/modexec/internal/cli"
	"github.com/andrej220/modexec/pkg/ansible"
	datamodels "github.com/andrej220/modexec/pkg/shared-models"
	"github.com/andrej220/modexec/pkg/value"
	"github.com/spf13/cobra"
)

const SERVICENAME = "ansible-exec"

type rootOptions struct {
	cli.Options
	strict     bool
	moduleArgs string
	argsFile   string
	newRunner  runnerFactory
}

type runnerFactory func(opts *rootOptions, cmd *cobra.Command) (*ansible.Runner, error)

func newRootCmd(newRunner runnerFactory) *cobra.Command {
	opts := &rootOptions{newRunner: newRunner}
	cmd := &cobra.Command{
		Use:   SERVICENAME + " [flags] <module> [args...]",
		Short: "Run an Ansible module in an isolated interpreter and print its result",
		Long: `ansible-exec runs one Ansible module as a child interpreter process.

Summary mode prints the result as a Python literal and always exits 0.
Strict mode prints compact JSON without a trailing newline and exits with
the module's exit code. When the module prints nothing, its stderr is
printed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}
	// Everything after the module name belongs to the module.
	cmd.Flags().SetInterspersed(false)
	opts.AddFlags(cmd)
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "print JSON and exit with the module's exit code")
	cmd.Flags().StringVar(&opts.moduleArgs, "module-args", "", "JSON object passed to the module as ANSIBLE_MODULE_ARGS")
	cmd.Flags().StringVar(&opts.argsFile, "args-file", "", "write the --module-args payload to this file and keep it")
	return cmd
}

func defaultRunner(opts *rootOptions, cmd *cobra.Command) (*ansible.Runner, error) {
	settings, err := opts.Settings(cmd)
	if err != nil {
		return nil, err
	}
	return ansible.NewRunner(settings, cli.Logger(SERVICENAME, settings)), nil
}

func run(cmd *cobra.Command, opts *rootOptions, args []string) error {
	runner, err := opts.newRunner(opts, cmd)
	if err != nil {
		return cli.Fail(err)
	}
	defer runner.Logger.Sync()

	module := args[0]
	var res *ansible.Result
	if cmd.Flags().Changed("module-args") {
		if len(args) > 1 {
			return cli.Fail(fmt.Errorf("--module-args does not take extra module arguments"))
		}
		moduleArgs, derr := value.Decode([]byte(opts.moduleArgs))
		if derr != nil {
			return cli.Fail(&value.DecodeError{Source: "--module-args", Err: derr})
		}
		if opts.argsFile == "" {
			res, err = runner.RunWithArgs(cmd.Context(), module, moduleArgs, opts.strict)
		} else if err = ansible.WriteArgsFile(opts.argsFile, moduleArgs); err == nil {
			res, err = runner.Run(cmd.Context(), datamodels.NewAnsibleRequest(module, []string{opts.argsFile}, opts.strict))
		}
	} else if opts.argsFile != "" {
		return cli.Fail(fmt.Errorf("--args-file requires --module-args"))
	} else {
		res, err = runner.Run(cmd.Context(), datamodels.NewAnsibleRequest(module, args[1:], opts.strict))
	}
	if err != nil {
		return cli.Fail(err)
	}

	out := cmd.OutOrStdout()
	if !opts.strict {
		summary, err := res.Summary()
		if err != nil {
			return cli.Fail(err)
		}
		fmt.Fprintln(out, summary)
		return nil
	}

	text, err := res.Strict()
	if err != nil {
		return cli.Fail(err)
	}
	fmt.Fprint(out, text)
	if res.ExitCode != 0 {
		return &cli.ExitError{Code: res.ExitCode}
	}
	return nil
}
