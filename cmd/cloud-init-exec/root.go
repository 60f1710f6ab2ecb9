package main

import (
	"github.com/andrej220/modexec/internal/cli"
	"github.com/andrej220/modexec/internal/modules"
	"github.com/andrej220/modexec/pkg/cloudinit"
	datamodels "github.com/andrej220/modexec/pkg/shared-models"
	"github.com/spf13/cobra"
)

const SERVICENAME = "cloud-init-exec"

type runnerFactory func(opts *cli.Options, cmd *cobra.Command) (*cloudinit.Runner, error)

func newRootCmd(newRunner runnerFactory) *cobra.Command {
	opts := &cli.Options{}
	cmd := &cobra.Command{
		Use:   SERVICENAME + " [flags] <distro> <module>",
		Short: "Run a cloud-init config module in process",
		Long: `cloud-init-exec reads the module configuration as a JSON object on stdin,
runs the module against a scratch workspace and exits 1 if the module
logged anything at WARNING or above.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(opts, cmd)
			if err != nil {
				return cli.Fail(err)
			}
			defer runner.Logger.Sync()

			inv, err := runner.Prepare(datamodels.NewCloudInitRequest(args[0], args[1]))
			if err != nil {
				return cli.Fail(err)
			}
			cfg, err := cloudinit.ReadConfig(cmd.InOrStdin())
			if err != nil {
				return cli.Fail(err)
			}
			outcome, err := inv.Run(cmd.Context(), cfg)
			if err != nil {
				return cli.Fail(err)
			}
			if code := outcome.ExitCode(); code != 0 {
				return &cli.ExitError{Code: code}
			}
			return nil
		},
	}
	opts.AddFlags(cmd)
	return cmd
}

func defaultRunner(opts *cli.Options, cmd *cobra.Command) (*cloudinit.Runner, error) {
	settings, err := opts.Settings(cmd)
	if err != nil {
		return nil, err
	}
	mods := cloudinit.NewModuleRegistry()
	modules.Register(mods)
	distros := cloudinit.NewDistroRegistry(cloudinit.DistroOptions{})
	return cloudinit.NewRunner(settings, mods, distros, cli.Logger(SERVICENAME, settings)), nil
}
