// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/hostparty/hostparty/cmd/hostparty/handlers"
)

// Root returns the root command for the hostparty CLI.
func Root() *cobra.Command {
	g := &handlers.Globals{}

	cmd := &cobra.Command{
		Use:           "hostparty",
		Short:         "Provision event hosts with a DNS name on your cloud provider",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "",
		"Path to the configuration file (default $HOSTPARTY_CONFIG or config.yaml)")
	cmd.PersistentFlags().StringVar(&g.LogFormat, "log-format", handlers.LogFormatText, "Log format: text or json")

	cmd.AddCommand(Init())
	cmd.AddCommand(Create(g))
	cmd.AddCommand(List(g))
	cmd.AddCommand(Delete(g))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
