package commands

import (
	"github.com/spf13/cobra"

	"github.com/hostparty/hostparty/cmd/hostparty/handlers"
)

// Create returns the create command.
func Create(g *handlers.Globals) *cobra.Command {
	var opts handlers.CreateOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create one or more hosts",
		Long: `Create provisions hosts in the configured namespace.

For every host, create:
  - starts an instance named <namespace>-<name> running the boot script
  - waits for the instance to become active
  - points <name>.<namespace>.<zone> at its IPv4 address
  - waits until the host answers HTTP requests on that domain

With --number, hosts get random names; a host that fails is skipped and
the command prints the domains that were created.

Examples:
  hostparty create
  hostparty create -n stage
  hostparty create -N 5 -s post_install.sh
  hostparty create -s s3://scripts/post_install.sh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), *g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Name of the host (random when unset)")
	cmd.Flags().IntVarP(&opts.Number, "number", "N", 0, "Create this many hosts with random names")
	cmd.Flags().StringVarP(&opts.PostInstallScript, "post-install-script", "s", "",
		"Script run at the end of the boot script: local path or s3://bucket/key")
	cmd.MarkFlagsMutuallyExclusive("name", "number")

	return cmd
}
