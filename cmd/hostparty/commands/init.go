package commands

import (
	"github.com/spf13/cobra"

	"github.com/hostparty/hostparty/cmd/hostparty/handlers"
)

// Init returns the init command.
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Init asks for the namespace, the providers, the DNS zone and the
account created on every host, then writes the configuration file.

Provider credentials are not asked for. They are read from the
environment (HCLOUD_TOKEN, CLOUDFLARE_API_TOKEN, OVH_*, OS_*, AWS_*)
or from the args section of each provider in the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default $HOSTPARTY_CONFIG or config.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
