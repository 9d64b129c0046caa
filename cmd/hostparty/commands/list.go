package commands

import (
	"github.com/spf13/cobra"

	"github.com/hostparty/hostparty/cmd/hostparty/handlers"
)

// List returns the list command.
func List(g *handlers.Globals) *cobra.Command {
	var opts handlers.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the hosts of the namespace",
		Long: `List joins the instances and DNS records of the namespace by name.

Hosts with both an instance and a record are listed first. Instances
without a record and records without an instance follow as orphans.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), *g, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.HideOrphans, "hide-orphans", false, "Only list complete hosts")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", handlers.OutputTable, "Output format: table or json")

	return cmd
}
