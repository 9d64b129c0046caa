package commands

import (
	"github.com/spf13/cobra"

	"github.com/hostparty/hostparty/cmd/hostparty/handlers"
)

// Delete returns the delete command.
func Delete(g *handlers.Globals) *cobra.Command {
	var opts handlers.DeleteOptions

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete hosts and their DNS records",
		Long: `Delete removes the instance and the DNS record of the selected hosts.

Select hosts by name with --server, or every host of the namespace with
--all, optionally minus the names given with --exclude. Orphaned
instances and records are deleted as well.

Examples:
  hostparty delete -s abcde -s stage
  hostparty delete -a -e stage
  hostparty delete -a --dry-run

WARNING: Deleted hosts cannot be recovered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Delete(cmd.Context(), *g, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Servers, "server", "s", nil, "Name of a host to delete (repeatable)")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Delete every host of the namespace")
	cmd.Flags().StringArrayVarP(&opts.Exclude, "exclude", "e", nil, "Name of a host to keep with --all (repeatable)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "d", false, "Only print what would be deleted")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.MarkFlagsMutuallyExclusive("server", "all")
	cmd.MarkFlagsMutuallyExclusive("server", "exclude")
	cmd.MarkFlagsOneRequired("server", "all")

	return cmd
}
