package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hostparty/hostparty/internal/inventory"
)

// Output formats accepted by list -o.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// ListOptions holds the list command flags.
type ListOptions struct {
	HideOrphans bool
	Output      string
}

// List handles the list command.
//
// It joins the instances and DNS records of the namespace by label and
// prints the complete hosts, followed by the orphaned instances and records
// unless HideOrphans is set.
func List(ctx context.Context, g Globals, opts ListOptions) error {
	if opts.Output == "" {
		opts.Output = OutputTable
	}
	if opts.Output != OutputTable && opts.Output != OutputJSON {
		return fmt.Errorf("unknown output format %q (expected %s or %s)", opts.Output, OutputTable, OutputJSON)
	}

	s, err := openSession(ctx, g, "list")
	if err != nil {
		return err
	}
	defer s.close()

	entries, err := inventory.GetList(s.pctx, s.pctx.Instances, s.pctx.DNS,
		s.cfg.General.Namespace, s.cfg.DNS.Zone, retryOptions(s)...)
	if err != nil {
		return err
	}
	sorted := inventory.SortEntries(entries)
	if opts.HideOrphans {
		sorted.OrphanedInstances = []inventory.OrphanedInstance{}
		sorted.OrphanedRecords = []inventory.OrphanedRecord{}
	}

	if opts.Output == OutputJSON {
		return writeJSON(stdout, sorted)
	}
	_, err = io.WriteString(stdout, renderList(sorted))
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
