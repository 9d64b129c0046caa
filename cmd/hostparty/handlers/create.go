package handlers

import (
	"context"
	"fmt"

	"github.com/hostparty/hostparty/internal/provisioning"
	"github.com/hostparty/hostparty/internal/util/naming"
)

// CreateOptions holds the create command flags.
type CreateOptions struct {
	Name              string
	Number            int
	PostInstallScript string
}

// newCreator creates the host creation workflow - can be replaced in tests.
var newCreator = func(opts ...provisioning.CreatorOption) *provisioning.Creator {
	return provisioning.NewCreator(opts...)
}

// Create handles the create command.
//
// With Number up to 1 it creates a single host, named Name or a random
// label, and fails on the first error. With a larger Number it creates that
// many hosts with random labels, skips the ones that fail and prints a
// summary; host failures never fail a batch.
func Create(ctx context.Context, g Globals, opts CreateOptions) error {
	if opts.Name != "" {
		if err := naming.ValidateLabel(opts.Name); err != nil {
			return err
		}
	}
	if opts.Number < 0 {
		return fmt.Errorf("number of servers must be positive, got %d", opts.Number)
	}

	s, err := openSession(ctx, g, "create")
	if err != nil {
		return err
	}
	defer s.close()

	observer := s.pctx.Observer
	script, err := loadPostInstallScript(ctx, s.cfg.Storage, opts.PostInstallScript)
	if err != nil {
		observer.Printf("Could not open post-install script: %v", err)
		script = ""
	}

	tmpl, err := provisioning.LoadBootTemplate(s.cfg.Scripts.BootTemplate)
	if err != nil {
		return err
	}
	creator := newCreator(provisioning.WithBootTemplate(tmpl))

	if opts.Number > 1 {
		observer.Printf("Creating %d servers in namespace %s", opts.Number, s.cfg.General.Namespace)
		result := creator.CreateBatch(s.pctx, opts.Number, script)
		fmt.Fprintln(stdout, "\n"+result.Summary())
		return nil
	}

	label := opts.Name
	if label == "" {
		label = naming.RandomLabel()
	}
	domain, err := creator.CreateServer(s.pctx, label, script)
	if err != nil {
		observer.Printf("An error happened while creating the server, aborting: %v", err)
		return &ReportedError{Err: err}
	}
	fmt.Fprintln(stdout, domain)
	return nil
}
