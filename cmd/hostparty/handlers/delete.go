package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/hostparty/hostparty/internal/inventory"
	"github.com/hostparty/hostparty/internal/provisioning"
	"github.com/hostparty/hostparty/internal/provisioning/destroy"
)

// DeleteOptions holds the delete command flags.
type DeleteOptions struct {
	Servers []string
	All     bool
	Exclude []string
	DryRun  bool
	Yes     bool
}

// ErrAborted is returned when the user declines the confirmation prompt.
var ErrAborted = errors.New("deletion aborted")

// Deleter plans and executes a deletion - matches *destroy.Provisioner.
type Deleter interface {
	Plan(ctx *provisioning.Context) ([]*inventory.Entry, error)
	Execute(ctx *provisioning.Context, selected []*inventory.Entry) (*destroy.Report, error)
}

// Factory function variables for delete - can be replaced in tests.
var (
	// newDeleter creates the destroy provisioner.
	newDeleter = func(sel destroy.Selection, opts ...destroy.Option) Deleter {
		return destroy.NewProvisioner(sel, opts...)
	}

	// isTerminal reports whether stdin is interactive.
	isTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// confirm asks the user to confirm the deletion of labels.
	confirm = confirmDeletion
)

// Delete handles the delete command.
//
// It lists the namespace, applies the selection and, after confirmation,
// deletes the instance and the DNS record of every selected host. A dry
// run only reports what would be deleted and never prompts.
func Delete(ctx context.Context, g Globals, opts DeleteOptions) error {
	sel := destroy.Selection{Names: opts.Servers, All: opts.All, Exclude: opts.Exclude}
	if err := sel.Validate(); err != nil {
		return err
	}

	s, err := openSession(ctx, g, "delete")
	if err != nil {
		return err
	}
	defer s.close()

	deleter := newDeleter(sel, destroy.WithDryRun(opts.DryRun), destroy.WithRetryOptions(retryOptions(s)...))
	selected, err := deleter.Plan(s.pctx)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		s.pctx.Observer.Printf("No server matches the selection in namespace %s", s.cfg.General.Namespace)
	}

	if len(selected) > 0 && !opts.DryRun && !opts.Yes {
		if !isTerminal() {
			return fmt.Errorf("refusing to delete %d servers without confirmation: pass --yes when not running in a terminal", len(selected))
		}
		ok, err := confirm(ctx, labelsOf(selected))
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	report, err := deleter.Execute(s.pctx, selected)
	if report != nil {
		fmt.Fprintln(stdout, report.String())
	}
	return err
}

func labelsOf(entries []*inventory.Entry) []string {
	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, e.Label)
	}
	return labels
}

func confirmDeletion(ctx context.Context, labels []string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %d servers?", len(labels))).
				Description(strings.Join(labels, ", ")).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithProgramOptions(tea.WithOutput(os.Stderr))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return ok, nil
}
