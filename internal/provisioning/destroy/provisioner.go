package destroy

import (
	"context"
	"fmt"

	"github.com/hostparty/hostparty/internal/inventory"
	"github.com/hostparty/hostparty/internal/provisioning"
	"github.com/hostparty/hostparty/internal/util/retry"
)

const phase = "destroy"

// Report counts what a run deleted, or would have deleted in a dry run.
type Report struct {
	DryRun           bool
	Selected         []string
	InstancesDeleted int
	InstancesFailed  int
	RecordsDeleted   int
	RecordsFailed    int
	Committed        bool
}

// Failed reports whether any deletion failed.
func (r *Report) Failed() bool {
	return r.InstancesFailed > 0 || r.RecordsFailed > 0
}

// String summarizes the report in one line.
func (r *Report) String() string {
	verb := "deleted"
	if r.DryRun {
		verb = "would be deleted"
	}
	return fmt.Sprintf("%d instances and %d records %s (%d instance and %d record failures)",
		r.InstancesDeleted, r.RecordsDeleted, verb, r.InstancesFailed, r.RecordsFailed)
}

// Provisioner deletes the hosts picked by a Selection.
type Provisioner struct {
	selection    Selection
	dryRun       bool
	retryOptions []retry.Option
	report       *Report
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithDryRun only reports what would be deleted.
func WithDryRun(dryRun bool) Option {
	return func(p *Provisioner) {
		p.dryRun = dryRun
	}
}

// WithRetryOptions tunes the retries of the listing calls.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(p *Provisioner) {
		p.retryOptions = opts
	}
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner(selection Selection, opts ...Option) *Provisioner {
	p := &Provisioner{selection: selection}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements provisioning.Phase.
func (p *Provisioner) Name() string {
	return phase
}

// DryRun reports whether the provisioner runs in dry-run mode.
func (p *Provisioner) DryRun() bool {
	return p.dryRun
}

// Report returns the report of the last Provision or Execute call.
func (p *Provisioner) Report() *Report {
	return p.report
}

// Provision implements provisioning.Phase: it plans and executes in one go.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	selected, err := p.Plan(ctx)
	if err != nil {
		return err
	}
	_, err = p.Execute(ctx, selected)
	return err
}

// Plan lists the namespace and applies the selection.
func (p *Provisioner) Plan(ctx *provisioning.Context) ([]*inventory.Entry, error) {
	if err := p.selection.Validate(); err != nil {
		return nil, err
	}
	if p.dryRun {
		ctx.Observer.Printf("Running in dry-run mode.")
	}

	entries, err := inventory.GetList(ctx, ctx.Instances, ctx.DNS,
		ctx.Config.General.Namespace, ctx.Config.DNS.Zone, p.retryOptions...)
	if err != nil {
		return nil, err
	}
	return p.selection.Apply(entries)
}

// Execute deletes the instance and the record of every selected entry.
// Deletion failures are logged and counted. The zone is committed once at
// the end, unless running dry.
func (p *Provisioner) Execute(ctx *provisioning.Context, selected []*inventory.Entry) (*Report, error) {
	report := &Report{DryRun: p.dryRun}
	p.report = report

	for _, entry := range selected {
		report.Selected = append(report.Selected, entry.Label)

		if entry.Instance != nil {
			p.deleteInstance(ctx, entry, report)
		}
		if entry.Record != nil {
			p.deleteRecord(ctx, entry, report)
		}
	}

	ctx.Observer.Printf("Applying the DNS changes...")
	if !p.dryRun {
		zone := ctx.Config.DNS.Zone
		if err := ctx.DNS.Commit(ctx, zone); err != nil {
			return report, fmt.Errorf("failed to apply dns changes to %s: %w", zone, err)
		}
		report.Committed = true
	}

	ctx.Observer.Printf("Done!")
	return report, nil
}

func (p *Provisioner) deleteInstance(ctx *provisioning.Context, entry *inventory.Entry, report *Report) {
	ctx.Observer.Printf("Deleting instance for id %s...", entry.Label)
	if p.dryRun {
		report.InstancesDeleted++
		ctx.Metrics.ResourceDeleted("instance", provisioning.OutcomeSkipped)
		return
	}

	provisioning.LogResourceDeleting(ctx.Observer, phase, "instance", entry.Instance.Name)
	opCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Delete)
	defer cancel()

	if err := ctx.Instances.DeleteInstance(opCtx, *entry.Instance); err != nil {
		ctx.Observer.Printf("Failed to delete instance for %s: %v", entry.Label, err)
		provisioning.LogResourceFailed(ctx.Observer, phase, "instance", entry.Instance.Name, err)
		report.InstancesFailed++
		ctx.Metrics.ResourceDeleted("instance", provisioning.OutcomeFailure)
		return
	}
	provisioning.LogResourceDeleted(ctx.Observer, phase, "instance", entry.Instance.Name)
	report.InstancesDeleted++
	ctx.Metrics.ResourceDeleted("instance", provisioning.OutcomeSuccess)
}

func (p *Provisioner) deleteRecord(ctx *provisioning.Context, entry *inventory.Entry, report *Report) {
	ctx.Observer.Printf("Deleting domain name for id %s...", entry.Label)
	if p.dryRun {
		report.RecordsDeleted++
		ctx.Metrics.ResourceDeleted("record", provisioning.OutcomeSkipped)
		return
	}

	name := entry.Record.FQDN()
	provisioning.LogResourceDeleting(ctx.Observer, phase, "record", name)
	opCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Delete)
	defer cancel()

	if err := ctx.DNS.DeleteRecord(opCtx, *entry.Record); err != nil {
		ctx.Observer.Printf("Failed to delete domain name for %s: %v", entry.Label, err)
		provisioning.LogResourceFailed(ctx.Observer, phase, "record", name, err)
		report.RecordsFailed++
		ctx.Metrics.ResourceDeleted("record", provisioning.OutcomeFailure)
		return
	}
	provisioning.LogResourceDeleted(ctx.Observer, phase, "record", name)
	report.RecordsDeleted++
	ctx.Metrics.ResourceDeleted("record", provisioning.OutcomeSuccess)
}
