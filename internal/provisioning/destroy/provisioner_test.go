package destroy

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/provisioning"
	"github.com/hostparty/hostparty/internal/util/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	mu      sync.Mutex
	deleted map[string]int
}

func (m *countingMetrics) HostCreated(string, time.Duration) {}

func (m *countingMetrics) ResourceDeleted(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleted == nil {
		m.deleted = make(map[string]int)
	}
	m.deleted[kind+"/"+outcome]++
}

func fixtures() (*provider.MockInstanceProvider, *provider.MockDNSProvider) {
	instances := &provider.MockInstanceProvider{
		ListInstancesFunc: func(_ context.Context, _ string) ([]provider.Instance, error) {
			return []provider.Instance{
				{ID: "1", Name: "party-aaaaa", Status: provider.StatusActive, IPAddress: "1.1.1.1"},
				{ID: "2", Name: "party-bbbbb", Status: provider.StatusActive, IPAddress: "2.2.2.2"},
			}, nil
		},
	}
	dns := &provider.MockDNSProvider{
		ListRecordsFunc: func(_ context.Context, _, _ string) ([]provider.DNSRecord, error) {
			return []provider.DNSRecord{
				{ID: "r1", SubDomain: "aaaaa.party", Target: "1.1.1.1", Zone: "example.com"},
				{ID: "r3", SubDomain: "ccccc.party", Target: "3.3.3.3", Zone: "example.com"},
			}, nil
		},
	}
	return instances, dns
}

func newTestContext(instances provider.InstanceProvider, dns provider.DNSProvider) (*provisioning.Context, *bytes.Buffer, *countingMetrics) {
	var buf bytes.Buffer
	cfg := &config.Config{
		General: config.GeneralConfig{Namespace: "party"},
		DNS:     config.DNSConfig{Zone: "example.com"},
	}
	ctx := provisioning.NewContext(context.Background(), cfg, instances, dns, provisioning.NewConsoleObserverTo(&buf))
	ctx.Timeouts = &config.Timeouts{Delete: time.Second, PollInterval: time.Millisecond}
	metrics := &countingMetrics{}
	ctx.Metrics = metrics
	return ctx, &buf, metrics
}

func TestProvisioner_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "destroy", NewProvisioner(Selection{All: true}).Name())
}

func TestProvision_All(t *testing.T) {
	t.Parallel()
	instances, dns := fixtures()
	ctx, out, metrics := newTestContext(instances, dns)

	p := NewProvisioner(Selection{All: true})
	require.NoError(t, p.Provision(ctx))

	assert.Equal(t, []string{"party-aaaaa", "party-bbbbb"}, []string{instances.Deleted[0].Name, instances.Deleted[1].Name})
	require.Len(t, dns.Deleted, 2)
	assert.Equal(t, "aaaaa.party", dns.Deleted[0].SubDomain)
	assert.Equal(t, "ccccc.party", dns.Deleted[1].SubDomain)
	assert.Equal(t, []string{"example.com"}, dns.Commits, "a single commit for the whole run")

	report := p.Report()
	require.NotNil(t, report)
	assert.Equal(t, []string{"aaaaa", "bbbbb", "ccccc"}, report.Selected)
	assert.Equal(t, 2, report.InstancesDeleted)
	assert.Equal(t, 2, report.RecordsDeleted)
	assert.True(t, report.Committed)
	assert.False(t, report.Failed())

	log := out.String()
	assert.Contains(t, log, "Deleting instance for id aaaaa...")
	assert.Contains(t, log, "Deleting domain name for id ccccc...")
	assert.Contains(t, log, "Applying the DNS changes...")
	assert.Contains(t, log, "Done!")
	assert.NotContains(t, log, "dry-run")

	assert.Equal(t, 2, metrics.deleted["instance/success"])
	assert.Equal(t, 2, metrics.deleted["record/success"])
}

func TestProvision_DryRunIsNonDestructive(t *testing.T) {
	t.Parallel()
	instances, dns := fixtures()
	ctx, out, metrics := newTestContext(instances, dns)

	p := NewProvisioner(Selection{All: true, Exclude: []string{"bbbbb"}}, WithDryRun(true))
	require.NoError(t, p.Provision(ctx))

	assert.Empty(t, instances.Deleted)
	assert.Empty(t, dns.Deleted)
	assert.Empty(t, dns.Commits)
	assert.Zero(t, instances.Commits)

	report := p.Report()
	assert.True(t, report.DryRun)
	assert.False(t, report.Committed)
	assert.Equal(t, []string{"aaaaa", "ccccc"}, report.Selected)
	assert.Equal(t, 1, report.InstancesDeleted)
	assert.Equal(t, 2, report.RecordsDeleted)
	assert.Contains(t, report.String(), "would be deleted")

	log := out.String()
	assert.Contains(t, log, "Running in dry-run mode.")
	assert.Contains(t, log, "Deleting instance for id aaaaa...")
	assert.NotContains(t, log, "Deleting instance for id bbbbb...")
	assert.Equal(t, 1, metrics.deleted["instance/dry_run"])
}

func TestProvision_FailuresAreSkipped(t *testing.T) {
	t.Parallel()
	instances, dns := fixtures()
	instances.DeleteInstanceFunc = func(_ context.Context, instance provider.Instance) error {
		if instance.Name == "party-aaaaa" {
			return errors.New("server is locked")
		}
		return nil
	}
	dns.DeleteRecordFunc = func(_ context.Context, record provider.DNSRecord) error {
		if record.SubDomain == "ccccc.party" {
			return errors.New("record vanished")
		}
		return nil
	}
	ctx, out, metrics := newTestContext(instances, dns)

	p := NewProvisioner(Selection{All: true})
	require.NoError(t, p.Provision(ctx))

	report := p.Report()
	assert.Equal(t, 1, report.InstancesDeleted)
	assert.Equal(t, 1, report.InstancesFailed)
	assert.Equal(t, 1, report.RecordsDeleted)
	assert.Equal(t, 1, report.RecordsFailed)
	assert.True(t, report.Failed())
	assert.Len(t, dns.Deleted, 2, "a failed instance does not prevent deleting its record")
	assert.Equal(t, []string{"example.com"}, dns.Commits)

	log := out.String()
	assert.Contains(t, log, "Failed to delete instance for aaaaa: server is locked")
	assert.Contains(t, log, "Failed to delete domain name for ccccc: record vanished")
	assert.Equal(t, 1, metrics.deleted["instance/failure"])
}

func TestProvision_UnknownName(t *testing.T) {
	t.Parallel()
	instances, dns := fixtures()
	ctx, _, _ := newTestContext(instances, dns)

	err := NewProvisioner(Selection{Names: []string{"aaaaa", "zzzzz"}}).Provision(ctx)

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, []string{"zzzzz"}, lookupErr.Labels)
	assert.Empty(t, instances.Deleted)
	assert.Empty(t, dns.Commits)
}

func TestProvision_InvalidSelection(t *testing.T) {
	t.Parallel()
	instances, dns := fixtures()
	ctx, _, _ := newTestContext(instances, dns)

	err := NewProvisioner(Selection{}).Provision(ctx)
	require.Error(t, err)
	assert.Empty(t, dns.Commits)
}

func TestProvision_ListingError(t *testing.T) {
	t.Parallel()
	instances, dns := fixtures()
	instances.ListInstancesFunc = func(_ context.Context, _ string) ([]provider.Instance, error) {
		return nil, errors.New("unauthorized")
	}
	ctx, _, _ := newTestContext(instances, dns)

	p := NewProvisioner(Selection{All: true}, WithRetryOptions(retry.WithMaxRetries(0)))
	err := p.Provision(ctx)
	assert.ErrorContains(t, err, "failed to list instances")
	assert.Nil(t, p.Report())
}

func TestExecute_CommitError(t *testing.T) {
	t.Parallel()
	instances, dns := fixtures()
	dns.CommitFunc = func(_ context.Context, _ string) error { return errors.New("zone refresh failed") }
	ctx, _, _ := newTestContext(instances, dns)

	p := NewProvisioner(Selection{Names: []string{"ccccc"}})
	selected, err := p.Plan(ctx)
	require.NoError(t, err)
	require.Len(t, selected, 1)

	report, err := p.Execute(ctx, selected)
	require.Error(t, err)
	assert.ErrorContains(t, err, "zone refresh failed")
	assert.Equal(t, 1, report.RecordsDeleted)
	assert.False(t, report.Committed)
}
