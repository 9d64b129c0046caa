package testing

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/util/naming"
)

// ProviderFixture provides mock providers pre-loaded with the hosts of a
// namespace, for listing and deletion scenarios.
type ProviderFixture struct {
	namespace string
	zone      string
	instances []provider.Instance
	records   []provider.DNSRecord

	Instances *provider.MockInstanceProvider
	DNS       *provider.MockDNSProvider
}

// NewProviderFixture creates an empty fixture for the namespace and zone of cfg.
func NewProviderFixture(cfg *config.Config) *ProviderFixture {
	f := &ProviderFixture{
		namespace: cfg.General.Namespace,
		zone:      cfg.DNS.Zone,
		Instances: &provider.MockInstanceProvider{},
		DNS:       &provider.MockDNSProvider{},
	}
	f.Instances.ListInstancesFunc = func(context.Context, string) ([]provider.Instance, error) {
		return append([]provider.Instance(nil), f.instances...), nil
	}
	f.DNS.ListRecordsFunc = func(context.Context, string, string) ([]provider.DNSRecord, error) {
		return append([]provider.DNSRecord(nil), f.records...), nil
	}
	return f
}

// WithHost adds an active instance and its record.
func (f *ProviderFixture) WithHost(label, ip string) *ProviderFixture {
	f.WithOrphanedInstance(label, ip)
	f.instances[len(f.instances)-1].Status = provider.StatusActive
	return f.WithOrphanedRecord(label, ip)
}

// WithOrphanedInstance adds a building instance without a record.
func (f *ProviderFixture) WithOrphanedInstance(label, ip string) *ProviderFixture {
	f.instances = append(f.instances, provider.Instance{
		ID:        fmt.Sprintf("%d", len(f.instances)+1),
		Name:      naming.Instance(f.namespace, label),
		IPAddress: ip,
		Status:    provider.StatusBuilding,
	})
	return f
}

// WithOrphanedRecord adds a record without an instance.
func (f *ProviderFixture) WithOrphanedRecord(label, target string) *ProviderFixture {
	f.records = append(f.records, provider.DNSRecord{
		ID:        fmt.Sprintf("r%d", len(f.records)+1),
		SubDomain: naming.SubDomain(label, f.namespace),
		Target:    target,
		Zone:      f.zone,
	})
	return f
}

// Registry returns a registry resolving MockProviderName to the fixture's
// providers for both roles.
func (f *ProviderFixture) Registry() *provider.Registry {
	r := provider.NewRegistry()
	r.RegisterInstances(MockProviderName, func(*yaml.Node, provider.Options) (provider.InstanceProvider, error) {
		return f.Instances, nil
	})
	r.RegisterDNS(MockProviderName, func(*yaml.Node, provider.Options) (provider.DNSProvider, error) {
		return f.DNS, nil
	})
	return r
}
