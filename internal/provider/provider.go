package provider

import (
	"context"
	"fmt"
	"net/netip"
)

// InstanceStatus is the lifecycle state of a compute instance.
type InstanceStatus string

const (
	// StatusBuilding means the provider is still setting the instance up.
	StatusBuilding InstanceStatus = "building"
	// StatusActive means the instance is running.
	StatusActive InstanceStatus = "active"
	// StatusError means the provider gave up on the instance.
	StatusError InstanceStatus = "error"
)

// Instance is a compute instance as reported by an InstanceProvider.
type Instance struct {
	ID        string
	Name      string
	IPAddress string
	Status    InstanceStatus
}

// DNSRecord is an A record as reported by a DNSProvider.
type DNSRecord struct {
	ID        string
	SubDomain string
	Target    string
	Zone      string
}

// FQDN returns the fully qualified record name.
func (r DNSRecord) FQDN() string {
	return r.SubDomain + "." + r.Zone
}

// InstanceProvider manages compute instances.
type InstanceProvider interface {
	// CreateInstance requests a new instance named name, booted with
	// bootScript as user data. The returned instance is usually still
	// building.
	CreateInstance(ctx context.Context, name, bootScript string) (*Instance, error)

	// GetInstance returns the current state of an instance.
	GetInstance(ctx context.Context, id string) (*Instance, error)

	// ListInstances returns every instance whose name starts with prefix.
	ListInstances(ctx context.Context, prefix string) ([]Instance, error)

	DeleteInstance(ctx context.Context, instance Instance) error

	// Commit applies pending changes for providers that batch them.
	Commit(ctx context.Context) error
}

// DNSProvider manages A records inside a zone.
type DNSProvider interface {
	CreateRecord(ctx context.Context, subDomain, target, zone string) (*DNSRecord, error)

	// ListRecords returns every A record in zone whose sub-domain ends with suffix.
	ListRecords(ctx context.Context, suffix, zone string) ([]DNSRecord, error)

	DeleteRecord(ctx context.Context, record DNSRecord) error

	// Commit applies pending zone changes. Providers without staging
	// treat it as a no-op.
	Commit(ctx context.Context, zone string) error
}

// ValidateIPv4 checks that target is a dotted-quad IPv4 address.
func ValidateIPv4(target string) error {
	addr, err := netip.ParseAddr(target)
	if err != nil {
		return fmt.Errorf("invalid record target %q: %w", target, err)
	}
	if !addr.Is4() {
		return fmt.Errorf("invalid record target %q: not an IPv4 address", target)
	}
	return nil
}
