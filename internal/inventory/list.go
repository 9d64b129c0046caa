package inventory

import (
	"context"
	"fmt"

	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/util/naming"
	"github.com/hostparty/hostparty/internal/util/retry"
)

// GetList lists the instances and DNS records of namespace and joins them by label.
func GetList(
	ctx context.Context,
	instances provider.InstanceProvider,
	dns provider.DNSProvider,
	namespace, zone string,
	opts ...retry.Option,
) (*Entries, error) {
	entries := NewEntries()
	if err := GatherInstances(ctx, entries, instances, namespace, opts...); err != nil {
		return nil, err
	}
	if err := GatherRecords(ctx, entries, dns, namespace, zone, opts...); err != nil {
		return nil, err
	}
	return entries, nil
}

// GatherInstances adds every instance named <namespace>-<label> to entries.
func GatherInstances(ctx context.Context, entries *Entries, instances provider.InstanceProvider, namespace string, opts ...retry.Option) error {
	var list []provider.Instance
	err := retry.WithExponentialBackoff(ctx, func() error {
		var err error
		list, err = instances.ListInstances(ctx, naming.InstancePrefix(namespace))
		return err
	}, opts...)
	if err != nil {
		return fmt.Errorf("failed to list instances: %w", err)
	}

	for _, instance := range list {
		label, ok := naming.LabelFromInstance(namespace, instance.Name)
		if !ok {
			continue
		}
		entries.AddInstance(label, instance)
	}
	return nil
}

// GatherRecords adds every record of zone with sub-domain <label>.<namespace> to entries.
func GatherRecords(ctx context.Context, entries *Entries, dns provider.DNSProvider, namespace, zone string, opts ...retry.Option) error {
	var list []provider.DNSRecord
	err := retry.WithExponentialBackoff(ctx, func() error {
		var err error
		list, err = dns.ListRecords(ctx, naming.SubDomainSuffix(namespace), zone)
		return err
	}, opts...)
	if err != nil {
		return fmt.Errorf("failed to list dns records: %w", err)
	}

	for _, record := range list {
		label, ok := naming.LabelFromSubDomain(namespace, record.SubDomain)
		if !ok {
			continue
		}
		entries.AddRecord(label, record)
	}
	return nil
}
