package provider

import (
	"context"
	"sync"
)

// MockInstanceProvider is a mock implementation of InstanceProvider.
// Unset funcs fall back to benign defaults; every call is recorded.
type MockInstanceProvider struct {
	CreateInstanceFunc func(ctx context.Context, name, bootScript string) (*Instance, error)
	GetInstanceFunc    func(ctx context.Context, id string) (*Instance, error)
	ListInstancesFunc  func(ctx context.Context, prefix string) ([]Instance, error)
	DeleteInstanceFunc func(ctx context.Context, instance Instance) error
	CommitFunc         func(ctx context.Context) error

	mu      sync.Mutex
	Created []string
	Deleted []Instance
	Commits int
}

var _ InstanceProvider = (*MockInstanceProvider)(nil)

// CreateInstance mocks instance creation.
func (m *MockInstanceProvider) CreateInstance(ctx context.Context, name, bootScript string) (*Instance, error) {
	m.mu.Lock()
	m.Created = append(m.Created, name)
	m.mu.Unlock()
	if m.CreateInstanceFunc != nil {
		return m.CreateInstanceFunc(ctx, name, bootScript)
	}
	return &Instance{ID: "mock-" + name, Name: name, Status: StatusBuilding}, nil
}

// GetInstance mocks instance lookup.
func (m *MockInstanceProvider) GetInstance(ctx context.Context, id string) (*Instance, error) {
	if m.GetInstanceFunc != nil {
		return m.GetInstanceFunc(ctx, id)
	}
	return &Instance{ID: id, IPAddress: "127.0.0.1", Status: StatusActive}, nil
}

// ListInstances mocks instance listing.
func (m *MockInstanceProvider) ListInstances(ctx context.Context, prefix string) ([]Instance, error) {
	if m.ListInstancesFunc != nil {
		return m.ListInstancesFunc(ctx, prefix)
	}
	return nil, nil
}

// DeleteInstance mocks instance deletion.
func (m *MockInstanceProvider) DeleteInstance(ctx context.Context, instance Instance) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, instance)
	m.mu.Unlock()
	if m.DeleteInstanceFunc != nil {
		return m.DeleteInstanceFunc(ctx, instance)
	}
	return nil
}

// Commit mocks the commit call.
func (m *MockInstanceProvider) Commit(ctx context.Context) error {
	m.mu.Lock()
	m.Commits++
	m.mu.Unlock()
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

// MockDNSProvider is a mock implementation of DNSProvider.
type MockDNSProvider struct {
	CreateRecordFunc func(ctx context.Context, subDomain, target, zone string) (*DNSRecord, error)
	ListRecordsFunc  func(ctx context.Context, suffix, zone string) ([]DNSRecord, error)
	DeleteRecordFunc func(ctx context.Context, record DNSRecord) error
	CommitFunc       func(ctx context.Context, zone string) error

	mu      sync.Mutex
	Created []DNSRecord
	Deleted []DNSRecord
	Commits []string
}

var _ DNSProvider = (*MockDNSProvider)(nil)

// CreateRecord mocks record creation.
func (m *MockDNSProvider) CreateRecord(ctx context.Context, subDomain, target, zone string) (*DNSRecord, error) {
	rec := DNSRecord{ID: "mock-" + subDomain, SubDomain: subDomain, Target: target, Zone: zone}
	m.mu.Lock()
	m.Created = append(m.Created, rec)
	m.mu.Unlock()
	if m.CreateRecordFunc != nil {
		return m.CreateRecordFunc(ctx, subDomain, target, zone)
	}
	return &rec, nil
}

// ListRecords mocks record listing.
func (m *MockDNSProvider) ListRecords(ctx context.Context, suffix, zone string) ([]DNSRecord, error) {
	if m.ListRecordsFunc != nil {
		return m.ListRecordsFunc(ctx, suffix, zone)
	}
	return nil, nil
}

// DeleteRecord mocks record deletion.
func (m *MockDNSProvider) DeleteRecord(ctx context.Context, record DNSRecord) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, record)
	m.mu.Unlock()
	if m.DeleteRecordFunc != nil {
		return m.DeleteRecordFunc(ctx, record)
	}
	return nil
}

// Commit mocks the zone commit.
func (m *MockDNSProvider) Commit(ctx context.Context, zone string) error {
	m.mu.Lock()
	m.Commits = append(m.Commits, zone)
	m.mu.Unlock()
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, zone)
	}
	return nil
}
