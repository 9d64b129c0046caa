package provider

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Role names the kind of provider being looked up.
type Role string

const (
	RoleInstances Role = "instances"
	RoleDNS       Role = "dns"
)

// UnknownProviderError is returned when the configuration names a provider
// no factory is registered for.
type UnknownProviderError struct {
	Role      Role
	Name      string
	Available []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown %s provider %q (available: %v)", e.Role, e.Name, e.Available)
}

// InstanceFactory builds an InstanceProvider from its config args.
type InstanceFactory func(args *yaml.Node, opts Options) (InstanceProvider, error)

// DNSFactory builds a DNSProvider from its config args.
type DNSFactory func(args *yaml.Node, opts Options) (DNSProvider, error)

// Options carries settings every factory may need.
type Options struct {
	// Namespace is stamped on provider-side labels where supported.
	Namespace string
}

// Registry maps configuration names to provider factories.
type Registry struct {
	instances map[string]InstanceFactory
	dns       map[string]DNSFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		instances: make(map[string]InstanceFactory),
		dns:       make(map[string]DNSFactory),
	}
}

// RegisterInstances registers an instance provider factory.
func (r *Registry) RegisterInstances(name string, f InstanceFactory) {
	r.instances[name] = f
}

// RegisterDNS registers a DNS provider factory.
func (r *Registry) RegisterDNS(name string, f DNSFactory) {
	r.dns[name] = f
}

// Instances builds the instance provider registered under name.
func (r *Registry) Instances(name string, args *yaml.Node, opts Options) (InstanceProvider, error) {
	f, ok := r.instances[name]
	if !ok {
		return nil, &UnknownProviderError{Role: RoleInstances, Name: name, Available: sortedKeys(r.instances)}
	}
	p, err := f(args, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s instance provider: %w", name, err)
	}
	return p, nil
}

// DNS builds the DNS provider registered under name.
func (r *Registry) DNS(name string, args *yaml.Node, opts Options) (DNSProvider, error) {
	f, ok := r.dns[name]
	if !ok {
		return nil, &UnknownProviderError{Role: RoleDNS, Name: name, Available: sortedKeys(r.dns)}
	}
	p, err := f(args, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s dns provider: %w", name, err)
	}
	return p, nil
}

// InstanceNames returns the registered instance provider names, sorted.
func (r *Registry) InstanceNames() []string {
	return sortedKeys(r.instances)
}

// DNSNames returns the registered DNS provider names, sorted.
func (r *Registry) DNSNames() []string {
	return sortedKeys(r.dns)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
