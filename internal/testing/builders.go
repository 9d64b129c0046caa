package testing

import (
	"maps"
	"time"

	"github.com/hostparty/hostparty/internal/config"
)

// MockProviderName is the provider name the fixtures register under.
const MockProviderName = "mock"

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with sensible defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			General: config.GeneralConfig{
				Namespace:                "party",
				ConnectivityCheckTimeout: config.Duration(time.Second),
				Version:                  "v1.11.0",
			},
			Instances: config.InstancesConfig{
				Provider: MockProviderName,
				User:     config.DefaultUser,
				Password: "s3cret",
			},
			DNS: config.DNSConfig{
				Provider: MockProviderName,
				Zone:     "example.com",
			},
		},
	}
}

// WithNamespace sets the namespace.
func (b *ConfigBuilder) WithNamespace(namespace string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.General.Namespace = namespace
	return newBuilder
}

// WithZone sets the DNS zone.
func (b *ConfigBuilder) WithZone(zone string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.DNS.Zone = zone
	return newBuilder
}

// WithProviders sets the instance and DNS provider names.
func (b *ConfigBuilder) WithProviders(instances, dns string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Instances.Provider = instances
	newBuilder.cfg.DNS.Provider = dns
	return newBuilder
}

// WithConnectivityCheckTimeout sets how long a host may take to answer.
func (b *ConfigBuilder) WithConnectivityCheckTimeout(d time.Duration) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.General.ConnectivityCheckTimeout = config.Duration(d)
	return newBuilder
}

// WithScriptVar adds a boot script variable.
func (b *ConfigBuilder) WithScriptVar(key, value string) *ConfigBuilder {
	newBuilder := b.clone()
	if newBuilder.cfg.Scripts.Vars == nil {
		newBuilder.cfg.Scripts.Vars = make(map[string]string)
	}
	newBuilder.cfg.Scripts.Vars[key] = value
	return newBuilder
}

// WithPushgateway sets the Pushgateway URL.
func (b *ConfigBuilder) WithPushgateway(url string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Metrics.PushgatewayURL = url
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

// clone creates a deep copy of the builder for immutability.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	newCfg := b.cfg
	if b.cfg.Scripts.Vars != nil {
		newCfg.Scripts.Vars = maps.Clone(b.cfg.Scripts.Vars)
	}
	return &ConfigBuilder{cfg: newCfg}
}

// MinimalConfig returns a minimal valid config for simple tests.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}
