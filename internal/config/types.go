package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the hostparty configuration.
type Config struct {
	General   GeneralConfig   `yaml:"general"`
	Instances InstancesConfig `yaml:"instances"`
	DNS       DNSConfig       `yaml:"dns"`
	Scripts   ScriptsConfig   `yaml:"scripts,omitempty"`
	Storage   StorageConfig   `yaml:"storage,omitempty"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`
}

// GeneralConfig holds settings that apply to every host.
type GeneralConfig struct {
	// Namespace scopes which instances and DNS records belong to hostparty.
	Namespace string `yaml:"namespace"`

	// ConnectivityCheckTimeout bounds how long a created host may take to
	// answer HTTP requests on its domain.
	ConnectivityCheckTimeout Duration `yaml:"connectivity_check_timeout,omitempty"`

	// Version is passed to the boot script.
	Version string `yaml:"version,omitempty"`
}

// InstancesConfig selects the compute provider.
type InstancesConfig struct {
	Provider string    `yaml:"provider"`
	User     string    `yaml:"user,omitempty"`
	Password string    `yaml:"password,omitempty"`
	Args     yaml.Node `yaml:"args,omitempty"`
}

// DNSConfig selects the DNS provider and the zone records are created in.
type DNSConfig struct {
	Provider string    `yaml:"provider"`
	Zone     string    `yaml:"zone"`
	Args     yaml.Node `yaml:"args,omitempty"`
}

// ScriptsConfig customizes the boot script.
type ScriptsConfig struct {
	// BootTemplate is an optional path to a template replacing the embedded one.
	BootTemplate string            `yaml:"boot_template,omitempty"`
	Vars         map[string]string `yaml:"vars,omitempty"`
}

// StorageConfig configures the S3-compatible store post-install scripts
// can be fetched from (s3://bucket/key).
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// MetricsConfig configures the optional Prometheus Pushgateway.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url,omitempty"`
}

// Duration is a time.Duration that decodes from either a Go duration
// string ("90s", "5m") or an integer number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}

	if secs, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		if secs < 0 {
			return fmt.Errorf("line %d: duration must not be negative", value.Line)
		}
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, value.Value, err)
	}
	if parsed < 0 {
		return fmt.Errorf("line %d: duration must not be negative", value.Line)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
