package config

import (
	"fmt"
	"regexp"
	"strings"
)

// dnsLabel matches a single RFC 1123 DNS label.
var dnsLabel = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if err := c.validateGeneral(); err != nil {
		return fmt.Errorf("general validation failed: %w", err)
	}

	if c.Instances.Provider == "" {
		return fmt.Errorf("instances.provider is required")
	}

	if err := c.validateDNS(); err != nil {
		return fmt.Errorf("dns validation failed: %w", err)
	}

	if c.Storage.AccessKey != "" && c.Storage.SecretKey == "" {
		return fmt.Errorf("storage.secret_key is required when storage.access_key is set")
	}

	return nil
}

func (c *Config) validateGeneral() error {
	ns := c.General.Namespace
	if ns == "" {
		return fmt.Errorf("namespace is required")
	}
	if !dnsLabel.MatchString(ns) {
		return fmt.Errorf("namespace %q must be a lowercase DNS label", ns)
	}
	if c.General.ConnectivityCheckTimeout < 0 {
		return fmt.Errorf("connectivity_check_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateDNS() error {
	if c.DNS.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	zone := strings.TrimSuffix(c.DNS.Zone, ".")
	if zone == "" {
		return fmt.Errorf("zone is required")
	}
	for _, part := range strings.Split(zone, ".") {
		if !dnsLabel.MatchString(part) {
			return fmt.Errorf("zone %q is not a valid domain name", c.DNS.Zone)
		}
	}
	return nil
}
