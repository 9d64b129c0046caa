// Package provider defines the two vendor roles hostparty orchestrates:
// [InstanceProvider] for compute instances and [DNSProvider] for DNS
// records. Concrete implementations live under internal/platform and are
// selected by name through a [Registry].
package provider
