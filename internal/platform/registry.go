// Package platform wires the vendor packages into a provider registry.
package platform

import (
	"github.com/hostparty/hostparty/internal/platform/cloudflare"
	"github.com/hostparty/hostparty/internal/platform/hcloud"
	"github.com/hostparty/hostparty/internal/platform/openstack"
	"github.com/hostparty/hostparty/internal/platform/ovh"
	"github.com/hostparty/hostparty/internal/platform/route53"
	"github.com/hostparty/hostparty/internal/provider"
)

// DefaultRegistry returns a registry with every built-in provider.
func DefaultRegistry() *provider.Registry {
	r := provider.NewRegistry()

	r.RegisterInstances(hcloud.ProviderName, hcloud.NewProvider)
	r.RegisterInstances(openstack.ProviderName, openstack.NewProvider)

	r.RegisterDNS(cloudflare.ProviderName, cloudflare.NewProvider)
	r.RegisterDNS(route53.ProviderName, route53.NewProvider)
	r.RegisterDNS(ovh.ProviderName, ovh.NewProvider)

	return r
}
