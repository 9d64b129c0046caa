// Package openstack implements the "openstack" instance provider on top of
// the Nova compute API via gophercloud.
package openstack

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/util/labels"
	"github.com/hostparty/hostparty/internal/util/naming"

	"github.com/gophercloud/gophercloud"
	"github.com/gophercloud/gophercloud/openstack"
	"github.com/gophercloud/gophercloud/openstack/compute/v2/servers"
	"gopkg.in/yaml.v3"
)

// ProviderName is the instances.provider value selecting this package.
const ProviderName = "openstack"

// DefaultPublicNetwork is the network the public IPv4 is read from.
const DefaultPublicNetwork = "Ext-Net"

// Args are the instances.args accepted by the openstack provider. Empty
// credentials fall back to the standard OS_* environment variables.
type Args struct {
	AuthURL    string `yaml:"auth_url"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	TenantID   string `yaml:"tenant_id"`
	TenantName string `yaml:"tenant_name"`
	DomainName string `yaml:"domain_name"`
	RegionName string `yaml:"region_name"`

	ImageID  string `yaml:"image_id"`
	FlavorID string `yaml:"flavor_id"`

	// PublicNetwork names the network whose IPv4 address is reported.
	PublicNetwork string `yaml:"public_network"`
	// NetworkID optionally attaches new servers to a specific network.
	NetworkID string `yaml:"network_id"`
}

// Client implements provider.InstanceProvider using the OpenStack compute API.
type Client struct {
	compute   *gophercloud.ServiceClient
	args      Args
	namespace string
}

var _ provider.InstanceProvider = (*Client)(nil)

// NewClient wraps an authenticated compute service client.
func NewClient(compute *gophercloud.ServiceClient, args Args, namespace string) *Client {
	if args.PublicNetwork == "" {
		args.PublicNetwork = DefaultPublicNetwork
	}
	return &Client{compute: compute, args: args, namespace: namespace}
}

// NewProvider is the provider.InstanceFactory for openstack.
func NewProvider(node *yaml.Node, opts provider.Options) (provider.InstanceProvider, error) {
	var args Args
	if err := config.DecodeArgs(node, &args); err != nil {
		return nil, err
	}
	if args.ImageID == "" || args.FlavorID == "" {
		return nil, fmt.Errorf("openstack image_id and flavor_id are required")
	}

	authOpts, err := authOptions(args)
	if err != nil {
		return nil, err
	}

	pc, err := openstack.AuthenticatedClient(authOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate against openstack: %w", err)
	}
	compute, err := openstack.NewComputeV2(pc, gophercloud.EndpointOpts{Region: args.RegionName})
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}
	return NewClient(compute, args, opts.Namespace), nil
}

func authOptions(args Args) (gophercloud.AuthOptions, error) {
	if args.AuthURL == "" {
		opts, err := openstack.AuthOptionsFromEnv()
		if err != nil {
			return gophercloud.AuthOptions{}, fmt.Errorf("openstack credentials missing from args and environment: %w", err)
		}
		return opts, nil
	}
	return gophercloud.AuthOptions{
		IdentityEndpoint: args.AuthURL,
		Username:         args.Username,
		Password:         args.Password,
		TenantID:         args.TenantID,
		TenantName:       args.TenantName,
		DomainName:       args.DomainName,
	}, nil
}

// CreateInstance boots a server from the configured image and flavor.
func (c *Client) CreateInstance(_ context.Context, name, bootScript string) (*provider.Instance, error) {
	opts := servers.CreateOpts{
		Name:      name,
		ImageRef:  c.args.ImageID,
		FlavorRef: c.args.FlavorID,
		UserData:  []byte(bootScript),
		Metadata:  c.metadata(name),
	}
	if c.args.NetworkID != "" {
		opts.Networks = []servers.Network{{UUID: c.args.NetworkID}}
	}

	server, err := servers.Create(c.compute, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	inst := c.toInstance(server)
	if inst.Name == "" {
		inst.Name = name
	}
	if inst.Status == "" {
		inst.Status = provider.StatusBuilding
	}
	return inst, nil
}

func (c *Client) metadata(name string) map[string]string {
	if c.namespace == "" {
		return nil
	}
	lb := labels.NewLabelBuilder(c.namespace)
	if label, ok := naming.LabelFromInstance(c.namespace, name); ok {
		lb.WithLabel(label)
	}
	return lb.Build()
}

// GetInstance returns the current state of a server.
func (c *Client) GetInstance(_ context.Context, id string) (*provider.Instance, error) {
	server, err := servers.Get(c.compute, id).Extract()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("server not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	return c.toInstance(server), nil
}

// ListInstances returns every server whose name starts with prefix.
func (c *Client) ListInstances(_ context.Context, prefix string) ([]provider.Instance, error) {
	pages, err := servers.List(c.compute, servers.ListOpts{
		Name: "^" + regexp.QuoteMeta(prefix),
	}).AllPages()
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	all, err := servers.ExtractServers(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to decode servers: %w", err)
	}

	instances := make([]provider.Instance, 0, len(all))
	for i := range all {
		// Nova treats the name filter as a regular expression; not every
		// deployment honours anchors.
		if !strings.HasPrefix(all[i].Name, prefix) {
			continue
		}
		instances = append(instances, *c.toInstance(&all[i]))
	}
	return instances, nil
}

// DeleteInstance deletes the server. Already deleted servers are ignored.
func (c *Client) DeleteInstance(_ context.Context, instance provider.Instance) error {
	if err := servers.Delete(c.compute, instance.ID).ExtractErr(); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete server %s: %w", instance.ID, err)
	}
	return nil
}

// Commit is a no-op: Nova applies changes immediately.
func (c *Client) Commit(_ context.Context) error {
	return nil
}

func (c *Client) toInstance(server *servers.Server) *provider.Instance {
	return &provider.Instance{
		ID:        server.ID,
		Name:      server.Name,
		IPAddress: publicIPv4(server.Addresses, c.args.PublicNetwork),
		Status:    mapStatus(server.Status),
	}
}

func mapStatus(status string) provider.InstanceStatus {
	switch strings.ToUpper(status) {
	case "":
		return ""
	case "BUILD":
		return provider.StatusBuilding
	case "ACTIVE":
		return provider.StatusActive
	case "ERROR":
		return provider.StatusError
	default:
		return provider.InstanceStatus(strings.ToLower(status))
	}
}

// publicIPv4 scans every interface attached to network and returns the last
// IPv4 address found. Interface order is not stable across API versions.
func publicIPv4(addresses map[string]interface{}, network string) string {
	ifaces, ok := addresses[network].([]interface{})
	if !ok {
		return ""
	}

	var found string
	for _, iface := range ifaces {
		m, ok := iface.(map[string]interface{})
		if !ok {
			continue
		}
		addr, _ := m["addr"].(string)
		parsed, err := netip.ParseAddr(addr)
		if err != nil || !parsed.Is4() {
			continue
		}
		found = addr
	}
	return found
}

func isNotFound(err error) bool {
	var sc gophercloud.StatusCodeError
	if errors.As(err, &sc) {
		return sc.GetStatusCode() == 404
	}
	return false
}
