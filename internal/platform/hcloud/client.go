package hcloud

import (
	"fmt"
	"os"
	"sync"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"gopkg.in/yaml.v3"
)

// ProviderName is the instances.provider value selecting this package.
const ProviderName = "hcloud"

const (
	defaultServerType = "cx22"
	defaultImage      = "debian-12"
)

// Args are the instances.args accepted by the hcloud provider.
type Args struct {
	// Token defaults to $HCLOUD_TOKEN.
	Token      string   `yaml:"token"`
	ServerType string   `yaml:"server_type"`
	Image      string   `yaml:"image"`
	Location   string   `yaml:"location"`
	SSHKeys    []string `yaml:"ssh_keys"`
}

// Client implements provider.InstanceProvider using the Hetzner Cloud API.
type Client struct {
	client    *hcloud.Client
	timeouts  *config.Timeouts
	args      Args
	namespace string

	// create actions by server ID, consulted by GetInstance
	mu      sync.Mutex
	actions map[int64]*hcloud.Action
}

var _ provider.InstanceProvider = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithNamespace sets the namespace stamped on server labels.
func WithNamespace(ns string) ClientOption {
	return func(c *Client) {
		c.namespace = ns
	}
}

// NewClient creates a new Client with optional configuration.
func NewClient(args Args, opts ...ClientOption) *Client {
	if args.ServerType == "" {
		args.ServerType = defaultServerType
	}
	if args.Image == "" {
		args.Image = defaultImage
	}
	c := &Client{
		client:   hcloud.NewClient(hcloud.WithToken(args.Token), hcloud.WithApplication("hostparty", "")),
		timeouts: config.LoadTimeouts(),
		args:     args,
		actions:  make(map[int64]*hcloud.Action),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewProvider is the provider.InstanceFactory for hcloud.
func NewProvider(node *yaml.Node, opts provider.Options) (provider.InstanceProvider, error) {
	var args Args
	if err := config.DecodeArgs(node, &args); err != nil {
		return nil, err
	}
	if args.Token == "" {
		args.Token = os.Getenv("HCLOUD_TOKEN")
	}
	if args.Token == "" {
		return nil, fmt.Errorf("hcloud token is required (instances.args.token or HCLOUD_TOKEN)")
	}
	return NewClient(args, WithNamespace(opts.Namespace)), nil
}
