package hcloud

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/util/labels"
	"github.com/hostparty/hostparty/internal/util/naming"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// buildServerCreateOpts resolves all dependencies and builds server creation options.
func (c *Client) buildServerCreateOpts(ctx context.Context, name, userData string) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, c.args.ServerType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", c.args.ServerType)
	}

	image, _, err := c.client.Image.GetForArchitecture(ctx, c.args.Image, serverType.Architecture)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get image: %w", err)
	}
	if image == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("image not found: %s (%s)", c.args.Image, serverType.Architecture)
	}

	location, err := c.resolveLocation(ctx, c.args.Location)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	sshKeys, err := c.resolveSSHKeys(ctx, c.args.SSHKeys)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	return hcloud.ServerCreateOpts{
		Name:       name,
		ServerType: serverType,
		Image:      image,
		Location:   location,
		SSHKeys:    sshKeys,
		Labels:     c.serverLabels(name),
		UserData:   userData,
	}, nil
}

// serverLabels tags the server with its namespace and host label.
func (c *Client) serverLabels(name string) map[string]string {
	if c.namespace == "" {
		return nil
	}
	lb := labels.NewLabelBuilder(c.namespace)
	if label, ok := naming.LabelFromInstance(c.namespace, name); ok {
		lb.WithLabel(label)
	}
	return lb.Build()
}

func (c *Client) resolveLocation(ctx context.Context, location string) (*hcloud.Location, error) {
	if location == "" {
		return nil, nil
	}
	loc, _, err := c.client.Location.Get(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	if loc == nil {
		return nil, fmt.Errorf("location not found: %s", location)
	}
	return loc, nil
}

func (c *Client) resolveSSHKeys(ctx context.Context, names []string) ([]*hcloud.SSHKey, error) {
	keys := make([]*hcloud.SSHKey, 0, len(names))
	for _, name := range names {
		key, _, err := c.client.SSHKey.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get ssh key %s: %w", name, err)
		}
		if key == nil {
			return nil, fmt.Errorf("ssh key not found: %s", name)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// toInstance converts an hcloud server. A failed create action overrides
// the server state.
func toInstance(server *hcloud.Server, action *hcloud.Action) *provider.Instance {
	inst := &provider.Instance{
		ID:     strconv.FormatInt(server.ID, 10),
		Name:   server.Name,
		Status: mapServerStatus(server.Status),
	}
	if ip := server.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		inst.IPAddress = ip.String()
	}
	if action != nil && action.Status == hcloud.ActionStatusError {
		inst.Status = provider.StatusError
	}
	return inst
}

func mapServerStatus(status hcloud.ServerStatus) provider.InstanceStatus {
	switch status {
	case hcloud.ServerStatusRunning:
		return provider.StatusActive
	case hcloud.ServerStatusInitializing, hcloud.ServerStatusStarting:
		return provider.StatusBuilding
	default:
		return provider.InstanceStatus(strings.ToLower(string(status)))
	}
}

func parseServerID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid server id: %s", id)
	}
	return n, nil
}
