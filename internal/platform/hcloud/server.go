package hcloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/util/retry"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// CreateInstance creates a new server and returns it without waiting for it
// to boot.
func (c *Client) CreateInstance(ctx context.Context, name, bootScript string) (*provider.Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerCreate)
	defer cancel()

	opts, err := c.buildServerCreateOpts(ctx, name, bootScript)
	if err != nil {
		return nil, err
	}

	result, err := c.createServerWithRetry(ctx, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.actions[result.Server.ID] = result.Action
	c.mu.Unlock()

	return toInstance(result.Server, result.Action), nil
}

// createServerWithRetry creates a server with exponential backoff retry logic.
func (c *Client) createServerWithRetry(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, error) {
	var result hcloud.ServerCreateResult

	err := retry.WithExponentialBackoff(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return result, fmt.Errorf("failed to create server: %w", err)
	}
	if result.Server == nil {
		return result, fmt.Errorf("failed to create server: empty response")
	}
	return result, nil
}

// GetInstance returns the current state of a server.
func (c *Client) GetInstance(ctx context.Context, id string) (*provider.Instance, error) {
	serverID, err := parseServerID(id)
	if err != nil {
		return nil, err
	}

	server, _, err := c.client.Server.GetByID(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	if server == nil {
		return nil, fmt.Errorf("server not found: %s", id)
	}

	action, err := c.refreshCreateAction(ctx, serverID)
	if err != nil {
		return nil, err
	}
	return toInstance(server, action), nil
}

// refreshCreateAction re-reads the tracked create action while it is running.
func (c *Client) refreshCreateAction(ctx context.Context, serverID int64) (*hcloud.Action, error) {
	c.mu.Lock()
	action := c.actions[serverID]
	c.mu.Unlock()

	if action == nil || action.Status != hcloud.ActionStatusRunning {
		return action, nil
	}

	updated, _, err := c.client.Action.GetByID(ctx, action.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get create action: %w", err)
	}
	if updated == nil {
		return action, nil
	}

	c.mu.Lock()
	c.actions[serverID] = updated
	c.mu.Unlock()
	return updated, nil
}

// ListInstances returns every server whose name starts with prefix.
func (c *Client) ListInstances(ctx context.Context, prefix string) ([]provider.Instance, error) {
	servers, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{PerPage: 50},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	instances := make([]provider.Instance, 0, len(servers))
	for _, server := range servers {
		if !strings.HasPrefix(server.Name, prefix) {
			continue
		}
		instances = append(instances, *toInstance(server, nil))
	}
	return instances, nil
}

// DeleteInstance deletes the server. Already deleted servers are ignored.
func (c *Client) DeleteInstance(ctx context.Context, instance provider.Instance) error {
	serverID, err := parseServerID(instance.ID)
	if err != nil {
		return err
	}

	err = (&DeleteOperation[*hcloud.Server]{
		ID:           serverID,
		ResourceType: "server",
		Get:          c.client.Server.GetByID,
		Delete: func(ctx context.Context, server *hcloud.Server) (*hcloud.Response, error) {
			_, resp, err := c.client.Server.DeleteWithResult(ctx, server)
			return resp, err
		},
	}).Execute(ctx, c)
	if err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.actions, serverID)
	c.mu.Unlock()
	return nil
}

// Commit is a no-op: Hetzner Cloud applies changes immediately.
func (c *Client) Commit(_ context.Context) error {
	return nil
}
