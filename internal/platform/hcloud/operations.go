package hcloud

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hostparty/hostparty/internal/util/retry"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// DeleteOperation encapsulates deletion logic for any hcloud resource.
// It provides consistent retry, timeout, and error handling across resource types.
//
//	return (&DeleteOperation[*hcloud.Server]{
//	    ID:           id,
//	    ResourceType: "server",
//	    Get:          c.serverByID,
//	    Delete:       c.deleteServer,
//	}).Execute(ctx, c)
type DeleteOperation[T any] struct {
	ID           int64
	ResourceType string

	// Get retrieves the resource, returning nil when it does not exist
	Get func(ctx context.Context, id int64) (T, *hcloud.Response, error)

	// Delete removes the resource
	Delete func(ctx context.Context, resource T) (*hcloud.Response, error)
}

// Execute performs the delete operation with retry logic and timeout handling.
// The operation is idempotent: it succeeds if the resource doesn't exist.
// Locked resources are retried with exponential backoff.
func (op *DeleteOperation[T]) Execute(ctx context.Context, client *Client) error {
	ctx, cancel := context.WithTimeout(ctx, client.timeouts.Delete)
	defer cancel()

	return retry.WithExponentialBackoff(ctx, func() error {
		resource, _, err := op.Get(ctx, op.ID)
		if err != nil {
			if isRetryable(err) {
				return err
			}
			return retry.Fatal(fmt.Errorf("failed to get %s %d: %w", op.ResourceType, op.ID, err))
		}

		if reflect.ValueOf(resource).IsNil() {
			return nil
		}

		if _, err := op.Delete(ctx, resource); err != nil {
			if IsNotFound(err) {
				return nil
			}
			if isRetryable(err) {
				return err
			}
			return retry.Fatal(fmt.Errorf("failed to delete %s %d: %w", op.ResourceType, op.ID, err))
		}
		return nil
	},
		retry.WithMaxRetries(client.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(client.timeouts.RetryInitialDelay))
}
