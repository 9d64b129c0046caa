package provisioning

import (
	"fmt"
	"time"
)

// InstanceCreationError reports an instance that entered the error state or
// did not become active in time. The host is abandoned without retry.
type InstanceCreationError struct {
	Instance string
	Reason   string
	Err      error
}

func (e *InstanceCreationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("instance %s could not be created: %s: %v", e.Instance, e.Reason, e.Err)
	}
	return fmt.Sprintf("instance %s could not be created: %s", e.Instance, e.Reason)
}

func (e *InstanceCreationError) Unwrap() error { return e.Err }

// ConnectivityCheckError reports a host that never answered over HTTP.
type ConnectivityCheckError struct {
	Domain  string
	Timeout time.Duration
	Err     error
}

func (e *ConnectivityCheckError) Error() string {
	return fmt.Sprintf("connectivity check of %s timed out after %v: %v", e.Domain, e.Timeout, e.Err)
}

func (e *ConnectivityCheckError) Unwrap() error { return e.Err }
