// Package provisioning provides shared types and the host creation workflow.
//
// # Subpackages
//
//   - destroy/ — Selection of listed hosts and their teardown
//
// # Core Types
//
// Context carries configuration, provider clients, timeouts, metrics and the observer.
// Phase defines a provisioning step with Name() and Provision() methods.
// Host accumulates the results of each phase for one host (instance, DNS record).
//
// CreateServer runs the instance, dns and connectivity phases for a single label;
// CreateBatch repeats it for random labels and summarizes the outcome.
package provisioning
