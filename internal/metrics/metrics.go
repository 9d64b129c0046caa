// Package metrics records run metrics and optionally pushes them to a
// Prometheus Pushgateway at the end of a run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Job is the Pushgateway job name.
const Job = "hostparty"

// Recorder implements provisioning.MetricsRecorder on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	hostsCreated     *prometheus.CounterVec
	hostDuration     *prometheus.HistogramVec
	resourcesDeleted *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		hostsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hostparty",
				Name:      "hosts_created_total",
				Help:      "Total number of host creations by result",
			},
			[]string{"result"},
		),
		hostDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hostparty",
				Name:      "host_create_duration_seconds",
				Help:      "Duration of host creation in seconds",
				Buckets:   prometheus.ExponentialBuckets(10, 2, 8), // 10s to ~21min
			},
			[]string{"result"},
		),
		resourcesDeleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hostparty",
				Name:      "resources_deleted_total",
				Help:      "Total number of instance and record deletions by result",
			},
			[]string{"kind", "result"},
		),
	}
	r.registry.MustRegister(r.hostsCreated, r.hostDuration, r.resourcesDeleted)
	return r
}

// HostCreated records the outcome and duration of one host creation.
func (r *Recorder) HostCreated(outcome string, duration time.Duration) {
	r.hostsCreated.WithLabelValues(outcome).Inc()
	r.hostDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ResourceDeleted records one instance or record deletion.
func (r *Recorder) ResourceDeleted(kind, outcome string) {
	r.resourcesDeleted.WithLabelValues(kind, outcome).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Push sends the collected metrics to the Pushgateway at url, grouped by
// namespace and command.
func (r *Recorder) Push(ctx context.Context, url, namespace, command string) error {
	err := push.New(url, Job).
		Gatherer(r.registry).
		Grouping("namespace", namespace).
		Grouping("command", command).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
