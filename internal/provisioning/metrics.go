package provisioning

import "time"

// Outcome labels recorded by a MetricsRecorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "dry_run"
)

// MetricsRecorder receives run metrics. Implemented by internal/metrics.Recorder.
type MetricsRecorder interface {
	// HostCreated records the outcome and duration of one CreateServer call.
	HostCreated(outcome string, duration time.Duration)

	// ResourceDeleted records one instance or record deletion.
	ResourceDeleted(kind, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) HostCreated(string, time.Duration) {}
func (nopRecorder) ResourceDeleted(string, string)    {}
