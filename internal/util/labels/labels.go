// Package labels provides consistent labeling utilities for provider resources.
//
// Providers that support key/value labels (Hetzner Cloud, OpenStack metadata)
// tag every instance hostparty creates so that operators can tell them apart
// from hand-made machines in the provider console.
package labels

const (
	// KeyNamespace identifies which namespace an instance belongs to
	KeyNamespace = "hostparty.io/namespace"

	// KeyLabel holds the host label the instance was created for
	KeyLabel = "hostparty.io/label"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "hostparty.io/managed-by"
)

// ManagedByHostparty is the KeyManagedBy value set on every created instance.
const ManagedByHostparty = "hostparty"

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the namespace pre-set.
func NewLabelBuilder(namespace string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyNamespace: namespace,
			KeyManagedBy: ManagedByHostparty,
		},
	}
}

// WithLabel adds the host label.
func (lb *LabelBuilder) WithLabel(label string) *LabelBuilder {
	lb.labels[KeyLabel] = label
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}
