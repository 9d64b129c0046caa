package labels

import "testing"

func TestNewLabelBuilder(t *testing.T) {
	t.Parallel()
	labels := NewLabelBuilder("party").WithLabel("abcde").Build()

	if labels[KeyNamespace] != "party" {
		t.Errorf("expected %s=party, got %q", KeyNamespace, labels[KeyNamespace])
	}
	if labels[KeyLabel] != "abcde" {
		t.Errorf("expected %s=abcde, got %q", KeyLabel, labels[KeyLabel])
	}
	if labels[KeyManagedBy] != ManagedByHostparty {
		t.Errorf("expected %s=%q, got %q", KeyManagedBy, ManagedByHostparty, labels[KeyManagedBy])
	}
}

func TestBuildReturnsCopy(t *testing.T) {
	t.Parallel()
	lb := NewLabelBuilder("party")
	first := lb.Build()
	first["mutated"] = "yes"

	if _, ok := lb.Build()["mutated"]; ok {
		t.Error("Build should return an independent copy")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()
	labels := NewLabelBuilder("party").Merge(map[string]string{"event": "meetup"}).Build()
	if labels["event"] != "meetup" {
		t.Errorf("expected merged label, got %v", labels)
	}
}
