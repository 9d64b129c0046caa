package destroy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hostparty/hostparty/internal/inventory"
)

// Selection describes which entries to delete: either explicit Names, or
// All entries minus Exclude.
type Selection struct {
	Names   []string
	All     bool
	Exclude []string
}

// LookupError reports explicitly selected labels that do not exist.
type LookupError struct {
	Labels []string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no server found for: %s", strings.Join(e.Labels, ", "))
}

// Validate checks the selection is well formed.
func (s Selection) Validate() error {
	switch {
	case len(s.Names) > 0 && s.All:
		return errors.New("explicit names and all are mutually exclusive")
	case len(s.Names) == 0 && !s.All:
		return errors.New("either explicit names or all is required")
	case len(s.Exclude) > 0 && !s.All:
		return errors.New("exclude can only be used with all")
	}
	return nil
}

// Apply returns the selected entries. Explicit names come back in the order
// given, without duplicates; all entries keep the listing order.
func (s Selection) Apply(entries *inventory.Entries) ([]*inventory.Entry, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if s.All {
		excluded := make(map[string]bool, len(s.Exclude))
		for _, label := range s.Exclude {
			excluded[label] = true
		}
		var out []*inventory.Entry
		for _, entry := range entries.All() {
			if !excluded[entry.Label] {
				out = append(out, entry)
			}
		}
		return out, nil
	}

	var (
		out     []*inventory.Entry
		missing []string
		seen    = make(map[string]bool, len(s.Names))
	)
	for _, label := range s.Names {
		if seen[label] {
			continue
		}
		seen[label] = true
		entry, ok := entries.Get(label)
		if !ok {
			missing = append(missing, label)
			continue
		}
		out = append(out, entry)
	}
	if len(missing) > 0 {
		return nil, &LookupError{Labels: missing}
	}
	return out, nil
}
