package inventory

import "github.com/hostparty/hostparty/internal/provider"

// Entry joins the instance and the DNS record sharing a label. Either side
// may be missing.
type Entry struct {
	Label    string
	Instance *provider.Instance
	Record   *provider.DNSRecord
}

// Entries is an ordered collection of Entry keyed by label. Iteration
// follows the order in which labels were first inserted.
type Entries struct {
	order   []string
	byLabel map[string]*Entry
}

// NewEntries returns an empty collection.
func NewEntries() *Entries {
	return &Entries{byLabel: make(map[string]*Entry)}
}

func (e *Entries) entry(label string) *Entry {
	if entry, ok := e.byLabel[label]; ok {
		return entry
	}
	entry := &Entry{Label: label}
	e.byLabel[label] = entry
	e.order = append(e.order, label)
	return entry
}

// AddInstance sets the instance of the entry for label, creating the entry if needed.
func (e *Entries) AddInstance(label string, instance provider.Instance) {
	e.entry(label).Instance = &instance
}

// AddRecord sets the DNS record of the entry for label, creating the entry if needed.
func (e *Entries) AddRecord(label string, record provider.DNSRecord) {
	e.entry(label).Record = &record
}

// Get returns the entry for label.
func (e *Entries) Get(label string) (*Entry, bool) {
	entry, ok := e.byLabel[label]
	return entry, ok
}

// Len returns the number of entries.
func (e *Entries) Len() int {
	return len(e.order)
}

// Labels returns the labels in insertion order.
func (e *Entries) Labels() []string {
	return append([]string(nil), e.order...)
}

// All returns the entries in insertion order.
func (e *Entries) All() []*Entry {
	out := make([]*Entry, 0, len(e.order))
	for _, label := range e.order {
		out = append(out, e.byLabel[label])
	}
	return out
}
