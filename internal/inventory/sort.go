package inventory

// CompleteRow is an entry with both an instance and a DNS record.
type CompleteRow struct {
	Label        string `json:"label"`
	InstanceName string `json:"instance_name"`
	Domain       string `json:"domain"`
	Status       string `json:"status"`
	IPAddress    string `json:"ip_address"`
}

// Cells returns the row as table cells.
func (r CompleteRow) Cells() []string {
	return []string{r.Label, r.InstanceName, r.Domain, r.Status, r.IPAddress}
}

// OrphanedInstance is an instance without a DNS record.
type OrphanedInstance struct {
	Label        string `json:"label"`
	InstanceName string `json:"instance_name"`
	Status       string `json:"status"`
	IPAddress    string `json:"ip_address"`
}

// Cells returns the row as table cells.
func (r OrphanedInstance) Cells() []string {
	return []string{r.Label, r.InstanceName, r.Status, r.IPAddress}
}

// OrphanedRecord is a DNS record without an instance.
type OrphanedRecord struct {
	Label  string `json:"label"`
	Domain string `json:"domain"`
	Target string `json:"target"`
}

// Cells returns the row as table cells.
func (r OrphanedRecord) Cells() []string {
	return []string{r.Label, r.Domain, r.Target}
}

// Sorted is the classification of entries.
type Sorted struct {
	Complete          []CompleteRow      `json:"complete"`
	OrphanedRecords   []OrphanedRecord   `json:"orphaned_records"`
	OrphanedInstances []OrphanedInstance `json:"orphaned_instances"`
}

// Headers of the tables built from Sorted.
var (
	CompleteHeaders         = []string{"Name", "Instance name", "Domain", "Status", "IPv4"}
	OrphanedInstanceHeaders = []string{"Name", "Instance name", "Status", "IPv4"}
	OrphanedRecordHeaders   = []string{"Name", "Domain", "Target"}
)

// SortEntries classifies entries, preserving their order within each class.
func SortEntries(entries *Entries) Sorted {
	sorted := Sorted{
		Complete:          []CompleteRow{},
		OrphanedRecords:   []OrphanedRecord{},
		OrphanedInstances: []OrphanedInstance{},
	}

	for _, entry := range entries.All() {
		instance, record := entry.Instance, entry.Record
		switch {
		case instance != nil && record != nil:
			sorted.Complete = append(sorted.Complete, CompleteRow{
				Label:        entry.Label,
				InstanceName: instance.Name,
				Domain:       record.FQDN(),
				Status:       string(instance.Status),
				IPAddress:    instance.IPAddress,
			})
		case instance != nil:
			sorted.OrphanedInstances = append(sorted.OrphanedInstances, OrphanedInstance{
				Label:        entry.Label,
				InstanceName: instance.Name,
				Status:       string(instance.Status),
				IPAddress:    instance.IPAddress,
			})
		case record != nil:
			sorted.OrphanedRecords = append(sorted.OrphanedRecords, OrphanedRecord{
				Label:  entry.Label,
				Domain: record.FQDN(),
				Target: record.Target,
			})
		}
	}
	return sorted
}
