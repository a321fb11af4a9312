package guidediff

import "github.com/ramalinga365/DevOps-Tool-Installer/internal/guide"

// Status represents the state of a guide in the comparison
type Status string

const (
	StatusAdded     Status = "added"
	StatusModified  Status = "modified"
	StatusLocalOnly Status = "local_only"
	StatusUnchanged Status = "unchanged"
)

// GuideDiff represents the difference for a single tool guide
type GuideDiff struct {
	ID            string
	Status        Status
	UnifiedDiff   string
	LocalContent  []byte // nil if added
	RemoteContent []byte // nil if local only
	Local         guide.Stats
	Remote        guide.Stats
}

// StructureSummary describes section, step and command deltas.
func (d GuideDiff) StructureSummary() string {
	return formatStructure(d.Local, d.Remote)
}

// SyncPlan represents all differences between local and upstream guides
type SyncPlan struct {
	Added     []GuideDiff
	Modified  []GuideDiff
	LocalOnly []GuideDiff
	Unchanged []GuideDiff
}

// HasChanges returns true if any guide would be written
func (p *SyncPlan) HasChanges() bool {
	return len(p.Added) > 0 || len(p.Modified) > 0
}

// TotalChanges returns the number of guides that would be written
func (p *SyncPlan) TotalChanges() int {
	return len(p.Added) + len(p.Modified)
}

// Pending returns added and modified guides in id order.
func (p *SyncPlan) Pending() []GuideDiff {
	pending := make([]GuideDiff, 0, p.TotalChanges())
	pending = append(pending, p.Added...)
	pending = append(pending, p.Modified...)
	sortDiffs(pending)
	return pending
}

// Get returns the GuideDiff for a specific tool, or nil if not found
func (p *SyncPlan) Get(id string) *GuideDiff {
	for _, group := range [][]GuideDiff{p.Added, p.Modified, p.LocalOnly, p.Unchanged} {
		for i := range group {
			if group[i].ID == id {
				return &group[i]
			}
		}
	}
	return nil
}
