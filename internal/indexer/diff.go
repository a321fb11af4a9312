package indexer

import (
	"fmt"
	"sort"
	"strings"
)

// ChangeType represents the type of change detected
type ChangeType string

const (
	ChangeTypeAdded          ChangeType = "added"
	ChangeTypeRemoved        ChangeType = "removed"
	ChangeTypeCategoryChange ChangeType = "category_change"
	ChangeTypeGuideChange    ChangeType = "guide_change"
	ChangeTypeMetadataChange ChangeType = "metadata_change"
)

// Change represents a detected change in the index
type Change struct {
	Type        ChangeType
	ToolID      string
	OldCategory string
	NewCategory string
	Details     string
}

// Diff represents the differences between two index states
type Diff struct {
	Changes       []Change
	Added         int
	Removed       int
	Recategorized int
	Changed       int
}

// HasChanges returns true if there are any changes detected
func (d *Diff) HasChanges() bool {
	return len(d.Changes) > 0
}

// FormatSummary returns a concise summary of changes
func (d *Diff) FormatSummary() string {
	if !d.HasChanges() {
		return "No changes"
	}

	parts := []string{}
	if d.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", d.Added))
	}
	if d.Recategorized > 0 {
		parts = append(parts, fmt.Sprintf("%d recategorized", d.Recategorized))
	}
	if d.Changed > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", d.Changed))
	}
	if d.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", d.Removed))
	}

	return strings.Join(parts, ", ")
}

// FormatVerbose returns a detailed list of changes with tool IDs
func (d *Diff) FormatVerbose() string {
	if !d.HasChanges() {
		return "No changes detected"
	}

	groups := map[ChangeType][]Change{}
	for _, change := range d.Changes {
		groups[change.Type] = append(groups[change.Type], change)
	}

	var b strings.Builder
	writeGroup := func(title string, changes []Change, line func(Change) string) {
		if len(changes) == 0 {
			return
		}
		b.WriteString(title + ":\n")
		for _, change := range changes {
			b.WriteString("  • " + line(change) + "\n")
		}
		b.WriteString("\n")
	}

	writeGroup("Added", groups[ChangeTypeAdded], func(c Change) string {
		return fmt.Sprintf("%s (%s)", c.ToolID, c.NewCategory)
	})
	writeGroup("Category Changes", groups[ChangeTypeCategoryChange], func(c Change) string {
		return fmt.Sprintf("%s: %s → %s", c.ToolID, c.OldCategory, c.NewCategory)
	})
	writeGroup("Guide Changes", groups[ChangeTypeGuideChange], func(c Change) string {
		return fmt.Sprintf("%s: %s", c.ToolID, c.Details)
	})
	writeGroup("Metadata Changes", groups[ChangeTypeMetadataChange], func(c Change) string {
		return fmt.Sprintf("%s: %s", c.ToolID, c.Details)
	})
	writeGroup("Removed", groups[ChangeTypeRemoved], func(c Change) string {
		return c.ToolID
	})

	return strings.TrimSpace(b.String())
}

// FormatVeryVerbose returns a detailed description of all changes
func (d *Diff) FormatVeryVerbose() string {
	if !d.HasChanges() {
		return "No changes detected"
	}

	var b strings.Builder

	for i, change := range d.Changes {
		if i > 0 {
			b.WriteString("\n")
		}

		switch change.Type {
		case ChangeTypeAdded:
			b.WriteString(fmt.Sprintf("✓ %s added (category: %s)\n", change.ToolID, change.NewCategory))
			if change.Details != "" {
				b.WriteString(fmt.Sprintf("  %s\n", change.Details))
			}

		case ChangeTypeRemoved:
			b.WriteString(fmt.Sprintf("✗ %s removed\n", change.ToolID))

		case ChangeTypeCategoryChange:
			b.WriteString(fmt.Sprintf("↻ %s moved: %s → %s\n", change.ToolID, change.OldCategory, change.NewCategory))

		case ChangeTypeGuideChange:
			b.WriteString(fmt.Sprintf("✎ %s guide changed\n", change.ToolID))
			b.WriteString(fmt.Sprintf("  %s\n", change.Details))

		case ChangeTypeMetadataChange:
			b.WriteString(fmt.Sprintf("⚑ %s metadata changed\n", change.ToolID))
			b.WriteString(fmt.Sprintf("  %s\n", change.Details))
		}
	}

	return b.String()
}

// ComputeDiff compares old and new index data to detect changes
func ComputeDiff(oldData, newData *Data) *Diff {
	diff := &Diff{
		Changes: []Change{},
	}

	if oldData == nil {
		for _, entry := range newData.Tools {
			diff.Changes = append(diff.Changes, Change{
				Type:        ChangeTypeAdded,
				ToolID:      entry.ID,
				NewCategory: entry.Category,
			})
			diff.Added++
		}
		return diff
	}

	oldMap := make(map[string]Entry)
	for _, entry := range oldData.Tools {
		oldMap[entry.ID] = entry
	}

	newMap := make(map[string]Entry)
	for _, entry := range newData.Tools {
		newMap[entry.ID] = entry
	}

	for _, newEntry := range newData.Tools {
		oldEntry, existed := oldMap[newEntry.ID]

		if !existed {
			diff.Changes = append(diff.Changes, Change{
				Type:        ChangeTypeAdded,
				ToolID:      newEntry.ID,
				NewCategory: newEntry.Category,
			})
			diff.Added++
			continue
		}

		if oldEntry.Category != newEntry.Category {
			diff.Changes = append(diff.Changes, Change{
				Type:        ChangeTypeCategoryChange,
				ToolID:      newEntry.ID,
				OldCategory: oldEntry.Category,
				NewCategory: newEntry.Category,
			})
			diff.Recategorized++
			continue
		}

		if guideChanges := detectGuideChanges(oldEntry, newEntry); len(guideChanges) > 0 {
			diff.Changes = append(diff.Changes, Change{
				Type:    ChangeTypeGuideChange,
				ToolID:  newEntry.ID,
				Details: strings.Join(guideChanges, ", "),
			})
			diff.Changed++
			continue
		}

		if metadataChanges := detectMetadataChanges(oldEntry, newEntry); len(metadataChanges) > 0 {
			diff.Changes = append(diff.Changes, Change{
				Type:    ChangeTypeMetadataChange,
				ToolID:  newEntry.ID,
				Details: strings.Join(metadataChanges, ", "),
			})
			diff.Changed++
		}
	}

	for _, oldEntry := range oldData.Tools {
		if _, exists := newMap[oldEntry.ID]; !exists {
			diff.Changes = append(diff.Changes, Change{
				Type:        ChangeTypeRemoved,
				ToolID:      oldEntry.ID,
				OldCategory: oldEntry.Category,
			})
			diff.Removed++
		}
	}

	sort.Slice(diff.Changes, func(i, j int) bool {
		return diff.Changes[i].ToolID < diff.Changes[j].ToolID
	})

	return diff
}

func detectGuideChanges(old, new Entry) []string {
	changes := []string{}

	if old.HasGuide() != new.HasGuide() {
		if new.HasGuide() {
			changes = append(changes, "guide added")
		} else {
			changes = append(changes, "guide removed")
		}
		return changes
	}

	if old.Sections != new.Sections {
		changes = append(changes, fmt.Sprintf("sections: %d → %d", old.Sections, new.Sections))
	}
	if old.Commands != new.Commands {
		changes = append(changes, fmt.Sprintf("commands: %d → %d", old.Commands, new.Commands))
	}

	return changes
}

func detectMetadataChanges(old, new Entry) []string {
	changes := []string{}

	if old.Name != new.Name {
		changes = append(changes, fmt.Sprintf("name: %q → %q", old.Name, new.Name))
	}
	if old.Description != new.Description {
		changes = append(changes, fmt.Sprintf("description: %q → %q", old.Description, new.Description))
	}

	return changes
}
