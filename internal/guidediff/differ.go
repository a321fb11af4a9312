package guidediff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/guide"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/instructions"
)

// structureParser counts structure only, so prose is passed through unrendered.
var structureParser = guide.NewParser(passthrough{})

type passthrough struct{}

func (passthrough) Render(markdown string) (string, error) {
	return markdown, nil
}

// Plan compares the guides of ids between a local and a remote source.
// Ids missing on both sides are skipped.
func Plan(ctx context.Context, local, remote instructions.Source, ids []string) (*SyncPlan, error) {
	plan := &SyncPlan{
		Added:     []GuideDiff{},
		Modified:  []GuideDiff{},
		LocalOnly: []GuideDiff{},
		Unchanged: []GuideDiff{},
	}

	for _, id := range ids {
		remoteContent, err := fetchOptional(ctx, remote, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch remote guide %s: %w", id, err)
		}
		localContent, err := fetchOptional(ctx, local, id)
		if err != nil {
			return nil, fmt.Errorf("failed to read local guide %s: %w", id, err)
		}
		if remoteContent == nil && localContent == nil {
			continue
		}

		d, err := Compare(id, localContent, remoteContent)
		if err != nil {
			return nil, err
		}
		switch d.Status {
		case StatusAdded:
			plan.Added = append(plan.Added, *d)
		case StatusModified:
			plan.Modified = append(plan.Modified, *d)
		case StatusLocalOnly:
			plan.LocalOnly = append(plan.LocalOnly, *d)
		default:
			plan.Unchanged = append(plan.Unchanged, *d)
		}
	}

	sortDiffs(plan.Added)
	sortDiffs(plan.Modified)
	sortDiffs(plan.LocalOnly)
	sortDiffs(plan.Unchanged)

	return plan, nil
}

// Compare classifies a guide from its local and remote content. A nil slice
// means the guide does not exist on that side.
func Compare(id string, localContent, remoteContent []byte) (*GuideDiff, error) {
	d := &GuideDiff{
		ID:            id,
		LocalContent:  localContent,
		RemoteContent: remoteContent,
		Local:         structure(localContent),
		Remote:        structure(remoteContent),
	}

	switch {
	case localContent == nil && remoteContent == nil:
		return nil, fmt.Errorf("%w: %s", instructions.ErrNotFound, id)
	case localContent == nil:
		d.Status = StatusAdded
		return d, nil
	case remoteContent == nil:
		d.Status = StatusLocalOnly
		return d, nil
	case bytes.Equal(localContent, remoteContent):
		d.Status = StatusUnchanged
		return d, nil
	}

	unified, err := GenerateUnifiedDiff(string(localContent), string(remoteContent), id+instructions.Extension)
	if err != nil {
		return nil, fmt.Errorf("failed to generate diff: %w", err)
	}
	d.Status = StatusModified
	d.UnifiedDiff = unified
	return d, nil
}

// GenerateUnifiedDiff creates a unified diff string between two contents
func GenerateUnifiedDiff(localContent, remoteContent, filename string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(localContent),
		B:        difflib.SplitLines(remoteContent),
		FromFile: fmt.Sprintf("a/%s", filename),
		ToFile:   fmt.Sprintf("b/%s", filename),
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func fetchOptional(ctx context.Context, src instructions.Source, id string) ([]byte, error) {
	data, err := src.Fetch(ctx, id)
	if err != nil {
		if errors.Is(err, instructions.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func structure(raw []byte) guide.Stats {
	if raw == nil {
		return guide.Summarize(nil)
	}
	body := string(raw)
	if _, stripped, err := instructions.SplitFrontMatter(raw); err == nil {
		body = stripped
	}
	sections, err := structureParser.ParseSections(body)
	if err != nil {
		return guide.Summarize(nil)
	}
	return guide.Summarize(sections)
}

func formatStructure(local, remote guide.Stats) string {
	parts := []string{}
	for _, field := range []struct {
		name          string
		before, after int
	}{
		{"sections", local.Sections, remote.Sections},
		{"steps", local.Steps, remote.Steps},
		{"commands", local.Commands, remote.Commands},
	} {
		if field.before != field.after {
			parts = append(parts, fmt.Sprintf("%s %d → %d", field.name, field.before, field.after))
		}
	}
	if len(parts) == 0 {
		return "structure unchanged"
	}
	return strings.Join(parts, ", ")
}

func sortDiffs(diffs []GuideDiff) {
	sort.Slice(diffs, func(i, j int) bool {
		return diffs[i].ID < diffs[j].ID
	})
}
