package guide

import (
	"fmt"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
)

// TOCEntry is one line of a guide's table of contents.
type TOCEntry struct {
	Anchor   string   `json:"anchor"`
	Title    string   `json:"title"`
	Steps    []string `json:"steps"`
	Commands int      `json:"commands"`
}

// TableOfContents builds navigation entries for sections. Anchors are slugs
// of the section titles, suffixed with -1, -2, ... when titles repeat. Step
// descriptions shared by consecutive steps (one per code block) are listed
// once.
func TableOfContents(sections []Section) []TOCEntry {
	entries := make([]TOCEntry, 0, len(sections))
	used := map[string]bool{}

	for _, section := range sections {
		entry := TOCEntry{
			Anchor: uniqueAnchor(section.Title, used),
			Title:  section.Title,
			Steps:  []string{},
		}
		for i, step := range section.Steps {
			if step.HasCode() {
				entry.Commands++
			}
			if i > 0 && section.Steps[i-1].Description == step.Description {
				continue
			}
			entry.Steps = append(entry.Steps, step.Description)
		}
		entries = append(entries, entry)
	}
	return entries
}

func uniqueAnchor(title string, used map[string]bool) string {
	base := util.Slugify(title)
	if base == "" {
		base = "section"
	}
	anchor := base
	for n := 1; used[anchor]; n++ {
		anchor = fmt.Sprintf("%s-%d", base, n)
	}
	used[anchor] = true
	return anchor
}
