package guide

// Section is a level-2 block of an installation guide.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Steps   []Step `json:"steps"`
}

// Step is a single instruction within a section. A step carries at most one
// code block; Language is empty when it carries none.
type Step struct {
	Description string `json:"description"`
	Code        string `json:"code,omitempty"`
	Language    string `json:"language,omitempty"`
}

// HasCode reports whether the step was built from a fenced code block.
func (s Step) HasCode() bool {
	return s.Language != ""
}

// Stats summarises a parsed guide.
type Stats struct {
	Sections  int      `json:"sections"`
	Steps     int      `json:"steps"`
	Commands  int      `json:"commands"`
	Languages []string `json:"languages"`
}

// Summarize counts sections, steps and code blocks. Languages are listed in
// order of first appearance.
func Summarize(sections []Section) Stats {
	stats := Stats{
		Sections:  len(sections),
		Languages: []string{},
	}
	seen := map[string]bool{}
	for _, section := range sections {
		stats.Steps += len(section.Steps)
		for _, step := range section.Steps {
			if !step.HasCode() {
				continue
			}
			stats.Commands++
			if !seen[step.Language] {
				seen[step.Language] = true
				stats.Languages = append(stats.Languages, step.Language)
			}
		}
	}
	return stats
}
