package indexer

import (
	"bufio"
	"strconv"
	"strings"
)

const escapedPipe = "\x00"

// ParseMarkdown parses an existing INDEX.md file and returns the Data structure.
// This allows comparison with newly generated data to detect changes.
func ParseMarkdown(content string) (*Data, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))

	var entries []Entry
	var categories []string
	category := ""
	inTable := false
	headerSeen := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "## ") {
			category = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			inTable = false
			if category == "Summary" {
				category = ""
			}
			continue
		}

		if strings.HasPrefix(line, "| ID |") {
			inTable = category != ""
			headerSeen = false
			continue
		}

		if strings.HasPrefix(line, "|---") {
			headerSeen = true
			continue
		}

		if inTable && headerSeen && strings.HasPrefix(line, "|") {
			entry, ok := parseTableRow(line)
			if !ok {
				inTable = false
				continue
			}
			if len(categories) == 0 || categories[len(categories)-1] != category {
				categories = append(categories, category)
			}
			entry.Category = category
			entries = append(entries, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	summary := make(map[string]int)
	for _, entry := range entries {
		summary[entry.Category]++
	}

	return &Data{
		Categories: categories,
		Tools:      entries,
		Summary:    summary,
	}, nil
}

// parseTableRow parses a single markdown table row into an Entry.
// Expected format: | ID | Name | Guide | Sections | Commands | Description |
func parseTableRow(line string) (Entry, bool) {
	line = strings.ReplaceAll(line, `\|`, escapedPipe)
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	if len(parts) < 6 {
		return Entry{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(strings.ReplaceAll(parts[i], escapedPipe, "|"))
	}
	if parts[0] == "" {
		return Entry{}, false
	}

	guide := parts[2]
	if guide == "-" {
		guide = ""
	} else if strings.Contains(guide, "](") {
		start := strings.Index(guide, "[")
		end := strings.Index(guide, "]")
		if start >= 0 && end > start {
			guide = guide[start+1 : end]
		}
	}

	sections, _ := strconv.Atoi(parts[3])
	commands, _ := strconv.Atoi(parts[4])

	return Entry{
		ID:          parts[0],
		Name:        parts[1],
		Guide:       guide,
		Sections:    sections,
		Commands:    commands,
		Description: parts[5],
	}, true
}
