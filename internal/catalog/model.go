package catalog

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tool is one installable tool listed on the site.
type Tool struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category" json:"category"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Homepage    string   `yaml:"homepage,omitempty" json:"homepage,omitempty"`
}

// Catalog is the content of catalog.yaml.
type Catalog struct {
	Tools []Tool `yaml:"tools" json:"tools"`
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if c.Tools == nil {
		c.Tools = []Tool{}
	}
	return &c, nil
}

// Encode serialises the catalog back into YAML.
func (c *Catalog) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Check reports entries without an id or name and duplicated ids.
func (c *Catalog) Check(path string) error {
	invalid := &InvalidFileError{Path: path}
	seen := map[string]int{}
	for i, tool := range c.Tools {
		id := strings.TrimSpace(tool.ID)
		switch {
		case id == "":
			invalid.Entries = append(invalid.Entries, InvalidEntry{Index: i, Reason: "missing id"})
			continue
		case strings.TrimSpace(tool.Name) == "":
			invalid.Entries = append(invalid.Entries, InvalidEntry{Index: i, ID: id, Reason: "missing name"})
		}
		if first, ok := seen[id]; ok {
			invalid.Entries = append(invalid.Entries, InvalidEntry{Index: i, ID: id, Reason: fmt.Sprintf("duplicate of entry %d", first)})
			continue
		}
		seen[id] = i
	}
	if len(invalid.Entries) > 0 {
		return invalid
	}
	return nil
}

// Categories returns the distinct categories in order of first appearance.
func (c *Catalog) Categories() []string {
	categories := []string{}
	seen := map[string]bool{}
	for _, tool := range c.Tools {
		if tool.Category == "" || seen[tool.Category] {
			continue
		}
		seen[tool.Category] = true
		categories = append(categories, tool.Category)
	}
	return categories
}

// Filter returns the tools of category, matched case-insensitively. An
// empty category returns every tool.
func (c *Catalog) Filter(category string) []Tool {
	category = strings.TrimSpace(category)
	tools := make([]Tool, 0, len(c.Tools))
	for _, tool := range c.Tools {
		if category == "" || strings.EqualFold(tool.Category, category) {
			tools = append(tools, tool)
		}
	}
	return tools
}

// Find returns the tool with the given id.
func (c *Catalog) Find(id string) (Tool, bool) {
	for _, tool := range c.Tools {
		if tool.ID == id {
			return tool, true
		}
	}
	return Tool{}, false
}
