package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/instructions"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
)

// Entry represents a single tool within the index.
type Entry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Guide       string `json:"guide"`
	Sections    int    `json:"sections"`
	Commands    int    `json:"commands"`
}

// HasGuide reports whether the tool has installation instructions.
func (e Entry) HasGuide() bool {
	return e.Guide != ""
}

// Data is the structured representation of the index.
type Data struct {
	Generated  string         `json:"generated"`
	Categories []string       `json:"categories"`
	Tools      []Entry        `json:"tools"`
	Summary    map[string]int `json:"summary"`
}

// ByCategory returns the entries of one category in catalog order.
func (d *Data) ByCategory(category string) []Entry {
	entries := []Entry{}
	for _, entry := range d.Tools {
		if entry.Category == category {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Generator produces indexes in multiple formats.
type Generator struct {
	mgr    *catalog.Manager
	loader *instructions.Loader
}

// NewGenerator constructs a new generator.
func NewGenerator(mgr *catalog.Manager, loader *instructions.Loader) *Generator {
	return &Generator{mgr: mgr, loader: loader}
}

// Build constructs index data with metadata. Tools without instructions are
// listed with an empty guide path.
func (g *Generator) Build(ctx context.Context) (*Data, error) {
	c, err := g.mgr.Catalog()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(c.Tools))
	summary := map[string]int{}

	for _, tool := range c.Tools {
		entry := Entry{
			ID:          tool.ID,
			Name:        tool.Name,
			Category:    tool.Category,
			Description: tool.Description,
		}
		parsed, err := g.loader.Load(ctx, tool.ID)
		switch {
		case err == nil:
			entry.Guide = "instructions/" + tool.ID + instructions.Extension
			entry.Sections = parsed.Stats.Sections
			entry.Commands = parsed.Stats.Commands
		case errors.Is(err, instructions.ErrNotFound), errors.Is(err, instructions.ErrInvalidID):
		default:
			return nil, fmt.Errorf("index %s: %w", tool.ID, err)
		}
		entries = append(entries, entry)
		summary[entry.Category]++
	}

	return &Data{
		Generated:  time.Now().Format("2006-01-02"),
		Categories: c.Categories(),
		Tools:      entries,
		Summary:    summary,
	}, nil
}

// Markdown renders the index as one Markdown table per category.
func (g *Generator) Markdown(data *Data) (string, error) {
	var b strings.Builder
	b.WriteString("# Tools Index\n\n")
	b.WriteString(fmt.Sprintf("> Auto-generated on %s - Do not edit manually\n", data.Generated))

	for _, category := range data.Categories {
		b.WriteString(fmt.Sprintf("\n## %s\n\n", category))
		b.WriteString("| ID | Name | Guide | Sections | Commands | Description |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, entry := range data.ByCategory(category) {
			guideCell := "-"
			if entry.HasGuide() {
				guideCell = fmt.Sprintf("[%s](%s)", entry.Guide, entry.Guide)
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d | %s |\n",
				entry.ID,
				escapeCell(entry.Name),
				guideCell,
				entry.Sections,
				entry.Commands,
				escapeCell(entry.Description),
			))
		}
	}

	b.WriteString("\n## Summary\n\n")
	for _, category := range data.Categories {
		b.WriteString(fmt.Sprintf("- **%s**: %d\n", category, data.Summary[category]))
	}
	b.WriteString(fmt.Sprintf("\n**Total**: %d tools\n", len(data.Tools)))

	return b.String(), nil
}

// JSON renders the index as JSON.
func (g *Generator) JSON(data *Data) (string, error) {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(buf) + "\n", nil
}

const htmlTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>DevOps Tool Installer</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
th, td { border: 1px solid #ccc; padding: 0.5rem; text-align: left; }
th { background: #f5f5f5; }
caption { caption-side: top; font-weight: bold; margin-bottom: 1rem; text-align: left; }
</style>
</head>
<body>
<h1>Tools Index</h1>
<p>Generated {{ .Generated }}</p>
{{ range $category := .Categories }}
<table>
<caption id="{{ slug $category }}">{{ $category }}</caption>
<thead><tr><th>ID</th><th>Name</th><th>Guide</th><th>Sections</th><th>Commands</th><th>Description</th></tr></thead>
<tbody>
{{ range $.ByCategory $category }}
<tr>
<td>{{ .ID }}</td>
<td>{{ .Name }}</td>
<td>{{ if .HasGuide }}<a href="{{ .Guide }}">{{ .Guide }}</a>{{ else }}-{{ end }}</td>
<td>{{ .Sections }}</td>
<td>{{ .Commands }}</td>
<td>{{ .Description }}</td>
</tr>
{{ end }}
</tbody>
</table>
{{ end }}
<section>
<h2>Summary</h2>
<ul>
{{ range .Categories }}
<li><strong>{{ . }}</strong>: {{ index $.Summary . }}</li>
{{ end }}
</ul>
<p><strong>Total:</strong> {{ len .Tools }} tools</p>
</section>
</body>
</html>`

// HTML renders the index as a simple HTML page.
func (g *Generator) HTML(data *Data) (string, error) {
	funcMap := template.FuncMap{
		"slug": util.Slugify,
	}

	t, err := template.New("index").Funcs(funcMap).Parse(htmlTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func escapeCell(value string) string {
	return strings.ReplaceAll(value, "|", `\|`)
}
