package guide

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// RenderOptions configures the goldmark prose renderer.
type RenderOptions struct {
	// Extensions lists goldmark extensions by name. Empty selects GFM,
	// linkify and task lists.
	Extensions []string
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
	// Sanitize strips unsafe markup from the rendered HTML.
	Sanitize bool
}

// GoldmarkRenderer renders prose with goldmark. The engine is built once and
// shared across calls.
type GoldmarkRenderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

// NewGoldmarkRenderer constructs a renderer for the supplied options.
func NewGoldmarkRenderer(opts RenderOptions) *GoldmarkRenderer {
	r := &GoldmarkRenderer{engine: newGoldmarkEngine(opts)}
	if opts.Sanitize {
		r.policy = bluemonday.UGCPolicy()
	}
	return r
}

// Render converts markdown into HTML.
func (r *GoldmarkRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	if r.policy != nil {
		return r.policy.Sanitize(buf.String()), nil
	}
	return buf.String(), nil
}

func newGoldmarkEngine(opts RenderOptions) goldmark.Markdown {
	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	// Raw HTML is kept; Sanitize scrubs it after rendering.
	rendererOptions := []renderer.Option{
		html.WithUnsafe(),
	}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}
