package instructions

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/guide"
)

// Guide is a tool's parsed installation guide.
type Guide struct {
	ToolID      string           `json:"tool"`
	FrontMatter FrontMatter      `json:"frontMatter"`
	Sections    []guide.Section  `json:"sections"`
	TOC         []guide.TOCEntry `json:"toc"`
	Stats       guide.Stats      `json:"stats"`
}

// Loader fetches guides from a Source and parses them.
type Loader struct {
	source Source
	parser *guide.Parser
}

// NewLoader combines a source with a parser. A nil parser uses the default
// goldmark renderer.
func NewLoader(source Source, parser *guide.Parser) *Loader {
	if parser == nil {
		parser = guide.NewParser(nil)
	}
	return &Loader{source: source, parser: parser}
}

// Raw returns the unparsed guide for id.
func (l *Loader) Raw(ctx context.Context, id string) ([]byte, error) {
	return l.source.Fetch(ctx, id)
}

// Load fetches and parses the guide for id.
func (l *Loader) Load(ctx context.Context, id string) (*Guide, error) {
	raw, err := l.Raw(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.Parse(id, raw)
}

// Parse strips the front-matter from raw and parses the remaining body.
func (l *Loader) Parse(id string, raw []byte) (*Guide, error) {
	meta, body, err := SplitFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("guide %s: %w", id, err)
	}
	sections, err := l.parser.ParseSections(body)
	if err != nil {
		return nil, fmt.Errorf("guide %s: %w", id, err)
	}
	return &Guide{
		ToolID:      id,
		FrontMatter: meta,
		Sections:    sections,
		TOC:         guide.TableOfContents(sections),
		Stats:       guide.Summarize(sections),
	}, nil
}

// Digest returns the hex blake3 sum of a raw guide.
func Digest(raw []byte) string {
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
