package guide

import (
	"fmt"
	"strings"
)

// Renderer converts markdown prose into HTML.
type Renderer interface {
	Render(markdown string) (string, error)
}

// Parser turns an installation guide into sections and steps.
//
// Level-2 headings open sections and level-3 headings open steps. Prose that
// precedes the first step of a section is rendered through the Renderer;
// prose that follows a step heading is dropped, only its fenced code blocks
// are kept. Headings inside fenced code blocks are ignored.
//
// A Parser holds no state between calls and is safe for concurrent use as
// long as its Renderer is.
type Parser struct {
	renderer Renderer
}

// NewParser constructs a parser rendering prose with r. A nil renderer falls
// back to a goldmark renderer with default options.
func NewParser(r Renderer) *Parser {
	if r == nil {
		r = NewGoldmarkRenderer(RenderOptions{})
	}
	return &Parser{renderer: r}
}

// ParseSections parses markdown with a default parser.
func ParseSections(markdown string) ([]Section, error) {
	return NewParser(nil).ParseSections(markdown)
}

// ParseSections converts markdown (front-matter already removed) into
// sections in document order. Input without level-2 headings yields an empty
// slice. The only error source is the prose renderer.
func (p *Parser) ParseSections(markdown string) ([]Section, error) {
	sections := make([]Section, 0)
	var current *sectionBuilder

	flush := func() error {
		if current == nil {
			return nil
		}
		section, err := current.build(p.renderer)
		if err != nil {
			return err
		}
		sections = append(sections, section)
		return nil
	}

	for _, line := range scanLines(markdown) {
		if line.kind == lineText {
			if title, ok := headingText(line.text, 2); ok {
				if err := flush(); err != nil {
					return nil, err
				}
				current = &sectionBuilder{title: title}
				continue
			}
		}
		if current == nil {
			continue
		}
		current.add(line)
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return sections, nil
}

type sectionBuilder struct {
	title string
	prose []string
	steps []*stepBuilder
}

func (b *sectionBuilder) add(line scannedLine) {
	if line.kind == lineText {
		if description, ok := headingText(line.text, 3); ok {
			b.steps = append(b.steps, &stepBuilder{description: description})
			return
		}
	}
	if len(b.steps) == 0 {
		b.prose = append(b.prose, line.text)
		return
	}
	b.steps[len(b.steps)-1].add(line)
}

func (b *sectionBuilder) build(r Renderer) (Section, error) {
	section := Section{
		Title: b.title,
		Steps: make([]Step, 0, len(b.steps)),
	}

	prose := strings.TrimSpace(strings.Join(b.prose, "\n"))
	if prose != "" {
		html, err := r.Render(prose)
		if err != nil {
			return Section{}, fmt.Errorf("render section %q: %w", b.title, err)
		}
		section.Content = html
	}

	for _, step := range b.steps {
		section.Steps = append(section.Steps, step.build()...)
	}
	return section, nil
}

type codeFence struct {
	language string
	lines    []string
}

type stepBuilder struct {
	description string
	fences      []codeFence
}

func (s *stepBuilder) add(line scannedLine) {
	switch line.kind {
	case lineFenceOpen:
		s.fences = append(s.fences, codeFence{language: line.lang})
	case lineFenceBody:
		if len(s.fences) == 0 {
			return
		}
		last := &s.fences[len(s.fences)-1]
		last.lines = append(last.lines, line.text)
	}
}

func (s *stepBuilder) build() []Step {
	if len(s.fences) == 0 {
		return []Step{{Description: s.description}}
	}
	steps := make([]Step, 0, len(s.fences))
	for _, fence := range s.fences {
		language := fence.language
		if language == "" {
			language = defaultLanguage
		}
		steps = append(steps, Step{
			Description: s.description,
			Code:        strings.TrimSpace(strings.Join(fence.lines, "\n")),
			Language:    language,
		})
	}
	return steps
}
