package instructions

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the optional metadata header of a guide.
type FrontMatter struct {
	Title       string   `yaml:"title" json:"title,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Version     string   `yaml:"version" json:"version,omitempty"`
	Platforms   []string `yaml:"platforms" json:"platforms,omitempty"`
	Updated     string   `yaml:"updated" json:"updated,omitempty"`
}

// SplitFrontMatter separates the metadata header from the markdown body.
// A document without a header is returned whole as the body.
func SplitFrontMatter(raw []byte) (FrontMatter, string, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return FrontMatter{}, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, string(body), nil
}
