package validator

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/guide"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/instructions"
)

//go:embed catalog.schema.json
var defaultSchema []byte

// DefaultSchema returns the catalog entry schema used when the workspace
// does not provide one.
func DefaultSchema() []byte {
	return append([]byte(nil), defaultSchema...)
}

// Result represents validation outcome for a single tool.
type Result struct {
	Tool     catalog.Tool `json:"tool"`
	Errors   []string     `json:"errors"`
	Warnings []string     `json:"warnings"`
}

// Summary aggregates validation results.
type Summary struct {
	Total      int               `json:"total"`
	Valid      int               `json:"valid"`
	Invalid    int               `json:"invalid"`
	ErrorCount map[string]int    `json:"error_counts"`
	Results    map[string]Result `json:"results"`
}

// Validator checks catalog entries against the schema and lints their guides.
type Validator struct {
	mgr    *catalog.Manager
	loader *instructions.Loader
	schema *gojsonschema.Schema
	log    *logrus.Entry
}

// New creates a validator. The workspace schema is used when present.
func New(opts *config.Options, mgr *catalog.Manager, loader *instructions.Loader) (*Validator, error) {
	schemaLoader, err := schemaLoaderFor(opts.SchemaPath())
	if err != nil {
		return nil, err
	}
	schema, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}
	return &Validator{
		mgr:    mgr,
		loader: loader,
		schema: schema,
		log:    opts.Logger().WithField("component", "validator"),
	}, nil
}

func schemaLoaderFor(path string) (gojsonschema.JSONLoader, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return gojsonschema.NewBytesLoader(defaultSchema), nil
		}
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(path)), nil
}

// ValidateAll runs validations across every catalog entry.
func (v *Validator) ValidateAll(ctx context.Context) (*Summary, error) {
	c, err := v.mgr.Load()
	if err != nil {
		return nil, err
	}
	results := make(map[string]Result)
	errorCounts := map[string]int{}
	seen := map[string]bool{}

	for i, tool := range c.Tools {
		key := tool.ID
		if key == "" {
			key = fmt.Sprintf("#%d", i)
		}
		res := v.validateSingle(ctx, tool)
		if seen[key] {
			res.Errors = append(res.Errors, fmt.Sprintf("duplicate ID detected for %s", key))
			key = fmt.Sprintf("%s#%d", key, i)
		}
		seen[key] = true
		results[key] = res
	}

	total := len(results)
	valid := 0
	invalid := 0
	for id, res := range results {
		if len(res.Errors) == 0 {
			valid++
		} else {
			invalid++
			errorCounts[id] = len(res.Errors)
		}
	}

	if invalid > 0 {
		v.log.WithField("invalid", invalid).Warn("Validation found issues")
	} else {
		v.log.WithField("total", total).Info("Validation passed")
	}

	return &Summary{
		Total:      total,
		Valid:      valid,
		Invalid:    invalid,
		ErrorCount: errorCounts,
		Results:    results,
	}, nil
}

// ValidateID runs validation on a specific tool.
func (v *Validator) ValidateID(ctx context.Context, id string) (Result, error) {
	tool, err := v.mgr.LoadByID(id)
	if err != nil {
		return Result{}, err
	}
	return v.validateSingle(ctx, tool), nil
}

func (v *Validator) validateSingle(ctx context.Context, tool catalog.Tool) Result {
	res := Result{Tool: tool, Errors: []string{}, Warnings: []string{}}

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(tool))
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("schema validation error: %v", err))
	} else if !result.Valid() {
		for _, desc := range result.Errors() {
			res.Errors = append(res.Errors, desc.String())
		}
	}

	if instructions.ValidateID(tool.ID) != nil {
		return res
	}
	v.lintGuide(ctx, tool.ID, &res)
	return res
}

func (v *Validator) lintGuide(ctx context.Context, id string, res *Result) {
	raw, err := v.loader.Raw(ctx, id)
	if err != nil {
		if errors.Is(err, instructions.ErrNotFound) {
			res.Errors = append(res.Errors, "instructions file missing")
			return
		}
		res.Errors = append(res.Errors, fmt.Sprintf("failed to read instructions: %v", err))
		return
	}

	_, body, err := instructions.SplitFrontMatter(raw)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return
	}
	g, err := v.loader.Parse(id, raw)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return
	}
	if len(g.Sections) == 0 {
		res.Errors = append(res.Errors, "guide has no sections")
		return
	}

	if line := guide.UnclosedFence(body); line > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("unterminated code fence at body line %d", line))
	}
	titles := map[string]int{}
	for _, section := range g.Sections {
		titles[section.Title]++
		if section.Content == "" && len(section.Steps) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("section %q is empty", section.Title))
		}
	}
	dupes := make([]string, 0)
	for title, count := range titles {
		if count > 1 {
			dupes = append(dupes, title)
		}
	}
	sort.Strings(dupes)
	for _, title := range dupes {
		res.Warnings = append(res.Warnings, fmt.Sprintf("section title %q appears %d times", title, titles[title]))
	}
}

// HasErrors indicates if any validation errors were found.
func (s *Summary) HasErrors() bool {
	return s.Invalid > 0
}

// Error provides a formatted error when summary invalid.
func (s *Summary) Error() error {
	if !s.HasErrors() {
		return nil
	}
	ids := make([]string, 0, len(s.ErrorCount))
	for id := range s.ErrorCount {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s (%d errors)", id, s.ErrorCount[id]))
	}
	return errors.New(strings.Join(parts, "; "))
}
