package instructions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
)

// Extension is the file suffix of an instructions document.
const Extension = ".md"

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Source retrieves the raw markdown guide of a tool.
type Source interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// ValidateID rejects ids that are not lowercase slugs.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// FileSource reads guides from the workspace instructions directory.
type FileSource struct {
	opts *config.Options
	log  *logrus.Entry
}

// NewFileSource constructs a source rooted at the workspace.
func NewFileSource(opts *config.Options) *FileSource {
	return &FileSource{
		opts: opts,
		log:  opts.Logger().WithField("component", "instructions"),
	}
}

// Dir returns the instructions directory.
func (s *FileSource) Dir() string {
	return s.opts.InstructionsDir()
}

// Path returns the file holding the guide for id.
func (s *FileSource) Path(id string) string {
	return filepath.Join(s.Dir(), id+Extension)
}

// Fetch reads the guide for id.
func (s *FileSource) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	path := s.Path(id)
	// #nosec G304 -- id is validated against a slug pattern
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read instructions %s: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{"id": id, "bytes": len(data)}).Info("Instructions loaded")
	return data, nil
}

// List returns the ids of every guide on disk, sorted.
func (s *FileSource) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list instructions: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), Extension)
		if ValidateID(id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Save writes the guide for id. Nothing is written in dry-run mode.
func (s *FileSource) Save(id string, data []byte) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	path := s.Path(id)
	if s.opts.DryRun {
		s.log.WithFields(logrus.Fields{
			"action": "save",
			"path":   path,
			"dryRun": true,
		}).Info("Skipping write in dry-run mode")
		return nil
	}
	if err := os.MkdirAll(s.Dir(), 0o750); err != nil {
		return fmt.Errorf("failed to create instructions directory: %w", err)
	}
	return util.WriteFileAtomic(path, data, 0o644)
}
