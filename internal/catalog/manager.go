package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
)

// Manager encapsulates catalog file operations.
type Manager struct {
	opts *config.Options
	log  *logrus.Entry
}

// NewManager constructs a manager with shared configuration.
func NewManager(opts *config.Options) *Manager {
	return &Manager{
		opts: opts,
		log:  opts.Logger().WithField("component", "catalog"),
	}
}

// Path returns the catalog file path.
func (m *Manager) Path() string {
	return m.opts.CatalogPath()
}

// Load reads the catalog without checking its entries. A workspace without
// catalog.yaml gets the built-in catalog.
func (m *Manager) Load() (*Catalog, error) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.log.WithField("path", m.Path()).Info("Catalog missing, using built-in tools")
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Catalog loads and checks the catalog.
func (m *Manager) Catalog() (*Catalog, error) {
	c, err := m.Load()
	if err != nil {
		return nil, err
	}
	if err := c.Check(m.Path()); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns every tool in catalog order.
func (m *Manager) List() ([]Tool, error) {
	c, err := m.Catalog()
	if err != nil {
		return nil, err
	}
	return c.Tools, nil
}

// LoadByID returns the tool with matching id.
func (m *Manager) LoadByID(id string) (Tool, error) {
	c, err := m.Catalog()
	if err != nil {
		return Tool{}, err
	}
	tool, ok := c.Find(id)
	if !ok {
		return Tool{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tool, nil
}

// Categories returns the distinct categories in catalog order.
func (m *Manager) Categories() ([]string, error) {
	c, err := m.Catalog()
	if err != nil {
		return nil, err
	}
	return c.Categories(), nil
}

// Filter returns the tools of a category; empty returns all.
func (m *Manager) Filter(category string) ([]Tool, error) {
	c, err := m.Catalog()
	if err != nil {
		return nil, err
	}
	return c.Filter(category), nil
}

// Save persists the catalog to disk.
func (m *Manager) Save(c *Catalog) error {
	if err := c.Check(m.Path()); err != nil {
		return err
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if m.opts.DryRun {
		m.log.WithFields(logrus.Fields{
			"action": "save",
			"path":   m.Path(),
			"dryRun": true,
		}).Info("Skipping write in dry-run mode")
		return nil
	}
	if err := util.WriteFileAtomic(m.Path(), data, 0o644); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{
		"action": "save",
		"path":   m.Path(),
		"tools":  len(c.Tools),
	}).Info("Catalog saved")
	return nil
}
