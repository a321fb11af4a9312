// Package lock guards workspace operations that must not run concurrently.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
)

// ErrHeld is returned when another process holds an unexpired lock.
var ErrHeld = errors.New("operation lock held")

// Info is the lock metadata stored on disk.
type Info struct {
	Operation string    `json:"operation"`
	Owner     string    `json:"owner"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the lock is stale at now.
func (i Info) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Manager creates and removes operation locks under <root>/locks.
type Manager struct {
	opts *config.Options
	log  *logrus.Entry
	now  func() time.Time
}

// NewManager constructs a lock manager.
func NewManager(opts *config.Options) *Manager {
	return &Manager{
		opts: opts,
		log:  opts.Logger().WithField("component", "lock"),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Path returns the lock file of operation.
func (m *Manager) Path(operation string) string {
	return filepath.Join(m.opts.RootDir, "locks", operation+".lock")
}

// Load returns the current lock of operation, or nil when none exists.
func (m *Manager) Load(operation string) (*Info, error) {
	// #nosec G304 -- operation names are fixed by the caller
	data, err := os.ReadFile(m.Path(operation))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &info, nil
}

// Acquire takes the lock of operation for ttl. An unexpired lock held by
// someone else fails with ErrHeld unless force is set.
func (m *Manager) Acquire(operation string, ttl time.Duration, force bool) (*Info, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}

	now := m.now()
	existing, err := m.Load(operation)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.Expired(now) && !force {
		return nil, fmt.Errorf("%w: %s by %s (pid %d) until %s", ErrHeld, operation, existing.Owner, existing.PID, existing.ExpiresAt.Format(time.RFC3339))
	}

	info := &Info{
		Operation: operation,
		Owner:     owner(),
		PID:       os.Getpid(),
		StartedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if m.opts.DryRun {
		m.log.WithFields(logrus.Fields{
			"action":    "lock",
			"operation": operation,
			"dryRun":    true,
		}).Info("Skipping lock write in dry-run mode")
		return info, nil
	}

	payload, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(m.Path(operation)), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	if err := util.WriteFileAtomic(m.Path(operation), payload, 0o644); err != nil {
		return nil, err
	}

	m.log.WithFields(logrus.Fields{
		"action":    "lock",
		"operation": operation,
		"owner":     info.Owner,
		"ttl":       ttl.String(),
		"forced":    existing != nil && force,
	}).Info("Lock acquired")
	return info, nil
}

// Release removes the lock of operation. Missing locks are ignored.
func (m *Manager) Release(operation string) error {
	if m.opts.DryRun {
		m.log.WithFields(logrus.Fields{
			"action":    "unlock",
			"operation": operation,
			"dryRun":    true,
		}).Info("Skipping lock removal in dry-run mode")
		return nil
	}
	if err := os.Remove(m.Path(operation)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	m.log.WithFields(logrus.Fields{
		"action":    "unlock",
		"operation": operation,
	}).Info("Lock released")
	return nil
}

func owner() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return host
}
