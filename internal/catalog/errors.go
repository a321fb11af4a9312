package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the requested tool is not in the catalog.
var ErrNotFound = errors.New("tool not found")

// InvalidFileError lists catalog entries that cannot be served.
type InvalidFileError struct {
	Path    string
	Entries []InvalidEntry
}

// InvalidEntry describes one rejected catalog entry.
type InvalidEntry struct {
	Index  int
	ID     string
	Reason string
}

// Error implements the error interface.
func (e *InvalidFileError) Error() string {
	if len(e.Entries) == 0 {
		return "no invalid entries"
	}
	if len(e.Entries) == 1 {
		entry := e.Entries[0]
		return fmt.Sprintf("invalid catalog %s: entry %d (%s): %s", e.Path, entry.Index, entry.ID, entry.Reason)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d invalid entries in %s:\n", len(e.Entries), e.Path))
	for _, entry := range e.Entries {
		sb.WriteString(fmt.Sprintf("  - entry %d (%s): %s\n", entry.Index, entry.ID, entry.Reason))
	}
	return sb.String()
}
