package instructions

import "errors"

var (
	// ErrNotFound indicates no instructions exist for the requested tool.
	ErrNotFound = errors.New("instructions not found")
	// ErrInvalidID indicates a tool id that cannot name an instructions file.
	ErrInvalidID = errors.New("invalid tool id")
)
