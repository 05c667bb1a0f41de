package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a skill is not found.
	ErrNotFound = errors.New("skill not found")

	// ErrNoSkills is returned when a save is attempted with an empty record set.
	ErrNoSkills = errors.New("no skills to save")
)
