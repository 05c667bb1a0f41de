// Package storage defines the persistence contract shared by the SQLite,
// PostgreSQL and NATS KV skill stores.
package storage

import (
	"context"
	"fmt"

	"github.com/c360studio/rsfgen/taxonomy"
)

// Store persists a generated taxonomy. SaveSkills is an upsert keyed by
// skill_id; saving the same records twice leaves the store unchanged.
type Store interface {
	Name() string
	SaveSkills(ctx context.Context, skills []taxonomy.Skill) error
	Close() error
}

// Runner saves one record set into several stores in order and stops at the
// first failure.
type Runner struct {
	Stores []Store
}

// Run saves skills into every configured store.
func (r Runner) Run(ctx context.Context, skills []taxonomy.Skill) error {
	if len(skills) == 0 {
		return ErrNoSkills
	}
	for _, s := range r.Stores {
		if s == nil {
			continue
		}
		if err := s.SaveSkills(ctx, skills); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Close closes every store and returns the first error.
func (r Runner) Close() error {
	var first error
	for _, s := range r.Stores {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", s.Name(), err)
		}
	}
	return first
}
