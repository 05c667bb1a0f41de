// Package kv stores the skill taxonomy in a NATS JetStream key-value bucket,
// one entry per record keyed by skill_id.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/rsfgen/storage"
	"github.com/c360studio/rsfgen/taxonomy"
)

// DefaultBucket is the KV bucket records are written to.
const DefaultBucket = "RSF_SKILLS"

// BucketManager is the part of jetstream.JetStream used to find or create the
// bucket.
type BucketManager interface {
	KeyValue(ctx context.Context, bucket string) (jetstream.KeyValue, error)
	CreateKeyValue(ctx context.Context, cfg jetstream.KeyValueConfig) (jetstream.KeyValue, error)
}

// Store provides skill storage backed by NATS KV.
type Store struct {
	skills jetstream.KeyValue
	closer func()
}

var _ storage.Store = (*Store)(nil)

// NewStore opens bucket, creating it if it doesn't exist. closer, when
// non-nil, runs on Close (typically draining the NATS connection).
func NewStore(ctx context.Context, js BucketManager, bucket string, closer func()) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("create %s bucket: %w", bucket, err)
	}
	return &Store{skills: kv, closer: closer}, nil
}

func getOrCreateBucket(ctx context.Context, js BucketManager, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, err
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Robot/smart-factory skill taxonomy",
		History:     5, // Keep last 5 revisions
	})
}

// Name identifies the store in logs and errors.
func (s *Store) Name() string { return "nats-kv" }

// SaveSkills puts every record under its skill_id. Entries whose value is
// unchanged are skipped so re-seeding does not grow history.
func (s *Store) SaveSkills(ctx context.Context, skills []taxonomy.Skill) error {
	if len(skills) == 0 {
		return storage.ErrNoSkills
	}
	for _, sk := range skills {
		data, err := json.Marshal(sk)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", sk.SkillID, err)
		}

		if entry, err := s.skills.Get(ctx, sk.SkillID); err == nil && string(entry.Value()) == string(data) {
			continue
		} else if err != nil && !isNotFound(err) {
			return fmt.Errorf("get %s: %w", sk.SkillID, err)
		}

		if _, err := s.skills.Put(ctx, sk.SkillID, data); err != nil {
			return fmt.Errorf("store %s: %w", sk.SkillID, err)
		}
	}
	return nil
}

// GetSkill retrieves a record by ID.
func (s *Store) GetSkill(ctx context.Context, id string) (*taxonomy.Skill, error) {
	entry, err := s.skills.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get skill: %w", err)
	}

	var sk taxonomy.Skill
	if err := json.Unmarshal(entry.Value(), &sk); err != nil {
		return nil, fmt.Errorf("unmarshal skill: %w", err)
	}
	return &sk, nil
}

// ListSkills returns every stored record ordered by skill_id.
func (s *Store) ListSkills(ctx context.Context) ([]taxonomy.Skill, error) {
	keys, err := s.skills.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list skill keys: %w", err)
	}
	sort.Strings(keys)

	skills := make([]taxonomy.Skill, 0, len(keys))
	for _, key := range keys {
		sk, err := s.GetSkill(ctx, key)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *sk)
	}
	return skills, nil
}

// Close runs the closer given to NewStore.
func (s *Store) Close() error {
	if s.closer != nil {
		s.closer()
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted)
}
