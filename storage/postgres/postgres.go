// Package postgres seeds the skill taxonomy into PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/c360studio/rsfgen/storage"
	"github.com/c360studio/rsfgen/taxonomy"
)

const schema = `
CREATE TABLE IF NOT EXISTS rsf_skills (
	skill_id TEXT PRIMARY KEY,
	uuid UUID NOT NULL UNIQUE,
	domain TEXT NOT NULL,
	domain_en TEXT NOT NULL,
	esco_uri TEXT NOT NULL,
	preferred_label_ko TEXT NOT NULL,
	preferred_label_en TEXT NOT NULL,
	description_ko TEXT NOT NULL,
	description_en TEXT NOT NULL,
	skill_type TEXT NOT NULL,
	proficiency_level SMALLINT NOT NULL CHECK (proficiency_level BETWEEN 1 AND 4),
	role_mapping TEXT[] NOT NULL,
	parent_skill_id TEXT,
	related_skills TEXT[] NOT NULL DEFAULT '{}',
	esco_broader TEXT,
	smartfactory_context TEXT,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertSkill = `
INSERT INTO rsf_skills (
	skill_id, uuid, domain, domain_en, esco_uri,
	preferred_label_ko, preferred_label_en, description_ko, description_en,
	skill_type, proficiency_level, role_mapping, parent_skill_id, related_skills,
	esco_broader, smartfactory_context
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (skill_id) DO UPDATE SET
	uuid = EXCLUDED.uuid,
	domain = EXCLUDED.domain,
	domain_en = EXCLUDED.domain_en,
	esco_uri = EXCLUDED.esco_uri,
	preferred_label_ko = EXCLUDED.preferred_label_ko,
	preferred_label_en = EXCLUDED.preferred_label_en,
	description_ko = EXCLUDED.description_ko,
	description_en = EXCLUDED.description_en,
	skill_type = EXCLUDED.skill_type,
	proficiency_level = EXCLUDED.proficiency_level,
	role_mapping = EXCLUDED.role_mapping,
	parent_skill_id = EXCLUDED.parent_skill_id,
	related_skills = EXCLUDED.related_skills,
	esco_broader = EXCLUDED.esco_broader,
	smartfactory_context = EXCLUDED.smartfactory_context,
	updated_at = now()`

// DB is the part of *pgxpool.Pool the seeder needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Store seeds records into the rsf_skills table.
type Store struct {
	db DB
}

var _ storage.Store = (*Store)(nil)

// New wraps an existing pool.
func New(db DB) *Store {
	return &Store{db: db}
}

// Connect opens a pool for dsn and pings it. connectTimeout bounds each
// connection attempt; zero keeps the pgx default.
func Connect(ctx context.Context, dsn string, connectTimeout time.Duration) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if connectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = connectTimeout
	}

	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := p.Ping(pingCtx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return New(p), nil
}

// Name identifies the store in logs and errors.
func (s *Store) Name() string { return "postgres" }

// SaveSkills ensures the table exists and upserts every record in one
// transaction.
func (s *Store) SaveSkills(ctx context.Context, skills []taxonomy.Skill) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil db")
	}
	if len(skills) == 0 {
		return storage.ErrNoSkills
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	for _, sk := range skills {
		if _, err := tx.Exec(ctx, upsertSkill, skillArgs(sk)...); err != nil {
			return fmt.Errorf("upsert %s: %w", sk.SkillID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.db.Close()
	return nil
}

func skillArgs(sk taxonomy.Skill) []any {
	roles := make([]string, len(sk.RoleMapping))
	for i, r := range sk.RoleMapping {
		roles[i] = string(r)
	}
	related := sk.RelatedSkills
	if related == nil {
		related = []string{}
	}
	return []any{
		sk.SkillID,
		taxonomy.SkillUUID(sk).String(),
		sk.Domain,
		sk.DomainEN,
		sk.ESCOURI,
		sk.PreferredLabelKO,
		sk.PreferredLabelEN,
		sk.DescriptionKO,
		sk.DescriptionEN,
		string(sk.SkillType),
		sk.ProficiencyLevel,
		roles,
		sk.ParentSkillID,
		related,
		sk.ESCOBroader,
		sk.SmartfactoryContext,
	}
}
