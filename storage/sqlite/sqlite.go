// Package sqlite stores the skill taxonomy in a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/c360studio/rsfgen/storage"
	"github.com/c360studio/rsfgen/taxonomy"
)

const schema = `
CREATE TABLE IF NOT EXISTS skills (
	skill_id TEXT PRIMARY KEY,
	uuid TEXT NOT NULL UNIQUE,
	domain TEXT NOT NULL,
	domain_en TEXT NOT NULL,
	esco_uri TEXT NOT NULL,
	preferred_label_ko TEXT NOT NULL,
	preferred_label_en TEXT NOT NULL,
	description_ko TEXT NOT NULL,
	description_en TEXT NOT NULL,
	skill_type TEXT NOT NULL,
	proficiency_level INTEGER NOT NULL,
	parent_skill_id TEXT,
	related_skills TEXT NOT NULL DEFAULT '[]',
	esco_broader TEXT,
	smartfactory_context TEXT
);
CREATE INDEX IF NOT EXISTS idx_skills_domain ON skills(domain);
CREATE INDEX IF NOT EXISTS idx_skills_parent ON skills(parent_skill_id);

CREATE TABLE IF NOT EXISTS skill_roles (
	skill_id TEXT NOT NULL REFERENCES skills(skill_id) ON DELETE CASCADE,
	role TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (skill_id, role)
);
`

const upsertSkill = `
INSERT INTO skills (
	skill_id, uuid, domain, domain_en, esco_uri,
	preferred_label_ko, preferred_label_en, description_ko, description_en,
	skill_type, proficiency_level, parent_skill_id, related_skills,
	esco_broader, smartfactory_context
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(skill_id) DO UPDATE SET
	uuid = excluded.uuid,
	domain = excluded.domain,
	domain_en = excluded.domain_en,
	esco_uri = excluded.esco_uri,
	preferred_label_ko = excluded.preferred_label_ko,
	preferred_label_en = excluded.preferred_label_en,
	description_ko = excluded.description_ko,
	description_en = excluded.description_en,
	skill_type = excluded.skill_type,
	proficiency_level = excluded.proficiency_level,
	parent_skill_id = excluded.parent_skill_id,
	related_skills = excluded.related_skills,
	esco_broader = excluded.esco_broader,
	smartfactory_context = excluded.smartfactory_context
`

const selectSkill = `
SELECT skill_id, domain, domain_en, esco_uri,
	preferred_label_ko, preferred_label_en, description_ko, description_en,
	skill_type, proficiency_level, parent_skill_id, related_skills,
	esco_broader, smartfactory_context
FROM skills`

// Store is a SQLite-backed storage.Store.
type Store struct {
	db   *sql.DB
	path string
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; keeps PRAGMAs on the single connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Name identifies the store in logs and errors.
func (s *Store) Name() string { return "sqlite" }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// SaveSkills upserts every record and replaces its role rows, all inside one
// transaction.
func (s *Store) SaveSkills(ctx context.Context, skills []taxonomy.Skill) error {
	if len(skills) == 0 {
		return storage.ErrNoSkills
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	skillStmt, err := tx.PrepareContext(ctx, upsertSkill)
	if err != nil {
		return fmt.Errorf("prepare skill upsert: %w", err)
	}
	defer skillStmt.Close()

	roleStmt, err := tx.PrepareContext(ctx, `INSERT INTO skill_roles (skill_id, role, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare role insert: %w", err)
	}
	defer roleStmt.Close()

	for _, sk := range skills {
		related, err := json.Marshal(nonNil(sk.RelatedSkills))
		if err != nil {
			return fmt.Errorf("marshal related skills of %s: %w", sk.SkillID, err)
		}
		if _, err := skillStmt.ExecContext(ctx,
			sk.SkillID, taxonomy.SkillUUID(sk).String(), sk.Domain, sk.DomainEN, sk.ESCOURI,
			sk.PreferredLabelKO, sk.PreferredLabelEN, sk.DescriptionKO, sk.DescriptionEN,
			string(sk.SkillType), sk.ProficiencyLevel, sk.ParentSkillID, string(related),
			sk.ESCOBroader, sk.SmartfactoryContext,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", sk.SkillID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM skill_roles WHERE skill_id = ?`, sk.SkillID); err != nil {
			return fmt.Errorf("clear roles of %s: %w", sk.SkillID, err)
		}
		for i, r := range sk.RoleMapping {
			if _, err := roleStmt.ExecContext(ctx, sk.SkillID, string(r), i); err != nil {
				return fmt.Errorf("insert role %s of %s: %w", r, sk.SkillID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Skill loads one record by ID. It returns storage.ErrNotFound when absent.
func (s *Store) Skill(ctx context.Context, id string) (taxonomy.Skill, error) {
	row := s.db.QueryRowContext(ctx, selectSkill+` WHERE skill_id = ?`, id)
	sk, err := scanSkill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return taxonomy.Skill{}, storage.ErrNotFound
	}
	if err != nil {
		return taxonomy.Skill{}, fmt.Errorf("get %s: %w", id, err)
	}

	roles, err := s.roles(ctx, id)
	if err != nil {
		return taxonomy.Skill{}, err
	}
	sk.RoleMapping = roles
	return sk, nil
}

// Skills loads every record ordered by skill_id.
func (s *Store) Skills(ctx context.Context) ([]taxonomy.Skill, error) {
	rows, err := s.db.QueryContext(ctx, selectSkill+` ORDER BY skill_id`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var out []taxonomy.Skill
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		roles, err := s.roles(ctx, out[i].SkillID)
		if err != nil {
			return nil, err
		}
		out[i].RoleMapping = roles
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM skills`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count skills: %w", err)
	}
	return n, nil
}

func (s *Store) roles(ctx context.Context, id string) ([]taxonomy.Role, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role FROM skill_roles WHERE skill_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("roles of %s: %w", id, err)
	}
	defer rows.Close()

	roles := []taxonomy.Role{}
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		roles = append(roles, taxonomy.Role(r))
	}
	return roles, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSkill(row scanner) (taxonomy.Skill, error) {
	var (
		sk                            taxonomy.Skill
		skillType, related            string
		parent, broader, smartfactory sql.NullString
	)
	if err := row.Scan(
		&sk.SkillID, &sk.Domain, &sk.DomainEN, &sk.ESCOURI,
		&sk.PreferredLabelKO, &sk.PreferredLabelEN, &sk.DescriptionKO, &sk.DescriptionEN,
		&skillType, &sk.ProficiencyLevel, &parent, &related,
		&broader, &smartfactory,
	); err != nil {
		return taxonomy.Skill{}, err
	}
	sk.SkillType = taxonomy.SkillType(skillType)
	sk.ParentSkillID = nullable(parent)
	sk.ESCOBroader = nullable(broader)
	sk.SmartfactoryContext = nullable(smartfactory)
	if err := json.Unmarshal([]byte(related), &sk.RelatedSkills); err != nil {
		return taxonomy.Skill{}, fmt.Errorf("related skills of %s: %w", sk.SkillID, err)
	}
	return sk, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
