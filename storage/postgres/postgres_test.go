package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/rsfgen/storage"
	"github.com/c360studio/rsfgen/taxonomy"
)

type execCall struct {
	sql  string
	args []any
}

// fakeTx records Exec calls. Methods the seeder never calls panic through the
// nil embedded interface.
type fakeTx struct {
	pgx.Tx
	execs      []execCall
	failOn     string
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx.failOn != "" && strings.Contains(sql, tx.failOn) {
		return pgconn.CommandTag{}, errors.New("exec failed")
	}
	tx.execs = append(tx.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error
	closed   bool
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	return db.tx, nil
}

func (db *fakeDB) Close() { db.closed = true }

func defaultSkills(t *testing.T) []taxonomy.Skill {
	t.Helper()
	tables, err := taxonomy.DefaultTables()
	require.NoError(t, err)
	return taxonomy.Assemble(tables)
}

func TestStore_SaveSkills(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	s := New(db)
	skills := defaultSkills(t)

	require.NoError(t, s.SaveSkills(context.Background(), skills))

	tx := db.tx
	require.Len(t, tx.execs, 1+len(skills))
	assert.Contains(t, tx.execs[0].sql, "CREATE TABLE IF NOT EXISTS rsf_skills")
	assert.Contains(t, tx.execs[1].sql, "ON CONFLICT (skill_id) DO UPDATE")
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)

	first := tx.execs[1].args
	require.Len(t, first, 16)
	assert.Equal(t, "RSF-IRC-001", first[0])
	assert.Equal(t, taxonomy.SkillUUID(skills[0]).String(), first[1])
	assert.Equal(t, []string{"engineer", "developer"}, first[11])
	assert.Equal(t, []string{}, first[13])
}

func TestStore_SaveSkillsRollsBackOnError(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{failOn: "INSERT INTO rsf_skills"}}
	s := New(db)

	err := s.SaveSkills(context.Background(), defaultSkills(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert RSF-IRC-001")
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
}

func TestStore_BeginError(t *testing.T) {
	s := New(&fakeDB{beginErr: errors.New("connection refused")})
	err := s.SaveSkills(context.Background(), defaultSkills(t))
	assert.ErrorContains(t, err, "begin")
}

func TestStore_NoSkills(t *testing.T) {
	s := New(&fakeDB{tx: &fakeTx{}})
	assert.ErrorIs(t, s.SaveSkills(context.Background(), nil), storage.ErrNoSkills)
}

func TestStore_Close(t *testing.T) {
	db := &fakeDB{}
	s := New(db)
	require.NoError(t, s.Close())
	assert.True(t, db.closed)
	assert.Equal(t, "postgres", s.Name())

	var nilStore *Store
	assert.NoError(t, nilStore.Close())
}

func TestConnect_BadDSN(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz", 0)
	assert.ErrorContains(t, err, "parse dsn")
}
