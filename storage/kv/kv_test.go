package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/rsfgen/storage"
	"github.com/c360studio/rsfgen/taxonomy"
)

type fakeEntry struct {
	jetstream.KeyValueEntry
	value []byte
}

func (e fakeEntry) Value() []byte { return e.value }

// fakeKV is an in-memory bucket. Unused jetstream.KeyValue methods panic
// through the nil embedded interface.
type fakeKV struct {
	jetstream.KeyValue
	data map[string][]byte
	puts int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (kv *fakeKV) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	v, ok := kv.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return fakeEntry{value: v}, nil
}

func (kv *fakeKV) Put(_ context.Context, key string, value []byte) (uint64, error) {
	kv.data[key] = value
	kv.puts++
	return uint64(kv.puts), nil
}

func (kv *fakeKV) Keys(context.Context, ...jetstream.WatchOpt) ([]string, error) {
	if len(kv.data) == 0 {
		return nil, jetstream.ErrNoKeysFound
	}
	keys := make([]string, 0, len(kv.data))
	for k := range kv.data {
		keys = append(keys, k)
	}
	return keys, nil
}

type fakeManager struct {
	existing  map[string]*fakeKV
	created   []jetstream.KeyValueConfig
	lookupErr error
}

func (m *fakeManager) KeyValue(_ context.Context, bucket string) (jetstream.KeyValue, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if kv, ok := m.existing[bucket]; ok {
		return kv, nil
	}
	return nil, jetstream.ErrBucketNotFound
}

func (m *fakeManager) CreateKeyValue(_ context.Context, cfg jetstream.KeyValueConfig) (jetstream.KeyValue, error) {
	m.created = append(m.created, cfg)
	kv := newFakeKV()
	if m.existing == nil {
		m.existing = make(map[string]*fakeKV)
	}
	m.existing[cfg.Bucket] = kv
	return kv, nil
}

func defaultSkills(t *testing.T) []taxonomy.Skill {
	t.Helper()
	tables, err := taxonomy.DefaultTables()
	require.NoError(t, err)
	return taxonomy.Assemble(tables)
}

func TestNewStore_CreatesBucket(t *testing.T) {
	m := &fakeManager{}
	_, err := NewStore(context.Background(), m, "", nil)
	require.NoError(t, err)

	require.Len(t, m.created, 1)
	assert.Equal(t, DefaultBucket, m.created[0].Bucket)
	assert.Equal(t, uint8(5), m.created[0].History)
}

func TestNewStore_ReusesBucket(t *testing.T) {
	m := &fakeManager{existing: map[string]*fakeKV{"CUSTOM": newFakeKV()}}
	_, err := NewStore(context.Background(), m, "CUSTOM", nil)
	require.NoError(t, err)
	assert.Empty(t, m.created)
}

func TestNewStore_LookupError(t *testing.T) {
	m := &fakeManager{lookupErr: errors.New("jetstream not enabled")}
	_, err := NewStore(context.Background(), m, "", nil)
	assert.ErrorContains(t, err, "jetstream not enabled")
	assert.Empty(t, m.created)
}

func TestStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	m := &fakeManager{}
	s, err := NewStore(ctx, m, "", nil)
	require.NoError(t, err)
	skills := defaultSkills(t)

	require.NoError(t, s.SaveSkills(ctx, skills))
	kv := m.existing[DefaultBucket]
	assert.Equal(t, 127, kv.puts)

	// unchanged records are not rewritten
	require.NoError(t, s.SaveSkills(ctx, skills))
	assert.Equal(t, 127, kv.puts)

	skills[3].PreferredLabelEN = "Changed"
	require.NoError(t, s.SaveSkills(ctx, skills))
	assert.Equal(t, 128, kv.puts)

	listed, err := s.ListSkills(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 127)
	assert.Equal(t, "RSF-AMR-001", listed[0].SkillID, "keys are sorted")

	got, err := s.GetSkill(ctx, skills[3].SkillID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.PreferredLabelEN)
}

func TestStore_GetMissing(t *testing.T) {
	s, err := NewStore(context.Background(), &fakeManager{}, "", nil)
	require.NoError(t, err)

	_, err = s.GetSkill(context.Background(), "RSF-IRC-999")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	listed, err := s.ListSkills(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestStore_NoSkills(t *testing.T) {
	s, err := NewStore(context.Background(), &fakeManager{}, "", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.SaveSkills(context.Background(), nil), storage.ErrNoSkills)
}

func TestStore_CloseRunsCloser(t *testing.T) {
	closed := false
	s, err := NewStore(context.Background(), &fakeManager{}, "", func() { closed = true })
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.True(t, closed)
	assert.Equal(t, "nats-kv", s.Name())
}
