package publish

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/rsfgen/taxonomy"
)

type fakeConn struct {
	msgs       []*nats.Msg
	publishErr error
	flushErr   error
	flushed    bool
}

func (c *fakeConn) PublishMsg(m *nats.Msg) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.msgs = append(c.msgs, m)
	return nil
}

func (c *fakeConn) FlushWithContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.flushed = true
	return c.flushErr
}

func defaultSkills(t *testing.T) []taxonomy.Skill {
	t.Helper()
	tables, err := taxonomy.DefaultTables()
	require.NoError(t, err)
	return taxonomy.Assemble(tables)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPublisher_Publish(t *testing.T) {
	conn := &fakeConn{}
	p := New(conn, "", quietLogger())
	skills := defaultSkills(t)

	n, err := p.Publish(context.Background(), skills)
	require.NoError(t, err)
	assert.Equal(t, 127, n)
	assert.True(t, conn.flushed)
	require.Len(t, conn.msgs, 127)

	first := conn.msgs[0]
	assert.Equal(t, "rsf.skills.industrial-robot-control.knowledge", first.Subject)
	assert.Equal(t, "RSF-IRC-001", first.Header.Get(HeaderSkillID))
	assert.Equal(t, taxonomy.SkillUUID(skills[0]).String(), first.Header.Get(nats.MsgIdHdr))

	var decoded taxonomy.Skill
	require.NoError(t, json.Unmarshal(first.Data, &decoded))
	assert.Equal(t, skills[0].PreferredLabelEN, decoded.PreferredLabelEN)
}

func TestPublisher_Subject(t *testing.T) {
	skill := taxonomy.Skill{Domain: "collaborative-robot", SkillType: taxonomy.SkillTypeCompetence}

	tests := []struct {
		prefix string
		want   string
	}{
		{"", "rsf.skills.collaborative-robot.competence"},
		{"factory.taxonomy", "factory.taxonomy.collaborative-robot.competence"},
		{"trailing.", "trailing.collaborative-robot.competence"},
	}
	for _, tt := range tests {
		p := New(&fakeConn{}, tt.prefix, quietLogger())
		assert.Equal(t, tt.want, p.Subject(skill))
	}
}

func TestPublisher_PublishError(t *testing.T) {
	conn := &fakeConn{publishErr: nats.ErrConnectionClosed}
	p := New(conn, "", quietLogger())

	n, err := p.Publish(context.Background(), defaultSkills(t))
	assert.ErrorIs(t, err, nats.ErrConnectionClosed)
	assert.Zero(t, n)
	assert.False(t, conn.flushed)
}

func TestPublisher_FlushError(t *testing.T) {
	conn := &fakeConn{flushErr: errors.New("flush timeout")}
	p := New(conn, "", quietLogger())

	n, err := p.Publish(context.Background(), defaultSkills(t))
	assert.ErrorContains(t, err, "flush timeout")
	assert.Equal(t, 127, n)
}

func TestPublisher_CancelledContext(t *testing.T) {
	conn := &fakeConn{}
	p := New(conn, "", quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := p.Publish(ctx, defaultSkills(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	assert.Empty(t, conn.msgs)
}
