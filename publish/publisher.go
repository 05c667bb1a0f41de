// Package publish sends taxonomy records to NATS, one message per record.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/rsfgen/taxonomy"
)

// DefaultSubjectPrefix is prepended to <domain>.<skill_type>.
const DefaultSubjectPrefix = "rsf.skills"

// Message headers set on every record.
const (
	HeaderSkillID = "Rsf-Skill-Id"
	// HeaderMsgID lets JetStream streams drop duplicate publishes.
	HeaderMsgID = nats.MsgIdHdr
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
}

// Publisher publishes records as JSON.
type Publisher struct {
	conn   Conn
	prefix string
	logger *slog.Logger
}

// New creates a publisher. An empty prefix selects DefaultSubjectPrefix.
func New(conn Conn, prefix string, logger *slog.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		conn:   conn,
		prefix: strings.TrimSuffix(prefix, "."),
		logger: logger,
	}
}

// Connect dials url with the rsfgen client name.
func Connect(url string, timeout time.Duration) (*nats.Conn, error) {
	opts := []nats.Option{nats.Name("rsfgen")}
	if timeout > 0 {
		opts = append(opts, nats.Timeout(timeout))
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return conn, nil
}

// Subject returns the subject a record is published on.
func (p *Publisher) Subject(s taxonomy.Skill) string {
	return p.prefix + "." + s.Domain + "." + string(s.SkillType)
}

// Publish sends every record then flushes, so a nil error means the server
// has received them all. It returns the number of records handed to the
// connection.
func (p *Publisher) Publish(ctx context.Context, skills []taxonomy.Skill) (int, error) {
	sent := 0
	for _, s := range skills {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		data, err := json.Marshal(s)
		if err != nil {
			return sent, fmt.Errorf("marshal %s: %w", s.SkillID, err)
		}

		msg := nats.NewMsg(p.Subject(s))
		msg.Data = data
		msg.Header.Set(HeaderSkillID, s.SkillID)
		msg.Header.Set(HeaderMsgID, taxonomy.SkillUUID(s).String())

		if err := p.conn.PublishMsg(msg); err != nil {
			return sent, fmt.Errorf("publish %s: %w", s.SkillID, err)
		}
		sent++
	}

	if err := p.conn.FlushWithContext(ctx); err != nil {
		return sent, fmt.Errorf("flush: %w", err)
	}
	p.logger.Debug("Published skills", slog.Int("count", sent), slog.String("prefix", p.prefix))
	return sent, nil
}
