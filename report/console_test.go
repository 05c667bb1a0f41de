package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/rsfgen/taxonomy"
)

func defaultSkills(t *testing.T) (*taxonomy.Tables, []taxonomy.Skill) {
	t.Helper()
	tables, err := taxonomy.DefaultTables()
	require.NoError(t, err)
	return tables, taxonomy.Assemble(tables)
}

func TestConsole_Generation(t *testing.T) {
	tables, skills := defaultSkills(t)

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Start()
	require.NoError(t, c.Generation("public/data/robot-smartfactory.json", tables.Domains, skills))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "🚀 "), "progress line first")
	assert.Contains(t, out, "✅ 데이터 생성 완료: public/data/robot-smartfactory.json\n")
	assert.Contains(t, out, "   총 스킬 수: 127개\n")

	for _, want := range []string{
		"   산업용 로봇 제어: 22개\n",
		"   competence: 42개\n",
		"   knowledge: 30개\n",
		"   skill: 55개\n",
		"   developer: 39개\n",
		"   engineer: 127개\n",
		"   operator: 47개\n",
		"   Level 1: 7개\n",
		"   Level 2: 47개\n",
		"   Level 3: 55개\n",
		"   Level 4: 18개\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "✨ 데이터 생성 완료!\n"))
}

func TestConsole_DistributionOrder(t *testing.T) {
	tables, skills := defaultSkills(t)

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Distribution(tables.Domains, taxonomy.Tally(skills))
	require.NoError(t, c.Err())
	out := buf.String()

	// domains in table order
	last := -1
	for _, d := range tables.Domains {
		idx := strings.Index(out, "   "+d.NameKO+":")
		require.GreaterOrEqual(t, idx, 0, "domain %s missing", d.Key)
		assert.Greater(t, idx, last, "domain %s out of order", d.Key)
		last = idx
	}

	// types sorted lexically
	assert.Less(t, strings.Index(out, "competence:"), strings.Index(out, "knowledge:"))
	assert.Less(t, strings.Index(out, "knowledge:"), strings.Index(out, "skill:"))
}

func TestConsole_EmptyDomainShowsZero(t *testing.T) {
	tables, skills := defaultSkills(t)

	var amr []taxonomy.Skill
	for _, s := range skills {
		if s.Domain == "autonomous-mobile-robot" {
			amr = append(amr, s)
		}
	}

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Distribution(tables.Domains, taxonomy.Tally(amr))
	assert.Contains(t, buf.String(), "   산업용 로봇 제어: 0개\n")
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestConsole_StickyError(t *testing.T) {
	w := &failingWriter{}
	c := NewConsole(w)
	c.Start()
	c.Done()

	assert.EqualError(t, c.Err(), "disk full")
	assert.Equal(t, 1, w.writes, "writes after the first failure are skipped")
}

func TestConsole_Validation(t *testing.T) {
	tables, skills := defaultSkills(t)
	report := taxonomy.Validate(skills, tables)

	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf).Validation(report))

	out := buf.String()
	assert.Contains(t, out, "   총 스킬 수: 127개\n")
	assert.Contains(t, out, "[domain_target]")
	assert.NotContains(t, out, "❌ 오류")
	assert.Contains(t, out, "✅ 검증 통과")
}

func TestConsole_ValidationFailure(t *testing.T) {
	tables, skills := defaultSkills(t)
	skills[0].ESCOURI = "http://example.com/not-esco"
	report := taxonomy.Validate(skills, tables)

	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf).Validation(report))

	out := buf.String()
	assert.Contains(t, out, "[esco_uri] RSF-IRC-001:")
	assert.Contains(t, out, "❌ 검증 실패")
}
