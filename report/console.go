// Package report prints generation progress and distribution tables to the
// console and exports the same tallies as Prometheus gauges.
package report

import (
	"fmt"
	"io"

	"github.com/c360studio/rsfgen/taxonomy"
)

// Console writes human-readable progress and statistics. The first write
// error is kept and returned by Err; later writes are skipped.
type Console struct {
	w   io.Writer
	err error
}

// NewConsole creates a console reporter writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) printf(format string, args ...any) {
	if c.err != nil {
		return
	}
	_, c.err = fmt.Fprintf(c.w, format, args...)
}

// Err returns the first write error, if any.
func (c *Console) Err() error {
	return c.err
}

// Start prints the progress line.
func (c *Console) Start() {
	c.printf("🚀 로봇테크 for 스마트팩토리 스킬 데이터 생성 시작...\n")
}

// Written prints the completion line with the output path and record count.
func (c *Console) Written(path string, total int) {
	c.printf("✅ 데이터 생성 완료: %s\n", path)
	c.printf("   총 스킬 수: %d개\n", total)
}

// Distribution prints the four tally sections. Domains follow table order
// and are labeled with their Korean names; a domain with no records shows 0.
func (c *Console) Distribution(domains []taxonomy.Domain, st taxonomy.Stats) {
	c.printf("\n📊 도메인별 분포:\n")
	for _, d := range domains {
		c.printf("   %s: %d개\n", d.NameKO, st.ByDomain[d.Key])
	}

	c.printf("\n📊 스킬 타입별 분포:\n")
	for _, t := range st.SortedTypes() {
		c.printf("   %s: %d개\n", t, st.ByType[t])
	}

	c.printf("\n📊 역할별 분포:\n")
	for _, r := range st.SortedRoles() {
		c.printf("   %s: %d개\n", r, st.ByRole[r])
	}

	c.printf("\n📊 숙련도 레벨별 분포:\n")
	for _, l := range st.SortedLevels() {
		c.printf("   Level %d: %d개\n", l, st.ByProficiency[l])
	}
}

// Done prints the closing line.
func (c *Console) Done() {
	c.printf("\n✨ 데이터 생성 완료!\n")
}

// Generation prints a full generate run: completion, distribution and closing
// line. Start is printed separately, before assembly.
func (c *Console) Generation(path string, domains []taxonomy.Domain, skills []taxonomy.Skill) error {
	c.Written(path, len(skills))
	c.Distribution(domains, taxonomy.Tally(skills))
	c.Done()
	return c.Err()
}

// Validation prints a validation report: summary counts then one line per
// finding, errors before warnings.
func (c *Console) Validation(r *taxonomy.ValidationReport) error {
	s := r.Summary
	c.printf("📋 검증 요약\n")
	c.printf("   총 스킬 수: %d개\n", s.Total)
	c.printf("   도메인 수: %d개\n", s.Domains)
	c.printf("   knowledge: %d, skill: %d, competence: %d\n", s.Knowledge, s.Skill, s.Competence)
	c.printf("   고아 스킬: %d개, 잘못된 참조: %d개\n", s.Orphans, s.InvalidReferences)

	errs, warns := r.Errors(), r.Warnings()
	if len(errs) > 0 {
		c.printf("\n❌ 오류 (%d):\n", len(errs))
		for _, f := range errs {
			c.finding(f)
		}
	}
	if len(warns) > 0 {
		c.printf("\n⚠️  경고 (%d):\n", len(warns))
		for _, f := range warns {
			c.finding(f)
		}
	}
	if r.OK() {
		c.printf("\n✅ 검증 통과\n")
	} else {
		c.printf("\n❌ 검증 실패\n")
	}
	return c.Err()
}

func (c *Console) finding(f taxonomy.Finding) {
	if f.SkillID != "" {
		c.printf("   [%s] %s: %s\n", f.Check, f.SkillID, f.Message)
		return
	}
	c.printf("   [%s] %s\n", f.Check, f.Message)
}
