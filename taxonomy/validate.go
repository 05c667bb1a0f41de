package taxonomy

import (
	"fmt"
	"strings"

	"github.com/c360studio/rsfgen/vocabulary/esco"
)

// MinTotalSkills is the record count below which the validator warns.
const MinTotalSkills = 120

// Severity grades a validation finding.
type Severity string

// Finding severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Validation check names.
const (
	CheckTotal        = "total"
	CheckDomains      = "domains"
	CheckDomainTarget = "domain_target"
	CheckSkillTypes   = "skill_types"
	CheckRoles        = "roles"
	CheckOrphans      = "orphans"
	CheckRelated      = "related_skills"
	CheckProficiency  = "proficiency"
	CheckFields       = "fields"
	CheckESCOURI      = "esco_uri"
)

// Finding is one validation result.
type Finding struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	SkillID  string   `json:"skill_id,omitempty"`
	Message  string   `json:"message"`
}

// Summary holds the headline numbers of a validation run.
type Summary struct {
	Total             int `json:"total"`
	Domains           int `json:"domains"`
	Knowledge         int `json:"knowledge"`
	Skill             int `json:"skill"`
	Competence        int `json:"competence"`
	Orphans           int `json:"orphans"`
	InvalidReferences int `json:"invalid_references"`
}

// ValidationReport is the outcome of Validate.
type ValidationReport struct {
	Findings []Finding `json:"findings"`
	Summary  Summary   `json:"summary"`
	Stats    Stats     `json:"-"`
}

// Errors returns the error findings.
func (r *ValidationReport) Errors() []Finding { return r.filter(SeverityError) }

// Warnings returns the warning findings.
func (r *ValidationReport) Warnings() []Finding { return r.filter(SeverityWarning) }

// OK reports whether the run produced no errors. Warnings do not count.
func (r *ValidationReport) OK() bool { return len(r.Errors()) == 0 }

func (r *ValidationReport) filter(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

func (r *ValidationReport) add(check string, sev Severity, skillID, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Check:    check,
		Severity: sev,
		SkillID:  skillID,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Validate inspects a generated record set against the tables it came from.
// It reports coverage gaps, orphan parents and dangling related_skills, and
// never modifies the records.
func Validate(skills []Skill, t *Tables) *ValidationReport {
	st := Tally(skills)
	r := &ValidationReport{Stats: st}

	if st.Total < MinTotalSkills {
		r.add(CheckTotal, SeverityWarning, "", "%d skills, %d short of %d", st.Total, MinTotalSkills-st.Total, MinTotalSkills)
	}

	var missingDomains []string
	for _, d := range t.Domains {
		count := st.ByDomain[d.Key]
		if count == 0 {
			missingDomains = append(missingDomains, d.Key)
			continue
		}
		if d.TargetCount > 0 && count != d.TargetCount {
			r.add(CheckDomainTarget, SeverityWarning, "", "%s has %d skills, target %d", d.Key, count, d.TargetCount)
		}
	}
	if len(missingDomains) > 0 {
		r.add(CheckDomains, SeverityError, "", "missing domains: %s", strings.Join(missingDomains, ", "))
	}

	var missingTypes []string
	for _, typ := range SkillTypes {
		if st.ByType[typ] == 0 {
			missingTypes = append(missingTypes, string(typ))
		}
	}
	if len(missingTypes) > 0 {
		r.add(CheckSkillTypes, SeverityError, "", "missing skill types: %s", strings.Join(missingTypes, ", "))
	}

	var missingRoles []string
	for _, role := range Roles {
		if st.ByRole[role] == 0 {
			missingRoles = append(missingRoles, string(role))
		}
	}
	if len(missingRoles) > 0 {
		r.add(CheckRoles, SeverityError, "", "uncovered roles: %s", strings.Join(missingRoles, ", "))
	}

	ids := make(map[string]bool, len(skills))
	for _, s := range skills {
		ids[s.SkillID] = true
	}

	for _, s := range skills {
		if p := s.Parent(); p != "" && !ids[p] {
			r.Summary.Orphans++
			r.add(CheckOrphans, SeverityWarning, s.SkillID, "parent %s does not exist", p)
		}
		for _, rel := range s.RelatedSkills {
			if !ids[rel] {
				r.Summary.InvalidReferences++
				r.add(CheckRelated, SeverityWarning, s.SkillID, "related skill %s does not exist", rel)
			}
		}
		for _, field := range missingFields(s) {
			r.add(CheckFields, SeverityError, s.SkillID, "required field %s is empty", field)
		}
		if s.ESCOURI != "" && !strings.HasPrefix(s.ESCOURI, esco.SkillNamespace) {
			r.add(CheckESCOURI, SeverityError, s.SkillID, "esco_uri %s is outside %s", s.ESCOURI, esco.SkillNamespace)
		}
	}

	var missingLevels []string
	for level := MinProficiency; level <= MaxProficiency; level++ {
		if st.ByProficiency[level] == 0 {
			missingLevels = append(missingLevels, fmt.Sprint(level))
		}
	}
	if len(missingLevels) > 0 {
		r.add(CheckProficiency, SeverityWarning, "", "unrepresented proficiency levels: %s", strings.Join(missingLevels, ", "))
	}

	r.Summary.Total = st.Total
	r.Summary.Domains = len(st.ByDomain)
	r.Summary.Knowledge = st.ByType[SkillTypeKnowledge]
	r.Summary.Skill = st.ByType[SkillTypeSkill]
	r.Summary.Competence = st.ByType[SkillTypeCompetence]
	return r
}

func missingFields(s Skill) []string {
	var out []string
	check := func(name string, empty bool) {
		if empty {
			out = append(out, name)
		}
	}
	check("skill_id", s.SkillID == "")
	check("domain", s.Domain == "")
	check("esco_uri", s.ESCOURI == "")
	check("preferred_label_ko", s.PreferredLabelKO == "")
	check("preferred_label_en", s.PreferredLabelEN == "")
	check("skill_type", s.SkillType == "")
	check("proficiency_level", s.ProficiencyLevel == 0)
	check("role_mapping", len(s.RoleMapping) == 0)
	return out
}
