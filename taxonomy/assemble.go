package taxonomy

import "fmt"

// knowledgeRoles is the role set of every knowledge-tier record.
var knowledgeRoles = []Role{RoleEngineer, RoleDeveloper}

// maxSkillParent caps the knowledge position a skill template can point at.
const maxSkillParent = 5

// Assemble builds every record of the tables, domain by domain in table order
// and, within a domain, knowledge then skill then competence entries. The
// per-domain index starts at 1 and advances once per record.
func Assemble(t *Tables) []Skill {
	skills := make([]Skill, 0, t.RecordCount())
	for i := range t.Domains {
		skills = append(skills, AssembleDomain(&t.Domains[i])...)
	}
	return skills
}

// AssembleDomain builds the records of one domain.
func AssembleDomain(d *Domain) []Skill {
	skills := make([]Skill, 0, d.RecordCount())
	index := 1
	policy := d.Policy()

	for _, kn := range d.Knowledge {
		skills = append(skills, NewSkill(RecordInput{
			Domain:        d,
			Type:          SkillTypeKnowledge,
			LabelKO:       kn.LabelKO,
			LabelEN:       kn.LabelEN,
			DescriptionKO: kn.DescriptionKO,
			DescriptionEN: kn.DescriptionEN,
			Proficiency:   kn.Proficiency,
			Roles:         knowledgeRoles,
			Context:       fmt.Sprintf("%s의 이론적 기초", d.NameKO),
			Index:         index,
		}))
		index++
	}

	for i, tpl := range d.Skills {
		skills = append(skills, NewSkill(RecordInput{
			Domain:        d,
			Type:          SkillTypeSkill,
			LabelKO:       tpl.LabelKO,
			LabelEN:       tpl.LabelEN,
			DescriptionKO: tpl.DescriptionKO,
			DescriptionEN: tpl.DescriptionEN,
			Proficiency:   skillProficiency(i),
			Roles:         policy.RolesFor(i),
			ParentSkillID: skillParent(d, i),
			Context:       fmt.Sprintf("%s 현장에서 %s 역량 구현", d.NameKO, tpl.LabelKO),
			Index:         index,
		}))
		index++
	}

	for i, tpl := range d.Competences {
		skills = append(skills, NewSkill(RecordInput{
			Domain:        d,
			Type:          SkillTypeCompetence,
			LabelKO:       tpl.LabelKO,
			LabelEN:       tpl.LabelEN,
			DescriptionKO: tpl.DescriptionKO,
			DescriptionEN: tpl.DescriptionEN,
			Proficiency:   competenceProficiency(i),
			Roles:         competenceRoles(i),
			ParentSkillID: competenceParent(d, i),
			Context:       fmt.Sprintf("현장 검증: %s 수행 능력 입증", tpl.LabelKO),
			Index:         index,
		}))
		index++
	}

	return skills
}

// skillProficiency bands skill templates by position: 0-2 → 2, 3-6 → 3,
// 7 and up → 2 again. The drop back to 2 is long-standing output and kept.
func skillProficiency(i int) int {
	switch {
	case i < 3:
		return 2
	case i < 7:
		return 3
	default:
		return 2
	}
}

// competenceProficiency: the first four competences are level 3, the rest 4.
func competenceProficiency(i int) int {
	if i < 4 {
		return 3
	}
	return 4
}

// competenceRoles: the first three competences include operators.
func competenceRoles(i int) []Role {
	if i < 3 {
		return []Role{RoleOperator, RoleEngineer}
	}
	return []Role{RoleEngineer}
}

// skillParent points the i-th skill template at knowledge record i/2+1
// (capped at 5) while i is within the knowledge list; otherwise no parent.
// The link is positional and does not reflect a curated relation.
func skillParent(d *Domain, i int) string {
	if i >= len(d.Knowledge) {
		return ""
	}
	return SkillID(d.Code, min(i/2+1, maxSkillParent))
}

// competenceParent points the i-th competence at skill-tier record i/2,
// counted after the knowledge records. It is always set.
func competenceParent(d *Domain, i int) string {
	return SkillID(d.Code, len(d.Knowledge)+i/2+1)
}
