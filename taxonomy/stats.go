package taxonomy

import "sort"

// Stats tallies a record set. A record counts once in ByRole for every role
// it carries, so role totals can exceed Total.
type Stats struct {
	Total         int
	ByDomain      map[string]int
	ByType        map[SkillType]int
	ByRole        map[Role]int
	ByProficiency map[int]int
}

// Tally counts records by domain, tier, role and proficiency level.
func Tally(skills []Skill) Stats {
	st := Stats{
		Total:         len(skills),
		ByDomain:      make(map[string]int),
		ByType:        make(map[SkillType]int),
		ByRole:        make(map[Role]int),
		ByProficiency: make(map[int]int),
	}
	for _, s := range skills {
		st.ByDomain[s.Domain]++
		st.ByType[s.SkillType]++
		st.ByProficiency[s.ProficiencyLevel]++
		for _, r := range s.RoleMapping {
			st.ByRole[r]++
		}
	}
	return st
}

// SortedTypes returns the tallied tiers in lexical order.
func (st Stats) SortedTypes() []SkillType {
	out := make([]SkillType, 0, len(st.ByType))
	for t := range st.ByType {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedRoles returns the tallied roles in lexical order.
func (st Stats) SortedRoles() []Role {
	out := make([]Role, 0, len(st.ByRole))
	for r := range st.ByRole {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedLevels returns the tallied proficiency levels in ascending order.
func (st Stats) SortedLevels() []int {
	out := make([]int, 0, len(st.ByProficiency))
	for l := range st.ByProficiency {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}
