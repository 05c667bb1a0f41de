package taxonomy

import (
	"errors"
	"fmt"
)

// CheckRecords rejects records that must not be written: malformed or
// duplicate IDs, proficiency outside 1..4, and empty or unknown roles.
// All problems are returned joined. Parent links are not checked.
func CheckRecords(skills []Skill) error {
	var errs []error
	seen := make(map[string]bool, len(skills))

	for _, s := range skills {
		if !IsSkillID(s.SkillID) {
			errs = append(errs, fmt.Errorf("%q: malformed skill ID", s.SkillID))
		} else if seen[s.SkillID] {
			errs = append(errs, fmt.Errorf("%s: duplicate skill ID", s.SkillID))
		}
		seen[s.SkillID] = true

		if s.ProficiencyLevel < MinProficiency || s.ProficiencyLevel > MaxProficiency {
			errs = append(errs, fmt.Errorf("%s: proficiency %d outside %d..%d",
				s.SkillID, s.ProficiencyLevel, MinProficiency, MaxProficiency))
		}
		if len(s.RoleMapping) == 0 {
			errs = append(errs, fmt.Errorf("%s: empty role mapping", s.SkillID))
		}
		for _, r := range s.RoleMapping {
			if !r.IsValid() {
				errs = append(errs, fmt.Errorf("%s: unknown role %q", s.SkillID, r))
			}
		}
	}
	return errors.Join(errs...)
}
