package taxonomy

// SkillType is the taxonomy tier of a record.
type SkillType string

// Taxonomy tiers.
const (
	SkillTypeKnowledge  SkillType = "knowledge"
	SkillTypeSkill      SkillType = "skill"
	SkillTypeCompetence SkillType = "competence"
)

// SkillTypes lists the tiers in emission order.
var SkillTypes = []SkillType{SkillTypeKnowledge, SkillTypeSkill, SkillTypeCompetence}

// Role is a target job role for a record.
type Role string

// Target roles.
const (
	RoleOperator  Role = "operator"
	RoleEngineer  Role = "engineer"
	RoleDeveloper Role = "developer"
)

// Roles lists every valid role.
var Roles = []Role{RoleOperator, RoleEngineer, RoleDeveloper}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleOperator, RoleEngineer, RoleDeveloper:
		return true
	}
	return false
}

// Proficiency bounds.
const (
	MinProficiency = 1
	MaxProficiency = 4
)

// Skill is one taxonomy record. Field order is the JSON output order.
type Skill struct {
	SkillID             string    `json:"skill_id"`
	Domain              string    `json:"domain"`
	DomainEN            string    `json:"domain_en"`
	ESCOURI             string    `json:"esco_uri"`
	PreferredLabelKO    string    `json:"preferred_label_ko"`
	PreferredLabelEN    string    `json:"preferred_label_en"`
	DescriptionKO       string    `json:"description_ko"`
	DescriptionEN       string    `json:"description_en"`
	SkillType           SkillType `json:"skill_type"`
	ProficiencyLevel    int       `json:"proficiency_level"`
	RoleMapping         []Role    `json:"role_mapping"`
	ParentSkillID       *string   `json:"parent_skill_id"`
	RelatedSkills       []string  `json:"related_skills"`
	ESCOBroader         *string   `json:"esco_broader"`
	SmartfactoryContext *string   `json:"smartfactory_context"`
}

// RecordInput carries everything NewSkill needs to build one record.
type RecordInput struct {
	Domain        *Domain
	Type          SkillType
	LabelKO       string
	LabelEN       string
	DescriptionKO string
	DescriptionEN string
	Proficiency   int
	Roles         []Role
	// ParentSkillID is empty when the record has no parent.
	ParentSkillID string
	// Context is empty when no provenance text applies.
	Context string
	// Index is the 1-based position of the record within its domain.
	Index int
}

// NewSkill builds a record from its input. Inputs are taken as given; an
// out-of-range proficiency or an empty role list is not rejected here (see
// CheckRecords).
func NewSkill(in RecordInput) Skill {
	roles := make([]Role, len(in.Roles))
	copy(roles, in.Roles)

	s := Skill{
		SkillID:          SkillID(in.Domain.Code, in.Index),
		Domain:           in.Domain.Key,
		DomainEN:         in.Domain.NameEN,
		ESCOURI:          ESCOURI(in.Domain.Code, in.Index),
		PreferredLabelKO: in.LabelKO,
		PreferredLabelEN: in.LabelEN,
		DescriptionKO:    in.DescriptionKO,
		DescriptionEN:    in.DescriptionEN,
		SkillType:        in.Type,
		ProficiencyLevel: in.Proficiency,
		RoleMapping:      roles,
		RelatedSkills:    []string{},
	}
	if in.ParentSkillID != "" {
		parent := in.ParentSkillID
		s.ParentSkillID = &parent
	}
	if in.Context != "" {
		ctx := in.Context
		s.SmartfactoryContext = &ctx
	}
	return s
}

// HasRole reports whether the record is mapped to r.
func (s Skill) HasRole(r Role) bool {
	for _, role := range s.RoleMapping {
		if role == r {
			return true
		}
	}
	return false
}

// Parent returns the parent skill ID, or "" when there is none.
func (s Skill) Parent() string {
	if s.ParentSkillID == nil {
		return ""
	}
	return *s.ParentSkillID
}
