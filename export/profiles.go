// Package export serializes the skill taxonomy as SKOS concept schemes in
// Turtle, N-Triples or JSON-LD, optionally aligned with the ESCO model.
package export

import (
	"fmt"

	"github.com/c360studio/rsfgen/vocabulary/esco"
)

// Profile determines which ontology type assertions are included in the export.
type Profile string

const (
	// ProfileMinimal includes only SKOS and Dublin Core terms.
	ProfileMinimal Profile = "minimal"

	// ProfileESCO adds esco:Skill typing and esco:skillType links.
	ProfileESCO Profile = "esco"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// IncludeESCO indicates whether to include ESCO type assertions and skill types.
	IncludeESCO bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileMinimal: {
		Name:        ProfileMinimal,
		Description: "SKOS concepts and Dublin Core identifiers only",
		IncludeESCO: false,
	},
	ProfileESCO: {
		Name:        ProfileESCO,
		Description: "SKOS plus ESCO skill typing",
		IncludeESCO: true,
	},
}

// ParseProfile resolves a profile name. The empty string selects the ESCO profile.
func ParseProfile(name string) (Profile, error) {
	if name == "" {
		return ProfileESCO, nil
	}
	if _, ok := Profiles[Profile(name)]; !ok {
		return "", fmt.Errorf("unknown profile %q (want minimal or esco)", name)
	}
	return Profile(name), nil
}

// GetProfileConfig returns the configuration for a profile.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileMinimal]
}

// TypeAsserter generates type assertions for exported resources based on profile.
type TypeAsserter struct {
	profile ProfileConfig
}

// NewTypeAsserter creates a new type asserter for the given profile.
func NewTypeAsserter(profile Profile) *TypeAsserter {
	return &TypeAsserter{
		profile: GetProfileConfig(profile),
	}
}

// ConceptTypes returns the rdf:type IRIs of a skill concept.
func (t *TypeAsserter) ConceptTypes() []string {
	types := []string{esco.ClassConcept}
	if t.profile.IncludeESCO {
		types = append(types, esco.ClassSkill)
	}
	return types
}

// SchemeTypes returns the rdf:type IRIs of a domain concept scheme.
func (t *TypeAsserter) SchemeTypes() []string {
	return []string{esco.ClassConceptScheme}
}

// SkillTypeIRI returns the esco:skillType object for a tier, or "" when the
// profile carries no ESCO typing.
func (t *TypeAsserter) SkillTypeIRI(tier string) string {
	if !t.profile.IncludeESCO {
		return ""
	}
	return esco.SkillTypeIRI(tier)
}
