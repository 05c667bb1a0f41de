// Package esco provides the IRI vocabulary used to publish the robot/smart-factory
// skill taxonomy as linked data.
//
// The taxonomy is aligned with ESCO (European Skills, Competences, Qualifications
// and Occupations) and expressed with SKOS:
//   - Each domain is a skos:ConceptScheme
//   - Each skill record is a skos:Concept (and esco:Skill in the esco profile)
//   - parent_skill_id becomes skos:broader
//   - Korean and English labels become language-tagged literals
//
// # Skill Types
//
// ESCO distinguishes two skill-type concepts. The three taxonomy tiers map to them:
//
//	Tier        → ESCO skill type
//	knowledge   → skill-type/knowledge
//	skill       → skill-type/skill
//	competence  → skill-type/skill
//
// The original tier is kept with the rsf:skillTier predicate.
package esco
