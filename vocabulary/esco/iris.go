package esco

// ESCO namespaces.
const (
	// Namespace is the base IRI of the ESCO model vocabulary.
	Namespace = "http://data.europa.eu/esco/model#"

	// SkillNamespace is the base IRI of ESCO skill concepts. Taxonomy records
	// mint their esco_uri under this namespace.
	SkillNamespace = "http://data.europa.eu/esco/skill/"

	// SkillTypeNamespace is the base IRI of the ESCO skill-type concept scheme.
	SkillTypeNamespace = "http://data.europa.eu/esco/skill-type/"
)

// RSFNamespace is the base IRI for terms ESCO has no equivalent for.
const RSFNamespace = "https://escon.dev/ontology/rsf#"

// SchemeNamespace is the base IRI for per-domain concept schemes.
const SchemeNamespace = "https://escon.dev/scheme/rsf/"

// Standard ontology namespaces.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
	SKOS = "http://www.w3.org/2004/02/skos/core#"
	DC   = "http://purl.org/dc/terms/"
)

// Class IRIs.
const (
	// ClassConcept is skos:Concept.
	ClassConcept = SKOS + "Concept"

	// ClassConceptScheme is skos:ConceptScheme.
	ClassConceptScheme = SKOS + "ConceptScheme"

	// ClassSkill is esco:Skill.
	ClassSkill = Namespace + "Skill"
)

// Predicate IRIs.
const (
	RDFType = RDF + "type"

	PrefLabel  = SKOS + "prefLabel"
	Definition = SKOS + "definition"
	Notation   = SKOS + "notation"
	InScheme   = SKOS + "inScheme"
	Broader    = SKOS + "broader"
	Related    = SKOS + "related"

	Identifier = DC + "identifier"
	Source     = DC + "source"

	// SkillType links a concept to its ESCO skill-type concept.
	SkillType = Namespace + "skillType"

	// SkillTier keeps the knowledge/skill/competence tier as a literal.
	SkillTier = RSFNamespace + "skillTier"

	// ProficiencyLevel is the required mastery depth, 1 to 4.
	ProficiencyLevel = RSFNamespace + "proficiencyLevel"

	// Role is one target role (operator, engineer, developer) per triple.
	Role = RSFNamespace + "role"
)

// Skill-type concept IRIs.
const (
	SkillTypeKnowledge = SkillTypeNamespace + "knowledge"
	SkillTypeSkill     = SkillTypeNamespace + "skill"
)

// SkillTypeIRI maps a taxonomy tier to its ESCO skill-type concept.
// Unknown tiers map to the skill concept.
func SkillTypeIRI(tier string) string {
	if tier == "knowledge" {
		return SkillTypeKnowledge
	}
	return SkillTypeSkill
}

// SchemeIRI returns the concept scheme IRI of a domain key.
func SchemeIRI(domainKey string) string {
	return SchemeNamespace + domainKey
}

// Prefixes returns the namespace prefixes used in serialized output.
func Prefixes() map[string]string {
	return map[string]string{
		"rdf":  RDF,
		"rdfs": RDFS,
		"xsd":  XSD,
		"skos": SKOS,
		"dc":   DC,
		"esco": Namespace,
		"rsf":  RSFNamespace,
	}
}

// Comment is rdfs:comment, used for the smart-factory context note.
const Comment = RDFS + "comment"
