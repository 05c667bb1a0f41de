package export

import (
	"fmt"
	"path/filepath"

	"github.com/c360studio/rsfgen/output"
	"github.com/c360studio/rsfgen/taxonomy"
	"github.com/c360studio/rsfgen/vocabulary/esco"
)

const rdfType = esco.RDFType

// IRI marks a triple object as a resource reference rather than a literal.
type IRI string

// LangString is a language-tagged literal.
type LangString struct {
	Value string
	Lang  string
}

// Triple is one predicate-object pair of a resource.
type Triple struct {
	Predicate string
	Object    any
}

// Resource is an exportable subject with its types and triples.
type Resource struct {
	IRI     string
	Types   []string
	Triples []Triple
}

// SKOSExporter exports the taxonomy as SKOS concepts grouped into one
// concept scheme per domain.
type SKOSExporter struct {
	profile   Profile
	types     *TypeAsserter
	resources []Resource
	prefixes  map[string]string
}

// NewSKOSExporter creates a new exporter with the specified profile.
func NewSKOSExporter(profile Profile) *SKOSExporter {
	return &SKOSExporter{
		profile:   profile,
		types:     NewTypeAsserter(profile),
		resources: make([]Resource, 0),
		prefixes:  esco.Prefixes(),
	}
}

// Profile returns the exporter's profile.
func (e *SKOSExporter) Profile() Profile {
	return e.profile
}

// AddResource adds a resource to be exported.
func (e *SKOSExporter) AddResource(r Resource) {
	e.resources = append(e.resources, r)
}

// Resources returns the resources added so far, in order.
func (e *SKOSExporter) Resources() []Resource {
	return e.resources
}

// AddSkills adds a concept scheme for every domain that has records, then one
// concept per record in record order. Parent and related links are emitted
// only when the target record is part of skills.
func (e *SKOSExporter) AddSkills(domains []taxonomy.Domain, skills []taxonomy.Skill) {
	uris := make(map[string]string, len(skills))
	used := make(map[string]bool)
	for _, s := range skills {
		uris[s.SkillID] = s.ESCOURI
		used[s.Domain] = true
	}

	for _, d := range domains {
		if !used[d.Key] {
			continue
		}
		e.AddResource(e.schemeResource(d))
	}
	for _, s := range skills {
		e.AddResource(e.conceptResource(s, uris))
	}
}

func (e *SKOSExporter) schemeResource(d taxonomy.Domain) Resource {
	return Resource{
		IRI:   esco.SchemeIRI(d.Key),
		Types: e.types.SchemeTypes(),
		Triples: []Triple{
			{Predicate: esco.Notation, Object: d.Code},
			{Predicate: esco.PrefLabel, Object: LangString{Value: d.NameKO, Lang: "ko"}},
			{Predicate: esco.PrefLabel, Object: LangString{Value: d.NameEN, Lang: "en"}},
		},
	}
}

func (e *SKOSExporter) conceptResource(s taxonomy.Skill, uris map[string]string) Resource {
	triples := []Triple{
		{Predicate: esco.Notation, Object: s.SkillID},
		{Predicate: esco.PrefLabel, Object: LangString{Value: s.PreferredLabelKO, Lang: "ko"}},
		{Predicate: esco.PrefLabel, Object: LangString{Value: s.PreferredLabelEN, Lang: "en"}},
		{Predicate: esco.Definition, Object: LangString{Value: s.DescriptionKO, Lang: "ko"}},
		{Predicate: esco.Definition, Object: LangString{Value: s.DescriptionEN, Lang: "en"}},
		{Predicate: esco.InScheme, Object: IRI(esco.SchemeIRI(s.Domain))},
	}

	if uri, ok := uris[s.Parent()]; ok {
		triples = append(triples, Triple{Predicate: esco.Broader, Object: IRI(uri)})
	}
	if s.ESCOBroader != nil && *s.ESCOBroader != "" {
		triples = append(triples, Triple{Predicate: esco.Broader, Object: IRI(*s.ESCOBroader)})
	}
	for _, rel := range s.RelatedSkills {
		if uri, ok := uris[rel]; ok {
			triples = append(triples, Triple{Predicate: esco.Related, Object: IRI(uri)})
		}
	}

	if st := e.types.SkillTypeIRI(string(s.SkillType)); st != "" {
		triples = append(triples, Triple{Predicate: esco.SkillType, Object: IRI(st)})
	}
	triples = append(triples,
		Triple{Predicate: esco.SkillTier, Object: string(s.SkillType)},
		Triple{Predicate: esco.ProficiencyLevel, Object: s.ProficiencyLevel},
	)
	for _, r := range s.RoleMapping {
		triples = append(triples, Triple{Predicate: esco.Role, Object: string(r)})
	}
	if s.SmartfactoryContext != nil {
		triples = append(triples, Triple{Predicate: esco.Comment, Object: LangString{Value: *s.SmartfactoryContext, Lang: "ko"}})
	}
	triples = append(triples, Triple{Predicate: esco.Identifier, Object: "urn:uuid:" + taxonomy.SkillUUID(s).String()})

	return Resource{
		IRI:     s.ESCOURI,
		Types:   e.types.ConceptTypes(),
		Triples: triples,
	}
}

// Export serializes all resources to the specified format.
func (e *SKOSExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		data, err := e.toJSONLD()
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFiles exports every format into dir as <base><ext> and returns the
// written paths.
func (e *SKOSExporter) WriteFiles(dir, base string, formats []Format) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		info, ok := GetFormatInfo(f)
		if !ok {
			return paths, fmt.Errorf("unsupported format: %s", f)
		}
		data, err := e.Export(f)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, base+info.Extension)
		if err := output.WriteFile(path, []byte(data)); err != nil {
			return paths, fmt.Errorf("write %s export: %w", f, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// toTurtle serializes to Turtle format.
func (e *SKOSExporter) toTurtle() string {
	w := NewTurtleWriter(e.prefixes)
	w.WritePrefixes()
	for i, r := range e.resources {
		if i > 0 {
			w.WriteBlank()
		}
		w.WriteResource(r)
	}
	return w.String()
}

// toNTriples serializes to N-Triples format.
func (e *SKOSExporter) toNTriples() string {
	w := NewNTriplesWriter()
	for _, r := range e.resources {
		w.WriteResource(r)
	}
	return w.String()
}

// toJSONLD serializes to JSON-LD format.
func (e *SKOSExporter) toJSONLD() ([]byte, error) {
	w := NewJSONLDWriter()
	w.SetContext(e.prefixes)
	for _, r := range e.resources {
		w.AddResource(r)
	}
	return w.Bytes()
}
