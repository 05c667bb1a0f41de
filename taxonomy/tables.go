package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultTablesName names the embedded source tables in logs and reports.
const DefaultTablesName = "robot-smartfactory.yaml"

//go:embed data/robot-smartfactory.yaml
var embeddedTables []byte

// templateArity is the number of fields in a skill or competence template.
const templateArity = 4

// ErrMalformedTemplate is returned when a template is not a tuple of four strings.
var ErrMalformedTemplate = errors.New("malformed template")

var domainCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Tables holds the source tables the taxonomy is assembled from.
type Tables struct {
	Domains []Domain `yaml:"domains"`
}

// Domain is one subject area and its per-tier source entries.
type Domain struct {
	Key    string `yaml:"key"`
	Code   string `yaml:"code"`
	NameKO string `yaml:"name_ko"`
	NameEN string `yaml:"name_en"`
	// TargetCount is the planned record count. Only the validator reads it.
	TargetCount int         `yaml:"target_count"`
	RolePolicy  *RolePolicy `yaml:"role_policy,omitempty"`

	Knowledge   []KnowledgeEntry `yaml:"knowledge"`
	Skills      []Template       `yaml:"skills"`
	Competences []Template       `yaml:"competences"`
}

// KnowledgeEntry is a knowledge-tier source entry.
type KnowledgeEntry struct {
	LabelKO       string `yaml:"label_ko"`
	LabelEN       string `yaml:"label_en"`
	DescriptionKO string `yaml:"description_ko"`
	DescriptionEN string `yaml:"description_en"`
	Proficiency   int    `yaml:"proficiency"`
}

// Template is a skill- or competence-tier source entry, written in the data
// file as a [label_ko, label_en, description_ko, description_en] tuple.
type Template struct {
	LabelKO       string
	LabelEN       string
	DescriptionKO string
	DescriptionEN string
}

// UnmarshalYAML decodes a template tuple, rejecting any other arity.
func (t *Template) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != templateArity {
		return fmt.Errorf("%w at line %d: want a sequence of %d strings", ErrMalformedTemplate, node.Line, templateArity)
	}
	var fields []string
	if err := node.Decode(&fields); err != nil {
		return fmt.Errorf("%w at line %d: %v", ErrMalformedTemplate, node.Line, err)
	}
	t.LabelKO, t.LabelEN, t.DescriptionKO, t.DescriptionEN = fields[0], fields[1], fields[2], fields[3]
	return nil
}

// MarshalYAML writes a template back as a tuple.
func (t Template) MarshalYAML() (any, error) {
	return []string{t.LabelKO, t.LabelEN, t.DescriptionKO, t.DescriptionEN}, nil
}

// RolePolicy decides the roles of skill-tier records by position: the first
// BroadCount templates get Broad, the rest get Narrow. A negative BroadCount
// gives every template the Broad set.
type RolePolicy struct {
	Broad      []Role `yaml:"broad"`
	Narrow     []Role `yaml:"narrow"`
	BroadCount *int   `yaml:"broad_count"`
}

// DefaultBroadCount is the broad-role cutoff for domains without a policy.
const DefaultBroadCount = 5

// DefaultRolePolicy returns the policy used when a domain does not set one.
func DefaultRolePolicy() RolePolicy {
	n := DefaultBroadCount
	return RolePolicy{
		Broad:      []Role{RoleOperator, RoleEngineer},
		Narrow:     []Role{RoleEngineer},
		BroadCount: &n,
	}
}

// RolesFor returns the role set for the i-th (0-based) skill template.
func (p RolePolicy) RolesFor(i int) []Role {
	n := DefaultBroadCount
	if p.BroadCount != nil {
		n = *p.BroadCount
	}
	if n < 0 || i < n {
		return p.Broad
	}
	return p.Narrow
}

// Policy returns the domain's role policy with unset fields defaulted.
func (d *Domain) Policy() RolePolicy {
	p := DefaultRolePolicy()
	if d.RolePolicy == nil {
		return p
	}
	if len(d.RolePolicy.Broad) > 0 {
		p.Broad = d.RolePolicy.Broad
	}
	if len(d.RolePolicy.Narrow) > 0 {
		p.Narrow = d.RolePolicy.Narrow
	}
	if d.RolePolicy.BroadCount != nil {
		p.BroadCount = d.RolePolicy.BroadCount
	}
	return p
}

// RecordCount is the number of records the domain contributes.
func (d *Domain) RecordCount() int {
	return len(d.Knowledge) + len(d.Skills) + len(d.Competences)
}

// DefaultTables parses the tables embedded in the binary.
func DefaultTables() (*Tables, error) {
	return ParseTables(embeddedTables)
}

// EmbeddedTables returns a copy of the raw embedded data file.
func EmbeddedTables() []byte {
	out := make([]byte, len(embeddedTables))
	copy(out, embeddedTables)
	return out
}

// LoadTablesFile reads tables from a YAML file on disk.
func LoadTablesFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}
	return ParseTables(data)
}

// LoadTables reads tables from path, or the embedded tables when path is empty.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	return LoadTablesFile(path)
}

// ParseTables decodes and structurally checks YAML source tables.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the structure the assembler relies on: every domain has a
// key and a three-letter code, and neither repeats. Record-level values such
// as proficiency are not checked here.
func (t *Tables) Validate() error {
	if len(t.Domains) == 0 {
		return fmt.Errorf("tables define no domains")
	}
	keys := make(map[string]bool, len(t.Domains))
	codes := make(map[string]bool, len(t.Domains))
	for i, d := range t.Domains {
		if d.Key == "" {
			return fmt.Errorf("domain %d: key is required", i)
		}
		if !domainCodePattern.MatchString(d.Code) {
			return fmt.Errorf("domain %s: code %q must be three uppercase letters", d.Key, d.Code)
		}
		if keys[d.Key] {
			return fmt.Errorf("domain %s: duplicate key", d.Key)
		}
		if codes[d.Code] {
			return fmt.Errorf("domain %s: duplicate code %s", d.Key, d.Code)
		}
		keys[d.Key] = true
		codes[d.Code] = true
	}
	return nil
}

// Domain returns the domain with the given key.
func (t *Tables) Domain(key string) (*Domain, bool) {
	for i := range t.Domains {
		if t.Domains[i].Key == key {
			return &t.Domains[i], true
		}
	}
	return nil, false
}

// DomainByCode returns the domain with the given three-letter code.
func (t *Tables) DomainByCode(code string) (*Domain, bool) {
	for i := range t.Domains {
		if t.Domains[i].Code == code {
			return &t.Domains[i], true
		}
	}
	return nil, false
}

// RecordCount is the total number of records the tables produce.
func (t *Tables) RecordCount() int {
	n := 0
	for i := range t.Domains {
		n += t.Domains[i].RecordCount()
	}
	return n
}

// Filter returns tables restricted to domains whose key or lower-cased code
// matches any of the glob patterns (doublestar syntax). No patterns keeps
// every domain. Domain order is preserved and identifiers are unaffected
// because numbering is per domain.
func (t *Tables) Filter(patterns []string) (*Tables, error) {
	if len(patterns) == 0 {
		return t, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid domain pattern %q", p)
		}
	}

	out := &Tables{}
	for _, d := range t.Domains {
		for _, p := range patterns {
			if matchDomain(p, d) {
				out.Domains = append(out.Domains, d)
				break
			}
		}
	}
	if len(out.Domains) == 0 {
		return nil, fmt.Errorf("no domain matches %s", strings.Join(patterns, ", "))
	}
	return out, nil
}

func matchDomain(pattern string, d Domain) bool {
	if ok, _ := doublestar.Match(pattern, d.Key); ok {
		return true
	}
	ok, _ := doublestar.Match(strings.ToLower(pattern), strings.ToLower(d.Code))
	return ok
}
