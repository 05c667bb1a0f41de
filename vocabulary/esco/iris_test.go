package esco

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillTypeIRI(t *testing.T) {
	tests := []struct {
		tier string
		want string
	}{
		{"knowledge", SkillTypeKnowledge},
		{"skill", SkillTypeSkill},
		{"competence", SkillTypeSkill},
		{"", SkillTypeSkill},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			assert.Equal(t, tt.want, SkillTypeIRI(tt.tier))
		})
	}
}

func TestSchemeIRI(t *testing.T) {
	assert.Equal(t, SchemeNamespace+"collaborative-robot", SchemeIRI("collaborative-robot"))
}

func TestPrefixesAreNamespaces(t *testing.T) {
	for prefix, iri := range Prefixes() {
		if !strings.HasSuffix(iri, "#") && !strings.HasSuffix(iri, "/") {
			t.Errorf("prefix %s maps to %q, which does not end in # or /", prefix, iri)
		}
	}
}
