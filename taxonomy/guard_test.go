package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckRecords(t *testing.T) {
	valid := func() Skill {
		return Skill{
			SkillID:          "RSF-IRC-001",
			ProficiencyLevel: 2,
			RoleMapping:      []Role{RoleEngineer},
		}
	}

	tests := []struct {
		name    string
		modify  func([]Skill) []Skill
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(s []Skill) []Skill { return s },
		},
		{
			name: "malformed id",
			modify: func(s []Skill) []Skill {
				s[0].SkillID = "IRC-1"
				return s
			},
			wantErr: "malformed skill ID",
		},
		{
			name: "duplicate id",
			modify: func(s []Skill) []Skill {
				return append(s, s[0])
			},
			wantErr: "duplicate skill ID",
		},
		{
			name: "proficiency too low",
			modify: func(s []Skill) []Skill {
				s[0].ProficiencyLevel = 0
				return s
			},
			wantErr: "proficiency 0",
		},
		{
			name: "proficiency too high",
			modify: func(s []Skill) []Skill {
				s[0].ProficiencyLevel = 5
				return s
			},
			wantErr: "proficiency 5",
		},
		{
			name: "empty roles",
			modify: func(s []Skill) []Skill {
				s[0].RoleMapping = nil
				return s
			},
			wantErr: "empty role mapping",
		},
		{
			name: "unknown role",
			modify: func(s []Skill) []Skill {
				s[0].RoleMapping = []Role{"manager"}
				return s
			},
			wantErr: `unknown role "manager"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRecords(tt.modify([]Skill{valid()}))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCheckRecordsJoinsErrors(t *testing.T) {
	err := CheckRecords([]Skill{
		{SkillID: "RSF-IRC-001", ProficiencyLevel: 7},
	})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "proficiency 7")
		assert.Contains(t, err.Error(), "empty role mapping")
	}
}
