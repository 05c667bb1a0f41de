package taxonomy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/c360studio/rsfgen/vocabulary/esco"
	"github.com/google/uuid"
)

// SkillIDPrefix prefixes every skill identifier.
const SkillIDPrefix = "RSF"

var skillIDPattern = regexp.MustCompile(`^RSF-([A-Z]{3})-(\d{3,})$`)

// SkillID returns the identifier of the index-th record of a domain:
// RSF-<code>-<index zero-padded to 3 digits>. The index is not range-checked.
func SkillID(code string, index int) string {
	return fmt.Sprintf("%s-%s-%03d", SkillIDPrefix, code, index)
}

// ESCOURI returns the ESCO-shaped URI of the index-th record of a domain.
func ESCOURI(code string, index int) string {
	return fmt.Sprintf("%srsf-%s-%04d", esco.SkillNamespace, strings.ToLower(code), index)
}

// ParseSkillID splits an identifier into its domain code and index.
func ParseSkillID(id string) (code string, index int, err error) {
	m := skillIDPattern.FindStringSubmatch(id)
	if m == nil {
		return "", 0, fmt.Errorf("invalid skill ID format: %q", id)
	}
	index, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, fmt.Errorf("invalid skill ID index %q: %w", id, err)
	}
	return m[1], index, nil
}

// IsSkillID reports whether id has the RSF-<CODE>-<NNN> shape.
func IsSkillID(id string) bool {
	return skillIDPattern.MatchString(id)
}

// SkillUUID returns a name-based (v5) UUID derived from the record's esco_uri.
// It is stable across runs and used as a storage key and dc:identifier.
func SkillUUID(s Skill) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(s.ESCOURI))
}
