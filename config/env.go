package config

import (
	"os"
	"regexp"
	"strings"
)

// envRef matches ${VAR} and ${VAR:-default}. Bare $VAR is not a reference,
// so literal dollar signs (passwords in DSNs) pass through unchanged.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// ExpandEnvWithDefaults expands ${VAR} and ${VAR:-default} in s.
// A variable that is unset or empty takes its default, or "" without one.
func ExpandEnvWithDefaults(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		m := envRef.FindStringSubmatch(ref)
		if v := os.Getenv(m[1]); v != "" {
			return v
		}
		return strings.TrimPrefix(m[2], ":-")
	})
}
