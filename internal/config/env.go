package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

// envPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)

// ExpandEnv replaces environment references in s:
//
//   - ${VAR} expands to VAR, or "" when unset
//   - ${VAR:-default} expands to VAR, or default when unset or empty
//   - ${VAR:?message} fails when VAR is unset or empty
//
// Bare $VAR is left alone so that passwords may contain dollar signs.
func ExpandEnv(s string) (string, error) {
	var missing []string
	out := envPattern.ReplaceAllStringFunc(s, func(match string) string {
		inner := match[2 : len(match)-1]
		name, modifier, _ := strings.Cut(inner, ":")
		value, ok := os.LookupEnv(name)

		switch {
		case strings.HasPrefix(modifier, "-"):
			if !ok || value == "" {
				return modifier[1:]
			}
		case strings.HasPrefix(modifier, "?"):
			if !ok || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, modifier[1:]))
				return match
			}
		}
		return value
	})
	if len(missing) > 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "missing environment variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
