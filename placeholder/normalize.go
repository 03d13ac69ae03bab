// Package placeholder rewrites Postman double-brace variables ({{name}}) into
// the single-brace form ({name}) used by Dynatrace synthetic monitors.
package placeholder

import (
	"regexp"
	"strings"
)

var doubleBraceToken = regexp.MustCompile(`\{\{(.*?)\}\}`)

// NormalizeString applies the three brace rewrites until the value stops
// changing. Every changing pass shortens the string, so the loop terminates.
func NormalizeString(value string) string {
	for {
		next := rewrite(value)
		if next == value {
			return next
		}
		value = next
	}
}

func rewrite(value string) string {
	value = strings.ReplaceAll(value, "{{", "{")
	value = strings.ReplaceAll(value, "}}", "}")
	return doubleBraceToken.ReplaceAllString(value, "{$1}")
}

// Normalize returns a copy of a decoded JSON tree with every string value
// normalized. Object keys are left as they are and the input is not modified.
func Normalize(tree any) any {
	switch node := tree.(type) {
	case string:
		return NormalizeString(node)
	case map[string]any:
		normalized := make(map[string]any, len(node))
		for key, value := range node {
			normalized[key] = Normalize(value)
		}
		return normalized
	case []any:
		normalized := make([]any, len(node))
		for i, value := range node {
			normalized[i] = Normalize(value)
		}
		return normalized
	default:
		return tree
	}
}
