package types

// ScriptReplacement rewrites one token of a Postman script into the Dynatrace
// synthetic script API. Literal rules match Pattern verbatim; regex rules are
// compiled and may reference capture groups in Replacement.
type ScriptReplacement struct {
	Pattern     string
	Replacement string
	IsRegex     bool
}
