// Package script translates Postman pre-request and test scripts into the
// Dynatrace synthetic monitor script API.
package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dop251/goja"

	"github.com/dtsynthetic/postman-dynatrace-converter/types"
)

// Bootstrap lines prepended to every translated test script. Test scripts
// read the response through jsonData, which Postman exposed implicitly.
var TestBootstrapLines = []string{
	"var responseBody = response.getResponseBody();",
	"var jsonData = JSON.parse(responseBody);",
}

// DefaultReplacements is applied in order to every script line. No pattern is
// a substring of another, so a rewritten token is never matched twice.
var DefaultReplacements = []types.ScriptReplacement{
	{Pattern: "pm.response.json", Replacement: "jsonData"},
	{Pattern: "pm.environment.set", Replacement: "api.setValue"},
	{Pattern: "pm.collectionVariables.set", Replacement: "api.setValue"},
	{Pattern: "pm.collectionVariables.get", Replacement: "api.getValue"},
	{Pattern: "pm.globals.set", Replacement: "api.setGlobal"},
	{Pattern: "pm.globals.get", Replacement: "api.getGlobal"},
	{Pattern: "console.log", Replacement: "api.info"},
	{Pattern: "console.warn", Replacement: "api.warn"},
	{Pattern: "console.error", Replacement: "api.error"},
	{Pattern: "pm.test", Replacement: "api.createSyntheticTest"},
	{Pattern: "pm.response.code", Replacement: "api.getResponseCode()"},
	{Pattern: "pm.response.status", Replacement: "api.getResponseStatus()"},
	{Pattern: "pm.expect", Replacement: "api.setExpectation"},
	{Pattern: "pm.preRequest", Replacement: "api.preExecute()"},
	{Pattern: "pm.response.text", Replacement: "response.getResponseBody"},
	{Pattern: "postman.getResponseHeader", Replacement: "response.getHeader"},
	{Pattern: "postman.setEnvironmentVariable", Replacement: "api.setValue"},
}

type ITranslator interface {
	TranslateScript(lines []string, isTestEvent bool) string
	Validate(name string, source string) error
}

type Translator struct {
	rules []rule
}

type rule struct {
	literal     string
	regex       *regexp.Regexp
	replacement string
}

func (r rule) apply(line string) string {
	if r.regex != nil {
		return r.regex.ReplaceAllString(line, r.replacement)
	}
	return strings.ReplaceAll(line, r.literal, r.replacement)
}

// NewTranslator builds a translator from DefaultReplacements followed by the
// extra replacements, in the order given.
func NewTranslator(extra []types.ScriptReplacement) (*Translator, error) {
	replacements := append(append([]types.ScriptReplacement{}, DefaultReplacements...), extra...)

	translator := &Translator{rules: make([]rule, 0, len(replacements))}
	for _, replacement := range replacements {
		if replacement.Pattern == "" {
			return nil, fmt.Errorf("script replacement for %q has an empty pattern", replacement.Replacement)
		}
		if !replacement.IsRegex {
			translator.rules = append(translator.rules, rule{literal: replacement.Pattern, replacement: replacement.Replacement})
			continue
		}
		regex, err := regexp.Compile(replacement.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling script replacement %q: %w", replacement.Pattern, err)
		}
		translator.rules = append(translator.rules, rule{regex: regex, replacement: replacement.Replacement})
	}
	return translator, nil
}

// TranslateLines rewrites each line independently; the result has the same
// length and order as lines.
func (translator *Translator) TranslateLines(lines []string) []string {
	translated := make([]string, len(lines))
	for i, line := range lines {
		for _, r := range translator.rules {
			line = r.apply(line)
		}
		translated[i] = line
	}
	return translated
}

func (translator *Translator) TranslateScript(lines []string, isTestEvent bool) string {
	translated := translator.TranslateLines(lines)
	if isTestEvent {
		translated = append(append([]string{}, TestBootstrapLines...), translated...)
	}
	return strings.Join(translated, "\n")
}

// Validate parses source as JavaScript without running it.
func (translator *Translator) Validate(name string, source string) error {
	if _, err := goja.Compile(name, source, false); err != nil {
		return fmt.Errorf("script %s does not parse: %w", name, err)
	}
	return nil
}
