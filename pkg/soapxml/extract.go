// Package soapxml pulls individual fields out of loosely-structured SOAP
// response bodies by pattern matching, without a DOM parser. The backend is
// known to vary namespace prefixes and wrapper nesting between responses, so
// every lookup tries a namespace-prefixed tag form first and a bare form
// second, case-insensitively, and takes the first occurrence in document
// order.
//
// Matching is non-greedy across whole open/close tag pairs. Nested
// same-named tags are not supported; that is a documented limitation of the
// scanning approach, not a bug. A field that cannot be found is reported as
// absent, never as an error — malformed markup simply yields no matches.
package soapxml

import (
	"regexp"
	"strings"
	"unicode"
)

const prefixPattern = `[A-Za-z_][A-Za-z0-9_.-]*`

// ExtractField returns the trimmed inner text of the first element whose
// local name equals the capitalized field name. The boolean reports whether
// the field was present at all.
func ExtractField(block, fieldName string) (string, bool) {
	name := Capitalize(fieldName)
	if name == "" {
		return "", false
	}

	if v, ok := firstMatch(block, prefixedPattern(name)); ok {
		return v, true
	}
	return firstMatch(block, barePattern(name))
}

// ExtractBlock carves out the inner span of the first element with the given
// name, used to scope later field extraction to a sub-document such as a
// Results section.
func ExtractBlock(text, elementName string) (string, bool) {
	name := Capitalize(elementName)
	if name == "" {
		return "", false
	}

	if v, ok := firstRaw(text, prefixedPattern(name)); ok {
		return v, true
	}
	return firstRaw(text, barePattern(name))
}

// ExtractAllBlocks returns the inner span of every non-overlapping instance
// of the named element in document order. Used for responses that enumerate
// repeated entries, e.g. one block per matched employee.
func ExtractAllBlocks(text, elementName string) []string {
	name := Capitalize(elementName)
	if name == "" {
		return nil
	}

	blocks := allRaw(text, prefixedPattern(name))
	if len(blocks) == 0 {
		blocks = allRaw(text, barePattern(name))
	}
	return blocks
}

// Capitalize upper-cases the first rune so camelCase field names line up
// with the backend's PascalCase element names.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func prefixedPattern(name string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?is)<` + prefixPattern + `:` + quoted + `(?:\s[^>]*)?>(.*?)</` + prefixPattern + `:` + quoted + `\s*>`)
}

func barePattern(name string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?is)<` + quoted + `(?:\s[^>]*)?>(.*?)</` + quoted + `\s*>`)
}

func firstMatch(text string, re *regexp.Regexp) (string, bool) {
	raw, ok := firstRaw(text, re)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

func firstRaw(text string, re *regexp.Regexp) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func allRaw(text string, re *regexp.Regexp) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	if matches == nil {
		return nil
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
