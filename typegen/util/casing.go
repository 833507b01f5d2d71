package util

import (
	"strings"
	"unicode"
)

type fold int

const (
	preserve fold = iota
	upper
	lower
)

// ToTypeName converts a possibly namespaced schema identifier to a type name.
// The namespace prefix is dropped. The first letter of a word is uppercased
// and forces the next letter to lowercase, as does any uppercase letter. An
// underscore is dropped and starts a new word: "ns.some_OK_name" -> "SomeOkName".
func ToTypeName(s string) string {
	if pos := strings.LastIndexByte(s, '.'); pos >= 0 {
		s = s[pos+1:]
	}

	var result strings.Builder
	result.Grow(len(s))

	next := upper
	for _, r := range s {
		switch {
		case r == '_':
			next = upper
			continue
		case next == upper:
			result.WriteRune(unicode.ToUpper(r))
			next = lower
			continue
		case next == lower:
			result.WriteRune(unicode.ToLower(r))
		default:
			result.WriteRune(r)
		}

		if unicode.IsUpper(r) {
			next = lower
		} else {
			next = preserve
		}
	}

	return result.String()
}

// ToCallName converts a camelCase schema identifier to snake_case by
// prefixing every uppercase letter with an underscore: "getChatHistory"
// -> "get_chat_history". The namespace prefix is dropped.
func ToCallName(s string) string {
	if pos := strings.LastIndexByte(s, '.'); pos >= 0 {
		s = s[pos+1:]
	}

	var result strings.Builder
	result.Grow(len(s) + 4)

	for _, r := range s {
		if unicode.IsUpper(r) {
			result.WriteByte('_')
			result.WriteRune(unicode.ToLower(r))
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}
