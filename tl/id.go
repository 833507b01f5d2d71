package tl

import (
	"hash/crc32"
	"strings"
)

var idReplacer = strings.NewReplacer(
	":bytes ", ":string ",
	"?bytes ", "?string ",
	"<", " ",
	">", "",
	"{", "",
	"}", "",
)

// InferID computes the constructor id of a definition from its text, the
// same way the protocol's reference implementation numbers its schema:
// CRC32 (IEEE) over a canonical form with bytes aliased to string, generic
// brackets and braces stripped and `name:flags.N?true` fields removed.
func InferID(definition string) uint32 {
	repr := idReplacer.Replace(definition)

	for {
		pos := strings.Index(repr, "?true")
		if pos < 0 {
			break
		}
		space := strings.LastIndexByte(repr[:pos], ' ')
		if space < 0 {
			space = 0
		}
		repr = repr[:space] + repr[pos+len("?true"):]
	}

	return crc32.ChecksumIEEE([]byte(repr))
}

// canonicalBody collapses all whitespace runs so ids do not depend on how
// a statement was wrapped across lines.
func canonicalBody(name, middle, ty string) string {
	parts := []string{name}
	parts = append(parts, strings.Fields(middle)...)
	parts = append(parts, "=")
	parts = append(parts, strings.Fields(ty)...)
	return strings.Join(parts, " ")
}
