package rust

import (
	"fmt"
	"strings"

	"github.com/teranos/tlgen/typegen"
)

const indentUnit = "    "

// codeWriter accumulates indented Rust source in memory.
type codeWriter struct {
	sb    strings.Builder
	depth int
}

func (w *codeWriter) indent() string {
	return strings.Repeat(indentUnit, w.depth)
}

// line writes one indented line. An empty format writes a blank line.
func (w *codeWriter) line(format string, args ...any) {
	if format == "" {
		w.sb.WriteByte('\n')
		return
	}
	w.sb.WriteString(w.indent())
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// open writes a line ending a block opener and indents what follows.
func (w *codeWriter) open(format string, args ...any) {
	w.line(format, args...)
	w.depth++
}

func (w *codeWriter) close() {
	w.depth--
	w.line("}")
}

// doc writes text as `///` lines; empty text writes nothing.
func (w *codeWriter) doc(text string) {
	if text == "" {
		return
	}
	w.sb.WriteString(rustDoc(w.indent(), text))
	w.sb.WriteByte('\n')
}

// namespaces visits the sorted namespace keys, opening and closing nested
// `pub mod` blocks around each call of body. uses are repeated in every
// opened module since Rust imports do not reach child modules.
func (w *codeWriter) namespaces(keys []string, uses []string, body func(ns string)) {
	var open []string
	for _, ns := range keys {
		segments := typegen.NamespaceSegments(ns)

		common := 0
		for common < len(open) && common < len(segments) && open[common] == segments[common] {
			common++
		}
		for len(open) > common {
			w.close()
			open = open[:len(open)-1]
		}
		for _, segment := range segments[common:] {
			w.open("pub mod %s {", segment)
			for _, use := range uses {
				w.line("%s", use)
			}
			open = append(open, segment)
		}

		body(ns)
	}
	for range open {
		w.close()
	}
}

func (w *codeWriter) String() string {
	return w.sb.String()
}
