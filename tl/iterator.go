package tl

import (
	"io"
	"iter"
	"strings"
	"unicode"
)

const statementSeparator = ';'

// Iterator walks the statements of a schema, tracking the active
// category across ---types--- and ---functions--- markers.
type Iterator struct {
	contents string
	index    int
	category Category
}

// NewIterator returns an iterator positioned at the start of contents.
func NewIterator(contents string) *Iterator {
	return &Iterator{contents: contents, category: Types}
}

// Next returns the next definition, or io.EOF after the last statement.
// Parse failures are returned as *StatementError and do not stop the
// iteration; the following call continues with the next statement.
func (it *Iterator) Next() (*Definition, error) {
	for {
		statement, start, ok := it.nextStatement()
		if !ok {
			return nil, io.EOF
		}

		statement, err := it.stripSeparators(statement)
		if err != nil {
			return nil, it.statementError(start, statement, err)
		}
		if isBlank(statement) {
			// a marker on its own
			continue
		}

		def, err := ParseDefinition(statement)
		if err != nil {
			return nil, it.statementError(start, statement, err)
		}
		def.Category = it.category
		return def, nil
	}
}

// All yields every definition or per-statement error until end of input.
func (it *Iterator) All() iter.Seq2[*Definition, error] {
	return func(yield func(*Definition, error) bool) {
		for {
			def, err := it.Next()
			if err == io.EOF {
				return
			}
			if !yield(def, err) {
				return
			}
		}
	}
}

// nextStatement returns the next statement that has content outside of
// comments, trimmed, along with the offset of its first byte of code.
func (it *Iterator) nextStatement() (string, int, bool) {
	for it.index < len(it.contents) {
		rest := it.contents[it.index:]
		end := len(rest)
		inComment := false
		first := -1

		for i := 0; i < len(rest); i++ {
			c := rest[i]
			if !inComment && c == '/' && i+1 < len(rest) && rest[i+1] == '/' {
				inComment = true
			} else if inComment && c == '\n' {
				inComment = false
			}

			if inComment {
				continue
			}
			if first < 0 && (c >= 0x80 || !unicode.IsSpace(rune(c))) {
				first = i
			}
			if c == statementSeparator {
				end = i
				break
			}
		}

		start := it.index + first
		it.index += end + 1

		if first >= 0 {
			return strings.TrimSpace(rest[:end]), start, true
		}
	}
	return "", 0, false
}

// stripSeparators removes leading section markers, switching category.
func (it *Iterator) stripSeparators(statement string) (string, error) {
	for strings.HasPrefix(statement, "---") {
		switch {
		case strings.HasPrefix(statement, functionsSeparator):
			it.category = Functions
			statement = strings.TrimSpace(statement[len(functionsSeparator):])
		case strings.HasPrefix(statement, typesSeparator):
			it.category = Types
			statement = strings.TrimSpace(statement[len(typesSeparator):])
		default:
			return statement, ErrUnknownSeparator
		}
	}
	return statement, nil
}

func (it *Iterator) statementError(start int, statement string, err error) error {
	return &StatementError{
		Line:      1 + strings.Count(it.contents[:start], "\n"),
		Statement: statement,
		Err:       err,
	}
}

// isBlank reports whether s holds nothing but whitespace and comments.
func isBlank(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if code, _, _ := strings.Cut(line, "//"); strings.TrimSpace(code) != "" {
			return false
		}
	}
	return true
}
