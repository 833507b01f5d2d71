package tl

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/tlgen/errors"
)

// Definition is one TL statement: a type constructor or a function.
type Definition struct {
	// Name of the constructor or function, possibly namespaced (`storage.fileJpeg`)
	Name string `json:"name" yaml:"name"`
	// ID is the explicit `#hex` id or the inferred CRC32
	ID          uint32 `json:"id" yaml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// TypeDefs lists the declared {X:Type} generic parameters in order
	TypeDefs []string     `json:"type_defs,omitempty" yaml:"type_defs,omitempty"`
	Params   []*Parameter `json:"params" yaml:"params"`
	// Type is the constructed type for Types, the result type for Functions
	Type     *Type    `json:"type" yaml:"type"`
	Category Category `json:"category" yaml:"category"`
}

// ParseDefinition parses a single statement without its terminator.
// The category is always Types; the iterator overwrites it.
func ParseDefinition(definition string) (*Definition, error) {
	if strings.TrimSpace(definition) == "" {
		return nil, ErrEmpty
	}

	docs, body := extractDocs(definition)

	left, tyText, ok := strings.Cut(body, "=")
	if !ok {
		return nil, ErrMissingType
	}
	if extra := strings.IndexByte(tyText, '='); extra >= 0 {
		tyText = tyText[:extra]
	}
	tyText = strings.TrimSpace(tyText)

	ty, err := ParseType(tyText)
	if err != nil {
		return nil, ErrMissingType
	}

	left = strings.TrimSpace(left)
	name, middle := left, ""
	if pos := strings.IndexFunc(left, unicode.IsSpace); pos >= 0 {
		name, middle = left[:pos], left[pos:]
	}

	var id uint32
	explicitID := false
	if base, hex, found := strings.Cut(name, "#"); found {
		parsed, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidID, "%q", hex)
		}
		name, id, explicitID = base, uint32(parsed), true
	}
	if name == "" {
		return nil, ErrMissingName
	}

	var params []*Parameter
	var typeDefs []string
	for _, token := range strings.Fields(middle) {
		param, err := ParseParameter(token)
		if err != nil {
			var typeDef *TypeDefError
			switch {
			case errors.As(err, &typeDef):
				typeDefs = append(typeDefs, typeDef.Name)
				continue
			case errors.Is(err, ErrParamNotImplemented):
				return nil, ErrNotImplemented
			default:
				return nil, &InvalidParamError{Param: token, Err: err}
			}
		}

		key := param.Name
		if key == "description" {
			key = "param_description"
		}
		if description, ok := docs[key]; ok {
			param.Description = description
			delete(docs, key)
		}
		params = append(params, param)
	}

	for _, param := range params {
		if param.Type.GenericRef && !slices.Contains(typeDefs, param.Type.Name) {
			return nil, &InvalidParamError{Param: param.String(), Err: ErrMissingDef}
		}
		param.Type.markGeneric(typeDefs)
	}
	ty.markGeneric(typeDefs)

	if !explicitID {
		id = InferID(canonicalBody(name, middle, tyText))
	}

	return &Definition{
		Name:        name,
		ID:          id,
		Description: docs["description"],
		TypeDefs:    typeDefs,
		Params:      params,
		Type:        ty,
		Category:    Types,
	}, nil
}

// extractDocs collects `//@key value` annotations and returns the
// statement text following the last comment line.
func extractDocs(definition string) (map[string]string, string) {
	docs := make(map[string]string)

	commentsEnd := 0
	if start := strings.LastIndex(definition, "//"); start >= 0 {
		if end := strings.IndexByte(definition[start:], '\n'); end >= 0 {
			commentsEnd = start + end
		}
	}

	offset := 0
	for {
		start := strings.IndexByte(definition[offset:], '@')
		if start < 0 {
			break
		}
		start += offset
		end := commentsEnd
		if next := strings.IndexByte(definition[start+1:], '@'); next >= 0 {
			end = start + 1 + next
		}
		if end <= start {
			break
		}

		comment := strings.ReplaceAll(definition[start+1:end], "//-", "")
		comment = strings.TrimSpace(strings.ReplaceAll(comment, "//", ""))
		key, content, _ := strings.Cut(comment, " ")
		docs[key] = content

		offset = end
	}

	return docs, definition[commentsEnd:]
}

// Namespace returns the dotted prefix of the name, or "" at top level.
func (d *Definition) Namespace() string {
	if pos := strings.LastIndexByte(d.Name, '.'); pos >= 0 {
		return d.Name[:pos]
	}
	return ""
}

// Equal reports structural equality, including ids and documentation.
func (d *Definition) Equal(other *Definition) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Name == other.Name &&
		d.ID == other.ID &&
		d.Description == other.Description &&
		slices.Equal(d.TypeDefs, other.TypeDefs) &&
		slices.EqualFunc(d.Params, other.Params, (*Parameter).Equal) &&
		d.Type.Equal(other.Type) &&
		d.Category == other.Category
}

// String renders the definition in TL notation: `name#id {X:Type} p:t = T`.
// Documentation is not rendered.
func (d *Definition) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s#%x", d.Name, d.ID)
	for _, typeDef := range d.TypeDefs {
		fmt.Fprintf(&b, " {%s:Type}", typeDef)
	}
	for _, param := range d.Params {
		b.WriteByte(' ')
		b.WriteString(param.String())
	}
	b.WriteString(" = ")
	b.WriteString(strings.TrimPrefix(d.Type.String(), "!"))
	return b.String()
}

// Source renders the definition together with its documentation as
// `//@key value` comment lines, such that parsing the result yields a
// definition equal to d (category aside).
func (d *Definition) Source() string {
	var b strings.Builder
	writeDoc := func(key, text string) {
		if text == "" {
			return
		}
		fmt.Fprintf(&b, "//@%s %s\n", key, strings.ReplaceAll(text, "\n", "\n//-"))
	}

	writeDoc("description", d.Description)
	for _, param := range d.Params {
		key := param.Name
		if key == "description" {
			key = "param_description"
		}
		writeDoc(key, param.Description)
	}
	b.WriteString(d.String())
	return b.String()
}
