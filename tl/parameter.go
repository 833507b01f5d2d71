package tl

import (
	"strconv"
	"strings"
)

// Flag references one bit of a flags pseudo-field: `flags.3?string`.
type Flag struct {
	Name  string `json:"name" yaml:"name"`
	Index int    `json:"index" yaml:"index"`
}

// Parameter is one `name:type` field of a definition.
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Type        *Type  `json:"type" yaml:"type"`
	Flag        *Flag  `json:"flag,omitempty" yaml:"flag,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ParseParameter parses a single `name:type` token.
//
// A `{X:Type}` token is reported as a *TypeDefError so the caller can
// register X as a generic parameter instead of a field.
func ParseParameter(param string) (*Parameter, error) {
	if strings.HasPrefix(param, "{") {
		if !strings.HasSuffix(param, ":Type}") {
			return nil, ErrMissingDef
		}
		name := param[1:strings.IndexByte(param, ':')]
		if name == "" {
			return nil, ErrMissingDef
		}
		return nil, &TypeDefError{Name: name}
	}

	parts := strings.Split(param, ":")
	if len(parts) < 2 {
		return nil, ErrParamNotImplemented
	}
	name, tyText := parts[0], parts[1]
	if name == "" || tyText == "" {
		return nil, ErrEmptyParam
	}

	flag, tyText, err := parseFlag(tyText)
	if err != nil {
		return nil, err
	}

	ty, err := ParseType(tyText)
	if err != nil {
		return nil, err
	}

	return &Parameter{Name: name, Type: ty, Flag: flag}, nil
}

// parseFlag splits `flags.N?T` into its flag reference and T.
func parseFlag(ty string) (*Flag, string, error) {
	cond, rest, ok := strings.Cut(ty, "?")
	if !ok {
		return nil, ty, nil
	}
	name, index, ok := strings.Cut(cond, ".")
	if !ok || name == "" {
		return nil, "", ErrParamNotImplemented
	}
	n, err := strconv.Atoi(index)
	if err != nil || n < 0 {
		return nil, "", ErrParamNotImplemented
	}
	if rest == "" {
		return nil, "", ErrEmptyParam
	}
	return &Flag{Name: name, Index: n}, rest, nil
}

// IsFlags reports whether this is a `#` bit-set field. Such fields only
// carry presence bits for their siblings and are never stored.
func (p *Parameter) IsFlags() bool {
	return p.Type.Name == "#"
}

// Equal reports structural equality.
func (p *Parameter) Equal(other *Parameter) bool {
	if p == nil || other == nil {
		return p == other
	}
	if (p.Flag == nil) != (other.Flag == nil) {
		return false
	}
	if p.Flag != nil && *p.Flag != *other.Flag {
		return false
	}
	return p.Name == other.Name &&
		p.Description == other.Description &&
		p.Type.Equal(other.Type)
}

func (p *Parameter) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteByte(':')
	if p.Flag != nil {
		b.WriteString(p.Flag.Name)
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(p.Flag.Index))
		b.WriteByte('?')
	}
	b.WriteString(p.Type.String())
	return b.String()
}
