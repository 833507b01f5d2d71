package tl

import "strings"

// Type is a parsed type expression such as `vector<int53>` or `!X`.
type Type struct {
	// Name without the generic argument or the ! prefix
	Name string `json:"name" yaml:"name"`
	// Bare types start with a lowercase letter and name a single constructor
	Bare bool `json:"bare" yaml:"bare"`
	// GenericRef marks a reference to a declared {X:Type} parameter
	GenericRef bool `json:"generic_ref,omitempty" yaml:"generic_ref,omitempty"`
	// GenericArg is the argument of a parametric type
	GenericArg *Type `json:"generic_arg,omitempty" yaml:"generic_arg,omitempty"`
}

// ParseType parses `name`, `name<arg>` or `!name`.
func ParseType(ty string) (*Type, error) {
	genericRef := false
	if strings.HasPrefix(ty, "!") {
		genericRef = true
		ty = ty[1:]
	}

	name := ty
	var arg *Type
	if pos := strings.IndexByte(ty, '<'); pos >= 0 {
		if !strings.HasSuffix(ty, ">") {
			return nil, ErrInvalidGeneric
		}
		name = ty[:pos]
		parsed, err := ParseType(ty[pos+1 : len(ty)-1])
		if err != nil {
			return nil, err
		}
		arg = parsed
	}

	if name == "" {
		return nil, ErrEmptyParam
	}

	return &Type{
		Name:       name,
		Bare:       isBare(name),
		GenericRef: genericRef,
		GenericArg: arg,
	}, nil
}

// isBare looks at the first letter after any namespace prefix, so that
// `storage.FileType` is boxed.
func isBare(name string) bool {
	if pos := strings.LastIndexByte(name, '.'); pos >= 0 && pos+1 < len(name) {
		name = name[pos+1:]
	}
	return name[0] >= 'a' && name[0] <= 'z'
}

// Equal reports structural equality.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Name == other.Name &&
		t.Bare == other.Bare &&
		t.GenericRef == other.GenericRef &&
		t.GenericArg.Equal(other.GenericArg)
}

func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	if t.GenericRef {
		b.WriteByte('!')
	}
	b.WriteString(t.Name)
	if t.GenericArg != nil {
		b.WriteByte('<')
		t.GenericArg.write(b)
		b.WriteByte('>')
	}
}

// markGeneric flags this type and its arguments when they name a declared
// generic parameter.
func (t *Type) markGeneric(typeDefs []string) {
	for ty := t; ty != nil; ty = ty.GenericArg {
		for _, def := range typeDefs {
			if ty.Name == def {
				ty.GenericRef = true
			}
		}
	}
}
