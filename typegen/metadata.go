package typegen

import (
	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/tl"
)

var (
	// ErrNoConstructors indicates a boxed type that is referenced but never constructed.
	ErrNoConstructors = errors.New("type has no constructors")
	// ErrGenericConstructor indicates a type constructor declaring {X:Type} parameters
	ErrGenericConstructor = errors.New("generic type constructors are not supported")
)

// BuiltinFunc reports whether a parameter maps to a primitive of the target
// language. Optional parameters count as builtin since they default to none.
type BuiltinFunc func(*tl.Parameter) bool

// Metadata is derived from the complete set of type definitions and is
// read-only once built.
type Metadata struct {
	recursingDefs   map[string]struct{}
	defaultImplDefs map[string]struct{}
	defsWithType    map[string][]*tl.Definition
	typeOrder       []string
}

// NewMetadata analyses the Types-category definitions of defs.
func NewMetadata(defs []*tl.Definition, isBuiltin BuiltinFunc) *Metadata {
	m := &Metadata{
		recursingDefs:   make(map[string]struct{}),
		defaultImplDefs: make(map[string]struct{}),
		defsWithType:    make(map[string][]*tl.Definition),
	}

	var typeDefs []*tl.Definition
	byName := make(map[string]*tl.Definition)
	for _, def := range defs {
		if def.Category != tl.Types {
			continue
		}
		typeDefs = append(typeDefs, def)
		byName[def.Name] = def

		if _, seen := m.defsWithType[def.Type.Name]; !seen {
			m.typeOrder = append(m.typeOrder, def.Type.Name)
		}
		m.defsWithType[def.Type.Name] = append(m.defsWithType[def.Type.Name], def)
	}

	for _, def := range typeDefs {
		if m.selfReferences(def) {
			m.recursingDefs[def.Name] = struct{}{}
		}
	}

	for name, ok := range bareComposed(typeDefs, byName, isBuiltin) {
		if ok {
			m.defaultImplDefs[name] = struct{}{}
		}
	}

	return m
}

// selfReferences walks the constructors reachable through root's field
// types, looking for a field of root's own result type.
func (m *Metadata) selfReferences(root *tl.Definition) bool {
	visited := map[string]bool{root.Name: true}
	stack := []*tl.Definition{root}

	for len(stack) > 0 {
		check := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, param := range check.Params {
			if param.Type.Name == root.Type.Name {
				return true
			}
			for _, def := range m.defsWithType[param.Type.Name] {
				if !visited[def.Name] {
					visited[def.Name] = true
					stack = append(stack, def)
				}
			}
		}
	}
	return false
}

// bareComposed returns the definitions whose fields are all builtin or
// bare references to other such definitions. It starts from every
// definition and drops offenders until nothing changes, so reference
// cycles among bare definitions terminate and count as composed.
func bareComposed(typeDefs []*tl.Definition, byName map[string]*tl.Definition, isBuiltin BuiltinFunc) map[string]bool {
	composed := make(map[string]bool, len(typeDefs))
	for _, def := range typeDefs {
		composed[def.Name] = true
	}

	for changed := true; changed; {
		changed = false
		for _, def := range typeDefs {
			if !composed[def.Name] {
				continue
			}
			for _, param := range def.Params {
				ref, isDef := byName[param.Type.Name]
				if (!isBuiltin(param) && !param.Type.Bare) || (isDef && !composed[ref.Name]) {
					composed[def.Name] = false
					changed = true
					break
				}
			}
		}
	}
	return composed
}

// IsRecursive reports whether def transitively contains its own type.
func (m *Metadata) IsRecursive(def *tl.Definition) bool {
	_, ok := m.recursingDefs[def.Name]
	return ok
}

// CanDeriveDefault reports whether def is composed of builtin and bare fields only.
func (m *Metadata) CanDeriveDefault(def *tl.Definition) bool {
	_, ok := m.defaultImplDefs[def.Name]
	return ok
}

// DefsWithType returns the constructors of a type in schema order.
func (m *Metadata) DefsWithType(ty *tl.Type) ([]*tl.Definition, error) {
	defs, ok := m.defsWithType[ty.Name]
	if !ok || len(defs) == 0 {
		return nil, errors.Wrapf(ErrNoConstructors, "%s", ty.Name)
	}
	return defs, nil
}

// TypeNames returns every constructed type once, in order of first appearance.
func (m *Metadata) TypeNames() []string {
	return m.typeOrder
}

// Validate checks that every boxed type referenced by a field or a function
// result has at least one constructor, so no emitted code refers to a union
// that was never declared.
func (m *Metadata) Validate(defs []*tl.Definition, isBuiltinType func(*tl.Type) bool, ignored func(*tl.Type) bool) error {
	var errs []error
	seen := make(map[string]bool)

	check := func(owner string, ty *tl.Type) {
		for t := ty; t != nil; t = t.GenericArg {
			if t.GenericRef || t.Bare || isBuiltinType(t) || ignored(t) || seen[t.Name] {
				continue
			}
			if _, ok := m.defsWithType[t.Name]; !ok {
				seen[t.Name] = true
				errs = append(errs, errors.Wrapf(ErrNoConstructors, "%s (referenced by %s)", t.Name, owner))
			}
		}
	}

	for _, def := range defs {
		for _, param := range def.Params {
			if !param.IsFlags() {
				check(def.Name, param.Type)
			}
		}
		if def.Category == tl.Functions {
			check(def.Name, def.Type)
		} else if len(def.TypeDefs) > 0 && !ignored(def.Type) {
			errs = append(errs, errors.Wrapf(ErrGenericConstructor, "%s", def.Name))
		}
	}

	return errors.Join(errs...)
}
