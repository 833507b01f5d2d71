package typegen

import (
	"slices"
	"strings"

	"github.com/teranos/tlgen/tl"
)

// GroupByNamespace maps each namespace prefix ("" for the top level) to
// the definitions of the given category it contains, in schema order.
func GroupByNamespace(defs []*tl.Definition, category tl.Category) map[string][]*tl.Definition {
	groups := make(map[string][]*tl.Definition)
	for _, def := range defs {
		if def.Category != category {
			continue
		}
		ns := def.Namespace()
		groups[ns] = append(groups[ns], def)
	}
	return groups
}

// GroupTypesByNamespace maps each namespace prefix to the type names it
// declares, in order of first appearance.
func GroupTypesByNamespace(typeNames []string) map[string][]string {
	groups := make(map[string][]string)
	for _, name := range typeNames {
		ns := ""
		if pos := strings.LastIndexByte(name, '.'); pos >= 0 {
			ns = name[:pos]
		}
		groups[ns] = append(groups[ns], name)
	}
	return groups
}

// NamespaceSegments splits a namespace prefix into its module names.
func NamespaceSegments(ns string) []string {
	if ns == "" {
		return nil
	}
	return strings.Split(ns, ".")
}

// SortedNamespaces orders namespace keys segment by segment, so that a
// namespace is directly followed by its children and nested blocks can
// be opened and closed in one pass.
func SortedNamespaces[V any](groups map[string]V) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Compare(NamespaceSegments(a), NamespaceSegments(b))
	})
	return keys
}
