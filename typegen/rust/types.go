package rust

import (
	"strings"

	"github.com/teranos/tlgen/logger"
	"github.com/teranos/tlgen/tl"
	"github.com/teranos/tlgen/typegen"
)

var typesUses = []string{
	"use serde::{Deserialize, Serialize};",
	"use serde_with::{serde_as, DisplayFromStr};",
}

// writeTypesMod writes `pub mod types` with one struct per constructor
// that has stored fields:
//
//	pub struct Name {
//	    pub field: Type,
//	}
func (g *Generator) writeTypesMod(w *codeWriter, defs []*tl.Definition, meta *typegen.Metadata) {
	w.open("pub mod types {")
	for _, use := range typesUses {
		w.line("%s", use)
	}

	groups := typegen.GroupByNamespace(defs, tl.Types)
	w.namespaces(typegen.SortedNamespaces(groups), typesUses, func(ns string) {
		for _, def := range groups[ns] {
			if ignoreType(def.Type) || len(storedParams(def)) == 0 {
				continue
			}
			if defBotsOnly(def) && !g.cfg.GenBotsOnlyAPI {
				g.log.Debugw("Skipping bots-only definition", logger.FieldDefinition, def.Name)
				continue
			}
			g.writeStruct(w, def, meta)
		}
	})

	w.close()
}

func (g *Generator) writeStruct(w *codeWriter, def *tl.Definition, meta *typegen.Metadata) {
	params := g.visibleParams(def)

	w.doc(def.Description)

	for _, param := range params {
		if paramSerdeAs(param) != "" {
			w.line("#[serde_as]")
			break
		}
	}

	derives := []string{"Clone"}
	if g.cfg.ImplDebug {
		derives = append(derives, "Debug")
	}
	if meta.CanDeriveDefault(def) {
		derives = append(derives, "Default")
	}
	if defHash(def) {
		derives = append(derives, "Eq", "Hash")
	}
	derives = append(derives, "PartialEq", "Deserialize", "Serialize")
	w.line("#[derive(%s)]", strings.Join(derives, ", "))

	w.open("pub struct %s {", defTypeName(def))
	for _, param := range params {
		w.doc(param.Description)
		if as := paramSerdeAs(param); as != "" {
			w.line("#[serde_as(as = %q)]", as)
		}
		if strings.TrimPrefix(attrName(param), "r#") != param.Name {
			w.line("#[serde(rename = %q)]", param.Name)
		}
		if isOptional(param) {
			w.line("#[serde(default)]")
		}
		w.line("pub %s: %s,", attrName(param), paramTypeName(param))
	}
	w.close()
}

// visibleParams returns the stored fields of def, without bots-only fields
// unless the bots API is generated.
func (g *Generator) visibleParams(def *tl.Definition) []*tl.Parameter {
	params := storedParams(def)
	if g.cfg.GenBotsOnlyAPI {
		return params
	}
	visible := params[:0]
	for _, param := range params {
		if !paramBotsOnly(param) {
			visible = append(visible, param)
		}
	}
	return visible
}
