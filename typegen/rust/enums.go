package rust

import (
	"strings"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
	"github.com/teranos/tlgen/tl"
	"github.com/teranos/tlgen/typegen"
)

var enumsUses = []string{
	"use serde::{Deserialize, Serialize};",
}

// writeEnumsMod writes `pub mod enums` with one tagged union per boxed type:
//
//	#[serde(tag = "@type")]
//	pub enum Name {
//	    Variant(crate::types::Name),
//	}
func (g *Generator) writeEnumsMod(w *codeWriter, meta *typegen.Metadata) error {
	w.open("pub mod enums {")
	for _, use := range enumsUses {
		w.line("%s", use)
	}

	var err error
	groups := typegen.GroupTypesByNamespace(meta.TypeNames())
	w.namespaces(typegen.SortedNamespaces(groups), enumsUses, func(ns string) {
		for _, name := range groups[ns] {
			if err != nil {
				return
			}
			ty := &tl.Type{Name: name}
			if ignoreType(ty) {
				continue
			}
			err = g.writeEnum(w, ty, meta)
		}
	})

	w.close()
	return err
}

func (g *Generator) writeEnum(w *codeWriter, ty *tl.Type, meta *typegen.Metadata) error {
	all, err := meta.DefsWithType(ty)
	if err != nil {
		return err
	}

	var defs []*tl.Definition
	for _, def := range all {
		if defBotsOnly(def) && !g.cfg.GenBotsOnlyAPI {
			continue
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		// still referenced by fields and results outside the bots API
		g.log.Debugw("Emitting type without variants, all constructors are bots-only", logger.FieldType, ty.Name)
	}

	name := typeName(ty)

	derives := []string{"Clone"}
	if g.cfg.ImplDebug {
		derives = append(derives, "Debug")
	}
	if typeHash(ty) {
		derives = append(derives, "Eq", "Hash")
	}
	derives = append(derives, "PartialEq", "Deserialize", "Serialize")
	w.line("#[derive(%s)]", strings.Join(derives, ", "))
	w.line(`#[serde(tag = "@type")]`)

	w.open("pub enum %s {", name)
	variants := make(map[string]string, len(defs))
	for _, def := range defs {
		variant := defVariantName(def)
		if other, dup := variants[variant]; dup {
			return errors.AssertionFailedf("variant %s of %s is produced by both %s and %s", variant, name, other, def.Name)
		}
		variants[variant] = def.Name

		w.doc(def.Description)
		w.line("#[serde(rename = %q)]", def.Name)
		if len(storedParams(def)) == 0 {
			w.line("%s,", variant)
			continue
		}
		if meta.IsRecursive(def) {
			g.log.Debugw("Boxing recursive variant", logger.FieldDefinition, def.Name, logger.FieldType, ty.Name)
			w.line("%s(Box<%s>),", variant, defQualName(def))
			continue
		}
		w.line("%s(%s),", variant, defQualName(def))
	}
	w.close()

	if len(defs) > 0 {
		g.writeImplDefault(w, name, defs[0], meta)
	}

	if g.cfg.ImplFromType {
		for _, def := range defs {
			g.writeImplFromType(w, name, def, meta)
		}
	}
	if g.cfg.ImplFromEnum {
		for _, def := range defs {
			g.writeImplFromEnum(w, name, def, meta)
		}
	}
	return nil
}

// writeImplDefault makes the first constructor the default value, when
// that constructor has a default itself.
func (g *Generator) writeImplDefault(w *codeWriter, name string, first *tl.Definition, meta *typegen.Metadata) {
	hasPayload := len(storedParams(first)) > 0
	if hasPayload && !meta.CanDeriveDefault(first) {
		return
	}

	w.open("impl Default for %s {", name)
	w.open("fn default() -> Self {")
	if hasPayload {
		w.line("%s::%s(Default::default())", name, defVariantName(first))
	} else {
		w.line("%s::%s", name, defVariantName(first))
	}
	w.close()
	w.close()
}

func (g *Generator) writeImplFromType(w *codeWriter, name string, def *tl.Definition, meta *typegen.Metadata) {
	if len(storedParams(def)) == 0 {
		return
	}
	qual := defQualName(def)
	value := "value"
	if meta.IsRecursive(def) {
		value = "Box::new(value)"
	}

	w.open("impl From<%s> for %s {", qual, name)
	w.open("fn from(value: %s) -> Self {", qual)
	w.line("%s::%s(%s)", name, defVariantName(def), value)
	w.close()
	w.close()
}

func (g *Generator) writeImplFromEnum(w *codeWriter, name string, def *tl.Definition, meta *typegen.Metadata) {
	if len(storedParams(def)) == 0 {
		return
	}
	qual := defQualName(def)
	inner := "inner"
	if meta.IsRecursive(def) {
		inner = "*inner"
	}

	w.open("impl TryFrom<%s> for %s {", name, qual)
	w.line("type Error = %s;", name)
	w.line("#[allow(unreachable_patterns)]")
	w.open("fn try_from(value: %s) -> Result<Self, Self::Error> {", name)
	w.open("match value {")
	w.line("%s::%s(inner) => Ok(%s),", name, defVariantName(def), inner)
	w.line("other => Err(other),")
	w.close()
	w.close()
	w.close()
}
