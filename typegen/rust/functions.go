package rust

import (
	"strings"

	"github.com/teranos/tlgen/logger"
	"github.com/teranos/tlgen/tl"
	"github.com/teranos/tlgen/typegen"
)

var functionsUses = []string{
	"use serde_json::json;",
	"use crate::send_request;",
}

// writeFunctionsMod writes `pub mod functions` with one async call per
// function definition:
//
//	pub async fn name(field: Type, client_id: i32) -> Result<T, crate::types::Error>
func (g *Generator) writeFunctionsMod(w *codeWriter, defs []*tl.Definition) {
	w.open("pub mod functions {")
	for _, use := range functionsUses {
		w.line("%s", use)
	}

	groups := typegen.GroupByNamespace(defs, tl.Functions)
	w.namespaces(typegen.SortedNamespaces(groups), functionsUses, func(ns string) {
		for _, def := range groups[ns] {
			if defBotsOnly(def) && !g.cfg.GenBotsOnlyAPI {
				g.log.Debugw("Skipping bots-only function", logger.FieldDefinition, def.Name)
				continue
			}
			g.writeFunction(w, def)
		}
	})

	w.close()
}

func (g *Generator) writeFunction(w *codeWriter, def *tl.Definition) {
	params := g.visibleParams(def)

	w.doc(def.Description)
	w.line("/// # Arguments")
	for _, param := range params {
		w.line("/// * `%s` - %s", attrName(param), strings.ReplaceAll(param.Description, "\n", "\n"+w.indent()+"/// "))
	}
	w.line("/// * `client_id` - The client id to send the request to")

	w.line("#[allow(clippy::too_many_arguments)]")
	w.open("pub async fn %s%s(%sclient_id: i32) -> Result<%s, crate::types::Error> {",
		defFunctionName(def), genericParams(def), paramList(params), returnName(def.Type))

	w.open("let request = json!({")
	w.line(`"@type": %q,`, def.Name)
	for _, param := range params {
		w.line("%q: %s,", param.Name, attrName(param))
	}
	w.depth--
	w.line("});")

	w.line("let response = send_request(client_id, request).await;")
	w.open(`if response["@type"] == "error" {`)
	w.line("return Err(serde_json::from_value(response).unwrap())")
	w.close()
	if isOk(def.Type) {
		w.line("Ok(())")
	} else {
		w.line("Ok(serde_json::from_value(response).unwrap())")
	}
	w.close()
}

// paramList renders `name: Type, ` for each parameter.
func paramList(params []*tl.Parameter) string {
	var b strings.Builder
	for _, param := range params {
		b.WriteString(attrName(param))
		b.WriteString(": ")
		b.WriteString(paramTypeName(param))
		b.WriteString(", ")
	}
	return b.String()
}

// argList renders `name, ` for each parameter.
func argList(params []*tl.Parameter) string {
	var b strings.Builder
	for _, param := range params {
		b.WriteString(attrName(param))
		b.WriteString(", ")
	}
	return b.String()
}
