package rust

import (
	"strings"

	"github.com/teranos/tlgen/tl"
	"github.com/teranos/tlgen/typegen"
	"github.com/teranos/tlgen/typegen/util"
)

// writeClientMod writes `pub mod client` with a Client bound to one
// client id. Each method delegates to the matching function of the
// functions module; namespaced functions get the namespace as prefix.
func (g *Generator) writeClientMod(w *codeWriter, defs []*tl.Definition) {
	w.open("pub mod client {")

	w.line("#[derive(Clone, Copy, Debug, PartialEq, Eq)]")
	w.open("pub struct Client {")
	w.line("client_id: i32,")
	w.close()

	w.open("impl Client {")
	w.open("pub fn new(client_id: i32) -> Self {")
	w.line("Client { client_id }")
	w.close()
	w.open("pub fn client_id(&self) -> i32 {")
	w.line("self.client_id")
	w.close()

	groups := typegen.GroupByNamespace(defs, tl.Functions)
	for _, ns := range typegen.SortedNamespaces(groups) {
		for _, def := range groups[ns] {
			if defBotsOnly(def) && !g.cfg.GenBotsOnlyAPI {
				continue
			}
			g.writeMethod(w, def)
		}
	}

	w.close()
	w.close()
}

func (g *Generator) writeMethod(w *codeWriter, def *tl.Definition) {
	params := g.visibleParams(def)

	method := defFunctionName(def)
	if ns := def.Namespace(); ns != "" {
		method = strings.ReplaceAll(ns, ".", "_") + "_" + util.ToCallName(def.Name)
	}
	method = toRustIdent(method)

	w.doc(def.Description)
	w.line("#[allow(clippy::too_many_arguments)]")
	receiver := "&self"
	if list := paramList(params); list != "" {
		receiver += ", " + strings.TrimSuffix(list, ", ")
	}
	w.open("pub async fn %s%s(%s) -> Result<%s, crate::types::Error> {",
		method, genericParams(def), receiver, returnName(def.Type))
	w.line("crate::functions::%s%s(%sself.client_id).await", modulePath(def.Namespace()), defFunctionName(def), argList(params))
	w.close()
}
