package rust

import (
	"strings"

	"github.com/teranos/tlgen/tl"
	"github.com/teranos/tlgen/typegen"
	"github.com/teranos/tlgen/typegen/util"
)

// Documentation markers of the schema. Optionality and caller restrictions
// are only expressed in parameter and constructor descriptions.
const (
	markerMayBeNull         = "; may be null"
	markerPassNull          = "; pass null"
	markerMessagesMayBeNull = "; messages may be null"
	markerBotsOnly          = "; for bots only"
)

// builtinTypes maps schema primitives to Rust types
var builtinTypes = map[string]string{
	"Bool":   "bool",
	"true":   "bool",
	"bytes":  "String",
	"double": "f64",
	"int":    "i32",
	"int32":  "i32",
	"int53":  "i64",
	"long":   "i64",
	"int64":  "i64",
	"int128": "[u8; 16]",
	"int256": "[u8; 32]",
	"string": "String",
	"vector": "Vec",
	"Vector": "Vec",
	"Ok":     "()",
}

// rustKeywords lists Rust reserved words that cannot be used as field names
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "final": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "yield": true,
}

// rawForbidden are keywords that cannot be written as raw identifiers either
var rawForbidden = map[string]bool{
	"crate": true, "self": true, "Self": true, "super": true,
}

// toRustIdent converts an identifier to a valid Rust identifier.
// Adds r# prefix for Rust keywords, or a trailing underscore where r# is not allowed.
func toRustIdent(s string) string {
	switch {
	case rawForbidden[s]:
		return s + "_"
	case rustKeywords[s]:
		return "r#" + s
	}
	return s
}

// ignoreType reports types that map to a Rust primitive even though the
// schema declares constructors for them.
func ignoreType(ty *tl.Type) bool {
	return ty.Name == "Bool"
}

// modulePath renders a namespace prefix as module path segments: "a.b" -> "a::b::".
func modulePath(ns string) string {
	var b strings.Builder
	for _, segment := range typegen.NamespaceSegments(ns) {
		b.WriteString(segment)
		b.WriteString("::")
	}
	return b.String()
}

func namespaceOf(name string) string {
	if pos := strings.LastIndexByte(name, '.'); pos >= 0 {
		return name[:pos]
	}
	return ""
}

// rustDoc renders doc text as `///` lines at the given indent.
func rustDoc(indent, doc string) string {
	return indent + "/// " + strings.ReplaceAll(doc, "\n", "\n"+indent+"/// ")
}

// genericParams renders the declared {X:Type} parameters of def.
func genericParams(def *tl.Definition) string {
	if len(def.TypeDefs) == 0 {
		return ""
	}
	bounds := make([]string, len(def.TypeDefs))
	for i, name := range def.TypeDefs {
		bounds[i] = name + ": crate::RemoteCall"
	}
	return "<" + strings.Join(bounds, ", ") + ">"
}

// Definitions

func defTypeName(def *tl.Definition) string {
	return util.ToTypeName(def.Name)
}

func defFunctionName(def *tl.Definition) string {
	return toRustIdent(util.ToCallName(def.Name))
}

func defQualName(def *tl.Definition) string {
	return "crate::types::" + modulePath(def.Namespace()) + defTypeName(def)
}

// defVariantName names the enum arm of def by stripping its type's name:
// userEmpty = User -> Empty, inputPeerSelf = InputPeer -> PeerSelf.
func defVariantName(def *tl.Definition) string {
	name := defTypeName(def)
	tyName := typeName(def.Type)

	variant := name
	if rest, ok := strings.CutPrefix(name, tyName); ok && (rest == "" || !isLowerASCII(rest[0])) {
		variant = rest
	}

	switch variant {
	case "":
		return name[lastUpper(name):]
	case "Self":
		return name[lastUpper(name[:len(name)-len(variant)]):]
	}
	return variant
}

func lastUpper(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] >= 'A' && s[i] <= 'Z' {
			return i
		}
	}
	return 0
}

func isLowerASCII(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func defBotsOnly(def *tl.Definition) bool {
	return strings.Contains(def.Description, markerBotsOnly)
}

// defHash is decided per type; the chat list filters are used as map keys.
func defHash(def *tl.Definition) bool {
	return def.Name == "chatListFilter" || def.Name == "chatListFolder"
}

// storedParams drops the flags pseudo-fields, which are never stored.
func storedParams(def *tl.Definition) []*tl.Parameter {
	params := make([]*tl.Parameter, 0, len(def.Params))
	for _, param := range def.Params {
		if !param.IsFlags() {
			params = append(params, param)
		}
	}
	return params
}

// Types

func typeName(ty *tl.Type) string {
	return util.ToTypeName(ty.Name)
}

func builtinType(ty *tl.Type) (string, bool) {
	name, ok := builtinTypes[ty.Name]
	return name, ok
}

func basePath(ty *tl.Type) string {
	if name, ok := builtinType(ty); ok {
		return name
	}
	if ty.GenericRef {
		return ty.Name
	}
	module := "crate::enums::"
	if ty.Bare {
		module = "crate::types::"
	}
	return module + modulePath(namespaceOf(ty.Name)) + typeName(ty)
}

// typeQualName renders the full path of ty. With optionalArg the generic
// argument is wrapped in Option.
func typeQualName(ty *tl.Type, optionalArg bool) string {
	result := basePath(ty)
	if ty.GenericArg == nil {
		return result
	}
	arg := typeQualName(ty.GenericArg, false)
	if optionalArg {
		arg = "Option<" + arg + ">"
	}
	return result + "<" + arg + ">"
}

// returnName renders a function result type.
func returnName(ty *tl.Type) string {
	if ty.GenericRef {
		return ty.Name + "::Return"
	}
	return typeQualName(ty, false)
}

func isOk(ty *tl.Type) bool {
	return ty.Name == "Ok"
}

func typeHash(ty *tl.Type) bool {
	return ty.Name == "ChatList"
}

// serdeAs returns the serde_with adapter for ty, or "" if none is needed.
// int64 travels as a JSON string.
func serdeAs(ty *tl.Type) string {
	if ty.Name == "int64" {
		return "DisplayFromStr"
	}
	if ty.GenericArg != nil {
		if inner := serdeAs(ty.GenericArg); inner != "" {
			return basePath(ty) + "<" + inner + ">"
		}
	}
	return ""
}

// Parameters

func paramQualName(param *tl.Parameter) string {
	return typeQualName(param.Type, strings.Contains(param.Description, markerMessagesMayBeNull))
}

// paramTypeName is the declared Rust type of a field, including Option.
func paramTypeName(param *tl.Parameter) string {
	if isOptional(param) {
		return "Option<" + paramQualName(param) + ">"
	}
	return paramQualName(param)
}

func paramSerdeAs(param *tl.Parameter) string {
	as := serdeAs(param.Type)
	if as != "" && isOptional(param) {
		return "Option<" + as + ">"
	}
	return as
}

func attrName(param *tl.Parameter) string {
	if param.Name == "self" {
		return "is_self"
	}
	return toRustIdent(strings.ToLower(param.Name))
}

// isOptional follows the description markers. Flag-conditional fields are
// optional unless they are plain `true` switches.
func isOptional(param *tl.Parameter) bool {
	if strings.Contains(param.Description, markerMayBeNull) || strings.Contains(param.Description, markerPassNull) {
		return true
	}
	return param.Flag != nil && param.Type.Name != "true"
}

func isBuiltinParam(param *tl.Parameter) bool {
	_, ok := builtinType(param.Type)
	return ok || isOptional(param) || param.IsFlags()
}

func paramBotsOnly(param *tl.Parameter) bool {
	return strings.Contains(param.Description, markerBotsOnly)
}
