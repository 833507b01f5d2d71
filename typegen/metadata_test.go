package typegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tlgen/tl"
)

func testBuiltin(p *tl.Parameter) bool {
	switch p.Type.Name {
	case "int32", "int53", "int64", "string", "bytes", "Bool", "vector":
		return true
	}
	return strings.Contains(p.Description, "; may be null")
}

func testBuiltinType(t *tl.Type) bool {
	switch t.Name {
	case "int32", "int53", "int64", "string", "bytes", "Bool", "vector", "Ok":
		return true
	}
	return false
}

func parseSchema(t *testing.T, schema string) []*tl.Definition {
	t.Helper()
	defs, errs := tl.Parse(schema)
	require.Empty(t, errs)
	return defs
}

const pageSchema = `
pageBlockTitle title:RichText = PageBlock;
pageBlockList items:vector<pageBlockListItem> = PageBlock;
pageBlockDetails header:RichText page_blocks:vector<PageBlock> is_open:Bool = PageBlock;
richTextPlain text:string = RichText;
richTextBold text:RichText = RichText;
richTexts texts:vector<RichText> = RichText;
pageBlockCover cover:PageBlock = PageBlock;
pageBlockAnchor anchor:Anchor = PageBlock;
anchorBlock block:PageBlock = Anchor;
---functions---
getPage page:PageBlock = PageBlock;
`

func TestMetadataRecursion(t *testing.T) {
	defs := parseSchema(t, pageSchema)
	m := NewMetadata(defs, testBuiltin)

	recursive := map[string]bool{
		"richTextBold":    true,
		"pageBlockCover":  true,
		"pageBlockAnchor": true,
		"anchorBlock":     true,
	}

	for _, def := range defs {
		t.Run(def.Name, func(t *testing.T) {
			assert.Equal(t, recursive[def.Name], m.IsRecursive(def))
		})
	}
}

func TestMetadataDefsWithType(t *testing.T) {
	defs := parseSchema(t, pageSchema)
	m := NewMetadata(defs, testBuiltin)

	pageBlocks, err := m.DefsWithType(&tl.Type{Name: "PageBlock"})
	require.NoError(t, err)

	var names []string
	for _, def := range pageBlocks {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"pageBlockTitle", "pageBlockList", "pageBlockDetails", "pageBlockCover", "pageBlockAnchor"}, names)

	_, err = m.DefsWithType(&tl.Type{Name: "Missing"})
	assert.ErrorIs(t, err, ErrNoConstructors)

	assert.Equal(t, []string{"PageBlock", "RichText", "Anchor"}, m.TypeNames())
}

func TestMetadataDefault(t *testing.T) {
	defs := parseSchema(t, `
ipPort ipv4:int32 port:int32 = IpPort;
ipPortSecret port:ipPort secret:bytes = IpPort;
user id:int53 status:UserStatus = User;
userStatusEmpty = UserStatus;
file id:int32 remote:RemoteFile = File;
remoteFile id:string = RemoteFile;
chatPhoto small:file = ChatPhoto;
//@description A message @reply Information about the reply; may be null
message reply:MessageReplyTo = Message;
messageReplyToChat chat_id:int53 = MessageReplyTo;
a b:b = A;
b a:a = B;
---functions---
getUser user_id:int53 = User;
`)
	m := NewMetadata(defs, testBuiltin)

	want := map[string]bool{
		"ipPort":             true,
		"ipPortSecret":       true,
		"user":               false,
		"userStatusEmpty":    true,
		"file":               false,
		"remoteFile":         true,
		"chatPhoto":          false,
		"message":            true,
		"messageReplyToChat": true,
		"a":                  true,
		"b":                  true,
		"getUser":            false,
	}

	for _, def := range defs {
		t.Run(def.Name, func(t *testing.T) {
			assert.Equal(t, want[def.Name], m.CanDeriveDefault(def))
		})
	}
}

func TestMetadataValidate(t *testing.T) {
	ignored := func(t *tl.Type) bool { return t.Name == "Bool" }

	t.Run("complete schema", func(t *testing.T) {
		defs := parseSchema(t, pageSchema)
		m := NewMetadata(defs, testBuiltin)
		assert.NoError(t, m.Validate(defs, testBuiltinType, ignored))
	})

	t.Run("missing constructors", func(t *testing.T) {
		defs := parseSchema(t, `
foo bar:Missing baz:vector<AlsoMissing> = Foo;
---functions---
getFoo = Foo;
getGone = Gone;
setFoo x:Bool = Ok;
`)
		m := NewMetadata(defs, testBuiltin)
		err := m.Validate(defs, testBuiltinType, ignored)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoConstructors)
		assert.Contains(t, err.Error(), "Missing")
		assert.Contains(t, err.Error(), "AlsoMissing")
		assert.Contains(t, err.Error(), "Gone")
	})

	t.Run("generic type constructor", func(t *testing.T) {
		defs := parseSchema(t, `
wrapped {X:Type} query:!X = Wrapped;
---functions---
invokeWith {X:Type} query:!X = X;
`)
		m := NewMetadata(defs, testBuiltin)
		err := m.Validate(defs, testBuiltinType, ignored)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGenericConstructor)
		assert.Contains(t, err.Error(), "wrapped")
		assert.NotContains(t, err.Error(), "invokeWith")
	})
}
