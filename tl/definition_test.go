package tl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefinitionErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmpty},
		{"blank", "  \n\t ", ErrEmpty},
		{"no name", " = foo", ErrMissingName},
		{"no equals", "foo", ErrMissingType},
		{"no type", "foo = ", ErrMissingType},
		{"bad type", "foo = Bar<baz", ErrMissingType},
		{"unimplemented", "int ? = Int", ErrNotImplemented},
		{"bad id", "foo#zz = Bar", ErrInvalidID},
		{"id only", "#1 = Bar", ErrMissingName},
		{"bad param", "foo :x = Bar", ErrEmptyParam},
		{"undeclared generic", "foo query:!X = Bar", ErrMissingDef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseDefinitionInvalidParam(t *testing.T) {
	_, err := ParseDefinition("foo a:b c:d<e = Bar")

	var invalid *InvalidParamError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "c:d<e", invalid.Param)
	assert.ErrorIs(t, err, ErrInvalidGeneric)
}

func TestParseDefinitionValid(t *testing.T) {
	def, err := ParseDefinition("a=d")
	require.NoError(t, err)
	assert.Equal(t, "a", def.Name)
	assert.Empty(t, def.Params)
	assert.Equal(t, &Type{Name: "d", Bare: true}, def.Type)
	assert.Equal(t, Types, def.Category)

	def, err = ParseDefinition("a=d<e>")
	require.NoError(t, err)
	assert.Equal(t, &Type{Name: "d", Bare: true, GenericArg: &Type{Name: "e", Bare: true}}, def.Type)

	def, err = ParseDefinition("a b:c = d")
	require.NoError(t, err)
	assert.Len(t, def.Params, 1)
	assert.Equal(t, "b", def.Params[0].Name)
}

func TestParseDefinitionMultiline(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"\n    first lol:param\n      = t", "first"},
		{"\n    second\n      lol:String\n    = t", "second"},
		{"\n    third\n\n      lol:String\n\n    =\n             t", "third"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			def, err := ParseDefinition(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, def.Name)
			require.Len(t, def.Params, 1)
			assert.Equal(t, "lol", def.Params[0].Name)
			assert.Equal(t, "t", def.Type.Name)
		})
	}
}

func TestParseDefinitionComplete(t *testing.T) {
	input := "\n    //@description This is a test description\n    name pname:Vector<X> = Type"

	def, err := ParseDefinition(input)
	require.NoError(t, err)

	want := &Definition{
		Name:        "name",
		ID:          InferID("name pname:Vector<X> = Type"),
		Description: "This is a test description",
		Params: []*Parameter{{
			Name: "pname",
			Type: &Type{Name: "Vector", GenericArg: &Type{Name: "X"}},
		}},
		Type:     &Type{Name: "Type"},
		Category: Types,
	}
	assert.Equal(t, want, def)
}

func TestParseDefinitionDocs(t *testing.T) {
	t.Run("parameter descriptions", func(t *testing.T) {
		input := "//@description Contains a user @id User identifier @first_name First name of the user\n" +
			"user id:int53 first_name:string = User"

		def, err := ParseDefinition(input)
		require.NoError(t, err)
		assert.Equal(t, "Contains a user", def.Description)
		require.Len(t, def.Params, 2)
		assert.Equal(t, "User identifier", def.Params[0].Description)
		assert.Equal(t, "First name of the user", def.Params[1].Description)
	})

	t.Run("parameter named description", func(t *testing.T) {
		input := "//@description Chat info @param_description Text of the chat description\n" +
			"chatInfo description:string = ChatInfo"

		def, err := ParseDefinition(input)
		require.NoError(t, err)
		assert.Equal(t, "Chat info", def.Description)
		assert.Equal(t, "Text of the chat description", def.Params[0].Description)
	})

	t.Run("continuation lines", func(t *testing.T) {
		input := "//@description First line\n//-second line\n//@text Some text; may be null\nfoo text:string = Bar"

		def, err := ParseDefinition(input)
		require.NoError(t, err)
		assert.Equal(t, "First line\nsecond line", def.Description)
		assert.Equal(t, "Some text; may be null", def.Params[0].Description)
	})
}

func TestParseDefinitionIDs(t *testing.T) {
	def, err := ParseDefinition("first#1 = t")
	require.NoError(t, err)
	assert.Equal(t, "first", def.Name)
	assert.Equal(t, uint32(1), def.ID)

	def, err = ParseDefinition("msgs_ack   msg_ids:Vector<long>\n    = MsgsAck")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x62d6b459), def.ID)
}

func TestParseDefinitionGenerics(t *testing.T) {
	def, err := ParseDefinition("invokeAfterMsg {X:Type} msg_id:long query:!X = X")
	require.NoError(t, err)

	assert.Equal(t, uint32(0xcb9f372d), def.ID)
	assert.Equal(t, []string{"X"}, def.TypeDefs)
	require.Len(t, def.Params, 2)
	assert.False(t, def.Params[0].Type.GenericRef)
	assert.True(t, def.Params[1].Type.GenericRef)
	assert.True(t, def.Type.GenericRef)
	assert.Equal(t, "invokeAfterMsg#cb9f372d {X:Type} msg_id:long query:!X = X", def.String())
}

func TestDefinitionString(t *testing.T) {
	def, err := ParseDefinition("name pname:Vector<X> = Type")
	require.NoError(t, err)

	want := fmt.Sprintf("name#%x pname:Vector<X> = Type", InferID("name pname:Vector<X> = Type"))
	assert.Equal(t, want, def.String())
}

func TestDefinitionRoundTrip(t *testing.T) {
	inputs := []string{
		"a=d",
		"first#1 = t",
		"name pname:Vector<X> = Type",
		"invokeAfterMsg {X:Type} msg_id:long query:!X = X",
		"inputMessagesFilterPhoneCalls flags:# missed:flags.0?true = MessagesFilter",
		"//@description Contains a user @id User identifier\nuser id:int53 = User",
		"//@description First line\n//-second line\nfoo bar:vector<string> = Bar",
		"//@description Chat info @param_description Text\nchatInfo description:string = ChatInfo",
		"storage.fileJpeg = storage.FileType",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			def, err := ParseDefinition(input)
			require.NoError(t, err)

			again, err := ParseDefinition(def.Source())
			require.NoError(t, err)
			assert.True(t, def.Equal(again), "%s\n!=\n%s", def.Source(), again.Source())
		})
	}
}

func TestDefinitionNamespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user = User", ""},
		{"storage.fileJpeg = storage.FileType", "storage"},
		{"a.b.c = D", "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			def, err := ParseDefinition(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, def.Namespace())
		})
	}
}
