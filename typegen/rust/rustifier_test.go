package rust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tlgen/tl"
)

func mustDefinition(t *testing.T, source string) *tl.Definition {
	t.Helper()
	def, err := tl.ParseDefinition(source)
	require.NoError(t, err)
	return def
}

func mustType(t *testing.T, source string) *tl.Type {
	t.Helper()
	ty, err := tl.ParseType(source)
	require.NoError(t, err)
	return ty
}

func mustParam(t *testing.T, source, description string) *tl.Parameter {
	t.Helper()
	param, err := tl.ParseParameter(source)
	require.NoError(t, err)
	param.Description = description
	return param
}

func TestDefinitionNames(t *testing.T) {
	tests := []struct {
		source   string
		typeName string
		qualName string
		variant  string
	}{
		{"userEmpty = User", "UserEmpty", "crate::types::UserEmpty", "Empty"},
		{"new_session_created = NewSession", "NewSessionCreated", "crate::types::NewSessionCreated", "Created"},
		{"true = True", "True", "crate::types::True", "True"},
		{"inputPeerSelf = InputPeer", "InputPeerSelf", "crate::types::InputPeerSelf", "PeerSelf"},
		{"user id:int53 = User", "User", "crate::types::User", "User"},
		{"storage.fileJpeg = storage.FileType", "FileJpeg", "crate::types::storage::FileJpeg", "FileJpeg"},
		{"userStatusOnline expires:int32 = UserStatus", "UserStatusOnline", "crate::types::UserStatusOnline", "Online"},
		{"users total_count:int32 = Users", "Users", "crate::types::Users", "Users"},
		{"chatListFilterx = ChatListFilter", "ChatListFilterx", "crate::types::ChatListFilterx", "ChatListFilterx"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			def := mustDefinition(t, tt.source)
			assert.Equal(t, tt.typeName, defTypeName(def))
			assert.Equal(t, tt.qualName, defQualName(def))
			assert.Equal(t, tt.variant, defVariantName(def))
		})
	}
}

func TestDefFunctionName(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"getMe = User", "get_me"},
		{"close = Ok", "close"},
		{"loop = Ok", "r#loop"},
		{"storage.getFileType = storage.FileType", "get_file_type"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, defFunctionName(mustDefinition(t, tt.source)))
		})
	}
}

func TestTypeQualName(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"InputPeer", "crate::enums::InputPeer"},
		{"ipPort", "crate::types::IpPort"},
		{"storage.FileType", "crate::enums::storage::FileType"},
		{"bytes", "String"},
		{"int", "i32"},
		{"int256", "[u8; 32]"},
		{"int128", "[u8; 16]"},
		{"vector<long>", "Vec<i64>"},
		{"Vector<Bool>", "Vec<bool>"},
		{"vector<vector<Message>>", "Vec<Vec<crate::enums::Message>>"},
		{"Ok", "()"},
		{"!X", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, typeQualName(mustType(t, tt.source), false))
		})
	}
}

func TestTypeQualNameOptionalArg(t *testing.T) {
	ty := mustType(t, "vector<Message>")
	assert.Equal(t, "Vec<Option<crate::enums::Message>>", typeQualName(ty, true))
}

func TestReturnName(t *testing.T) {
	assert.Equal(t, "X::Return", returnName(mustType(t, "!X")))
	assert.Equal(t, "crate::enums::User", returnName(mustType(t, "User")))
	assert.Equal(t, "()", returnName(mustType(t, "Ok")))
}

func TestSerdeAs(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"int64", "DisplayFromStr"},
		{"vector<int64>", "Vec<DisplayFromStr>"},
		{"vector<vector<int64>>", "Vec<Vec<DisplayFromStr>>"},
		{"int53", ""},
		{"vector<string>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, serdeAs(mustType(t, tt.source)))
		})
	}
}

func TestParameterRendering(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		description string
		attr        string
		typeName    string
		serdeAs     string
		optional    bool
		builtin     bool
	}{
		{"plain", "pts:int", "", "pts", "i32", "", false, true},
		{"snake case", "access_hash:long", "", "access_hash", "i64", "", false, true},
		{"self", "self:Bool", "", "is_self", "bool", "", false, true},
		{"keyword", "type:UserType", "", "r#type", "crate::enums::UserType", "", false, false},
		{"raw forbidden", "crate:string", "", "crate_", "String", "", false, true},
		{"mixed case", "Access_Hash:long", "", "access_hash", "i64", "", false, true},
		{"may be null", "photo:ProfilePhoto", "Profile photo; may be null", "photo", "Option<crate::enums::ProfilePhoto>", "", true, true},
		{"pass null", "filter:SearchMessagesFilter", "Filter; pass null to search all", "filter", "Option<crate::enums::SearchMessagesFilter>", "", true, true},
		{"messages may be null", "messages:vector<Message>", "List of messages; messages may be null", "messages", "Vec<Option<crate::enums::Message>>", "", false, true},
		{"optional int64", "ttl:int64", "TTL; may be null", "ttl", "Option<i64>", "Option<DisplayFromStr>", true, true},
		{"flag", "reply_to:flags.1?int", "", "reply_to", "Option<i32>", "", true, true},
		{"flag true", "silent:flags.0?true", "", "silent", "bool", "", false, true},
		{"flags", "flags:#", "", "flags", "#", "", false, true},
		{"bare", "address:ipPort", "", "address", "crate::types::IpPort", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			param := mustParam(t, tt.source, tt.description)
			assert.Equal(t, tt.attr, attrName(param))
			if !param.IsFlags() {
				assert.Equal(t, tt.typeName, paramTypeName(param))
			}
			assert.Equal(t, tt.serdeAs, paramSerdeAs(param))
			assert.Equal(t, tt.optional, isOptional(param))
			assert.Equal(t, tt.builtin, isBuiltinParam(param))
		})
	}
}

func TestBotsOnly(t *testing.T) {
	def := mustDefinition(t, "botCommand command:string = BotCommand")
	assert.False(t, defBotsOnly(def))
	def.Description = "A bot command; for bots only"
	assert.True(t, defBotsOnly(def))

	assert.True(t, paramBotsOnly(mustParam(t, "secret:string", "Secret; for bots only")))
	assert.False(t, paramBotsOnly(mustParam(t, "name:string", "Name")))
}

func TestGenericParams(t *testing.T) {
	def := mustDefinition(t, "invokeWithLayer {X:Type} layer:int query:!X = X")
	assert.Equal(t, "<X: crate::RemoteCall>", genericParams(def))
	assert.Empty(t, genericParams(mustDefinition(t, "getMe = User")))
}

func TestHashAndIgnore(t *testing.T) {
	assert.True(t, defHash(mustDefinition(t, "chatListFilter chat_filter_id:int32 = ChatList")))
	assert.True(t, defHash(mustDefinition(t, "chatListFolder chat_folder_id:int32 = ChatList")))
	assert.False(t, defHash(mustDefinition(t, "chatListMain = ChatList")))
	assert.True(t, typeHash(mustType(t, "ChatList")))
	assert.True(t, ignoreType(mustType(t, "Bool")))
	assert.False(t, ignoreType(mustType(t, "User")))
}

func TestRustDoc(t *testing.T) {
	assert.Equal(t, "    /// first\n    /// second", rustDoc("    ", "first\nsecond"))
	assert.Equal(t, "/// single", rustDoc("", "single"))
}
