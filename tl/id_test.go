package tl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferID(t *testing.T) {
	tests := []struct {
		definition string
		want       uint32
	}{
		{"rpc_answer_dropped msg_id:long seq_no:int bytes:int = RpcDropAnswer", 0xa43ad8b7},
		{"msgs_ack msg_ids:Vector<long> = MsgsAck", 0x62d6b459},
		{"invokeAfterMsg {X:Type} msg_id:long query:!X = X", 0xcb9f372d},
		{"inputMessagesFilterPhoneCalls flags:# missed:flags.0?true = MessagesFilter", 0x80c99768},
		{"inputFileLocation volume_id:long local_id:int secret:long file_reference:bytes = InputFileLocation", 0xdfdaabe1},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			assert.Equal(t, tt.want, InferID(tt.definition))
		})
	}
}

func TestInferIDCanonicalForms(t *testing.T) {
	// bytes is hashed as string
	assert.Equal(t,
		InferID("foo data:string = Foo"),
		InferID("foo data:bytes = Foo"))

	// ?true fields vanish entirely
	assert.Equal(t,
		InferID("foo flags:# = Foo"),
		InferID("foo flags:# a:flags.0?true b:flags.1?true = Foo"))
}

func TestCanonicalBodyIgnoresSpacing(t *testing.T) {
	compact := canonicalBody("msgs_ack", " msg_ids:Vector<long>", "MsgsAck")
	spread := canonicalBody("msgs_ack", "\n\t  msg_ids:Vector<long>  \n", "  MsgsAck ")

	assert.Equal(t, "msgs_ack msg_ids:Vector<long> = MsgsAck", compact)
	assert.Equal(t, compact, spread)
	assert.Equal(t, "a = d", canonicalBody("a", "", "d"))
}
