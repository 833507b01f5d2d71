// Package tdjson is the runtime the generated bindings talk to: a transport
// to a tdjson client, a registry matching responses to waiting requests,
// and a Session tying both together.
//
// There is no process-wide state. A Session is constructed explicitly,
// started with Start and torn down with Close.
package tdjson

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Transport is the tdjson client contract.
type Transport interface {
	// CreateClient creates a new tdjson client and returns its identifier.
	CreateClient(ctx context.Context) (int32, error)

	// Send queues a serialized request for the given client.
	Send(ctx context.Context, clientID int32, request []byte) error

	// Receive waits up to timeout for the next serialized response.
	// It returns nil, nil when the timeout expires without a response.
	Receive(ctx context.Context, timeout time.Duration) ([]byte, error)
}

// envelope holds the routing fields of every response.
type envelope struct {
	Type     string          `json:"@type"`
	Extra    json.RawMessage `json:"@extra,omitempty"`
	ClientID int32           `json:"@client_id,omitempty"`
}

// token returns the @extra correlation token, or "" for untagged updates.
func (e *envelope) token() string {
	if len(e.Extra) == 0 || string(e.Extra) == "null" {
		return ""
	}
	var token string
	if err := json.Unmarshal(e.Extra, &token); err == nil {
		return token
	}
	return strings.TrimSpace(string(e.Extra))
}
