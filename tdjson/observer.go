package tdjson

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/tlgen/logger"
)

// Observer maps correlation tokens to the requests waiting on them.
// Each waiter is fulfilled at most once.
type Observer struct {
	mu      sync.Mutex
	pending map[string]chan json.RawMessage
	log     *zap.SugaredLogger
}

// NewObserver creates an empty registry.
func NewObserver() *Observer {
	return &Observer{
		pending: make(map[string]chan json.RawMessage),
		log:     logger.ComponentLogger("tdjson"),
	}
}

// Subscribe registers token and returns the channel its response is
// delivered on. The channel is closed without a value if the waiter is
// cancelled.
func (o *Observer) Subscribe(token string) <-chan json.RawMessage {
	ch := make(chan json.RawMessage, 1)

	o.mu.Lock()
	if prev, ok := o.pending[token]; ok {
		close(prev)
	}
	o.pending[token] = ch
	o.mu.Unlock()

	return ch
}

// Notify delivers payload to the waiter of token and reports whether one
// was registered. Unknown and already answered tokens only log a warning.
func (o *Observer) Notify(token string, payload json.RawMessage) bool {
	o.mu.Lock()
	ch, ok := o.pending[token]
	delete(o.pending, token)
	o.mu.Unlock()

	if !ok {
		o.log.Warnw("Got a response of an unknown request", logger.FieldToken, token)
		return false
	}

	ch <- payload
	close(ch)
	return true
}

// Cancel drops the waiter of token, closing its channel.
func (o *Observer) Cancel(token string) {
	o.mu.Lock()
	ch, ok := o.pending[token]
	delete(o.pending, token)
	o.mu.Unlock()

	if ok {
		close(ch)
	}
}

// CancelAll drops every waiter.
func (o *Observer) CancelAll() {
	o.mu.Lock()
	pending := o.pending
	o.pending = make(map[string]chan json.RawMessage)
	o.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}
}

// Pending returns the number of registered waiters.
func (o *Observer) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}
