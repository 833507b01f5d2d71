package tdjson

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
)

const (
	// Time allowed to write a message to the bridge
	writeWait = 10 * time.Second

	// Maximum response size accepted from the bridge
	maxMessageSize = 16 * 1024 * 1024
)

// WebSocketTransport talks to a tdjson bridge exchanging one JSON object
// per text frame. A `{"@type":"createClient"}` frame is answered with
// `{"@type":"clientId","id":N}`; requests carry their target in @client_id.
type WebSocketTransport struct {
	conn *websocket.Conn
	log  *zap.SugaredLogger

	writeMu  sync.Mutex
	createMu sync.Mutex

	incoming  chan []byte
	clientIDs chan int32
	closed    chan struct{}
	closeOnce sync.Once

	errMu   sync.Mutex
	readErr error
}

// DialWebSocket connects to the bridge at url.
func DialWebSocket(ctx context.Context, url string) (*WebSocketTransport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", url)
	}

	t := &WebSocketTransport{
		conn:      conn,
		log:       logger.ComponentLogger("tdjson"),
		incoming:  make(chan []byte, 64),
		clientIDs: make(chan int32),
		closed:    make(chan struct{}),
	}
	go t.readPump()

	t.log.Infow("Connected to tdjson bridge", logger.FieldURL, url)
	return t, nil
}

// readPump reads frames until the connection fails, routing clientId
// answers to CreateClient and everything else to Receive.
func (t *WebSocketTransport) readPump() {
	defer close(t.incoming)

	t.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.log.Warnw("Bridge connection closed unexpectedly", logger.FieldError, err)
			}
			t.errMu.Lock()
			t.readErr = err
			t.errMu.Unlock()
			return
		}

		var reply struct {
			Type string `json:"@type"`
			ID   int32  `json:"id"`
		}
		if json.Unmarshal(data, &reply) == nil && reply.Type == "clientId" {
			select {
			case t.clientIDs <- reply.ID:
			case <-t.closed:
				return
			}
			continue
		}

		select {
		case t.incoming <- data:
		case <-t.closed:
			return
		}
	}
}

// CreateClient asks the bridge for a new client. Calls are serialized so
// each answer reaches its caller.
func (t *WebSocketTransport) CreateClient(ctx context.Context) (int32, error) {
	t.createMu.Lock()
	defer t.createMu.Unlock()

	if err := t.write([]byte(`{"@type":"createClient"}`)); err != nil {
		return 0, err
	}

	select {
	case id := <-t.clientIDs:
		return id, nil
	case <-t.closed:
		return 0, errors.ErrClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Send adds @client_id to request and writes it as one frame.
func (t *WebSocketTransport) Send(ctx context.Context, clientID int32, request []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(request, &fields); err != nil {
		return errors.Wrap(err, "request is not a JSON object")
	}
	id, err := json.Marshal(clientID)
	if err != nil {
		return errors.Wrap(err, "failed to encode client id")
	}
	fields["@client_id"] = id

	data, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, "failed to encode request")
	}
	return t.write(data)
}

// Receive returns the next response frame, or nil, nil after timeout.
func (t *WebSocketTransport) Receive(ctx context.Context, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case data, ok := <-t.incoming:
		if !ok {
			return nil, t.err()
		}
		return data, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close sends a close frame and closes the connection.
func (t *WebSocketTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closed)

		t.writeMu.Lock()
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		t.writeMu.Unlock()

		err = t.conn.Close()
	})
	return err
}

func (t *WebSocketTransport) write(data []byte) error {
	select {
	case <-t.closed:
		return errors.ErrClosed
	default:
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return errors.Wrap(err, "failed to set write deadline")
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.Wrap(err, "failed to write frame")
	}
	return nil
}

func (t *WebSocketTransport) err() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	if t.readErr == nil {
		return errors.ErrClosed
	}
	return errors.Mark(errors.Wrap(t.readErr, "bridge connection lost"), errors.ErrClosed)
}
