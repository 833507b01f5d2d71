package tdjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
)

const (
	// DefaultReceiveTimeout is how long one Receive call waits, matching tdjson's 2s poll
	DefaultReceiveTimeout = 2 * time.Second

	defaultUpdateBuffer = 256
)

// Update is a response that does not answer a request.
type Update struct {
	ClientID int32
	Type     string
	Payload  json.RawMessage
}

// ResponseError is the `error` object tdjson answers a failed request with.
type ResponseError struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("tdjson error %d: %s", e.Code, e.Message)
}

// Option configures a Session.
type Option func(*Session)

// WithReceiveTimeout sets the timeout of each Receive call of the loop.
func WithReceiveTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		if timeout > 0 {
			s.receiveTimeout = timeout
		}
	}
}

// WithRateLimit limits outgoing requests. A non-positive rate disables the limit.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(s *Session) {
		if requestsPerSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), max(burst, 1))
	}
}

// WithUpdateBuffer sets the capacity of the Updates channel.
func WithUpdateBuffer(size int) Option {
	return func(s *Session) {
		if size >= 0 {
			s.updateBuffer = size
		}
	}
}

// Session sends requests over a Transport and routes each response either
// to the request carrying the same @extra token or to Updates.
type Session struct {
	transport      Transport
	observer       *Observer
	limiter        *rate.Limiter
	receiveTimeout time.Duration
	updateBuffer   int
	updates        chan Update
	log            *zap.SugaredLogger

	startOnce sync.Once
	closeOnce sync.Once
	closed    atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewSession creates a session over transport. Call Start before sending.
func NewSession(transport Transport, opts ...Option) *Session {
	s := &Session{
		transport:      transport,
		observer:       NewObserver(),
		limiter:        rate.NewLimiter(rate.Inf, 0),
		receiveTimeout: DefaultReceiveTimeout,
		updateBuffer:   defaultUpdateBuffer,
		log:            logger.ComponentLogger("tdjson"),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.updates = make(chan Update, s.updateBuffer)
	return s
}

// Start launches the receive loop. It runs until ctx is done or Close is called.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, s.cancel = context.WithCancel(ctx)
		go s.receiveLoop(ctx)
	})
}

// Close stops the receive loop, releases every waiting request with
// ErrClosed and closes the transport if it is closable.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		// never started: nothing will close done
		s.startOnce.Do(func() {
			s.cancel = func() {}
			close(s.done)
			close(s.updates)
		})

		s.cancel()
		<-s.done
		s.observer.CancelAll()

		if closer, ok := s.transport.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return err
}

// Updates returns the channel of untagged responses. It is closed when the
// receive loop stops.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// CreateClient creates a tdjson client through the transport.
func (s *Session) CreateClient(ctx context.Context) (int32, error) {
	if s.closed.Load() {
		return 0, errors.ErrClosed
	}
	id, err := s.transport.CreateClient(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create client")
	}
	s.log.Debugw("Created client", logger.FieldClientID, id)
	return id, nil
}

// Send tags request with a fresh @extra token, sends it to clientID and
// waits for the response carrying the same token. An `error` response is
// returned as *ResponseError.
func (s *Session) Send(ctx context.Context, clientID int32, request map[string]any) (json.RawMessage, error) {
	if s.closed.Load() {
		return nil, errors.ErrClosed
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait")
	}

	token := uuid.NewString()
	tagged := maps.Clone(request)
	if tagged == nil {
		tagged = make(map[string]any, 1)
	}
	tagged["@extra"] = token

	data, err := json.Marshal(tagged)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	responses := s.observer.Subscribe(token)
	if s.closed.Load() {
		s.observer.Cancel(token)
		return nil, errors.ErrClosed
	}
	start := time.Now()
	if err := s.transport.Send(ctx, clientID, data); err != nil {
		s.observer.Cancel(token)
		return nil, errors.Wrapf(err, "failed to send request to client %d", clientID)
	}

	select {
	case response, ok := <-responses:
		if !ok {
			return nil, errors.ErrClosed
		}
		s.log.Debugw("Request answered",
			logger.FieldToken, token,
			logger.FieldClientID, clientID,
			logger.FieldDurationMS, time.Since(start).Milliseconds())
		return response, responseError(response)
	case <-s.done:
		s.observer.Cancel(token)
		return nil, errors.Wrapf(errors.ErrClosed, "session stopped before %v was answered", request["@type"])
	case <-ctx.Done():
		s.observer.Cancel(token)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Mark(
				errors.Wrapf(ctx.Err(), "no response to %v from client %d", request["@type"], clientID),
				errors.ErrTimeout)
		}
		return nil, ctx.Err()
	}
}

func responseError(response json.RawMessage) error {
	var env envelope
	if err := json.Unmarshal(response, &env); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	if env.Type != "error" {
		return nil
	}
	respErr := &ResponseError{}
	if err := json.Unmarshal(response, respErr); err != nil {
		return errors.Wrap(err, "failed to decode error response")
	}
	return respErr
}

func (s *Session) receiveLoop(ctx context.Context) {
	defer close(s.done)
	defer close(s.updates)
	defer func() {
		// nothing answers once the loop is gone
		s.closed.Store(true)
		s.observer.CancelAll()
	}()

	for ctx.Err() == nil {
		data, err := s.transport.Receive(ctx, s.receiveTimeout)
		if err != nil {
			if ctx.Err() == nil {
				s.log.Errorw("Receive failed, stopping session", logger.FieldError, err)
			}
			return
		}
		if data == nil {
			continue
		}
		s.dispatch(ctx, data)
	}
}

func (s *Session) dispatch(ctx context.Context, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.log.Warnw("Received an unknown response", logger.FieldError, err, logger.FieldBytes, len(data))
		return
	}

	if token := env.token(); token != "" {
		s.observer.Notify(token, data)
		return
	}

	select {
	case s.updates <- Update{ClientID: env.ClientID, Type: env.Type, Payload: data}:
	case <-ctx.Done():
	}
}
