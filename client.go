package rawr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// CallerOf performs one correlated request/response exchange.
type CallerOf[Req, Res any] interface {
	Call(ctx context.Context, req Req) (Res, error)
}

// Caller is the method-tagged caller that generated clients are built on.
type Caller = CallerOf[Message, Message]

// CallerFunc adapts a function to CallerOf.
type CallerFunc[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Call implements CallerOf.
func (f CallerFunc[Req, Res]) Call(ctx context.Context, req Req) (Res, error) {
	return f(ctx, req)
}

// SendFunc hands an outgoing request envelope to a transport.
type SendFunc[Req any] func(ctx context.Context, env Envelope[Req]) error

// ClientOption configures a Client or CallbackClient.
type ClientOption func(*clientConfig)

type clientConfig struct {
	logger *slog.Logger
}

// WithClientLogger sets the logger used for dropped responses and cancellation.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

func newClientConfig(opts []ClientOption) clientConfig {
	cfg := clientConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

// Client correlates responses with requests through a PendingTable.
//
// Call sends a request and blocks only the calling goroutine until
// HandleResponse delivers the envelope with the same id. The transport feeds
// every inbound response envelope into HandleResponse.
type Client[Req, Res any] struct {
	pending *PendingTable[Res]
	send    SendFunc[Req]
	logger  *slog.Logger
}

// NewClient returns a Client that sends requests with send.
func NewClient[Req, Res any](send SendFunc[Req], opts ...ClientOption) *Client[Req, Res] {
	cfg := newClientConfig(opts)
	return &Client[Req, Res]{
		pending: NewPendingTable[Res](),
		send:    send,
		logger:  cfg.logger,
	}
}

// Call sends req under a fresh id and waits for its response.
// If ctx is done first, the pending entry is removed and ctx's error returned.
func (c *Client[Req, Res]) Call(ctx context.Context, req Req) (Res, error) {
	var zero Res
	id, done, err := c.pending.Insert()
	if err != nil {
		return zero, err
	}
	if err := c.send(ctx, Envelope[Req]{ID: id, Data: req}); err != nil {
		c.pending.Remove(id)
		return zero, err
	}
	return await(ctx, c.pending, id, done)
}

// HandleResponse resolves the call waiting for env.ID. Responses for unknown
// or already completed ids, and any response after CancelAllPending, are
// dropped without touching the table.
func (c *Client[Req, Res]) HandleResponse(env Envelope[Res]) bool {
	if !c.pending.Resolve(env.ID, env.Data) {
		c.logger.Debug("dropping response for unknown request id", slog.Uint64("id", uint64(env.ID)))
		return false
	}
	return true
}

// HandleError rejects the call waiting for id with err.
func (c *Client[Req, Res]) HandleError(id ReqID, err error) bool {
	if !c.pending.Reject(id, err) {
		c.logger.Debug("dropping error for unknown request id", slog.Uint64("id", uint64(id)), slog.Any("error", err))
		return false
	}
	return true
}

// CancelAllPending rejects every outstanding call with reason and closes the
// client: later calls fail immediately with reason. A nil reason means
// ErrConnectionClosed. It returns the number of calls rejected.
func (c *Client[Req, Res]) CancelAllPending(reason error) int {
	n := c.pending.CancelAll(reason)
	if n > 0 {
		c.logger.Debug("cancelled pending calls", slog.Int("count", n), slog.Any("reason", reason))
	}
	return n
}

// Pending returns the number of calls awaiting a response.
func (c *Client[Req, Res]) Pending() int {
	return c.pending.Len()
}

// HandleFunc forwards a request envelope to a peer and arranges for respond
// to be called with the response envelope. respond may be called from any
// goroutine, at most once per request.
type HandleFunc[Req, Res any] func(env Envelope[Req], respond func(Envelope[Res]))

// CallbackClient correlates responses delivered through a per-request
// callback rather than a shared inbound stream.
type CallbackClient[Req, Res any] struct {
	pending *PendingTable[Res]
	handle  HandleFunc[Req, Res]
	logger  *slog.Logger
}

// NewCallbackClient returns a CallbackClient that forwards requests to handle.
func NewCallbackClient[Req, Res any](handle HandleFunc[Req, Res], opts ...ClientOption) *CallbackClient[Req, Res] {
	cfg := newClientConfig(opts)
	return &CallbackClient[Req, Res]{
		pending: NewPendingTable[Res](),
		handle:  handle,
		logger:  cfg.logger,
	}
}

// Call forwards req under a fresh id and waits for its response.
func (c *CallbackClient[Req, Res]) Call(ctx context.Context, req Req) (Res, error) {
	var zero Res
	id, done, err := c.pending.Insert()
	if err != nil {
		return zero, err
	}
	c.handle(Envelope[Req]{ID: id, Data: req}, c.respond)
	return await(ctx, c.pending, id, done)
}

func (c *CallbackClient[Req, Res]) respond(env Envelope[Res]) {
	if !c.pending.Resolve(env.ID, env.Data) {
		c.logger.Debug("dropping response for unknown request id", slog.Uint64("id", uint64(env.ID)))
	}
}

// CancelAllPending rejects every outstanding call with reason and closes the client.
func (c *CallbackClient[Req, Res]) CancelAllPending(reason error) int {
	return c.pending.CancelAll(reason)
}

// Pending returns the number of calls awaiting a response.
func (c *CallbackClient[Req, Res]) Pending() int {
	return c.pending.Len()
}

func await[T any](ctx context.Context, p *PendingTable[T], id ReqID, done <-chan Outcome[T]) (T, error) {
	select {
	case out := <-done:
		return out.Value, out.Err
	case <-ctx.Done():
		if p.Remove(id) {
			var zero T
			return zero, ctx.Err()
		}
		// Completed concurrently; the outcome is already buffered.
		out := <-done
		return out.Value, out.Err
	}
}

// Unwrap turns a caller whose responses are Result-wrapped into a plain
// Caller. An Err result becomes a handler_failure *Error.
func Unwrap(c CallerOf[Message, Result[Message]]) Caller {
	return CallerFunc[Message, Message](func(ctx context.Context, req Message) (Message, error) {
		res, err := c.Call(ctx, req)
		if err != nil {
			return Message{}, err
		}
		if res.Err != nil {
			var rpcErr *Error
			if errors.As(res.Err, &rpcErr) {
				return Message{}, rpcErr
			}
			return Message{}, WrapError(CodeHandlerFailure, res.Err)
		}
		return res.Value, nil
	})
}

// Invoke is used by generated clients. It sends args as the payload of the
// method arm, checks that the response arm carries the same method, and
// decodes its payload into out (which may be nil).
func Invoke(ctx context.Context, c Caller, method string, args any, out any) error {
	req, err := NewMessage(method, args)
	if err != nil {
		return WrapError(CodeInvalidArgument, err)
	}
	res, err := c.Call(ctx, req)
	if err != nil {
		return err
	}
	if res.Method != method {
		return Errorf(CodeProtocolMismatch, "expected %s response, got %q", method, res.Method).
			WithDetail("method", method)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.Payload, out); err != nil {
		return Errorf(CodeProtocolMismatch, "decode %s response: %v", method, err)
	}
	return nil
}
