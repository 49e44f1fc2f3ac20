package rawr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ConnOption configures a Conn.
type ConnOption func(*connConfig)

type connConfig struct {
	logger         *slog.Logger
	resultEnvelope bool
}

// WithConnLogger sets the connection logger.
func WithConnLogger(logger *slog.Logger) ConnOption {
	return func(c *connConfig) {
		c.logger = logger
	}
}

// WithResultEnvelope expects response data wrapped in a Result, as produced
// by servers using PolicyWrap. Err results fail the call with a
// handler_failure error.
func WithResultEnvelope() ConnOption {
	return func(c *connConfig) {
		c.resultEnvelope = true
	}
}

// Conn is the client end of a connection: a Caller whose responses arrive
// over a Transport.
//
// When the transport closes or fails, every pending call is rejected with a
// connection_closed error, exactly once, and later calls fail immediately.
type Conn struct {
	id        string
	transport Transport
	logger    *slog.Logger

	caller  Caller
	deliver func(data []byte)
	cancel  func(reason error) int
	pending func() int

	closeOnce sync.Once
	done      chan struct{}
	err       error
}

// Dial binds a Conn to t and waits until t is ready.
func Dial(ctx context.Context, t Transport, opts ...ConnOption) (*Conn, error) {
	cfg := connConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	c := &Conn{
		id:        uuid.NewString(),
		transport: t,
		done:      make(chan struct{}),
	}
	c.logger = cfg.logger.With(slog.String("conn", c.id))

	if cfg.resultEnvelope {
		c.caller = Unwrap(bindClient[Result[Message]](c))
	} else {
		c.caller = bindClient[Message](c)
	}

	t.OnReceive(c.deliver)
	t.OnClose(c.closed)

	if err := t.Ready(ctx); err != nil {
		t.Close()
		c.closed(err)
		return nil, fmt.Errorf("transport not ready: %w", err)
	}
	c.logger.Debug("connection ready")
	return c, nil
}

func bindClient[Res any](c *Conn) *Client[Message, Res] {
	cl := NewClient[Message, Res](c.send, WithClientLogger(c.logger))
	c.deliver = func(data []byte) {
		var env Envelope[json.RawMessage]
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("dropping malformed envelope", slog.Any("error", err))
			return
		}
		var res Res
		if err := json.Unmarshal(env.Data, &res); err != nil {
			cl.HandleError(env.ID, Errorf(CodeProtocolMismatch, "decode response: %v", err))
			return
		}
		cl.HandleResponse(Envelope[Res]{ID: env.ID, Data: res})
	}
	c.cancel = cl.CancelAllPending
	c.pending = cl.Pending
	return cl
}

func (c *Conn) send(ctx context.Context, env Envelope[Message]) error {
	data, err := json.Marshal(env)
	if err != nil {
		return WrapError(CodeInvalidArgument, err)
	}
	if err := c.transport.Send(ctx, data); err != nil {
		return &Error{Code: CodeConnectionClosed, Message: "send: " + err.Error(), cause: err}
	}
	return nil
}

func (c *Conn) closed(err error) {
	c.closeOnce.Do(func() {
		reason := ErrConnectionClosed
		if err != nil {
			reason = &Error{Code: CodeConnectionClosed, Message: "connection closed: " + err.Error(), cause: err}
		}
		n := c.cancel(reason)
		c.err = reason
		close(c.done)
		c.logger.Debug("connection closed", slog.Int("pending", n), slog.Any("error", err))
	})
}

// Call sends req and waits for the correlated response.
func (c *Conn) Call(ctx context.Context, req Message) (Message, error) {
	return c.caller.Call(ctx, req)
}

// ID returns the connection id used in logs.
func (c *Conn) ID() string { return c.id }

// Pending returns the number of calls awaiting a response.
func (c *Conn) Pending() int { return c.pending() }

// Done is closed once the connection has closed.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Err returns the reason the connection closed, or nil while it is open.
func (c *Conn) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Close closes the transport and rejects every pending call.
func (c *Conn) Close() error {
	err := c.transport.Close()
	c.closed(nil)
	return err
}
