// Package websocket carries envelopes over WebSocket connections, one text
// frame per envelope.
//
// Servers mount Handler, which upgrades the request, picks the service named
// by the "service" query parameter and runs rawr.Serve on the connection.
// Clients use Dial and pass the returned Transport to rawr.Dial.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Send and Ready once the connection has closed.
var ErrClosed = errors.New("websocket: transport closed")

var errStopped = errors.New("websocket: stopped")

const (
	sendQueueSize       = 16
	closeGracePeriod    = time.Second
	defaultWriteTimeout = 10 * time.Second
)

// OriginPolicy decides which browser origins may open a connection.
type OriginPolicy struct {
	// AllowOrigins is a list of origins a connection can be opened from.
	// If the list contains "*", all origins are allowed.
	// Requests without an Origin header (non-browser clients) are always allowed.
	// Default: ["*"]
	AllowOrigins []string
}

// AllowAllOrigins is a permissive policy suitable for development.
var AllowAllOrigins *OriginPolicy = nil

func (p *OriginPolicy) allow(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if p == nil || len(p.AllowOrigins) == 0 {
		return true
	}
	return slices.Contains(p.AllowOrigins, "*") || slices.Contains(p.AllowOrigins, origin)
}

// Option configures Handler, Dial and the transports they create.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	origins      *OriginPolicy
	writeTimeout time.Duration
	dialer       *gorilla.Dialer
	header       http.Header
}

func newOptions(opts []Option) options {
	o := options{
		logger:       slog.Default(),
		writeTimeout: defaultWriteTimeout,
		dialer:       gorilla.DefaultDialer,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithLogger sets the logger for connection lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOriginPolicy restricts the origins Handler accepts.
func WithOriginPolicy(p *OriginPolicy) Option {
	return func(o *options) {
		o.origins = p
	}
}

// WithWriteTimeout bounds each frame write. Zero disables the deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.writeTimeout = d
	}
}

// WithDialer sets the dialer used by Dial.
func WithDialer(d *gorilla.Dialer) Option {
	return func(o *options) {
		if d != nil {
			o.dialer = d
		}
	}
}

// WithHeader adds headers to the upgrade request sent by Dial.
func WithHeader(h http.Header) Option {
	return func(o *options) {
		o.header = h
	}
}

// Transport is a rawr.Transport over one WebSocket connection.
type Transport struct {
	conn         *gorilla.Conn
	logger       *slog.Logger
	writeTimeout time.Duration

	send       chan []byte
	closing    chan struct{}
	done       chan struct{}
	registered chan struct{}
	regOnce    sync.Once
	closeOnce  sync.Once

	mu        sync.Mutex
	onReceive func([]byte)
	onClose   func(error)
	finished  bool
	err       error
}

func newTransport(conn *gorilla.Conn, o options) *Transport {
	t := &Transport{
		conn:         conn,
		logger:       o.logger,
		writeTimeout: o.writeTimeout,
		send:         make(chan []byte, sendQueueSize),
		closing:      make(chan struct{}),
		done:         make(chan struct{}),
		registered:   make(chan struct{}),
	}
	go t.run()
	return t
}

// Ready reports ErrClosed once the connection has closed. A dialed or
// upgraded connection is otherwise ready.
func (t *Transport) Ready(ctx context.Context) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
		return ctx.Err()
	}
}

// Send queues data as one text frame.
func (t *Transport) Send(ctx context.Context, data []byte) error {
	msg := append([]byte(nil), data...)
	select {
	case <-t.done:
		return ErrClosed
	case <-t.closing:
		return ErrClosed
	default:
	}
	select {
	case t.send <- msg:
		return nil
	case <-t.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnReceive registers fn and starts reading frames.
func (t *Transport) OnReceive(fn func([]byte)) {
	t.mu.Lock()
	t.onReceive = fn
	t.mu.Unlock()
	t.regOnce.Do(func() { close(t.registered) })
}

// OnClose registers fn. If the connection has already closed, fn runs immediately.
func (t *Transport) OnClose(fn func(error)) {
	t.mu.Lock()
	t.onClose = fn
	finished, err := t.finished, t.err
	t.mu.Unlock()
	if finished {
		fn(err)
	}
}

// Close shuts the connection down. Frames queued by Send before Close are
// still written, for up to one second, ahead of the close frame.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() { close(t.closing) })
	return nil
}

// Done is closed when the connection has shut down.
func (t *Transport) Done() <-chan struct{} { return t.done }

func (t *Transport) run() {
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return t.readPump(ctx) })
	g.Go(func() error { return t.writePump(ctx) })
	err := g.Wait()
	t.conn.Close()
	if errors.Is(err, errStopped) {
		err = nil
	}
	t.finish(err)
}

func (t *Transport) readPump(ctx context.Context) error {
	select {
	case <-t.registered:
	case <-t.closing:
		return errStopped
	case <-ctx.Done():
		return nil
	}
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			select {
			case <-t.closing:
				return errStopped
			default:
			}
			if gorilla.IsCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
				return errStopped
			}
			return fmt.Errorf("websocket read: %w", err)
		}
		t.mu.Lock()
		fn := t.onReceive
		t.mu.Unlock()
		fn(data)
	}
}

func (t *Transport) writePump(ctx context.Context) error {
	for {
		select {
		case data := <-t.send:
			if t.writeTimeout > 0 {
				t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
			}
			if err := t.conn.WriteMessage(gorilla.TextMessage, data); err != nil {
				return fmt.Errorf("websocket write: %w", err)
			}
		case <-t.closing:
			return t.shutdown()
		case <-ctx.Done():
			// The reader stops as soon as Close is called, so closing
			// may also be ready.
			select {
			case <-t.closing:
				return t.shutdown()
			default:
				return nil
			}
		}
	}
}

func (t *Transport) shutdown() error {
	deadline := time.Now().Add(closeGracePeriod)
	t.drain(deadline)
	msg := gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "")
	if err := t.conn.WriteControl(gorilla.CloseMessage, msg, deadline); err != nil {
		t.logger.Debug("failed to send close frame", slog.Any("error", err))
	}
	// Unblocks the reader.
	t.conn.Close()
	return errStopped
}

// drain writes the frames still queued when Close was called, giving up at
// deadline.
func (t *Transport) drain(deadline time.Time) {
	t.conn.SetWriteDeadline(deadline)
	for {
		select {
		case data := <-t.send:
			if err := t.conn.WriteMessage(gorilla.TextMessage, data); err != nil {
				t.logger.Debug("dropping queued frames on close", slog.Any("error", err), slog.Int("queued", len(t.send)))
				return
			}
		default:
			return
		}
	}
}

func (t *Transport) finish(err error) {
	t.mu.Lock()
	t.finished = true
	t.err = err
	fn := t.onClose
	t.mu.Unlock()
	close(t.done)
	if err != nil {
		t.logger.Debug("websocket closed with error", slog.Any("error", err))
	}
	if fn != nil {
		fn(err)
	}
}
