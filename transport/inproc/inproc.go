// Package inproc provides an in-memory transport pair for connecting a client
// and a server inside one process.
package inproc

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Send and Ready after either end has closed.
var ErrClosed = errors.New("inproc: transport closed")

const inboxSize = 64

// Transport is one end of a Pipe.
type Transport struct {
	peer *Transport

	inbox      chan []byte
	registered chan struct{}
	closed     chan struct{}
	regOnce    sync.Once
	closeOnce  sync.Once

	mu         sync.Mutex
	onReceive  func([]byte)
	onClose    func(error)
	closeFired bool
}

// Pipe returns two connected transports. Messages sent on one are delivered,
// in order, to the OnReceive callback of the other. Closing either end
// closes both.
func Pipe() (*Transport, *Transport) {
	a, b := newTransport(), newTransport()
	a.peer, b.peer = b, a
	go a.run()
	go b.run()
	return a, b
}

func newTransport() *Transport {
	return &Transport{
		inbox:      make(chan []byte, inboxSize),
		registered: make(chan struct{}),
		closed:     make(chan struct{}),
	}
}

// Ready reports ErrClosed once the pipe is closed; an open pipe is always ready.
func (t *Transport) Ready(ctx context.Context) error {
	select {
	case <-t.closed:
		return ErrClosed
	default:
		return ctx.Err()
	}
}

// Send queues a copy of data for the peer. It blocks while the peer's inbox is full.
func (t *Transport) Send(ctx context.Context, data []byte) error {
	select {
	case <-t.closed:
		return ErrClosed
	default:
	}
	msg := append([]byte(nil), data...)
	select {
	case t.peer.inbox <- msg:
		return nil
	case <-t.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnReceive registers fn and starts delivery.
func (t *Transport) OnReceive(fn func([]byte)) {
	t.mu.Lock()
	t.onReceive = fn
	t.mu.Unlock()
	t.regOnce.Do(func() { close(t.registered) })
}

// OnClose registers fn. If the transport has already closed, fn runs immediately.
func (t *Transport) OnClose(fn func(error)) {
	t.mu.Lock()
	t.onClose = fn
	fired := t.closeFired
	t.mu.Unlock()
	if fired {
		fn(nil)
	}
}

// Close closes both ends of the pipe.
func (t *Transport) Close() error {
	t.shutdown()
	t.peer.shutdown()
	return nil
}

func (t *Transport) shutdown() {
	t.closeOnce.Do(func() { close(t.closed) })
}

func (t *Transport) run() {
	select {
	case <-t.registered:
	case <-t.closed:
		t.fireClose()
		return
	}
	for {
		select {
		case msg := <-t.inbox:
			t.deliver(msg)
		case <-t.closed:
			// Deliver what arrived before the close.
			for {
				select {
				case msg := <-t.inbox:
					t.deliver(msg)
				default:
					t.fireClose()
					return
				}
			}
		}
	}
}

func (t *Transport) deliver(msg []byte) {
	t.mu.Lock()
	fn := t.onReceive
	t.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

func (t *Transport) fireClose() {
	t.mu.Lock()
	fn := t.onClose
	t.closeFired = true
	t.mu.Unlock()
	if fn != nil {
		fn(nil)
	}
}
