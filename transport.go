package rawr

import (
	"context"
)

// Transport is a bidirectional, message-oriented byte channel. Each Send
// carries exactly one encoded envelope.
//
// Implementations must deliver received messages to the OnReceive callback
// in arrival order, must not deliver before OnReceive is registered, and must
// call the OnClose callback exactly once when the channel closes or fails
// (with a nil error for an orderly close). Send must be safe for concurrent use.
type Transport interface {
	// Ready blocks until the transport can send.
	Ready(ctx context.Context) error
	Send(ctx context.Context, data []byte) error
	OnReceive(fn func(data []byte))
	OnClose(fn func(err error))
	Close() error
}
