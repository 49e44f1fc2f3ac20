// Package testutil provides helpers for testing rawr servers and clients.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/broady/rawr"
	"github.com/broady/rawr/transport/inproc"
)

// CallBuilder helps construct request envelopes with a fluent API.
type CallBuilder struct {
	id     rawr.ReqID
	method string
	args   []any
}

// NewCall creates a builder for a request to method with no arguments.
func NewCall(method string) *CallBuilder {
	return &CallBuilder{method: method}
}

// WithID sets the request id.
func (b *CallBuilder) WithID(id rawr.ReqID) *CallBuilder {
	b.id = id
	return b
}

// WithArgs sets the positional arguments of the call.
func (b *CallBuilder) WithArgs(args ...any) *CallBuilder {
	b.args = args
	return b
}

// Build encodes the request envelope.
func (b *CallBuilder) Build(t testing.TB) []byte {
	t.Helper()
	args := b.args
	if args == nil {
		args = []any{}
	}
	msg, err := rawr.NewMessage(b.method, args)
	if err != nil {
		t.Fatalf("failed to encode call: %v", err)
	}
	data, err := json.Marshal(rawr.Envelope[rawr.Message]{ID: b.id, Data: msg})
	if err != nil {
		t.Fatalf("failed to encode envelope: %v", err)
	}
	return data
}

// Serve runs srv over an in-process pipe and returns a connection to it.
// The connection expects Result envelopes when srv uses PolicyWrap.
// Everything is torn down when the test ends.
func Serve(t testing.TB, srv *rawr.Server, opts ...rawr.ConnOption) *rawr.Conn {
	t.Helper()
	clientEnd, serverEnd := inproc.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rawr.Serve(ctx, serverEnd, srv) }()

	if srv.Policy() == rawr.PolicyWrap {
		opts = append([]rawr.ConnOption{rawr.WithResultEnvelope()}, opts...)
	}
	conn, err := rawr.Dial(ctx, clientEnd, opts...)
	if err != nil {
		cancel()
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		cancel()
		if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("serve: %v", err)
		}
	})
	return conn
}

// AssertJSON compares two JSON documents, ignoring formatting and key order.
func AssertJSON(t testing.TB, got, want []byte) {
	t.Helper()

	var gotData, wantData any
	if err := json.Unmarshal(got, &gotData); err != nil {
		t.Fatalf("failed to decode %s: %v", got, err)
	}
	if err := json.Unmarshal(want, &wantData); err != nil {
		t.Fatalf("failed to decode %s: %v", want, err)
	}

	gotStr, _ := json.MarshalIndent(gotData, "", "  ")
	wantStr, _ := json.MarshalIndent(wantData, "", "  ")

	if string(gotStr) != string(wantStr) {
		t.Errorf("JSON mismatch:\nExpected:\n%s\nActual:\n%s", wantStr, gotStr)
	}
}

// AssertCode checks that err carries the given runtime error code.
func AssertCode(t testing.TB, err error, code rawr.ErrorCode) *rawr.Error {
	t.Helper()
	var rpcErr *rawr.Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
	if rpcErr.Code != code {
		t.Errorf("expected error code %s, got %s (message: %s)", code, rpcErr.Code, rpcErr.Message)
	}
	return rpcErr
}
