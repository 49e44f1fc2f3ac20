package rawr

import (
	"encoding/json"
	"fmt"

	"github.com/broady/rawr/wire"
)

// ReqID identifies a request among the in-flight requests of one connection.
type ReqID uint64

// Envelope correlates a request or response with its ReqID.
// It encodes as {"id": <int>, "data": <T>}.
type Envelope[T any] struct {
	ID   ReqID `json:"id"`
	Data T     `json:"data"`
}

// Message is one arm of a method-tagged request or response union.
// It encodes as {"method": "<name>", "payload": <value>}.
type Message struct {
	Method  string          `json:"method"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage encodes payload and tags it with method.
func NewMessage(method string, payload any) (Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", method, err)
	}
	return Message{Method: method, Payload: b}, nil
}

// Result carries either a value or the failure of a wrapped server handler.
// It encodes as {"Ok": <T>} or {"Err": "<message>"}.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok returns a successful Result.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Fail returns a failed Result.
func Fail[T any](err error) Result[T] { return Result[T]{Err: err} }

// MarshalJSON implements json.Marshaler.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		msg := r.Err.Error()
		if e, ok := r.Err.(*Error); ok {
			msg = e.Message
		}
		return wire.MarshalExternal("Err", msg, true)
	}
	return wire.MarshalExternal("Ok", r.Value, true)
}

// UnmarshalJSON implements json.Unmarshaler. A decoded Err arm becomes a
// handler_failure *Error.
func (r *Result[T]) UnmarshalJSON(data []byte) error {
	tag, content, err := wire.UnmarshalExternal(data)
	if err != nil {
		return err
	}
	switch tag {
	case "Ok":
		var v T
		if err := wire.DecodeContent(content, &v); err != nil {
			return fmt.Errorf("decode Ok result: %w", err)
		}
		*r = Result[T]{Value: v}
	case "Err":
		var msg string
		if err := wire.DecodeContent(content, &msg); err != nil {
			return fmt.Errorf("decode Err result: %w", err)
		}
		*r = Result[T]{Err: NewError(CodeHandlerFailure, msg)}
	default:
		return wire.UnknownTag("Result", tag)
	}
	return nil
}
