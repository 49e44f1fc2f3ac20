package rawr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorPolicy selects how a Server reports handler failures.
type ErrorPolicy int

const (
	// PolicyWrap turns a handler failure into an Err result sent to the peer.
	PolicyWrap ErrorPolicy = iota
	// PolicyPropagate returns the failure to the dispatcher's caller and
	// sends nothing.
	PolicyPropagate
)

func (p ErrorPolicy) String() string {
	switch p {
	case PolicyWrap:
		return "wrap"
	case PolicyPropagate:
		return "propagate"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// ParseErrorPolicy parses "wrap" or "propagate".
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "wrap", "":
		return PolicyWrap, nil
	case "propagate":
		return PolicyPropagate, nil
	}
	return 0, fmt.Errorf("unknown error policy %q", s)
}

// Call is one decoded request as seen by a server handler.
type Call struct {
	ID      ReqID
	Service string
	Method  string
	Payload json.RawMessage
}

// Decode unmarshals the call payload into v and validates the result with
// its `validate` struct tags.
func (c *Call) Decode(v any) error {
	if err := json.Unmarshal(c.Payload, v); err != nil {
		return Errorf(CodeInvalidArgument, "failed to decode %s arguments: %v", c.Method, err)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(v); err != nil {
		return DefaultErrorTransformer(err)
	}
	return nil
}

// UnknownMethod returns the error generated servers use for a method tag
// outside the service's method list.
func UnknownMethod(call *Call) error {
	return Errorf(CodeUnknownMethod, "%s has no method %q", call.Service, call.Method).
		WithDetail("method", call.Method)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithErrorPolicy sets the handler failure policy. The default is PolicyWrap.
func WithErrorPolicy(p ErrorPolicy) ServerOption {
	return func(s *Server) {
		s.policy = p
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInterceptors adds interceptors around every handler call.
// The first interceptor is the outer-most one.
func WithInterceptors(interceptors ...UnaryInterceptor) ServerOption {
	return func(s *Server) {
		s.interceptors = append(s.interceptors, interceptors...)
	}
}

// WithErrorTransformer sets a function mapping handler errors to *Error.
// When it returns nil, the default mapping applies.
func WithErrorTransformer(fn ErrorTransformer) ServerOption {
	return func(s *Server) {
		s.transformer = fn
	}
}

// Server dispatches request envelopes for one service to a handler.
type Server struct {
	name         string
	handler      HandlerFunc
	policy       ErrorPolicy
	logger       *slog.Logger
	interceptors []UnaryInterceptor
	interceptor  UnaryInterceptor
	transformer  ErrorTransformer
}

// NewServer returns a dispatcher for the named service.
func NewServer(service string, handler HandlerFunc, opts ...ServerOption) *Server {
	s := &Server{
		name:    service,
		handler: handler,
		policy:  PolicyWrap,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.interceptor = chainInterceptors(s.interceptors)
	return s
}

// Name returns the service name.
func (s *Server) Name() string { return s.name }

// Policy returns the configured error policy.
func (s *Server) Policy() ErrorPolicy { return s.policy }

// Dispatch invokes the handler for env and returns the response envelope,
// which carries the same id and method tag. Handler failures are returned
// as errors regardless of the configured policy.
func (s *Server) Dispatch(ctx context.Context, env Envelope[Message]) (Envelope[Message], error) {
	call := &Call{
		ID:      env.ID,
		Service: s.name,
		Method:  env.Data.Method,
		Payload: env.Data.Payload,
	}
	res, err := s.invoke(ctx, call)
	if err != nil {
		return Envelope[Message]{}, err
	}
	msg, err := NewMessage(call.Method, res)
	if err != nil {
		return Envelope[Message]{}, WrapError(CodeInternal, err)
	}
	return Envelope[Message]{ID: env.ID, Data: msg}, nil
}

// DispatchResult is Dispatch under the wrap policy: a handler failure becomes
// an Err result "<Service>Server handler threw: <message>".
func (s *Server) DispatchResult(ctx context.Context, env Envelope[Message]) Envelope[Result[Message]] {
	out, err := s.Dispatch(ctx, env)
	if err != nil {
		msg := err.Error()
		var rpcErr *Error
		if errors.As(err, &rpcErr) {
			msg = rpcErr.Message
		}
		return Envelope[Result[Message]]{
			ID:   env.ID,
			Data: Fail[Message](Errorf(CodeHandlerFailure, "%sServer handler threw: %s", s.name, msg)),
		}
	}
	return Envelope[Result[Message]]{ID: env.ID, Data: Ok(out.Data)}
}

// Handle decodes one request envelope from data, dispatches it under the
// configured policy, and returns the encoded response envelope.
// Under PolicyPropagate a handler failure is returned and no response is produced.
func (s *Server) Handle(ctx context.Context, data []byte) ([]byte, error) {
	var env Envelope[Message]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, Errorf(CodeInvalidArgument, "failed to decode request envelope: %v", err)
	}
	return s.handleEnvelope(ctx, env)
}

func (s *Server) handleEnvelope(ctx context.Context, env Envelope[Message]) ([]byte, error) {
	if s.policy == PolicyPropagate {
		out, err := s.Dispatch(ctx, env)
		if err != nil {
			return nil, err
		}
		return json.Marshal(out)
	}
	return json.Marshal(s.DispatchResult(ctx, env))
}

func (s *Server) invoke(ctx context.Context, call *Call) (res any, err error) {
	ctx = withCall(ctx, call)

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("PANIC recovered",
				slog.String("service", call.Service),
				slog.String("method", call.Method),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
			res = nil
			err = Errorf(CodeHandlerFailure, "handler panicked: %v", rec)
		}
	}()

	if s.interceptor != nil {
		res, err = s.interceptor(ctx, call, s.handler)
	} else {
		res, err = s.handler(ctx, call)
	}
	if err != nil {
		return nil, s.transformError(err)
	}
	return res, nil
}

func (s *Server) transformError(err error) *Error {
	if s.transformer != nil {
		if e := s.transformer(err); e != nil {
			return e
		}
	}
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return DefaultErrorTransformer(err)
	}
	return WrapError(CodeHandlerFailure, err)
}
