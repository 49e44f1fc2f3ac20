package rawr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// CodeProtocolMismatch: a response arm carried a different method tag than
	// the request. Rejects only the affected call.
	CodeProtocolMismatch ErrorCode = "protocol_mismatch"
	// CodeHandlerFailure: a server handler returned an error or panicked.
	CodeHandlerFailure ErrorCode = "handler_failure"
	// CodeConnectionClosed: the transport closed or errored with calls pending.
	CodeConnectionClosed  ErrorCode = "connection_closed"
	CodeUnknownMethod     ErrorCode = "unknown_method"
	CodeInvalidArgument   ErrorCode = "invalid_argument"
	CodeResourceExhausted ErrorCode = "resource_exhausted"
	CodeCanceled          ErrorCode = "canceled"
	CodeDeadlineExceeded  ErrorCode = "deadline_exceeded"
	CodeInternal          ErrorCode = "internal"
)

// Error is the standard runtime error.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another *Error with the same code, so that
// errors.Is(err, ErrConnectionClosed) holds for any connection_closed error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new runtime error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new runtime error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError creates a runtime error that wraps cause.
func WrapError(code ErrorCode, cause error) *Error {
	return &Error{
		Code:    code,
		Message: cause.Error(),
		cause:   cause,
	}
}

// Sentinel errors for errors.Is comparisons. They match by code only.
var (
	ErrConnectionClosed = NewError(CodeConnectionClosed, "connection closed")
	ErrProtocolMismatch = NewError(CodeProtocolMismatch, "protocol mismatch")
	ErrHandlerFailure   = NewError(CodeHandlerFailure, "handler failure")
	ErrUnknownMethod    = NewError(CodeUnknownMethod, "unknown method")
)

// WithDetail returns a copy of e with key set in its details.
func (e *Error) WithDetail(key string, value any) *Error {
	return e.WithDetails(map[string]any{key: value})
}

// WithDetails returns a copy of e with details merged into its own.
// The receiver is returned as is when details is empty.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	out := *e
	out.Details = make(map[string]any, len(e.Details)+len(details))
	maps.Copy(out.Details, e.Details)
	maps.Copy(out.Details, details)
	return &out
}

// ErrorTransformer is a function that maps an application error to a runtime error.
// If it returns nil, the default transformer logic should be applied.
type ErrorTransformer func(error) *Error

// DefaultErrorTransformer maps standard Go errors to runtime errors.
func DefaultErrorTransformer(err error) *Error {
	if err == nil {
		return nil
	}

	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	// errors.Join: the first error decides the code, the message lists all.
	if u, ok := err.(interface{ Unwrap() []error }); ok && len(u.Unwrap()) > 0 {
		errs := u.Unwrap()
		first := DefaultErrorTransformer(errs[0])
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return &Error{Code: first.Code, Message: strings.Join(msgs, "; "), Details: first.Details, cause: err}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(CodeDeadlineExceeded, "request timeout")
	case errors.Is(err, context.Canceled):
		return NewError(CodeCanceled, "context canceled")
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		out := &Error{Code: CodeInvalidArgument, Details: make(map[string]any, len(valErrs)), cause: err}
		msgs := make([]string, len(valErrs))
		for i, fe := range valErrs {
			msg := formatValidationError(fe)
			out.Details[fe.Field()] = msg
			msgs[i] = fe.Field() + ": " + msg
		}
		out.Message = strings.Join(msgs, "; ")
		return out
	}

	return &Error{Code: CodeInternal, Message: err.Error(), cause: err}
}

// HTTPStatus maps an ErrorCode to an HTTP status code. Used by transports
// that reject a connection before any envelope is exchanged.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnknownMethod:
		return http.StatusNotFound
	case CodeResourceExhausted:
		return http.StatusTooManyRequests
	case CodeCanceled:
		return 499 // Client Closed Request (Nginx standard)
	case CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	case CodeConnectionClosed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// validationPhrases maps validator tags to message formats taking the tag parameter.
var validationPhrases = map[string]string{
	"min":   "must be at least %s",
	"gte":   "must be at least %s",
	"max":   "must be at most %s",
	"lte":   "must be at most %s",
	"gt":    "must be greater than %s",
	"lt":    "must be less than %s",
	"len":   "must have length %s",
	"eq":    "must equal %s",
	"ne":    "must not equal %s",
	"oneof": "must be one of: %s",
}

func formatValidationError(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "required"
	}
	if phrase, ok := validationPhrases[fe.Tag()]; ok {
		return fmt.Sprintf(phrase, fe.Param())
	}
	if fe.Param() == "" {
		return "failed " + fe.Tag() + " validation"
	}
	return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
}

// WriteHTTPError writes rpcErr as a JSON body with the matching HTTP status.
// Transports use it to reject a connection before any envelope is exchanged.
func WriteHTTPError(w http.ResponseWriter, rpcErr *Error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rpcErr.Code.HTTPStatus())
	if err := json.NewEncoder(w).Encode(rpcErr); err != nil {
		// Headers already sent, nothing we can do. Log for debugging.
		logger.Error("failed to encode error response",
			slog.String("code", string(rpcErr.Code)),
			slog.String("message", rpcErr.Message),
			slog.Any("error", err))
	}
}
