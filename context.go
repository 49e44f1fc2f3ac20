package rawr

import (
	"context"
)

type contextKey struct {
	name string
}

var (
	callKey = &contextKey{"call"}
	connKey = &contextKey{"conn"}
)

// CallFromContext returns the call being dispatched, if any.
func CallFromContext(ctx context.Context) (*Call, bool) {
	call, ok := ctx.Value(callKey).(*Call)
	return call, ok
}

// MethodFromContext returns the service and method name of the current RPC.
func MethodFromContext(ctx context.Context) (service, method string, ok bool) {
	if call, ok := CallFromContext(ctx); ok {
		return call.Service, call.Method, true
	}
	return "", "", false
}

// ConnIDFromContext returns the id of the connection serving the current RPC,
// or "" when the call did not arrive through Serve.
func ConnIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(connKey).(string)
	return id
}

func withCall(ctx context.Context, call *Call) context.Context {
	return context.WithValue(ctx, callKey, call)
}

func withConnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, connKey, id)
}
