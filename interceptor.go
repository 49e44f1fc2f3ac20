package rawr

import (
	"context"
)

// HandlerFunc handles one decoded call and returns the response payload.
// Generated servers provide one HandlerFunc that switches on call.Method.
type HandlerFunc func(ctx context.Context, call *Call) (res any, err error)

// UnaryInterceptor is a hook that wraps handler execution.
//
//	func timing(ctx context.Context, call *rawr.Call, next rawr.HandlerFunc) (any, error) {
//	    start := time.Now()
//	    res, err := next(ctx, call)
//	    log.Printf("%s.%s took %v", call.Service, call.Method, time.Since(start))
//	    return res, err
//	}
//
// Interceptors can:
//   - Inspect the call before invoking next
//   - Inspect or replace the response after invoking next
//   - Short-circuit by returning an error without invoking next
//   - Add values to ctx using context.WithValue
type UnaryInterceptor func(ctx context.Context, call *Call, next HandlerFunc) (res any, err error)

// chainInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainInterceptors(interceptors []UnaryInterceptor) UnaryInterceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(ctx context.Context, call *Call, handler HandlerFunc) (any, error) {
		// Chain: i[0] -> i[1] -> ... -> handler
		chain := handler
		for i := len(interceptors) - 1; i >= 0; i-- {
			current := interceptors[i]
			next := chain
			chain = func(ctx context.Context, call *Call) (any, error) {
				return current(ctx, call, next)
			}
		}
		return chain(ctx, call)
	}
}
