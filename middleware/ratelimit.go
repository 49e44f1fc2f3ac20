package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/broady/rawr"
)

// RateLimit creates an interceptor that admits at most r calls per second,
// with bursts of up to burst calls, across every method of the server it is
// installed on. Calls over the limit fail with resource_exhausted without
// reaching the handler.
func RateLimit(r float64, burst int) rawr.UnaryInterceptor {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(ctx context.Context, call *rawr.Call, next rawr.HandlerFunc) (any, error) {
		if !limiter.Allow() {
			return nil, rawr.Errorf(rawr.CodeResourceExhausted, "rate limit exceeded for %s.%s", call.Service, call.Method)
		}
		return next(ctx, call)
	}
}
