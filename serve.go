package rawr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errTransportClosed = errors.New("transport closed")

// Serve runs s over t until the transport closes or ctx is done.
//
// Each request is dispatched on its own goroutine and its response is sent
// as soon as it completes, so slow handlers never hold up other requests.
// Under PolicyPropagate the first handler failure stops Serve, closes t and
// is returned. An orderly transport close returns nil.
func Serve(ctx context.Context, t Transport, s *Server) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	connID := uuid.NewString()
	ctx = withConnID(ctx, connID)
	logger := s.logger.With(slog.String("service", s.name), slog.String("conn", connID))

	var (
		mu      sync.Mutex
		stopped bool
		wg      sync.WaitGroup
	)
	t.OnClose(func(err error) {
		if err == nil {
			err = errTransportClosed
		}
		cancel(err)
	})
	t.OnReceive(func(data []byte) {
		var env Envelope[Message]
		if err := json.Unmarshal(data, &env); err != nil {
			logger.Warn("dropping malformed request envelope", slog.Any("error", err))
			return
		}
		mu.Lock()
		if stopped {
			mu.Unlock()
			return
		}
		wg.Add(1)
		mu.Unlock()
		go func() {
			defer wg.Done()
			start := time.Now()
			out, err := s.handleEnvelope(ctx, env)
			if err != nil {
				logger.Error("dispatch failed",
					slog.Uint64("id", uint64(env.ID)),
					slog.String("method", env.Data.Method),
					slog.Any("error", err),
				)
				cancel(err)
				return
			}
			if err := t.Send(ctx, out); err != nil {
				logger.Warn("failed to send response",
					slog.Uint64("id", uint64(env.ID)),
					slog.Any("error", err),
				)
				return
			}
			logger.Debug("response sent",
				slog.Uint64("id", uint64(env.ID)),
				slog.String("method", env.Data.Method),
				slog.Duration("duration", time.Since(start)),
			)
		}()
	})

	if err := t.Ready(ctx); err != nil {
		t.Close()
		return err
	}
	logger.Debug("serving")

	<-ctx.Done()
	mu.Lock()
	stopped = true
	mu.Unlock()
	t.Close()
	wg.Wait()

	cause := context.Cause(ctx)
	if errors.Is(cause, errTransportClosed) {
		logger.Debug("transport closed")
		return nil
	}
	return cause
}
