package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	gorilla "github.com/gorilla/websocket"

	"github.com/broady/rawr"
)

// ConnectParams travel in the query string of the upgrade request.
type ConnectParams struct {
	// Service selects the server that handles the connection.
	Service string `schema:"service,required"`
	// Client names the connecting peer in server logs.
	Client string `schema:"client,omitempty"`
}

var (
	paramDecoder = newParamDecoder()
	paramEncoder = schema.NewEncoder()
)

func newParamDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// Handler returns an HTTP handler that upgrades requests to WebSocket
// connections and serves each one with servers[service] until it closes.
func Handler(servers map[string]*rawr.Server, opts ...Option) http.Handler {
	o := newOptions(opts)
	upgrader := gorilla.Upgrader{CheckOrigin: o.origins.allow}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params ConnectParams
		if err := paramDecoder.Decode(&params, r.URL.Query()); err != nil {
			rawr.WriteHTTPError(w, rawr.Errorf(rawr.CodeInvalidArgument, "invalid connect parameters: %v", err), o.logger)
			return
		}
		srv, ok := servers[params.Service]
		if !ok {
			rawr.WriteHTTPError(w, rawr.Errorf(rawr.CodeUnknownMethod, "no service %q", params.Service), o.logger)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied with an HTTP error.
			o.logger.Warn("websocket upgrade failed",
				slog.String("service", params.Service),
				slog.String("remote", r.RemoteAddr),
				slog.Any("error", err))
			return
		}

		logger := o.logger.With(
			slog.String("service", params.Service),
			slog.String("client", params.Client),
			slog.String("remote", r.RemoteAddr),
		)
		logger.Info("connection opened")
		t := newTransport(conn, o)
		if err := rawr.Serve(r.Context(), t, srv); err != nil {
			logger.Warn("connection ended", slog.Any("error", err))
			return
		}
		logger.Info("connection closed")
	})
}

// Dial opens a WebSocket connection to rawURL for the service named in params.
// If the server rejects the upgrade with an error body, that *rawr.Error is returned.
func Dial(ctx context.Context, rawURL string, params ConnectParams, opts ...Option) (*Transport, error) {
	o := newOptions(opts)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	if err := paramEncoder.Encode(params, q); err != nil {
		return nil, fmt.Errorf("encode connect parameters: %w", err)
	}
	u.RawQuery = q.Encode()

	conn, resp, err := o.dialer.DialContext(ctx, u.String(), o.header)
	if err != nil {
		if resp != nil && resp.Body != nil {
			var rpcErr rawr.Error
			if json.NewDecoder(resp.Body).Decode(&rpcErr) == nil && rpcErr.Code != "" {
				return nil, &rpcErr
			}
			return nil, fmt.Errorf("dial %s: %w (status %d)", u.Redacted(), err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}
	return newTransport(conn, o), nil
}
