// Package ws implements the overlay broadcast fan-out: it accepts overlay
// websocket connections, tracks the set of open ones, and sends every
// broadcast message to all of them.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/BS-European-Championship/ta-relay/pkg/logger"
	"github.com/BS-European-Championship/ta-relay/pkg/metrics"
)

const defaultWriteTimeout = 3 * time.Second

// Forwarder holds the set of connected overlay clients.
type Forwarder struct {
	log          logger.Logger
	writeTimeout time.Duration

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

// Option applies a configuration option to the Forwarder.
type Option func(*Forwarder)

// WithWriteTimeout bounds a single send to one overlay client.
func WithWriteTimeout(d time.Duration) Option {
	return func(f *Forwarder) {
		if d > 0 {
			f.writeTimeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(f *Forwarder) {
		if log != nil {
			f.log = log
		}
	}
}

// NewForwarder creates an empty fan-out.
func NewForwarder(opts ...Option) *Forwarder {
	f := &Forwarder{
		log:          logger.Get().Named("forwarder"),
		writeTimeout: defaultWriteTimeout,
		clients:      make(map[string]*websocket.Conn),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Handler accepts an overlay connection and services it until it closes.
// There is no origin check or authentication on this transport.
func (f *Forwarder) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			f.log.Warn(r.Context(), "overlay accept failed", logger.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		id := uuid.NewString()
		f.add(id, conn)
		defer f.remove(id)

		f.log.Info(r.Context(), "overlay connected", logger.String("client", id))

		// Inbound payloads are echoed back verbatim to the sender. No
		// consumer depends on this; it is kept for wire compatibility.
		for {
			typ, data, err := conn.Read(r.Context())
			if err != nil {
				f.log.Info(r.Context(), "overlay disconnected",
					logger.String("client", id))
				return
			}
			metrics.RecordEchoedMessage()
			writeCtx, cancel := context.WithTimeout(r.Context(), f.writeTimeout)
			_ = conn.Write(writeCtx, typ, data)
			cancel()
		}
	}
}

// Broadcast serializes message once and sends it to every open connection.
// Fire-and-forget: a failed send drops that client, nothing is retried and
// nothing is reported to the caller.
func (f *Forwarder) Broadcast(ctx context.Context, messageType string, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		f.log.Error(ctx, "marshal broadcast", logger.String("type", messageType), logger.Error(err))
		return
	}

	for id, conn := range f.snapshot() {
		writeCtx, cancel := context.WithTimeout(ctx, f.writeTimeout)
		err := conn.Write(writeCtx, websocket.MessageText, data)
		cancel()
		if err != nil {
			metrics.RecordBroadcastError()
			f.log.Warn(ctx, "dropping overlay client",
				logger.String("client", id), logger.Error(err))
			conn.Close(websocket.StatusPolicyViolation, "write failed")
			f.remove(id)
		}
	}
	metrics.RecordBroadcast(messageType)
}

// ClientCount returns the number of connected overlay clients.
func (f *Forwarder) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *Forwarder) add(id string, conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[id] = conn
	metrics.UpdateOverlayClients(len(f.clients))
}

func (f *Forwarder) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, id)
	metrics.UpdateOverlayClients(len(f.clients))
}

func (f *Forwarder) snapshot() map[string]*websocket.Conn {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]*websocket.Conn, len(f.clients))
	for id, conn := range f.clients {
		out[id] = conn
	}
	return out
}
