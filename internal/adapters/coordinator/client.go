// Package coordinator is the thin websocket adapter to the tournament
// coordination service. It decodes the coordinator's JSON event frames into
// the relay's tagged events, keeps a roster snapshot, and pushes match
// updates back. Reconnection is deliberately out of scope: when the link
// drops, Listen returns and the process owner decides what happens next.
package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/BS-European-Championship/ta-relay/internal/adapters/mq/queue"
	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	"github.com/BS-European-Championship/ta-relay/pkg/logger"
)

// frame is an outbound message to the coordinator.
type frame struct {
	Type  string       `json:"type"`
	Name  string       `json:"name,omitempty"`
	GUID  string       `json:"guid,omitempty"`
	Match *model.Match `json:"match,omitempty"`
}

// Client connects to the coordinator and feeds its events into the queue.
type Client struct {
	url   string
	name  string
	self  string
	log   logger.Logger
	queue queue.Queue

	connMu sync.Mutex
	conn   *websocket.Conn

	rosterMu sync.RWMutex
	roster   map[string]model.User
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client that will register under name at url and enqueue
// every decoded event on q.
func New(url, name string, q queue.Queue, opts ...Option) *Client {
	c := &Client{
		url:    url,
		name:   name,
		self:   uuid.NewString(),
		log:    logger.Get().Named("coordinator"),
		queue:  q,
		roster: make(map[string]model.User),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the coordinator and registers the relay's identity.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDial, err)
	}

	if err := wsjson.Write(ctx, conn, frame{Type: "register", Name: c.name, GUID: c.self}); err != nil {
		conn.Close(websocket.StatusInternalError, "register failed")
		return fmt.Errorf("%w: %w", ErrRegister, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	c.log.Info(ctx, "connected to coordinator", logger.String("url", c.url))
	return nil
}

// Listen reads event frames until the connection drops or ctx is canceled.
// Each decoded event updates the roster snapshot and is enqueued for the
// engine; a full queue drops the event rather than blocking the read loop.
func (c *Client) Listen(ctx context.Context) error {
	conn := c.current()
	if conn == nil {
		return ErrNotConnected
	}

	for {
		var ev model.Event
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			return fmt.Errorf("coordinator read: %w", err)
		}

		c.updateRoster(ev)

		if !c.queue.Enqueue(ctx, ev) {
			c.log.Warn(ctx, "event dropped on backpressure",
				logger.String("event", string(ev.Type)))
		}
	}
}

// Close closes the websocket connection.
func (c *Client) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(websocket.StatusNormalClosure, "shutting down")
	c.conn = nil
	if err != nil {
		return fmt.Errorf("close coordinator connection: %w", err)
	}
	return nil
}

// Self returns the guid the relay registered under.
func (c *Client) Self() string { return c.self }

// Users returns a snapshot of the coordinator's known users.
func (c *Client) Users() []model.User {
	c.rosterMu.RLock()
	defer c.rosterMu.RUnlock()
	out := make([]model.User, 0, len(c.roster))
	for _, u := range c.roster {
		out = append(out, u)
	}
	return out
}

// UserByGUID looks up a known user by guid.
func (c *Client) UserByGUID(guid string) (model.User, bool) {
	c.rosterMu.RLock()
	defer c.rosterMu.RUnlock()
	u, ok := c.roster[guid]
	return u, ok
}

// UpdateMatch pushes an authoritative match update to the coordinator.
func (c *Client) UpdateMatch(ctx context.Context, match model.Match) error {
	conn := c.current()
	if conn == nil {
		return ErrNotConnected
	}
	if err := wsjson.Write(ctx, conn, frame{Type: "updateMatch", Match: &match}); err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	return nil
}

func (c *Client) current() *websocket.Conn {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn
}

// updateRoster mirrors user lifecycle events into the local snapshot so the
// engine can resolve guids without a round trip.
func (c *Client) updateRoster(ev model.Event) {
	if ev.User == nil {
		return
	}
	c.rosterMu.Lock()
	defer c.rosterMu.Unlock()
	switch ev.Type {
	case model.EventUserUpdated:
		c.roster[ev.User.GUID] = *ev.User
	case model.EventUserLeft:
		delete(c.roster, ev.User.GUID)
	}
}
