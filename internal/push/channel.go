package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrAlreadyConnected = errors.New("push: already connected")
	ErrClosed           = errors.New("push: channel closed")
)

// Handler receives a dispatched event. Handlers run on the read loop
// goroutine and must not block.
type Handler func(Envelope)

// Subscription identifies one registered handler so it can be removed with
// Off. Every On must have a matching Off when the subscriber goes away.
type Subscription struct {
	event string
	id    int
}

// Channel is the shared push-event connection. One instance is owned by the
// session manager; stores attach and detach named handlers through it. Lost
// connections are re-dialed a fixed number of times with a fixed delay.
type Channel struct {
	url        string
	dialer     *websocket.Dialer
	log        *slog.Logger
	maxRetries int
	retryDelay time.Duration

	mu         sync.Mutex
	conn       *websocket.Conn
	connecting bool
	handlers   map[string]map[int]Handler
	nextID     int
	closed     bool
	cancel     context.CancelFunc
}

type Option func(*Channel)

// WithRetry overrides the reconnection policy (attempt count and delay
// between attempts).
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Channel) {
		c.maxRetries = attempts
		c.retryDelay = delay
	}
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Channel) { c.dialer = d }
}

func NewChannel(url string, log *slog.Logger, opts ...Option) *Channel {
	c := &Channel{
		url:        url,
		dialer:     websocket.DefaultDialer,
		log:        log,
		maxRetries: 5,
		retryDelay: 2 * time.Second,
		handlers:   make(map[string]map[int]Handler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the channel with the session's bearer token and starts the
// read loop. Handlers registered before Connect receive events as soon as
// they arrive.
func (c *Channel) Connect(ctx context.Context, token string) error {
	c.mu.Lock()
	if c.conn != nil || c.connecting {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.connecting = true
	c.closed = false
	c.mu.Unlock()

	conn, err := c.dial(ctx, token)
	if err != nil {
		c.mu.Lock()
		c.connecting = false
		c.mu.Unlock()
		return fmt.Errorf("connect push channel: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.connecting = false
	if c.closed {
		c.mu.Unlock()
		cancel()
		conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.cancel = cancel
	c.mu.Unlock()

	go c.readLoop(runCtx, conn, token)
	return nil
}

func (c *Channel) dial(ctx context.Context, token string) (*websocket.Conn, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, err
	}
	return conn, nil
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn, token string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if c.isClosed() {
				return
			}
			if ctx.Err() != nil {
				c.clearConn()
				return
			}
			c.log.Warn("push: connection lost", "error", err)
			conn = c.reconnect(ctx, token)
			if conn == nil {
				return
			}
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warn("push: malformed event", "error", err)
			continue
		}
		c.dispatch(env)
	}
}

// reconnect re-dials with the bounded retry policy. Returns nil when the
// channel was closed in the meantime or all attempts failed; the dead
// connection slot is released so a later Connect may start over.
func (c *Channel) reconnect(ctx context.Context, token string) *websocket.Conn {
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			c.clearConn()
			return nil
		case <-time.After(c.retryDelay):
		}

		conn, err := c.dial(ctx, token)
		if err != nil {
			c.log.Warn("push: reconnect failed", "attempt", attempt, "error", err)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			conn.Close()
			return nil
		}
		c.conn = conn
		c.mu.Unlock()

		c.log.Info("push: reconnected", "attempt", attempt)
		return conn
	}
	c.log.Error("push: reconnect attempts exhausted", "attempts", c.maxRetries)
	c.clearConn()
	return nil
}

// clearConn releases the connection slot after the read loop gives up
// without an explicit Close.
func (c *Channel) clearConn() {
	c.mu.Lock()
	c.conn = nil
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
}

// On registers a handler for a named event and returns its subscription.
func (c *Channel) On(event string, h Handler) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	if c.handlers[event] == nil {
		c.handlers[event] = make(map[int]Handler)
	}
	c.handlers[event][id] = h
	return Subscription{event: event, id: id}
}

// Off removes a previously registered handler. Unknown subscriptions are a
// no-op.
func (c *Channel) Off(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hs, ok := c.handlers[sub.event]; ok {
		delete(hs, sub.id)
		if len(hs) == 0 {
			delete(c.handlers, sub.event)
		}
	}
}

func (c *Channel) dispatch(env Envelope) {
	c.mu.Lock()
	hs := c.handlers[env.Event]
	snapshot := make([]Handler, 0, len(hs))
	for _, h := range hs {
		snapshot = append(snapshot, h)
	}
	c.mu.Unlock()

	for _, h := range snapshot {
		h(env)
	}
}

// Close tears the connection down and stops any reconnection in flight.
// Safe to call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Channel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
