package push

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushServer is a minimal event endpoint: it upgrades, records the bearer
// token, and hands each accepted connection to the test.
type pushServer struct {
	srv       *httptest.Server
	upgrader  websocket.Upgrader
	accepting atomic.Bool

	mu     sync.Mutex
	tokens []string
	conns  chan *websocket.Conn
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()
	ps := &pushServer{conns: make(chan *websocket.Conn, 4)}
	ps.accepting.Store(true)
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ps.accepting.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}

		ps.mu.Lock()
		ps.tokens = append(ps.tokens, r.Header.Get("Authorization"))
		ps.mu.Unlock()

		conn, err := ps.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ps.conns <- conn
	}))
	t.Cleanup(ps.srv.Close)
	return ps
}

func (ps *pushServer) token(i int) string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if i >= len(ps.tokens) {
		return ""
	}
	return ps.tokens[i]
}

func (ps *pushServer) url() string {
	return "ws" + strings.TrimPrefix(ps.srv.URL, "http")
}

func (ps *pushServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-ps.conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("no connection accepted")
		return nil
	}
}

func (ps *pushServer) send(t *testing.T, conn *websocket.Conn, env Envelope) {
	t.Helper()
	data, err := json.Marshal(env)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func newTestChannel(url string) *Channel {
	return NewChannel(url, slog.New(slog.NewTextHandler(io.Discard, nil)), WithRetry(2, 20*time.Millisecond))
}

func waitFor(t *testing.T, ch <-chan Envelope) Envelope {
	t.Helper()
	select {
	case env := <-ch:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Envelope{}
	}
}

func TestConnectDeliversEvents(t *testing.T) {
	ps := newPushServer(t)
	c := newTestChannel(ps.url())
	defer c.Close()

	got := make(chan Envelope, 1)
	c.On("order.statusChanged", func(env Envelope) { got <- env })

	require.NoError(t, c.Connect(context.Background(), "tok-123"))
	conn := ps.accept(t)
	defer conn.Close()

	assert.Equal(t, "Bearer tok-123", ps.token(0))

	ps.send(t, conn, Envelope{
		Event:      "order.statusChanged",
		EventID:    "evt-1",
		Sequence:   1,
		OccurredAt: time.Now(),
		Payload:    json.RawMessage(`{"orderId":"o-1","status":"shipped"}`),
	})

	env := waitFor(t, got)
	assert.Equal(t, "evt-1", env.EventID)
	assert.Equal(t, int64(1), env.Sequence)
}

func TestConnectTwiceRefused(t *testing.T) {
	ps := newPushServer(t)
	c := newTestChannel(ps.url())
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "tok"))
	conn := ps.accept(t)
	defer conn.Close()

	assert.ErrorIs(t, c.Connect(context.Background(), "tok"), ErrAlreadyConnected)
}

func TestOffStopsDelivery(t *testing.T) {
	ps := newPushServer(t)
	c := newTestChannel(ps.url())
	defer c.Close()

	got := make(chan Envelope, 4)
	kept := make(chan Envelope, 4)
	sub := c.On("product.created", func(env Envelope) { got <- env })
	c.On("product.created", func(env Envelope) { kept <- env })

	require.NoError(t, c.Connect(context.Background(), "tok"))
	conn := ps.accept(t)
	defer conn.Close()

	ps.send(t, conn, Envelope{Event: "product.created", EventID: "evt-1"})
	waitFor(t, got)
	waitFor(t, kept)

	c.Off(sub)
	ps.send(t, conn, Envelope{Event: "product.created", EventID: "evt-2"})
	waitFor(t, kept)

	select {
	case env := <-got:
		t.Fatalf("removed handler still received %s", env.EventID)
	default:
	}
}

func TestReconnectAfterDrop(t *testing.T) {
	ps := newPushServer(t)
	c := newTestChannel(ps.url())
	defer c.Close()

	got := make(chan Envelope, 1)
	c.On("product.created", func(env Envelope) { got <- env })

	require.NoError(t, c.Connect(context.Background(), "tok"))
	first := ps.accept(t)
	first.Close()

	// The channel redials with the same token and keeps delivering.
	second := ps.accept(t)
	defer second.Close()

	ps.send(t, second, Envelope{Event: "product.created", EventID: "evt-after"})
	env := waitFor(t, got)
	assert.Equal(t, "evt-after", env.EventID)

	assert.Equal(t, "Bearer tok", ps.token(1))
}

func TestConnectAgainAfterReconnectExhausted(t *testing.T) {
	ps := newPushServer(t)
	c := NewChannel(ps.url(), slog.New(slog.NewTextHandler(io.Discard, nil)), WithRetry(1, 10*time.Millisecond))
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "tok"))
	conn := ps.accept(t)

	ps.accepting.Store(false)
	conn.Close()

	// Once the retry budget is spent the connection slot is released: Connect
	// attempts a fresh dial (and fails against the refusing server) instead
	// of reporting an existing connection.
	require.Eventually(t, func() bool {
		err := c.Connect(context.Background(), "tok")
		return err != nil && !errors.Is(err, ErrAlreadyConnected)
	}, 2*time.Second, 25*time.Millisecond)

	ps.accepting.Store(true)
	require.NoError(t, c.Connect(context.Background(), "tok"))
	second := ps.accept(t)
	second.Close()
}

func TestCloseStopsReconnect(t *testing.T) {
	ps := newPushServer(t)
	c := newTestChannel(ps.url())

	require.NoError(t, c.Connect(context.Background(), "tok"))
	conn := ps.accept(t)

	c.Close()
	c.Close() // safe to repeat
	conn.Close()

	// No redial after an explicit close.
	select {
	case extra := <-ps.conns:
		extra.Close()
		t.Fatal("channel reconnected after Close")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestEventName(t *testing.T) {
	if got := EventName("order", ActionStatusChanged); got != "order.statusChanged" {
		t.Fatalf("EventName = %q", got)
	}
}
