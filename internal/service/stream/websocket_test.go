package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SignalDash/internal/domain/models"
	"SignalDash/pkg/logger"
	"SignalDash/pkg/metrics"

	"github.com/gorilla/websocket"
)

type lifecycle struct {
	kind string // connect, disconnect, event
	ev   models.PushEvent
}

type chanHandler struct {
	ch chan lifecycle
}

func newChanHandler() *chanHandler { return &chanHandler{ch: make(chan lifecycle, 64)} }

func (h *chanHandler) OnConnect()                  { h.send(lifecycle{kind: "connect"}) }
func (h *chanHandler) OnDisconnect(error)          { h.send(lifecycle{kind: "disconnect"}) }
func (h *chanHandler) OnEvent(ev models.PushEvent) { h.send(lifecycle{kind: "event", ev: ev}) }

// send never blocks so a reconnecting transport cannot wedge on a slow test.
func (h *chanHandler) send(l lifecycle) {
	select {
	case h.ch <- l:
	default:
	}
}

func (h *chanHandler) next(t *testing.T) lifecycle {
	t.Helper()
	select {
	case l := <-h.ch:
		return l
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for handler call")
		return lifecycle{}
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketJSONFraming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		frames := []string{
			`{"event":"connection_update","data":{"websocket_connected":true,"authenticated":true,"message_count":3}}`,
			`{"event":"unknown_thing","data":{}}`,
			`{"event":"new_signal","data":{"timestamp":"2024-01-01T00:00:00Z","asset":"EURUSD","direction":"CALL","timeframe":"1m","confidence":85}}`,
		}
		for _, f := range frames {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(f))
		}
		// hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	h := newChanHandler()
	ws := NewWebSocket(WebSocketConfig{URL: wsURL(srv), ReconnectDelay: 10 * time.Millisecond}, metrics.Nop{}, logger.Nop())
	sub, err := ws.Subscribe(context.Background(), h)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Cancel()

	if l := h.next(t); l.kind != "connect" {
		t.Fatalf("first call = %s, want connect", l.kind)
	}
	l := h.next(t)
	if l.kind != "event" || l.ev.Connection == nil || l.ev.Connection.MessageCount != 3 {
		t.Fatalf("unexpected connection event: %+v", l)
	}
	l = h.next(t)
	if l.kind != "event" || l.ev.Signal == nil || l.ev.Signal.Asset != "EURUSD" {
		t.Fatalf("unexpected signal event: %+v", l)
	}
}

func TestWebSocketSocketIOFraming(t *testing.T) {
	pong := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`0{"sid":"s1","pingInterval":25000,"pingTimeout":20000}`))
		_, b, err := conn.ReadMessage()
		if err != nil || string(b) != "40" {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`40{"sid":"n1"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`2`))
		if _, b, err = conn.ReadMessage(); err == nil {
			pong <- string(b)
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`42["performance_update",{"total_signals":5,"winning_signals":3,"losing_signals":2,"total_profit":10.5,"active_assets":2}]`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	h := newChanHandler()
	ws := NewWebSocket(WebSocketConfig{URL: wsURL(srv), Framing: FramingSocketIO}, metrics.Nop{}, logger.Nop())
	sub, err := ws.Subscribe(context.Background(), h)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Cancel()

	if l := h.next(t); l.kind != "connect" {
		t.Fatalf("first call = %s, want connect", l.kind)
	}
	select {
	case p := <-pong:
		if p != "3" {
			t.Fatalf("pong = %q", p)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no pong")
	}
	l := h.next(t)
	if l.kind != "event" || l.ev.Performance == nil || !l.ev.HasProfit || l.ev.Performance.TotalSignals != 5 {
		t.Fatalf("unexpected performance event: %+v", l)
	}
}

func TestWebSocketReconnects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// drop every connection right away
		conn.Close()
	}))
	defer srv.Close()

	h := newChanHandler()
	ws := NewWebSocket(WebSocketConfig{URL: wsURL(srv), ReconnectDelay: 10 * time.Millisecond}, metrics.Nop{}, logger.Nop())
	sub, err := ws.Subscribe(context.Background(), h)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	want := []string{"connect", "disconnect", "connect", "disconnect"}
	for i, k := range want {
		if l := h.next(t); l.kind != k {
			t.Fatalf("call %d = %s, want %s", i, l.kind, k)
		}
	}
	sub.Cancel()
	sub.Cancel()
}

func TestWebSocketRequiresURL(t *testing.T) {
	ws := NewWebSocket(WebSocketConfig{}, metrics.Nop{}, logger.Nop())
	if _, err := ws.Subscribe(context.Background(), newChanHandler()); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
