package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SignalDash/internal/domain/models"
	drepo "SignalDash/internal/domain/repository"
	"SignalDash/internal/middleware"
	"SignalDash/internal/service/payload"
	"SignalDash/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	FramingJSON     = "json"
	FramingSocketIO = "socketio"
)

// WebSocketConfig configures the websocket push channel.
type WebSocketConfig struct {
	URL              string
	Framing          string
	ReconnectDelay   time.Duration
	PingInterval     time.Duration
	HandshakeTimeout time.Duration
}

// WebSocket implements a PushChannel backed by a websocket connection to the backend.
type WebSocket struct {
	cfg     WebSocketConfig
	dialer  *websocket.Dialer
	metrics drepo.Metrics
	log     *logger.Logger
}

var errServerClosed = errors.New("server closed the push channel")

// NewWebSocket creates a websocket push channel.
func NewWebSocket(cfg WebSocketConfig, metrics drepo.Metrics, log *logger.Logger) *WebSocket {
	if cfg.Framing == "" {
		cfg.Framing = FramingJSON
	}
	d := *websocket.DefaultDialer
	if cfg.HandshakeTimeout > 0 {
		d.HandshakeTimeout = cfg.HandshakeTimeout
	}
	return &WebSocket{
		cfg:     cfg,
		dialer:  &d,
		metrics: metrics,
		log:     log.Component("stream.websocket"),
	}
}

// Subscribe starts the connect/read/reconnect loop in the background.
func (w *WebSocket) Subscribe(ctx context.Context, h drepo.PushHandler) (drepo.Subscription, error) {
	if w.cfg.URL == "" {
		return nil, fmt.Errorf("%w: websocket url is empty", models.ErrTransport)
	}
	decode := func(frame []byte, _ string) (models.PushEvent, error) {
		return payload.DecodeEnvelope(frame, "")
	}
	if w.cfg.Framing == FramingSocketIO {
		decode = func(frame []byte, _ string) (models.PushEvent, error) {
			return payload.SocketIOEvent(frame)
		}
	}
	pipe := middleware.NewPushPipeline(h, w.metrics, decode, middleware.WithLogger(w.log))

	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)
	go func() {
		defer close(sub.done)
		w.run(ctx, pipe)
	}()
	return sub, nil
}

func (w *WebSocket) run(ctx context.Context, pipe *middleware.PushPipeline) {
	state := linkUnknown
	down := func(err error) {
		if state != linkDown {
			state = linkDown
			pipe.Disconnected(err)
		}
	}

	for ctx.Err() == nil {
		conn, _, err := w.dialer.DialContext(ctx, w.cfg.URL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn("connect failed", logger.String("url", w.cfg.URL), logger.Error(err))
			down(fmt.Errorf("%w: %v", models.ErrTransport, err))
			sleepCtx(ctx, w.cfg.ReconnectDelay)
			continue
		}
		w.log.Info("connected", logger.String("url", w.cfg.URL))

		err = w.session(ctx, conn, pipe, func() bool {
			if state == linkUp {
				return false
			}
			state = linkUp
			return true
		})
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		w.log.Warn("connection lost", logger.Error(err))
		down(fmt.Errorf("%w: %v", models.ErrTransport, err))
		sleepCtx(ctx, w.cfg.ReconnectDelay)
	}
}

// session reads frames until the connection fails or ctx is done.
// up reports whether the link changed state.
func (w *WebSocket) session(ctx context.Context, conn *websocket.Conn, pipe *middleware.PushPipeline, up func() bool) error {
	stop := make(chan struct{})
	defer close(stop)

	// unblock ReadMessage on cancellation
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	connected := func() {
		if up() {
			pipe.Connected()
		}
	}

	if w.cfg.Framing == FramingSocketIO {
		return w.readSocketIO(conn, pipe, connected)
	}

	// ping loop; socket.io servers drive their own heartbeat
	if w.cfg.PingInterval > 0 {
		go func() {
			ticker := time.NewTicker(w.cfg.PingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				}
			}
		}()
	}

	connected()
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("websocket read: %w", err)
		}
		pipe.Process(b, "")
	}
}

func (w *WebSocket) readSocketIO(conn *websocket.Conn, pipe *middleware.PushPipeline, connected func()) error {
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("websocket read: %w", err)
		}
		kind, body := parseEngineIO(b)
		switch kind {
		case packetOpen:
			if err := conn.WriteMessage(websocket.TextMessage, []byte("40")); err != nil {
				return fmt.Errorf("socket.io connect: %w", err)
			}
		case packetPing:
			if err := conn.WriteMessage(websocket.TextMessage, []byte("3")); err != nil {
				return fmt.Errorf("engine.io pong: %w", err)
			}
		case packetConnected:
			connected()
		case packetEvent:
			pipe.Process(body, "")
		case packetConnectError:
			return fmt.Errorf("socket.io connect error: %s", body)
		case packetClose, packetDisconnected:
			return errServerClosed
		}
	}
}
