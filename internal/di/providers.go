package di

import (
	"io"
	"time"

	"SignalDash/internal/domain/repository"
	"SignalDash/internal/handler/api"
	"SignalDash/internal/render"
	"SignalDash/internal/render/snapshot"
	"SignalDash/internal/render/tui"
	"SignalDash/internal/service/backend"
	"SignalDash/internal/service/cache"
	"SignalDash/internal/service/clock"
	"SignalDash/internal/service/ratelimit"
	"SignalDash/internal/service/stream"
	"SignalDash/internal/usecase"
	"SignalDash/pkg/config"
	xhttp "SignalDash/pkg/http"
	"SignalDash/pkg/logger"
	"SignalDash/pkg/metrics"
	"SignalDash/pkg/server"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// tuiLogFile receives console logs while the terminal UI owns stdout.
	tuiLogFile = "signaldash.log"

	healthCheckTTL = 5 * time.Second
)

// ProvideLogger creates the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	output := cfg.Logging.Output
	if cfg.Render.TUI && (output == "" || output == "stdout") {
		output = tuiLogFile
	}
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideBackendClient creates the snapshot source for the three pull endpoints.
func ProvideBackendClient(cfg *config.Config) *backend.Client {
	return backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
}

// ProvidePushChannel picks the push transport named in config.
func ProvidePushChannel(cfg *config.Config, rec *metrics.Recorder, log *logger.Logger) repository.PushChannel {
	p := cfg.Push
	switch p.Transport {
	case config.TransportRedis:
		return stream.NewRedis(stream.RedisConfig{
			Addr:           p.Redis.Addr,
			Password:       p.Redis.Password,
			DB:             p.Redis.DB,
			Channel:        p.Redis.Channel,
			ReconnectDelay: p.Redis.ReconnectDelay,
		}, rec, log)
	case config.TransportKafka:
		return stream.NewKafka(stream.KafkaConfig{
			Brokers:        p.Kafka.Brokers,
			Topic:          p.Kafka.Topic,
			Partition:      p.Kafka.Partition,
			MinBytes:       p.Kafka.MinBytes,
			MaxBytes:       p.Kafka.MaxBytes,
			MaxWait:        p.Kafka.MaxWait,
			ReconnectDelay: p.Kafka.ReconnectDelay,
			HealthInterval: p.Kafka.HealthInterval,
		}, rec, log)
	default:
		return stream.NewWebSocket(stream.WebSocketConfig{
			URL:              p.WebSocket.URL,
			Framing:          p.WebSocket.Framing,
			ReconnectDelay:   p.WebSocket.ReconnectDelay,
			PingInterval:     p.WebSocket.PingInterval,
			HandshakeTimeout: p.WebSocket.HandshakeTO,
		}, rec, log)
	}
}

// ProvideHolder creates the snapshot holder served over HTTP.
func ProvideHolder() *snapshot.Holder {
	return snapshot.NewHolder()
}

// ProvideTUI creates the terminal renderer, or nil when disabled.
func ProvideTUI(cfg *config.Config) *tui.Renderer {
	if !cfg.Render.TUI {
		return nil
	}
	return tui.NewRenderer(tea.WithAltScreen())
}

// ProvideRenderer fans projections out to every enabled surface.
func ProvideRenderer(holder *snapshot.Holder, term *tui.Renderer) repository.Renderer {
	rs := []repository.Renderer{holder}
	if term != nil {
		rs = append(rs, term)
	}
	return render.NewFanout(rs...)
}

// ProvideReconcilerOptions maps the dashboard section onto reconciler options.
func ProvideReconcilerOptions(cfg *config.Config) usecase.Options {
	d := cfg.Dashboard
	return usecase.Options{
		VisibleSignals:  d.VisibleSignals,
		ProfitPoints:    d.ProfitPoints,
		NotificationTTL: d.NotificationTTL,
		HighlightTTL:    d.HighlightTTL,
		ClockInterval:   d.ClockInterval,
		ResyncSignals:   d.ResyncSignals,
		QueueSize:       d.QueueSize,
		PullTimeout:     cfg.Backend.Timeout,
	}
}

// ProvideReconciler creates the dashboard controller.
func ProvideReconciler(
	source *backend.Client,
	push repository.PushChannel,
	renderer repository.Renderer,
	rec *metrics.Recorder,
	log *logger.Logger,
	opts usecase.Options,
) *usecase.Reconciler {
	return usecase.NewReconciler(source, push, renderer, rec, clock.Real{}, log, opts)
}

// ProvideDashboardHandler creates the read-only HTTP handler. Transports that can be
// pinged (redis) are reported on /health next to the backend.
func ProvideDashboardHandler(
	log *logger.Logger,
	holder *snapshot.Holder,
	source *backend.Client,
	push repository.PushChannel,
) *api.DashboardEchoHandler {
	h := api.NewDashboardEchoHandler(log, holder, cache.NewPinger(source, healthCheckTTL, clock.Real{}))
	if p, ok := push.(repository.Pinger); ok {
		h.WithPushCheck(cache.NewPinger(p, healthCheckTTL, clock.Real{}))
	}
	return h
}

// ProvideHTTPServer creates the Echo server, or nil when disabled.
func ProvideHTTPServer(cfg *config.Config, log *logger.Logger, h *api.DashboardEchoHandler) *xhttp.Server {
	if !cfg.Server.Enabled {
		return nil
	}
	opts := []xhttp.ServerOption{
		xhttp.WithLogger(log),
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true),
	}
	if rl := cfg.Server.RateLimit; rl.RPS > 0 {
		opts = append(opts, xhttp.WithRateLimit(ratelimit.New(rl.Burst, rl.RPS)))
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, prometheus.DefaultRegisterer, prometheus.DefaultGatherer))
	} else {
		opts = append(opts, xhttp.WithMetrics("", nil, nil))
	}
	return xhttp.NewServer([]xhttp.Handler{h}, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	reconciler *usecase.Reconciler,
	srv *xhttp.Server,
	term *tui.Renderer,
	push repository.PushChannel,
) *server.App {
	app := server.New(cfg, log, reconciler, srv, term)
	if c, ok := push.(io.Closer); ok {
		app.AddCloser(c)
	}
	return app
}
