package stream

import (
	"context"
	"fmt"
	"time"

	"SignalDash/internal/domain/models"
	drepo "SignalDash/internal/domain/repository"
	"SignalDash/internal/middleware"
	"SignalDash/internal/service/payload"
	"SignalDash/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the redis pub/sub push channel.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	Channel        string
	ReconnectDelay time.Duration
}

// Redis implements a PushChannel on a redis pub/sub channel carrying JSON envelopes.
type Redis struct {
	client  *redis.Client
	channel string
	delay   time.Duration
	metrics drepo.Metrics
	log     *logger.Logger
}

// NewRedis creates a redis push channel with its own client.
func NewRedis(cfg RedisConfig, metrics drepo.Metrics, log *logger.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisWithClient(client, cfg.Channel, cfg.ReconnectDelay, metrics, log)
}

func NewRedisWithClient(client *redis.Client, channel string, delay time.Duration, metrics drepo.Metrics, log *logger.Logger) *Redis {
	return &Redis{
		client:  client,
		channel: channel,
		delay:   delay,
		metrics: metrics,
		log:     log.Component("stream.redis"),
	}
}

// Subscribe subscribes to the configured channel. go-redis re-establishes the
// subscription after a connection loss; Receive surfaces both sides of it.
func (r *Redis) Subscribe(ctx context.Context, h drepo.PushHandler) (drepo.Subscription, error) {
	decode := func(frame []byte, _ string) (models.PushEvent, error) {
		return payload.DecodeEnvelope(frame, "")
	}
	pipe := middleware.NewPushPipeline(h, r.metrics, decode, middleware.WithLogger(r.log))

	ctx, cancel := context.WithCancel(ctx)
	ps := r.client.Subscribe(ctx, r.channel)
	sub := newSubscription(cancel)
	sub.onClose = func() { _ = ps.Close() }

	go func() {
		defer close(sub.done)
		r.run(ctx, ps, pipe)
	}()
	return sub, nil
}

func (r *Redis) run(ctx context.Context, ps *redis.PubSub, pipe *middleware.PushPipeline) {
	state := linkUnknown
	for {
		msg, err := ps.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if state != linkDown {
				state = linkDown
				r.log.Warn("subscription lost", logger.String("channel", r.channel), logger.Error(err))
				pipe.Disconnected(fmt.Errorf("%w: %v", models.ErrTransport, err))
			}
			if !sleepCtx(ctx, r.delay) {
				return
			}
			continue
		}

		switch m := msg.(type) {
		case *redis.Subscription:
			if m.Kind == "subscribe" && state != linkUp {
				state = linkUp
				r.log.Info("subscribed", logger.String("channel", m.Channel))
				pipe.Connected()
			}
		case *redis.Message:
			pipe.Process([]byte(m.Payload), "")
		}
	}
}

// Ping checks the redis connection.
func (r *Redis) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
