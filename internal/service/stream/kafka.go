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

	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the kafka push channel.
type KafkaConfig struct {
	Brokers        []string
	Topic          string
	Partition      int
	MinBytes       int
	MaxBytes       int
	MaxWait        time.Duration
	ReconnectDelay time.Duration
	// HealthInterval is how long a read may stay idle before the reader's fetch
	// error counter is checked.
	HealthInterval time.Duration
}

// kafkaReader is the part of *kafka.Reader the channel drives.
type kafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Stats() kafka.ReaderStats
	Close() error
}

// Kafka implements a PushChannel reading one topic partition. A single reader keeps
// events in log order; messages without an event name use their key.
type Kafka struct {
	cfg     KafkaConfig
	metrics drepo.Metrics
	log     *logger.Logger
}

func NewKafka(cfg KafkaConfig, metrics drepo.Metrics, log *logger.Logger) *Kafka {
	if cfg.MinBytes <= 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 1 << 20
	}
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = 5 * time.Second
	}
	return &Kafka{cfg: cfg, metrics: metrics, log: log.Component("stream.kafka")}
}

// Subscribe starts reading from the tail of the partition.
func (k *Kafka) Subscribe(ctx context.Context, h drepo.PushHandler) (drepo.Subscription, error) {
	if len(k.cfg.Brokers) == 0 || k.cfg.Topic == "" {
		return nil, fmt.Errorf("%w: kafka brokers and topic are required", models.ErrTransport)
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   k.cfg.Brokers,
		Topic:     k.cfg.Topic,
		Partition: k.cfg.Partition,
		MinBytes:  k.cfg.MinBytes,
		MaxBytes:  k.cfg.MaxBytes,
		MaxWait:   k.cfg.MaxWait,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			k.log.Debug(fmt.Sprintf(msg, args...))
		}),
	})
	if err := reader.SetOffset(kafka.LastOffset); err != nil {
		_ = reader.Close()
		return nil, fmt.Errorf("%w: kafka set offset: %v", models.ErrTransport, err)
	}

	pipe := middleware.NewPushPipeline(h, k.metrics, payload.DecodeEnvelope, middleware.WithLogger(k.log))

	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)
	go func() {
		defer close(sub.done)
		defer reader.Close()
		k.run(ctx, reader, pipe)
	}()
	return sub, nil
}

func (k *Kafka) run(ctx context.Context, reader kafkaReader, pipe *middleware.PushPipeline) {
	// Without a consumer group the reader retries broker failures internally and
	// ReadMessage just blocks, so an idle window with fetch errors counts as down.
	state := linkUp
	pipe.Connected()

	down := func(err error) {
		if state == linkDown {
			return
		}
		state = linkDown
		k.log.Warn("read failed", logger.String("topic", k.cfg.Topic), logger.Error(err))
		pipe.Disconnected(fmt.Errorf("%w: %v", models.ErrTransport, err))
	}
	up := func() {
		if state == linkUp {
			return
		}
		state = linkUp
		reader.Stats() // drop errors counted while down
		pipe.Connected()
	}

	for {
		readCtx, cancel := context.WithTimeout(ctx, k.cfg.HealthInterval)
		m, err := reader.ReadMessage(readCtx)
		cancel()
		switch {
		case err == nil:
			up()
			pipe.Process(m.Value, string(m.Key))
		case ctx.Err() != nil:
			return
		case errors.Is(err, context.DeadlineExceeded):
			if n := reader.Stats().Errors; n > 0 {
				down(fmt.Errorf("%d fetch errors in %s", n, k.cfg.HealthInterval))
			} else {
				up()
			}
		default:
			down(err)
			if !sleepCtx(ctx, k.cfg.ReconnectDelay) {
				return
			}
		}
	}
}
