package middleware

import (
	"errors"
	"time"

	"SignalDash/internal/domain/models"
	domrepo "SignalDash/internal/domain/repository"
	"SignalDash/pkg/logger"
)

// DecodeFunc turns one raw transport frame into a push event. hint is a transport
// supplied event name (a kafka key) used when the frame does not name its event.
type DecodeFunc func(frame []byte, hint string) (models.PushEvent, error)

// PushPipeline sits between a push transport and the dashboard's PushHandler.
// It decodes raw frames, drops events nobody handles, surfaces malformed frames as
// failed events and forwards the rest in the order they were read.
type PushPipeline struct {
	handler domrepo.PushHandler
	metrics domrepo.Metrics
	log     *logger.Logger
	decode  DecodeFunc
}

type PipelineOption func(*PushPipeline)

func WithLogger(l *logger.Logger) PipelineOption {
	return func(p *PushPipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPushPipeline creates a pipeline forwarding to h.
func NewPushPipeline(h domrepo.PushHandler, metrics domrepo.Metrics, decode DecodeFunc, opts ...PipelineOption) *PushPipeline {
	p := &PushPipeline{
		handler: h,
		metrics: metrics,
		log:     logger.Nop(),
		decode:  decode,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process decodes and forwards one frame. It reports whether an event reached the
// handler.
func (p *PushPipeline) Process(frame []byte, hint string) bool {
	start := time.Now()
	ev, err := p.decode(frame, hint)
	switch {
	case errors.Is(err, models.ErrUnknownEvent):
		p.metrics.RecordError("push_unknown_event")
		p.log.Debug("push event ignored", logger.Error(err))
		return false
	case err != nil:
		// An undecodable frame is still a malformed push for the dashboard.
		p.metrics.RecordError("push_decode")
		ev = models.PushEvent{Err: err}
	}
	if ev.Err != nil {
		p.log.Warn("malformed push event", logger.String("event", string(ev.Type)), logger.Error(ev.Err))
	}
	p.handler.OnEvent(ev)
	p.metrics.RecordLatency("push_decode", time.Since(start).Seconds())
	return true
}

func (p *PushPipeline) Connected() {
	p.handler.OnConnect()
}

func (p *PushPipeline) Disconnected(err error) {
	if err != nil {
		p.metrics.RecordError("push_disconnect")
	}
	p.handler.OnDisconnect(err)
}
