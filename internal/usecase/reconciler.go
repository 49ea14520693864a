package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"SignalDash/internal/domain/models"
	drepo "SignalDash/internal/domain/repository"
	"SignalDash/internal/service/clock"
	"SignalDash/internal/service/notify"
	"SignalDash/internal/service/signallog"
	"SignalDash/internal/service/state"
	"SignalDash/internal/service/window"
	"SignalDash/pkg/logger"
	"SignalDash/pkg/util"

	"github.com/robfig/cron/v3"
)

var (
	ErrAlreadyRunning = errors.New("reconciler already running")
	ErrStopped        = errors.New("reconciler stopped")
)

// Options tunes the reconciler. Zero values fall back to the dashboard defaults.
type Options struct {
	VisibleSignals  int
	ProfitPoints    int
	NotificationTTL time.Duration
	HighlightTTL    time.Duration
	// ClockInterval drives the periodic clock region; zero disables it.
	ClockInterval time.Duration
	ResyncSignals bool
	QueueSize     int
	PullTimeout   time.Duration
}

func (o Options) withDefaults() Options {
	if o.VisibleSignals <= 0 {
		o.VisibleSignals = signallog.DefaultCapacity
	}
	if o.ProfitPoints <= 0 {
		o.ProfitPoints = 20
	}
	if o.NotificationTTL <= 0 {
		o.NotificationTTL = notify.DefaultTTL
	}
	if o.HighlightTTL <= 0 {
		o.HighlightTTL = 500 * time.Millisecond
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.PullTimeout <= 0 {
		o.PullTimeout = 15 * time.Second
	}
	return o
}

// Status is a point-in-time summary of the controller, read on its own goroutine.
type Status struct {
	Phase          models.Phase `json:"phase"`
	VisibleSignals int          `json:"visible_signals"`
	HistorySize    int          `json:"history_size"`
	ProfitPoints   int          `json:"profit_points"`
	Notifications  int          `json:"notifications"`
	PendingTimers  int          `json:"pending_timers"`
	PendingPulls   int          `json:"pending_pulls"`
	DeferredEvents int          `json:"deferred_events"`
	Subscribed     bool         `json:"subscribed"`
	PushConnected  bool         `json:"push_connected"`
}

// Reconciler owns every dashboard store and applies pull results, push events and
// timer callbacks one at a time from a single queue.
type Reconciler struct {
	source   drepo.SnapshotSource
	push     drepo.PushChannel
	renderer drepo.Renderer
	metrics  drepo.Metrics
	log      *logger.Logger
	clock    clock.Clock
	opts     Options

	events   chan event
	stopping chan struct{}
	running  atomic.Bool

	// Everything below is touched only by the Run goroutine.
	ctx        context.Context
	phase      models.Phase
	signals    *signallog.Store
	tracker    *state.Tracker
	profit     *window.Rolling[models.MetricPoint]
	notes      *notify.Scheduler
	highlights map[uint64]clock.Timer
	sub        drepo.Subscription
	cron       *cron.Cron
	pending    int
	resyncing  bool
	linkUp     bool
	deferred   []models.PushEvent
}

// NewReconciler creates a controller in the Uninitialized phase.
func NewReconciler(
	source drepo.SnapshotSource,
	push drepo.PushChannel,
	renderer drepo.Renderer,
	metrics drepo.Metrics,
	clk clock.Clock,
	log *logger.Logger,
	opts Options,
) *Reconciler {
	opts = opts.withDefaults()
	r := &Reconciler{
		source:     source,
		push:       push,
		renderer:   renderer,
		metrics:    metrics,
		log:        log.Component("reconciler"),
		clock:      clk,
		opts:       opts,
		events:     make(chan event, opts.QueueSize),
		stopping:   make(chan struct{}),
		phase:      models.PhaseUninitialized,
		signals:    signallog.New(opts.VisibleSignals),
		tracker:    state.NewTracker(),
		profit:     window.New[models.MetricPoint](opts.ProfitPoints),
		highlights: make(map[uint64]clock.Timer),
	}
	r.notes = notify.New(clk, opts.NotificationTTL, func(now time.Time) {
		r.post(notificationTick{now: now})
	})
	return r
}

// Run loads the initial snapshots, subscribes to the push channel and processes
// events until ctx is cancelled. Teardown releases the subscription and every timer.
func (r *Reconciler) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	r.ctx = ctx
	defer r.teardown()

	r.setPhase(models.PhaseLoading)
	r.renderer.Render(models.Projection{Phase: r.phase})
	r.pull(models.SnapshotSignals, models.SnapshotPerformance, models.SnapshotConnection)

	if err := r.startClock(); err != nil {
		r.log.Error("clock job not scheduled", logger.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-r.events:
			r.handle(ev)
		}
	}
}

// Status returns the controller summary. It fails once the loop has stopped.
func (r *Reconciler) Status(ctx context.Context) (Status, error) {
	req := statusRequest{reply: make(chan Status, 1)}
	select {
	case r.events <- req:
	case <-ctx.Done():
		return Status{}, ctx.Err()
	case <-r.stopping:
		return Status{}, ErrStopped
	}
	select {
	case s := <-req.reply:
		return s, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	case <-r.stopping:
		return Status{}, ErrStopped
	}
}

// OnConnect implements repository.PushHandler.
func (r *Reconciler) OnConnect() { r.post(channelConnected{}) }

// OnDisconnect implements repository.PushHandler.
func (r *Reconciler) OnDisconnect(err error) { r.post(channelDisconnected{err: err}) }

// OnEvent implements repository.PushHandler.
func (r *Reconciler) OnEvent(ev models.PushEvent) { r.post(pushReceived{ev: ev}) }

// post enqueues ev. It gives up once teardown has started so producers never block
// on a stopped loop.
func (r *Reconciler) post(ev event) {
	select {
	case r.events <- ev:
	case <-r.stopping:
	}
}

func (r *Reconciler) handle(ev event) {
	switch e := ev.(type) {
	case pullResult:
		r.onPullResult(e)
	case pushReceived:
		r.onPush(e.ev)
	case channelConnected:
		r.onConnected()
	case channelDisconnected:
		r.onDisconnected(e.err)
	case notificationTick:
		if r.notes.Tick(e.now) > 0 {
			r.render(models.RegionNotifications)
		}
	case highlightExpired:
		delete(r.highlights, e.seq)
		if r.signals.ClearHighlight(e.seq) {
			r.render(models.RegionSignals)
		}
	case clockTick:
		r.renderer.Render(models.Projection{Clock: util.ClockLabel(e.now)})
	case statusRequest:
		e.reply <- r.status()
	default:
		r.log.Warn("unknown event", logger.String("type", fmt.Sprintf("%T", ev)))
	}
}

// pull starts one goroutine per snapshot kind; each posts its result back.
func (r *Reconciler) pull(kinds ...models.SnapshotKind) {
	r.pending += len(kinds)
	for _, kind := range kinds {
		go r.fetch(kind)
	}
}

func (r *Reconciler) fetch(kind models.SnapshotKind) {
	ctx, cancel := context.WithTimeout(r.ctx, r.opts.PullTimeout)
	defer cancel()

	start := time.Now()
	res := pullResult{kind: kind}
	switch kind {
	case models.SnapshotSignals:
		res.signals, res.err = r.source.FetchSignals(ctx)
	case models.SnapshotPerformance:
		res.performance, res.err = r.source.FetchPerformance(ctx)
	case models.SnapshotConnection:
		res.connection, res.err = r.source.FetchConnection(ctx)
	}
	res.elapsed = time.Since(start)
	r.post(res)
}

func (r *Reconciler) onPullResult(res pullResult) {
	r.pending--
	r.metrics.RecordLatency("pull_"+string(res.kind), res.elapsed.Seconds())

	if res.err != nil {
		r.metrics.RecordError("pull_" + string(res.kind))
		r.log.Warn("pull failed", logger.String("kind", string(res.kind)), logger.Error(res.err))
		r.notes.Notify(fmt.Sprintf("Failed to load %s", res.kind), models.SeverityError)
	} else {
		r.metrics.RecordEvent("pull_" + string(res.kind))
		switch res.kind {
		case models.SnapshotSignals:
			// The initial load defines the log. A resync only fills in what was
			// missed while disconnected, so history survives reconnects.
			if r.phase == models.PhaseLoading {
				r.signals.ReplaceAll(res.signals)
				r.releaseHighlights()
			} else if n := r.signals.Merge(res.signals); n > 0 {
				r.log.Info("resync recovered signals", logger.Int("count", n))
			}
			r.metrics.RecordVisibleSignals(r.signals.Len())
		case models.SnapshotPerformance:
			r.tracker.ApplyPerformance(res.performance)
		case models.SnapshotConnection:
			r.tracker.ApplyConnection(res.connection)
		}
	}

	if r.pending > 0 {
		return
	}

	switch {
	case r.phase == models.PhaseLoading:
		r.setPhase(models.PhaseLive)
		r.renderAll()
		r.subscribe()
	case r.resyncing:
		r.finishResync()
	default:
		r.renderAll()
	}
}

func (r *Reconciler) subscribe() {
	sub, err := r.push.Subscribe(r.ctx, r)
	if err != nil {
		r.metrics.RecordError("push_subscribe")
		r.log.Error("push subscribe failed", logger.Error(err))
		r.notes.Notify("Live updates unavailable", models.SeverityError)
		r.setPhase(models.PhaseDegraded)
		r.tracker.MarkDisconnected()
		r.render(models.RegionPhase, models.RegionConnection, models.RegionNotifications)
		return
	}
	r.sub = sub
}

func (r *Reconciler) onConnected() {
	r.linkUp = true
	if r.phase != models.PhaseDegraded || r.resyncing {
		return
	}
	r.log.Info("push channel reconnected, resyncing")
	r.resyncing = true
	kinds := []models.SnapshotKind{models.SnapshotConnection, models.SnapshotPerformance}
	if r.opts.ResyncSignals {
		kinds = append(kinds, models.SnapshotSignals)
	}
	r.pull(kinds...)
}

func (r *Reconciler) onDisconnected(err error) {
	r.linkUp = false
	if r.phase != models.PhaseLive {
		return
	}
	r.log.Warn("push channel lost", logger.Error(err))
	r.setPhase(models.PhaseDegraded)
	r.tracker.MarkDisconnected()
	r.render(models.RegionPhase, models.RegionConnection)
}

// finishResync applies the events that arrived while resync pulls were in flight, in
// arrival order, then leaves Degraded if the channel is still up.
func (r *Reconciler) finishResync() {
	r.resyncing = false
	if r.linkUp {
		r.setPhase(models.PhaseLive)
	} else {
		r.tracker.MarkDisconnected()
	}
	r.renderAll()

	deferred := r.deferred
	r.deferred = nil
	for _, ev := range deferred {
		// the backend stores a signal before emitting it, so the snapshot may hold it
		if ev.Type == models.EventNewSignal && ev.Err == nil && ev.Signal != nil && r.signals.Contains(*ev.Signal) {
			r.log.Debug("deferred signal already in snapshot", logger.String("asset", ev.Signal.Asset))
			continue
		}
		r.apply(ev)
	}
}

func (r *Reconciler) onPush(ev models.PushEvent) {
	if ev.Signal != nil && ev.Signal.Timestamp.IsZero() {
		stamped := *ev.Signal
		stamped.Timestamp = r.clock.Now()
		ev.Signal = &stamped
	}
	if r.resyncing {
		r.deferred = append(r.deferred, ev)
		return
	}
	r.apply(ev)
}

// apply dispatches one push event to exactly one store and re-renders the regions
// it affects.
func (r *Reconciler) apply(ev models.PushEvent) {
	if ev.Err != nil {
		r.metrics.RecordError("push_malformed")
		name := string(ev.Type)
		if name == "" {
			name = "push"
		}
		r.notes.Notify(fmt.Sprintf("Rejected malformed %s event", name), models.SeverityError)
		r.render(models.RegionNotifications)
		return
	}

	switch ev.Type {
	case models.EventConnectionUpdate:
		if ev.Connection == nil {
			return
		}
		r.tracker.ApplyConnection(*ev.Connection)
		r.render(models.RegionConnection)
	case models.EventPerformanceUpdate:
		if ev.Performance == nil {
			return
		}
		r.tracker.ApplyPerformance(*ev.Performance)
		if ev.HasProfit {
			r.profit.Push(models.MetricPoint{
				Label: util.ClockLabel(r.clock.Now()),
				Value: ev.Performance.TotalProfit,
			})
		}
		r.render(models.RegionPerformance, models.RegionCharts)
	case models.EventNewSignal:
		if ev.Signal == nil {
			return
		}
		seq := r.signals.Record(*ev.Signal)
		r.highlights[seq] = r.clock.AfterFunc(r.opts.HighlightTTL, func() {
			r.post(highlightExpired{seq: seq})
		})
		r.notes.Notify(fmt.Sprintf("New %s signal for %s", ev.Signal.Direction, ev.Signal.Asset), models.SeverityInfo)
		r.metrics.RecordVisibleSignals(r.signals.Len())
		r.render(models.RegionSignals, models.RegionCharts, models.RegionNotifications)
	default:
		return
	}
	r.metrics.RecordEvent(string(ev.Type))
}

func (r *Reconciler) startClock() error {
	if r.opts.ClockInterval <= 0 {
		return nil
	}
	c := cron.New(cron.WithSeconds())
	spec := fmt.Sprintf("@every %s", r.opts.ClockInterval)
	if _, err := c.AddFunc(spec, func() {
		r.post(clockTick{now: r.clock.Now()})
	}); err != nil {
		return fmt.Errorf("schedule clock: %w", err)
	}
	c.Start()
	r.cron = c
	return nil
}

func (r *Reconciler) releaseHighlights() {
	for seq, t := range r.highlights {
		t.Stop()
		delete(r.highlights, seq)
	}
}

func (r *Reconciler) teardown() {
	close(r.stopping)
	if r.sub != nil {
		r.sub.Cancel()
		r.sub = nil
	}
	r.releaseHighlights()
	r.notes.Close()
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
	r.log.Info("stopped")
}

func (r *Reconciler) setPhase(p models.Phase) {
	if r.phase != p {
		r.log.Info("phase change", logger.String("from", string(r.phase)), logger.String("to", string(p)))
		r.phase = p
	}
}

func (r *Reconciler) status() Status {
	return Status{
		Phase:          r.phase,
		VisibleSignals: r.signals.Len(),
		HistorySize:    r.signals.HistoryLen(),
		ProfitPoints:   r.profit.Len(),
		Notifications:  len(r.notes.Active()),
		PendingTimers:  r.notes.PendingTimers() + len(r.highlights),
		PendingPulls:   r.pending,
		DeferredEvents: len(r.deferred),
		Subscribed:     r.sub != nil,
		PushConnected:  r.linkUp,
	}
}
