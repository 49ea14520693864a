// Package stream implements the dashboard push channel over websocket, redis pub/sub
// and kafka. Every transport reconnects on its own and reports lifecycle changes to
// the subscribed handler.
package stream

import (
	"context"
	"sync"
	"time"
)

// subscription is the Cancel handle shared by all transports.
type subscription struct {
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	onClose func()
}

func newSubscription(cancel context.CancelFunc) *subscription {
	return &subscription{cancel: cancel, done: make(chan struct{})}
}

// Cancel stops the transport goroutine and waits for it to exit. It is safe to call
// more than once.
func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		if s.onClose != nil {
			s.onClose()
		}
		<-s.done
	})
}

// linkState tracks what the handler was last told so each transition is reported once.
type linkState int

const (
	linkUnknown linkState = iota
	linkUp
	linkDown
)

// sleepCtx waits for d or until ctx is done. It reports whether the full delay elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
