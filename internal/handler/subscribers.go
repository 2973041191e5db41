package handler

import (
	"context"

	"github.com/calmkit/beacon/internal/models"
)

// OnError registers fn to receive every report the pipeline produces, in
// registration order. Callbacks receive the handling context; a callback that
// re-dispatches into Handle should pass that context along so the pipeline
// can tell a nested error from a fresh one. The returned function
// unsubscribes; calling it more than once is harmless.
func (s *Service) OnError(fn func(ctx context.Context, rep models.ErrorReport)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// broadcast invokes subscribers with a copy of the final report. Each
// subscriber is isolated: a panicking callback is logged and the remaining
// callbacks still run.
func (s *Service) broadcast(ctx context.Context, rep models.ErrorReport) {
	s.mu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("error subscriber panicked", "report_id", rep.ID, "panic", r)
				}
			}()
			sub.fn(ctx, rep.Clone())
		}()
	}
}
