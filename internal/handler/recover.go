package handler

import (
	"context"
	"fmt"

	"github.com/calmkit/beacon/internal/models"
)

// CapturePanic funnels a recovered panic into the handling pipeline. Defer it
// at goroutine boundaries the way a global exception hook would be wired once
// at app startup:
//
//	defer svc.CapturePanic(ctx)
//
// The panic is converted to a fatal error so it classifies as CRITICAL, then
// swallowed: the goroutine ends normally with the report already logged,
// persisted and broadcast.
func (s *Service) CapturePanic(ctx context.Context) {
	r := recover()
	if r == nil {
		return
	}

	n := models.NormalizedError{
		Message: fmt.Sprintf("panic: %v", r),
		IsFatal: true,
	}
	if err, ok := r.(error); ok {
		n.Message = "panic: " + err.Error()
	}
	s.Handle(ctx, n, nil, nil)
}
