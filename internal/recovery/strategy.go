// Package recovery computes the remediation plan for a classified error
// report: whether automated recovery applies, what it does, and what the user
// is told to do.
package recovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/calmkit/beacon/internal/models"
	"github.com/calmkit/beacon/internal/notify"
)

// Strategy describes what automated or user-directed remediation applies to a
// report. RecoveryAction runs automatically once per handled error;
// FallbackAction runs when the user acknowledges a high-severity alert, or
// unconditionally for crisis escalation.
type Strategy struct {
	CanRecover     bool
	RecoveryAction func(ctx context.Context) error
	FallbackAction func()
	UserGuidance   string
}

// Deps are the collaborators recovery actions are allowed to touch. All are
// optional: missing collaborators degrade to logging only.
type Deps struct {
	Logger  *slog.Logger
	Haptics notify.Haptics

	// NetworkProbe is the operation retried by the network recovery action,
	// typically a cheap connectivity check supplied by the embedding app.
	// Nil means the action only verifies that retrying is possible later.
	NetworkProbe func(ctx context.Context) error
}

// Plan derives the strategy for a classified report.
func Plan(rep models.ErrorReport, deps Deps) Strategy {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := Strategy{
		CanRecover:   rep.IsRecoverable,
		UserGuidance: guidanceFor(rep),
	}

	switch rep.Category {
	case models.CategoryNetwork:
		s.RecoveryAction = func(ctx context.Context) error {
			return retryNetworkProbe(ctx, deps.NetworkProbe)
		}
	case models.CategoryAuthentication:
		s.RecoveryAction = func(ctx context.Context) error {
			// Navigation to the sign-in flow belongs to the embedding app;
			// the handler only signals that re-authentication is needed.
			logger.Info("re-authentication required", "report_id", rep.ID)
			return nil
		}
	case models.CategoryData:
		s.RecoveryAction = func(ctx context.Context) error {
			logger.Info("data resynchronization requested", "report_id", rep.ID)
			return nil
		}
	case models.CategoryCrisis:
		// Safety override: crisis reports never follow normal recovery.
		s.CanRecover = false
		s.UserGuidance = "Immediate support is available"
		haptics := deps.Haptics
		s.FallbackAction = func() {
			if haptics != nil {
				haptics.Trigger(notify.HapticSOS)
			}
			logger.Warn("crisis support escalation triggered", "report_id", rep.ID)
		}
	}

	return s
}

func guidanceFor(rep models.ErrorReport) string {
	if len(rep.RecoverySuggestions) > 0 {
		return rep.RecoverySuggestions[0]
	}
	return "Please try again"
}

func retryNetworkProbe(ctx context.Context, probe func(ctx context.Context) error) error {
	if probe == nil {
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 4 * time.Second
	b.MaxElapsedTime = 15 * time.Second

	return backoff.Retry(func() error {
		return probe(ctx)
	}, backoff.WithContext(b, ctx))
}
