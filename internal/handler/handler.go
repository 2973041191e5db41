// Package handler implements the central error intake pipeline: normalize,
// classify, crisis-check, log, persist, report, notify, recover, broadcast.
// A single Service instance owns all shared state; there are no package-level
// globals, so tests can construct and discard instances freely.
package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/calmkit/beacon/internal/classify"
	"github.com/calmkit/beacon/internal/models"
	"github.com/calmkit/beacon/internal/notify"
	"github.com/calmkit/beacon/internal/recovery"
	"github.com/calmkit/beacon/internal/report"
	"github.com/calmkit/beacon/pkg/history"
)

// ErrorLogsKey is the kv entry holding the persisted history snapshot.
const ErrorLogsKey = "error_logs"

// DefaultMaxErrorLogs bounds the retained history when no cap is configured.
const DefaultMaxErrorLogs = 100

// Options tune a single Handle call. The zero value runs the full pipeline.
type Options struct {
	// SkipLog suppresses the structured log write.
	SkipLog bool
	// SkipReport suppresses remote delivery (the report is still persisted).
	SkipReport bool
	// SkipAlert suppresses the user-facing notification and haptic.
	SkipAlert bool
}

// Config wires a Service to its collaborators. Logger and DB are required;
// the rest default to no-ops so the handler can be embedded headless.
type Config struct {
	Logger   *slog.Logger
	DB       *sql.DB
	Reporter *report.Reporter
	Alerter  notify.Alerter
	Haptics  notify.Haptics

	// MaxLogs caps the retained history (default DefaultMaxErrorLogs).
	MaxLogs int
	// ExtraCrisisKeywords extend, never replace, the built-in keyword list.
	ExtraCrisisKeywords []string
	// NetworkProbe is passed through to network recovery actions.
	NetworkProbe func(ctx context.Context) error
}

type subscriber struct {
	id int
	fn func(ctx context.Context, rep models.ErrorReport)
}

// Service is the error handling engine. Safe for concurrent use.
type Service struct {
	logger   *slog.Logger
	db       *sql.DB
	reporter *report.Reporter
	alerter  notify.Alerter
	haptics  notify.Haptics

	extraKeywords []string
	networkProbe  func(ctx context.Context) error

	history *history.Buffer[models.ErrorReport]

	mu             sync.Mutex
	currentContext models.ErrorContext
	subscribers    []subscriber
	nextSubID      int
}

// handlingKey marks a context as already inside Handle. Errors raised while
// handling another error (a subscriber or recovery action re-dispatching with
// the context it was given) skip user notification and remote reporting so a
// failing collaborator cannot recurse through its own error path forever.
// The marker travels with the call chain, so concurrent unrelated Handle
// calls never suppress each other.
type handlingKey struct{}

// New constructs a Service and loads any persisted history into memory.
// A failed load is logged and treated as empty history, never fatal.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	alerter := cfg.Alerter
	if alerter == nil {
		alerter = notify.NopAlerter{}
	}
	haptics := cfg.Haptics
	if haptics == nil {
		haptics = notify.NopHaptics{}
	}
	maxLogs := cfg.MaxLogs
	if maxLogs <= 0 {
		maxLogs = DefaultMaxErrorLogs
	}

	s := &Service{
		logger:        logger,
		db:            cfg.DB,
		reporter:      cfg.Reporter,
		alerter:       alerter,
		haptics:       haptics,
		extraKeywords: cfg.ExtraCrisisKeywords,
		networkProbe:  cfg.NetworkProbe,
		history:       history.New[models.ErrorReport](maxLogs),
	}
	s.loadHistory()
	return s
}

// Handle routes an arbitrary error value through the full pipeline and
// returns the resulting immutable report. It never panics and never fails:
// every side-effect failure is isolated, logged, and skipped.
func (s *Service) Handle(ctx context.Context, v any, callCtx *models.ErrorContext, opts *Options) models.ErrorReport {
	if opts == nil {
		opts = &Options{}
	}

	nested := ctx.Value(handlingKey{}) != nil
	if !nested {
		ctx = context.WithValue(ctx, handlingKey{}, true)
	}

	// 1. Classify.
	rep := s.buildReport(v, callCtx)

	// 2. Crisis upgrade (one-way; runs on every report).
	rep = s.crisisUpgrade(rep)

	strategy := recovery.Plan(rep, recovery.Deps{
		Logger:       s.logger,
		Haptics:      s.haptics,
		NetworkProbe: s.networkProbe,
	})

	// 3. Log.
	if !opts.SkipLog {
		s.logReport(rep)
	}

	// 4. Append + persist.
	s.history.Append(rep)
	s.persistHistory()

	// 5. Report remotely. Nested errors stay local.
	if !opts.SkipReport && !nested {
		s.deliver(ctx, rep)
	}

	// 6. Notify user. Nested errors stay silent.
	if !opts.SkipAlert && !nested {
		s.notifyUser(rep, strategy)
	}

	// 7. Execute recovery.
	s.runRecovery(ctx, rep, strategy)

	// 8. Broadcast to subscribers.
	s.broadcast(ctx, rep)

	return rep
}

// buildReport normalizes the input and assembles the classified report.
func (s *Service) buildReport(v any, callCtx *models.ErrorContext) models.ErrorReport {
	n := models.Normalize(v)
	category := classify.Categorize(n)
	severity := classify.SeverityFor(category, n)

	s.mu.Lock()
	reportCtx := s.currentContext
	s.mu.Unlock()
	if callCtx != nil {
		reportCtx = reportCtx.Merge(*callCtx)
	}
	reportCtx.Timestamp = time.Now()

	return models.ErrorReport{
		ID:                  models.NewReportID(),
		Message:             n.Message,
		Stack:               n.Stack,
		Severity:            severity,
		Category:            category,
		Context:             reportCtx,
		UserMessage:         classify.UserMessage(category, n.UserMessage),
		RecoverySuggestions: classify.RecoverySuggestions(category),
		IsRecoverable:       classify.Recoverable(category, n),
		RequiresSupport:     severity == models.SeverityCritical,
	}
}

// crisisUpgrade escalates a report when its text contains crisis keywords.
// Escalation is strictly one-way: nothing ever downgrades a crisis report.
func (s *Service) crisisUpgrade(rep models.ErrorReport) models.ErrorReport {
	if rep.Category == models.CategoryCrisis {
		return rep
	}
	if !classify.CrisisDetected(rep.Message, rep.Context.Metadata, s.extraKeywords) {
		return rep
	}

	rep.Category = models.CategoryCrisis
	rep.Severity = models.SeverityCritical
	rep.RequiresSupport = true
	rep.IsRecoverable = false
	rep.UserMessage = classify.UserMessage(models.CategoryCrisis, "")
	rep.RecoverySuggestions = classify.RecoverySuggestions(models.CategoryCrisis)
	return rep
}

func (s *Service) logReport(rep models.ErrorReport) {
	defer s.recoverStep("log")

	attrs := []any{
		"report_id", rep.ID,
		"category", string(rep.Category),
		"severity", string(rep.Severity),
	}
	if rep.Context.Screen != "" {
		attrs = append(attrs, "screen", rep.Context.Screen)
	}
	if rep.Context.Action != "" {
		attrs = append(attrs, "action", rep.Context.Action)
	}

	switch rep.Severity {
	case models.SeverityCritical, models.SeverityHigh:
		s.logger.Error(rep.Message, attrs...)
	case models.SeverityMedium:
		s.logger.Warn(rep.Message, attrs...)
	default:
		s.logger.Info(rep.Message, attrs...)
	}
}

func (s *Service) deliver(ctx context.Context, rep models.ErrorReport) {
	defer s.recoverStep("report")

	if s.reporter == nil || !report.ShouldReport(rep) {
		return
	}
	if err := s.reporter.Deliver(ctx, rep); err != nil {
		// Deliver already queued the report durably; nothing else to do here.
		s.logger.Warn("report delivery deferred", "report_id", rep.ID, "error", err.Error())
	}
}

// notifyUser presents the report according to severity policy: critical
// interrupts with a non-dismissible dialog, high shows a dismissible dialog
// whose acknowledgement runs the fallback action, everything else is a toast.
func (s *Service) notifyUser(rep models.ErrorReport, strategy recovery.Strategy) {
	defer s.recoverStep("notify")

	s.haptics.Trigger(notify.HapticError)

	switch rep.Severity {
	case models.SeverityCritical:
		buttons := []notify.AlertButton{}
		if rep.RequiresSupport {
			buttons = append(buttons, notify.AlertButton{Label: "Get Help", OnPress: strategy.FallbackAction})
		}
		buttons = append(buttons, notify.AlertButton{Label: "OK"})
		s.alerter.Show("Something went wrong", rep.UserMessage, buttons, notify.AlertOptions{NonDismissible: true})
	case models.SeverityHigh:
		s.alerter.Show("Something went wrong", rep.UserMessage,
			[]notify.AlertButton{{Label: "OK", OnPress: strategy.FallbackAction}},
			notify.AlertOptions{})
	default:
		s.alerter.Toast(rep.UserMessage)
	}
}

func (s *Service) runRecovery(ctx context.Context, rep models.ErrorReport, strategy recovery.Strategy) {
	defer s.recoverStep("recovery")

	if !strategy.CanRecover || strategy.RecoveryAction == nil {
		return
	}
	if err := strategy.RecoveryAction(ctx); err != nil {
		s.logger.Warn("recovery action failed", "report_id", rep.ID, "error", err.Error())
	}
}

// recoverStep isolates a pipeline step: a panicking collaborator is logged
// and the remaining steps still run.
func (s *Service) recoverStep(step string) {
	if r := recover(); r != nil {
		s.logger.Error("pipeline step panicked", "step", step, "panic", r)
	}
}
