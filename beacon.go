// Package beacon is the embeddable entry point for the error intake,
// classification and crisis-escalation engine.
//
// A typical app constructs one Service at startup and hands it the
// collaborators it owns (logger, database, alert surface, haptics):
//
//	db, err := beacon.Open("") // "" resolves per config/env, or pass a path
//	if err != nil { ... }
//	svc := beacon.New(beacon.Config{
//		Logger:  slog.Default(),
//		DB:      db,
//		Alerter: myAlertSurface,
//		Haptics: myHaptics,
//	})
//	defer svc.CapturePanic(ctx) // optional global interception
//
//	report := svc.Handle(ctx, err, nil, nil)
//
// Every handled value produces an immutable ErrorReport; Handle never fails
// and never panics, regardless of how its collaborators misbehave.
package beacon

import (
	"database/sql"
	"log/slog"

	"github.com/calmkit/beacon/internal/handler"
	"github.com/calmkit/beacon/internal/models"
	"github.com/calmkit/beacon/internal/notify"
	"github.com/calmkit/beacon/internal/report"
	"github.com/calmkit/beacon/internal/store"
)

// Core types, re-exported for embedding applications.
type (
	Service      = handler.Service
	Config       = handler.Config
	Options      = handler.Options
	Filter       = handler.Filter
	ErrorReport  = models.ErrorReport
	ErrorContext = models.ErrorContext
	Category     = models.ErrorCategory
	Severity     = models.ErrorSeverity

	Alerter     = notify.Alerter
	AlertButton = notify.AlertButton
	Haptics     = notify.Haptics

	Reporter        = report.Reporter
	ReporterOptions = report.Options
)

// Categories.
const (
	CategoryNetwork        = models.CategoryNetwork
	CategoryAuthentication = models.CategoryAuthentication
	CategoryValidation     = models.CategoryValidation
	CategoryPermission     = models.CategoryPermission
	CategoryData           = models.CategoryData
	CategorySystem         = models.CategorySystem
	CategoryCrisis         = models.CategoryCrisis
	CategoryUnknown        = models.CategoryUnknown
)

// Severities.
const (
	SeverityLow      = models.SeverityLow
	SeverityMedium   = models.SeverityMedium
	SeverityHigh     = models.SeverityHigh
	SeverityCritical = models.SeverityCritical
)

// New constructs the error handling service. See handler.Config for the
// collaborator wiring; only Logger and DB are commonly set, everything else
// defaults to a safe no-op.
func New(cfg Config) *Service {
	return handler.New(cfg)
}

// NewReporter constructs a remote reporter suitable for Config.Reporter.
func NewReporter(db *sql.DB, logger *slog.Logger, opts ReporterOptions) *Reporter {
	return report.New(db, logger, opts)
}

// Open initializes (and migrates) the SQLite database backing persistence and
// the durable queue. An empty path resolves via config/env the same way the
// CLI does; ":memory:" is supported for tests.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return store.InitDB()
	}
	return store.InitDBWithPath(dbPath)
}
