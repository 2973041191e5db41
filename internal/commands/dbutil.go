package commands

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/calmkit/beacon/internal/app"
	"github.com/calmkit/beacon/internal/handler"
	"github.com/calmkit/beacon/internal/models"
	"github.com/calmkit/beacon/internal/notify"
	"github.com/calmkit/beacon/internal/report"
	"github.com/calmkit/beacon/internal/store"
)

// DB is an alias so command code doesn't need to import database/sql.
type DB = sql.DB

// cmdStderr keeps user-facing alert/haptic output off stdout, which carries
// the JSON response.
var cmdStderr io.Writer = os.Stderr

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the JSON error response is the output.
	return "error already printed"
}

func openDB() (*DB, func(), error) {
	dbPath, err := app.GetDBPath()
	if err != nil {
		return nil, nil, err
	}

	db, err := store.InitDBWithPath(dbPath)
	if err != nil {
		return nil, nil, err
	}

	return db, func() { _ = db.Close() }, nil
}

func withDB(fn func(db *DB) error) error {
	db, closeDB, err := openDB()
	if err != nil {
		return cmdErr(err)
	}
	defer closeDB()

	if err := fn(db); err != nil {
		return cmdErr(err)
	}
	return nil
}

func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	var coded models.CodedError
	if errors.As(err, &coded) {
		attrs = append(attrs, "code", coded.ErrorCode(), "suggested_action", coded.SuggestedAction())
		for k, v := range coded.Context() {
			attrs = append(attrs, k, v)
		}
	}
	slog.Error("command error", attrs...)
	return printedError{err: err}
}

// newReporter builds a Reporter from effective settings.
func newReporter(db *DB) *report.Reporter {
	cfg := app.EffectiveHandlerSettings()
	return report.New(db, slog.Default(), report.Options{
		Endpoint:    cfg.ReportEndpoint,
		MaxAttempts: cfg.ReportMaxAttempts,
		Timeout:     time.Duration(cfg.ReportTimeoutSecs) * time.Second,
	})
}

// newService builds a handler Service wired for CLI use. interactive selects
// the terminal alert/haptic surfaces; headless commands pass false.
func newService(db *DB, interactive bool) *handler.Service {
	cfg := app.EffectiveHandlerSettings()

	hcfg := handler.Config{
		Logger:              slog.Default(),
		DB:                  db,
		Reporter:            newReporter(db),
		MaxLogs:             cfg.MaxErrorLogs,
		ExtraCrisisKeywords: cfg.CrisisKeywords,
	}
	if interactive {
		hcfg.Alerter = notify.TerminalAlerter{W: cmdStderr}
		hcfg.Haptics = notify.TerminalHaptics{W: cmdStderr}
	}
	return handler.New(hcfg)
}
