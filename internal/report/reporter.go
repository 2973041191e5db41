// Package report delivers error reports to a remote collection endpoint with
// bounded retries, falling back to a durable on-disk queue so no report is
// dropped while the device is offline.
package report

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/calmkit/beacon/internal/models"
	"github.com/calmkit/beacon/internal/store"
)

// ShouldReport decides whether a classified report is sent to the remote
// endpoint. Critical and high severities always go out; authentication
// problems are reported regardless of severity; validation noise never is.
func ShouldReport(r models.ErrorReport) bool {
	if r.Severity == models.SeverityCritical || r.Severity == models.SeverityHigh {
		return true
	}
	switch r.Category {
	case models.CategoryAuthentication:
		return true
	case models.CategoryValidation:
		return false
	default:
		return true
	}
}

// Reporter posts reports to a single endpoint. A zero endpoint disables
// delivery entirely (reports are still logged and persisted locally).
type Reporter struct {
	db          *sql.DB
	endpoint    string
	client      *http.Client
	maxAttempts int
	logger      *slog.Logger
}

// Options configure a Reporter.
type Options struct {
	Endpoint    string
	MaxAttempts int
	Timeout     time.Duration
}

// New returns a Reporter backed by db for the durable queue.
func New(db *sql.DB, logger *slog.Logger, opts Options) *Reporter {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Reporter{
		db:          db,
		endpoint:    opts.Endpoint,
		client:      &http.Client{Timeout: opts.Timeout},
		maxAttempts: opts.MaxAttempts,
		logger:      logger,
	}
}

// Enabled reports whether remote delivery is configured.
func (r *Reporter) Enabled() bool { return r.endpoint != "" }

// Deliver sends a report with bounded exponential-backoff retries. When the
// retry budget is exhausted, the report is enqueued durably (idempotent by
// report id) and a *models.ReportDeliveryError is returned.
func (r *Reporter) Deliver(ctx context.Context, rep models.ErrorReport) error {
	if !r.Enabled() {
		return nil
	}

	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", rep.ID, err)
	}

	if err := r.deliverPayload(ctx, payload); err != nil {
		if qErr := store.EnqueueReport(r.db, rep.ID, string(payload)); qErr != nil {
			r.logger.Error("failed to queue undeliverable report",
				"report_id", rep.ID, "error", qErr.Error())
		}
		dErr := &models.ReportDeliveryError{
			ReportID: rep.ID,
			Endpoint: r.endpoint,
			Attempts: r.maxAttempts,
			Err:      err,
		}
		var httpErr *httpStatusError
		if errors.As(err, &httpErr) {
			dErr.Status = httpErr.status
		}
		return dErr
	}
	return nil
}

// Flush replays durably queued reports in enqueue order. Reports that still
// fail stay queued with a bumped attempt count. Returns counts of delivered
// and remaining reports.
func (r *Reporter) Flush(ctx context.Context) (delivered, remaining int, err error) {
	if !r.Enabled() {
		depth, dErr := store.QueueDepth(r.db)
		return 0, depth, dErr
	}

	pending, err := store.PendingReports(r.db, 0)
	if err != nil {
		return 0, 0, err
	}

	for _, p := range pending {
		if ctx.Err() != nil {
			return delivered, len(pending) - delivered, ctx.Err()
		}
		if err := r.deliverPayload(ctx, []byte(p.Payload)); err != nil {
			r.logger.Warn("queued report still undeliverable",
				"report_id", p.ReportID, "attempts", p.Attempts+1, "error", err.Error())
			if bErr := store.BumpReportAttempt(r.db, p.ReportID); bErr != nil {
				r.logger.Error("failed to record delivery attempt",
					"report_id", p.ReportID, "error", bErr.Error())
			}
			remaining++
			continue
		}
		if cErr := store.CompleteReport(r.db, p.ReportID); cErr != nil {
			r.logger.Error("failed to dequeue delivered report",
				"report_id", p.ReportID, "error", cErr.Error())
		}
		delivered++
	}
	return delivered, remaining, nil
}

// deliverPayload posts one payload with the bounded retry policy.
// Client errors (4xx) are permanent: retrying a rejected payload cannot help.
func (r *Reporter) deliverPayload(ctx context.Context, payload []byte) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxAttempts-1)), ctx)

	return backoff.Retry(func() error {
		err := r.post(ctx, payload)
		if err == nil {
			return nil
		}
		var httpErr *httpStatusError
		if errors.As(err, &httpErr) && httpErr.status >= 400 && httpErr.status < 500 {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("report endpoint returned %d", e.status)
}

func (r *Reporter) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("report request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpStatusError{status: resp.StatusCode}
	}
	return nil
}
