package store

import (
	"database/sql"
	"fmt"
	"time"
)

// PendingReport is a durably queued error report awaiting remote delivery.
type PendingReport struct {
	ReportID  string    `json:"report_id"`
	Payload   string    `json:"payload"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EnqueueReport durably queues a report payload for later delivery. Enqueueing
// is idempotent on report_id: re-enqueueing the same report is a no-op, so a
// report retried twice never produces duplicate queue rows.
func EnqueueReport(db *sql.DB, reportID, payload string) error {
	if reportID == "" {
		return fmt.Errorf("report id is required")
	}
	if payload == "" {
		return fmt.Errorf("report payload is required")
	}
	return RetryWithBackoff(func() error {
		_, err := db.Exec(`
			INSERT OR IGNORE INTO pending_reports (report_id, payload)
			VALUES (?, ?)
		`, reportID, payload)
		if err != nil {
			return fmt.Errorf("failed to enqueue report %q: %w", reportID, err)
		}
		return nil
	})
}

// PendingReports returns queued reports in enqueue order, oldest first.
// limit <= 0 returns all rows.
func PendingReports(db *sql.DB, limit int) ([]PendingReport, error) {
	query := `
		SELECT report_id, payload, attempts, created_at, updated_at
		FROM pending_reports
		ORDER BY created_at ASC, report_id ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []PendingReport
	for rows.Next() {
		var p PendingReport
		if err := rows.Scan(&p.ReportID, &p.Payload, &p.Attempts, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending report: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CompleteReport removes a delivered report from the queue.
func CompleteReport(db *sql.DB, reportID string) error {
	return RetryWithBackoff(func() error {
		_, err := db.Exec(`DELETE FROM pending_reports WHERE report_id = ?`, reportID)
		if err != nil {
			return fmt.Errorf("failed to complete report %q: %w", reportID, err)
		}
		return nil
	})
}

// BumpReportAttempt records a failed delivery attempt for a queued report.
func BumpReportAttempt(db *sql.DB, reportID string) error {
	return RetryWithBackoff(func() error {
		_, err := db.Exec(`
			UPDATE pending_reports
			SET attempts = attempts + 1, updated_at = CURRENT_TIMESTAMP
			WHERE report_id = ?
		`, reportID)
		if err != nil {
			return fmt.Errorf("failed to bump attempts for %q: %w", reportID, err)
		}
		return nil
	})
}

// PruneReports removes queued reports that have failed at least minAttempts
// deliveries and returns how many were dropped. Count and delete run in one
// transaction so the returned count matches what was removed.
func PruneReports(db *sql.DB, minAttempts int) (int, error) {
	if minAttempts <= 0 {
		return 0, fmt.Errorf("min attempts must be positive")
	}

	var pruned int
	err := Transact(db, func(tx *sql.Tx) error {
		if err := tx.QueryRow(`
			SELECT COUNT(*) FROM pending_reports WHERE attempts >= ?
		`, minAttempts).Scan(&pruned); err != nil {
			return fmt.Errorf("failed to count stale reports: %w", err)
		}
		if pruned == 0 {
			return nil
		}
		if _, err := tx.Exec(`DELETE FROM pending_reports WHERE attempts >= ?`, minAttempts); err != nil {
			return fmt.Errorf("failed to prune stale reports: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return pruned, nil
}

// QueueDepth returns the number of reports awaiting delivery.
func QueueDepth(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pending_reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending reports: %w", err)
	}
	return n, nil
}
