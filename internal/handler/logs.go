package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/calmkit/beacon/internal/models"
	"github.com/calmkit/beacon/internal/store"
)

// Filter narrows a history query. Zero fields match everything; set fields
// are AND-combined.
type Filter struct {
	Category models.ErrorCategory
	Severity models.ErrorSeverity
	Since    time.Time
}

// Logs returns a filtered snapshot of the in-memory history, oldest first.
// It never reads the database: the in-memory buffer is authoritative once
// loaded at construction.
func (s *Service) Logs(f Filter) []models.ErrorReport {
	snapshot := s.history.Snapshot()

	out := make([]models.ErrorReport, 0, len(snapshot))
	for _, rep := range snapshot {
		if f.Category != "" && rep.Category != f.Category {
			continue
		}
		if f.Severity != "" && rep.Severity != f.Severity {
			continue
		}
		if !f.Since.IsZero() && rep.Context.Timestamp.Before(f.Since) {
			continue
		}
		out = append(out, rep.Clone())
	}
	return out
}

// ClearLogs empties the in-memory history and removes the persisted snapshot
// entirely. Idempotent.
func (s *Service) ClearLogs(ctx context.Context) error {
	s.history.Clear()
	if s.db == nil {
		return nil
	}
	return store.RemoveItem(s.db, ErrorLogsKey)
}

// loadHistory populates the buffer from the persisted snapshot, if any.
// Called once from New; corruption or read failure degrades to empty history.
func (s *Service) loadHistory() {
	if s.db == nil {
		return
	}

	raw, ok, err := store.GetItem(s.db, ErrorLogsKey)
	if err != nil {
		s.logger.Warn("failed to load persisted error history", "error", err.Error())
		return
	}
	if !ok {
		return
	}

	var reports []models.ErrorReport
	if err := json.Unmarshal([]byte(raw), &reports); err != nil {
		s.logger.Warn("persisted error history is corrupt, starting empty", "error", err.Error())
		return
	}
	s.history.Replace(reports)
}

// persistHistory writes the current snapshot as one JSON blob. Each write is
// a complete valid snapshot, so concurrent writers can only race to
// last-write-wins, never corrupt the blob. Failures are logged and swallowed.
func (s *Service) persistHistory() {
	defer s.recoverStep("persist")

	if s.db == nil {
		return
	}

	snapshot := s.history.Snapshot()
	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("failed to encode error history", "error", err.Error())
		return
	}
	if err := store.SetItem(s.db, ErrorLogsKey, string(raw)); err != nil {
		s.logger.Warn("failed to persist error history", "error", err.Error())
	}
}
