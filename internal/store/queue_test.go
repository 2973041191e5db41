package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue_EnqueueIsIdempotentByReportID(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnqueueReport(db, "err_1", `{"id":"err_1"}`))
	require.NoError(t, EnqueueReport(db, "err_1", `{"id":"err_1","changed":true}`))

	pending, err := PendingReports(db, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	// The original payload survives a duplicate enqueue.
	require.Equal(t, `{"id":"err_1"}`, pending[0].Payload)
}

func TestQueue_RequiresIDAndPayload(t *testing.T) {
	db := newTestDB(t)

	require.Error(t, EnqueueReport(db, "", "payload"))
	require.Error(t, EnqueueReport(db, "err_1", ""))
}

func TestQueue_OrderAndLimit(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnqueueReport(db, "err_a", "a"))
	require.NoError(t, EnqueueReport(db, "err_b", "b"))
	require.NoError(t, EnqueueReport(db, "err_c", "c"))

	pending, err := PendingReports(db, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "err_a", pending[0].ReportID)
	require.Equal(t, "err_b", pending[1].ReportID)
}

func TestQueue_CompleteRemovesRow(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnqueueReport(db, "err_1", "x"))
	require.NoError(t, CompleteReport(db, "err_1"))

	depth, err := QueueDepth(db)
	require.NoError(t, err)
	require.Zero(t, depth)
}

func TestQueue_PruneDropsOnlyStaleReports(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnqueueReport(db, "err_stale", "x"))
	require.NoError(t, EnqueueReport(db, "err_fresh", "y"))
	require.NoError(t, BumpReportAttempt(db, "err_stale"))
	require.NoError(t, BumpReportAttempt(db, "err_stale"))

	pruned, err := PruneReports(db, 2)
	require.NoError(t, err)
	require.Equal(t, 1, pruned)

	pending, err := PendingReports(db, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "err_fresh", pending[0].ReportID)

	// Nothing left past the ceiling.
	pruned, err = PruneReports(db, 2)
	require.NoError(t, err)
	require.Zero(t, pruned)

	_, err = PruneReports(db, 0)
	require.Error(t, err)
}

func TestQueue_BumpAttempt(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnqueueReport(db, "err_1", "x"))
	require.NoError(t, BumpReportAttempt(db, "err_1"))
	require.NoError(t, BumpReportAttempt(db, "err_1"))

	pending, err := PendingReports(db, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, 2, pending[0].Attempts)
}
