package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "beacon.db")
	db, err := InitDBWithPath(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestKV_GetMissingKey(t *testing.T) {
	db := newTestDB(t)

	_, ok, err := GetItem(db, "absent")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKV_SetThenGet(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SetItem(db, "error_logs", `[{"id":"err_1"}]`))

	v, ok, err := GetItem(db, "error_logs")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":"err_1"}]`, v)
}

func TestKV_LastWriteWins(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SetItem(db, "error_logs", "first"))
	require.NoError(t, SetItem(db, "error_logs", "second"))

	v, ok, err := GetItem(db, "error_logs")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", v)
}

func TestKV_RemoveIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SetItem(db, "error_logs", "x"))
	require.NoError(t, RemoveItem(db, "error_logs"))
	require.NoError(t, RemoveItem(db, "error_logs"))

	_, ok, err := GetItem(db, "error_logs")
	require.NoError(t, err)
	require.False(t, ok)
}
