package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// The kv table backs the handler's persisted error history: a single entry
// per key holding a complete JSON snapshot. Writes replace the whole value,
// so the last write to complete wins and the blob is never partially updated.

// GetItem returns the value stored under key. The boolean is false when the
// key is absent.
func GetItem(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read kv %q: %w", key, err)
	}
	return value, true, nil
}

// SetItem stores value under key, replacing any existing value.
func SetItem(db *sql.DB, key, value string) error {
	return RetryWithBackoff(func() error {
		_, err := db.Exec(`
			INSERT INTO kv (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, key, value)
		if err != nil {
			return fmt.Errorf("failed to write kv %q: %w", key, err)
		}
		return nil
	})
}

// RemoveItem deletes the entry under key. Removing an absent key is not an error.
func RemoveItem(db *sql.DB, key string) error {
	return RetryWithBackoff(func() error {
		_, err := db.Exec(`DELETE FROM kv WHERE key = ?`, key)
		if err != nil {
			return fmt.Errorf("failed to remove kv %q: %w", key, err)
		}
		return nil
	})
}
