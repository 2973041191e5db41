package store

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Migrations run on every open, and nothing stops a beacon CLI invocation and
// an embedding app from opening the same database at once. An advisory flock
// on a sidecar file serializes the schema upgrade across processes; goose is
// a fast no-op for the ones that arrive second.

// acquireMigrationLock takes an exclusive lock on <dbPath>.migrate.lock,
// blocking until it is available. Release with releaseMigrationLock.
func acquireMigrationLock(dbPath string) (*os.File, error) {
	lockPath := dbPath + ".migrate.lock"
	if dir := filepath.Dir(lockPath); dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644) //nolint:gosec // G304: lockPath derives from the resolved db path
	if err != nil {
		return nil, fmt.Errorf("open migration lock %s: %w", lockPath, err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("acquire migration lock %s: %w", lockPath, err)
	}
	return f, nil
}

// releaseMigrationLock drops the lock and closes the handle. Nil-safe.
func releaseMigrationLock(f *os.File) {
	if f == nil {
		return
	}
	_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	_ = f.Close()
}
