package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"
)

// migrationLock is an exclusive advisory lock on <db>.migrate.lock. It keeps
// two tick processes from migrating the same file at once.
type migrationLock struct {
	f *os.File
}

// acquireMigrationLock blocks until the lock beside dbPath is held.
func acquireMigrationLock(dbPath string) (*migrationLock, error) {
	lockPath := dbPath + ".migrate.lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644) //nolint:gosec // G304: derived from the resolved db path
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", lockPath, err)
	}

	fd := int(f.Fd()) //nolint:gosec // G115: fd fits in int
	err = syscall.Flock(fd, syscall.LOCK_EX|syscall.LOCK_NB)
	if errors.Is(err, syscall.EWOULDBLOCK) {
		slog.Debug("waiting for migration lock", "path", lockPath)
		err = syscall.Flock(fd, syscall.LOCK_EX)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	return &migrationLock{f: f}, nil
}

// release drops the lock. Safe on a nil receiver.
func (l *migrationLock) release() {
	if l == nil || l.f == nil {
		return
	}
	_ = syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN) //nolint:gosec // G115: fd fits in int
	_ = l.f.Close()
	l.f = nil
}
