package store

import (
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryWithBackoff wraps connection bootstrap (pragmas, migrations) with
// exponential backoff. Only transient SQLite lock errors are retried; task
// operations never go through here and fail on the first error.
func RetryWithBackoff(operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	b.RandomizationFactor = 0.1

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if isRetryableError(err) {
			return err
		}

		return backoff.Permanent(err)
	}, b)
}

// isRetryableError determines if an error should be retried.
//
// Error detection relies on modernc.org/sqlite error message strings.
// Current baseline: modernc.org/sqlite v1.45+.
func isRetryableError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY")
}
