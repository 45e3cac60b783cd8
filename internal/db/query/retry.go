package query

import (
	"strings"
	"time"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/spoke-d/filament/internal/clock"
	"github.com/spoke-d/filament/internal/retrier"
)

// Retry wraps a function that interacts with the database, and retries it
// in case a transient error is hit.
//
// This should typically be used to wrap transactions.
func Retry(sleeper clock.Sleeper, f func() error) error {
	var last error
	retry := retrier.New(sleeper, 10, 250*time.Millisecond)
	err := retry.Run(func() error {
		last = f()
		if last == nil || !IsRetriableError(last) {
			return nil
		}
		return last
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(last)
}

// IsRetriableError returns true if the given error might be transient and
// the interaction can be safely retried.
func IsRetriableError(err error) bool {
	err = errors.Cause(err)

	if err == nil {
		return false
	}
	if err == sqlite3.ErrLocked || err == sqlite3.ErrBusy {
		return true
	}

	// Class 40 covers serialization failures and deadlocks, which resolve
	// once the conflicting transaction has finished.
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code.Class() == "40"
	}

	if strings.Contains(err.Error(), "database is locked") {
		return true
	}
	if strings.Contains(err.Error(), "bad connection") {
		return true
	}

	return false
}
