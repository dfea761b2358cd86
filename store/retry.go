package store

import (
	"strings"
	"time"
)

const (
	maxLockRetries = 5
	lockRetryDelay = 200 * time.Millisecond
)

// withLockRetry retries fn when SQLite reports the database busy/locked.
func withLockRetry(fn func() error) error {
	var err error
	for range maxLockRetries {
		err = fn()
		if err == nil {
			return nil
		}
		if !isLockedErr(err) {
			return err
		}
		time.Sleep(lockRetryDelay)
	}
	return err
}

func isLockedErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
