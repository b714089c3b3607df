package repository

import (
	"context"
	"errors"
	"time"

	"github.com/emsotr/arama-cekirdegi/internal/logging"
)

// Recoverable classifies the storage errors Commit retries on. Concrete
// backends implement a predicate matching their own driver's transient
// error types (connection-refused, busy/locked) rather than retrying every
// error generically, per spec.md §9's re-architecture guidance.
type Recoverable func(error) bool

// MaxCommitAttempts and CommitBackoff match spec.md §4.1's default retry
// policy: up to 5 attempts, 5-second linear backoff.
const (
	MaxCommitAttempts = 5
	CommitBackoff     = 5 * time.Second
)

// ErrCommitFailed is returned once retries are exhausted.
var ErrCommitFailed = errors.New("repository: commit failed after retries")

// WithRetry runs fn up to MaxCommitAttempts times, sleeping CommitBackoff*
// attemptNumber between tries, but only when isRecoverable classifies the
// error as transient; any other error returns immediately.
func WithRetry(ctx context.Context, isRecoverable Recoverable, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= MaxCommitAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRecoverable(err) {
			return err
		}
		logging.Warn("commit attempt %d/%d failed, retrying: %v", attempt, MaxCommitAttempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(CommitBackoff * time.Duration(attempt)):
		}
	}
	logging.Error("commit exhausted %d retries, rolling back: %v", MaxCommitAttempts, lastErr)
	return ErrCommitFailed
}
