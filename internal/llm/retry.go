package llm

import (
	"errors"
	"math/rand/v2"
	"time"
)

// RetryableError marks a failure that is worth retrying, typically a
// rate-limited request.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
// Rate-limited free-tier quotas reset on a 30s-ish window, so the base
// starts there and doubles.
func Backoff(attempt int) time.Duration {
	base := time.Duration(30<<uint(attempt)) * time.Second
	if base > 2*time.Minute {
		base = 2 * time.Minute
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 4))
	return base + jitter
}

const MaxRetries = 3
