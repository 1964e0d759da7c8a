// Package retry wraps github.com/sethvargo/go-retry with the backoff
// shape of original_source/src/utils/retry.py: exponential backoff from
// a base delay, capped at a max delay, bounded by a max retry count,
// with jitter to avoid thundering-herd retries against the same domain.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultBaseDelay  = 200 * time.Millisecond
	DefaultMaxDelay   = 30 * time.Second
	DefaultMaxRetries = 5
	jitterFraction    = 0.2
)

// Do retries fn with exponential backoff until it returns a nil error,
// fn returns a non-retryable error (see retry.RetryableError), or
// maxRetries retries after the first call are used up (maxRetries+1
// calls in all).
func Do(ctx context.Context, maxRetries uint64, fn func(ctx context.Context) error) error {
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}

	backoff := retry.NewExponential(DefaultBaseDelay)
	backoff = retry.WithMaxRetries(maxRetries, backoff)
	backoff = retry.WithCappedDuration(DefaultMaxDelay, backoff)
	backoff = retry.WithJitterPercent(uint64(jitterFraction*100), backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return fn(ctx)
	})
}
