package retry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
)

// IsRetryable reports whether err is a transient upstream signal worth
// retrying. Only rate-limit and service-unavailable statuses qualify;
// auth and malformed-request errors must fail on the first attempt.
func IsRetryable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code == http.StatusServiceUnavailable
	}
	return false
}

// Do executes op, retrying transient failures with exponential backoff
// (baseDelay * 2^attempt, no jitter). At most maxRetries retries are
// made, i.e. maxRetries+1 total attempts. On exhaustion the final
// underlying error is returned unmodified, so callers can still inspect
// the upstream status code. Non-retryable errors propagate immediately.
func Do[T any](ctx context.Context, maxRetries int, baseDelay time.Duration, op func() (T, error)) (T, error) {
	operation := func() (T, error) {
		res, err := op()
		if err != nil && !IsRetryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = baseDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = time.Hour

	attempt := 0
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(maxRetries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			attempt++
			zerolog.Ctx(ctx).Warn().
				Int("attempt", attempt).
				Int("max_retries", maxRetries).
				Dur("wait", wait).
				Err(err).
				Msg("transient upstream error, retrying")
		}),
	)
}
