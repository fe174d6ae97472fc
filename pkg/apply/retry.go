package apply

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nmstate/nmstate-go/pkg/metrics"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// newActivationBackOff builds the exponential backoff policy used
// for retrying a retryable activation error: base interval,
// factor 2, bounded to maxAttempts tries total.
func newActivationBackOff(ctx context.Context, baseInterval time.Duration, maxAttempts int) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = baseInterval
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0 // bounded by WithMaxRetries instead of wall-clock

	bounded := backoff.WithMaxRetries(exp, uint64(maxAttempts-1))
	return backoff.WithContext(bounded, ctx)
}

// retryActivation runs fn, retrying only nmerror.KindRetryable errors
// with the exponential policy above; any other error (or success)
// stops the loop immediately.
func retryActivation(ctx context.Context, baseInterval time.Duration, maxAttempts int, fn func() error) error {
	policy := newActivationBackOff(ctx, baseInterval, maxAttempts)

	op := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if nmerror.KindOf(err) != nmerror.KindRetryable {
			return backoff.Permanent(err)
		}
		metrics.RecordActivationRetry()
		return err
	}

	if err := backoff.Retry(op, policy); err != nil {
		if perm, ok := err.(*backoff.PermanentError); ok {
			return perm.Err
		}
		return err
	}
	return nil
}
