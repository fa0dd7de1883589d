package ai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy retries a single-attempt function with exponential backoff.
// It is independent of the transport: attempts classify their own failures
// via RemoteError/FatalError and the policy only decides whether and when to
// try again.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// QuotaDelay is the floor applied to quota-exhaustion rate limits, to
	// respect provider cooldown guidance.
	QuotaDelay time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		QuotaDelay:  20 * time.Second,
	}
}

// Do runs attempt until it succeeds, fails fatally, or the attempt budget is
// spent. The last error is returned when the budget runs out; context
// cancellation interrupts a backoff sleep immediately.
func (p RetryPolicy) Do(ctx context.Context, attempt func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for i := 1; i <= p.MaxAttempts; i++ {
		out, err := attempt(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !Retryable(err) || i == p.MaxAttempts {
			break
		}

		delay := p.backoff(i, err)
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Int("attempt", i).
			Dur("delay", delay).
			Msg("AI backend call failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", lastErr
}

func (p RetryPolicy) backoff(attempt int, err error) time.Duration {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Quota {
		if d := p.BaseDelay << attempt; d > p.QuotaDelay {
			return d
		}
		return p.QuotaDelay
	}
	return p.BaseDelay << (attempt - 1)
}
