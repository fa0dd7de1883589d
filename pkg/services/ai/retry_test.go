package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		QuotaDelay:  5 * time.Millisecond,
	}
}

func TestRetryPolicy_SucceedsAfterRateLimit(t *testing.T) {
	calls := 0
	out, err := testPolicy().Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", &RemoteError{StatusCode: http.StatusTooManyRequests, Err: errors.New("rate limited")}
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 2, calls)
}

func TestRetryPolicy_ExhaustsAttempts(t *testing.T) {
	calls := 0
	remoteErr := &RemoteError{StatusCode: http.StatusServiceUnavailable, Err: errors.New("down")}
	_, err := testPolicy().Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", remoteErr
	})

	assert.ErrorIs(t, err, remoteErr.Err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_FatalErrorIsNotRetried(t *testing.T) {
	calls := 0
	_, err := testPolicy().Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", &FatalError{Reason: "API key is not configured"}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_NonRetryableStatusFailsImmediately(t *testing.T) {
	calls := 0
	_, err := testPolicy().Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", &RemoteError{StatusCode: http.StatusBadRequest, Err: errors.New("bad prompt")}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_ContextCancelInterruptsBackoff(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Minute,
		QuotaDelay:  time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := policy.Do(ctx, func(ctx context.Context) (string, error) {
		return "", &RemoteError{StatusCode: http.StatusTooManyRequests, Err: errors.New("rate limited")}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetryPolicy_QuotaFloor(t *testing.T) {
	policy := testPolicy()

	quota := &RemoteError{StatusCode: http.StatusTooManyRequests, Quota: true}
	plain := &RemoteError{StatusCode: http.StatusTooManyRequests}

	assert.Equal(t, policy.QuotaDelay, policy.backoff(1, quota))
	assert.Equal(t, policy.BaseDelay, policy.backoff(1, plain))
	assert.Equal(t, 2*policy.BaseDelay, policy.backoff(2, plain))
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "rate limit",
			err:  &RemoteError{StatusCode: http.StatusTooManyRequests},
			want: true,
		},
		{
			name: "service unavailable",
			err:  &RemoteError{StatusCode: http.StatusServiceUnavailable},
			want: true,
		},
		{
			name: "bad request",
			err:  &RemoteError{StatusCode: http.StatusBadRequest},
			want: false,
		},
		{
			name: "fatal",
			err:  &FatalError{Reason: "misconfigured"},
			want: false,
		},
		{
			name: "connection refused",
			err:  &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}
