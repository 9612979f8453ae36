package resilience

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"explicit transient", Transient(errors.New("503"), 503), true},
		{"wrapped transient", eris.Wrap(Transient(errors.New("429"), 429), "serper: search"), true},
		{"conn reset", syscall.ECONNRESET, true},
		{"conn refused", syscall.ECONNREFUSED, true},
		{"net timeout", &net.DNSError{IsTimeout: true}, true},
		{"message pattern", errors.New("read tcp: connection reset by peer"), true},
		{"dns pattern", errors.New("dial tcp: lookup api.example.com: no such host"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestRetryableStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, RetryableStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 201, 301, 400, 401, 403, 404, 422} {
		assert.False(t, RetryableStatus(code), "status %d", code)
	}
}

func TestBackoffNormalize(t *testing.T) {
	t.Parallel()

	b := Backoff{}.Normalize()
	assert.Equal(t, 3, b.Attempts)
	assert.Equal(t, 500*time.Millisecond, b.Base)
	assert.Equal(t, 30*time.Second, b.Cap)
	assert.InDelta(t, 2.0, b.Factor, 1e-9)

	custom := Backoff{Attempts: 5, Base: time.Second}.Normalize()
	assert.Equal(t, 5, custom.Attempts)
	assert.Equal(t, time.Second, custom.Base)
}

func TestBackoffDelayCapped(t *testing.T) {
	t.Parallel()

	b := Backoff{Base: time.Second, Cap: 4 * time.Second, Factor: 2}.Normalize()
	b.Jitter = 0
	assert.Equal(t, time.Second, b.delay(0))
	assert.Equal(t, 2*time.Second, b.delay(1))
	assert.Equal(t, 4*time.Second, b.delay(2))
	assert.Equal(t, 4*time.Second, b.delay(5))
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	fast := Backoff{Attempts: 3, Base: time.Millisecond, Cap: time.Millisecond}

	calls := 0
	got, err := Retry(context.Background(), fast, "test", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", Transient(errors.New("flaky"), 503)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	fast := Backoff{Attempts: 5, Base: time.Millisecond, Cap: time.Millisecond}

	calls := 0
	permanent := errors.New("401 unauthorized")
	_, err := Retry(context.Background(), fast, "test", func(ctx context.Context) (int, error) {
		calls++
		return 0, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	fast := Backoff{Attempts: 3, Base: time.Millisecond, Cap: time.Millisecond}

	calls := 0
	_, err := Retry(context.Background(), fast, "test", func(ctx context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("still down"), 503)
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	slow := Backoff{Attempts: 5, Base: time.Minute, Cap: time.Minute}

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Retry(ctx, slow, "test", func(ctx context.Context) (int, error) {
			calls++
			return 0, Transient(errors.New("down"), 503)
		})
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not stop on context cancellation")
	}
}
