package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr int

func (s statusErr) Error() string   { return http.StatusText(int(s)) }
func (s statusErr) StatusCode() int { return int(s) }

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   time.Millisecond,
		MaxDelay:       2 * time.Millisecond,
		RateLimitDelay: time.Millisecond,
		Multiplier:     2,
		Logger:         zerolog.Nop(),
	}
}

func TestLimiterAdjusts(t *testing.T) {
	lim := NewAdaptiveLimiter(10, 1, 20, 5, 0.5)
	clock := time.Now()
	lim.now = func() time.Time { return clock }

	lim.RateLimited()
	assert.Equal(t, 5.0, lim.CurrentLimit())

	lim.Success()
	assert.Equal(t, 5.0, lim.CurrentLimit(), "no increase inside the recovery window")

	clock = clock.Add(recoveryWindow + time.Second)
	lim.Success()
	assert.Equal(t, 10.0, lim.CurrentLimit())

	for i := 0; i < 10; i++ {
		lim.Success()
	}
	assert.Equal(t, 20.0, lim.CurrentLimit(), "capped at max")

	for i := 0; i < 10; i++ {
		lim.RateLimited()
	}
	assert.Equal(t, 1.0, lim.CurrentLimit(), "floored at min")
}

func TestNewLimiterClampsInitial(t *testing.T) {
	assert.Equal(t, 40.0, NewAdaptiveLimiter(100, 1, 40, 1, 0.5).CurrentLimit())
	assert.Equal(t, 1.0, NewAdaptiveLimiter(0, 0, 40, 1, 0.5).CurrentLimit())
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls < 3 {
			return statusErr(http.StatusInternalServerError)
		}
		return nil
	}, NewAdaptiveLimiter(1000, 1, 1000, 1, 0.5), fastConfig(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnFatal(t *testing.T) {
	calls := 0
	cause := errors.New("bad request")
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return &FatalError{Err: cause}
	}, nil, fastConfig(5))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return statusErr(http.StatusTooManyRequests)
	}, nil, fastConfig(3))

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, IsRateLimited(err))
}

func TestWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetryConfig(ctx, func() error { return nil }, nil, fastConfig(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsServerError(statusErr(http.StatusBadGateway)))
	assert.False(t, IsServerError(statusErr(http.StatusNotFound)))
	assert.False(t, IsRateLimited(errors.New("plain")))
}
