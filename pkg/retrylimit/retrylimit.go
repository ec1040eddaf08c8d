// Package retrylimit paces outgoing API calls with a rate limiter that slows
// down when the remote side pushes back, and retries failed calls with
// exponential backoff.
//
//	lim := retrylimit.NewAdaptiveLimiter(40, 1, 40, 1, 0.5)
//	err := retrylimit.WithRetry(ctx, func() error { return create(def) }, lim)
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// recoveryWindow is how long after the last push back the limit stays put.
const recoveryWindow = 10 * time.Second

// AdaptiveLimiter raises its rate on success and cuts it on rate limit or
// server errors, staying within [min, max].
type AdaptiveLimiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
	now       func() time.Time
}

// NewAdaptiveLimiter starts at initial requests per second. stepDown is the
// factor applied on push back, e.g. 0.5 halves the rate.
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}
	initial = clamp(initial, min, max)
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
		now:      time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.now().Sub(a.lastError) > recoveryWindow {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = a.now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	l = clamp(l, a.minLimit, a.maxLimit)
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
		a.limiter.SetBurst(burstFor(l))
	}
}

// HTTPError is implemented by errors that carry an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// FatalError stops retries immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Config controls WithRetryConfig.
type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	RateLimitDelay time.Duration
	Multiplier     float64
	Jitter         bool
	Logger         zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:    5,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RateLimitDelay: time.Second,
		Multiplier:     2.0,
		Jitter:         true,
		Logger:         log.Logger,
	}
}

// WithRetry runs fn with DefaultConfig.
func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter) error {
	return WithRetryConfig(ctx, fn, lim, DefaultConfig())
}

// WithRetryConfig runs fn until it succeeds, returns a FatalError, ctx ends or
// cfg.MaxAttempts is used up. lim may be nil.
func WithRetryConfig(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg Config) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		lastErr = fn()
		if lastErr == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}

		var fatal *FatalError
		if errors.As(lastErr, &fatal) {
			return lastErr
		}

		wait := delay
		switch {
		case IsRateLimited(lastErr):
			wait = cfg.RateLimitDelay
			if lim != nil {
				lim.RateLimited()
			}
		case IsServerError(lastErr):
			if lim != nil {
				lim.RateLimited()
			}
		}
		if cfg.Jitter {
			wait = addJitter(wait)
		}

		cfg.Logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("wait", wait).Msg("request failed, retrying")

		if attempt == cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// IsRateLimited reports whether err carries HTTP 429.
func IsRateLimited(err error) bool {
	var httpErr HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode() == http.StatusTooManyRequests
}

// IsServerError reports whether err carries an HTTP 5xx status.
func IsServerError(err error) bool {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	code := httpErr.StatusCode()
	return code >= 500 && code < 600
}

func addJitter(d time.Duration) time.Duration {
	if d < 4 {
		return d
	}
	return d + rand.N(d/4)
}

func clamp(l, min, max rate.Limit) rate.Limit {
	if l > max {
		return max
	}
	if l < min {
		return min
	}
	return l
}

func burstFor(l rate.Limit) int {
	if b := int(l); b > 1 {
		return b
	}
	return 1
}
