package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/kotoba/internal/logger"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    *logger.Logger
}

// WithRetry wraps a Provider with retry logic. With MaxAttempts of 1 every
// call is made exactly once. log may be nil.
func WithRetry(p Provider, cfg RetryConfig, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &RetryProvider{inner: p, config: cfg, log: log}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	var lastErr error
	invalidRetried := false

	for attempt := range attempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// The caller gave up; a per-call timeout alone is worth another try.
		if ctx.Err() != nil {
			return nil, err
		}
		if !retryable(err, &invalidRetried) || attempt == attempts-1 {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.Warn("retrying generation",
			"purpose", PurposeFrom(ctx),
			"attempt", attempt+1,
			"attempts", attempts,
			"wait", wait,
			"error", err,
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err may succeed on another attempt. An invalid
// reply earns a single retry per call.
func retryable(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRequestRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.As(err, &maxTok):
		// The same budget truncates the same batch again.
		return false
	case errors.As(err, &rejected):
		return false
	case errors.As(err, &invalid):
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limits, outages, per-call timeouts and network errors.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.config.MaxWait))

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
