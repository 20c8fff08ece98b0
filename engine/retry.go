package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"railstatus/fetch"
)

// ErrBadStatus marks a non-200 answer. The page may recover on the next
// attempt, so it is retried without waiting.
type ErrBadStatus struct {
	Code int
}

func (e ErrBadStatus) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.Code)
}

// Retrier runs a single provider fetch with the attempt ladder. The wait
// between attempts depends on the failure class: timeouts back off
// exponentially from Backoff (capped at BackoffMax), connection faults wait
// the fixed ConnWait, bad statuses go straight to the next attempt, and
// anything unrecognized aborts the ladder.
type Retrier struct {
	MaxAttempts int
	Backoff     time.Duration
	BackoffMax  time.Duration
	ConnWait    time.Duration
	Metrics     *Metrics
}

// Do executes fn up to MaxAttempts times and returns the first 200
// response. No wait follows the final attempt; the caller moves on
// immediately. All waits honor ctx.
func (r *Retrier) Do(ctx context.Context, source string, fn func(context.Context) (*fetch.Result, error)) (*fetch.Result, error) {
	var lastErr error
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		res, err := fn(ctx)
		r.Metrics.ObserveAttempt(time.Since(start))

		if err == nil && res.StatusCode == http.StatusOK {
			r.Metrics.IncAttempt(source, "success")
			return res, nil
		}
		if err == nil {
			err = ErrBadStatus{Code: res.StatusCode}
		}
		lastErr = err

		label := errorLabel(err)
		r.Metrics.IncAttempt(source, "failure")
		r.Metrics.IncError(source, label)
		slog.Warn("fetch attempt failed",
			slog.String("source", source),
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", r.MaxAttempts),
			slog.String("error_type", label),
			slog.Any("error", err),
		)

		var bad ErrBadStatus
		var wait time.Duration
		switch {
		case fetch.IsTimeout(err):
			wait = r.backoff(attempt)
		case fetch.IsConnection(err):
			wait = r.ConnWait
		case errors.As(err, &bad):
			wait = 0
		default:
			return nil, err
		}

		if attempt == r.MaxAttempts-1 {
			break
		}
		r.Metrics.IncRetry(source)
		if wait > 0 {
			slog.Debug("waiting before retry",
				slog.String("source", source),
				slog.Duration("wait", wait),
			)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("%d attempts exhausted: %w", r.MaxAttempts, lastErr)
}

// backoff doubles per attempt from the configured base, capped at
// BackoffMax.
func (r *Retrier) backoff(attempt int) time.Duration {
	d := r.Backoff * time.Duration(1<<uint(attempt))
	if r.BackoffMax > 0 && d > r.BackoffMax {
		d = r.BackoffMax
	}
	return d
}

func errorLabel(err error) string {
	var bad ErrBadStatus
	if errors.As(err, &bad) {
		return "bad_status"
	}
	return fetch.TypeLabel(err)
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
