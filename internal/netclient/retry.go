package netclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type RetryOptions struct {
	MaxRetry  int
	BaseDelay time.Duration
	Sleep     func(context.Context, time.Duration) error
	UserAgent string
}

// ProbeResult describes the answer of a reachable target.
type ProbeResult struct {
	StatusCode int
	Attempts   int
}

// Probe sends HEAD requests to target until it answers with a status below
// 500, retrying with exponential backoff. Any such answer counts as reachable.
func Probe(ctx context.Context, doer Doer, target string, opts RetryOptions) (ProbeResult, error) {
	if target == "" {
		return ProbeResult{}, fmt.Errorf("probe target empty")
	}
	if opts.MaxRetry <= 0 {
		opts.MaxRetry = 1
	}
	if opts.BaseDelay < 0 {
		opts.BaseDelay = 0
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepWithContext
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "keyremap-doctor/1.0"
	}

	delay := opts.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= opts.MaxRetry; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
		if err != nil {
			return ProbeResult{}, err
		}
		req.Header.Set("User-Agent", opts.UserAgent)

		resp, err := doer.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ProbeResult{}, ctx.Err()
			}
			lastErr = err
		} else {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode < 500 {
				return ProbeResult{StatusCode: resp.StatusCode, Attempts: attempt}, nil
			}
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
		}

		if attempt == opts.MaxRetry {
			break
		}
		if err := opts.Sleep(ctx, delay); err != nil {
			return ProbeResult{}, err
		}
		delay *= 2
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("probe failed")
	}
	return ProbeResult{}, fmt.Errorf("probe %s: %w", target, lastErr)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
