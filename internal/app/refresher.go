package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/quill/internal/state"
)

// maxBackoff caps the wait between refreshes after repeated failures.
const maxBackoff = 30 * time.Second

// idleRefresher reports whether the refresh's own result was applied.
type idleRefresher interface {
	RefreshIfIdle(ctx context.Context) (state.Snapshot, bool)
}

// StartRefresher launches a background goroutine that re-fetches the article
// list every interval while the articles route is idle. A non-positive
// interval disables it. It returns immediately.
func StartRefresher(ctx context.Context, ctrl idleRefresher, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			failures = refreshOnce(ctx, ctrl, failures)
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// refreshOnce runs one refresh and returns the updated consecutive failure count.
func refreshOnce(ctx context.Context, ctrl idleRefresher, failures int) int {
	snap, applied := ctrl.RefreshIfIdle(ctx)
	if !applied {
		return failures
	}
	if snap.LastError != nil {
		if ctx.Err() != nil {
			return failures
		}
		failures++
		log.Printf("background refresh error (%d consecutive): %v", failures, snap.LastError)
		return failures
	}
	return 0
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff. It never returns less than base.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	backoff := base
	for i := 0; i < failures && backoff < maxBackoff; i++ {
		backoff *= 2
	}
	return max(base, min(backoff, maxBackoff))
}
