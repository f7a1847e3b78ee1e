// Package memory holds process-local implementations of every store. They
// are the default backend for development and tests and the reference for
// the semantics the external backends must match.
package memory

import (
	"context"
	"time"
)

// evictor is implemented by stores that hold entries with a TTL.
type evictor interface {
	evictExpired(now time.Time) int
}

// StartJanitor periodically evicts expired entries from the given stores
// until ctx is cancelled.
func StartJanitor(ctx context.Context, interval time.Duration, stores ...evictor) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				for _, s := range stores {
					s.evictExpired(now)
				}
			}
		}
	}()
}
