package memory

import (
	"context"
	"sync"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// BucketStore is a fixed-window counter store.
type BucketStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	domain.RateLimitBucket
	window time.Duration
}

func NewBucketStore() *BucketStore {
	return &BucketStore{buckets: make(map[string]*bucket), now: time.Now}
}

// Hit increments the counter for key, starting a new window when the
// previous one has rolled over, and returns the count inside the window.
func (s *BucketStore) Hit(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	b, ok := s.buckets[key]
	if !ok || !now.Before(b.WindowStart.Add(b.window)) {
		b = &bucket{RateLimitBucket: domain.RateLimitBucket{Key: key, WindowStart: now}, window: window}
		s.buckets[key] = b
	}
	b.Count++
	return b.Count, nil
}

func (s *BucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

func (s *BucketStore) evictExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, b := range s.buckets {
		if !now.Before(b.WindowStart.Add(b.window)) {
			delete(s.buckets, k)
			n++
		}
	}
	return n
}
