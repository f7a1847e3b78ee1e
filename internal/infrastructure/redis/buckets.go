package redisinfra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript increments a counter and starts its window on the first hit.
// INCR and PEXPIRE run atomically so a crash between them cannot leave a
// counter without expiry.
var hitScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

type counterClient interface {
	redis.Scripter
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// BucketStore keeps fixed-window counters in Redis so every instance shares
// the same limits.
type BucketStore struct {
	rdb counterClient
}

func NewBucketStore(rdb counterClient) *BucketStore {
	return &BucketStore{rdb: rdb}
}

// Hit records one event under key and returns the count inside the current window.
func (s *BucketStore) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	n, err := hitScript.Run(ctx, s.rdb, []string{key}, window.Milliseconds()).Int()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *BucketStore) Reset(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
