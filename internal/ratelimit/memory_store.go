package ratelimit

import (
	"context"
	"sync"
	"time"

	"submission-service/internal/bucketing"
	"submission-service/internal/models"

	"go.uber.org/zap"
)

type memoryEntry struct {
	bucket models.RateLimitBucket
	window time.Duration
}

type memoryShard struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

// MemoryStore is a process-local Store. Keys are spread over shards so that
// unrelated clients do not contend on one lock.
type MemoryStore struct {
	bm     *bucketing.BucketingManager
	shards []*memoryShard
}

func NewMemoryStore(shards int) *MemoryStore {
	bm := bucketing.NewBucketingManager(shards)
	s := &MemoryStore{
		bm:     bm,
		shards: make([]*memoryShard, bm.Buckets()),
	}
	for i := range s.shards {
		s.shards[i] = &memoryShard{entries: make(map[string]*memoryEntry)}
	}
	return s
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration, now time.Time) (models.RateLimitBucket, error) {
	sh := s.shards[s.bm.GetBucket(key)]

	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.entries[key]
	if !ok || e.bucket.Expired(now, e.window) {
		e = &memoryEntry{bucket: models.RateLimitBucket{WindowStart: now}, window: window}
		sh.entries[key] = e
	}
	e.bucket.Count++
	return e.bucket, nil
}

// Sweep drops entries whose window has elapsed and returns how many went
func (s *MemoryStore) Sweep(now time.Time) int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, e := range sh.entries {
			if e.bucket.Expired(now, e.window) {
				delete(sh.entries, key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Len returns the number of tracked keys
func (s *MemoryStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.entries)
		sh.mu.Unlock()
	}
	return n
}

// StartJanitor sweeps expired entries every interval until ctx is done
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := s.Sweep(now); n > 0 {
					logger.Debug("Swept rate limit buckets", zap.Int("removed", n))
				}
			}
		}
	}()
}
