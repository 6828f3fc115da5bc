package bucketing

import (
	"hash"
	"sync"

	"github.com/spaolacci/murmur3"
)

// BucketingManager spreads string keys over a fixed number of buckets
type BucketingManager struct {
	buckets    int
	hasherPool sync.Pool
}

func NewBucketingManager(buckets int) *BucketingManager {
	if buckets <= 0 {
		buckets = 1
	}

	bm := &BucketingManager{buckets: buckets}

	// Pool hashers to avoid an allocation per lookup
	bm.hasherPool = sync.Pool{
		New: func() interface{} {
			return murmur3.New64()
		},
	}

	return bm
}

// Buckets returns the number of buckets keys are spread over
func (bm *BucketingManager) Buckets() int {
	return bm.buckets
}

// GetBucket returns a stable bucket in [0, Buckets())
func (bm *BucketingManager) GetBucket(key string) int {
	if bm.buckets == 1 {
		return 0
	}

	h := bm.hasherPool.Get().(hash.Hash64)
	h.Reset()
	_, _ = h.Write([]byte(key))
	sum := h.Sum64()
	bm.hasherPool.Put(h)

	return int(sum % uint64(bm.buckets))
}
