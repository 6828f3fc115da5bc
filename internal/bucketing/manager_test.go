package bucketing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBucket_StableAndInRange(t *testing.T) {
	bm := NewBucketingManager(16)

	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("global|10.0.0.%d", i)
		b := bm.GetBucket(key)
		assert.GreaterOrEqual(t, b, 0)
		assert.Less(t, b, 16)
		assert.Equal(t, b, bm.GetBucket(key))
	}
}

func TestGetBucket_SpreadsKeys(t *testing.T) {
	bm := NewBucketingManager(8)

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		seen[bm.GetBucket(fmt.Sprintf("k%d", i))] = true
	}
	assert.Len(t, seen, 8)
}

func TestNewBucketingManager_ClampsToOne(t *testing.T) {
	bm := NewBucketingManager(0)
	assert.Equal(t, 1, bm.Buckets())
	assert.Equal(t, 0, bm.GetBucket("anything"))
}
