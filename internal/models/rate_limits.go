package models

import "time"

// RateLimitBucket is the fixed-window counter for one (client IP, class) pair
type RateLimitBucket struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"windowStart"`
}

// Expired reports whether the window that began at WindowStart has elapsed
func (b RateLimitBucket) Expired(now time.Time, window time.Duration) bool {
	return !now.Before(b.WindowStart.Add(window))
}
