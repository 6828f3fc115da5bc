// Package ratelimit implements fixed-window abuse limiting keyed by client IP
// and limiter class. Several classes may apply to one request; each is
// counted independently and all must admit it.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"submission-service/internal/metrics"
	"submission-service/internal/models"

	"go.uber.org/zap"
)

var ErrUnknownClass = errors.New("unknown limiter class")

// Class names a rate limiting policy
type Class string

const (
	ClassGlobal     Class = "global"
	ClassAuth       Class = "sensitive-auth"
	ClassSubmission Class = "public-submission"
)

// Policy allows at most Max requests per Window for a class
type Policy struct {
	Class  Class
	Window time.Duration
	Max    int
}

// Decision is the outcome of a single admit call
type Decision struct {
	Class      Class
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Store counts hits in fixed windows. Hit must atomically start a new window
// when none exists or the current one has elapsed, then increment.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (models.RateLimitBucket, error)
}

type Limiter struct {
	policies map[Class]Policy
	store    Store
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Limiter)

// WithClock overrides the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func NewLimiter(store Store, logger *zap.Logger, policies []Policy, opts ...Option) *Limiter {
	l := &Limiter{
		policies: make(map[Class]Policy, len(policies)),
		store:    store,
		now:      time.Now,
		logger:   logger,
	}
	for _, p := range policies {
		l.policies[p.Class] = p
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the configured policy for class
func (l *Limiter) Policy(class Class) (Policy, bool) {
	p, ok := l.policies[class]
	return p, ok
}

// Admit counts one request from clientIP against class. On a store error the
// request is admitted and the error returned so the caller can log it.
func (l *Limiter) Admit(ctx context.Context, clientIP string, class Class) (Decision, error) {
	policy, ok := l.policies[class]
	if !ok {
		return Decision{Class: class, Allowed: true}, fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}

	now := l.now()
	bucket, err := l.store.Hit(ctx, bucketKey(class, clientIP), policy.Window, now)
	if err != nil {
		return Decision{Class: class, Allowed: true, Limit: policy.Max, Remaining: policy.Max}, fmt.Errorf("rate limit store: %w", err)
	}

	resetAt := bucket.WindowStart.Add(policy.Window)
	remaining := policy.Max - bucket.Count
	if remaining < 0 {
		remaining = 0
	}

	dec := Decision{
		Class:     class,
		Allowed:   bucket.Count <= policy.Max,
		Limit:     policy.Max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
	if !dec.Allowed {
		dec.RetryAfter = resetAt.Sub(now)
		if dec.RetryAfter < 0 {
			dec.RetryAfter = 0
		}
	}

	metrics.RateLimitDecision(string(class), dec.Allowed)
	return dec, nil
}

func bucketKey(class Class, clientIP string) string {
	return string(class) + "|" + clientIP
}
