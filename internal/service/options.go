package service

import (
	"time"

	"github.com/google/uuid"
)

type options struct {
	now          func() time.Time
	newID        func() string
	queryTimeout time.Duration
}

type Option func(*options)

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithQueryTimeout bounds every record store call
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) { o.queryTimeout = d }
}

func buildOptions(opts []Option) options {
	o := options{
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
		queryTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
