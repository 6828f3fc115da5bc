package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// KeyFunc extracts the client identity a rule counts against
type KeyFunc func(r *http.Request) string

// Rule binds a limiter class to the request key it counts
type Rule struct {
	Class Class
	Key   KeyFunc
}

// DenyFunc writes the response for a rejected request
type DenyFunc func(w http.ResponseWriter, r *http.Request, d Decision)

// Middleware evaluates rules in order. The first denial short-circuits; a
// store failure admits the request.
func (l *Limiter) Middleware(deny DenyFunc, rules ...Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, rule := range rules {
				key := ClientIP
				if rule.Key != nil {
					key = rule.Key
				}
				ip := key(r)

				d, err := l.Admit(r.Context(), ip, rule.Class)
				if err != nil {
					l.logger.Error("Rate limiter unavailable, admitting request",
						zap.String("class", string(rule.Class)),
						zap.String("ip", ip),
						zap.Error(err),
					)
					continue
				}

				writeHeaders(w, d, l.now())
				if !d.Allowed {
					l.logger.Info("Rate limit exceeded",
						zap.String("class", string(rule.Class)),
						zap.String("ip", ip),
						zap.String("path", r.URL.Path),
					)
					w.Header().Set("Retry-After", strconv.Itoa(ceilSeconds(d.RetryAfter.Seconds())))
					deny(w, r, d)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeHeaders sets the draft-standard RateLimit-* fields for d
func writeHeaders(w http.ResponseWriter, d Decision, now time.Time) {
	h := w.Header()
	h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
	h.Set("RateLimit-Reset", strconv.Itoa(ceilSeconds(d.ResetAt.Sub(now).Seconds())))
}

func ceilSeconds(s float64) int {
	if s <= 0 {
		return 0
	}
	return int(math.Ceil(s))
}
