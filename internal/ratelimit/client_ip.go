package ratelimit

import (
	"fmt"
	"net"
	"net/http"

	"github.com/realclientip/realclientip-go"
)

// ClientIP keys on the connection address. Behind trusted proxies
// TrustedProxies has already rewritten RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// TrustedProxies rewrites RemoteAddr to the X-Forwarded-For entry appended by
// the outermost of hops trusted proxies. Entries to its left are client
// supplied and never used. With zero hops requests pass through untouched.
func TrustedProxies(hops int) (func(http.Handler) http.Handler, error) {
	if hops < 0 {
		return nil, fmt.Errorf("trusted proxy hops must not be negative, got %d", hops)
	}
	if hops == 0 {
		return func(next http.Handler) http.Handler { return next }, nil
	}

	rightmost, err := realclientip.NewRightmostTrustedCountStrategy("X-Forwarded-For", hops)
	if err != nil {
		return nil, fmt.Errorf("failed to build client ip strategy: %w", err)
	}
	strategy := realclientip.NewChainStrategy(rightmost, realclientip.RemoteAddrStrategy{})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := strategy.ClientIP(r.Header, r.RemoteAddr); ip != "" {
				r.RemoteAddr = ip
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}
