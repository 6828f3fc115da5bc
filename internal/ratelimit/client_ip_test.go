package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedIP(t *testing.T, hops int, remoteAddr string, forwarded ...string) string {
	t.Helper()
	mw, err := TrustedProxies(hops)
	require.NoError(t, err)

	var got string
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIP(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for _, v := range forwarded {
		req.Header.Add("X-Forwarded-For", v)
	}
	req.Header.Set("X-Real-IP", "192.0.2.77")
	req.Header.Set("True-Client-IP", "192.0.2.78")
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestTrustedProxies_NoHopsUsesPeer(t *testing.T) {
	assert.Equal(t, "10.0.0.2", resolvedIP(t, 0, "10.0.0.2:41000", "198.51.100.1"))
}

func TestTrustedProxies_OneHopTakesRightmost(t *testing.T) {
	assert.Equal(t, "203.0.113.10", resolvedIP(t, 1, "10.0.0.2:41000", "198.51.100.1, 203.0.113.10"))
	assert.Equal(t, "203.0.113.10", resolvedIP(t, 1, "10.0.0.2:41000", "198.51.100.1", "203.0.113.10"))
}

func TestTrustedProxies_TwoHops(t *testing.T) {
	assert.Equal(t, "203.0.113.10", resolvedIP(t, 2, "10.0.0.2:41000", "198.51.100.1, 203.0.113.10, 10.0.0.9"))
}

func TestTrustedProxies_MissingHeaderFallsBackToPeer(t *testing.T) {
	assert.Equal(t, "10.0.0.2", resolvedIP(t, 1, "10.0.0.2:41000"))
}

func TestTrustedProxies_SpoofedLeftEntriesShareOneKey(t *testing.T) {
	seen := map[string]bool{}
	for _, spoof := range []string{"198.51.100.1", "198.51.100.2", "1.2.3.4"} {
		seen[resolvedIP(t, 1, "10.0.0.2:41000", spoof+", 203.0.113.10")] = true
	}
	assert.Equal(t, map[string]bool{"203.0.113.10": true}, seen)
}

func TestTrustedProxies_RejectsNegativeHops(t *testing.T) {
	_, err := TrustedProxies(-1)
	assert.Error(t, err)
}
