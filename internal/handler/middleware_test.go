package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTimeout_WritesEnvelope(t *testing.T) {
	h := Timeout(20*time.Millisecond, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Request timed out.", resp.Message)
}

func TestTimeout_LeavesFastResponsesAlone(t *testing.T) {
	h := Timeout(time.Second, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, zap.NewNop(), http.StatusOK, successResponse(nil, "ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fast", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"ok"}`, rec.Body.String())
}

func TestSecurityHeaders_PlainHTTP(t *testing.T) {
	h := SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	hdr := rec.Header()
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "max-age=31536000; includeSubDomains; preload", hdr.Get("Strict-Transport-Security"))
	assert.Equal(t, "DENY", hdr.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", hdr.Get("X-Content-Type-Options"))
	assert.Equal(t, "same-origin", hdr.Get("Cross-Origin-Resource-Policy"))
	assert.Equal(t, contentSecurityPolicy, hdr.Get("Content-Security-Policy"))
}
