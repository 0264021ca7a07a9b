package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	apiKey := "secret-key"
	handler := AuthMiddleware(apiKey, nil, NewSuspiciousActivityDetector())(okHandler())

	tests := []struct {
		name           string
		providedKey    string
		path           string
		expectedStatus int
	}{
		{"valid key", apiKey, "/api/v1/pool", http.StatusOK},
		{"wrong key", "wrong-key", "/api/v1/pool", http.StatusUnauthorized},
		{"missing key", "", "/api/v1/pool/enter", http.StatusUnauthorized},
		{"healthz is public", "", "/healthz", http.StatusOK},
		{"metrics is public", "", "/metrics", http.StatusOK},
		{"version is public", "", "/version", http.StatusOK},
		{"swagger is public", "", "/swagger/index.html", http.StatusOK},
		{"admin needs key", "", "/api/v1/admin/draw/reset", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.providedKey)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
}

func TestSecurityLoggingMiddleware_RateLimiting(t *testing.T) {
	now := time.Unix(1700000000, 0)
	detector := newDetector(time.Minute, 3, func() time.Time { return now })
	handler := SecurityLoggingMiddleware(nil, detector)(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pool", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send("192.168.1.100:1234"), "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, send("192.168.1.100:1234"))
	assert.Equal(t, http.StatusOK, send("192.168.1.101:1234"), "other clients are unaffected")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, http.StatusOK, send("192.168.1.100:1234"), "a new window starts clean")
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []string
		want      string
	}{
		{"direct", "10.0.0.1:5000", "", nil, "10.0.0.1"},
		{"untrusted forwarder ignored", "10.0.0.1:5000", "1.2.3.4", nil, "10.0.0.1"},
		{"trusted proxy", "10.0.0.1:5000", "1.2.3.4, 5.6.7.8", []string{"10.0.0.1"}, "5.6.7.8"},
		{"trusted proxy without header", "10.0.0.1:5000", "", []string{"10.0.0.1"}, "10.0.0.1"},
		{"unparsable remote", "garbage", "", nil, "garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	handler := RequestSizeLimitMiddleware(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			var tooLarge *http.MaxBytesError
			assert.ErrorAs(t, err, &tooLarge)
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abc")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
