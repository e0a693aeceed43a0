package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/extblend/internal/config"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.RemoteAddr))
})

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.SecurityConfig
		key        string
		wantStatus int
		wantCode   string
	}{
		{name: "disabled passes", cfg: config.SecurityConfig{}, wantStatus: http.StatusOK},
		{name: "missing key", cfg: config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, wantStatus: http.StatusUnauthorized, wantCode: "AUTH001"},
		{name: "wrong key", cfg: config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, key: "nope", wantStatus: http.StatusForbidden, wantCode: "AUTH002"},
		{name: "second key accepted", cfg: config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}, key: "k2", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sheets", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()

			APIKeyAuth(tt.cfg)(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
			}
		})
	}
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{name: "untrusted keeps remote", remote: "203.0.113.9:5000", headers: map[string]string{"X-Real-IP": "1.2.3.4"}, want: "203.0.113.9:5000"},
		{name: "trusted uses X-Real-IP", remote: "10.1.2.3:5000", headers: map[string]string{"X-Real-IP": "1.2.3.4"}, want: "1.2.3.4"},
		{name: "trusted uses first forwarded hop", remote: "10.1.2.3:5000", headers: map[string]string{"X-Forwarded-For": "5.6.7.8, 10.1.2.3"}, want: "5.6.7.8"},
		{name: "trusted bare address", remote: "192.168.1.1:80", headers: map[string]string{"X-Real-IP": "9.9.9.9"}, want: "9.9.9.9"},
		{name: "invalid header ignored", remote: "10.1.2.3:5000", headers: map[string]string{"X-Real-IP": "not-an-ip"}, want: "10.1.2.3:5000"},
	}

	h := TrustedRealIP([]string{"10.0.0.0/8", "192.168.1.1", "bogus"})(ok)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "clients are independent")

	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("a"), "one token refilled")

	now = now.Add(10 * time.Minute)
	rl.Allow("c")
	rl.mu.Lock()
	_, stale := rl.visitors["b"]
	rl.mu.Unlock()
	assert.False(t, stale, "idle visitors are swept")
}

func TestRateLimiter_Handler(t *testing.T) {
	rl := NewRateLimiter(1)
	h := rl.Handler(ok)

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/process", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Code, "request %d", i)
		if want == http.StatusTooManyRequests {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			assert.Contains(t, rec.Body.String(), `"code":"RATE001"`)
		}
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("nope"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/preview", nil))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=400")
	assert.Contains(t, out, "bytes=4")
	assert.Contains(t, out, "path=/api/preview")
}
