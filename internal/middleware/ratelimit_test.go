package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRateLimitedRouter(cfg RateLimitConfig) http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	r := setupRateLimitedRouter(RateLimitConfig{RPS: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d; want 200", i+1, w.Code)
		}
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	r := setupRateLimitedRouter(RateLimitConfig{RPS: 0.001, Burst: 1})

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: status = %d; want 200", first.Code)
	}

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(second, req2)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d; want 429", second.Code)
	}
}

func TestRateLimit_PerClientBuckets(t *testing.T) {
	r := setupRateLimitedRouter(RateLimitConfig{RPS: 0.001, Burst: 1})

	exhaust := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	r.ServeHTTP(exhaust, req)

	// A different client has its own untouched bucket.
	other := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "10.0.0.4:1234"
	r.ServeHTTP(other, req2)
	if other.Code != http.StatusOK {
		t.Fatalf("other client: status = %d; want 200", other.Code)
	}
}

func TestRateLimit_MisconfiguredPassesThrough(t *testing.T) {
	r := setupRateLimitedRouter(RateLimitConfig{RPS: 0, Burst: 0})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d; want pass-through 200", i+1, w.Code)
		}
	}
}
