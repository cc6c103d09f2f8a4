package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterBurstThenRefill(t *testing.T) {
	now := time.Now()
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    1,
		burst:   2,
		now:     func() time.Time { return now },
	}

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("burst requests should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third immediate request should be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("different IP should have its own bucket")
	}

	now = now.Add(1500 * time.Millisecond)
	if !rl.Allow("10.0.0.1") {
		t.Fatal("request after refill should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("bucket should be drained again")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.7")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
}
