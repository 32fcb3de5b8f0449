package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("burst of 2 should be allowed")
	}
	if rl.Allow("1.1.1.1") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("1.1.1.1") {
		t.Error("token should refill after one second")
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("1.1.1.1")
	now = now.Add(2 * time.Hour)
	rl.Allow("2.2.2.2")
	rl.sweep()

	if _, ok := rl.clients["1.1.1.1"]; ok {
		t.Error("idle client should be swept")
	}
	if _, ok := rl.clients["2.2.2.2"]; !ok {
		t.Error("active client should be kept")
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	rl.Stop()
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Stop()
	h := RateLimit(rl)(okHandler())

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := send(); got != http.StatusOK {
		t.Fatalf("first request = %d, want 200", got)
	}
	if got := send(); got != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", got)
	}
}
