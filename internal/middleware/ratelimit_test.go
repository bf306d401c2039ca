package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("request %d within limit should be allowed", i+1)
		}
	}

	if limiter.Allow("1.2.3.4") {
		t.Error("request over limit should be blocked")
	}
}

func TestRateLimiterPerKey(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	if !limiter.Allow("1.1.1.1") {
		t.Error("first request should be allowed")
	}
	if limiter.Allow("1.1.1.1") {
		t.Error("second request from same key should be blocked")
	}
	if !limiter.Allow("2.2.2.2") {
		t.Error("different key should not be affected")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := NewRateLimiter(1, 50*time.Millisecond)

	if !limiter.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("second request should be blocked")
	}

	time.Sleep(60 * time.Millisecond)

	if !limiter.Allow("1.2.3.4") {
		t.Error("request after window slides should be allowed")
	}
}
