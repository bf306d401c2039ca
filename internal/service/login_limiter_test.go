package service

import (
	"testing"
	"time"
)

func TestLoginLimiterLocksAfterMaxAttempts(t *testing.T) {
	limiter := NewLoginLimiter(3, time.Minute, time.Hour)

	for i := 0; i < 2; i++ {
		locked, _ := limiter.RecordFailure("user@example.com")
		if locked {
			t.Fatalf("attempt %d should not lock yet", i+1)
		}
	}

	locked, remaining := limiter.RecordFailure("user@example.com")
	if !locked {
		t.Fatal("third failure should lock the account")
	}
	if remaining != time.Minute {
		t.Errorf("expected lock duration 1m, got %v", remaining)
	}

	if isLocked, _ := limiter.IsLocked("user@example.com"); !isLocked {
		t.Error("account should report locked")
	}
}

func TestLoginLimiterSuccessResets(t *testing.T) {
	limiter := NewLoginLimiter(3, time.Minute, time.Hour)

	limiter.RecordFailure("user@example.com")
	limiter.RecordFailure("user@example.com")
	limiter.RecordSuccess("user@example.com")

	if remaining := limiter.GetRemainingAttempts("user@example.com"); remaining != 3 {
		t.Errorf("success should reset attempts, got %d remaining", remaining)
	}
}

func TestLoginLimiterRemainingAttempts(t *testing.T) {
	limiter := NewLoginLimiter(5, time.Minute, time.Hour)

	if remaining := limiter.GetRemainingAttempts("fresh@example.com"); remaining != 5 {
		t.Errorf("fresh account should have 5 attempts, got %d", remaining)
	}

	limiter.RecordFailure("fresh@example.com")
	if remaining := limiter.GetRemainingAttempts("fresh@example.com"); remaining != 4 {
		t.Errorf("expected 4 remaining after one failure, got %d", remaining)
	}
}

func TestLoginLimiterKeysIndependent(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute, time.Hour)

	limiter.RecordFailure("a@example.com")
	if isLocked, _ := limiter.IsLocked("b@example.com"); isLocked {
		t.Error("other accounts should not be affected")
	}
}

func TestIPLoginLimiter(t *testing.T) {
	limiter := NewIPLoginLimiter(2, time.Minute, time.Hour)

	limiter.RecordFailure("10.0.0.1")
	locked, _ := limiter.RecordFailure("10.0.0.1")
	if !locked {
		t.Fatal("second failure should lock the IP")
	}

	limiter.RecordSuccess("10.0.0.1")
	// 锁定期间 RecordSuccess 清除记录后立即解锁
	if isLocked, _ := limiter.IsLocked("10.0.0.1"); isLocked {
		t.Error("success should clear the lock")
	}
}
