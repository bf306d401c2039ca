package model

import (
	"testing"
	"time"
)

func TestOrderAccessIsActive(t *testing.T) {
	now := time.Now()

	access := &OrderAccess{}
	if !access.IsActive(now) {
		t.Error("unrevoked access without expiry should be active")
	}

	access.Revoked = true
	if access.IsActive(now) {
		t.Error("revoked access should be inactive")
	}
}

func TestOrderAccessExpiry(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Hour)
	expired := &OrderAccess{ExpiresAt: &past}
	if expired.IsActive(now) {
		t.Error("access past its expiry should be inactive")
	}

	future := now.Add(time.Hour)
	valid := &OrderAccess{ExpiresAt: &future}
	if !valid.IsActive(now) {
		t.Error("access before its expiry should be active")
	}

	// 到期时刻即失效
	edge := &OrderAccess{ExpiresAt: &now}
	if edge.IsActive(now) {
		t.Error("access should be inactive at the exact expiry time")
	}
}
