package model

import (
	"testing"
	"time"
)

func TestInvitationCheckPending(t *testing.T) {
	now := time.Now()
	invite := &LogisticianInvitation{
		Status:    InviteStatusPending,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	result := invite.Check(now)
	if !result.Valid {
		t.Errorf("pending invitation within TTL should be valid, got reason %q", result.Reason)
	}
}

func TestInvitationCheckExpired(t *testing.T) {
	now := time.Now()
	invite := &LogisticianInvitation{
		Status:    InviteStatusPending,
		ExpiresAt: now.Add(-time.Minute),
	}

	result := invite.Check(now)
	if result.Valid {
		t.Error("overdue pending invitation should be invalid")
	}
	if result.Reason != "expired" {
		t.Errorf("expected reason expired, got %q", result.Reason)
	}
}

func TestInvitationCheckTerminalStates(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)

	cases := []struct {
		status InviteStatus
		reason string
	}{
		{InviteStatusAccepted, "used"},
		{InviteStatusCancelled, "cancelled"},
		{InviteStatusExpired, "expired"},
	}

	for _, tc := range cases {
		invite := &LogisticianInvitation{Status: tc.status, ExpiresAt: future}
		result := invite.Check(now)
		if result.Valid {
			t.Errorf("status %s should be invalid even before expiry", tc.status)
		}
		if result.Reason != tc.reason {
			t.Errorf("status %s: expected reason %q, got %q", tc.status, tc.reason, result.Reason)
		}
	}
}

func TestInvitationCheckAcceptedAfterExpiry(t *testing.T) {
	// 已接受的邀请即使过了有效期，原因仍是 used 而非 expired
	now := time.Now()
	invite := &LogisticianInvitation{
		Status:    InviteStatusAccepted,
		ExpiresAt: now.Add(-time.Hour),
	}

	result := invite.Check(now)
	if result.Reason != "used" {
		t.Errorf("expected reason used, got %q", result.Reason)
	}
}

func TestInviteReasonNotFoundReserved(t *testing.T) {
	// not_found 只用于查无此令牌的场景，状态机在任何状态下都不会给出
	now := time.Now()
	statuses := []InviteStatus{
		InviteStatusPending, InviteStatusAccepted,
		InviteStatusExpired, InviteStatusCancelled,
	}
	expiries := []time.Time{now.Add(-time.Hour), now.Add(time.Hour)}

	for _, status := range statuses {
		for _, expiresAt := range expiries {
			invite := &LogisticianInvitation{Status: status, ExpiresAt: expiresAt}
			if result := invite.Check(now); result.Reason == InviteReasonNotFound {
				t.Errorf("status %s should never produce reason %s", status, InviteReasonNotFound)
			}
		}
	}

	seen := map[string]bool{
		InviteReasonExpired:   true,
		InviteReasonUsed:      true,
		InviteReasonCancelled: true,
		InviteReasonNotFound:  true,
	}
	if len(seen) != 4 {
		t.Error("invite reasons should be pairwise distinct")
	}
}

func TestInvitationIsExpired(t *testing.T) {
	now := time.Now()
	invite := &LogisticianInvitation{ExpiresAt: now}

	// 到期时刻即视为过期
	if !invite.IsExpired(now) {
		t.Error("invitation should be expired at the exact deadline")
	}
	if invite.IsExpired(now.Add(-time.Second)) {
		t.Error("invitation should not be expired before the deadline")
	}
}
