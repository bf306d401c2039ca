package utils

import (
	"encoding/hex"
	"testing"
)

func TestGenerateInviteToken(t *testing.T) {
	token := GenerateInviteToken()

	if len(token) != 64 {
		t.Errorf("invite token should be 64 characters, got %d", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Errorf("invite token should be hex encoded: %v", err)
	}
}

func TestGenerateInviteTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := GenerateInviteToken()
		if seen[token] {
			t.Fatal("duplicate invite token generated")
		}
		seen[token] = true
	}
}

func TestGenerateRandomString(t *testing.T) {
	for _, length := range []int{8, 16, 32, 63} {
		s := GenerateRandomString(length)
		if len(s) != length {
			t.Errorf("expected length %d, got %d", length, len(s))
		}
	}
}

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"logistics@example.com", "l***s@example.com"},
		{"ab@example.com", "ab@example.com"}, // 过短不处理
		{"not-an-email", "not-an-email"},
	}

	for _, tc := range cases {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskToken(t *testing.T) {
	token := "abcdef0123456789abcdef0123456789"
	masked := MaskToken(token)

	if masked == token {
		t.Error("masked token should differ from original")
	}
	if masked != "abcdef...6789" {
		t.Errorf("unexpected mask output: %s", masked)
	}

	if MaskToken("short") != "***" {
		t.Error("short token should be fully masked")
	}
}
