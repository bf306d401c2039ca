package model

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  user@example.com  ", "user@example.com"},
		{"already@ok.fr", "already@ok.fr"},
	}

	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUserPassword(t *testing.T) {
	u := &User{}
	if err := u.SetPassword("secret-password-123"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	if u.Password == "secret-password-123" {
		t.Error("password should be stored hashed")
	}
	if !u.CheckPassword("secret-password-123") {
		t.Error("correct password should verify")
	}
	if u.CheckPassword("wrong-password") {
		t.Error("wrong password should not verify")
	}
}
