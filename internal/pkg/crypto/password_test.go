package crypto

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("my-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "my-password" {
		t.Error("hash should differ from plaintext")
	}

	if !CheckPassword("my-password", hash) {
		t.Error("correct password should verify")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, _ := HashPassword("same-password")
	h2, _ := HashPassword("same-password")
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}
