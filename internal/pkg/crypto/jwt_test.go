package crypto

import "testing"

const testSecret = "test-secret-0123456789abcdef0123"

func TestGenerateTokenPair(t *testing.T) {
	claims := Claims{
		UserID:        "user-1",
		IndustrialID:  "industrial-1",
		LogisticianID: "logistician-1",
		Email:         "user@example.com",
		Role:          "logistician",
		Portal:        "logistician",
	}

	access, refresh, err := GenerateTokenPair(claims, testSecret, 168, 720)
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}
	if access == refresh {
		t.Error("access and refresh tokens should differ")
	}

	parsed, err := ParseToken(access, testSecret)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if parsed.TokenType != TokenTypeAccess {
		t.Errorf("expected token type access, got %s", parsed.TokenType)
	}
	if parsed.UserID != "user-1" || parsed.Email != "user@example.com" {
		t.Errorf("claims not preserved: %+v", parsed)
	}
	if parsed.IndustrialID != "industrial-1" || parsed.LogisticianID != "logistician-1" {
		t.Errorf("scope claims not preserved: %+v", parsed)
	}

	parsedRefresh, err := ParseToken(refresh, testSecret)
	if err != nil {
		t.Fatalf("ParseToken(refresh) failed: %v", err)
	}
	if parsedRefresh.TokenType != TokenTypeRefresh {
		t.Errorf("expected token type refresh, got %s", parsedRefresh.TokenType)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(Claims{UserID: "user-1"}, testSecret, 1)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ParseToken(token, "another-secret"); err == nil {
		t.Error("token signed with a different secret should not parse")
	}
}

func TestParseTokenExpired(t *testing.T) {
	// 负数有效期生成的令牌立即过期
	token, err := GenerateAccessToken(Claims{UserID: "user-1"}, testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ParseToken(token, testSecret); err == nil {
		t.Error("expired token should not parse")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not-a-jwt", testSecret); err == nil {
		t.Error("malformed token should not parse")
	}
}
