package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token 类型
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims JWT 声明
type Claims struct {
	UserID        string `json:"user_id"`
	IndustrialID  string `json:"industrial_id,omitempty"`  // 工业客户ID
	LogisticianID string `json:"logistician_id,omitempty"` // 物流服务商ID
	Email         string `json:"email"`
	Role          string `json:"role"`
	Portal        string `json:"portal"`
	TokenType     string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateTokenPair 生成访问令牌和刷新令牌
func GenerateTokenPair(claims Claims, secret string, expireHours, refreshExpireHours int) (accessToken, refreshToken string, err error) {
	accessToken, err = generateToken(claims, TokenTypeAccess, secret, expireHours)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = generateToken(claims, TokenTypeRefresh, secret, refreshExpireHours)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// GenerateAccessToken 仅生成访问令牌
func GenerateAccessToken(claims Claims, secret string, expireHours int) (string, error) {
	return generateToken(claims, TokenTypeAccess, secret, expireHours)
}

func generateToken(claims Claims, tokenType, secret string, expireHours int) (string, error) {
	now := time.Now()
	claims.TokenType = tokenType
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken 解析 JWT Token
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
