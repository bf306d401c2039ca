package middleware

import (
	"strings"

	"logistician-server/internal/config"
	"logistician-server/internal/pkg/crypto"
	"logistician-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware JWT 认证中间件
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}

		// Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "认证格式错误")
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := crypto.ParseToken(token, config.Get().JWT.Secret)
		if err != nil {
			response.Unauthorized(c, "无效的认证信息")
			c.Abort()
			return
		}

		// 刷新令牌不能用于访问接口
		if claims.TokenType == crypto.TokenTypeRefresh {
			response.Unauthorized(c, "无效的认证信息")
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set("user_id", claims.UserID)
		c.Set("industrial_id", claims.IndustrialID)
		c.Set("logistician_id", claims.LogisticianID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("portal", claims.Portal)

		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) string {
	return getString(c, "user_id")
}

// GetIndustrialID 从上下文获取工业客户 ID，缺省回退到用户 ID
// 工业客户自建账号时两者一致
func GetIndustrialID(c *gin.Context) string {
	if id := getString(c, "industrial_id"); id != "" {
		return id
	}
	return getString(c, "user_id")
}

// GetLogisticianID 从上下文获取物流服务商 ID
func GetLogisticianID(c *gin.Context) string {
	return getString(c, "logistician_id")
}

// GetUserEmail 从上下文获取用户邮箱
func GetUserEmail(c *gin.Context) string {
	return getString(c, "email")
}

// GetUserRole 从上下文获取用户角色
func GetUserRole(c *gin.Context) string {
	return getString(c, "role")
}

func getString(c *gin.Context, key string) string {
	v, _ := c.Get(key)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
