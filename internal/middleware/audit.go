package middleware

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"time"

	"logistician-server/internal/model"

	"github.com/gin-gonic/gin"
)

// AuditMiddleware 审计日志中间件
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 跳过不需要记录的路径
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/health") ||
			strings.Contains(path, "/validate/") {
			c.Next()
			return
		}

		// 只记录写操作
		method := c.Request.Method
		if method == "GET" {
			c.Next()
			return
		}

		startTime := time.Now()

		// 读取请求体
		var requestBody string
		if c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			requestBody = string(bodyBytes)
			// 重新设置请求体供后续使用
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

			// 脱敏处理密码和令牌字段
			if strings.Contains(requestBody, "password") || strings.Contains(requestBody, "token") {
				requestBody = maskSensitiveData(requestBody)
			}
		}

		// 处理请求
		c.Next()

		// 记录日志
		duration := time.Since(startTime).Milliseconds()

		action, resource, resourceID := parseActionFromPath(method, path)

		entry := model.AuditLog{
			UserID:       GetUserID(c),
			UserEmail:    GetUserEmail(c),
			IndustrialID: getString(c, "industrial_id"),
			Action:       action,
			Resource:     resource,
			ResourceID:   resourceID,
			Description:  action + " " + resource,
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			RequestBody:  truncateString(requestBody, 2000),
			ResponseCode: c.Writer.Status(),
			Duration:     duration,
		}

		// 异步写入日志
		go func() {
			model.DB.Create(&entry)
		}()
	}
}

// parseActionFromPath 从路径解析操作类型
func parseActionFromPath(method, path string) (action, resource, resourceID string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// 解析资源类型
	resource = model.ResourceLogistician
	for _, part := range parts {
		switch part {
		case "auth":
			resource = model.ResourceUser
		case "invite", "invitations", "register", "validate":
			resource = model.ResourceInvitation
		case "orders", "share", "access":
			resource = model.ResourceOrderAccess
		}
	}

	// 解析操作类型
	switch method {
	case "POST":
		switch {
		case strings.Contains(path, "/login"):
			action = model.ActionLogin
		case strings.Contains(path, "/invite"):
			action = model.ActionInvite
		case strings.Contains(path, "/revoke"):
			action = model.ActionRevoke
		case strings.Contains(path, "/share"):
			action = model.ActionShare
		default:
			action = model.ActionCreate
		}
	case "PUT":
		action = model.ActionUpdate
	case "DELETE":
		action = model.ActionDelete
	default:
		action = method
	}

	// 尝试提取资源ID（UUID 格式）
	for _, part := range parts {
		if len(part) == 36 && strings.Count(part, "-") == 4 {
			resourceID = part
			break
		}
	}

	return
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// sensitiveFieldPattern 匹配敏感字段及其值
var sensitiveFieldPattern = regexp.MustCompile(`"(password|old_password|new_password|token|refresh_token)"\s*:\s*"[^"]*"`)

func maskSensitiveData(data string) string {
	return sensitiveFieldPattern.ReplaceAllString(data, `"$1":"***"`)
}
