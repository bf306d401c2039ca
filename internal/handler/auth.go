package handler

import (
	"fmt"
	"time"

	"logistician-server/internal/config"
	"logistician-server/internal/middleware"
	"logistician-server/internal/model"
	"logistician-server/internal/pkg/crypto"
	"logistician-server/internal/pkg/response"
	"logistician-server/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Company  string `json:"company"`
	Portal   string `json:"portal"` // industrial / logistician，默认 industrial
}

// Register 注册工业客户账号
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	cfg := config.Get()
	if len(req.Password) < cfg.Security.PasswordMinLength {
		response.BadRequest(c, fmt.Sprintf("密码长度不能少于 %d 位", cfg.Security.PasswordMinLength))
		return
	}

	email := model.NormalizeEmail(req.Email)

	// 检查邮箱是否已注册
	var existing model.User
	if err := model.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		response.Error(c, 400, "该邮箱已被注册")
		return
	}

	portal := req.Portal
	if portal == "" {
		portal = "industrial"
	}

	user := model.User{
		Email:   email,
		Name:    req.Name,
		Company: req.Company,
		Role:    "industrial",
		Portal:  portal,
	}
	if err := user.SetPassword(req.Password); err != nil {
		response.ServerError(c, "密码加密失败")
		return
	}

	if err := model.DB.Create(&user).Error; err != nil {
		response.ServerError(c, "创建账号失败")
		return
	}

	accessToken, refreshToken, err := h.issueTokens(&user)
	if err != nil {
		response.ServerError(c, "生成令牌失败")
		return
	}

	response.Created(c, gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":      user.ID,
			"email":   user.Email,
			"name":    user.Name,
			"role":    user.Role,
			"portal":  user.Portal,
			"company": user.Company,
		},
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	email := model.NormalizeEmail(req.Email)
	clientIP := c.ClientIP()

	// IP 级别限制
	ipLimiter := service.GetIPLoginLimiter()
	if locked, remaining := ipLimiter.IsLocked(clientIP); locked {
		response.Error(c, 429, fmt.Sprintf("尝试次数过多，请 %d 分钟后再试", int(remaining.Minutes())+1))
		return
	}

	// 账号级别限制
	limiter := service.GetLoginLimiter()
	if locked, remaining := limiter.IsLocked(email); locked {
		response.Error(c, 429, fmt.Sprintf("账号已被锁定，请 %d 分钟后再试", int(remaining.Minutes())+1))
		return
	}

	var user model.User
	if err := model.DB.Where("email = ?", email).First(&user).Error; err != nil {
		limiter.RecordFailure(email)
		ipLimiter.RecordFailure(clientIP)
		response.Unauthorized(c, "邮箱或密码错误")
		return
	}

	if !user.CheckPassword(req.Password) {
		locked, _ := limiter.RecordFailure(email)
		ipLimiter.RecordFailure(clientIP)
		if locked {
			response.Error(c, 429, "失败次数过多，账号已被临时锁定")
			return
		}
		remaining := limiter.GetRemainingAttempts(email)
		response.Unauthorized(c, fmt.Sprintf("邮箱或密码错误，剩余尝试次数: %d", remaining))
		return
	}

	limiter.RecordSuccess(email)
	ipLimiter.RecordSuccess(clientIP)

	// 更新登录信息
	now := time.Now()
	model.DB.Model(&user).Updates(map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": clientIP,
	})

	// 物流方账号同步更新服务商登录时间
	if user.Role == "logistician" {
		model.DB.Model(&model.Logistician{}).
			Where("user_id = ?", user.ID).
			Update("last_login_at", now)
	}

	accessToken, refreshToken, err := h.issueTokens(&user)
	if err != nil {
		response.ServerError(c, "生成令牌失败")
		return
	}

	response.Success(c, gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":      user.ID,
			"email":   user.Email,
			"name":    user.Name,
			"role":    user.Role,
			"portal":  user.Portal,
			"company": user.Company,
		},
	})
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh 刷新访问令牌
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	cfg := config.Get()
	claims, err := crypto.ParseToken(req.RefreshToken, cfg.JWT.Secret)
	if err != nil {
		response.Unauthorized(c, "刷新令牌无效或已过期")
		return
	}
	if claims.TokenType != crypto.TokenTypeRefresh {
		response.Unauthorized(c, "令牌类型错误")
		return
	}

	// 账号仍需存在且有效
	var user model.User
	if err := model.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		response.Unauthorized(c, "账号不存在")
		return
	}

	accessToken, refreshToken, err := h.issueTokens(&user)
	if err != nil {
		response.ServerError(c, "生成令牌失败")
		return
	}

	response.Success(c, gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
	})
}

// Me 获取当前登录账号信息
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var user model.User
	if err := model.DB.First(&user, "id = ?", userID).Error; err != nil {
		response.NotFound(c, "账号不存在")
		return
	}

	response.Success(c, gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"role":          user.Role,
		"portal":        user.Portal,
		"company":       user.Company,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	})
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword 修改密码
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	cfg := config.Get()
	if len(req.NewPassword) < cfg.Security.PasswordMinLength {
		response.BadRequest(c, fmt.Sprintf("密码长度不能少于 %d 位", cfg.Security.PasswordMinLength))
		return
	}

	var user model.User
	if err := model.DB.First(&user, "id = ?", userID).Error; err != nil {
		response.NotFound(c, "账号不存在")
		return
	}

	if !user.CheckPassword(req.OldPassword) {
		response.BadRequest(c, "原密码错误")
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		response.ServerError(c, "密码加密失败")
		return
	}

	if err := model.DB.Model(&user).Update("password", user.Password).Error; err != nil {
		response.ServerError(c, "密码更新失败")
		return
	}

	response.SuccessWithMessage(c, "密码修改成功", nil)
}

// issueTokens 签发访问令牌与刷新令牌
func (h *AuthHandler) issueTokens(user *model.User) (string, string, error) {
	cfg := config.Get()

	claims := crypto.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Portal: user.Portal,
	}

	switch user.Role {
	case "industrial":
		claims.IndustrialID = user.ID
	case "logistician":
		var logistician model.Logistician
		if err := model.DB.Where("user_id = ?", user.ID).First(&logistician).Error; err == nil {
			claims.LogisticianID = logistician.ID
			claims.IndustrialID = logistician.IndustrialID
		}
	}

	return crypto.GenerateTokenPair(claims, cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.JWT.RefreshExpireHours)
}
