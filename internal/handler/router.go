package handler

import (
	"time"

	"logistician-server/internal/config"
	"logistician-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(r *gin.Engine) {
	cfg := config.Get()

	// 全局中间件
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(gin.Recovery())

	// 安全响应头
	if cfg.Security.EnableSecurityHeaders {
		r.Use(middleware.SecurityHeadersMiddleware())
	}

	// 速率限制器
	limiter := middleware.NewRateLimiter(100, time.Minute)      // 普通接口：每分钟100次
	authLimiter := middleware.NewRateLimiter(10, time.Minute)   // 认证接口：每分钟10次
	inviteLimiter := middleware.NewRateLimiter(20, time.Minute) // 邀请接口：每分钟20次

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API 路由组
	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(limiter))

	// API 健康检查（供 Docker/K8s 使用）
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "logistician-server"})
	})

	// 初始化 Handler
	authHandler := NewAuthHandler()
	invitationHandler := NewInvitationHandler()
	logisticianHandler := NewLogisticianHandler()
	orderAccessHandler := NewOrderAccessHandler()
	notificationHandler := NewNotificationHandler()
	auditHandler := NewAuditHandler()
	exportHandler := NewExportHandler()

	// ==================== 公开接口 ====================
	// 账号认证（更严格的速率限制）
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(authLimiter))
	{
		auth.POST("/register", authHandler.Register) // 注册工业客户
		auth.POST("/login", authHandler.Login)       // 登录
		auth.POST("/refresh", authHandler.Refresh)   // 刷新令牌
	}

	// 需要登录的账号接口
	authed := api.Group("/auth")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/me", authHandler.Me)
		authed.PUT("/password", authHandler.ChangePassword)
	}

	v1 := api.Group("/v1")

	// 邀请校验与注册（物流方门户使用，无需登录）
	public := v1.Group("/logisticians")
	public.Use(middleware.RateLimitMiddleware(inviteLimiter))
	{
		public.GET("/validate/:token", invitationHandler.Validate)
		public.POST("/register", invitationHandler.Register)
	}

	// ==================== 需要登录的业务接口 ====================
	authorized := v1.Group("")
	authorized.Use(middleware.AuthMiddleware())
	authorized.Use(middleware.AuditMiddleware())
	{
		// 邀请管理
		logisticians := authorized.Group("/logisticians")
		{
			logisticians.POST("/invite", invitationHandler.Invite)
			logisticians.GET("/invitations/pending", invitationHandler.ListPending)
			logisticians.POST("/invitations/:id/resend", invitationHandler.Resend)
			logisticians.DELETE("/invitations/:id", invitationHandler.Cancel)

			// 物流方自助接口
			logisticians.GET("/me", logisticianHandler.Me)
			logisticians.PUT("/me", logisticianHandler.UpdateMe)
			logisticians.GET("/me/stats", logisticianHandler.MeStats)
			logisticians.GET("/me/orders", logisticianHandler.MeOrders)

			// 服务商管理
			logisticians.GET("", logisticianHandler.List)
			logisticians.GET("/:id", logisticianHandler.Get)
			logisticians.PUT("/:id", logisticianHandler.Update)
			logisticians.DELETE("/:id", logisticianHandler.Delete)
			logisticians.POST("/:id/suspend", logisticianHandler.Suspend)
			logisticians.POST("/:id/reactivate", logisticianHandler.Reactivate)
			logisticians.GET("/:id/stats", logisticianHandler.Stats)
			logisticians.GET("/:id/orders", logisticianHandler.Orders)
		}

		// 订单授权
		orders := authorized.Group("/orders")
		{
			orders.POST("/share", orderAccessHandler.Share)
			orders.POST("/revoke", orderAccessHandler.Revoke)
			orders.GET("/:orderId/access", orderAccessHandler.List)
		}

		// 通知
		notifications := authorized.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		}

		// 审计与导出
		admin := authorized.Group("/admin")
		{
			admin.GET("/audit-logs", auditHandler.List)
			admin.GET("/audit-logs/stats", auditHandler.GetStats)
			admin.GET("/audit-logs/:id", auditHandler.Get)

			admin.GET("/export/logisticians", exportHandler.ExportLogisticians)
			admin.GET("/export/order-accesses", exportHandler.ExportOrderAccesses)
			admin.GET("/export/audit-logs", exportHandler.ExportAuditLogs)
		}
	}
}
