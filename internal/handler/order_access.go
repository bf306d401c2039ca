package handler

import (
	"fmt"
	"time"

	"logistician-server/internal/middleware"
	"logistician-server/internal/model"
	"logistician-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// OrderAccessHandler 订单授权相关接口
type OrderAccessHandler struct{}

func NewOrderAccessHandler() *OrderAccessHandler {
	return &OrderAccessHandler{}
}

// ShareRequest 共享订单请求
type ShareRequest struct {
	OrderID       string     `json:"order_id" binding:"required"`
	LogisticianID string     `json:"logistician_id" binding:"required"`
	AccessLevel   string     `json:"access_level"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// Share 将订单共享给物流服务商
func (h *OrderAccessHandler) Share(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	userID := middleware.GetUserID(c)

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	accessLevel := model.AccessLevel(req.AccessLevel)
	if req.AccessLevel == "" {
		accessLevel = model.AccessLevelView
	}
	if !accessLevel.IsValid() {
		response.BadRequest(c, "无效的访问级别")
		return
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		response.BadRequest(c, "过期时间必须晚于当前时间")
		return
	}

	// 服务商必须属于当前客户且为正常状态
	var logistician model.Logistician
	if err := model.DB.Where("id = ? AND industrial_id = ?", req.LogisticianID, industrialID).
		First(&logistician).Error; err != nil {
		response.NotFound(c, "服务商不存在")
		return
	}
	if !logistician.IsActive() {
		response.BadRequest(c, "服务商当前不可用")
		return
	}

	now := time.Now()

	// (order_id, logistician_id) 唯一：已撤销的记录原地重新授权
	var existing model.OrderAccess
	err := model.DB.Where("order_id = ? AND logistician_id = ?", req.OrderID, req.LogisticianID).
		First(&existing).Error
	if err == nil {
		if existing.IsActive(now) {
			response.Conflict(c, "该订单已共享给此服务商")
			return
		}
		updates := map[string]interface{}{
			"access_level":  accessLevel,
			"granted_by":    userID,
			"granted_at":    now,
			"expires_at":    req.ExpiresAt,
			"revoked":       false,
			"revoked_at":    nil,
			"revoked_by":    "",
			"revoke_reason": "",
		}
		if err := model.DB.Model(&existing).Updates(updates).Error; err != nil {
			response.ServerError(c, "共享失败")
			return
		}
		model.DB.First(&existing, "id = ?", existing.ID)
		notifyOrderShared(&logistician, req.OrderID)
		response.Success(c, accessDetail(&existing))
		return
	}

	access := model.OrderAccess{
		OrderID:       req.OrderID,
		LogisticianID: req.LogisticianID,
		IndustrialID:  industrialID,
		AccessLevel:   accessLevel,
		GrantedBy:     userID,
		GrantedAt:     now,
		ExpiresAt:     req.ExpiresAt,
	}
	if err := model.DB.Create(&access).Error; err != nil {
		response.ServerError(c, "共享失败")
		return
	}

	notifyOrderShared(&logistician, req.OrderID)
	response.Created(c, accessDetail(&access))
}

// RevokeRequest 撤销授权请求
type RevokeRequest struct {
	OrderID       string `json:"order_id" binding:"required"`
	LogisticianID string `json:"logistician_id" binding:"required"`
	Reason        string `json:"reason"`
}

// Revoke 撤销订单授权（幂等，重复撤销直接返回成功）
func (h *OrderAccessHandler) Revoke(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	userID := middleware.GetUserID(c)

	var req RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var access model.OrderAccess
	if err := model.DB.Where("order_id = ? AND logistician_id = ? AND industrial_id = ?",
		req.OrderID, req.LogisticianID, industrialID).First(&access).Error; err != nil {
		response.NotFound(c, "授权记录不存在")
		return
	}

	if access.Revoked {
		response.SuccessWithMessage(c, "授权已撤销", accessDetail(&access))
		return
	}

	now := time.Now()
	if err := model.DB.Model(&access).Updates(map[string]interface{}{
		"revoked":       true,
		"revoked_at":    now,
		"revoked_by":    userID,
		"revoke_reason": req.Reason,
	}).Error; err != nil {
		response.ServerError(c, "撤销失败")
		return
	}

	// 通知物流方
	var logistician model.Logistician
	if err := model.DB.First(&logistician, "id = ?", req.LogisticianID).Error; err == nil && logistician.UserID != "" {
		notification := model.Notification{
			UserID:  logistician.UserID,
			Type:    model.NotificationAccessRevoked,
			Title:   "订单访问已撤销",
			Content: fmt.Sprintf("订单 %s 的访问授权已被撤销", req.OrderID),
		}
		model.DB.Create(&notification)
	}

	model.DB.First(&access, "id = ?", access.ID)
	response.SuccessWithMessage(c, "授权已撤销", accessDetail(&access))
}

// List 查看某订单的全部授权记录
// revoked=true|false 可选过滤撤销状态
func (h *OrderAccessHandler) List(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	orderID := c.Param("orderId")

	query := model.DB.Where("order_id = ? AND industrial_id = ?", orderID, industrialID)
	if revoked, ok := parseBoolParam(c.Query("revoked")); ok {
		query = query.Where("revoked = ?", revoked)
	}

	var accesses []model.OrderAccess
	query.Order("granted_at DESC").Find(&accesses)

	result := make([]gin.H, 0, len(accesses))
	for i := range accesses {
		a := &accesses[i]
		item := accessDetail(a)

		var logistician model.Logistician
		if err := model.DB.First(&logistician, "id = ?", a.LogisticianID).Error; err == nil {
			item["logistician"] = gin.H{
				"id":           logistician.ID,
				"company_name": logistician.CompanyName,
				"email":        logistician.Email,
				"status":       logistician.Status,
			}
		}
		result = append(result, item)
	}

	response.Success(c, result)
}

// parseBoolParam 解析布尔查询参数，空值或非法值返回 ok=false
func parseBoolParam(s string) (value, ok bool) {
	switch s {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

// notifyOrderShared 给物流方写入订单共享通知
func notifyOrderShared(logistician *model.Logistician, orderID string) {
	if logistician.UserID == "" {
		return
	}
	notification := model.Notification{
		UserID:  logistician.UserID,
		Type:    model.NotificationOrderShared,
		Title:   "收到新的订单共享",
		Content: fmt.Sprintf("%s 向您共享了订单 %s", logistician.IndustrialName, orderID),
	}
	model.DB.Create(&notification)
}

// accessDetail 授权记录输出
func accessDetail(a *model.OrderAccess) gin.H {
	return gin.H{
		"id":             a.ID,
		"order_id":       a.OrderID,
		"logistician_id": a.LogisticianID,
		"access_level":   a.AccessLevel,
		"granted_by":     a.GrantedBy,
		"granted_at":     a.GrantedAt,
		"expires_at":     a.ExpiresAt,
		"revoked":        a.Revoked,
		"revoked_at":     a.RevokedAt,
		"revoke_reason":  a.RevokeReason,
	}
}
