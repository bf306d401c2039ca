package handler

import (
	"strconv"
	"strings"
	"time"

	"logistician-server/internal/middleware"
	"logistician-server/internal/model"
	"logistician-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LogisticianHandler struct{}

func NewLogisticianHandler() *LogisticianHandler {
	return &LogisticianHandler{}
}

// 列表允许的排序字段
var logisticianSortFields = map[string]bool{
	"created_at":    true,
	"company_name":  true,
	"status":        true,
	"last_login_at": true,
}

// List 获取物流服务商列表
// status 与 access_level 支持逗号分隔的多值过滤
func (h *LogisticianHandler) List(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	status := c.Query("status")
	accessLevel := c.Query("access_level")
	search := c.Query("search")
	sortBy := c.DefaultQuery("sort_by", "created_at")
	sortOrder := c.DefaultQuery("sort_order", "desc")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if !logisticianSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	query := model.DB.Model(&model.Logistician{}).Where("industrial_id = ?", industrialID)

	if status != "" {
		query = query.Where("status IN ?", strings.Split(status, ","))
	}
	if accessLevel != "" {
		query = query.Where("access_level IN ?", strings.Split(accessLevel, ","))
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("company_name LIKE ? OR email LIKE ? OR siret LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var logisticians []model.Logistician
	query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order(sortBy + " " + sortOrder).
		Find(&logisticians)

	result := make([]gin.H, 0, len(logisticians))
	for _, l := range logisticians {
		result = append(result, gin.H{
			"id":            l.ID,
			"company_name":  l.CompanyName,
			"siret":         l.SIRET,
			"email":         l.Email,
			"status":        l.Status,
			"access_level":  l.AccessLevel,
			"contacts":      l.Contacts,
			"activated_at":  l.ActivatedAt,
			"last_login_at": l.LastLoginAt,
			"created_at":    l.CreatedAt,
		})
	}

	response.SuccessPage(c, result, total, page, pageSize)
}

// Get 获取服务商详情
func (h *LogisticianHandler) Get(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	id := c.Param("id")

	var logistician model.Logistician
	if err := model.DB.Where("id = ? AND industrial_id = ?", id, industrialID).First(&logistician).Error; err != nil {
		response.NotFound(c, "服务商不存在")
		return
	}

	response.Success(c, logisticianDetail(&logistician))
}

// UpdateLogisticianRequest 更新服务商请求
type UpdateLogisticianRequest struct {
	CompanyName string                     `json:"company_name"`
	SIRET       string                     `json:"siret"`
	Address     string                     `json:"address"`
	Contacts    []model.Contact            `json:"contacts"`
	AccessLevel string                     `json:"access_level"`
	Settings    *model.LogisticianSettings `json:"settings"`
}

// Update 更新服务商信息
func (h *LogisticianHandler) Update(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	id := c.Param("id")

	var req UpdateLogisticianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var logistician model.Logistician
	if err := model.DB.Where("id = ? AND industrial_id = ?", id, industrialID).First(&logistician).Error; err != nil {
		response.NotFound(c, "服务商不存在")
		return
	}

	updates := map[string]interface{}{}
	if req.CompanyName != "" {
		updates["company_name"] = req.CompanyName
	}
	if req.SIRET != "" {
		updates["siret"] = req.SIRET
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Contacts != nil {
		updates["contacts"] = req.Contacts
	}
	if req.Settings != nil {
		updates["settings"] = req.Settings
	}
	if req.AccessLevel != "" {
		level := model.AccessLevel(req.AccessLevel)
		if !level.IsValid() {
			response.BadRequest(c, "无效的访问级别")
			return
		}
		updates["access_level"] = level
	}

	if len(updates) == 0 {
		response.BadRequest(c, "无可更新字段")
		return
	}

	if err := model.DB.Model(&logistician).Updates(updates).Error; err != nil {
		response.ServerError(c, "更新失败")
		return
	}

	model.DB.Where("id = ?", id).First(&logistician)
	response.Success(c, logisticianDetail(&logistician))
}

// Suspend 停用服务商
func (h *LogisticianHandler) Suspend(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	id := c.Param("id")

	var logistician model.Logistician
	if err := model.DB.Where("id = ? AND industrial_id = ?", id, industrialID).First(&logistician).Error; err != nil {
		response.NotFound(c, "服务商不存在")
		return
	}

	if logistician.Status == model.LogisticianStatusSuspended {
		response.BadRequest(c, "服务商已处于停用状态")
		return
	}

	if err := model.DB.Model(&logistician).Update("status", model.LogisticianStatusSuspended).Error; err != nil {
		response.ServerError(c, "停用失败")
		return
	}

	response.SuccessWithMessage(c, "服务商已停用", gin.H{
		"id":     logistician.ID,
		"status": model.LogisticianStatusSuspended,
	})
}

// Reactivate 恢复已停用的服务商
func (h *LogisticianHandler) Reactivate(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	id := c.Param("id")

	var logistician model.Logistician
	if err := model.DB.Where("id = ? AND industrial_id = ?", id, industrialID).First(&logistician).Error; err != nil {
		response.NotFound(c, "服务商不存在")
		return
	}

	if logistician.Status != model.LogisticianStatusSuspended {
		response.BadRequest(c, "仅停用状态的服务商可以恢复")
		return
	}

	if err := model.DB.Model(&logistician).Update("status", model.LogisticianStatusActive).Error; err != nil {
		response.ServerError(c, "恢复失败")
		return
	}

	response.SuccessWithMessage(c, "服务商已恢复", gin.H{
		"id":     logistician.ID,
		"status": model.LogisticianStatusActive,
	})
}

// Delete 删除服务商，同时撤销其全部订单授权
func (h *LogisticianHandler) Delete(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	var logistician model.Logistician
	if err := model.DB.Where("id = ? AND industrial_id = ?", id, industrialID).First(&logistician).Error; err != nil {
		response.NotFound(c, "服务商不存在")
		return
	}

	now := time.Now()

	// 先撤销全部有效授权，再软删除记录
	model.DB.Model(&model.OrderAccess{}).
		Where("logistician_id = ? AND revoked = ?", id, false).
		Updates(map[string]interface{}{
			"revoked":       true,
			"revoked_at":    now,
			"revoked_by":    userID,
			"revoke_reason": "服务商已删除",
		})

	if err := model.DB.Delete(&logistician).Error; err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "服务商已删除", nil)
}

// Me 物流方查看自己的入驻信息
func (h *LogisticianHandler) Me(c *gin.Context) {
	logisticianID := middleware.GetLogisticianID(c)
	if logisticianID == "" {
		response.Forbidden(c, "仅物流方账号可访问")
		return
	}

	var logistician model.Logistician
	if err := model.DB.First(&logistician, "id = ?", logisticianID).Error; err != nil {
		response.NotFound(c, "入驻记录不存在")
		return
	}

	response.Success(c, logisticianDetail(&logistician))
}

// UpdateMeRequest 物流方更新自己资料请求
type UpdateMeRequest struct {
	CompanyName string                     `json:"company_name"`
	SIRET       string                     `json:"siret"`
	Address     string                     `json:"address"`
	Contacts    []model.Contact            `json:"contacts"`
	Settings    *model.LogisticianSettings `json:"settings"`
}

// UpdateMe 物流方更新自己的资料（不允许改访问级别与状态）
func (h *LogisticianHandler) UpdateMe(c *gin.Context) {
	logisticianID := middleware.GetLogisticianID(c)
	if logisticianID == "" {
		response.Forbidden(c, "仅物流方账号可访问")
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var logistician model.Logistician
	if err := model.DB.First(&logistician, "id = ?", logisticianID).Error; err != nil {
		response.NotFound(c, "入驻记录不存在")
		return
	}

	updates := map[string]interface{}{}
	if req.CompanyName != "" {
		updates["company_name"] = req.CompanyName
	}
	if req.SIRET != "" {
		updates["siret"] = req.SIRET
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Contacts != nil {
		updates["contacts"] = req.Contacts
	}
	if req.Settings != nil {
		updates["settings"] = req.Settings
	}

	if len(updates) == 0 {
		response.BadRequest(c, "无可更新字段")
		return
	}

	if err := model.DB.Model(&logistician).Updates(updates).Error; err != nil {
		response.ServerError(c, "更新失败")
		return
	}

	model.DB.First(&logistician, "id = ?", logisticianID)
	response.Success(c, logisticianDetail(&logistician))
}

// MeStats 物流方查看自己的授权统计
func (h *LogisticianHandler) MeStats(c *gin.Context) {
	logisticianID := middleware.GetLogisticianID(c)
	if logisticianID == "" {
		response.Forbidden(c, "仅物流方账号可访问")
		return
	}

	response.Success(c, accessStats(logisticianID))
}

// MeOrders 物流方查看自己可访问的订单
func (h *LogisticianHandler) MeOrders(c *gin.Context) {
	logisticianID := middleware.GetLogisticianID(c)
	if logisticianID == "" {
		response.Forbidden(c, "仅物流方账号可访问")
		return
	}

	listOrderAccesses(c, model.DB.Where("logistician_id = ?", logisticianID))
}

// Stats 工业客户查看某服务商的授权统计
func (h *LogisticianHandler) Stats(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	id := c.Param("id")

	var logistician model.Logistician
	if err := model.DB.Where("id = ? AND industrial_id = ?", id, industrialID).First(&logistician).Error; err != nil {
		response.NotFound(c, "服务商不存在")
		return
	}

	response.Success(c, accessStats(id))
}

// Orders 工业客户查看某服务商可访问的订单
func (h *LogisticianHandler) Orders(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	id := c.Param("id")

	var logistician model.Logistician
	if err := model.DB.Where("id = ? AND industrial_id = ?", id, industrialID).First(&logistician).Error; err != nil {
		response.NotFound(c, "服务商不存在")
		return
	}

	listOrderAccesses(c, model.DB.Where("logistician_id = ?", id))
}

// accessStats 统计某服务商的订单授权情况
func accessStats(logisticianID string) gin.H {
	var total, active, revoked int64
	now := time.Now()

	model.DB.Model(&model.OrderAccess{}).Where("logistician_id = ?", logisticianID).Count(&total)
	model.DB.Model(&model.OrderAccess{}).
		Where("logistician_id = ? AND revoked = ? AND (expires_at IS NULL OR expires_at > ?)",
			logisticianID, false, now).
		Count(&active)
	model.DB.Model(&model.OrderAccess{}).
		Where("logistician_id = ? AND revoked = ?", logisticianID, true).
		Count(&revoked)

	return gin.H{
		"total_orders":   total,
		"active_orders":  active,
		"revoked_orders": revoked,
	}
}

// listOrderAccesses 输出订单授权列表，支持 active_only 过滤
func listOrderAccesses(c *gin.Context, query *gorm.DB) {
	activeOnly := c.DefaultQuery("active_only", "true") == "true"

	var accesses []model.OrderAccess
	query.Order("granted_at DESC").Find(&accesses)

	now := time.Now()
	result := make([]gin.H, 0, len(accesses))
	for i := range accesses {
		a := &accesses[i]
		if activeOnly && !a.IsActive(now) {
			continue
		}
		result = append(result, gin.H{
			"order_id":      a.OrderID,
			"access_level":  a.AccessLevel,
			"granted_at":    a.GrantedAt,
			"expires_at":    a.ExpiresAt,
			"revoked":       a.Revoked,
			"revoked_at":    a.RevokedAt,
			"revoke_reason": a.RevokeReason,
		})
	}

	response.Success(c, result)
}

// logisticianDetail 服务商详情输出
func logisticianDetail(l *model.Logistician) gin.H {
	return gin.H{
		"id":              l.ID,
		"industrial_id":   l.IndustrialID,
		"industrial_name": l.IndustrialName,
		"company_name":    l.CompanyName,
		"siret":           l.SIRET,
		"email":           l.Email,
		"address":         l.Address,
		"contacts":        l.Contacts,
		"status":          l.Status,
		"access_level":    l.AccessLevel,
		"settings":        l.Settings,
		"invited_at":      l.InvitedAt,
		"activated_at":    l.ActivatedAt,
		"last_login_at":   l.LastLoginAt,
		"created_at":      l.CreatedAt,
		"updated_at":      l.UpdatedAt,
	}
}
