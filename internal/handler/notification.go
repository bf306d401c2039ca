package handler

import (
	"strconv"

	"logistician-server/internal/middleware"
	"logistician-server/internal/model"
	"logistician-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List 获取通知列表
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	unreadOnly := c.Query("unread_only") == "true"

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := model.DB.Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Count(&total)

	var unread int64
	model.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread)

	var notifications []model.Notification
	query.Offset((page - 1) * pageSize).Limit(pageSize).Order("created_at DESC").Find(&notifications)

	response.Success(c, gin.H{
		"list":         notifications,
		"total":        total,
		"unread_count": unread,
		"page":         page,
		"page_size":    pageSize,
	})
}

// MarkRead 标记单条通知为已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	result := model.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)

	if result.Error != nil {
		response.ServerError(c, "更新失败")
		return
	}
	if result.RowsAffected == 0 {
		response.NotFound(c, "通知不存在")
		return
	}

	response.SuccessWithMessage(c, "已标记为已读", nil)
}

// MarkAllRead 全部标记为已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	result := model.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)

	if result.Error != nil {
		response.ServerError(c, "更新失败")
		return
	}

	response.SuccessWithMessage(c, "全部已读", gin.H{"updated": result.RowsAffected})
}
