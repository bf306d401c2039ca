package handler

import (
	"encoding/csv"
	"fmt"
	"time"

	"logistician-server/internal/middleware"
	"logistician-server/internal/model"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// beginCSV 设置 CSV 下载响应头并写入 BOM（Excel 中文兼容）
func beginCSV(c *gin.Context, prefix string) *csv.Writer {
	filename := fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})
	return csv.NewWriter(c.Writer)
}

// ExportLogisticians 导出服务商数据
func (h *ExportHandler) ExportLogisticians(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	status := c.Query("status")

	query := model.DB.Model(&model.Logistician{}).Where("industrial_id = ?", industrialID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var logisticians []model.Logistician
	query.Order("created_at DESC").Find(&logisticians)

	writer := beginCSV(c, "logisticians")
	defer writer.Flush()

	writer.Write([]string{
		"公司名称", "SIRET", "邮箱", "状态", "访问级别", "主联系人",
		"激活时间", "最近登录", "创建时间",
	})

	for i := range logisticians {
		l := &logisticians[i]
		contactName := ""
		if contact := l.PrimaryContact(); contact != nil {
			contactName = contact.Name
		}
		activatedAt := ""
		if l.ActivatedAt != nil {
			activatedAt = l.ActivatedAt.Format("2006-01-02 15:04:05")
		}
		lastLoginAt := ""
		if l.LastLoginAt != nil {
			lastLoginAt = l.LastLoginAt.Format("2006-01-02 15:04:05")
		}

		writer.Write([]string{
			l.CompanyName,
			l.SIRET,
			l.Email,
			string(l.Status),
			string(l.AccessLevel),
			contactName,
			activatedAt,
			lastLoginAt,
			l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// ExportOrderAccesses 导出订单授权数据
func (h *ExportHandler) ExportOrderAccesses(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	logisticianID := c.Query("logistician_id")

	query := model.DB.Model(&model.OrderAccess{}).Where("industrial_id = ?", industrialID)
	if logisticianID != "" {
		query = query.Where("logistician_id = ?", logisticianID)
	}

	var accesses []model.OrderAccess
	query.Order("granted_at DESC").Find(&accesses)

	// 服务商名称映射
	companyNames := map[string]string{}
	var logisticians []model.Logistician
	model.DB.Where("industrial_id = ?", industrialID).Find(&logisticians)
	for _, l := range logisticians {
		companyNames[l.ID] = l.CompanyName
	}

	writer := beginCSV(c, "order_accesses")
	defer writer.Flush()

	writer.Write([]string{
		"订单号", "服务商", "访问级别", "授权时间", "过期时间", "是否撤销", "撤销时间", "撤销原因",
	})

	for i := range accesses {
		a := &accesses[i]
		expiresAt := ""
		if a.ExpiresAt != nil {
			expiresAt = a.ExpiresAt.Format("2006-01-02 15:04:05")
		}
		revoked := "否"
		revokedAt := ""
		if a.Revoked {
			revoked = "是"
			if a.RevokedAt != nil {
				revokedAt = a.RevokedAt.Format("2006-01-02 15:04:05")
			}
		}

		writer.Write([]string{
			a.OrderID,
			companyNames[a.LogisticianID],
			string(a.AccessLevel),
			a.GrantedAt.Format("2006-01-02 15:04:05"),
			expiresAt,
			revoked,
			revokedAt,
			a.RevokeReason,
		})
	}
}

// ExportAuditLogs 导出审计日志
func (h *ExportHandler) ExportAuditLogs(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	query := model.DB.Model(&model.AuditLog{}).Where("industrial_id = ?", industrialID)
	if startDate != "" {
		query = query.Where("created_at >= ?", startDate+" 00:00:00")
	}
	if endDate != "" {
		query = query.Where("created_at <= ?", endDate+" 23:59:59")
	}

	var logs []model.AuditLog
	query.Order("created_at DESC").Limit(10000).Find(&logs)

	writer := beginCSV(c, "audit_logs")
	defer writer.Flush()

	writer.Write([]string{
		"时间", "操作人", "操作", "资源", "资源ID", "描述", "IP", "响应码",
	})

	for _, log := range logs {
		writer.Write([]string{
			log.CreatedAt.Format("2006-01-02 15:04:05"),
			log.UserEmail,
			log.Action,
			log.Resource,
			log.ResourceID,
			log.Description,
			log.IPAddress,
			fmt.Sprintf("%d", log.ResponseCode),
		})
	}
}
