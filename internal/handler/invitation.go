package handler

import (
	"errors"
	"fmt"
	"time"

	"logistician-server/internal/config"
	"logistician-server/internal/middleware"
	"logistician-server/internal/model"
	"logistician-server/internal/pkg/crypto"
	"logistician-server/internal/pkg/response"
	"logistician-server/internal/pkg/utils"
	"logistician-server/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// errInviteTaken 邀请已被并发接受
var errInviteTaken = errors.New("invitation already accepted")

// InvitationHandler 邀请相关接口
type InvitationHandler struct {
	emailService *service.EmailService
}

func NewInvitationHandler() *InvitationHandler {
	return &InvitationHandler{
		emailService: service.NewEmailService(),
	}
}

// InviteRequest 发出邀请请求
type InviteRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	CompanyName string   `json:"company_name"`
	AccessLevel string   `json:"access_level"`
	Message     string   `json:"message"`
	OrderIDs    []string `json:"order_ids"`
}

// Invite 向物流服务商发出入驻邀请
func (h *InvitationHandler) Invite(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	userID := middleware.GetUserID(c)

	var req InviteRequest
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

	email := model.NormalizeEmail(req.Email)

	// 已有入驻记录的不允许重复邀请
	var existing model.Logistician
	if err := model.DB.Where("industrial_id = ? AND email = ? AND status != ?",
		industrialID, email, model.LogisticianStatusSuspended).First(&existing).Error; err == nil {
		response.Conflict(c, "该服务商已入驻")
		return
	}

	// 同一邮箱只保留一条待处理邀请
	var pending model.LogisticianInvitation
	if err := model.DB.Where("industrial_id = ? AND email = ? AND status = ? AND expires_at > ?",
		industrialID, email, model.InviteStatusPending, time.Now()).First(&pending).Error; err == nil {
		response.Conflict(c, "该邮箱已有待处理的邀请")
		return
	}

	industrialName := h.industrialName(industrialID)

	invitation := model.LogisticianInvitation{
		IndustrialID:   industrialID,
		IndustrialName: industrialName,
		Email:          email,
		CompanyName:    req.CompanyName,
		AccessLevel:    accessLevel,
		Message:        req.Message,
		OrderIDs:       req.OrderIDs,
		Token:          utils.GenerateInviteToken(),
		Status:         model.InviteStatusPending,
		InvitedBy:      userID,
		ExpiresAt:      time.Now().Add(model.InvitationTTL),
	}

	if err := model.DB.Create(&invitation).Error; err != nil {
		response.ServerError(c, "创建邀请失败")
		return
	}

	// 发送邀请邮件并记录投递结果
	h.deliverInvitation(&invitation)

	response.Created(c, gin.H{
		"id":           invitation.ID,
		"email":        invitation.Email,
		"company_name": invitation.CompanyName,
		"access_level": invitation.AccessLevel,
		"status":       invitation.Status,
		"email_status": invitation.EmailStatus,
		"expires_at":   invitation.ExpiresAt,
		"created_at":   invitation.CreatedAt,
	})
}

// deliverInvitation 投递邀请邮件并更新 email_status
func (h *InvitationHandler) deliverInvitation(invitation *model.LogisticianInvitation) {
	status := model.EmailStatusSkipped
	if h.emailService.Enabled() {
		data := service.InvitationEmailData{
			IndustrialName: invitation.IndustrialName,
			AccessLevel:    service.AccessLevelLabel(invitation.AccessLevel),
			Message:        invitation.Message,
			InvitationURL:  service.InvitationURL(invitation.Token),
			ExpiresAt:      invitation.ExpiresAt.Format("2006-01-02 15:04"),
		}
		if err := h.emailService.SendInvitation(invitation.Email, data); err != nil {
			status = model.EmailStatusFailed
		} else {
			status = model.EmailStatusSent
		}
	} else {
		// 未配置邮件服务时输出链接，便于本地联调
		h.emailService.SendEmail(invitation.Email, "合作邀请", service.InvitationURL(invitation.Token))
	}

	invitation.EmailStatus = status
	model.DB.Model(invitation).Update("email_status", status)
}

// Resend 重发邀请，轮换令牌并重置有效期
func (h *InvitationHandler) Resend(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	id := c.Param("id")

	var invitation model.LogisticianInvitation
	if err := model.DB.Where("id = ? AND industrial_id = ?", id, industrialID).First(&invitation).Error; err != nil {
		response.NotFound(c, "邀请不存在")
		return
	}

	if invitation.Status == model.InviteStatusAccepted {
		response.BadRequest(c, "邀请已被接受，无法重发")
		return
	}
	if invitation.Status == model.InviteStatusCancelled {
		response.BadRequest(c, "邀请已取消，无法重发")
		return
	}

	// 旧令牌作废，重置有效期
	invitation.Token = utils.GenerateInviteToken()
	invitation.Status = model.InviteStatusPending
	invitation.ExpiresAt = time.Now().Add(model.InvitationTTL)

	if err := model.DB.Model(&invitation).Updates(map[string]interface{}{
		"token":      invitation.Token,
		"status":     invitation.Status,
		"expires_at": invitation.ExpiresAt,
	}).Error; err != nil {
		response.ServerError(c, "重发邀请失败")
		return
	}

	h.deliverInvitation(&invitation)

	response.Success(c, gin.H{
		"id":           invitation.ID,
		"email":        invitation.Email,
		"status":       invitation.Status,
		"email_status": invitation.EmailStatus,
		"expires_at":   invitation.ExpiresAt,
	})
}

// Cancel 取消待处理邀请
func (h *InvitationHandler) Cancel(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)
	id := c.Param("id")

	var invitation model.LogisticianInvitation
	if err := model.DB.Where("id = ? AND industrial_id = ?", id, industrialID).First(&invitation).Error; err != nil {
		response.NotFound(c, "邀请不存在")
		return
	}

	if invitation.Status == model.InviteStatusAccepted {
		response.BadRequest(c, "邀请已被接受，无法取消")
		return
	}

	now := time.Now()
	if err := model.DB.Model(&invitation).Updates(map[string]interface{}{
		"status":       model.InviteStatusCancelled,
		"cancelled_at": now,
	}).Error; err != nil {
		response.ServerError(c, "取消邀请失败")
		return
	}

	response.SuccessWithMessage(c, "邀请已取消", nil)
}

// ListPending 当前客户的待处理邀请列表
func (h *InvitationHandler) ListPending(c *gin.Context) {
	industrialID := middleware.GetIndustrialID(c)

	var invitations []model.LogisticianInvitation
	model.DB.Where("industrial_id = ? AND status = ?", industrialID, model.InviteStatusPending).
		Order("created_at DESC").
		Find(&invitations)

	now := time.Now()
	result := make([]gin.H, 0, len(invitations))
	for i := range invitations {
		invite := &invitations[i]
		// 读时修复：查询时发现到期立即落库
		if invite.IsExpired(now) {
			invite.Status = model.InviteStatusExpired
			model.DB.Model(invite).Update("status", model.InviteStatusExpired)
			continue
		}
		result = append(result, gin.H{
			"id":           invite.ID,
			"email":        invite.Email,
			"company_name": invite.CompanyName,
			"access_level": invite.AccessLevel,
			"message":      invite.Message,
			"order_ids":    invite.OrderIDs,
			"email_status": invite.EmailStatus,
			"expires_at":   invite.ExpiresAt,
			"created_at":   invite.CreatedAt,
		})
	}

	response.Success(c, result)
}

// Validate 校验邀请令牌（公开接口，物流方门户使用）
func (h *InvitationHandler) Validate(c *gin.Context) {
	token := c.Param("token")

	var invitation model.LogisticianInvitation
	if err := model.DB.Where("token = ?", token).First(&invitation).Error; err != nil {
		response.Success(c, gin.H{"valid": false, "reason": model.InviteReasonNotFound})
		return
	}

	check := h.checkWithRepair(&invitation)
	if !check.Valid {
		response.Success(c, gin.H{"valid": false, "reason": check.Reason})
		return
	}

	response.Success(c, gin.H{
		"valid": true,
		"invitation": gin.H{
			"email":           invitation.Email,
			"company_name":    invitation.CompanyName,
			"industrial_name": invitation.IndustrialName,
			"access_level":    invitation.AccessLevel,
			"message":         invitation.Message,
			"order_count":     len(invitation.OrderIDs),
			"expires_at":      invitation.ExpiresAt,
		},
	})
}

// checkWithRepair 校验邀请，到期的待处理邀请就地落库为过期
func (h *InvitationHandler) checkWithRepair(invitation *model.LogisticianInvitation) model.InviteCheckResult {
	check := invitation.Check(time.Now())
	if !check.Valid && check.Reason == model.InviteReasonExpired && invitation.Status == model.InviteStatusPending {
		invitation.Status = model.InviteStatusExpired
		model.DB.Model(invitation).Update("status", model.InviteStatusExpired)
	}
	return check
}

// AcceptRequest 接受邀请并注册请求
type AcceptRequest struct {
	Token       string          `json:"token" binding:"required"`
	Password    string          `json:"password" binding:"required,min=8"`
	Name        string          `json:"name" binding:"required"`
	CompanyName string          `json:"company_name"`
	SIRET       string          `json:"siret"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone"`
	Contacts    []model.Contact `json:"contacts"`
}

// Register 接受邀请并注册物流服务商账号
func (h *InvitationHandler) Register(c *gin.Context) {
	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	cfg := config.Get()
	if len(req.Password) < cfg.Security.PasswordMinLength {
		response.BadRequest(c, fmt.Sprintf("密码长度不能少于 %d 位", cfg.Security.PasswordMinLength))
		return
	}

	var invitation model.LogisticianInvitation
	if err := model.DB.Where("token = ?", req.Token).First(&invitation).Error; err != nil {
		response.BadRequest(c, "邀请无效或已过期")
		return
	}

	if check := h.checkWithRepair(&invitation); !check.Valid {
		switch check.Reason {
		case model.InviteReasonUsed:
			response.BadRequest(c, "邀请已被使用")
		case model.InviteReasonCancelled:
			response.BadRequest(c, "邀请已被取消")
		default:
			response.BadRequest(c, "邀请已过期")
		}
		return
	}

	// 邀请邮箱不允许已有账号
	var existingUser model.User
	if err := model.DB.Where("email = ?", invitation.Email).First(&existingUser).Error; err == nil {
		response.Conflict(c, "该邮箱已被注册")
		return
	}

	companyName := req.CompanyName
	if companyName == "" {
		companyName = invitation.CompanyName
	}
	if companyName == "" {
		companyName = req.Name
	}

	contacts := req.Contacts
	if len(contacts) == 0 {
		contacts = []model.Contact{{
			Name:      req.Name,
			Role:      "management",
			Email:     invitation.Email,
			Phone:     req.Phone,
			IsPrimary: true,
		}}
	}

	now := time.Now()
	user := model.User{
		Email:   invitation.Email,
		Name:    req.Name,
		Role:    "logistician",
		Portal:  "logistician",
		Company: companyName,
	}
	if err := user.SetPassword(req.Password); err != nil {
		response.ServerError(c, "密码加密失败")
		return
	}

	logistician := model.Logistician{
		IndustrialID:   invitation.IndustrialID,
		IndustrialName: invitation.IndustrialName,
		CompanyName:    companyName,
		SIRET:          req.SIRET,
		Email:          invitation.Email,
		Address:        req.Address,
		Contacts:       contacts,
		Status:         model.LogisticianStatusActive,
		AccessLevel:    invitation.AccessLevel,
		Settings:       model.DefaultLogisticianSettings(),
		InvitedBy:      invitation.InvitedBy,
		InvitedAt:      &invitation.CreatedAt,
		ActivatedAt:    &now,
	}

	err := model.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		logistician.UserID = user.ID
		if err := tx.Create(&logistician).Error; err != nil {
			return err
		}

		// 条件更新保证同一邀请只能被接受一次
		result := tx.Model(&model.LogisticianInvitation{}).
			Where("id = ? AND status = ?", invitation.ID, model.InviteStatusPending).
			Updates(map[string]interface{}{
				"status":      model.InviteStatusAccepted,
				"accepted_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errInviteTaken
		}

		// 邀请附带的订单立即授权
		for _, orderID := range invitation.OrderIDs {
			access := model.OrderAccess{
				OrderID:       orderID,
				LogisticianID: logistician.ID,
				IndustrialID:  invitation.IndustrialID,
				AccessLevel:   invitation.AccessLevel,
				GrantedBy:     invitation.InvitedBy,
				GrantedAt:     now,
			}
			if err := tx.Create(&access).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errInviteTaken) {
			response.Conflict(c, "邀请已被使用")
			return
		}
		response.ServerError(c, "注册失败")
		return
	}

	// 通知邀请方
	notifyInviteAccepted(&invitation, &logistician)

	claims := crypto.Claims{
		UserID:        user.ID,
		IndustrialID:  invitation.IndustrialID,
		LogisticianID: logistician.ID,
		Email:         user.Email,
		Role:          user.Role,
		Portal:        user.Portal,
	}
	accessToken, refreshToken, err := crypto.GenerateTokenPair(claims, cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.JWT.RefreshExpireHours)
	if err != nil {
		response.ServerError(c, "生成令牌失败")
		return
	}

	response.Created(c, gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
		"logistician": gin.H{
			"id":           logistician.ID,
			"company_name": logistician.CompanyName,
			"email":        logistician.Email,
			"status":       logistician.Status,
			"access_level": logistician.AccessLevel,
		},
		"user": gin.H{
			"id":     user.ID,
			"email":  user.Email,
			"name":   user.Name,
			"role":   user.Role,
			"portal": user.Portal,
		},
	})
}

// notifyInviteAccepted 给邀请方写入站内通知
func notifyInviteAccepted(invitation *model.LogisticianInvitation, logistician *model.Logistician) {
	notification := model.Notification{
		UserID:  invitation.IndustrialID,
		Type:    model.NotificationInviteAccepted,
		Title:   "邀请已接受",
		Content: fmt.Sprintf("%s（%s）已接受您的入驻邀请", logistician.CompanyName, logistician.Email),
	}
	model.DB.Create(&notification)
}

// industrialName 获取工业客户显示名
func (h *InvitationHandler) industrialName(industrialID string) string {
	var user model.User
	if err := model.DB.First(&user, "id = ?", industrialID).Error; err != nil {
		return ""
	}
	if user.Company != "" {
		return user.Company
	}
	return user.Name
}
