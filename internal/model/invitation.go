package model

import (
	"time"
)

// InviteStatus 邀请状态
type InviteStatus string

const (
	InviteStatusPending   InviteStatus = "pending"   // 待接受
	InviteStatusAccepted  InviteStatus = "accepted"  // 已接受
	InviteStatusExpired   InviteStatus = "expired"   // 已过期
	InviteStatusCancelled InviteStatus = "cancelled" // 已取消
)

// EmailStatus 邀请邮件投递状态
type EmailStatus string

const (
	EmailStatusSent    EmailStatus = "sent"    // 已发送
	EmailStatusFailed  EmailStatus = "failed"  // 发送失败
	EmailStatusSkipped EmailStatus = "skipped" // 未配置邮件服务，跳过
)

// InvitationTTL 邀请默认有效期
const InvitationTTL = 7 * 24 * time.Hour

// 邀请校验失败原因
// not_found 仅在按令牌查无记录时使用，状态机本身不会产生
const (
	InviteReasonExpired   = "expired"
	InviteReasonUsed      = "used"
	InviteReasonCancelled = "cancelled"
	InviteReasonNotFound  = "not_found"
)

// LogisticianInvitation 物流服务商邀请
type LogisticianInvitation struct {
	BaseModel
	IndustrialID   string       `gorm:"type:varchar(36);index:idx_invite_industrial;not null" json:"industrial_id"`
	IndustrialName string       `gorm:"type:varchar(200)" json:"industrial_name"`
	Email          string       `gorm:"type:varchar(100);index;not null" json:"email"`
	CompanyName    string       `gorm:"type:varchar(200)" json:"company_name"`
	AccessLevel    AccessLevel  `gorm:"type:varchar(10);default:view" json:"access_level"`
	Message        string       `gorm:"type:varchar(1000)" json:"message"`
	OrderIDs       []string     `gorm:"type:json;serializer:json" json:"order_ids"`
	Token          string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"` // 邀请令牌，仅通过邮件下发
	Status         InviteStatus `gorm:"type:varchar(20);index:idx_invite_industrial;default:pending" json:"status"`
	EmailStatus    EmailStatus  `gorm:"type:varchar(20)" json:"email_status"`
	InvitedBy      string       `gorm:"type:varchar(36)" json:"invited_by"`
	ExpiresAt      time.Time    `gorm:"not null" json:"expires_at"`
	AcceptedAt     *time.Time   `json:"accepted_at"`
	CancelledAt    *time.Time   `json:"cancelled_at"`
}

func (LogisticianInvitation) TableName() string {
	return "logistician_invitations"
}

// IsExpired 是否已过有效期
func (i *LogisticianInvitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// InviteCheckResult 邀请校验结果
type InviteCheckResult struct {
	Valid  bool
	Reason string // invalid 时的原因：used / cancelled / expired
}

// Check 按当前时间校验邀请是否可接受。
// 状态非 pending 时无论是否到期都不可接受；pending 但已到期视为过期。
func (i *LogisticianInvitation) Check(now time.Time) InviteCheckResult {
	switch i.Status {
	case InviteStatusPending:
		if i.IsExpired(now) {
			return InviteCheckResult{Valid: false, Reason: InviteReasonExpired}
		}
		return InviteCheckResult{Valid: true}
	case InviteStatusAccepted:
		return InviteCheckResult{Valid: false, Reason: InviteReasonUsed}
	case InviteStatusCancelled:
		return InviteCheckResult{Valid: false, Reason: InviteReasonCancelled}
	default:
		return InviteCheckResult{Valid: false, Reason: InviteReasonExpired}
	}
}
