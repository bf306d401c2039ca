package model

import (
	"time"
)

// OrderAccess 订单访问授权 - 记录服务商对某订单的访问权
// (order_id, logistician_id) 唯一，撤销为软标记，不做物理删除
type OrderAccess struct {
	BaseModel
	OrderID       string      `gorm:"type:varchar(64);uniqueIndex:idx_order_logistician;not null" json:"order_id"`
	LogisticianID string      `gorm:"type:varchar(36);uniqueIndex:idx_order_logistician;index;not null" json:"logistician_id"`
	IndustrialID  string      `gorm:"type:varchar(36);index;not null" json:"industrial_id"`
	AccessLevel   AccessLevel `gorm:"type:varchar(10);default:view" json:"access_level"`
	GrantedBy     string      `gorm:"type:varchar(36)" json:"granted_by"`
	GrantedAt     time.Time   `gorm:"autoCreateTime" json:"granted_at"`
	ExpiresAt     *time.Time  `json:"expires_at"`

	// 撤销信息
	Revoked      bool       `gorm:"default:false" json:"revoked"`
	RevokedAt    *time.Time `json:"revoked_at"`
	RevokedBy    string     `gorm:"type:varchar(36)" json:"revoked_by"`
	RevokeReason string     `gorm:"type:varchar(500)" json:"revoke_reason"`
}

func (OrderAccess) TableName() string {
	return "order_accesses"
}

// IsActive 授权是否仍然有效
func (a *OrderAccess) IsActive(now time.Time) bool {
	if a.Revoked {
		return false
	}
	if a.ExpiresAt != nil && !now.Before(*a.ExpiresAt) {
		return false
	}
	return true
}
