package model

import (
	"time"
)

// AccessLevel 访问级别，按能力从低到高排序
type AccessLevel string

const (
	AccessLevelView AccessLevel = "view" // 只读
	AccessLevelEdit AccessLevel = "edit" // 可编辑
	AccessLevelSign AccessLevel = "sign" // 可签署
	AccessLevelFull AccessLevel = "full" // 全部权限
)

// accessLevelRank 访问级别排序：view < edit < sign < full
var accessLevelRank = map[AccessLevel]int{
	AccessLevelView: 1,
	AccessLevelEdit: 2,
	AccessLevelSign: 3,
	AccessLevelFull: 4,
}

// IsValid 是否为合法的访问级别
func (l AccessLevel) IsValid() bool {
	_, ok := accessLevelRank[l]
	return ok
}

// AtLeast 是否不低于指定级别
func (l AccessLevel) AtLeast(other AccessLevel) bool {
	return accessLevelRank[l] >= accessLevelRank[other]
}

// LogisticianStatus 物流服务商状态
type LogisticianStatus string

const (
	LogisticianStatusInvited   LogisticianStatus = "invited"   // 已邀请待注册
	LogisticianStatusPending   LogisticianStatus = "pending"   // 资料待完善
	LogisticianStatusActive    LogisticianStatus = "active"    // 正常
	LogisticianStatusSuspended LogisticianStatus = "suspended" // 已停用
)

// Contact 联系人
type Contact struct {
	Name      string `json:"name"`
	Role      string `json:"role"` // reception / logistics / management
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"isPrimary"`
}

// LogisticianSettings 服务商个性化配置
type LogisticianSettings struct {
	Notifications struct {
		Email bool `json:"email"`
		SMS   bool `json:"sms"`
		Push  bool `json:"push"`
	} `json:"notifications"`
	Permissions struct {
		CanViewDocuments  bool `json:"canViewDocuments"`
		CanUploadProofs   bool `json:"canUploadProofs"`
		CanManagePlanning bool `json:"canManagePlanning"`
	} `json:"permissions"`
}

// DefaultLogisticianSettings 默认配置：开启邮件通知与文档查看
func DefaultLogisticianSettings() LogisticianSettings {
	var s LogisticianSettings
	s.Notifications.Email = true
	s.Permissions.CanViewDocuments = true
	return s
}

// Logistician 物流服务商 - 由工业客户邀请入驻的外部账号
type Logistician struct {
	BaseModel
	UserID         string              `gorm:"type:varchar(36);index" json:"user_id"`
	IndustrialID   string              `gorm:"type:varchar(36);index:idx_industrial_status;not null" json:"industrial_id"`
	IndustrialName string              `gorm:"type:varchar(200)" json:"industrial_name"`
	CompanyName    string              `gorm:"type:varchar(200);not null" json:"company_name"`
	SIRET          string              `gorm:"type:varchar(20)" json:"siret"`
	Email          string              `gorm:"type:varchar(100);index;not null" json:"email"`
	Address        string              `gorm:"type:varchar(500)" json:"address"`
	Contacts       []Contact           `gorm:"type:json;serializer:json" json:"contacts"`
	Status         LogisticianStatus   `gorm:"type:varchar(20);index:idx_industrial_status;default:invited" json:"status"`
	AccessLevel    AccessLevel         `gorm:"type:varchar(10);default:view" json:"access_level"`
	Settings       LogisticianSettings `gorm:"type:json;serializer:json" json:"settings"`

	// 邀请相关
	InvitedBy   string     `gorm:"type:varchar(36)" json:"invited_by"`
	InvitedAt   *time.Time `json:"invited_at"`
	ActivatedAt *time.Time `json:"activated_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func (Logistician) TableName() string {
	return "logisticians"
}

// IsActive 是否为正常状态
func (l *Logistician) IsActive() bool {
	return l.Status == LogisticianStatusActive
}

// PrimaryContact 获取主联系人，未标记时返回第一个
func (l *Logistician) PrimaryContact() *Contact {
	for i := range l.Contacts {
		if l.Contacts[i].IsPrimary {
			return &l.Contacts[i]
		}
	}
	if len(l.Contacts) > 0 {
		return &l.Contacts[0]
	}
	return nil
}
