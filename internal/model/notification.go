package model

// Notification 通知模型
type Notification struct {
	BaseModel
	UserID  string `gorm:"type:varchar(36);index" json:"user_id"`
	Type    string `gorm:"type:varchar(50);not null" json:"type"`
	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`
}

func (Notification) TableName() string {
	return "notifications"
}

// 通知类型常量
const (
	NotificationInviteAccepted = "invite_accepted" // 邀请已接受
	NotificationOrderShared    = "order_shared"    // 订单已共享
	NotificationAccessRevoked  = "access_revoked"  // 访问已撤销
)
