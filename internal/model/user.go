package model

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 登录凭证 - 各门户共用的账号记录
type User struct {
	BaseModel
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Name     string `gorm:"type:varchar(100)" json:"name"`
	Role     string `gorm:"type:varchar(20);default:user" json:"role"`     // industrial / logistician / admin / user
	Portal   string `gorm:"type:varchar(20)" json:"portal"`                // 所属门户
	Company  string `gorm:"type:varchar(200)" json:"company"`              // 公司名称（工业客户）

	// 安全相关
	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `gorm:"type:varchar(45)" json:"last_login_ip"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeEmail 邮箱归一化：去空格并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword 设置密码（加密）
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
