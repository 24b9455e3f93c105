package models

import (
	"strings"
	"time"

	"github.com/devonoff/internal/constants"
)

// User 账号表（注销为匿名化，不物理删除）
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                          // 主键
	Email        string    `gorm:"index;not null" json:"email"`                                   // 邮箱（注销账号共用匿名邮箱，唯一性由服务层按活跃账号校验）
	Nickname     string    `gorm:"index;not null" json:"nickname"`                                // 昵称
	PasswordHash string    `gorm:"default:''" json:"-"`                                           // 密码哈希（第三方登录账号为空）
	LoginType    string    `gorm:"type:varchar(16);not null;default:'general'" json:"login_type"` // 登录方式
	IsActive     bool      `gorm:"not null;index" json:"is_active"`                               // 是否有效
	ProfileImage string    `gorm:"default:''" json:"profile_image"`                               // 头像地址
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsGeneralLogin 是否为邮箱密码账号
func (u *User) IsGeneralLogin() bool {
	if u == nil {
		return false
	}
	loginType := strings.ToLower(strings.TrimSpace(u.LoginType))
	return loginType == "" || loginType == constants.LoginTypeGeneral
}

// Anonymize 注销时擦除个人资料
func (u *User) Anonymize() {
	u.Nickname = constants.WithdrawnNickname
	u.Email = constants.WithdrawnEmail
	u.PasswordHash = ""
	u.ProfileImage = ""
	u.IsActive = false
}
