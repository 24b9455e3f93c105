package models

import "time"

// UserLoginLog 登录尝试记录，账号注销时一并清除
type UserLoginLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`                     // 主键
	UserID     uint      `gorm:"index" json:"user_id"`                     // 账号ID（账号不存在时为0）
	Email      string    `gorm:"index;not null" json:"email"`              // 尝试登录的邮箱
	Status     string    `gorm:"type:varchar(16);index;not null" json:"status"`
	FailReason string    `gorm:"type:varchar(32);index" json:"fail_reason"`
	ClientIP   string    `gorm:"type:varchar(64)" json:"client_ip"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	RequestID  string    `gorm:"type:varchar(64)" json:"request_id"` // 请求追踪ID
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (UserLoginLog) TableName() string {
	return "user_login_logs"
}
