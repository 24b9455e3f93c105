package models

import "time"

// Student 学习小组成员
type Student struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	StudyID   uint      `gorm:"index;not null" json:"study_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	IsLeader  bool      `gorm:"not null;default:false" json:"is_leader"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Student) TableName() string {
	return "students"
}

// StudySignup 学习报名申请
type StudySignup struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	StudyPostID uint      `gorm:"index;not null" json:"study_post_id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Status      string    `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (StudySignup) TableName() string {
	return "study_signups"
}
