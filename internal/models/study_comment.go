package models

import "time"

// StudyComment 帖子评论
type StudyComment struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	StudyPostID uint      `gorm:"index;not null" json:"study_post_id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsSecret    bool      `gorm:"not null;default:false" json:"is_secret"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (StudyComment) TableName() string {
	return "study_comments"
}

// StudyReply 评论回复
type StudyReply struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CommentID uint      `gorm:"index;not null" json:"comment_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsSecret  bool      `gorm:"not null;default:false" json:"is_secret"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (StudyReply) TableName() string {
	return "study_replies"
}
