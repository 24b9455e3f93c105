package models

import (
	"time"

	"github.com/devonoff/internal/constants"
)

// StudyPost 学习招募帖
type StudyPost struct {
	ID                  uint      `gorm:"primarykey" json:"id"`                                               // 主键
	UserID              uint      `gorm:"index;not null" json:"user_id"`                                      // 发帖账号
	Title               string    `gorm:"not null" json:"title"`                                              // 标题
	StudyName           string    `gorm:"not null" json:"study_name"`                                         // 学习小组名称
	Subject             string    `gorm:"type:varchar(32);index" json:"subject"`                              // 主题
	Difficulty          string    `gorm:"type:varchar(16)" json:"difficulty"`                                 // 难度
	DayType             string    `gorm:"type:varchar(64)" json:"day_type"`                                   // 活动日（逗号分隔）
	MeetingType         string    `gorm:"type:varchar(16);index" json:"meeting_type"`                         // 线上/线下
	Description         string    `gorm:"type:text" json:"description"`                                       // 说明
	Latitude            float64   `json:"latitude"`                                                           // 纬度
	Longitude           float64   `json:"longitude"`                                                          // 经度
	MaxParticipants     int       `gorm:"not null;default:0" json:"max_participants"`                         // 招募人数
	StartDate           time.Time `json:"start_date"`                                                         // 学习开始日期
	EndDate             time.Time `json:"end_date"`                                                           // 学习结束日期
	RecruitmentDeadline time.Time `gorm:"index;not null" json:"recruitment_deadline"`                         // 招募截止日期
	Status              string    `gorm:"type:varchar(16);index;not null;default:'recruiting'" json:"status"` // 状态
	CreatedAt           time.Time `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt           time.Time `gorm:"index" json:"updated_at"`                                            // 更新时间，取消后作为清理计时起点
}

// TableName 指定表名
func (StudyPost) TableName() string {
	return "study_posts"
}

// IsRecruiting 是否仍在招募
func (p *StudyPost) IsRecruiting() bool {
	return p != nil && p.Status == constants.StudyPostStatusRecruiting
}

// NormalizeTimes 时间字段统一转为 UTC 存储
func (p *StudyPost) NormalizeTimes() {
	if p == nil {
		return
	}
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	p.RecruitmentDeadline = p.RecruitmentDeadline.UTC()
	if !p.CreatedAt.IsZero() {
		p.CreatedAt = p.CreatedAt.UTC()
	}
	if !p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.UpdatedAt.UTC()
	}
}
