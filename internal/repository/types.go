package repository

import "time"

// UserListFilter 查询账号列表的过滤条件
type UserListFilter struct {
	Page       int
	PageSize   int
	Keyword    string
	LoginType  string
	ActiveOnly bool
}

// StudyPostListFilter 查询学习帖列表的过滤条件，零值字段不参与过滤
type StudyPostListFilter struct {
	Page           int
	PageSize       int
	UserID         uint
	Status         string
	Statuses       []string
	Subject        string
	Difficulty     string
	MeetingType    string
	Search         string
	DeadlineBefore *time.Time
	UpdatedBefore  *time.Time
	OrderBy        string
}
