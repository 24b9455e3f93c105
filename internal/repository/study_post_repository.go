package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/models"

	"gorm.io/gorm"
)

// StudyPostRepository 学习帖数据访问接口
type StudyPostRepository interface {
	Create(post *models.StudyPost) error
	GetByID(id uint) (*models.StudyPost, error)
	List(filter StudyPostListFilter) ([]models.StudyPost, int64, error)
	ListByUser(userID uint) ([]models.StudyPost, error)
	ListExpiredRecruiting(deadlineBefore time.Time) ([]models.StudyPost, error)
	ListCanceledBefore(cutoff time.Time) ([]models.StudyPost, error)
	MarkCanceled(id uint, at time.Time) (bool, error)
	UpdateRecruiting(post *models.StudyPost) (bool, error)
	DeleteByIDs(ids []uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) StudyPostRepository
}

// GormStudyPostRepository GORM 实现
type GormStudyPostRepository struct {
	db *gorm.DB
}

// NewStudyPostRepository 创建学习帖仓库
func NewStudyPostRepository(db *gorm.DB) *GormStudyPostRepository {
	return &GormStudyPostRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStudyPostRepository) WithTx(tx *gorm.DB) StudyPostRepository {
	if tx == nil {
		return r
	}
	return &GormStudyPostRepository{db: tx}
}

// Transaction 执行事务
func (r *GormStudyPostRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建学习帖
func (r *GormStudyPostRepository) Create(post *models.StudyPost) error {
	post.NormalizeTimes()
	return r.db.Create(post).Error
}

// GetByID 根据 ID 获取学习帖
func (r *GormStudyPostRepository) GetByID(id uint) (*models.StudyPost, error) {
	var post models.StudyPost
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// List 按过滤条件组合查询学习帖
func (r *GormStudyPostRepository) List(filter StudyPostListFilter) ([]models.StudyPost, int64, error) {
	query := r.applyFilter(r.db.Model(&models.StudyPost{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var posts []models.StudyPost
	if err := query.Order(resolveStudyPostOrder(filter.OrderBy)).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *GormStudyPostRepository) applyFilter(query *gorm.DB, filter StudyPostListFilter) *gorm.DB {
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if subject := strings.TrimSpace(filter.Subject); subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if difficulty := strings.TrimSpace(filter.Difficulty); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if meetingType := strings.TrimSpace(filter.MeetingType); meetingType != "" {
		query = query.Where("meeting_type = ?", meetingType)
	}
	if condition, args := buildLikeCondition(r.db, filter.Search, "title", "study_name", "description"); condition != "" {
		query = query.Where(condition, args...)
	}
	// SQLite 按文本比较时间，参数须与存储值同为 UTC
	if filter.DeadlineBefore != nil {
		query = query.Where("recruitment_deadline < ?", filter.DeadlineBefore.UTC())
	}
	if filter.UpdatedBefore != nil {
		query = query.Where("updated_at < ?", filter.UpdatedBefore.UTC())
	}
	return query
}

func resolveStudyPostOrder(orderBy string) string {
	switch strings.ToLower(strings.TrimSpace(orderBy)) {
	case "deadline":
		return "recruitment_deadline ASC, id ASC"
	case "oldest":
		return "id ASC"
	default:
		return "id DESC"
	}
}

// ListByUser 获取账号发布的全部学习帖
func (r *GormStudyPostRepository) ListByUser(userID uint) ([]models.StudyPost, error) {
	posts, _, err := r.List(StudyPostListFilter{UserID: userID, OrderBy: "oldest"})
	return posts, err
}

// ListExpiredRecruiting 招募截止早于 deadlineBefore 且仍在招募的学习帖
func (r *GormStudyPostRepository) ListExpiredRecruiting(deadlineBefore time.Time) ([]models.StudyPost, error) {
	posts, _, err := r.List(StudyPostListFilter{
		Status:         constants.StudyPostStatusRecruiting,
		DeadlineBefore: &deadlineBefore,
		OrderBy:        "oldest",
	})
	return posts, err
}

// ListCanceledBefore 已取消且最后更新时间早于 cutoff 的学习帖
func (r *GormStudyPostRepository) ListCanceledBefore(cutoff time.Time) ([]models.StudyPost, error) {
	posts, _, err := r.List(StudyPostListFilter{
		Status:        constants.StudyPostStatusCanceled,
		UpdatedBefore: &cutoff,
		OrderBy:       "oldest",
	})
	return posts, err
}

// MarkCanceled 仅当仍在招募时置为取消，返回是否实际更新
func (r *GormStudyPostRepository) MarkCanceled(id uint, at time.Time) (bool, error) {
	result := r.db.Model(&models.StudyPost{}).
		Where("id = ? AND status = ?", id, constants.StudyPostStatusRecruiting).
		UpdateColumns(map[string]interface{}{
			"status":     constants.StudyPostStatusCanceled,
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateRecruiting 仅当仍在招募时更新可编辑字段，返回是否实际更新
func (r *GormStudyPostRepository) UpdateRecruiting(post *models.StudyPost) (bool, error) {
	post.NormalizeTimes()
	result := r.db.Model(&models.StudyPost{}).
		Where("id = ? AND status = ?", post.ID, constants.StudyPostStatusRecruiting).
		Updates(map[string]interface{}{
			"title":                post.Title,
			"study_name":           post.StudyName,
			"subject":              post.Subject,
			"difficulty":           post.Difficulty,
			"day_type":             post.DayType,
			"meeting_type":         post.MeetingType,
			"description":          post.Description,
			"latitude":             post.Latitude,
			"longitude":            post.Longitude,
			"max_participants":     post.MaxParticipants,
			"start_date":           post.StartDate,
			"end_date":             post.EndDate,
			"recruitment_deadline": post.RecruitmentDeadline,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByIDs 物理删除学习帖，已不存在的 ID 忽略
func (r *GormStudyPostRepository) DeleteByIDs(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", ids).Delete(&models.StudyPost{})
	return result.RowsAffected, result.Error
}
