package repository

import (
	"errors"

	"github.com/devonoff/internal/models"

	"gorm.io/gorm"
)

// StudyCommentRepository 评论数据访问接口
type StudyCommentRepository interface {
	Create(comment *models.StudyComment) error
	GetByID(id uint) (*models.StudyComment, error)
	ListByPost(postID uint) ([]models.StudyComment, error)
	Update(comment *models.StudyComment) error
	Delete(id uint) error
	DeleteByPost(postID uint) (int64, error)
	WithTx(tx *gorm.DB) StudyCommentRepository
}

// StudyReplyRepository 回复数据访问接口
type StudyReplyRepository interface {
	Create(reply *models.StudyReply) error
	GetByID(id uint) (*models.StudyReply, error)
	ListByComment(commentID uint) ([]models.StudyReply, error)
	Update(reply *models.StudyReply) error
	Delete(id uint) error
	DeleteByComment(commentID uint) (int64, error)
	WithTx(tx *gorm.DB) StudyReplyRepository
}

// GormStudyCommentRepository GORM 实现
type GormStudyCommentRepository struct {
	db *gorm.DB
}

// NewStudyCommentRepository 创建评论仓库
func NewStudyCommentRepository(db *gorm.DB) *GormStudyCommentRepository {
	return &GormStudyCommentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStudyCommentRepository) WithTx(tx *gorm.DB) StudyCommentRepository {
	if tx == nil {
		return r
	}
	return &GormStudyCommentRepository{db: tx}
}

// Create 创建评论
func (r *GormStudyCommentRepository) Create(comment *models.StudyComment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *GormStudyCommentRepository) GetByID(id uint) (*models.StudyComment, error) {
	var comment models.StudyComment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost 获取帖子的全部评论
func (r *GormStudyCommentRepository) ListByPost(postID uint) ([]models.StudyComment, error) {
	var comments []models.StudyComment
	if err := r.db.Where("study_post_id = ?", postID).Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Update 更新评论内容与公开状态
func (r *GormStudyCommentRepository) Update(comment *models.StudyComment) error {
	return r.db.Model(comment).Select("content", "is_secret", "updated_at").Updates(comment).Error
}

// Delete 删除评论
func (r *GormStudyCommentRepository) Delete(id uint) error {
	return r.db.Delete(&models.StudyComment{}, id).Error
}

// DeleteByPost 删除帖子的全部评论
func (r *GormStudyCommentRepository) DeleteByPost(postID uint) (int64, error) {
	result := r.db.Where("study_post_id = ?", postID).Delete(&models.StudyComment{})
	return result.RowsAffected, result.Error
}

// GormStudyReplyRepository GORM 实现
type GormStudyReplyRepository struct {
	db *gorm.DB
}

// NewStudyReplyRepository 创建回复仓库
func NewStudyReplyRepository(db *gorm.DB) *GormStudyReplyRepository {
	return &GormStudyReplyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStudyReplyRepository) WithTx(tx *gorm.DB) StudyReplyRepository {
	if tx == nil {
		return r
	}
	return &GormStudyReplyRepository{db: tx}
}

// Create 创建回复
func (r *GormStudyReplyRepository) Create(reply *models.StudyReply) error {
	return r.db.Create(reply).Error
}

// GetByID 根据 ID 获取回复
func (r *GormStudyReplyRepository) GetByID(id uint) (*models.StudyReply, error) {
	var reply models.StudyReply
	if err := r.db.First(&reply, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reply, nil
}

// Update 更新回复内容与公开状态
func (r *GormStudyReplyRepository) Update(reply *models.StudyReply) error {
	return r.db.Model(reply).Select("content", "is_secret", "updated_at").Updates(reply).Error
}

// Delete 删除回复
func (r *GormStudyReplyRepository) Delete(id uint) error {
	return r.db.Delete(&models.StudyReply{}, id).Error
}

// ListByComment 获取评论下的全部回复
func (r *GormStudyReplyRepository) ListByComment(commentID uint) ([]models.StudyReply, error) {
	var replies []models.StudyReply
	if err := r.db.Where("comment_id = ?", commentID).Order("id ASC").Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// DeleteByComment 删除评论下的全部回复
func (r *GormStudyReplyRepository) DeleteByComment(commentID uint) (int64, error) {
	result := r.db.Where("comment_id = ?", commentID).Delete(&models.StudyReply{})
	return result.RowsAffected, result.Error
}
