package repository

import (
	"errors"

	"github.com/devonoff/internal/models"

	"gorm.io/gorm"
)

// StudentRepository 学习小组成员数据访问接口
type StudentRepository interface {
	Create(student *models.Student) error
	ListByUser(userID uint) ([]models.Student, error)
	ListByStudy(studyID uint) ([]models.Student, error)
	ExistsByStudyAndUser(studyID, userID uint) (bool, error)
	Delete(id uint) error
	WithTx(tx *gorm.DB) StudentRepository
}

// StudySignupRepository 报名数据访问接口
type StudySignupRepository interface {
	Create(signup *models.StudySignup) error
	GetByID(id uint) (*models.StudySignup, error)
	GetByPostAndUser(postID, userID uint) (*models.StudySignup, error)
	ListByPost(postID uint) ([]models.StudySignup, error)
	UpdateStatus(id uint, from, to string) (bool, error)
	Delete(id uint) error
	CountByUser(userID uint) (int64, error)
	DeleteByUser(userID uint) (int64, error)
	WithTx(tx *gorm.DB) StudySignupRepository
}

// GormStudentRepository GORM 实现
type GormStudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository 创建成员仓库
func NewStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStudentRepository) WithTx(tx *gorm.DB) StudentRepository {
	if tx == nil {
		return r
	}
	return &GormStudentRepository{db: tx}
}

// Create 创建成员记录
func (r *GormStudentRepository) Create(student *models.Student) error {
	return r.db.Create(student).Error
}

// ListByUser 获取账号的全部成员记录
func (r *GormStudentRepository) ListByUser(userID uint) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// ListByStudy 获取学习小组的全部成员
func (r *GormStudentRepository) ListByStudy(studyID uint) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.Where("study_id = ?", studyID).Order("id ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// ExistsByStudyAndUser 账号是否已是小组成员
func (r *GormStudentRepository) ExistsByStudyAndUser(studyID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Student{}).Where("study_id = ? AND user_id = ?", studyID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete 删除成员记录
func (r *GormStudentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Student{}, id).Error
}

// GormStudySignupRepository GORM 实现
type GormStudySignupRepository struct {
	db *gorm.DB
}

// NewStudySignupRepository 创建报名仓库
func NewStudySignupRepository(db *gorm.DB) *GormStudySignupRepository {
	return &GormStudySignupRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStudySignupRepository) WithTx(tx *gorm.DB) StudySignupRepository {
	if tx == nil {
		return r
	}
	return &GormStudySignupRepository{db: tx}
}

// Create 创建报名
func (r *GormStudySignupRepository) Create(signup *models.StudySignup) error {
	return r.db.Create(signup).Error
}

// GetByID 根据 ID 获取报名
func (r *GormStudySignupRepository) GetByID(id uint) (*models.StudySignup, error) {
	var signup models.StudySignup
	if err := r.db.First(&signup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &signup, nil
}

// GetByPostAndUser 获取账号对帖子的报名
func (r *GormStudySignupRepository) GetByPostAndUser(postID, userID uint) (*models.StudySignup, error) {
	var signup models.StudySignup
	if err := r.db.Where("study_post_id = ? AND user_id = ?", postID, userID).First(&signup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &signup, nil
}

// ListByPost 获取帖子的全部报名
func (r *GormStudySignupRepository) ListByPost(postID uint) ([]models.StudySignup, error) {
	var signups []models.StudySignup
	if err := r.db.Where("study_post_id = ?", postID).Order("id ASC").Find(&signups).Error; err != nil {
		return nil, err
	}
	return signups, nil
}

// UpdateStatus 仅当当前状态为 from 时改为 to，返回是否实际更新
func (r *GormStudySignupRepository) UpdateStatus(id uint, from, to string) (bool, error) {
	result := r.db.Model(&models.StudySignup{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除报名
func (r *GormStudySignupRepository) Delete(id uint) error {
	return r.db.Delete(&models.StudySignup{}, id).Error
}

// CountByUser 统计账号的报名数
func (r *GormStudySignupRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.StudySignup{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteByUser 删除账号的全部报名
func (r *GormStudySignupRepository) DeleteByUser(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.StudySignup{})
	return result.RowsAffected, result.Error
}
