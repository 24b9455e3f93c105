package repository

import (
	"github.com/devonoff/internal/models"

	"gorm.io/gorm"
)

// UserLoginLogRepository 登录记录数据访问接口
type UserLoginLogRepository interface {
	Create(log *models.UserLoginLog) error
	ListByUser(userID uint, page, pageSize int) ([]models.UserLoginLog, int64, error)
	DeleteByUser(userID uint) (int64, error)
	WithTx(tx *gorm.DB) UserLoginLogRepository
}

// GormUserLoginLogRepository GORM 实现
type GormUserLoginLogRepository struct {
	db *gorm.DB
}

// NewUserLoginLogRepository 创建登录记录仓库
func NewUserLoginLogRepository(db *gorm.DB) *GormUserLoginLogRepository {
	return &GormUserLoginLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserLoginLogRepository) WithTx(tx *gorm.DB) UserLoginLogRepository {
	if tx == nil {
		return r
	}
	return &GormUserLoginLogRepository{db: tx}
}

// Create 写入登录记录
func (r *GormUserLoginLogRepository) Create(log *models.UserLoginLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// ListByUser 按时间倒序分页查询账号的登录记录
func (r *GormUserLoginLogRepository) ListByUser(userID uint, page, pageSize int) ([]models.UserLoginLog, int64, error) {
	query := r.db.Model(&models.UserLoginLog{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)

	var logs []models.UserLoginLog
	if err := query.Order("id desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// DeleteByUser 删除账号的全部登录记录
func (r *GormUserLoginLogRepository) DeleteByUser(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.UserLoginLog{})
	return result.RowsAffected, result.Error
}
