package repository

import (
	"errors"
	"strings"

	"github.com/devonoff/internal/models"

	"gorm.io/gorm"
)

// UserRepository 账号数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByNickname(nickname string) (bool, error)
	Create(user *models.User) error
	Update(user *models.User) error
	List(filter UserListFilter) ([]models.User, int64, error)
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建账号仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByEmail 根据邮箱获取有效账号
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	// 注销账号共用匿名邮箱，优先返回有效账号
	err := r.db.Where("email = ?", email).Order("is_active DESC").Order("id DESC").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取账号
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail 有效账号中邮箱是否已占用
func (r *GormUserRepository) ExistsByEmail(email string) (bool, error) {
	return r.existsActive("email = ?", email)
}

// ExistsByNickname 有效账号中昵称是否已占用
func (r *GormUserRepository) ExistsByNickname(nickname string) (bool, error) {
	return r.existsActive("nickname = ?", nickname)
}

func (r *GormUserRepository) existsActive(condition string, value string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where(condition, value).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建账号
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新账号
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// List 账号列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if condition, args := buildLikeCondition(r.db, filter.Keyword, "email", "nickname"); condition != "" {
		query = query.Where(condition, args...)
	}
	if loginType := strings.TrimSpace(filter.LoginType); loginType != "" {
		query = query.Where("login_type = ?", strings.ToLower(loginType))
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var users []models.User
	if err := query.Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
