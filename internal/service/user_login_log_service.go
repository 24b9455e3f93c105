package service

import (
	"errors"
	"strings"

	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/repository"
)

// UserLoginLogService 登录记录服务
type UserLoginLogService struct {
	repo  repository.UserLoginLogRepository
	clock clock.Clock
}

// NewUserLoginLogService 创建登录记录服务
func NewUserLoginLogService(repo repository.UserLoginLogRepository, clk clock.Clock) *UserLoginLogService {
	if clk == nil {
		clk = clock.System{}
	}
	return &UserLoginLogService{repo: repo, clock: clk}
}

// RecordUserLoginInput 登录记录输入
type RecordUserLoginInput struct {
	UserID     uint
	Email      string
	Status     string
	FailReason string
	ClientIP   string
	UserAgent  string
	RequestID  string
}

// Record 记录一次登录尝试
func (s *UserLoginLogService) Record(input RecordUserLoginInput) error {
	if s == nil || s.repo == nil {
		return nil
	}

	email := strings.TrimSpace(input.Email)
	if normalized, err := NormalizeEmail(email); err == nil {
		email = normalized
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status != constants.LoginLogStatusSuccess {
		status = constants.LoginLogStatusFailed
	}

	failReason := strings.ToLower(strings.TrimSpace(input.FailReason))
	if status == constants.LoginLogStatusSuccess {
		failReason = ""
	} else if failReason == "" {
		failReason = constants.LoginLogFailReasonInternalError
	}

	return s.repo.Create(&models.UserLoginLog{
		UserID:     input.UserID,
		Email:      email,
		Status:     status,
		FailReason: failReason,
		ClientIP:   strings.TrimSpace(input.ClientIP),
		UserAgent:  strings.TrimSpace(input.UserAgent),
		RequestID:  strings.TrimSpace(input.RequestID),
		CreatedAt:  s.clock.Now(),
	})
}

// ListByUser 查询账号自己的登录记录
func (s *UserLoginLogService) ListByUser(userID uint, page, pageSize int) ([]models.UserLoginLog, int64, error) {
	if s == nil || s.repo == nil || userID == 0 {
		return []models.UserLoginLog{}, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.repo.ListByUser(userID, page, pageSize)
}

// PurgeUser 清除账号的登录记录
func (s *UserLoginLogService) PurgeUser(userID uint) (int64, error) {
	if s == nil || s.repo == nil || userID == 0 {
		return 0, nil
	}
	return s.repo.DeleteByUser(userID)
}

// LoginFailReason 将登录错误映射为记录用的失败原因
func LoginFailReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidEmail):
		return constants.LoginLogFailReasonInvalidEmail
	case errors.Is(err, ErrUserNotFound):
		return constants.LoginLogFailReasonUserNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return constants.LoginLogFailReasonInvalidCredentials
	case errors.Is(err, ErrAccountPendingDeletion):
		return constants.LoginLogFailReasonWithdrawn
	case errors.Is(err, ErrCaptchaRequired), errors.Is(err, ErrCaptchaInvalid):
		return constants.LoginLogFailReasonCaptcha
	default:
		return constants.LoginLogFailReasonInternalError
	}
}
