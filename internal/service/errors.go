package service

import "errors"

// 通用错误
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// 账号与认证错误
var (
	ErrNicknameAlreadyRegistered     = errors.New("nickname already registered")
	ErrEmailAlreadyRegistered        = errors.New("email already registered")
	ErrEmailSendFailed               = errors.New("email send failed")
	ErrExpiredEmailCode              = errors.New("email code expired")
	ErrInvalidEmailCode              = errors.New("email code invalid")
	ErrEmailCertificationUncompleted = errors.New("email certification uncompleted")
	ErrUserNotFound                  = errors.New("user not found")
	ErrAccountPendingDeletion        = errors.New("account pending deletion")
	ErrInvalidCredentials            = errors.New("invalid credentials")
	ErrSamePassword                  = errors.New("new password equals current password")
	ErrInvalidPassword               = errors.New("invalid password")
	ErrPasswordIsNull                = errors.New("password is required")
	ErrRefreshTokenExpired           = errors.New("refresh token expired")
	ErrInvalidRefreshToken           = errors.New("refresh token invalid")
	ErrTokenInvalid                  = errors.New("token invalid")
	ErrTokenExpired                  = errors.New("token expired")
	ErrInvalidEmail                  = errors.New("invalid email")
	ErrInvalidNickname               = errors.New("invalid nickname")
	ErrWeakPassword                  = errors.New("weak password")
)

// 验证码错误
var (
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// 邮件错误
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// 学习帖与评论错误
var (
	ErrStudyPostNotFound      = errors.New("study post not found")
	ErrStudyPostInvalid       = errors.New("study post invalid")
	ErrStudyPostNotRecruiting = errors.New("study post not recruiting")
	ErrCommentNotFound        = errors.New("comment not found")
	ErrCommentContentEmpty    = errors.New("comment content empty")
	ErrStudyPostFull          = errors.New("study post full")
)

// 报名错误
var (
	ErrStudySignupNotFound      = errors.New("study signup not found")
	ErrStudySignupDuplicate     = errors.New("study signup duplicate")
	ErrStudySignupOwnPost       = errors.New("cannot sign up for own study post")
	ErrStudySignupNotPending    = errors.New("study signup not pending")
	ErrStudySignupStatusInvalid = errors.New("study signup status invalid")
)
