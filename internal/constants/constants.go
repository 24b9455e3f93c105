package constants

import "time"

// 学习帖子状态常量
const (
	StudyPostStatusRecruiting = "recruiting"
	StudyPostStatusClosed     = "closed"
	StudyPostStatusCanceled   = "canceled"
	StudyPostStatusCompleted  = "completed"
)

// 学习报名状态常量
const (
	StudySignupStatusPending  = "pending"
	StudySignupStatusApproved = "approved"
	StudySignupStatusRejected = "rejected"
)

// 账号登录方式常量
const (
	LoginTypeGeneral = "general"
	LoginTypeKakao   = "kakao"
	LoginTypeNaver   = "naver"
	LoginTypeGoogle  = "google"
)

// 注销后的匿名化资料
const (
	WithdrawnNickname = "탈퇴한 회원"
	WithdrawnEmail    = "deleted@email.com"
)

// 凭证存储键后缀
const (
	CertificatedKeySuffix = ":certificated"
	RefreshTokenKeySuffix = "-refreshToken"
	CertificatedValue     = "true"
)

// 凭证存储 TTL
const (
	EmailCodeTTL       = 3 * time.Minute
	CertificatedTTL    = time.Hour
	RefreshTokenTTL    = 72 * time.Hour
	DefaultCleanupDays = 7
)

// Token 类型
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// 异步任务类型
const (
	TaskStudyPostCleanup = "study_post:cleanup"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 领域事件路由键
const (
	EventAccountWithdrawn        = "account.withdrawn"
	EventStudyPostCleanupDone    = "study_post.cleanup_completed"
	EventStudyPostCanceledByUser = "study_post.canceled"
)

// 登录记录状态
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录失败原因
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonInvalidEmail       = "invalid_email"
	LoginLogFailReasonUserNotFound       = "user_not_found"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonWithdrawn          = "withdrawn"
	LoginLogFailReasonInternalError      = "internal_error"
	LoginLogFailReasonCaptcha            = "captcha_failed"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码场景
const (
	CaptchaSceneSignIn    = "sign_in"
	CaptchaSceneEmailSend = "email_send"
)

// EmailCodeKey 邮箱验证码存储键
func EmailCodeKey(email string) string {
	return email
}

// CertificatedKey 邮箱认证完成标记键
func CertificatedKey(email string) string {
	return email + CertificatedKeySuffix
}

// RefreshTokenKey 刷新令牌存储键
func RefreshTokenKey(email string) string {
	return email + RefreshTokenKeySuffix
}
