package public

import (
	"errors"

	"github.com/devonoff/internal/cache"
	"github.com/devonoff/internal/http/response"
	"github.com/devonoff/internal/i18n"
	"github.com/devonoff/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	// 密码策略错误带参数，需单独格式化
	var policyErr interface {
		Key() string
		Args() []interface{}
	}
	if errors.As(err, &policyErr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), policyErr.Key(), policyErr.Args()...)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var storeErrorRules = []mappedHandlerError{
	{target: cache.ErrStoreUnavailable, code: response.CodeUnavailable, key: "error.store_unavailable"},
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
	{target: service.ErrCaptchaConfigInvalid, code: response.CodeUnavailable, key: "error.captcha_unavailable"},
}

var accountErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
	{target: service.ErrAccountPendingDeletion, code: response.CodeForbidden, key: "error.account_pending_deletion"},
}

var nicknameCheckErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidNickname, code: response.CodeBadRequest, key: "error.invalid_nickname"},
	{target: service.ErrNicknameAlreadyRegistered, code: response.CodeConflict, key: "error.nickname_already_registered"},
}

var emailSendErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.invalid_email"},
	{target: service.ErrEmailAlreadyRegistered, code: response.CodeConflict, key: "error.email_already_registered"},
	{target: service.ErrEmailRecipientRejected, code: response.CodeBadRequest, key: "error.email_recipient_rejected"},
	{target: service.ErrEmailServiceDisabled, code: response.CodeUnavailable, key: "error.email_service_disabled"},
	{target: service.ErrEmailServiceNotConfigured, code: response.CodeUnavailable, key: "error.email_service_disabled"},
	{target: service.ErrEmailSendFailed, code: response.CodeInternal, key: "error.email_send_failed"},
}

var certificationErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.invalid_email"},
	{target: service.ErrExpiredEmailCode, code: response.CodeBadRequest, key: "error.email_code_expired"},
	{target: service.ErrInvalidEmailCode, code: response.CodeBadRequest, key: "error.email_code_invalid"},
}

var signUpErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.invalid_email"},
	{target: service.ErrInvalidNickname, code: response.CodeBadRequest, key: "error.invalid_nickname"},
	{target: service.ErrEmailCertificationUncompleted, code: response.CodeBadRequest, key: "error.email_certification_uncompleted"},
	{target: service.ErrEmailAlreadyRegistered, code: response.CodeConflict, key: "error.email_already_registered"},
	{target: service.ErrNicknameAlreadyRegistered, code: response.CodeConflict, key: "error.nickname_already_registered"},
	{target: service.ErrPasswordIsNull, code: response.CodeBadRequest, key: "error.password_is_null"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, key: "error.weak_password"},
}

var signInErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrUserNotFound, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrAccountPendingDeletion, code: response.CodeForbidden, key: "error.account_pending_deletion"},
}

var passwordErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidPassword, code: response.CodeBadRequest, key: "error.invalid_password"},
	{target: service.ErrSamePassword, code: response.CodeBadRequest, key: "error.same_password"},
	{target: service.ErrPasswordIsNull, code: response.CodeBadRequest, key: "error.password_is_null"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, key: "error.weak_password"},
}

var reissueErrorRules = []mappedHandlerError{
	{target: service.ErrRefreshTokenExpired, code: response.CodeUnauthorized, key: "error.refresh_token_expired"},
	{target: service.ErrInvalidRefreshToken, code: response.CodeUnauthorized, key: "error.refresh_token_invalid"},
	{target: service.ErrTokenExpired, code: response.CodeUnauthorized, key: "error.refresh_token_expired"},
	{target: service.ErrTokenInvalid, code: response.CodeUnauthorized, key: "error.refresh_token_invalid"},
}

var studyPostErrorRules = []mappedHandlerError{
	{target: service.ErrStudyPostNotFound, code: response.CodeNotFound, key: "error.study_post_not_found"},
	{target: service.ErrStudyPostInvalid, code: response.CodeBadRequest, key: "error.study_post_invalid"},
	{target: service.ErrStudyPostNotRecruiting, code: response.CodeConflict, key: "error.study_post_not_recruiting"},
	{target: service.ErrForbidden, code: response.CodeForbidden, key: "error.forbidden"},
}

var commentErrorRules = []mappedHandlerError{
	{target: service.ErrStudyPostNotFound, code: response.CodeNotFound, key: "error.study_post_not_found"},
	{target: service.ErrCommentNotFound, code: response.CodeNotFound, key: "error.comment_not_found"},
	{target: service.ErrCommentContentEmpty, code: response.CodeBadRequest, key: "error.comment_content_empty"},
	{target: service.ErrForbidden, code: response.CodeForbidden, key: "error.forbidden"},
}

var studySignupErrorRules = []mappedHandlerError{
	{target: service.ErrStudyPostNotFound, code: response.CodeNotFound, key: "error.study_post_not_found"},
	{target: service.ErrStudyPostNotRecruiting, code: response.CodeConflict, key: "error.study_post_not_recruiting"},
	{target: service.ErrStudyPostFull, code: response.CodeConflict, key: "error.study_post_full"},
	{target: service.ErrStudySignupNotFound, code: response.CodeNotFound, key: "error.study_signup_not_found"},
	{target: service.ErrStudySignupDuplicate, code: response.CodeConflict, key: "error.study_signup_duplicate"},
	{target: service.ErrStudySignupOwnPost, code: response.CodeBadRequest, key: "error.study_signup_own_post"},
	{target: service.ErrStudySignupNotPending, code: response.CodeConflict, key: "error.study_signup_not_pending"},
	{target: service.ErrStudySignupStatusInvalid, code: response.CodeBadRequest, key: "error.study_signup_status_invalid"},
	{target: service.ErrForbidden, code: response.CodeForbidden, key: "error.forbidden"},
}

func respondAuthError(c *gin.Context, err error, rules ...[]mappedHandlerError) {
	groups := append([][]mappedHandlerError{storeErrorRules}, rules...)
	respondWithMappedError(c, err, concatMappedHandlerErrors(groups...), response.CodeInternal, "error.internal_error")
}

func respondStudyError(c *gin.Context, err error, rules []mappedHandlerError) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(rules, accountErrorRules), response.CodeInternal, "error.internal_error")
}
