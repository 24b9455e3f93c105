package public

import (
	"strings"
	"time"

	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/http/response"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/service"

	"github.com/gin-gonic/gin"
)

// NicknameCheckRequest 昵称查重请求
type NicknameCheckRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

// CaptchaPayloadRequest 验证码参数
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ToServicePayload 转换为服务层载荷
func (r CaptchaPayloadRequest) ToServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:   r.CaptchaID,
		CaptchaCode: r.CaptchaCode,
	}
}

// EmailSendRequest 发送认证码请求
type EmailSendRequest struct {
	Email          string                `json:"email" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// EmailCertificationRequest 校验认证码请求
type EmailCertificationRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// SignUpRequest 注册请求
type SignUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
	Password string `json:"password"`
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// TokenReissueRequest 刷新访问令牌请求
type TokenReissueRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// NicknameCheck 昵称可用性检查
func (h *Handler) NicknameCheck(c *gin.Context) {
	var req NicknameCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthService.NicknameCheck(c.Request.Context(), req.Nickname); err != nil {
		respondAuthError(c, err, nicknameCheckErrorRules)
		return
	}
	response.Success(c, gin.H{"available": true})
}

// EmailSend 发送邮箱认证码
func (h *Handler) EmailSend(c *gin.Context) {
	var req EmailSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneEmailSend, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondAuthError(c, err, captchaErrorRules)
		return
	}
	if err := h.AuthService.EmailSend(c.Request.Context(), req.Email); err != nil {
		respondAuthError(c, err, emailSendErrorRules)
		return
	}
	response.Success(c, gin.H{"sent": true})
}

// EmailCertification 校验邮箱认证码
func (h *Handler) EmailCertification(c *gin.Context) {
	var req EmailCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthService.CertificationEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		respondAuthError(c, err, certificationErrorRules)
		return
	}
	response.Success(c, gin.H{"certificated": true})
}

// SignUp 邮箱注册
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.AuthService.SignUp(c.Request.Context(), service.SignUpInput{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err, signUpErrorRules)
		return
	}
	response.Success(c, buildAccountResponse(user))
}

// SignIn 邮箱密码登录
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadRequest)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneSignIn, req.CaptchaPayload.ToServicePayload()); err != nil {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, service.LoginFailReason(err))
		respondAuthError(c, err, captchaErrorRules)
		return
	}
	result, err := h.AuthService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, service.LoginFailReason(err))
		respondAuthError(c, err, signInErrorRules)
		return
	}
	h.recordUserLogin(c, req.Email, result.User.ID, constants.LoginLogStatusSuccess, "")
	response.Success(c, gin.H{
		"user":               buildAccountResponse(result.User),
		"access_token":       result.AccessToken,
		"access_expires_at":  result.AccessExpiresAt,
		"refresh_token":      result.RefreshToken,
		"refresh_expires_at": result.RefreshExpiresAt,
	})
}

// TokenReissue 使用刷新令牌换取新的访问令牌
func (h *Handler) TokenReissue(c *gin.Context) {
	var req TokenReissueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	token, expiresAt, err := h.AuthService.ReissueToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondAuthError(c, err, reissueErrorRules, accountErrorRules)
		return
	}
	response.Success(c, gin.H{
		"access_token":      token,
		"access_expires_at": expiresAt,
	})
}

// SignOut 登出
func (h *Handler) SignOut(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.AuthService.SignOut(c.Request.Context(), accountID); err != nil {
		respondAuthError(c, err, accountErrorRules)
		return
	}
	response.Success(c, gin.H{"signed_out": true})
}

func buildAccountResponse(user *models.User) gin.H {
	if user == nil {
		return gin.H{}
	}
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"nickname":      user.Nickname,
		"login_type":    user.LoginType,
		"profile_image": user.ProfileImage,
		"created_at":    user.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) recordUserLogin(c *gin.Context, email string, userID uint, status, failReason string) {
	if h == nil || h.LoginLogService == nil {
		return
	}
	requestID := ""
	if rid, ok := c.Get("request_id"); ok {
		if value, ok := rid.(string); ok {
			requestID = strings.TrimSpace(value)
		}
	}
	if err := h.LoginLogService.Record(service.RecordUserLoginInput{
		UserID:     userID,
		Email:      email,
		Status:     status,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		RequestID:  requestID,
	}); err != nil {
		logger.Warnw("user_login_log_record_failed", "email", email, "error", err)
	}
}
