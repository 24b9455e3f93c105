package public

import (
	handlershared "github.com/devonoff/internal/http/handlers/shared"
	"github.com/devonoff/internal/http/response"
	"github.com/devonoff/internal/logger"

	"github.com/gin-gonic/gin"
)

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateProfileRequest 修改资料请求
type UpdateProfileRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

// WithdrawalRequest 注销请求，第三方登录账号可不传密码
type WithdrawalRequest struct {
	Password string `json:"password"`
}

// GetMe 获取当前账号
func (h *Handler) GetMe(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondAuthError(c, err, accountErrorRules)
		return
	}
	response.Success(c, buildAccountResponse(user))
}

// UpdateMe 修改昵称
func (h *Handler) UpdateMe(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.AuthService.UpdateProfile(c.Request.Context(), accountID, req.Nickname)
	if err != nil {
		respondAuthError(c, err, nicknameCheckErrorRules, accountErrorRules)
		return
	}
	response.Success(c, buildAccountResponse(user))
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthService.ChangePassword(c.Request.Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		respondAuthError(c, err, passwordErrorRules, accountErrorRules)
		return
	}
	response.Success(c, gin.H{"changed": true})
}

// Withdraw 注销账号
func (h *Handler) Withdraw(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	var req WithdrawalRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	if err := h.AuthService.WithdrawalUser(c.Request.Context(), accountID, req.Password); err != nil {
		respondAuthError(c, err, passwordErrorRules, accountErrorRules)
		return
	}
	// 注销后清除登录记录中的邮箱与 IP
	if _, err := h.LoginLogService.PurgeUser(accountID); err != nil {
		logger.Warnw("user_login_log_purge_failed", "user_id", accountID, "error", err)
	}
	response.Success(c, gin.H{"withdrawn": true})
}

// GetMyLoginLogs 获取当前账号的登录记录
func (h *Handler) GetMyLoginLogs(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	logs, total, err := h.LoginLogService.ListByUser(accountID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, logs, handlershared.BuildPagination(page, pageSize, total))
}
