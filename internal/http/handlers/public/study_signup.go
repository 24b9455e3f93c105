package public

import (
	"github.com/devonoff/internal/http/response"

	"github.com/gin-gonic/gin"
)

// DecideStudySignupRequest 报名审核请求，status 为 approved 或 rejected
type DecideStudySignupRequest struct {
	Status string `json:"status" binding:"required"`
}

// ApplyStudySignup 报名学习
func (h *Handler) ApplyStudySignup(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	signup, err := h.SignupService.Apply(c.Request.Context(), accountID, postID)
	if err != nil {
		respondStudyError(c, err, studySignupErrorRules)
		return
	}
	response.Success(c, signup)
}

// ListStudySignups 发帖人查看报名
func (h *Handler) ListStudySignups(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	signups, err := h.SignupService.ListByPost(c.Request.Context(), accountID, postID)
	if err != nil {
		respondStudyError(c, err, studySignupErrorRules)
		return
	}
	response.Success(c, signups)
}

// DecideStudySignup 发帖人审核报名
func (h *Handler) DecideStudySignup(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	signupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req DecideStudySignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	signup, err := h.SignupService.Decide(c.Request.Context(), accountID, signupID, req.Status)
	if err != nil {
		respondStudyError(c, err, studySignupErrorRules)
		return
	}
	response.Success(c, signup)
}

// WithdrawStudySignup 申请人撤回报名
func (h *Handler) WithdrawStudySignup(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	signupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.SignupService.Withdraw(c.Request.Context(), accountID, signupID); err != nil {
		respondStudyError(c, err, studySignupErrorRules)
		return
	}
	response.Success(c, gin.H{"withdrawn": true})
}
