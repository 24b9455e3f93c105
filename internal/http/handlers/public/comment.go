package public

import (
	"github.com/devonoff/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CommentRequest 评论与回复请求
type CommentRequest struct {
	Content  string `json:"content"`
	IsSecret bool   `json:"is_secret"`
}

// ListComments 招募帖评论（含回复）
func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	threads, err := h.CommentService.ListThreads(c.Request.Context(), postID)
	if err != nil {
		respondStudyError(c, err, commentErrorRules)
		return
	}
	response.Success(c, threads)
}

// CreateComment 发表评论
func (h *Handler) CreateComment(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	comment, err := h.CommentService.CreateComment(c.Request.Context(), accountID, postID, req.Content, req.IsSecret)
	if err != nil {
		respondStudyError(c, err, commentErrorRules)
		return
	}
	response.Success(c, comment)
}

// CreateReply 回复评论
func (h *Handler) CreateReply(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	reply, err := h.CommentService.CreateReply(c.Request.Context(), accountID, commentID, req.Content, req.IsSecret)
	if err != nil {
		respondStudyError(c, err, commentErrorRules)
		return
	}
	response.Success(c, reply)
}

// UpdateComment 作者修改评论
func (h *Handler) UpdateComment(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	comment, err := h.CommentService.UpdateComment(c.Request.Context(), accountID, commentID, req.Content, req.IsSecret)
	if err != nil {
		respondStudyError(c, err, commentErrorRules)
		return
	}
	response.Success(c, comment)
}

// DeleteComment 作者删除评论及其回复
func (h *Handler) DeleteComment(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.CommentService.DeleteComment(c.Request.Context(), accountID, commentID); err != nil {
		respondStudyError(c, err, commentErrorRules)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// UpdateReply 作者修改回复
func (h *Handler) UpdateReply(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	replyID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	reply, err := h.CommentService.UpdateReply(c.Request.Context(), accountID, replyID, req.Content, req.IsSecret)
	if err != nil {
		respondStudyError(c, err, commentErrorRules)
		return
	}
	response.Success(c, reply)
}

// DeleteReply 作者删除回复
func (h *Handler) DeleteReply(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	replyID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.CommentService.DeleteReply(c.Request.Context(), accountID, replyID); err != nil {
		respondStudyError(c, err, commentErrorRules)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
