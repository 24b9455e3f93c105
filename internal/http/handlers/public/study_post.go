package public

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/devonoff/internal/http/handlers/shared"
	"github.com/devonoff/internal/http/response"
	"github.com/devonoff/internal/repository"
	"github.com/devonoff/internal/service"

	"github.com/gin-gonic/gin"
)

const studyDateLayout = "2006-01-02"

// CreateStudyPostRequest 发布招募帖请求，日期格式 2006-01-02
type CreateStudyPostRequest struct {
	Title               string  `json:"title" binding:"required"`
	StudyName           string  `json:"study_name" binding:"required"`
	Subject             string  `json:"subject"`
	Difficulty          string  `json:"difficulty"`
	DayType             string  `json:"day_type"`
	MeetingType         string  `json:"meeting_type"`
	Description         string  `json:"description"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	MaxParticipants     int     `json:"max_participants"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	RecruitmentDeadline string  `json:"recruitment_deadline" binding:"required"`
}

func (r CreateStudyPostRequest) toInput() (service.CreateStudyPostInput, bool) {
	deadline, ok := parseStudyDate(r.RecruitmentDeadline)
	if !ok || deadline.IsZero() {
		return service.CreateStudyPostInput{}, false
	}
	start, ok := parseStudyDate(r.StartDate)
	if !ok {
		return service.CreateStudyPostInput{}, false
	}
	end, ok := parseStudyDate(r.EndDate)
	if !ok {
		return service.CreateStudyPostInput{}, false
	}
	return service.CreateStudyPostInput{
		Title:               r.Title,
		StudyName:           r.StudyName,
		Subject:             r.Subject,
		Difficulty:          r.Difficulty,
		DayType:             r.DayType,
		MeetingType:         r.MeetingType,
		Description:         r.Description,
		Latitude:            r.Latitude,
		Longitude:           r.Longitude,
		MaxParticipants:     r.MaxParticipants,
		StartDate:           start,
		EndDate:             end,
		RecruitmentDeadline: deadline,
	}, true
}

// parseStudyDate 空字符串视为未填写
func parseStudyDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, true
	}
	parsed, err := time.Parse(studyDateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ListStudyPosts 招募帖列表
func (h *Handler) ListStudyPosts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	filter := repository.StudyPostListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(c.Query("status")),
		Subject:     strings.TrimSpace(c.Query("subject")),
		Difficulty:  strings.TrimSpace(c.Query("difficulty")),
		MeetingType: strings.TrimSpace(c.Query("meeting_type")),
		Search:      strings.TrimSpace(c.Query("search")),
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.invalid_id", nil)
			return
		}
		filter.UserID = uint(userID)
	}

	posts, total, err := h.StudyPostService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, posts, handlershared.BuildPagination(page, pageSize, total))
}

// GetStudyPost 招募帖详情
func (h *Handler) GetStudyPost(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := h.StudyPostService.Get(c.Request.Context(), postID)
	if err != nil {
		respondStudyError(c, err, studyPostErrorRules)
		return
	}
	response.Success(c, post)
}

// CreateStudyPost 发布招募帖
func (h *Handler) CreateStudyPost(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateStudyPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toInput()
	if !ok {
		respondError(c, response.CodeBadRequest, "error.study_post_invalid", nil)
		return
	}
	post, err := h.StudyPostService.Create(c.Request.Context(), accountID, input)
	if err != nil {
		respondStudyError(c, err, studyPostErrorRules)
		return
	}
	response.Success(c, post)
}

// CancelStudyPost 发帖人取消招募
func (h *Handler) CancelStudyPost(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := h.StudyPostService.Cancel(c.Request.Context(), accountID, postID)
	if err != nil {
		respondStudyError(c, err, studyPostErrorRules)
		return
	}
	response.Success(c, post)
}

// UpdateStudyPost 发帖人修改招募中的帖子
func (h *Handler) UpdateStudyPost(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CreateStudyPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toInput()
	if !ok {
		respondError(c, response.CodeBadRequest, "error.study_post_invalid", nil)
		return
	}
	post, err := h.StudyPostService.Update(c.Request.Context(), accountID, postID, input)
	if err != nil {
		respondStudyError(c, err, studyPostErrorRules)
		return
	}
	response.Success(c, post)
}
