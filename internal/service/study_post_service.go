package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/repository"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultStudyPostPageSize = 20
	maxStudyPostPageSize     = 100
)

var studyMeetingTypes = []interface{}{"online", "offline", "hybrid"}

// CreateStudyPostInput 发布招募帖参数
type CreateStudyPostInput struct {
	Title               string
	StudyName           string
	Subject             string
	Difficulty          string
	DayType             string
	MeetingType         string
	Description         string
	Latitude            float64
	Longitude           float64
	MaxParticipants     int
	StartDate           time.Time
	EndDate             time.Time
	RecruitmentDeadline time.Time
}

// StudyPostCanceledEvent 发帖人主动取消事件
type StudyPostCanceledEvent struct {
	PostID     uint      `json:"post_id"`
	AccountID  uint      `json:"account_id"`
	CanceledAt time.Time `json:"canceled_at"`
}

// StudyPostService 招募帖服务
type StudyPostService struct {
	postRepo  repository.StudyPostRepository
	userRepo  repository.UserRepository
	publisher EventPublisher
	clock     clock.Clock
	strict    *bluemonday.Policy
	ugc       *bluemonday.Policy
}

// NewStudyPostService 创建招募帖服务
func NewStudyPostService(postRepo repository.StudyPostRepository, userRepo repository.UserRepository, clk clock.Clock) *StudyPostService {
	if clk == nil {
		clk = clock.System{}
	}
	return &StudyPostService{
		postRepo: postRepo,
		userRepo: userRepo,
		clock:    clk,
		strict:   bluemonday.StrictPolicy(),
		ugc:      bluemonday.UGCPolicy(),
	}
}

// SetEventPublisher 设置事件发布器
func (s *StudyPostService) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// Create 发布招募帖
func (s *StudyPostService) Create(ctx context.Context, accountID uint, input CreateStudyPostInput) (*models.StudyPost, error) {
	user, err := s.userRepo.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserNotFound
	}

	if err := s.prepareInput(&input); err != nil {
		return nil, err
	}

	post := &models.StudyPost{
		UserID:              accountID,
		Title:               input.Title,
		StudyName:           input.StudyName,
		Subject:             input.Subject,
		Difficulty:          input.Difficulty,
		DayType:             input.DayType,
		MeetingType:         input.MeetingType,
		Description:         input.Description,
		Latitude:            input.Latitude,
		Longitude:           input.Longitude,
		MaxParticipants:     input.MaxParticipants,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		RecruitmentDeadline: input.RecruitmentDeadline,
		Status:              constants.StudyPostStatusRecruiting,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// prepareInput 清洗并校验招募帖字段，截止日期不得早于今天
func (s *StudyPostService) prepareInput(input *CreateStudyPostInput) error {
	input.Title = strings.TrimSpace(s.strict.Sanitize(input.Title))
	input.StudyName = strings.TrimSpace(s.strict.Sanitize(input.StudyName))
	input.Description = strings.TrimSpace(s.ugc.Sanitize(input.Description))
	input.MeetingType = strings.ToLower(strings.TrimSpace(input.MeetingType))
	input.Subject = strings.TrimSpace(input.Subject)
	input.Difficulty = strings.TrimSpace(input.Difficulty)
	input.DayType = strings.TrimSpace(input.DayType)

	today := clock.StartOfDay(s.clock.Now())
	if err := validation.ValidateStruct(input,
		validation.Field(&input.Title, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&input.StudyName, validation.Required, validation.RuneLength(1, 50)),
		validation.Field(&input.MeetingType, validation.In(studyMeetingTypes...)),
		validation.Field(&input.MaxParticipants, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&input.RecruitmentDeadline, validation.Required, validation.Min(today)),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrStudyPostInvalid, err)
	}
	if !input.EndDate.IsZero() && input.EndDate.Before(input.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrStudyPostInvalid)
	}
	return nil
}

// Update 发帖人修改招募中的帖子
func (s *StudyPostService) Update(ctx context.Context, accountID, postID uint, input CreateStudyPostInput) (*models.StudyPost, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != accountID {
		return nil, ErrForbidden
	}
	if !post.IsRecruiting() {
		return nil, ErrStudyPostNotRecruiting
	}
	if err := s.prepareInput(&input); err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.StudyName = input.StudyName
	post.Subject = input.Subject
	post.Difficulty = input.Difficulty
	post.DayType = input.DayType
	post.MeetingType = input.MeetingType
	post.Description = input.Description
	post.Latitude = input.Latitude
	post.Longitude = input.Longitude
	post.MaxParticipants = input.MaxParticipants
	post.StartDate = input.StartDate
	post.EndDate = input.EndDate
	post.RecruitmentDeadline = input.RecruitmentDeadline
	updated, err := s.postRepo.UpdateRecruiting(post)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrStudyPostNotRecruiting
	}
	return post, nil
}

// Get 获取招募帖
func (s *StudyPostService) Get(ctx context.Context, postID uint) (*models.StudyPost, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrStudyPostNotFound
	}
	return post, nil
}

// List 按组合条件分页查询招募帖
func (s *StudyPostService) List(ctx context.Context, filter repository.StudyPostListFilter) ([]models.StudyPost, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultStudyPostPageSize
	}
	if filter.PageSize > maxStudyPostPageSize {
		filter.PageSize = maxStudyPostPageSize
	}
	return s.postRepo.List(filter)
}

// Cancel 发帖人取消招募
func (s *StudyPostService) Cancel(ctx context.Context, accountID, postID uint) (*models.StudyPost, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != accountID {
		return nil, ErrForbidden
	}
	if !post.IsRecruiting() {
		return nil, ErrStudyPostNotRecruiting
	}

	now := s.clock.Now()
	updated, err := s.postRepo.MarkCanceled(post.ID, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrStudyPostNotRecruiting
	}
	post.Status = constants.StudyPostStatusCanceled
	post.UpdatedAt = now

	if s.publisher != nil {
		event := StudyPostCanceledEvent{PostID: post.ID, AccountID: accountID, CanceledAt: now}
		if err := s.publisher.Publish(ctx, constants.EventStudyPostCanceledByUser, event); err != nil {
			logger.Warnw("study_post_event_publish_failed", "post_id", post.ID, "error", err)
		}
	}
	return post, nil
}
