package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/repository"

	"gorm.io/gorm"
)

// StudySignupService 学习报名与成员管理
type StudySignupService struct {
	postRepo    repository.StudyPostRepository
	signupRepo  repository.StudySignupRepository
	studentRepo repository.StudentRepository
}

// NewStudySignupService 创建报名服务
func NewStudySignupService(
	postRepo repository.StudyPostRepository,
	signupRepo repository.StudySignupRepository,
	studentRepo repository.StudentRepository,
) *StudySignupService {
	return &StudySignupService{
		postRepo:    postRepo,
		signupRepo:  signupRepo,
		studentRepo: studentRepo,
	}
}

// Apply 报名招募中的学习，发帖人不能报名自己的帖子
func (s *StudySignupService) Apply(ctx context.Context, accountID, postID uint) (*models.StudySignup, error) {
	post, err := s.requirePost(postID)
	if err != nil {
		return nil, err
	}
	if !post.IsRecruiting() {
		return nil, ErrStudyPostNotRecruiting
	}
	if post.UserID == accountID {
		return nil, ErrStudySignupOwnPost
	}

	existing, err := s.signupRepo.GetByPostAndUser(post.ID, accountID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStudySignupDuplicate
	}
	member, err := s.studentRepo.ExistsByStudyAndUser(post.ID, accountID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrStudySignupDuplicate
	}

	signup := &models.StudySignup{
		StudyPostID: post.ID,
		UserID:      accountID,
		Status:      constants.StudySignupStatusPending,
	}
	if err := s.signupRepo.Create(signup); err != nil {
		return nil, err
	}
	return signup, nil
}

// ListByPost 发帖人查看报名列表
func (s *StudySignupService) ListByPost(ctx context.Context, accountID, postID uint) ([]models.StudySignup, error) {
	post, err := s.requirePost(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != accountID {
		return nil, ErrForbidden
	}
	return s.signupRepo.ListByPost(post.ID)
}

// Decide 发帖人通过或拒绝报名，通过时申请人加入小组
func (s *StudySignupService) Decide(ctx context.Context, accountID, signupID uint, status string) (*models.StudySignup, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.StudySignupStatusApproved && status != constants.StudySignupStatusRejected {
		return nil, ErrStudySignupStatusInvalid
	}
	signup, err := s.requireSignup(signupID)
	if err != nil {
		return nil, err
	}
	post, err := s.requirePost(signup.StudyPostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != accountID {
		return nil, ErrForbidden
	}
	if signup.Status != constants.StudySignupStatusPending {
		return nil, ErrStudySignupNotPending
	}

	err = s.postRepo.Transaction(func(tx *gorm.DB) error {
		studentRepo := s.studentRepo.WithTx(tx)
		if status == constants.StudySignupStatusApproved {
			if err := s.admit(studentRepo, post, signup.UserID); err != nil {
				return err
			}
		}
		updated, err := s.signupRepo.WithTx(tx).UpdateStatus(signup.ID, constants.StudySignupStatusPending, status)
		if err != nil {
			return fmt.Errorf("update signup status: %w", err)
		}
		if !updated {
			return ErrStudySignupNotPending
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	signup.Status = status
	logger.Infow("study_signup_decided", "signup_id", signup.ID, "post_id", post.ID, "status", status)
	return signup, nil
}

// admit 首次通过时补建发帖人的组长记录，成员数不超过招募人数
func (s *StudySignupService) admit(studentRepo repository.StudentRepository, post *models.StudyPost, userID uint) error {
	students, err := studentRepo.ListByStudy(post.ID)
	if err != nil {
		return fmt.Errorf("list students: %w", err)
	}
	hasLeader := false
	members := 0
	for _, student := range students {
		if student.IsLeader {
			hasLeader = true
			continue
		}
		members++
	}
	if post.MaxParticipants > 0 && members >= post.MaxParticipants {
		return ErrStudyPostFull
	}
	if !hasLeader {
		if err := studentRepo.Create(&models.Student{StudyID: post.ID, UserID: post.UserID, IsLeader: true}); err != nil {
			return fmt.Errorf("create leader: %w", err)
		}
	}
	if err := studentRepo.Create(&models.Student{StudyID: post.ID, UserID: userID}); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Withdraw 申请人撤回待处理的报名
func (s *StudySignupService) Withdraw(ctx context.Context, accountID, signupID uint) error {
	signup, err := s.requireSignup(signupID)
	if err != nil {
		return err
	}
	if signup.UserID != accountID {
		return ErrForbidden
	}
	if signup.Status != constants.StudySignupStatusPending {
		return ErrStudySignupNotPending
	}
	return s.signupRepo.Delete(signup.ID)
}

func (s *StudySignupService) requirePost(postID uint) (*models.StudyPost, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrStudyPostNotFound
	}
	return post, nil
}

func (s *StudySignupService) requireSignup(signupID uint) (*models.StudySignup, error) {
	signup, err := s.signupRepo.GetByID(signupID)
	if err != nil {
		return nil, err
	}
	if signup == nil {
		return nil, ErrStudySignupNotFound
	}
	return signup, nil
}
