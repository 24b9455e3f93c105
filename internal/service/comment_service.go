package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// CommentThread 评论及其回复
type CommentThread struct {
	models.StudyComment
	Replies []models.StudyReply `json:"replies"`
}

// CommentService 评论与回复服务
type CommentService struct {
	postRepo    repository.StudyPostRepository
	commentRepo repository.StudyCommentRepository
	replyRepo   repository.StudyReplyRepository
	policy      *bluemonday.Policy
}

// NewCommentService 创建评论服务
func NewCommentService(
	postRepo repository.StudyPostRepository,
	commentRepo repository.StudyCommentRepository,
	replyRepo repository.StudyReplyRepository,
) *CommentService {
	return &CommentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		replyRepo:   replyRepo,
		policy:      bluemonday.StrictPolicy(),
	}
}

// CreateComment 在招募帖下发表评论
func (s *CommentService) CreateComment(ctx context.Context, accountID, postID uint, content string, secret bool) (*models.StudyComment, error) {
	sanitized, err := s.sanitize(content)
	if err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrStudyPostNotFound
	}

	comment := &models.StudyComment{
		StudyPostID: post.ID,
		UserID:      accountID,
		Content:     sanitized,
		IsSecret:    secret,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReply 回复评论
func (s *CommentService) CreateReply(ctx context.Context, accountID, commentID uint, content string, secret bool) (*models.StudyReply, error) {
	sanitized, err := s.sanitize(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	reply := &models.StudyReply{
		CommentID: comment.ID,
		UserID:    accountID,
		Content:   sanitized,
		IsSecret:  secret,
	}
	if err := s.replyRepo.Create(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// UpdateComment 作者修改评论
func (s *CommentService) UpdateComment(ctx context.Context, accountID, commentID uint, content string, secret bool) (*models.StudyComment, error) {
	sanitized, err := s.sanitize(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.ownedComment(accountID, commentID)
	if err != nil {
		return nil, err
	}
	comment.Content = sanitized
	comment.IsSecret = secret
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment 作者删除评论，回复先于评论删除
func (s *CommentService) DeleteComment(ctx context.Context, accountID, commentID uint) error {
	comment, err := s.ownedComment(accountID, commentID)
	if err != nil {
		return err
	}
	return s.postRepo.Transaction(func(tx *gorm.DB) error {
		if _, err := s.replyRepo.WithTx(tx).DeleteByComment(comment.ID); err != nil {
			return fmt.Errorf("delete replies: %w", err)
		}
		return s.commentRepo.WithTx(tx).Delete(comment.ID)
	})
}

// UpdateReply 作者修改回复
func (s *CommentService) UpdateReply(ctx context.Context, accountID, replyID uint, content string, secret bool) (*models.StudyReply, error) {
	sanitized, err := s.sanitize(content)
	if err != nil {
		return nil, err
	}
	reply, err := s.ownedReply(accountID, replyID)
	if err != nil {
		return nil, err
	}
	reply.Content = sanitized
	reply.IsSecret = secret
	if err := s.replyRepo.Update(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteReply 作者删除回复
func (s *CommentService) DeleteReply(ctx context.Context, accountID, replyID uint) error {
	reply, err := s.ownedReply(accountID, replyID)
	if err != nil {
		return err
	}
	return s.replyRepo.Delete(reply.ID)
}

func (s *CommentService) ownedComment(accountID, commentID uint) (*models.StudyComment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != accountID {
		return nil, ErrForbidden
	}
	return comment, nil
}

func (s *CommentService) ownedReply(accountID, replyID uint) (*models.StudyReply, error) {
	reply, err := s.replyRepo.GetByID(replyID)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, ErrCommentNotFound
	}
	if reply.UserID != accountID {
		return nil, ErrForbidden
	}
	return reply, nil
}

// ListThreads 获取帖子的评论与回复
func (s *CommentService) ListThreads(ctx context.Context, postID uint) ([]CommentThread, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrStudyPostNotFound
	}
	comments, err := s.commentRepo.ListByPost(post.ID)
	if err != nil {
		return nil, err
	}
	threads := make([]CommentThread, 0, len(comments))
	for _, comment := range comments {
		replies, err := s.replyRepo.ListByComment(comment.ID)
		if err != nil {
			return nil, err
		}
		threads = append(threads, CommentThread{StudyComment: comment, Replies: replies})
	}
	return threads, nil
}

func (s *CommentService) sanitize(content string) (string, error) {
	sanitized := strings.TrimSpace(s.policy.Sanitize(content))
	if sanitized == "" {
		return "", ErrCommentContentEmpty
	}
	return sanitized, nil
}
