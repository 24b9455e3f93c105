package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/repository"

	"gorm.io/gorm"
)

// 清理阶段
const (
	CleanupStageExpire  = "expire"
	CleanupStageCascade = "cascade"
	CleanupStageDelete  = "delete"
)

// CleanupFailure 单个帖子的处理失败记录
type CleanupFailure struct {
	PostID uint   `json:"post_id"`
	Stage  string `json:"stage"`
	Error  string `json:"error"`
}

// CleanupReport 一次清理运行的结果汇总
type CleanupReport struct {
	ReferenceTime   time.Time        `json:"reference_time"`
	Expired         []uint           `json:"expired"`
	ExpireFailed    []CleanupFailure `json:"expire_failed"`
	Candidates      int              `json:"candidates"`
	Deleted         []uint           `json:"deleted"`
	DeleteFailed    []CleanupFailure `json:"delete_failed"`
	DeletedComments int64            `json:"deleted_comments"`
	DeletedReplies  int64            `json:"deleted_replies"`
}

// HasFailures 是否存在失败的帖子
func (r *CleanupReport) HasFailures() bool {
	return r != nil && (len(r.ExpireFailed) > 0 || len(r.DeleteFailed) > 0)
}

// CleanupService 招募过期与已取消帖子的级联清理
type CleanupService struct {
	postRepo    repository.StudyPostRepository
	commentRepo repository.StudyCommentRepository
	replyRepo   repository.StudyReplyRepository
	clock       clock.Clock
	location    *time.Location
	retention   int
}

// NewCleanupService 创建清理服务
func NewCleanupService(
	cfg config.CleanupConfig,
	postRepo repository.StudyPostRepository,
	commentRepo repository.StudyCommentRepository,
	replyRepo repository.StudyReplyRepository,
	clk clock.Clock,
) *CleanupService {
	if clk == nil {
		clk = clock.System{}
	}
	retention := cfg.RetentionDays
	if retention <= 0 {
		retention = constants.DefaultCleanupDays
	}
	return &CleanupService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		replyRepo:   replyRepo,
		clock:       clk,
		location:    resolveLocation(cfg.Timezone),
		retention:   retention,
	}
}

func resolveLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warnw("cleanup_timezone_invalid", "timezone", name, "error", err)
		return nil
	}
	return loc
}

// Run 执行一次清理：过期招募帖置为取消，再级联删除取消超过保留期的帖子
func (s *CleanupService) Run(ctx context.Context) (*CleanupReport, error) {
	now := s.clock.Now()
	if s.location != nil {
		now = now.In(s.location)
	}
	report := &CleanupReport{ReferenceTime: now}

	if err := s.expireRecruiting(ctx, now, report); err != nil {
		return report, err
	}

	cutoff := now.AddDate(0, 0, -s.retention)
	candidates, err := s.postRepo.ListCanceledBefore(cutoff)
	if err != nil {
		return report, fmt.Errorf("list canceled posts: %w", err)
	}
	report.Candidates = len(candidates)

	cascaded := make([]uint, 0, len(candidates))
	for _, post := range candidates {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		comments, replies, err := s.cascade(post.ID)
		if err != nil {
			logger.Warnw("cleanup_cascade_failed", "post_id", post.ID, "error", err)
			report.DeleteFailed = append(report.DeleteFailed, CleanupFailure{PostID: post.ID, Stage: CleanupStageCascade, Error: err.Error()})
			continue
		}
		report.DeletedComments += comments
		report.DeletedReplies += replies
		cascaded = append(cascaded, post.ID)
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	s.deletePosts(cascaded, report)
	return report, nil
}

func (s *CleanupService) expireRecruiting(ctx context.Context, now time.Time, report *CleanupReport) error {
	expired, err := s.postRepo.ListExpiredRecruiting(clock.StartOfDay(now))
	if err != nil {
		return fmt.Errorf("list expired posts: %w", err)
	}
	for _, post := range expired {
		if err := ctx.Err(); err != nil {
			return err
		}
		updated, err := s.postRepo.MarkCanceled(post.ID, now)
		if err != nil {
			logger.Warnw("cleanup_expire_failed", "post_id", post.ID, "error", err)
			report.ExpireFailed = append(report.ExpireFailed, CleanupFailure{PostID: post.ID, Stage: CleanupStageExpire, Error: err.Error()})
			continue
		}
		if updated {
			report.Expired = append(report.Expired, post.ID)
		}
	}
	return nil
}

// cascade 先删回复再删评论，同一帖子在一个事务内完成
func (s *CleanupService) cascade(postID uint) (int64, int64, error) {
	var comments, replies int64
	err := s.postRepo.Transaction(func(tx *gorm.DB) error {
		commentRepo := s.commentRepo.WithTx(tx)
		replyRepo := s.replyRepo.WithTx(tx)

		list, err := commentRepo.ListByPost(postID)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		for _, comment := range list {
			n, err := replyRepo.DeleteByComment(comment.ID)
			if err != nil {
				return fmt.Errorf("delete replies of comment %d: %w", comment.ID, err)
			}
			replies += n
		}
		n, err := commentRepo.DeleteByPost(postID)
		if err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		comments = n
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return comments, replies, nil
}

// deletePosts 批量删除，失败时逐条重试以定位失败的帖子
func (s *CleanupService) deletePosts(ids []uint, report *CleanupReport) {
	if len(ids) == 0 {
		return
	}
	_, err := s.postRepo.DeleteByIDs(ids)
	if err == nil {
		report.Deleted = append(report.Deleted, ids...)
		return
	}
	logger.Warnw("cleanup_bulk_delete_failed", "count", len(ids), "error", err)

	for _, id := range ids {
		if _, err := s.postRepo.DeleteByIDs([]uint{id}); err != nil {
			logger.Warnw("cleanup_delete_failed", "post_id", id, "error", err)
			report.DeleteFailed = append(report.DeleteFailed, CleanupFailure{PostID: id, Stage: CleanupStageDelete, Error: err.Error()})
			continue
		}
		report.Deleted = append(report.Deleted, id)
	}
}
