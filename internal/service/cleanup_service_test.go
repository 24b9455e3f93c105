package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/repository"

	"gorm.io/gorm"
)

type cleanupFixture struct {
	db       *gorm.DB
	clock    *clock.Fixed
	posts    *repository.GormStudyPostRepository
	comments *repository.GormStudyCommentRepository
	replies  *repository.GormStudyReplyRepository
	service  *CleanupService
}

func newCleanupFixture(t *testing.T) *cleanupFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	f := &cleanupFixture{
		db:       db,
		clock:    clock.NewFixed(time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)),
		posts:    repository.NewStudyPostRepository(db),
		comments: repository.NewStudyCommentRepository(db),
		replies:  repository.NewStudyReplyRepository(db),
	}
	f.service = NewCleanupService(config.CleanupConfig{RetentionDays: 7}, f.posts, f.comments, f.replies, f.clock)
	return f
}

func (f *cleanupFixture) seedPost(t *testing.T, status string, deadline, updatedAt time.Time) *models.StudyPost {
	t.Helper()
	post := &models.StudyPost{
		UserID:              1,
		Title:               "study",
		StudyName:           "group",
		Status:              status,
		RecruitmentDeadline: deadline,
		UpdatedAt:           updatedAt,
	}
	if err := f.db.Create(post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return post
}

func (f *cleanupFixture) seedThread(t *testing.T, postID uint, comments, repliesPerComment int) {
	t.Helper()
	for i := 0; i < comments; i++ {
		comment := &models.StudyComment{StudyPostID: postID, UserID: 2, Content: "comment"}
		if err := f.comments.Create(comment); err != nil {
			t.Fatalf("create comment failed: %v", err)
		}
		for j := 0; j < repliesPerComment; j++ {
			if err := f.replies.Create(&models.StudyReply{CommentID: comment.ID, UserID: 3, Content: "reply"}); err != nil {
				t.Fatalf("create reply failed: %v", err)
			}
		}
	}
}

func (f *cleanupFixture) countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}

func TestCleanupExpiresRecruitingWithoutDeleting(t *testing.T) {
	f := newCleanupFixture(t)
	now := f.clock.Now()
	expired := f.seedPost(t, constants.StudyPostStatusRecruiting, now.AddDate(0, 0, -2), now.AddDate(0, 0, -30))
	today := f.seedPost(t, constants.StudyPostStatusRecruiting, clock.StartOfDay(now), now.AddDate(0, 0, -30))

	report, err := f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(report.Expired) != 1 || report.Expired[0] != expired.ID {
		t.Fatalf("expected post %d expired, got %v", expired.ID, report.Expired)
	}
	if len(report.Deleted) != 0 {
		t.Fatalf("expired post must not be deleted in the same run, got %v", report.Deleted)
	}

	got, _ := f.posts.GetByID(expired.ID)
	if got == nil || got.Status != constants.StudyPostStatusCanceled || !got.UpdatedAt.Equal(now) {
		t.Fatalf("expired post should be canceled at reference time, got %+v", got)
	}
	stillOpen, _ := f.posts.GetByID(today.ID)
	if stillOpen.Status != constants.StudyPostStatusRecruiting {
		t.Fatalf("post with deadline today should stay recruiting, got %s", stillOpen.Status)
	}

	// 满七天时仍保留
	f.clock.Advance(7 * 24 * time.Hour)
	report, err = f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	for _, id := range report.Deleted {
		if id == expired.ID {
			t.Fatalf("post canceled exactly seven days ago must not be deleted yet")
		}
	}

	f.clock.Advance(time.Second)
	report, err = f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("third run failed: %v", err)
	}
	got, _ = f.posts.GetByID(expired.ID)
	if got != nil {
		t.Fatalf("post should be deleted after retention window, report=%+v", report)
	}
}

func TestCleanupCascadesRepliesCommentsPosts(t *testing.T) {
	f := newCleanupFixture(t)
	now := f.clock.Now()
	old := f.seedPost(t, constants.StudyPostStatusCanceled, now.AddDate(0, 0, -20), now.AddDate(0, 0, -8))
	young := f.seedPost(t, constants.StudyPostStatusCanceled, now.AddDate(0, 0, -20), now.AddDate(0, 0, -6))
	completed := f.seedPost(t, constants.StudyPostStatusCompleted, now.AddDate(0, 0, -20), now.AddDate(0, 0, -30))
	f.seedThread(t, old.ID, 2, 2)
	f.seedThread(t, young.ID, 1, 1)
	f.seedThread(t, completed.ID, 1, 1)

	var oldCommentIDs []uint
	if err := f.db.Model(&models.StudyComment{}).Where("study_post_id = ?", old.ID).Pluck("id", &oldCommentIDs).Error; err != nil {
		t.Fatalf("pluck comments failed: %v", err)
	}

	report, err := f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if report.Candidates != 1 || len(report.Deleted) != 1 || report.Deleted[0] != old.ID {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.DeletedComments != 2 || report.DeletedReplies != 4 {
		t.Fatalf("want 2 comments 4 replies deleted, got %d %d", report.DeletedComments, report.DeletedReplies)
	}
	if report.HasFailures() {
		t.Fatalf("unexpected failures %+v", report)
	}

	if n := f.countRows(t, &models.StudyReply{}, "comment_id IN ?", oldCommentIDs); n != 0 {
		t.Fatalf("replies remaining %d", n)
	}
	if n := f.countRows(t, &models.StudyComment{}, "study_post_id = ?", old.ID); n != 0 {
		t.Fatalf("comments remaining %d", n)
	}
	if n := f.countRows(t, &models.StudyPost{}, "id = ?", old.ID); n != 0 {
		t.Fatalf("post remaining %d", n)
	}

	for _, id := range []uint{young.ID, completed.ID} {
		if n := f.countRows(t, &models.StudyPost{}, "id = ?", id); n != 1 {
			t.Fatalf("post %d should be untouched", id)
		}
		if n := f.countRows(t, &models.StudyComment{}, "study_post_id = ?", id); n != 1 {
			t.Fatalf("comments of post %d should be untouched", id)
		}
	}
	if n := f.countRows(t, &models.StudyReply{}, "1 = 1"); n != 2 {
		t.Fatalf("want 2 replies left for untouched posts, got %d", n)
	}
}

type failingCommentRepo struct {
	repository.StudyCommentRepository
	failPostID uint
}

func (r *failingCommentRepo) WithTx(tx *gorm.DB) repository.StudyCommentRepository {
	return &failingCommentRepo{StudyCommentRepository: r.StudyCommentRepository.WithTx(tx), failPostID: r.failPostID}
}

func (r *failingCommentRepo) ListByPost(postID uint) ([]models.StudyComment, error) {
	if postID == r.failPostID {
		return nil, errStubFailure
	}
	return r.StudyCommentRepository.ListByPost(postID)
}

func TestCleanupIsolatesFailingPost(t *testing.T) {
	f := newCleanupFixture(t)
	now := f.clock.Now()
	broken := f.seedPost(t, constants.StudyPostStatusCanceled, now.AddDate(0, 0, -20), now.AddDate(0, 0, -10))
	healthy := f.seedPost(t, constants.StudyPostStatusCanceled, now.AddDate(0, 0, -20), now.AddDate(0, 0, -10))
	f.seedThread(t, broken.ID, 1, 1)
	f.seedThread(t, healthy.ID, 1, 2)

	svc := NewCleanupService(config.CleanupConfig{}, f.posts, &failingCommentRepo{StudyCommentRepository: f.comments, failPostID: broken.ID}, f.replies, f.clock)
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(report.DeleteFailed) != 1 || report.DeleteFailed[0].PostID != broken.ID || report.DeleteFailed[0].Stage != CleanupStageCascade {
		t.Fatalf("unexpected failures %+v", report.DeleteFailed)
	}
	if len(report.Deleted) != 1 || report.Deleted[0] != healthy.ID {
		t.Fatalf("healthy post should be deleted, got %v", report.Deleted)
	}
	if n := f.countRows(t, &models.StudyPost{}, "id = ?", broken.ID); n != 1 {
		t.Fatalf("failing post must stay")
	}
	if n := f.countRows(t, &models.StudyComment{}, "study_post_id = ?", broken.ID); n != 1 {
		t.Fatalf("failing post comments must stay")
	}
}

type failingBulkDeleteRepo struct {
	repository.StudyPostRepository
	failID uint
}

func (r *failingBulkDeleteRepo) DeleteByIDs(ids []uint) (int64, error) {
	if len(ids) > 1 {
		return 0, errStubFailure
	}
	if len(ids) == 1 && ids[0] == r.failID {
		return 0, errStubFailure
	}
	return r.StudyPostRepository.DeleteByIDs(ids)
}

func TestCleanupFallsBackToPerPostDelete(t *testing.T) {
	f := newCleanupFixture(t)
	now := f.clock.Now()
	first := f.seedPost(t, constants.StudyPostStatusCanceled, now.AddDate(0, 0, -20), now.AddDate(0, 0, -10))
	second := f.seedPost(t, constants.StudyPostStatusCanceled, now.AddDate(0, 0, -20), now.AddDate(0, 0, -10))

	svc := NewCleanupService(config.CleanupConfig{}, &failingBulkDeleteRepo{StudyPostRepository: f.posts, failID: first.ID}, f.comments, f.replies, f.clock)
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(report.Deleted) != 1 || report.Deleted[0] != second.ID {
		t.Fatalf("want only second deleted, got %v", report.Deleted)
	}
	if len(report.DeleteFailed) != 1 || report.DeleteFailed[0].Stage != CleanupStageDelete {
		t.Fatalf("unexpected failures %+v", report.DeleteFailed)
	}
}

func TestCleanupStopsOnCanceledContext(t *testing.T) {
	f := newCleanupFixture(t)
	now := f.clock.Now()
	f.seedPost(t, constants.StudyPostStatusRecruiting, now.AddDate(0, 0, -2), now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := f.service.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled got %v", err)
	}
	if report == nil || len(report.Expired) != 0 {
		t.Fatalf("no post should be processed after cancel, got %+v", report)
	}
}

func TestCleanupUsesConfiguredTimezone(t *testing.T) {
	f := newCleanupFixture(t)
	// UTC 5/19 16:00 对应首尔 5/20 01:00
	f.clock.Set(time.Date(2024, 5, 19, 16, 0, 0, 0, time.UTC))
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	post := f.seedPost(t, constants.StudyPostStatusRecruiting, time.Date(2024, 5, 19, 12, 0, 0, 0, time.UTC), f.clock.Now())

	svc := NewCleanupService(config.CleanupConfig{Timezone: "Asia/Seoul"}, f.posts, f.comments, f.replies, f.clock)
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if report.ReferenceTime.Location().String() != seoul.String() {
		t.Fatalf("reference time should be in Asia/Seoul, got %v", report.ReferenceTime.Location())
	}
	if len(report.Expired) != 1 || report.Expired[0] != post.ID {
		t.Fatalf("deadline before Seoul midnight should expire, got %v", report.Expired)
	}
}

func newSeoulCleanupService(t *testing.T, f *cleanupFixture) *CleanupService {
	t.Helper()
	if _, err := time.LoadLocation("Asia/Seoul"); err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return NewCleanupService(config.CleanupConfig{RetentionDays: 7, Timezone: "Asia/Seoul"}, f.posts, f.comments, f.replies, f.clock)
}

func TestCleanupRetentionAcrossTimezones(t *testing.T) {
	f := newCleanupFixture(t)
	svc := newSeoulCleanupService(t, f)
	// 取消于 6 天 22 小时前，行以 UTC 存储
	canceledAt := time.Date(2024, 5, 13, 12, 0, 0, 0, time.UTC)
	post := f.seedPost(t, constants.StudyPostStatusCanceled, canceledAt.AddDate(0, 0, -3), canceledAt)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if report.Candidates != 0 || len(report.Deleted) != 0 {
		t.Fatalf("post inside retention window must stay, got %+v", report)
	}
	if n := f.countRows(t, &models.StudyPost{}, "id = ?", post.ID); n != 1 {
		t.Fatalf("post should remain, got %d rows", n)
	}

	f.clock.Set(canceledAt.AddDate(0, 0, 7).Add(time.Second))
	report, err = svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(report.Deleted) != 1 || report.Deleted[0] != post.ID {
		t.Fatalf("post past retention window should be deleted, got %+v", report)
	}
}

func TestCleanupDeadlineTodayInConfiguredZoneStaysOpen(t *testing.T) {
	f := newCleanupFixture(t)
	svc := newSeoulCleanupService(t, f)
	now := f.clock.Now()
	// 首尔 5/20 09:00，当天截止
	today := f.seedPost(t, constants.StudyPostStatusRecruiting, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), now.AddDate(0, 0, -5))
	// 首尔 5/19 23:00，前一天截止
	yesterday := f.seedPost(t, constants.StudyPostStatusRecruiting, time.Date(2024, 5, 19, 14, 0, 0, 0, time.UTC), now.AddDate(0, 0, -5))

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(report.Expired) != 1 || report.Expired[0] != yesterday.ID {
		t.Fatalf("want only post %d expired, got %v", yesterday.ID, report.Expired)
	}
	open, _ := f.posts.GetByID(today.ID)
	if open == nil || open.Status != constants.StudyPostStatusRecruiting {
		t.Fatalf("post with deadline today should stay recruiting, got %+v", open)
	}

	// 写入的取消时间与 UTC 行可比较，满七天前不进入删除
	f.clock.Advance(7 * 24 * time.Hour)
	report, err = svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	for _, id := range report.Deleted {
		if id == yesterday.ID {
			t.Fatalf("expired post deleted before retention window ended")
		}
	}
}
