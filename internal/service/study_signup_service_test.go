package service

import (
	"context"
	"testing"
	"time"

	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupFixture struct {
	posts    *repository.GormStudyPostRepository
	signups  *repository.GormStudySignupRepository
	students *repository.GormStudentRepository
	service  *StudySignupService
	post     *models.StudyPost
}

func newSignupFixture(t *testing.T, maxParticipants int) *signupFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	f := &signupFixture{
		posts:    repository.NewStudyPostRepository(db),
		signups:  repository.NewStudySignupRepository(db),
		students: repository.NewStudentRepository(db),
	}
	f.service = NewStudySignupService(f.posts, f.signups, f.students)

	now := clock.StartOfDay(time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC))
	f.post = &models.StudyPost{
		UserID:              1,
		Title:               "study",
		StudyName:           "group",
		MaxParticipants:     maxParticipants,
		RecruitmentDeadline: now.AddDate(0, 0, 7),
		Status:              constants.StudyPostStatusRecruiting,
	}
	require.NoError(t, f.posts.Create(f.post))
	return f
}

func TestStudySignupApply(t *testing.T) {
	f := newSignupFixture(t, 4)
	ctx := context.Background()

	signup, err := f.service.Apply(ctx, 2, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StudySignupStatusPending, signup.Status)
	assert.Equal(t, f.post.ID, signup.StudyPostID)

	_, err = f.service.Apply(ctx, 2, f.post.ID)
	assert.ErrorIs(t, err, ErrStudySignupDuplicate)
	_, err = f.service.Apply(ctx, f.post.UserID, f.post.ID)
	assert.ErrorIs(t, err, ErrStudySignupOwnPost)
	_, err = f.service.Apply(ctx, 2, 999)
	assert.ErrorIs(t, err, ErrStudyPostNotFound)

	updated, err := f.posts.MarkCanceled(f.post.ID, time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, updated)
	_, err = f.service.Apply(ctx, 3, f.post.ID)
	assert.ErrorIs(t, err, ErrStudyPostNotRecruiting)

	count, err := f.signups.CountByUser(2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestStudySignupApproveAdmitsMember(t *testing.T) {
	f := newSignupFixture(t, 4)
	ctx := context.Background()
	signup, err := f.service.Apply(ctx, 2, f.post.ID)
	require.NoError(t, err)

	_, err = f.service.Decide(ctx, 3, signup.ID, constants.StudySignupStatusApproved)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.service.Decide(ctx, f.post.UserID, signup.ID, "maybe")
	assert.ErrorIs(t, err, ErrStudySignupStatusInvalid)

	decided, err := f.service.Decide(ctx, f.post.UserID, signup.ID, " Approved ")
	require.NoError(t, err)
	assert.Equal(t, constants.StudySignupStatusApproved, decided.Status)

	students, err := f.students.ListByStudy(f.post.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.True(t, students[0].IsLeader)
	assert.Equal(t, f.post.UserID, students[0].UserID)
	assert.Equal(t, uint(2), students[1].UserID)

	_, err = f.service.Decide(ctx, f.post.UserID, signup.ID, constants.StudySignupStatusRejected)
	assert.ErrorIs(t, err, ErrStudySignupNotPending)
	_, err = f.service.Apply(ctx, 2, f.post.ID)
	assert.ErrorIs(t, err, ErrStudySignupDuplicate)

	list, err := f.service.ListByPost(ctx, f.post.UserID, f.post.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = f.service.ListByPost(ctx, 2, f.post.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestStudySignupRejectsWhenFull(t *testing.T) {
	f := newSignupFixture(t, 1)
	ctx := context.Background()
	first, err := f.service.Apply(ctx, 2, f.post.ID)
	require.NoError(t, err)
	second, err := f.service.Apply(ctx, 3, f.post.ID)
	require.NoError(t, err)

	_, err = f.service.Decide(ctx, f.post.UserID, first.ID, constants.StudySignupStatusApproved)
	require.NoError(t, err)
	_, err = f.service.Decide(ctx, f.post.UserID, second.ID, constants.StudySignupStatusApproved)
	assert.ErrorIs(t, err, ErrStudyPostFull)

	stored, err := f.signups.GetByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StudySignupStatusPending, stored.Status)

	rejected, err := f.service.Decide(ctx, f.post.UserID, second.ID, constants.StudySignupStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, constants.StudySignupStatusRejected, rejected.Status)
	students, err := f.students.ListByStudy(f.post.ID)
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestStudySignupWithdraw(t *testing.T) {
	f := newSignupFixture(t, 4)
	ctx := context.Background()
	signup, err := f.service.Apply(ctx, 2, f.post.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.Withdraw(ctx, 3, signup.ID), ErrForbidden)
	require.NoError(t, f.service.Withdraw(ctx, 2, signup.ID))
	assert.ErrorIs(t, f.service.Withdraw(ctx, 2, signup.ID), ErrStudySignupNotFound)

	again, err := f.service.Apply(ctx, 2, f.post.ID)
	require.NoError(t, err)
	_, err = f.service.Decide(ctx, f.post.UserID, again.ID, constants.StudySignupStatusRejected)
	require.NoError(t, err)
	assert.ErrorIs(t, f.service.Withdraw(ctx, 2, again.ID), ErrStudySignupNotPending)
}

func TestWithdrawalRemovesSignupsCreatedThroughApply(t *testing.T) {
	af := newAuthFixture(t)
	ctx := context.Background()
	owner := af.createAccount(t, "owner@example.com", "owner", "password1", constants.LoginTypeGeneral, true)
	member := af.createAccount(t, "member@example.com", "member", "password1", constants.LoginTypeGeneral, true)
	post := &models.StudyPost{
		UserID:              owner.ID,
		Title:               "study",
		StudyName:           "group",
		MaxParticipants:     3,
		RecruitmentDeadline: af.clock.Now().AddDate(0, 0, 7),
		Status:              constants.StudyPostStatusRecruiting,
	}
	require.NoError(t, af.posts.Create(post))

	signups := NewStudySignupService(af.posts, af.signups, af.students)
	signup, err := signups.Apply(ctx, member.ID, post.ID)
	require.NoError(t, err)
	_, err = signups.Decide(ctx, owner.ID, signup.ID, constants.StudySignupStatusApproved)
	require.NoError(t, err)

	require.NoError(t, af.service.WithdrawalUser(ctx, member.ID, "password1"))

	count, err := af.signups.CountByUser(member.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	remaining, err := af.students.ListByUser(member.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	leaders, err := af.students.ListByUser(owner.ID)
	require.NoError(t, err)
	assert.Len(t, leaders, 1)
}
