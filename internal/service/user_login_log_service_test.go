package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/repository"
)

func TestUserLoginLogServiceRecordNormalizes(t *testing.T) {
	db := setupServiceTestDB(t)
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	svc := NewUserLoginLogService(repository.NewUserLoginLogRepository(db), clock.NewFixed(now))

	if err := svc.Record(RecordUserLoginInput{UserID: 7, Email: " Kim@Example.com ", Status: "SUCCESS", FailReason: "ignored"}); err != nil {
		t.Fatalf("record success failed: %v", err)
	}
	if err := svc.Record(RecordUserLoginInput{UserID: 7, Email: "kim@example.com", Status: "weird"}); err != nil {
		t.Fatalf("record failure failed: %v", err)
	}

	logs, total, err := svc.ListByUser(7, 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("want 2 logs got total=%d len=%d", total, len(logs))
	}
	// 倒序
	failed, success := logs[0], logs[1]
	if success.Status != constants.LoginLogStatusSuccess || success.FailReason != "" || success.Email != "kim@example.com" {
		t.Fatalf("unexpected success log: %+v", success)
	}
	if failed.Status != constants.LoginLogStatusFailed || failed.FailReason != constants.LoginLogFailReasonInternalError {
		t.Fatalf("unexpected failed log: %+v", failed)
	}
	if !success.CreatedAt.Equal(now) {
		t.Fatalf("created_at should come from clock, got %v", success.CreatedAt)
	}
}

func TestUserLoginLogServicePurgeUser(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserLoginLogService(repository.NewUserLoginLogRepository(db), nil)
	for i := 0; i < 3; i++ {
		if err := svc.Record(RecordUserLoginInput{UserID: 1, Email: fmt.Sprintf("u%d@example.com", i), Status: constants.LoginLogStatusSuccess}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	if err := svc.Record(RecordUserLoginInput{UserID: 2, Email: "other@example.com", Status: constants.LoginLogStatusSuccess}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	removed, err := svc.PurgeUser(1)
	if err != nil || removed != 3 {
		t.Fatalf("purge want 3 got %d err=%v", removed, err)
	}
	_, total, _ := svc.ListByUser(2, 1, 10)
	if total != 1 {
		t.Fatalf("other user logs should remain, got %d", total)
	}
	if removed, err := svc.PurgeUser(0); err != nil || removed != 0 {
		t.Fatalf("purge of zero id should be a no-op")
	}
}

func TestLoginFailReason(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInvalidEmail, constants.LoginLogFailReasonInvalidEmail},
		{ErrUserNotFound, constants.LoginLogFailReasonUserNotFound},
		{fmt.Errorf("wrap: %w", ErrInvalidCredentials), constants.LoginLogFailReasonInvalidCredentials},
		{ErrAccountPendingDeletion, constants.LoginLogFailReasonWithdrawn},
		{ErrCaptchaInvalid, constants.LoginLogFailReasonCaptcha},
		{errors.New("db down"), constants.LoginLogFailReasonInternalError},
	}
	for _, tc := range cases {
		if got := LoginFailReason(tc.err); got != tc.want {
			t.Fatalf("LoginFailReason(%v) want %q got %q", tc.err, tc.want, got)
		}
	}
}
