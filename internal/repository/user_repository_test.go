package repository

import (
	"testing"

	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/models"
)

func TestUserRepositoryExistsIgnoresWithdrawn(t *testing.T) {
	db := setupStudyRepositoryTest(t)
	repo := NewUserRepository(db)

	withdrawn := models.User{
		Email:     constants.WithdrawnEmail,
		Nickname:  constants.WithdrawnNickname,
		LoginType: constants.LoginTypeGeneral,
		IsActive:  false,
	}
	active := models.User{
		Email:     "kim@example.com",
		Nickname:  "kim",
		LoginType: constants.LoginTypeGeneral,
		IsActive:  true,
	}
	if err := repo.Create(&withdrawn); err != nil {
		t.Fatalf("create withdrawn failed: %v", err)
	}
	if err := repo.Create(&active); err != nil {
		t.Fatalf("create active failed: %v", err)
	}

	exists, err := repo.ExistsByNickname(constants.WithdrawnNickname)
	if err != nil {
		t.Fatalf("exists nickname failed: %v", err)
	}
	if exists {
		t.Fatalf("withdrawn nickname must not count as taken")
	}
	exists, err = repo.ExistsByEmail("kim@example.com")
	if err != nil || !exists {
		t.Fatalf("active email should exist, got %v err=%v", exists, err)
	}

	found, err := repo.GetByEmail("kim@example.com")
	if err != nil || found == nil || found.ID != active.ID {
		t.Fatalf("get by email want %d got %+v err=%v", active.ID, found, err)
	}
	missing, err := repo.GetByEmail("nobody@example.com")
	if err != nil || missing != nil {
		t.Fatalf("missing email should return nil, got %+v err=%v", missing, err)
	}
}

func TestUserRepositoryList(t *testing.T) {
	db := setupStudyRepositoryTest(t)
	repo := NewUserRepository(db)
	users := []models.User{
		{Email: "a@example.com", Nickname: "alpha", LoginType: constants.LoginTypeGeneral, IsActive: true},
		{Email: "b@example.com", Nickname: "beta", LoginType: constants.LoginTypeKakao, IsActive: true},
		{Email: constants.WithdrawnEmail, Nickname: constants.WithdrawnNickname, LoginType: constants.LoginTypeGeneral, IsActive: false},
	}
	for i := range users {
		if err := repo.Create(&users[i]); err != nil {
			t.Fatalf("create user failed: %v", err)
		}
	}

	list, total, err := repo.List(UserListFilter{ActiveOnly: true, LoginType: "KAKAO"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Nickname != "beta" {
		t.Fatalf("unexpected list total=%d list=%+v", total, list)
	}
}

func TestStudentAndSignupRepositories(t *testing.T) {
	db := setupStudyRepositoryTest(t)
	students := NewStudentRepository(db)
	signups := NewStudySignupRepository(db)

	for _, s := range []models.Student{{StudyID: 1, UserID: 5}, {StudyID: 2, UserID: 5}, {StudyID: 2, UserID: 6}} {
		s := s
		if err := students.Create(&s); err != nil {
			t.Fatalf("create student failed: %v", err)
		}
	}
	for _, s := range []models.StudySignup{{StudyPostID: 1, UserID: 5}, {StudyPostID: 3, UserID: 6}} {
		s := s
		if err := signups.Create(&s); err != nil {
			t.Fatalf("create signup failed: %v", err)
		}
	}

	list, err := students.ListByUser(5)
	if err != nil || len(list) != 2 {
		t.Fatalf("students by user want 2 got %d err=%v", len(list), err)
	}
	if err := students.Delete(list[0].ID); err != nil {
		t.Fatalf("delete student failed: %v", err)
	}
	list, _ = students.ListByUser(5)
	if len(list) != 1 {
		t.Fatalf("students after delete want 1 got %d", len(list))
	}

	deleted, err := signups.DeleteByUser(5)
	if err != nil || deleted != 1 {
		t.Fatalf("delete signups want 1 got %d err=%v", deleted, err)
	}
	count, _ := signups.CountByUser(6)
	if count != 1 {
		t.Fatalf("other user's signup must remain, got %d", count)
	}
}
