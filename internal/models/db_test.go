package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestDialectorSelectsDriver(t *testing.T) {
	cases := []struct {
		driver string
		name   string
	}{
		{driver: "", name: "sqlite"},
		{driver: "SQLite", name: "sqlite"},
		{driver: "postgres", name: "postgres"},
		{driver: "mysql", name: "mysql"},
	}
	for _, tc := range cases {
		d, err := Dialector(tc.driver, "dsn")
		if err != nil {
			t.Fatalf("driver %q: unexpected error %v", tc.driver, err)
		}
		if d.Name() != tc.name {
			t.Fatalf("driver %q: want dialect %s got %s", tc.driver, tc.name, d.Name())
		}
	}
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := Dialector("oracle", "dsn"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestDialectorMySQLAddsParseTime(t *testing.T) {
	d, err := Dialector("mysql", "user:pass@tcp(127.0.0.1:3306)/devonoff?charset=utf8mb4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	my, ok := d.(*mysql.Dialector)
	if !ok {
		t.Fatalf("expected mysql dialector, got %T", d)
	}
	if my.DSN != "user:pass@tcp(127.0.0.1:3306)/devonoff?charset=utf8mb4&parseTime=true" {
		t.Fatalf("unexpected dsn %s", my.DSN)
	}
}

func TestUserAnonymize(t *testing.T) {
	u := &User{Email: "a@b.com", Nickname: "kim", PasswordHash: "hash", IsActive: true, LoginType: "general"}
	u.Anonymize()
	if u.Email != "deleted@email.com" || u.Nickname != "탈퇴한 회원" || u.IsActive || u.PasswordHash != "" {
		t.Fatalf("unexpected anonymized user: %+v", u)
	}
}

func TestInitDemoAccountIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:models_demo?mode=memory&cache=shared"), &gorm.Config{NowFunc: NowUTC})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	first, err := InitDemoAccount(db, " Demo@DevOnOff.dev ", "", "Passw0rd!")
	if err != nil {
		t.Fatalf("init demo account failed: %v", err)
	}
	if first.Email != "demo@devonoff.dev" || first.Nickname != "devonoff" || !first.IsGeneralLogin() {
		t.Fatalf("unexpected demo account: %+v", first)
	}
	if bcrypt.CompareHashAndPassword([]byte(first.PasswordHash), []byte("Passw0rd!")) != nil {
		t.Fatalf("password hash mismatch")
	}

	second, err := InitDemoAccount(db, "demo@devonoff.dev", "other", "another")
	if err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing account to be reused")
	}
	if _, err := InitDemoAccount(db, "", "x", "y"); err == nil {
		t.Fatalf("expected error for empty email")
	}
}
