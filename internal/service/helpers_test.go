package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/devonoff/internal/cache"
	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{NowFunc: models.NowUTC})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{
		SecretKey:           "test-secret",
		AccessExpireMinutes: 60,
		RefreshExpireHours:  72,
		Issuer:              "devonoff-test",
	}
	cfg.Email.VerifyCode.Length = 6
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireLower:  true,
		RequireNumber: true,
	}
	cfg.Cleanup = config.CleanupConfig{RetentionDays: constants.DefaultCleanupDays}
	return cfg
}

// recordingStore 记录写入 TTL 的内存凭证存储
type recordingStore struct {
	*cache.MemoryCredentialStore
	mu   sync.Mutex
	ttls map[string]time.Duration
}

func newRecordingStore(clk clock.Clock) *recordingStore {
	return &recordingStore{
		MemoryCredentialStore: cache.NewMemoryCredentialStore(clk),
		ttls:                  make(map[string]time.Duration),
	}
}

func (s *recordingStore) SetData(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	s.ttls[key] = ttl
	s.mu.Unlock()
	return s.MemoryCredentialStore.SetData(ctx, key, value, ttl)
}

func (s *recordingStore) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttls[key]
}

type stubMailer struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (m *stubMailer) SendCertificationCode(email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.codes == nil {
		m.codes = make(map[string]string)
	}
	m.codes[email] = code
	return nil
}

func (m *stubMailer) lastCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type publishedEvent struct {
	routingKey string
	payload    interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{routingKey: routingKey, payload: payload})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.routingKey)
	}
	return keys
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) ObserveAuth(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[operation+":"+outcome]++
}

func (r *countingRecorder) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}

type authFixture struct {
	db        *gorm.DB
	cfg       *config.Config
	clock     *clock.Fixed
	store     *recordingStore
	mailer    *stubMailer
	publisher *recordingPublisher
	recorder  *countingRecorder
	tokens    *TokenService
	users     *repository.GormUserRepository
	students  *repository.GormStudentRepository
	signups   *repository.GormStudySignupRepository
	posts     *repository.GormStudyPostRepository
	service   *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	cfg := newTestConfig()
	clk := clock.NewFixed(time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC))
	f := &authFixture{
		db:        db,
		cfg:       cfg,
		clock:     clk,
		store:     newRecordingStore(clk),
		mailer:    &stubMailer{},
		publisher: &recordingPublisher{},
		recorder:  &countingRecorder{},
		tokens:    NewTokenService(cfg.JWT, clk),
		users:     repository.NewUserRepository(db),
		students:  repository.NewStudentRepository(db),
		signups:   repository.NewStudySignupRepository(db),
		posts:     repository.NewStudyPostRepository(db),
	}
	f.service = NewAuthService(cfg, f.users, f.students, f.signups, f.posts, f.tokens, f.store, f.mailer, clk)
	f.service.SetEventPublisher(f.publisher)
	f.service.SetRecorder(f.recorder)
	return f
}

func (f *authFixture) createAccount(t *testing.T, email, nickname, password, loginType string, active bool) *models.User {
	t.Helper()
	hash := ""
	if password != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash password failed: %v", err)
		}
		hash = string(raw)
	}
	user := &models.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: hash,
		LoginType:    loginType,
		IsActive:     active,
	}
	if err := f.users.Create(user); err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	return user
}

var errStubFailure = errors.New("stub failure")
