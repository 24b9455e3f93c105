package service

import (
	"context"
	"fmt"
	"time"

	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CredentialStore 带 TTL 的键值存储，保存验证码、认证标记与刷新令牌
type CredentialStore interface {
	SetData(ctx context.Context, key, value string, ttl time.Duration) error
	GetData(ctx context.Context, key string) (string, bool, error)
	DeleteData(ctx context.Context, key string) error
}

// MailDispatcher 验证码邮件投递
type MailDispatcher interface {
	SendCertificationCode(email, code string) error
}

// EventPublisher 领域事件发布
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// AuthRecorder 认证结果指标
type AuthRecorder interface {
	ObserveAuth(operation, outcome string)
}

// SignUpInput 注册参数
type SignUpInput struct {
	Email    string
	Nickname string
	Password string
}

// SignInResult 登录结果
type SignInResult struct {
	User             *models.User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AccountWithdrawnEvent 账号注销事件
type AccountWithdrawnEvent struct {
	AccountID       uint      `json:"account_id"`
	LoginType       string    `json:"login_type"`
	CanceledPostIDs []uint    `json:"canceled_post_ids"`
	RemovedStudents int       `json:"removed_students"`
	RemovedSignups  int64     `json:"removed_signups"`
	WithdrawnAt     time.Time `json:"withdrawn_at"`
}

// AuthService 账号认证生命周期服务
type AuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	studentRepo repository.StudentRepository
	signupRepo  repository.StudySignupRepository
	postRepo    repository.StudyPostRepository
	tokens      *TokenService
	store       CredentialStore
	mailer      MailDispatcher
	publisher   EventPublisher
	recorder    AuthRecorder
	clock       clock.Clock
}

// NewAuthService 创建认证服务
func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	studentRepo repository.StudentRepository,
	signupRepo repository.StudySignupRepository,
	postRepo repository.StudyPostRepository,
	tokens *TokenService,
	store CredentialStore,
	mailer MailDispatcher,
	clk clock.Clock,
) *AuthService {
	if clk == nil {
		clk = clock.System{}
	}
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		studentRepo: studentRepo,
		signupRepo:  signupRepo,
		postRepo:    postRepo,
		tokens:      tokens,
		store:       store,
		mailer:      mailer,
		clock:       clk,
	}
}

// SetEventPublisher 设置事件发布器
func (s *AuthService) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// SetRecorder 设置指标记录器
func (s *AuthService) SetRecorder(recorder AuthRecorder) {
	s.recorder = recorder
}

// NicknameCheck 校验昵称是否可用
func (s *AuthService) NicknameCheck(ctx context.Context, nickname string) error {
	normalized, err := normalizeNickname(nickname)
	if err != nil {
		return err
	}
	return s.ensureNicknameAvailable(normalized)
}

// ensureNicknameAvailable 匿名化账号使用的昵称视为已占用
func (s *AuthService) ensureNicknameAvailable(nickname string) error {
	if isReservedNickname(nickname) {
		return ErrNicknameAlreadyRegistered
	}
	exists, err := s.userRepo.ExistsByNickname(nickname)
	if err != nil {
		return err
	}
	if exists {
		return ErrNicknameAlreadyRegistered
	}
	return nil
}

func (s *AuthService) ensureEmailAvailable(email string) error {
	if isReservedEmail(email) {
		return ErrEmailAlreadyRegistered
	}
	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyRegistered
	}
	return nil
}

// EmailSend 生成验证码并发送到邮箱，投递失败时撤回验证码
func (s *AuthService) EmailSend(ctx context.Context, email string) (err error) {
	defer func() { s.observe("email_send", err) }()

	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := s.ensureEmailAvailable(normalized); err != nil {
		return err
	}

	code, err := randomNumericCode(resolveCodeLength(s.cfg.Email.VerifyCode.Length))
	if err != nil {
		return err
	}
	key := constants.EmailCodeKey(normalized)
	if err := s.store.SetData(ctx, key, code, constants.EmailCodeTTL); err != nil {
		return fmt.Errorf("store email code: %w", err)
	}

	if s.mailer == nil {
		s.discardCode(ctx, key)
		return ErrEmailSendFailed
	}
	if sendErr := s.mailer.SendCertificationCode(normalized, code); sendErr != nil {
		logger.Warnw("auth_email_send_failed", "email", normalized, "error", sendErr)
		s.discardCode(ctx, key)
		return fmt.Errorf("%w: %w", ErrEmailSendFailed, sendErr)
	}
	return nil
}

func (s *AuthService) discardCode(ctx context.Context, key string) {
	if err := s.store.DeleteData(ctx, key); err != nil {
		logger.Warnw("auth_email_code_discard_failed", "key", key, "error", err)
	}
}

// CertificationEmail 核对验证码，成功后写入一小时有效的认证标记
func (s *AuthService) CertificationEmail(ctx context.Context, email, code string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	codeKey := constants.EmailCodeKey(normalized)
	stored, ok, err := s.store.GetData(ctx, codeKey)
	if err != nil {
		return fmt.Errorf("load email code: %w", err)
	}
	if !ok || stored == "" {
		return ErrExpiredEmailCode
	}
	if stored != code {
		return ErrInvalidEmailCode
	}

	if err := s.store.SetData(ctx, constants.CertificatedKey(normalized), constants.CertificatedValue, constants.CertificatedTTL); err != nil {
		return fmt.Errorf("store certificated flag: %w", err)
	}
	if err := s.store.DeleteData(ctx, codeKey); err != nil {
		return fmt.Errorf("delete email code: %w", err)
	}
	return nil
}

// SignUp 注册邮箱密码账号，需先完成邮箱认证
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (user *models.User, err error) {
	defer func() { s.observe("sign_up", err) }()

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	nickname, err := normalizeNickname(input.Nickname)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNicknameAvailable(nickname); err != nil {
		return nil, err
	}
	if err := s.ensureEmailAvailable(email); err != nil {
		return nil, err
	}

	certKey := constants.CertificatedKey(email)
	flag, ok, err := s.store.GetData(ctx, certKey)
	if err != nil {
		return nil, fmt.Errorf("load certificated flag: %w", err)
	}
	if !ok || flag != constants.CertificatedValue {
		return nil, ErrEmailCertificationUncompleted
	}

	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hashedPassword),
		LoginType:    constants.LoginTypeGeneral,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// 认证标记一次性使用
	if err := s.store.DeleteData(ctx, certKey); err != nil {
		logger.Warnw("auth_certificated_flag_delete_failed", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// SignIn 邮箱密码登录，签发令牌并保存刷新令牌
func (s *AuthService) SignIn(ctx context.Context, email, password string) (result *SignInResult, err error) {
	defer func() { s.observe("sign_in", err) }()

	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountPendingDeletion
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, accessExpiresAt, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiresAt, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetData(ctx, constants.RefreshTokenKey(user.Email), refreshToken, s.tokens.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &SignInResult{
		User:             user,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// SignOut 登出，删除刷新令牌
func (s *AuthService) SignOut(ctx context.Context, accountID uint) error {
	user, err := s.requireUser(accountID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteData(ctx, constants.RefreshTokenKey(user.Email)); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// ChangePassword 校验当前密码后更新为新密码
func (s *AuthService) ChangePassword(ctx context.Context, accountID uint, currentPassword, newPassword string) error {
	if newPassword == currentPassword {
		return ErrSamePassword
	}
	user, err := s.requireUser(accountID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	return s.userRepo.Update(user)
}

// ReissueToken 用刷新令牌换取新的访问令牌
func (s *AuthService) ReissueToken(ctx context.Context, refreshToken string) (token string, expiresAt time.Time, err error) {
	defer func() { s.observe("reissue", err) }()

	accountID, err := s.tokens.DecodeRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	user, err := s.requireUser(accountID)
	if err != nil {
		return "", time.Time{}, err
	}

	stored, ok, err := s.store.GetData(ctx, constants.RefreshTokenKey(user.Email))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("load refresh token: %w", err)
	}
	if !ok || stored == "" {
		return "", time.Time{}, ErrRefreshTokenExpired
	}
	if stored != refreshToken {
		return "", time.Time{}, ErrInvalidRefreshToken
	}
	return s.tokens.IssueAccessToken(user.ID)
}

// WithdrawalUser 注销账号，移除成员与报名，取消招募中的帖子并匿名化资料
func (s *AuthService) WithdrawalUser(ctx context.Context, accountID uint, password string) (err error) {
	defer func() { s.observe("withdrawal", err) }()

	user, err := s.requireUser(accountID)
	if err != nil {
		return err
	}
	// 第三方登录账号已由登录态证明身份，不校验密码
	if user.IsGeneralLogin() {
		if password == "" {
			return ErrPasswordIsNull
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return ErrInvalidPassword
		}
	}

	now := s.clock.Now()
	event := AccountWithdrawnEvent{
		AccountID:   user.ID,
		LoginType:   user.LoginType,
		WithdrawnAt: now,
	}
	refreshKey := constants.RefreshTokenKey(user.Email)

	err = s.postRepo.Transaction(func(tx *gorm.DB) error {
		students, err := s.studentRepo.WithTx(tx).ListByUser(user.ID)
		if err != nil {
			return fmt.Errorf("list students: %w", err)
		}
		for _, student := range students {
			if err := s.studentRepo.WithTx(tx).Delete(student.ID); err != nil {
				return fmt.Errorf("delete student %d: %w", student.ID, err)
			}
		}
		event.RemovedStudents = len(students)

		removed, err := s.signupRepo.WithTx(tx).DeleteByUser(user.ID)
		if err != nil {
			return fmt.Errorf("delete signups: %w", err)
		}
		event.RemovedSignups = removed

		postRepo := s.postRepo.WithTx(tx)
		posts, err := postRepo.ListByUser(user.ID)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		for _, post := range posts {
			if !post.IsRecruiting() {
				continue
			}
			updated, err := postRepo.MarkCanceled(post.ID, now)
			if err != nil {
				return fmt.Errorf("cancel post %d: %w", post.ID, err)
			}
			if updated {
				event.CanceledPostIDs = append(event.CanceledPostIDs, post.ID)
			}
		}

		if err := s.store.DeleteData(ctx, refreshKey); err != nil {
			return fmt.Errorf("delete refresh token: %w", err)
		}

		user.Anonymize()
		return s.userRepo.WithTx(tx).Update(user)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, constants.EventAccountWithdrawn, event)
	return nil
}

// GetAccount 获取账号资料
func (s *AuthService) GetAccount(ctx context.Context, accountID uint) (*models.User, error) {
	return s.requireUser(accountID)
}

// UpdateProfile 修改昵称，与当前昵称相同时不做变更
func (s *AuthService) UpdateProfile(ctx context.Context, accountID uint, nickname string) (*models.User, error) {
	normalized, err := normalizeNickname(nickname)
	if err != nil {
		return nil, err
	}
	user, err := s.requireUser(accountID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountPendingDeletion
	}
	if user.Nickname == normalized {
		return user, nil
	}
	if err := s.ensureNicknameAvailable(normalized); err != nil {
		return nil, err
	}
	user.Nickname = normalized
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) requireUser(accountID uint) (*models.User, error) {
	if accountID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, routingKey string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		logger.Warnw("auth_event_publish_failed", "routing_key", routingKey, "error", err)
	}
}

func (s *AuthService) observe(operation string, err error) {
	if s.recorder == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	s.recorder.ObserveAuth(operation, outcome)
}
