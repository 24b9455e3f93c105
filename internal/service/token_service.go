package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultAccessTokenTTL  = time.Hour
	defaultRefreshTokenTTL = constants.RefreshTokenTTL
)

// TokenClaims 令牌声明，sub 为账号 ID
type TokenClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService 签发与解析访问令牌和刷新令牌，不产生任何存储副作用
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clock.Clock
}

// NewTokenService 创建令牌服务
func NewTokenService(cfg config.JWTConfig, clk clock.Clock) *TokenService {
	if clk == nil {
		clk = clock.System{}
	}
	accessTTL := time.Duration(cfg.AccessExpireMinutes) * time.Minute
	if accessTTL <= 0 {
		accessTTL = defaultAccessTokenTTL
	}
	refreshTTL := time.Duration(cfg.RefreshExpireHours) * time.Hour
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTokenTTL
	}
	return &TokenService{
		secret:     []byte(cfg.SecretKey),
		issuer:     strings.TrimSpace(cfg.Issuer),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      clk,
	}
}

// AccessTTL 访问令牌有效期
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL 刷新令牌有效期
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// IssueAccessToken 签发访问令牌
func (s *TokenService) IssueAccessToken(accountID uint) (string, time.Time, error) {
	return s.issue(accountID, constants.TokenTypeAccess, s.accessTTL)
}

// IssueRefreshToken 签发刷新令牌
func (s *TokenService) IssueRefreshToken(accountID uint) (string, time.Time, error) {
	return s.issue(accountID, constants.TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) issue(accountID uint, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(ttl)
	claims := TokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// DecodeAccountID 解析任意类型令牌中的账号 ID
func (s *TokenService) DecodeAccountID(tokenString string) (uint, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}
	return subjectToAccountID(claims.Subject)
}

// DecodeAccessToken 解析访问令牌，拒绝刷新令牌
func (s *TokenService) DecodeAccessToken(tokenString string) (uint, error) {
	return s.decodeTyped(tokenString, constants.TokenTypeAccess)
}

// DecodeRefreshToken 解析刷新令牌，拒绝访问令牌
func (s *TokenService) DecodeRefreshToken(tokenString string) (uint, error) {
	return s.decodeTyped(tokenString, constants.TokenTypeRefresh)
}

func (s *TokenService) decodeTyped(tokenString, tokenType string) (uint, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.TokenType != tokenType {
		return 0, ErrTokenInvalid
	}
	return subjectToAccountID(claims.Subject)
}

func (s *TokenService) parse(tokenString string) (*TokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	claims := &TokenClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func subjectToAccountID(subject string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(subject), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}
