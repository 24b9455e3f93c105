package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/devonoff/internal/constants"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	nicknameMinLength = 2
	nicknameMaxLength = 20
	defaultCodeLength = 6
)

// normalizeEmail 去空白并转小写，格式非法返回 ErrInvalidEmail
func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := validation.Validate(normalized, validation.Required, is.Email); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func normalizeNickname(nickname string) (string, error) {
	trimmed := strings.TrimSpace(nickname)
	if err := validation.Validate(trimmed,
		validation.Required,
		validation.RuneLength(nicknameMinLength, nicknameMaxLength),
	); err != nil {
		return "", ErrInvalidNickname
	}
	return trimmed, nil
}

// isReservedNickname 注销账号匿名化后使用的昵称
func isReservedNickname(nickname string) bool {
	return strings.EqualFold(strings.TrimSpace(nickname), constants.WithdrawnNickname)
}

func isReservedEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), constants.WithdrawnEmail)
}

func resolveCodeLength(length int) int {
	if length <= 0 {
		return defaultCodeLength
	}
	return length
}

func randomNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String(), nil
}
