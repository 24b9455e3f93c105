package models

import (
	"errors"
	"strings"

	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitDemoAccount 初始化演示账号，已存在同邮箱的有效账号时跳过
func InitDemoAccount(db *gorm.DB, email, nickname, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("demo account email and password are required")
	}
	if strings.TrimSpace(nickname) == "" {
		nickname = "devonoff"
	}

	var existing User
	err := db.Where("email = ? AND is_active = ?", email, true).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hash),
		LoginType:    constants.LoginTypeGeneral,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	logger.Warnw("demo_account_created", "email", email, "password_hidden", true)
	return &user, nil
}
