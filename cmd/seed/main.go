package main

import (
	"os"
	"time"

	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	email := envOr("DEVONOFF_DEMO_EMAIL", "demo@devonoff.dev")
	password := envOr("DEVONOFF_DEMO_PASSWORD", "Devonoff!2024")
	owner, err := models.InitDemoAccount(models.DB, email, envOr("DEVONOFF_DEMO_NICKNAME", "demo"), password)
	if err != nil {
		stdLog.Fatalf("Failed to create demo account: %v", err)
	}
	member, err := models.InitDemoAccount(models.DB, "member@devonoff.dev", "member", password)
	if err != nil {
		stdLog.Fatalf("Failed to create member account: %v", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	posts := []models.StudyPost{
		{
			Title:               "Go 동시성 스터디 모집",
			StudyName:           "gophers",
			Subject:             "backend",
			Difficulty:          "medium",
			DayType:             "mon,wed",
			MeetingType:         "online",
			Description:         "goroutine 과 channel 을 함께 공부합니다.",
			MaxParticipants:     5,
			StartDate:           today.AddDate(0, 0, 14),
			EndDate:             today.AddDate(0, 2, 14),
			RecruitmentDeadline: today.AddDate(0, 0, 10),
			Status:              constants.StudyPostStatusRecruiting,
		},
		{
			Title:               "알고리즘 주말 스터디",
			StudyName:           "weekend-algo",
			Subject:             "algorithm",
			Difficulty:          "easy",
			DayType:             "sat,sun",
			MeetingType:         "offline",
			Latitude:            37.5665,
			Longitude:           126.9780,
			MaxParticipants:     8,
			StartDate:           today.AddDate(0, 0, 3),
			EndDate:             today.AddDate(0, 1, 3),
			RecruitmentDeadline: today.AddDate(0, 0, -1),
			Status:              constants.StudyPostStatusRecruiting,
		},
		{
			Title:               "취소된 CS 스터디",
			StudyName:           "cs-basics",
			Subject:             "cs",
			Difficulty:          "hard",
			MeetingType:         "hybrid",
			MaxParticipants:     4,
			StartDate:           today.AddDate(0, 0, -20),
			EndDate:             today.AddDate(0, 1, -20),
			RecruitmentDeadline: today.AddDate(0, 0, -25),
			Status:              constants.StudyPostStatusCanceled,
		},
	}

	for i := range posts {
		post := posts[i]
		post.UserID = owner.ID
		var existing models.StudyPost
		if err := models.DB.Where("study_name = ? AND user_id = ?", post.StudyName, owner.ID).First(&existing).Error; err == nil {
			stdLog.Printf("Study post already exists: %s", post.StudyName)
			continue
		}
		if err := models.DB.Create(&post).Error; err != nil {
			stdLog.Printf("Failed to create study post %s: %v", post.StudyName, err)
			continue
		}
		if post.Status == constants.StudyPostStatusCanceled {
			// 回拨更新时间，使其进入下一次清理范围
			stale := today.AddDate(0, 0, -(constants.DefaultCleanupDays + 1))
			if err := models.DB.Model(&models.StudyPost{}).Where("id = ?", post.ID).UpdateColumn("updated_at", stale).Error; err != nil {
				stdLog.Printf("Failed to backdate study post %s: %v", post.StudyName, err)
			}
		}
		stdLog.Printf("Created study post: %s", post.StudyName)

		comment := models.StudyComment{StudyPostID: post.ID, UserID: member.ID, Content: "참여하고 싶습니다!"}
		if err := models.DB.Create(&comment).Error; err != nil {
			stdLog.Printf("Failed to create comment for %s: %v", post.StudyName, err)
			continue
		}
		reply := models.StudyReply{CommentID: comment.ID, UserID: owner.ID, Content: "환영합니다.", IsSecret: i%2 == 1}
		if err := models.DB.Create(&reply).Error; err != nil {
			stdLog.Printf("Failed to create reply for %s: %v", post.StudyName, err)
		}
	}

	stdLog.Printf("Seed completed")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
