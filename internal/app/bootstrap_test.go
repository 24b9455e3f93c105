package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/devonoff/internal/cache"
	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/provider"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAppFixture(t *testing.T, now time.Time) (*config.Config, *provider.Container, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:app_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{NowFunc: models.NowUTC})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: "0", Mode: "debug"},
		Cleanup: config.CleanupConfig{Enabled: true, Timezone: "UTC", RetentionDays: 7},
	}
	clk := clock.NewFixed(now)
	container := provider.NewContainerWith(cfg, db, cache.NewMemoryCredentialStore(clk), clk)
	return cfg, container, db
}

func TestBuildRunnerModes(t *testing.T) {
	cfg, container, _ := newAppFixture(t, time.Now())

	runner, err := BuildRunner(cfg, container, ModeAPI)
	require.NoError(t, err)
	require.Len(t, runner.services, 1)
	require.Equal(t, "http", runner.services[0].Name())

	// 队列未启用时 all 模式只保留 HTTP
	runner, err = BuildRunner(cfg, container, ModeAll)
	require.NoError(t, err)
	require.Len(t, runner.services, 1)

	_, err = BuildRunner(cfg, container, ModeWorker)
	require.Error(t, err)

	_, err = BuildRunner(nil, container, ModeAPI)
	require.Error(t, err)
	_, err = BuildRunner(cfg, nil, ModeAPI)
	require.Error(t, err)
}

func TestRunCleanupOnceInProcess(t *testing.T) {
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	_, container, db := newAppFixture(t, now)

	stale := models.StudyPost{
		UserID:              1,
		Title:               "stale",
		StudyName:           "stale",
		Status:              constants.StudyPostStatusCanceled,
		RecruitmentDeadline: now.AddDate(0, 0, -30),
		UpdatedAt:           now.AddDate(0, 0, -10),
	}
	require.NoError(t, db.Create(&stale).Error)

	require.NoError(t, RunCleanupOnce(context.Background(), container, nil))

	var count int64
	require.NoError(t, db.Model(&models.StudyPost{}).Count(&count).Error)
	require.Zero(t, count)
	runs, err := testutil.GatherAndCount(container.Registry, "devonoff_cleanup_runs_total")
	require.NoError(t, err)
	require.Equal(t, 1, runs)
}

func TestRunCleanupOnceRequiresService(t *testing.T) {
	require.Error(t, RunCleanupOnce(context.Background(), nil, nil))
	require.Error(t, RunCleanupOnce(context.Background(), &provider.Container{}, nil))
}

type fakeService struct {
	name    string
	startFn func(ctx context.Context) error
	stopped atomic.Bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error { return s.startFn(ctx) }

func (s *fakeService) Stop(context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := &fakeService{name: "failing", startFn: func(context.Context) error { return boom }}
	blocking := &fakeService{name: "blocking", startFn: func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}}

	err := NewRunner(failing, blocking).Run(context.Background(), time.Second, nil)
	require.ErrorIs(t, err, boom)
	require.True(t, failing.stopped.Load())
	require.True(t, blocking.stopped.Load())
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &fakeService{name: "blocking", startFn: func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}}
	cancel()
	require.NoError(t, NewRunner(svc).Run(ctx, time.Second, nil))
	require.True(t, svc.stopped.Load())
}
