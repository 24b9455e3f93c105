package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/constants"
)

func TestStudyPostCleanupTaskRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	task, err := NewStudyPostCleanupTask(StudyPostCleanupPayload{Reason: CleanupReasonManual, TriggeredAt: at})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != constants.TaskStudyPostCleanup {
		t.Fatalf("task type want %s got %s", constants.TaskStudyPostCleanup, task.Type())
	}
	payload, err := ParseStudyPostCleanupPayload(task.Payload())
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.Reason != CleanupReasonManual || !payload.TriggeredAt.Equal(at) {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestParseStudyPostCleanupPayloadDefaults(t *testing.T) {
	payload, err := ParseStudyPostCleanupPayload(nil)
	if err != nil || payload.Reason != CleanupReasonSchedule {
		t.Fatalf("empty payload should default to schedule, got %+v err=%v", payload, err)
	}
	payload, err = ParseStudyPostCleanupPayload([]byte(`{}`))
	if err != nil || payload.Reason != CleanupReasonSchedule {
		t.Fatalf("missing reason should default to schedule, got %+v err=%v", payload, err)
	}
	if _, err := ParseStudyPostCleanupPayload([]byte(`{`)); err == nil {
		t.Fatalf("malformed payload should fail")
	}
}

func TestDisabledClientRejectsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueStudyPostCleanup(StudyPostCleanupPayload{}); !errors.Is(err, ErrQueueDisabled) {
		t.Fatalf("want ErrQueueDisabled got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("addr want 127.0.0.1:6379 got %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("concurrency want 10 got %d", cfg.Concurrency)
	}
	if cfg.Queues[constants.QueueCritical] == 0 || cfg.Queues[DefaultQueue] == 0 {
		t.Fatalf("unexpected queues: %+v", cfg.Queues)
	}

	opt, cfg = BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2, Concurrency: 3, Queues: map[string]int{"default": 1}})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 3 || len(cfg.Queues) != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
