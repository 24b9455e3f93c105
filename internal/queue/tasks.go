package queue

import (
	"encoding/json"
	"time"

	"github.com/devonoff/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskStudyPostCleanup 帖子清理批处理任务
const TaskStudyPostCleanup = constants.TaskStudyPostCleanup

// 清理触发来源
const (
	CleanupReasonSchedule = "schedule"
	CleanupReasonManual   = "manual"
)

// StudyPostCleanupPayload 清理任务载荷
type StudyPostCleanupPayload struct {
	Reason      string    `json:"reason"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// NewStudyPostCleanupTask 创建帖子清理任务
func NewStudyPostCleanupTask(payload StudyPostCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStudyPostCleanup, body), nil
}

// ParseStudyPostCleanupPayload 解析清理任务载荷，空载荷视为定时触发
func ParseStudyPostCleanupPayload(body []byte) (StudyPostCleanupPayload, error) {
	var payload StudyPostCleanupPayload
	if len(body) == 0 {
		payload.Reason = CleanupReasonSchedule
		return payload, nil
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	if payload.Reason == "" {
		payload.Reason = CleanupReasonSchedule
	}
	return payload, nil
}
