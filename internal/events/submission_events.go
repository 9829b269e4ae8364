package events

import (
	"time"

	"github.com/edusync/task-automation-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the submission lifecycle events this service emits.
type EventType string

const (
	EventTaskSubmitted  EventType = "task.submitted"
	EventTaskFailed     EventType = "task.failed"
	EventBatchCompleted EventType = "batch.completed"
)

const eventSource = "task-automation-service"

// SubmissionEvent is the base envelope for all published events.
type SubmissionEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Data      any       `json:"data"`
}

// TaskSubmittedEvent is emitted after a successful answer submission.
type TaskSubmittedEvent struct {
	TaskID      string    `json:"task_id"`
	Draft       bool      `json:"draft"`
	Questions   int       `json:"questions"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// TaskFailedEvent is emitted when a task's processing ends in a failed
// ProcessResult. The failure is still data; nothing aborts on publish.
type TaskFailedEvent struct {
	TaskID   string    `json:"task_id"`
	Message  string    `json:"message"`
	FailedAt time.Time `json:"failed_at"`
}

// BatchCompletedEvent is emitted once per finished batch run.
type BatchCompletedEvent struct {
	TotalTasks   int       `json:"total_tasks"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	CompletedAt  time.Time `json:"completed_at"`
}

func newEvent(t EventType, data any) *SubmissionEvent {
	return &SubmissionEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}

func NewTaskSubmittedEvent(taskID string, draft bool, questions int) *SubmissionEvent {
	return newEvent(EventTaskSubmitted, TaskSubmittedEvent{
		TaskID:      taskID,
		Draft:       draft,
		Questions:   questions,
		SubmittedAt: time.Now().UTC(),
	})
}

func NewTaskFailedEvent(taskID, message string) *SubmissionEvent {
	return newEvent(EventTaskFailed, TaskFailedEvent{
		TaskID:   taskID,
		Message:  message,
		FailedAt: time.Now().UTC(),
	})
}

func NewBatchCompletedEvent(results []models.ProcessResult) *SubmissionEvent {
	data := BatchCompletedEvent{
		TotalTasks:  len(results),
		CompletedAt: time.Now().UTC(),
	}
	for _, r := range results {
		if r.Success {
			data.SuccessCount++
		} else {
			data.FailureCount++
		}
	}
	return newEvent(EventBatchCompleted, data)
}
