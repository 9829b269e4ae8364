package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusync/task-automation-service/internal/events"
	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/upstream"
	"github.com/edusync/task-automation-service/internal/utils"
)

// fakeUpstreamClient is a configurable upstream.Client for service tests.
// Function fields left nil fall back to benign defaults. Safe for the
// concurrent calls a batch run makes.
type fakeUpstreamClient struct {
	mu sync.Mutex

	loginFunc      func(ra, password string) (*upstream.LoginResponse, error)
	roomsFunc      func(token string) (*models.RoomListResponse, error)
	todoFunc       func(token, target string, filter upstream.TaskFilter) ([]json.RawMessage, error)
	taskDetailFunc func(taskID models.FlexID) (*models.Task, error)
	submitFunc     func(taskID models.FlexID, body *models.SubmissionBody) (json.RawMessage, error)

	submitted []models.SubmissionBody
}

func (f *fakeUpstreamClient) Login(ctx context.Context, ra, password string) (*upstream.LoginResponse, error) {
	if f.loginFunc != nil {
		return f.loginFunc(ra, password)
	}
	return &upstream.LoginResponse{AuthToken: "token", Nick: "nick"}, nil
}

func (f *fakeUpstreamClient) Rooms(ctx context.Context, token string) (*models.RoomListResponse, error) {
	if f.roomsFunc != nil {
		return f.roomsFunc(token)
	}
	return &models.RoomListResponse{}, nil
}

func (f *fakeUpstreamClient) TodoTasks(ctx context.Context, token, target string, filter upstream.TaskFilter) ([]json.RawMessage, error) {
	if f.todoFunc != nil {
		return f.todoFunc(token, target, filter)
	}
	return nil, nil
}

func (f *fakeUpstreamClient) TaskDetail(ctx context.Context, token string, taskID models.FlexID) (*models.Task, error) {
	if f.taskDetailFunc != nil {
		return f.taskDetailFunc(taskID)
	}
	return &models.Task{
		ID: taskID,
		Questions: []models.Question{
			{ID: models.NewFlexID("q1"), Type: "multiple_choice", Options: json.RawMessage(`[{"id": 1, "correct": true}]`)},
		},
	}, nil
}

func (f *fakeUpstreamClient) SubmitAnswer(ctx context.Context, token string, taskID models.FlexID, body *models.SubmissionBody) (json.RawMessage, error) {
	f.mu.Lock()
	f.submitted = append(f.submitted, *body)
	f.mu.Unlock()

	if f.submitFunc != nil {
		return f.submitFunc(taskID, body)
	}
	return json.RawMessage(`{"status": "ok"}`), nil
}

func (f *fakeUpstreamClient) submittedBodies() []models.SubmissionBody {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SubmissionBody, len(f.submitted))
	copy(out, f.submitted)
	return out
}

func newMockPublisher() *events.MockEventPublisher {
	return events.NewMockEventPublisher(utils.ToSlogLogger(utils.NewDevelopmentLogger()))
}

func newTestProcessor(client upstream.Client, publisher events.EventPublisher, metrics *MetricsCollector) *ProcessorService {
	logger := utils.NewDevelopmentLogger()
	p := NewProcessorService(client, NewSynthesizerService(logger), publisher, metrics, logger, ProcessorConfig{DelayCapSec: 5})
	p.sleep = func(ctx context.Context, d time.Duration) {}
	p.randomDelay = func(lo, hi int) int { return lo }
	return p
}

func TestProcessOneSuccess(t *testing.T) {
	client := &fakeUpstreamClient{}
	publisher := newMockPublisher()
	metrics := NewMetricsCollector()
	p := newTestProcessor(client, publisher, metrics)

	result := p.ProcessOne(context.Background(), ProcessRequest{Token: "t", TimeMin: 1, TimeMax: 2}, models.TaskRef{ID: models.NewFlexID("42")})

	assert.True(t, result.Success)
	assert.Equal(t, "42", result.TaskID.String())
	assert.JSONEq(t, `{"status": "ok"}`, string(result.Result.(json.RawMessage)))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTaskSubmitted, published[0].Type)

	snapshot := metrics.Snapshot()
	assert.Equal(t, 1, snapshot.TotalSubmissions)
	assert.Equal(t, 0, snapshot.TotalErrors)
}

func TestProcessOneSubmitsFinalOrDraft(t *testing.T) {
	client := &fakeUpstreamClient{}
	p := newTestProcessor(client, newMockPublisher(), nil)

	p.ProcessOne(context.Background(), ProcessRequest{Token: "t", IsDraft: true}, models.TaskRef{ID: models.NewFlexID("1")})
	p.ProcessOne(context.Background(), ProcessRequest{Token: "t"}, models.TaskRef{ID: models.NewFlexID("2")})

	bodies := client.submittedBodies()
	require.Len(t, bodies, 2)
	assert.False(t, bodies[0].Final)
	assert.Equal(t, models.SubmissionStatusDraft, bodies[0].Status)
	assert.True(t, bodies[1].Final)
	assert.Equal(t, models.SubmissionStatusSubmitted, bodies[1].Status)
}

func TestProcessOneMissingTaskID(t *testing.T) {
	publisher := newMockPublisher()
	p := newTestProcessor(&fakeUpstreamClient{}, publisher, NewMetricsCollector())

	result := p.ProcessOne(context.Background(), ProcessRequest{Token: "t"}, models.TaskRef{})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "no id")

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTaskFailed, published[0].Type)
}

func TestProcessManyOneFailureDoesNotAbortBatch(t *testing.T) {
	client := &fakeUpstreamClient{
		taskDetailFunc: func(taskID models.FlexID) (*models.Task, error) {
			if taskID.String() == "5" {
				return nil, fmt.Errorf("connection reset")
			}
			return &models.Task{ID: taskID, Questions: []models.Question{}}, nil
		},
	}
	publisher := newMockPublisher()
	metrics := NewMetricsCollector()
	p := newTestProcessor(client, publisher, metrics)

	tasks := make([]models.TaskRef, 0, 10)
	for i := 1; i <= 10; i++ {
		tasks = append(tasks, models.TaskRef{ID: models.NewFlexID(fmt.Sprintf("%d", i))})
	}

	batch := p.ProcessMany(context.Background(), ProcessRequest{Token: "t", TimeMin: 1, TimeMax: 3}, tasks)

	assert.True(t, batch.Success)
	require.Len(t, batch.Results, 10)

	failures := 0
	for _, r := range batch.Results {
		if !r.Success {
			failures++
			assert.Equal(t, "5", r.TaskID.String())
			assert.Contains(t, r.Message, "connection reset")
		}
	}
	assert.Equal(t, 1, failures)

	// 10 per-task events plus the batch completion event.
	assert.Len(t, publisher.GetPublishedEvents(), 11)

	// Only successful runs count as submissions; the failure lands in the
	// error counter.
	snapshot := metrics.Snapshot()
	assert.Equal(t, 9, snapshot.TotalSubmissions)
	assert.Equal(t, 1, snapshot.TotalErrors)
}

func TestProcessManyEmptyBatch(t *testing.T) {
	publisher := newMockPublisher()
	p := newTestProcessor(&fakeUpstreamClient{}, publisher, nil)

	batch := p.ProcessMany(context.Background(), ProcessRequest{Token: "t"}, nil)

	assert.True(t, batch.Success)
	assert.Empty(t, batch.Results)
}

func TestSubmissionDelayBounds(t *testing.T) {
	p := newTestProcessor(&fakeUpstreamClient{}, nil, nil)

	var gotLo, gotHi int
	p.randomDelay = func(lo, hi int) int {
		gotLo, gotHi = lo, hi
		return lo
	}

	// Cap disabled: the drawn value passes through.
	p.delayCap = 0
	delay := p.submissionDelay(2, 4)
	assert.Equal(t, 120, gotLo)
	assert.Equal(t, 240, gotHi)
	assert.Equal(t, 120*time.Second, delay)

	// Zero minutes floor to one minute on both bounds.
	p.submissionDelay(0, 0)
	assert.Equal(t, 60, gotLo)
	assert.Equal(t, 60, gotHi)

	// Inverted range collapses to the lower bound.
	p.submissionDelay(5, 2)
	assert.Equal(t, 300, gotLo)
	assert.Equal(t, 300, gotHi)

	// The cap bounds whatever was drawn.
	p.delayCap = 5 * time.Second
	assert.Equal(t, 5*time.Second, p.submissionDelay(1, 1))
}
