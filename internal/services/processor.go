package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/edusync/task-automation-service/internal/events"
	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/upstream"
	"github.com/edusync/task-automation-service/internal/utils"
)

// maxBatchWorkers caps concurrent submissions. Staying low keeps the traffic
// pattern off the upstream's rate limiting and bot heuristics.
const maxBatchWorkers = 6

// ProcessorService runs the fetch → synthesize → wait → submit pipeline for
// single tasks and for concurrent batches.
type ProcessorService struct {
	client      upstream.Client
	synthesizer *SynthesizerService
	publisher   events.EventPublisher
	metrics     *MetricsCollector
	logger      utils.Logger

	maxWorkers  int
	delayCap    time.Duration
	sleep       func(ctx context.Context, d time.Duration)
	randomDelay func(lo, hi int) int
}

// ProcessorConfig configures the processor.
type ProcessorConfig struct {
	MaxWorkers  int
	DelayCapSec int
}

func NewProcessorService(
	client upstream.Client,
	synthesizer *SynthesizerService,
	publisher events.EventPublisher,
	metrics *MetricsCollector,
	logger utils.Logger,
	cfg ProcessorConfig,
) *ProcessorService {
	workers := cfg.MaxWorkers
	if workers <= 0 || workers > maxBatchWorkers {
		workers = maxBatchWorkers
	}

	return &ProcessorService{
		client:      client,
		synthesizer: synthesizer,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		maxWorkers:  workers,
		delayCap:    time.Duration(cfg.DelayCapSec) * time.Second,
		sleep:       sleepContext,
		randomDelay: func(lo, hi int) int { return lo + rand.Intn(hi-lo+1) },
	}
}

// ProcessRequest carries everything one submission run needs. The auth token
// travels as a call parameter; the service holds no session state.
type ProcessRequest struct {
	Token   string
	TimeMin int
	TimeMax int
	IsDraft bool
}

// ProcessOne runs the full pipeline for a single task reference and reports
// the outcome as data. Errors never propagate past this boundary.
func (p *ProcessorService) ProcessOne(ctx context.Context, req ProcessRequest, taskRef models.TaskRef) models.ProcessResult {
	result, questions := p.processTask(ctx, req, taskRef)
	p.recordResult(ctx, result, questions, req.IsDraft)
	return result
}

// ProcessMany submits up to min(maxWorkers, len(tasks)) tasks concurrently.
// Results are collected in completion order; one task failing never aborts
// its siblings, and the aggregate always covers every task attempted.
func (p *ProcessorService) ProcessMany(ctx context.Context, req ProcessRequest, tasks []models.TaskRef) models.BatchResult {
	workers := p.maxWorkers
	if len(tasks) < workers {
		workers = len(tasks)
	}

	p.logger.Info("starting batch processing",
		"tasks", len(tasks),
		"workers", workers)

	type taskOutcome struct {
		result    models.ProcessResult
		questions int
	}

	jobs := make(chan models.TaskRef)
	out := make(chan taskOutcome)

	for i := 0; i < workers; i++ {
		go func() {
			for task := range jobs {
				result, questions := p.processTask(ctx, req, task)
				out <- taskOutcome{result: result, questions: questions}
			}
		}()
	}

	go func() {
		for _, task := range tasks {
			jobs <- task
		}
		close(jobs)
	}()

	results := make([]models.ProcessResult, 0, len(tasks))
	for range tasks {
		outcome := <-out
		p.recordResult(ctx, outcome.result, outcome.questions, req.IsDraft)
		results = append(results, outcome.result)
	}

	p.publish(ctx, events.NewBatchCompletedEvent(results))

	p.logger.Info("batch processing finished", "tasks", len(results))

	return models.BatchResult{
		Success: true,
		Message: fmt.Sprintf("processing finished for %d tasks", len(results)),
		Results: results,
	}
}

// processTask is the per-task pipeline. Any failure collapses into a failed
// ProcessResult carrying the task id.
func (p *ProcessorService) processTask(ctx context.Context, req ProcessRequest, taskRef models.TaskRef) (models.ProcessResult, int) {
	if taskRef.ID.IsZero() {
		return models.ProcessResult{Success: false, Message: ErrMissingTaskID.Error()}, 0
	}

	result := models.ProcessResult{TaskID: taskRef.ID}

	task, err := p.client.TaskDetail(ctx, req.Token, taskRef.ID)
	if err != nil {
		result.Message = describeUpstreamFailure("fetching task detail", err)
		return result, 0
	}

	payload, err := p.synthesizer.Synthesize(task)
	if err != nil {
		result.Message = err.Error()
		return result, 0
	}

	delay := p.submissionDelay(req.TimeMin, req.TimeMax)
	p.logger.Info("pacing submission",
		"task_id", taskRef.ID.String(),
		"delay", delay.String())
	p.sleep(ctx, delay)

	response, err := p.client.SubmitAnswer(ctx, req.Token, taskRef.ID, models.NewSubmissionBody(payload, req.IsDraft))
	if err != nil {
		result.Message = describeUpstreamFailure("submitting answers", err)
		return result, 0
	}

	result.Success = true
	result.Result = json.RawMessage(response)
	return result, len(payload.Answers)
}

// submissionDelay draws a uniform delay from [timeMin*60, timeMax*60] seconds
// with a one-minute floor on both bounds. The pause makes submissions look
// like human completion time. The configured cap bounds the real sleep so
// test and development runs do not block for minutes.
func (p *ProcessorService) submissionDelay(timeMin, timeMax int) time.Duration {
	lo := maxInt(1, timeMin) * 60
	hi := maxInt(1, timeMax) * 60
	if hi < lo {
		hi = lo
	}

	delay := time.Duration(p.randomDelay(lo, hi)) * time.Second
	if p.delayCap > 0 && delay > p.delayCap {
		return p.delayCap
	}
	return delay
}

func (p *ProcessorService) recordResult(ctx context.Context, result models.ProcessResult, questions int, isDraft bool) {
	if p.metrics != nil {
		p.metrics.RecordSubmission(result)
	}

	if result.Success {
		p.publish(ctx, events.NewTaskSubmittedEvent(result.TaskID.String(), isDraft, questions))
	} else {
		p.publish(ctx, events.NewTaskFailedEvent(result.TaskID.String(), result.Message))
	}
}

// publish sends an event on a best-effort basis. A broken broker must not
// turn a finished submission into a failure.
func (p *ProcessorService) publish(ctx context.Context, event *events.SubmissionEvent) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishSubmissionEvent(ctx, event); err != nil {
		p.logger.Warn("failed to publish submission event",
			"event_type", event.Type,
			"error", err)
	}
}

func describeUpstreamFailure(op string, err error) string {
	if upstream.IsUpstreamError(err) {
		return fmt.Sprintf("HTTP error while %s: %v", op, err)
	}
	return fmt.Sprintf("error while %s: %v", op, err)
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
