package models

// AnswerRecord is one synthesized answer. Answer's shape varies by question
// type: a sequence, a scalar, a mapping from option id to bool, or null.
type AnswerRecord struct {
	QuestionID   FlexID `json:"question_id"`
	QuestionType string `json:"question_type"`
	Answer       any    `json:"answer"`
}

// SubmissionPayload is the body posted to the task answer endpoint. Answers
// is keyed by the stringified question id and holds exactly one record per
// question of the source task.
type SubmissionPayload struct {
	AccessedOn string                  `json:"accessed_on"`
	ExecutedOn string                  `json:"executed_on"`
	Answers    map[string]AnswerRecord `json:"answers"`
}

// SubmissionBody is the final wire body: the synthesized payload plus the
// draft/submitted state flags the platform expects.
type SubmissionBody struct {
	AccessedOn string                  `json:"accessed_on"`
	ExecutedOn string                  `json:"executed_on"`
	Answers    map[string]AnswerRecord `json:"answers"`
	Final      bool                    `json:"final"`
	Status     string                  `json:"status"`
}

const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusDraft     = "draft"
)

// NewSubmissionBody wraps a synthesized payload for the wire.
func NewSubmissionBody(p *SubmissionPayload, isDraft bool) *SubmissionBody {
	status := SubmissionStatusSubmitted
	if isDraft {
		status = SubmissionStatusDraft
	}
	return &SubmissionBody{
		AccessedOn: p.AccessedOn,
		ExecutedOn: p.ExecutedOn,
		Answers:    p.Answers,
		Final:      !isDraft,
		Status:     status,
	}
}

// ProcessResult is the per-task outcome of a submission run. Processing never
// lets an error escape; failures are carried here as data so batch
// aggregation cannot be corrupted by one failing unit.
type ProcessResult struct {
	Success bool   `json:"success"`
	TaskID  FlexID `json:"task_id"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// BatchResult aggregates a concurrent batch run. Results arrive in completion
// order, not submission order; correlate by task id.
type BatchResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Results []ProcessResult `json:"results"`
}
