package services

import (
	"bytes"
	"encoding/json"

	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/utils"
)

// SynthesizerService turns a fetched task into a submission payload. It
// mirrors the transform logic of the platform's own web client, per question
// type, so the produced answers pass the upstream's (reverse-engineered)
// validation.
type SynthesizerService struct {
	logger utils.Logger
}

func NewSynthesizerService(logger utils.Logger) *SynthesizerService {
	return &SynthesizerService{logger: logger}
}

// Synthesize builds the submission payload for a task. Every question yields
// exactly one answer record keyed by its stringified id; a question whose
// synthesis fails gets an empty answer instead of being dropped, so the
// upstream always receives an entry per question. The only failure mode is a
// task with no questions field at all.
func (s *SynthesizerService) Synthesize(task *models.Task) (*models.SubmissionPayload, error) {
	if task == nil || task.Questions == nil {
		return nil, ErrInvalidStructure
	}

	payload := &models.SubmissionPayload{
		AccessedOn: task.AccessedOn,
		ExecutedOn: task.ExecutedOn,
		Answers:    make(map[string]models.AnswerRecord, len(task.Questions)),
	}
	if payload.AccessedOn == "" {
		payload.AccessedOn = utils.NowISO()
	}
	if payload.ExecutedOn == "" {
		payload.ExecutedOn = utils.NowISO()
	}

	for i := range task.Questions {
		q := &task.Questions[i]

		answer, err := s.answerFor(q)
		if err != nil {
			// Absorb: one malformed question must never abort the payload.
			s.logger.Warn("answer synthesis failed, downgrading to empty answer",
				"question_id", q.ID.String(),
				"question_type", q.Type,
				"error", err)
			answer = map[string]any{}
		}

		payload.Answers[q.ID.String()] = models.AnswerRecord{
			QuestionID:   q.ID,
			QuestionType: q.Type,
			Answer:       answer,
		}
	}

	return payload, nil
}

// answerFor dispatches on the question's variant and builds the answer value
// the platform expects for that type.
func (s *SynthesizerService) answerFor(q *models.Question) (any, error) {
	switch q.Variant() {
	case models.QuestionOrderSentences:
		return s.orderSentencesAnswer(q)
	case models.QuestionFillWords:
		return s.fillWordsAnswer(q)
	case models.QuestionTextAI:
		return map[string]string{"0": utils.StripMarkup(q.Comment)}, nil
	case models.QuestionFillLetters:
		return s.fillLettersAnswer(q)
	case models.QuestionCloud:
		return s.cloudAnswer(q)
	case models.QuestionMultipleChoice:
		return s.multipleChoiceAnswer(q)
	default:
		return s.defaultAnswer(q)
	}
}

// orderSentencesAnswer returns the sentence values in their source order.
func (s *SynthesizerService) orderSentencesAnswer(q *models.Question) (any, error) {
	var opts struct {
		Sentences []struct {
			Value string `json:"value"`
		} `json:"sentences"`
	}
	if err := decodeOptions(q.Options, &opts); err != nil {
		return nil, newSynthesisError(q.ID.String(), "options is not a sentences mapping", err)
	}

	// Absent sentences mean an empty ordering, not a null answer.
	values := make([]string, 0, len(opts.Sentences))
	for _, sentence := range opts.Sentences {
		values = append(values, sentence.Value)
	}
	return values, nil
}

// fillWordsAnswer takes the phrase values at odd index positions. The even
// positions are the fixed scaffold text; the odd ones are the blanks to fill.
func (s *SynthesizerService) fillWordsAnswer(q *models.Question) (any, error) {
	var opts struct {
		Phrase []struct {
			Value string `json:"value"`
		} `json:"phrase"`
	}
	if err := decodeOptions(q.Options, &opts); err != nil {
		return nil, newSynthesisError(q.ID.String(), "options is not a phrase mapping", err)
	}

	values := make([]string, 0, len(opts.Phrase)/2)
	for i, item := range opts.Phrase {
		if i%2 == 1 {
			values = append(values, item.Value)
		}
	}
	return values, nil
}

// fillLettersAnswer passes options.answer through untouched when present.
func (s *SynthesizerService) fillLettersAnswer(q *models.Question) (any, error) {
	var opts map[string]json.RawMessage
	if err := decodeOptions(q.Options, &opts); err != nil {
		return nil, newSynthesisError(q.ID.String(), "options is not a mapping", err)
	}

	if answer, ok := opts["answer"]; ok {
		return answer, nil
	}
	return nil, nil
}

// cloudAnswer passes options.ids through untouched when present.
func (s *SynthesizerService) cloudAnswer(q *models.Question) (any, error) {
	var opts struct {
		IDs json.RawMessage `json:"ids"`
	}
	if err := decodeOptions(q.Options, &opts); err != nil {
		return nil, newSynthesisError(q.ID.String(), "options is not a mapping", err)
	}

	if len(opts.IDs) > 0 && !bytes.Equal(opts.IDs, []byte("null")) {
		return opts.IDs, nil
	}
	return nil, nil
}

// multipleChoiceAnswer picks the first option flagged correct, falling back
// to the first option; an empty sequence yields an empty mapping.
func (s *SynthesizerService) multipleChoiceAnswer(q *models.Question) (any, error) {
	var opts []struct {
		ID      models.FlexID `json:"id"`
		Correct bool          `json:"correct"`
	}
	if err := decodeOptions(q.Options, &opts); err != nil {
		// The platform occasionally serves choice options as a mapping; the
		// web client answers those with an empty object, and so do we.
		return map[string]any{}, nil
	}

	for _, opt := range opts {
		if opt.Correct {
			return map[string]bool{opt.ID.String(): true}, nil
		}
	}
	if len(opts) > 0 {
		return map[string]bool{opts[0].ID.String(): true}, nil
	}
	return map[string]any{}, nil
}

// defaultAnswer handles every unrecognized type: each option key maps to the
// nested answer value when the option is a mapping carrying one, else to
// false.
func (s *SynthesizerService) defaultAnswer(q *models.Question) (any, error) {
	var opts map[string]json.RawMessage
	if err := decodeOptions(q.Options, &opts); err != nil {
		return map[string]any{}, nil
	}

	answer := make(map[string]any, len(opts))
	for key, value := range opts {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(value, &nested); err == nil {
			if inner, ok := nested["answer"]; ok {
				answer[key] = inner
			} else {
				answer[key] = false
			}
		} else {
			answer[key] = false
		}
	}
	return answer, nil
}

// decodeOptions unmarshals the polymorphic options field, treating an absent
// field as an empty object so shape checks stay in one place.
func decodeOptions(raw json.RawMessage, dest any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	return json.Unmarshal(raw, dest)
}
