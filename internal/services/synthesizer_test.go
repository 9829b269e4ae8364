package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/utils"
)

func newTestSynthesizer() *SynthesizerService {
	return NewSynthesizerService(utils.NewDevelopmentLogger())
}

func question(id, qtype, options string) models.Question {
	q := models.Question{ID: models.NewFlexID(id), Type: qtype}
	if options != "" {
		q.Options = json.RawMessage(options)
	}
	return q
}

func answerJSON(t *testing.T, payload *models.SubmissionPayload, id string) string {
	t.Helper()
	record, ok := payload.Answers[id]
	require.True(t, ok, "missing answer for question %s", id)
	data, err := json.Marshal(record.Answer)
	require.NoError(t, err)
	return string(data)
}

func TestSynthesizeRejectsTaskWithoutQuestions(t *testing.T) {
	s := newTestSynthesizer()

	_, err := s.Synthesize(nil)
	assert.ErrorIs(t, err, ErrInvalidStructure)

	_, err = s.Synthesize(&models.Task{})
	assert.ErrorIs(t, err, ErrInvalidStructure)
}

func TestSynthesizeEmptyQuestionListIsValid(t *testing.T) {
	s := newTestSynthesizer()

	payload, err := s.Synthesize(&models.Task{Questions: []models.Question{}})
	require.NoError(t, err)
	assert.Empty(t, payload.Answers)
	assert.NotEmpty(t, payload.AccessedOn)
	assert.NotEmpty(t, payload.ExecutedOn)
}

func TestSynthesizeOneAnswerPerQuestion(t *testing.T) {
	s := newTestSynthesizer()

	task := &models.Task{Questions: []models.Question{
		question("1", "multiple_choice", `[{"id": 10, "correct": true}]`),
		question("2", "text_ai", ""),
		question("3", "something-new", `{"a": {"answer": true}}`),
		question("4", "order-sentences", `{"sentences": [{"value": "x"}]}`),
	}}

	payload, err := s.Synthesize(task)
	require.NoError(t, err)
	assert.Len(t, payload.Answers, len(task.Questions))
	for _, q := range task.Questions {
		record, ok := payload.Answers[q.ID.String()]
		require.True(t, ok)
		assert.Equal(t, q.Type, record.QuestionType)
		assert.Equal(t, q.ID, record.QuestionID)
	}
}

func TestSynthesizeOrderSentences(t *testing.T) {
	s := newTestSynthesizer()

	task := &models.Task{Questions: []models.Question{
		question("7", "order-sentences",
			`{"sentences": [{"value": "first"}, {"value": "second"}, {"value": "third"}]}`),
		question("8", "order-sentences", `{}`),
	}}

	payload, err := s.Synthesize(task)
	require.NoError(t, err)
	assert.JSONEq(t, `["first", "second", "third"]`, answerJSON(t, payload, "7"))
	assert.JSONEq(t, `[]`, answerJSON(t, payload, "8"))
}

func TestSynthesizeFillWordsTakesOddPositions(t *testing.T) {
	s := newTestSynthesizer()

	task := &models.Task{Questions: []models.Question{
		question("7", "fill-words",
			`{"phrase": [{"value": "0"}, {"value": "1"}, {"value": "2"}, {"value": "3"}, {"value": "4"}]}`),
		question("8", "fill-words", `{"phrase": []}`),
	}}

	payload, err := s.Synthesize(task)
	require.NoError(t, err)
	assert.JSONEq(t, `["1", "3"]`, answerJSON(t, payload, "7"))
	assert.JSONEq(t, `[]`, answerJSON(t, payload, "8"))
}

func TestSynthesizeTextAIStripsMarkup(t *testing.T) {
	s := newTestSynthesizer()

	q := question("5", "text_ai", "")
	q.Comment = "<p><b>Hi</b> there</p>  "
	task := &models.Task{Questions: []models.Question{q}}

	payload, err := s.Synthesize(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{"0": "Hi there"}`, answerJSON(t, payload, "5"))
}

func TestSynthesizeMultipleChoice(t *testing.T) {
	s := newTestSynthesizer()

	tests := []struct {
		name    string
		options string
		want    string
	}{
		{"picks flagged correct", `[{"id": 1}, {"id": 2, "correct": true}, {"id": 3, "correct": true}]`, `{"2": true}`},
		{"falls back to first", `[{"id": 9}, {"id": 10}]`, `{"9": true}`},
		{"empty sequence", `[]`, `{}`},
		{"mapping form", `{"1": {"answer": false}}`, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &models.Task{Questions: []models.Question{
				question("q", "multiple_choice", tt.options),
			}}
			payload, err := s.Synthesize(task)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, answerJSON(t, payload, "q"))
		})
	}
}

func TestSynthesizeFillLettersPassthrough(t *testing.T) {
	s := newTestSynthesizer()

	task := &models.Task{Questions: []models.Question{
		question("1", "fill-letters", `{"answer": ["a", "b"]}`),
		question("2", "fill-letters", `{"other": 1}`),
	}}

	payload, err := s.Synthesize(task)
	require.NoError(t, err)
	assert.JSONEq(t, `["a", "b"]`, answerJSON(t, payload, "1"))
	assert.JSONEq(t, `null`, answerJSON(t, payload, "2"))
}

func TestSynthesizeCloudPassthrough(t *testing.T) {
	s := newTestSynthesizer()

	task := &models.Task{Questions: []models.Question{
		question("1", "cloud", `{"ids": [4, 5, 6]}`),
		question("2", "cloud", `{"ids": null}`),
	}}

	payload, err := s.Synthesize(task)
	require.NoError(t, err)
	assert.JSONEq(t, `[4, 5, 6]`, answerJSON(t, payload, "1"))
	assert.JSONEq(t, `null`, answerJSON(t, payload, "2"))
}

func TestSynthesizeDefaultVariant(t *testing.T) {
	s := newTestSynthesizer()

	task := &models.Task{Questions: []models.Question{
		question("1", "drag-and-drop", `{"a": {"answer": true}, "b": "scalar", "c": {"label": "x"}}`),
	}}

	payload, err := s.Synthesize(task)
	require.NoError(t, err)
	// A mapping option without an answer field still resolves to false.
	assert.JSONEq(t, `{"a": true, "b": false, "c": false}`, answerJSON(t, payload, "1"))
}

func TestSynthesizeAbsorbsMalformedOptions(t *testing.T) {
	s := newTestSynthesizer()

	task := &models.Task{Questions: []models.Question{
		question("1", "order-sentences", `42`),
		question("2", "fill-words", `"not a mapping"`),
	}}

	payload, err := s.Synthesize(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, answerJSON(t, payload, "1"))
	assert.JSONEq(t, `{}`, answerJSON(t, payload, "2"))
}

func TestSynthesizeKeepsTaskTimestamps(t *testing.T) {
	s := newTestSynthesizer()

	task := &models.Task{
		AccessedOn: "2025-03-01T10:00:00Z",
		ExecutedOn: "2025-03-01T10:05:00Z",
		Questions:  []models.Question{},
	}

	payload, err := s.Synthesize(task)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T10:00:00Z", payload.AccessedOn)
	assert.Equal(t, "2025-03-01T10:05:00Z", payload.ExecutedOn)
}
