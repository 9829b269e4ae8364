package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// QuestionType tags a question and determines both the shape of its options
// and the shape of the answer the platform expects back.
type QuestionType string

const (
	QuestionOrderSentences QuestionType = "order-sentences"
	QuestionFillWords      QuestionType = "fill-words"
	QuestionTextAI         QuestionType = "text_ai"
	QuestionFillLetters    QuestionType = "fill-letters"
	QuestionCloud          QuestionType = "cloud"
	QuestionMultipleChoice QuestionType = "multiple_choice"

	// QuestionDefault is the catch-all variant for any tag the platform sends
	// that we do not recognize. Unknown strings route here, never to an error.
	QuestionDefault QuestionType = ""
)

// ParseQuestionType normalizes the raw type tag coming from the platform.
// The web client is inconsistent about separators and has a few aliases for
// free-text questions, so several spellings collapse into one variant.
func ParseQuestionType(raw string) QuestionType {
	switch strings.TrimSpace(raw) {
	case "order-sentences", "order_sentences", "orderSentences":
		return QuestionOrderSentences
	case "fill-words", "fill_words", "fillWords":
		return QuestionFillWords
	case "text_ai", "text-ai", "text", "essay":
		return QuestionTextAI
	case "fill-letters", "fill_letters", "fillLetters":
		return QuestionFillLetters
	case "cloud":
		return QuestionCloud
	case "multiple_choice", "multiple-choice", "single_choice", "single-choice":
		return QuestionMultipleChoice
	default:
		return QuestionDefault
	}
}

// FlexID holds an identifier the platform serializes sometimes as a JSON
// number and sometimes as a string.
type FlexID struct {
	raw string
}

func NewFlexID(s string) FlexID { return FlexID{raw: s} }

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		id.raw = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		id.raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	id.raw = n.String()
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	if id.raw == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(id.raw, 10, 64); err == nil {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

func (id FlexID) String() string { return id.raw }

func (id FlexID) IsZero() bool { return id.raw == "" }

// Question is a single item inside a task. Options is kept raw because its
// shape depends entirely on Type: a mapping for some types, a sequence for
// others. The synthesizer decodes it per variant.
type Question struct {
	ID      FlexID          `json:"id"`
	Type    string          `json:"type"`
	Options json.RawMessage `json:"options,omitempty"`
	Comment string          `json:"comment,omitempty"`
}

// Variant returns the closed-enumeration variant for the question's raw tag.
func (q *Question) Variant() QuestionType {
	return ParseQuestionType(q.Type)
}

// Task is a remotely hosted assignment as returned by the task detail
// endpoint. Questions being absent (nil) marks the structure as invalid;
// an empty list is a valid task with nothing to answer.
type Task struct {
	ID         FlexID     `json:"id"`
	Title      string     `json:"title,omitempty"`
	Type       string     `json:"type,omitempty"`
	Questions  []Question `json:"questions"`
	AccessedOn string     `json:"accessed_on,omitempty"`
	ExecutedOn string     `json:"executed_on,omitempty"`
}

// TaskRef is the lightweight task reference used by the discovery listing
// and accepted by the processing operations. Only the id is required.
type TaskRef struct {
	ID    FlexID `json:"id"`
	Title string `json:"title,omitempty"`
}

// Room is one enrolled classroom from the room listing endpoint.
type Room struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

// RoomListResponse is the body of the room listing endpoint. Raw keeps the
// unparsed response so target resolution can scan it for ids that appear in
// places the typed model does not cover.
type RoomListResponse struct {
	Rooms []Room `json:"rooms"`
	Raw   []byte `json:"-"`
}
