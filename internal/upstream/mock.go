package upstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edusync/task-automation-service/internal/models"
)

// MockClient simulates the platform API for offline runs (MOCK_MODE) and the
// selftest endpoint. Responses mirror the real API's shapes.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Login(ctx context.Context, ra, password string) (*LoginResponse, error) {
	nick := ra
	if len(ra) > 3 {
		nick = ra[len(ra)-3:]
	}
	return &LoginResponse{
		AuthToken: "mock-token-" + ra,
		Nick:      "Aluno" + nick,
	}, nil
}

func (m *MockClient) Rooms(ctx context.Context, token string) (*models.RoomListResponse, error) {
	raw := []byte(`{"rooms":[{"id":123,"name":"Matemática"},{"id":456,"name":"Português"}]}`)

	var out models.RoomListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	out.Raw = raw

	return &out, nil
}

func (m *MockClient) TodoTasks(ctx context.Context, token, target string, filter TaskFilter) ([]json.RawMessage, error) {
	return []json.RawMessage{
		json.RawMessage(fmt.Sprintf(`{"id":111,"title":"Tarefa 1 (Mock)","room":%q}`, target)),
		json.RawMessage(fmt.Sprintf(`{"id":222,"title":"Tarefa 2 (Mock)","room":%q}`, target)),
	}, nil
}

func (m *MockClient) TaskDetail(ctx context.Context, token string, taskID models.FlexID) (*models.Task, error) {
	return &models.Task{
		ID: taskID,
		Questions: []models.Question{
			{
				ID:      models.NewFlexID("1"),
				Type:    string(models.QuestionMultipleChoice),
				Options: json.RawMessage(`[{"id":"A","correct":true},{"id":"B"}]`),
			},
		},
	}, nil
}

func (m *MockClient) SubmitAnswer(ctx context.Context, token string, taskID models.FlexID, body *models.SubmissionBody) (json.RawMessage, error) {
	resp := map[string]any{
		"status":    "ok",
		"submitted": true,
		"task_id":   taskID,
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(out), nil
}
