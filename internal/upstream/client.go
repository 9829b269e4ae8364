package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/utils"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/139.0.0.0 Safari/537.36"

// LoginResponse is the body of the registration token exchange.
type LoginResponse struct {
	AuthToken string `json:"auth_token"`
	Nick      string `json:"nick"`
}

// TaskFilter selects which upstream answer states the discovery queries.
type TaskFilter struct {
	ExpiredOnly bool
}

// Client is the school-platform API surface this service consumes. All calls
// are JSON over HTTPS, authenticated by the x-api-key header except Login.
type Client interface {
	Login(ctx context.Context, ra, password string) (*LoginResponse, error)
	Rooms(ctx context.Context, token string) (*models.RoomListResponse, error)
	TodoTasks(ctx context.Context, token, target string, filter TaskFilter) ([]json.RawMessage, error)
	TaskDetail(ctx context.Context, token string, taskID models.FlexID) (*models.Task, error)
	SubmitAnswer(ctx context.Context, token string, taskID models.FlexID, body *models.SubmissionBody) (json.RawMessage, error)
}

// HTTPClient talks to the real platform.
type HTTPClient struct {
	baseURL      string
	clientOrigin string
	http         *http.Client
	logger       utils.Logger
}

// ClientConfig configures the HTTP client.
type ClientConfig struct {
	BaseURL      string
	ClientOrigin string
	Timeout      time.Duration
	Logger       utils.Logger
}

func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:      cfg.BaseURL,
		clientOrigin: cfg.ClientOrigin,
		http:         &http.Client{Timeout: timeout},
		logger:       cfg.Logger,
	}
}

// defaultHeaders is the header set the platform's web client sends; the API
// rejects requests without the realm/platform markers.
func (c *HTTPClient) defaultHeaders() map[string]string {
	return map[string]string{
		"Accept":         "application/json",
		"Content-Type":   "application/json",
		"x-api-realm":    "edusp",
		"x-api-platform": "webclient",
		"User-Agent":     defaultUserAgent,
		"Origin":         c.clientOrigin,
		"Referer":        c.clientOrigin + "/",
	}
}

// Login exchanges student credentials for an auth token.
func (c *HTTPClient) Login(ctx context.Context, ra, password string) (*LoginResponse, error) {
	body := map[string]string{
		"realm":    "edusp",
		"platform": "webclient",
		"id":       ra,
		"password": password,
	}

	var out LoginResponse
	err := newRequest(c.http, c.logger).
		Post().
		URL(c.baseURL + "/registration/edusp").
		Headers(c.defaultHeaders()).
		JSONBody(body).
		getJSON(ctx, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Rooms fetches the student's enrolled classrooms. The raw body is kept on
// the response for the target resolver's id scan.
func (c *HTTPClient) Rooms(ctx context.Context, token string) (*models.RoomListResponse, error) {
	raw, err := newRequest(c.http, c.logger).
		URL(c.baseURL+"/room/user").
		Headers(c.defaultHeaders()).
		Token(token).
		Args(url.Values{"list_all": {"true"}, "with_cards": {"true"}}).
		do(ctx)
	if err != nil {
		return nil, err
	}

	var out models.RoomListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding room listing: %w", err)
	}
	out.Raw = raw

	return &out, nil
}

// TodoTasks queries pending/draft tasks for one publication target. The
// endpoint's envelope varies, so the list is dug out of several known shapes.
func (c *HTTPClient) TodoTasks(ctx context.Context, token, target string, filter TaskFilter) ([]json.RawMessage, error) {
	args := url.Values{
		"limit":             {"100"},
		"offset":            {"0"},
		"is_exam":           {"false"},
		"with_answer":       {"true"},
		"is_essay":          {"false"},
		"with_apply_moment": {"true"},
		"answer_statuses":   {"pending", "draft"},
		"publication_target": {target},
	}
	if filter.ExpiredOnly {
		args.Set("expired_only", "true")
		args.Set("filter_expired", "false")
	} else {
		args.Set("expired_only", "false")
		args.Set("filter_expired", "true")
	}

	raw, err := newRequest(c.http, c.logger).
		URL(c.baseURL + "/tms/task/todo").
		Headers(c.defaultHeaders()).
		Token(token).
		Args(args).
		do(ctx)
	if err != nil {
		return nil, err
	}

	return extractTaskList(raw)
}

// TaskDetail fetches one task in full. Some responses wrap the task in a
// data envelope; unwrap it transparently.
func (c *HTTPClient) TaskDetail(ctx context.Context, token string, taskID models.FlexID) (*models.Task, error) {
	raw, err := newRequest(c.http, c.logger).
		URL(fmt.Sprintf("%s/tms/task/%s", c.baseURL, taskID)).
		Headers(c.defaultHeaders()).
		Token(token).
		do(ctx)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	var task models.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("decoding task %s: %w", taskID, err)
	}

	return &task, nil
}

// SubmitAnswer posts the synthesized submission body for a task.
func (c *HTTPClient) SubmitAnswer(ctx context.Context, token string, taskID models.FlexID, body *models.SubmissionBody) (json.RawMessage, error) {
	raw, err := newRequest(c.http, c.logger).
		Post().
		URL(fmt.Sprintf("%s/tms/task/%s/answer", c.baseURL, taskID)).
		Headers(c.defaultHeaders()).
		Token(token).
		JSONBody(body).
		do(ctx)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(raw), nil
}

// extractTaskList accepts a bare array or an object wrapping the array under
// tasks, data or items.
func extractTaskList(raw []byte) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decoding task listing: unexpected shape")
	}

	for _, key := range []string{"tasks", "data", "items"} {
		if inner, ok := envelope[key]; ok {
			if err := json.Unmarshal(inner, &list); err == nil {
				return list, nil
			}
		}
	}

	return nil, nil
}
