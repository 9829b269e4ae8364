package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/edusync/task-automation-service/internal/utils"
)

// request is a small fluent builder around net/http for calls against the
// school-platform API. Every call carries the platform's default header set;
// token adds the per-request x-api-key.
type request struct {
	client  *http.Client
	url     string
	method  string
	token   string
	body    io.Reader
	headers map[string]string
	args    url.Values
	logger  utils.Logger
}

func newRequest(c *http.Client, logger utils.Logger) *request {
	return &request{client: c, method: http.MethodGet, logger: logger}
}

func (r *request) URL(u string) *request {
	r.url = u
	return r
}

func (r *request) Post() *request {
	r.method = http.MethodPost
	return r
}

func (r *request) Token(token string) *request {
	r.token = token
	return r
}

func (r *request) Headers(headers map[string]string) *request {
	r.headers = headers
	return r
}

func (r *request) Args(args url.Values) *request {
	r.args = args
	return r
}

// JSONBody marshals v and sets it as the request body.
func (r *request) JSONBody(v any) *request {
	b, err := json.Marshal(v)
	if err != nil {
		// Surfaces later as a transport error; payloads here are always
		// plain JSON-able structs.
		r.body = bytes.NewReader(nil)
		return r
	}
	r.body = bytes.NewReader(b)
	return r
}

func (r *request) do(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, r.body)
	if err != nil {
		return nil, &TransportError{Op: r.method, URL: r.url, Err: err}
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	if r.token != "" {
		req.Header.Set("x-api-key", r.token)
	}

	if len(r.args) > 0 {
		q := req.URL.Query()
		for k, vals := range r.args {
			for _, v := range vals {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	res, err := r.client.Do(req)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn(fmt.Sprintf("%s %s - error %s", r.method, r.url, err.Error()))
		}
		return nil, &TransportError{Op: r.method, URL: r.url, Err: err}
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: r.method, URL: r.url, Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if r.logger != nil {
			r.logger.Warn(fmt.Sprintf("%s %s - %d", r.method, req.URL, res.StatusCode))
		}
		return nil, &UpstreamError{StatusCode: res.StatusCode, Body: string(payload)}
	}

	if r.logger != nil {
		r.logger.Debug(fmt.Sprintf("%s %s - %d", r.method, req.URL, res.StatusCode))
	}

	return payload, nil
}

// getJSON runs the request and decodes the response body into obj.
func (r *request) getJSON(ctx context.Context, obj any) error {
	b, err := r.do(ctx)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, obj)
}

// Responses are reverse-engineered JSON; anything bigger than this is not a
// payload we know how to handle.
const maxResponseBytes = 8 << 20
