package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/google/uuid"
)

const (
	pathLogin       = "/auth/login"
	pathRegister    = "/auth/register"
	pathCurrentUser = "/api/users/current-user"
	pathTasks       = "/api/tasks/"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL. A zero
// timeout leaves requests unbounded apart from the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctx.Err())
		}
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &HTTPError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: mapStatus(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w: %v", method, path, ErrRequestFailed, err)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	raw := map[string]any{}
	if err := c.do(ctx, http.MethodPost, pathLogin, "", models.Credentials{Email: email, Password: password}, &raw); err != nil {
		return nil, err
	}

	token, _ := raw["access_token"].(string)
	if token == "" {
		return nil, fmt.Errorf("POST %s: %w: no access_token in response", pathLogin, ErrRequestFailed)
	}
	return &models.LoginResponse{AccessToken: token, Raw: raw}, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.RegisterResponse, error) {
	var resp models.RegisterResponse
	if err := c.do(ctx, http.MethodPost, pathRegister, "", models.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, pathCurrentUser, token, nil, &user)

	// A malformed token is answered with 422 on this endpoint.
	var he *HTTPError
	if errors.As(err, &he) && he.StatusCode == http.StatusUnprocessableEntity {
		he.Err = ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, pathTasks, token, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, token string, task models.NewTask) (string, error) {
	var resp models.MessageResponse
	if err := c.do(ctx, http.MethodPost, pathTasks, token, task, &resp); err != nil {
		return "", err
	}
	return resp.Msg, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, token string, id int64, patch models.TaskPatch) (string, error) {
	var resp models.MessageResponse
	if err := c.do(ctx, http.MethodPut, taskPath(id), token, patch, &resp); err != nil {
		return "", err
	}
	return resp.Msg, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, token string, id int64) (string, error) {
	var resp models.MessageResponse
	if err := c.do(ctx, http.MethodDelete, taskPath(id), token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Msg, nil
}

func taskPath(id int64) string {
	return pathTasks + strconv.FormatInt(id, 10)
}
