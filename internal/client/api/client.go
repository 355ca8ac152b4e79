package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/voyago/tripsync/pkg/api"
)

//go:generate moq -out ../sync/apiclient_mock.go -pkg sync . ClientAPI

// ClientAPI is the HTTP surface of the sync server as seen by the client.
type ClientAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	Refresh(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error)
	PushBatch(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error)
	PullDelta(ctx context.Context, accessToken, entityType string, since int64) (*api.PullResponse, error)
}

const defaultTimeout = 30 * time.Second

// Client talks JSON over HTTP to the sync server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, log *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		log: log,
	}
}

func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", "", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Refresh(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/refresh", "", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) PushBatch(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
	var resp api.PushResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync/push", accessToken, req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) PullDelta(ctx context.Context, accessToken, entityType string, since int64) (*api.PullResponse, error) {
	q := url.Values{}
	q.Set("type", entityType)
	q.Set("since", strconv.FormatInt(since, 10))

	var resp api.PullResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/sync/pull?"+q.Encode(), accessToken, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if out == nil {
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}

		return nil
	}

	return c.errorFromResponse(resp)
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	var apiErr api.ErrorResponse

	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		msg = apiErr.Error
	}

	c.log.Debug("server returned error",
		"status", resp.StatusCode,
		"message", msg,
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthExpired
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity,
		resp.StatusCode == http.StatusConflict:
		return &ValidationError{Message: msg}
	case resp.StatusCode >= http.StatusInternalServerError:
		return &TransientError{Err: fmt.Errorf("server error: %s", msg)}
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
}
