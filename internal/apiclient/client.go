// Package apiclient talks to the marketplace REST API that owns coach and
// course data.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/saeid-a/CoachDashboard/internal/models"
)

var (
	ErrNotFound     = errors.New("upstream resource not found")
	ErrUnauthorized = errors.New("upstream rejected credentials")
)

// StatusError is returned for any other non-2xx upstream response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/dashboard/stats", nil, "")
	if err != nil {
		return nil, err
	}
	return decodeStats(body)
}

func (c *Client) ListCoaches(ctx context.Context) ([]models.CoachRecord, error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/coaches", nil, "")
	if err != nil {
		return nil, err
	}
	return decodeCoachList(body)
}

func (c *Client) GetCoach(ctx context.Context, id string) (*models.CoachRecord, error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/coaches/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, err
	}
	return decodeCoach(body)
}

func (c *Client) ApproveCoach(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, coachActionPath(id, "approve"), nil, "")
	return err
}

func (c *Client) RejectCoach(ctx context.Context, id string, reason string) error {
	return c.sendJSON(ctx, http.MethodPost, coachActionPath(id, "reject"), map[string]string{"reason": reason})
}

func (c *Client) SuspendCoach(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, coachActionPath(id, "suspend"), nil, "")
	return err
}

func (c *Client) ReactivateCoach(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, coachActionPath(id, "reactivate"), nil, "")
	return err
}

func (c *Client) UpdateCoachNotes(ctx context.Context, id string, notes string) error {
	return c.sendJSON(ctx, http.MethodPut, coachActionPath(id, "notes"), map[string]string{"notes": notes})
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", path, err)
	}
	_, err = c.do(ctx, method, path, bytes.NewReader(encoded), "application/json")
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
		}
		return nil, &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(responseBody)),
		}
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	return content, nil
}

func coachActionPath(id, action string) string {
	return "/admin/coaches/" + url.PathEscape(id) + "/" + action
}
