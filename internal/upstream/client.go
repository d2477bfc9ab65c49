// Package upstream wraps the remote record API that owns student and
// medication records. Every response uses the {success, data?, message?}
// envelope; success=false or missing data on a write is a failure
// regardless of HTTP status.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/schoolmed/healthdesk/internal/app/models"
)

// Config holds the remote record API settings: base URL, service-account
// credentials for Bearer-token auth, and the per-request timeout.
type Config struct {
	BaseURL  string
	Email    string
	Password string
}

// Client talks to the remote record API. Safe for concurrent use; the
// service-account token is refreshed lazily before expiry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	auth       *tokenSource
}

// NewClient creates a Client. The http.Client carries the timeout; a nil
// httpClient falls back to http.DefaultClient.
func NewClient(cfg Config, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
	c.auth = newTokenSource(c, cfg.Email, cfg.Password)
	return c
}

// envelope is the wire shape of every remote record API response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// do performs one authenticated request and decodes the envelope into out.
// isWrite enforces the "missing data on a write is a failure" rule.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}, isWrite bool) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.auth.token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote record API request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected response from record API (status %d)", resp.StatusCode)}
	}

	if !env.Success || (isWrite && out != nil && len(env.Data) == 0) {
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", env.Message).
			Msg("Remote record API reported failure")
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode record API data: %w", err)
		}
	}
	return nil
}

// CreateStudent creates a student record upstream.
func (c *Client) CreateStudent(ctx context.Context, payload interface{}) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPost, "/api/v1/students", payload, &student, true); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudent applies a partial patch to a student record upstream.
func (c *Client) UpdateStudent(ctx context.Context, id string, patch map[string]interface{}) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPut, "/api/v1/students/"+id, patch, &student, true); err != nil {
		return nil, err
	}
	return &student, nil
}

// DeleteStudent soft-deletes a student record upstream; the record is
// marked inactive, not physically removed.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/students/"+id, nil, nil, false)
}

// GetStudent retrieves one student record.
func (c *Client) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodGet, "/api/v1/students/"+id, nil, &student, false); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListStudents retrieves the student collection.
func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := c.do(ctx, http.MethodGet, "/api/v1/students", nil, &students, false); err != nil {
		return nil, err
	}
	return students, nil
}

// CreateMedication creates a medication record upstream.
func (c *Client) CreateMedication(ctx context.Context, payload interface{}) (*models.Medication, error) {
	var medication models.Medication
	if err := c.do(ctx, http.MethodPost, "/api/v1/medications", payload, &medication, true); err != nil {
		return nil, err
	}
	return &medication, nil
}

// UpdateMedication applies a partial patch to a medication record upstream.
func (c *Client) UpdateMedication(ctx context.Context, id string, patch map[string]interface{}) (*models.Medication, error) {
	var medication models.Medication
	if err := c.do(ctx, http.MethodPut, "/api/v1/medications/"+id, patch, &medication, true); err != nil {
		return nil, err
	}
	return &medication, nil
}

// DeleteMedication soft-deletes a medication record upstream.
func (c *Client) DeleteMedication(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/medications/"+id, nil, nil, false)
}

// GetMedication retrieves one medication record.
func (c *Client) GetMedication(ctx context.Context, id string) (*models.Medication, error) {
	var medication models.Medication
	if err := c.do(ctx, http.MethodGet, "/api/v1/medications/"+id, nil, &medication, false); err != nil {
		return nil, err
	}
	return &medication, nil
}

// ListMedications retrieves the medication collection.
func (c *Client) ListMedications(ctx context.Context) ([]models.Medication, error) {
	var medications []models.Medication
	if err := c.do(ctx, http.MethodGet, "/api/v1/medications", nil, &medications, false); err != nil {
		return nil, err
	}
	return medications, nil
}
