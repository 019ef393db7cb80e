// File: internal/apiclient/client.go

// Package apiclient talks to the profile backend: login, profile retrieval,
// token validation and job description parsing.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError carries the backend's HTTP status and message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client is a rate-limited HTTP client for the backend.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New builds a Client from the API configuration.
func New(cfg config.APIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger.Named("apiclient"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "",
		loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response contained no token")
	}
	return resp.Token, nil
}

// Profile fetches the stored profile for userID.
func (c *Client) Profile(ctx context.Context, token, userID string) (*schemas.Profile, error) {
	var p schemas.Profile
	err := c.do(ctx, http.MethodGet, "/api/profile/"+userID, token, nil, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	p.Normalize()
	return &p, nil
}

// ValidateToken probes the backend with the token. A 401 means the token is
// invalid; any 2xx (and any other non-401 response from an authenticated
// endpoint) counts as valid since the token was accepted.
func (c *Client) ValidateToken(ctx context.Context, token, userID string) (bool, error) {
	if userID == "" {
		userID = "1"
	}
	err := c.do(ctx, http.MethodGet, "/api/profile/"+userID, token, nil, nil)
	if err == nil {
		return true, nil
	}
	if IsUnauthorized(err) {
		return false, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		// Authenticated but e.g. profile missing: the token itself passed.
		return true, nil
	}
	return false, err
}

type parseJobRequest struct {
	JobDescription string `json:"jobDescription"`
	JobURL         string `json:"jobUrl,omitempty"`
}

// ParseJob submits an extracted job description for server-side analysis and
// returns the raw analysis payload.
func (c *Client) ParseJob(ctx context.Context, token, description, jobURL string) ([]byte, error) {
	var raw jsoniter.RawMessage
	err := c.do(ctx, http.MethodPost, "/api/jobs/parse", token,
		parseJobRequest{JobDescription: description, JobURL: jobURL}, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job description: %w", err)
	}
	return raw, nil
}

// do performs one rate-limited request. A non-nil body is JSON encoded; a
// non-nil out receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("Backend error response",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error payload.
func errorMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
