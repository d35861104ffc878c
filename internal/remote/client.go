// Package remote is the HTTP client for the signup service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/signup/internal/config"
	"github.com/alexanderramin/signup/internal/domain"
	"github.com/google/uuid"
)

const (
	pathEmailTaken       = "/api/signup/email-taken"
	pathPasswordStrength = "/api/signup/password-strength"
	pathSignup           = "/api/signup"
	pathHealth           = "/api/health"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 1 << 20
)

// Client talks to the remote signup service.
type Client interface {
	// IsEmailTaken reports whether an account already uses email.
	IsEmailTaken(ctx context.Context, email string) (bool, error)

	// PasswordStrength asks the service to score password.
	PasswordStrength(ctx context.Context, password string) (domain.PasswordStrength, error)

	// Signup creates the account. It is never retried.
	Signup(ctx context.Context, creds domain.Credentials) error

	// Available checks whether the service is reachable.
	Available(ctx context.Context) bool
}

type httpClient struct {
	cfg      config.APIConfig
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client for the service at cfg.Endpoint.
func NewHTTPClient(cfg config.APIConfig, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

type emailTakenRequest struct {
	Email string `json:"email"`
}

type emailTakenResponse struct {
	Taken *bool `json:"taken"`
}

type strengthRequest struct {
	Password string `json:"password"`
}

type strengthResponse struct {
	Score       *int     `json:"score"`
	Warning     string   `json:"warning"`
	Suggestions []string `json:"suggestions"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message,omitempty"`
}

func (c *httpClient) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	var resp emailTakenResponse
	if err := c.call(ctx, OpEmailTaken, pathEmailTaken, emailTakenRequest{Email: email}, &resp, c.cfg.MaxRetries); err != nil {
		return false, err
	}
	if resp.Taken == nil {
		return false, fmt.Errorf("%w: missing \"taken\"", ErrInvalidResponse)
	}
	return *resp.Taken, nil
}

func (c *httpClient) PasswordStrength(ctx context.Context, password string) (domain.PasswordStrength, error) {
	var resp strengthResponse
	if err := c.call(ctx, OpPasswordStrength, pathPasswordStrength, strengthRequest{Password: password}, &resp, c.cfg.MaxRetries); err != nil {
		return domain.PasswordStrength{}, err
	}
	if resp.Score == nil {
		return domain.PasswordStrength{}, fmt.Errorf("%w: missing \"score\"", ErrInvalidResponse)
	}
	if !domain.ValidScore(*resp.Score) {
		return domain.PasswordStrength{}, fmt.Errorf("%w: score %d out of range", ErrInvalidResponse, *resp.Score)
	}
	return domain.PasswordStrength{
		Score:       *resp.Score,
		Warning:     plainText(resp.Warning),
		Suggestions: plainTexts(resp.Suggestions),
	}, nil
}

func (c *httpClient) Signup(ctx context.Context, creds domain.Credentials) error {
	var resp signupResponse
	err := c.call(ctx, OpSignup, pathSignup, signupRequest{Email: creds.Email, Password: creds.Password}, &resp, 0)
	if err != nil {
		return err
	}
	// An empty 2xx body counts as success.
	if resp.Success != nil && !*resp.Success {
		if msg := plainText(resp.Message); msg != "" {
			return fmt.Errorf("%w: %s", ErrRejected, msg)
		}
		return ErrRejected
	}
	return nil
}

func (c *httpClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+pathHealth, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusMultipleChoices
}

// call posts in to path and decodes the reply into out, retrying
// transient failures up to retries extra times.
func (c *httpClient) call(ctx context.Context, op Operation, path string, in, out any, retries int) error {
	start := time.Now()
	requestID := uuid.NewString()

	var lastErr error
	attempts := 0
	for attempts < 1+retries {
		attempts++
		lastErr = c.doRequest(ctx, path, requestID, in, out)
		if lastErr == nil {
			break
		}
		// Don't retry once the caller gave up or the failure is permanent.
		if ctx.Err() != nil || !retryable(lastErr) {
			break
		}
	}

	if lastErr != nil && ctx.Err() != nil {
		lastErr = fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
	if lastErr != nil && attempts > 1 {
		lastErr = fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
	}

	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		RequestID: requestID,
		Attempts:  attempts,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   lastErr == nil,
		ErrorCode: ErrorCode(lastErr),
	})
	return lastErr
}

func (c *httpClient) doRequest(ctx context.Context, path, requestID string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return transportError(ctx, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return transportError(ctx, fmt.Errorf("reading response: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &StatusError{Code: httpResp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), 200)}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// transportError classifies a failed round trip.
func transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	return false
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so the body stays valid UTF-8.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
