package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/config"
	"github.com/hashicorp/go-retryablehttp"
)

const defaultSuccessMessage = "OK"

var tidPattern = regexp.MustCompile(`(?i)tid([A-Za-z0-9]+)`)

// retryLogger sends retryablehttp's messages to slog.
type retryLogger struct {
	logger *slog.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

// Option configures a Client.
type Option func(*retryablehttp.Client)

// WithRetryWait overrides the backoff bounds between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = minWait
		c.RetryWaitMax = maxWait
	}
}

// Client calls the remote chat backend over HTTP.
// The session and last request IDs are kept per client.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu        sync.RWMutex
	sessionID string
	requestID string
}

// NewClient creates a client for the backend described by cfg.
func NewClient(cfg config.APIConfig, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.Logger = &retryLogger{logger: slog.Default().With("component", "api")}
	for _, opt := range opts {
		opt(retryClient)
	}

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// SessionID returns the session opened by Initialize.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// RequestID returns the request ID of the last chat answer.
func (c *Client) RequestID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requestID
}

// Profile resolves a login code to a customer.
func (c *Client) Profile(ctx context.Context, code string) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.post(ctx, "/profile", map[string]string{"code": code}, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &resp, nil
}

// Initialize opens a chat session and remembers its ID.
func (c *Client) Initialize(ctx context.Context, device, version DeviceInfo) (*InitializeResponse, error) {
	body := map[string]string{
		"device":        device.String(),
		"deviceVersion": version.String(),
	}

	var resp InitializeResponse
	if err := c.post(ctx, "/initialize", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	c.mu.Lock()
	c.sessionID = resp.SessionID
	c.mu.Unlock()

	slog.Debug("chat session initialized", "session_id", resp.SessionID, "used", resp.UsedAmount, "limit", resp.RequestLimitAmount)
	return &resp, nil
}

type chatRequest struct {
	Tid               *string `json:"tid"`
	QuestionCondition *string `json:"questionCondition"`
	SessionID         string  `json:"sessionId"`
	Message           string  `json:"message"`
	IsDefault         bool    `json:"isDefault"`
}

// ExtractTid returns the transaction ID embedded in input as "tid<alnum>".
func ExtractTid(input string) (string, bool) {
	m := tidPattern.FindStringSubmatch(input)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Chat sends one question.
func (c *Client) Chat(ctx context.Context, input string) (*ChatResponse, error) {
	req := chatRequest{
		SessionID: c.SessionID(),
		Message:   input,
	}
	if tid, ok := ExtractTid(input); ok {
		req.Tid = &tid
	}

	var resp ChatResponse
	if err := c.post(ctx, "/chat", req, &resp); err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	if resp.Code == "" {
		resp.Code = CodeSuccess
	}
	if resp.Message == "" && resp.Code == CodeSuccess {
		resp.Message = defaultSuccessMessage
	}
	if resp.RequestID != "" {
		c.mu.Lock()
		c.requestID = resp.RequestID
		c.mu.Unlock()
	}
	return &resp, nil
}

// Feedback marks an answer as unhelpful and returns the follow-up options.
func (c *Client) Feedback(ctx context.Context, requestID string) (*FeedbackResponse, error) {
	body := map[string]any{
		"sessionId": c.SessionID(),
		"requestId": requestID,
		"evaluate":  true,
	}

	var resp FeedbackResponse
	if err := c.post(ctx, "/feedback", body, &resp); err != nil {
		return nil, fmt.Errorf("feedback request failed: %w", err)
	}
	return &resp, nil
}

// Comment sends the reason picked after a thumbs-down.
func (c *Client) Comment(ctx context.Context, requestID, optionID, content string) (*CommentResponse, error) {
	body := map[string]string{
		"sessionId":     c.SessionID(),
		"requestId":     requestID,
		"optionId":      optionID,
		"optionCentent": content,
	}

	var resp CommentResponse
	if err := c.post(ctx, "/comment", body, &resp); err != nil {
		return nil, fmt.Errorf("comment request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Debug("failed to close response body", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %d: %s", common.ErrUnexpectedStatus, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
