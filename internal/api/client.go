// Package api is the typed HTTP client for the mood-tracking backend. Every
// exchange is a JSON request/response pair; the server is the source of truth
// for records, feedback and users, so this is the client's only data path.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ServerError carries the backend's human-readable failure message verbatim.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

// Client talks to one backend instance.
type Client struct {
	base string
	hc   *http.Client
	log  *zap.Logger
}

// New builds a client for base. A nil logger is replaced with a no-op one.
func New(base string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
		log:  log,
	}
}

// envelope is the common {success, message} wrapper on mutating exchanges.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Register creates an account. The server answers {message} with a non-2xx
// status on failure.
func (c *Client) Register(ctx context.Context, form RegisterForm) (string, error) {
	body, status, err := c.postJSON(ctx, "/register", form)
	if err != nil {
		return "", err
	}
	var env envelope
	_ = json.Unmarshal(body, &env)
	if status < 200 || status >= 300 || (len(body) > 0 && !env.Success) {
		return "", &ServerError{Status: status, Message: env.Message}
	}
	return env.Message, nil
}

// Login checks credentials. Absence of a 2xx status is the failure contract;
// the body's message, when present, is surfaced verbatim.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, status, err := c.postJSON(ctx, "/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		var env envelope
		_ = json.Unmarshal(body, &env)
		return &ServerError{Status: status, Message: env.Message}
	}
	return nil
}

// Records fetches every analysis record for username, in server order.
func (c *Client) Records(ctx context.Context, username string) ([]Record, error) {
	q := url.Values{"username": {username}}
	body, status, err := c.get(ctx, "/get_data?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var resp struct {
		envelope
		Data []Record `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if status < 200 || status >= 300 || !resp.Success {
		return nil, &ServerError{Status: status, Message: resp.Message}
	}
	return resp.Data, nil
}

// Analyze submits the signals and free text for scoring.
func (c *Client) Analyze(ctx context.Context, username string, in AnalysisInput) (*AnalysisResult, error) {
	payload := map[string]any{
		"username":     username,
		"mood":         in.Mood,
		"sleep":        in.Sleep,
		"activity":     in.Activity,
		"feeling_text": in.FeelingText,
	}
	body, status, err := c.postJSON(ctx, "/analyze", payload)
	if err != nil {
		return nil, err
	}
	var resp struct {
		envelope
		AnalysisResult
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if status < 200 || status >= 300 || !resp.Success {
		return nil, &ServerError{Status: status, Message: resp.Message}
	}
	res := resp.AnalysisResult
	return &res, nil
}

// SubmitFeedback records one rating for (record, challenge title). The server
// enforces at-most-once per pair; the client guard is only a fast path.
func (c *Client) SubmitFeedback(ctx context.Context, username string, recordID int64, title string, rating int) error {
	payload := map[string]any{
		"username":        username,
		"record_id":       recordID,
		"challenge_title": title,
		"rating":          rating,
	}
	body, status, err := c.postJSON(ctx, "/feedback", payload)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode feedback response: %w", err)
	}
	if status < 200 || status >= 300 || !env.Success {
		return &ServerError{Status: status, Message: env.Message}
	}
	return nil
}

// StartQuestionnaire fetches the fixed question set.
func (c *Client) StartQuestionnaire(ctx context.Context) ([]Question, error) {
	body, status, err := c.get(ctx, "/chatbot/start")
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		var env envelope
		_ = json.Unmarshal(body, &env)
		return nil, &ServerError{Status: status, Message: env.Message}
	}
	var resp struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return resp.Questions, nil
}

// SubmitQuestionnaire scores the accumulated answers.
func (c *Client) SubmitQuestionnaire(ctx context.Context, answers []int) (*ScreeningResult, error) {
	body, status, err := c.postJSON(ctx, "/chatbot/result", map[string]any{"answers": answers})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		var env envelope
		_ = json.Unmarshal(body, &env)
		return nil, &ServerError{Status: status, Message: env.Message}
	}
	var res ScreeningResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode screening result: %w", err)
	}
	return &res, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, 0, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if resp.StatusCode >= 300 {
		c.log.Debug("non-2xx response",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode))
	}
	return body, resp.StatusCode, nil
}
