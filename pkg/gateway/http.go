package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atriumhq/atrium/pkg/models"
)

const defaultTimeoutSeconds = 30

// RetryConfig bounds the retry behavior applied to update calls. Updates are
// full-document upserts, so replaying one is safe; create and publish are
// never retried to keep their effects single-shot.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

// Config configures the HTTP gateway. BaseURL is the single externally
// significant setting of the wizard engine.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	UpdateRetry RetryConfig
	Logger      *slog.Logger
}

// HTTPGateway implements Gateway over the drafts REST API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	retry   RetryConfig
	logger  *slog.Logger
}

// NewHTTPGateway creates a gateway client. A missing timeout defaults to a
// conservative 30s; expiry is treated as an ordinary failure.
func NewHTTPGateway(cfg Config) (*HTTPGateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway base URL is required")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid gateway base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds * time.Second
	}

	retry := cfg.UpdateRetry
	if retry.Attempts <= 0 {
		retry.Attempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		retry:   retry,
		logger:  logger,
	}, nil
}

// envelope is the response wrapper every drafts API endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type createPayload struct {
	Type models.DraftType `json:"draft_type"`
}

type updatePayload struct {
	Data   models.FormData    `json:"draft_data"`
	Status models.DraftStatus `json:"draft_status"`
}

func (g *HTTPGateway) Create(ctx context.Context, draftType models.DraftType) (string, error) {
	env, err := g.do(ctx, http.MethodPost, "/drafts", createPayload{Type: draftType})
	if err != nil {
		return "", err
	}

	var draft models.Draft
	if err := json.Unmarshal(env.Data, &draft); err != nil {
		return "", fmt.Errorf("failed to decode create response: %w", err)
	}

	if draft.ID == "" {
		return "", fmt.Errorf("create response carried no draft id: %w", ErrRequestFailed)
	}

	return draft.ID, nil
}

func (g *HTTPGateway) Update(ctx context.Context, draftID string, data models.FormData, status models.DraftStatus) error {
	payload := updatePayload{Data: data, Status: status}

	var lastErr error

	for attempt := 1; attempt <= g.retry.Attempts; attempt++ {
		_, err := g.do(ctx, http.MethodPatch, "/drafts/"+draftID, payload)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt < g.retry.Attempts {
			g.logger.WarnContext(ctx, "Draft update failed, retrying",
				"draft_id", draftID, "attempt", attempt, "error", err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(g.retry.Delay * time.Duration(attempt)):
			}
		}
	}

	return lastErr
}

func (g *HTTPGateway) Get(ctx context.Context, draftID string) (*models.Draft, error) {
	env, err := g.do(ctx, http.MethodGet, "/drafts/"+draftID, nil)
	if err != nil {
		return nil, err
	}

	var draft models.Draft
	if err := json.Unmarshal(env.Data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}

	return &draft, nil
}

func (g *HTTPGateway) Delete(ctx context.Context, draftID string) error {
	_, err := g.do(ctx, http.MethodDelete, "/drafts/"+draftID, nil)

	return err
}

func (g *HTTPGateway) Publish(ctx context.Context, draftID string) error {
	_, err := g.do(ctx, http.MethodPost, "/drafts/"+draftID+"/publish", nil)

	return err
}

func (g *HTTPGateway) List(ctx context.Context, draftType models.DraftType) ([]models.DraftSummary, error) {
	env, err := g.do(ctx, http.MethodGet, "/drafts?type="+url.QueryEscape(string(draftType)), nil)
	if err != nil {
		return nil, err
	}

	var summaries []models.DraftSummary
	if err := json.Unmarshal(env.Data, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode draft summaries: %w", err)
	}

	return summaries, nil
}

// do performs one request and normalizes the response: non-2xx statuses and
// success:false envelopes both surface as errors.
func (g *HTTPGateway) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	var body io.Reader

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("draft request failed: %w", err)
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			g.logger.Warn("Failed to close response body", "error", cerr)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrDraftNotFound
	}

	if resp.StatusCode == http.StatusNoContent {
		return &envelope{Success: true}, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
		}

		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("status %d", resp.StatusCode)
		}

		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, message)
	}

	return &env, nil
}
