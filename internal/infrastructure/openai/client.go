package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/baechuer/france-explorer/internal/application/location"
	"github.com/baechuer/france-explorer/internal/infrastructure/breaker"
	"github.com/baechuer/france-explorer/internal/metrics"
	appCtx "github.com/baechuer/france-explorer/internal/pkg/context"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

var ErrNotConfigured = errors.New("openai: api key not configured")

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client generates town descriptions through the chat completions API.
type Client struct {
	cfg Config
	cb  *gobreaker.CircuitBreaker[string]
}

var _ location.Generator = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		cfg: cfg,
		cb:  breaker.New[string]("openai", breaker.Settings{}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, in location.GenerateInput) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		metrics.DescriptionGenerationFailuresTotal.Inc()
		return "", ErrNotConfigured
	}

	text, err := c.cb.Execute(func() (string, error) {
		return c.complete(ctx, buildMessages(in))
	})
	if err != nil {
		metrics.DescriptionGenerationFailuresTotal.Inc()
		return "", err
	}
	return text, nil
}

func buildMessages(in location.GenerateInput) []chatMessage {
	system := "You are a knowledgeable travel guide for France. " +
		"Write factual, engaging descriptions of French towns in two or three short paragraphs. " +
		"Answer only in the language whose BCP-47 tag is given."

	user := fmt.Sprintf(
		"Describe the town of %s, in the department of %s, in the region of %s, France. Language: %s.",
		in.TownName, in.DepartmentName, in.RegionName, in.Language,
	)

	return []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if id := appCtx.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("completion request status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload chatResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}

	text := strings.TrimSpace(payload.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("completion response is empty")
	}
	return text, nil
}
