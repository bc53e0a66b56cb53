// Package advisor asks an HTTP tips service for a short wellbeing or
// productivity hint based on the most recent events.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/trivial-time-clock/internal/config"
	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
)

var (
	// ErrNoEvents is returned when there is no activity to summarise.
	ErrNoEvents = errors.New("no events to summarise")
	// ErrDisabled is returned when no endpoint is configured.
	ErrDisabled = errors.New("tips service not configured")
)

const (
	// FallbackTip is shown when the service cannot be reached.
	FallbackTip = "Keep a healthy balance between focus and rest. You deserve it!"
	// EmptyReplyTip is used when the service answers with no text.
	EmptyReplyTip = "You are doing a great job! Keep taking care of your time."

	recentCount  = 5
	systemPrompt = "You are a friendly workplace companion. Your tone is light, warm and encouraging."
)

// Summarize describes the n most recent events as "Clock in at 08:00:00, …",
// newest first.
func Summarize(events []model.Event, n int) string {
	sorted := slices.Clone(events)
	slices.SortFunc(sorted, func(a, b model.Event) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	parts := make([]string, 0, len(sorted))
	for _, e := range sorted {
		parts = append(parts, fmt.Sprintf("%s at %s", e.Label(), e.Timestamp.Format(timecalc.ClockLayout)))
	}
	return strings.Join(parts, ", ")
}

// Prompt builds the user prompt sent to the service.
func Prompt(events []model.Event) string {
	return fmt.Sprintf("Based on these latest time-clock records: %s. Give a short, friendly wellbeing or productivity tip. At most 20 words. Be motivating.",
		Summarize(events, recentCount))
}

// Client talks to the tips service.
type Client struct {
	endpoint    string
	model       string
	temperature float64
	http        *http.Client
}

type tipRequest struct {
	Model       string  `json:"model,omitempty"`
	System      string  `json:"system"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
}

type tipResponse struct {
	Text string `json:"text"`
}

// NewClient returns a client for cfg. apiKey, when non-empty, is sent as a
// bearer token through an oauth2 static token source.
func NewClient(ctx context.Context, cfg config.AdvisorConfig, apiKey string) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrDisabled
	}
	httpClient := &http.Client{Timeout: 15 * time.Second}
	if apiKey != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: apiKey,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = 15 * time.Second
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		http:        httpClient,
	}, nil
}

// Tip requests a tip for the given events.
func (c *Client) Tip(ctx context.Context, events []model.Event) (string, error) {
	if len(events) == 0 {
		return "", ErrNoEvents
	}

	body, err := json.Marshal(tipRequest{
		Model:       c.model,
		System:      systemPrompt,
		Prompt:      Prompt(events),
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding tip request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("tips request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tips service error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var tr tipResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return "", fmt.Errorf("decoding tips response: %w", err)
	}
	if text := strings.TrimSpace(tr.Text); text != "" {
		return text, nil
	}
	return EmptyReplyTip, nil
}
