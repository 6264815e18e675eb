// Package duckduckgo implements the live search port against the DuckDuckGo
// Instant Answer API. The endpoint is keyless; availability is probed once
// at startup.
package duckduckgo

import (
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

// Client queries the Instant Answer API and flattens the response into a
// plain text snippet block.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Config holds search client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a DuckDuckGo Instant Answer client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  cfg.Logger,
	}
}

// answerResponse is the subset of the Instant Answer payload we consume.
type answerResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// maxRelatedTopics bounds the snippet block fed into the prompt.
const maxRelatedTopics = 5

// Search runs one Instant Answer query and returns the flattened result
// text. An empty string with nil error means the provider had nothing.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	u := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&no_redirect=1&skip_disambig=1",
		c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read search response: %w", err)
	}

	var parsed answerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse search response: %w", err)
	}

	return flatten(&parsed), nil
}

// Probe checks provider reachability with a throwaway query.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Search(ctx, "agriculture")
	return err
}

func flatten(r *answerResponse) string {
	var parts []string

	if r.Answer != "" {
		parts = append(parts, r.Answer)
	}
	if r.AbstractText != "" {
		parts = append(parts, r.AbstractText)
	}

	count := 0
	for _, t := range r.RelatedTopics {
		if t.Text == "" {
			continue
		}
		parts = append(parts, t.Text)
		count++
		if count >= maxRelatedTopics {
			break
		}
	}

	return strings.Join(parts, "\n")
}
