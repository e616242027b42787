// Package gemini implements a generation provider backed by the Google
// Gemini API. One Client is constructed per credential slot; the fallback
// ordering across clients lives in the feedback service.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/berachah-academy/ikigai-api/internal/domain"
)

// Client wraps a single-credential genai client.
type Client struct {
	client *genai.Client
	name   string
}

// New constructs a Client for one API key. name labels the credential slot in
// logs and metrics; the key itself never appears in errors.
func New(ctx context.Context, apiKey, name string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: empty API key for %s", domain.ErrInvalidArgument, name)
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini client %s: %w", name, err)
	}
	return &Client{client: c, name: name}, nil
}

// Name returns the credential slot label.
func (c *Client) Name() string { return c.name }

// Generate issues a single generation call and returns the trimmed text.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate (%s): %w", c.name, err)
	}
	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", fmt.Errorf("gemini generate (%s): empty response", c.name)
	}
	return text, nil
}
