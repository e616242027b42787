// Package stub provides a fast, deterministic generation provider for local
// development and tests, so the pipeline runs without real credentials.
package stub

import (
	"context"
	"encoding/json"
)

// Client returns canned structured feedback for every prompt.
type Client struct{}

// New constructs a stub provider.
func New() *Client { return &Client{} }

// Generate returns a compact JSON string matching the structured schema.
func (c *Client) Generate(_ context.Context, _ string, _ string) (string, error) {
	element := map[string]string{
		"summary":  "Exploring interests",
		"feedback": "Your answers show steady engagement with this area.",
		"todo":     "Dedicate two focused hours per week to it.",
	}
	payload := map[string]any{
		"love":  element,
		"skill": element,
		"world": element,
		"paid":  element,
		"overall": map[string]any{
			"feedback": "You are building a solid foundation; keep the momentum.",
			"plan": map[string]string{
				"week1": "List three activities that energize you.",
				"week2": "Practice your strongest skill daily.",
				"week3": "Volunteer for a cause you care about.",
				"week4": "Research roles that pay for your skills.",
			},
		},
	}
	b, _ := json.Marshal(payload)
	return string(b), nil
}
