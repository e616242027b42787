// Package feedback builds the generation prompt, walks the ordered credential
// fallback, and normalizes provider output into the feedback schema.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/berachah-academy/ikigai-api/internal/adapter/observability"
	"github.com/berachah-academy/ikigai-api/internal/domain"
)

// Mode selects how provider output is parsed. Fixed per deployment.
type Mode string

const (
	// ModeStructured expects a single strict-schema JSON object.
	ModeStructured Mode = "structured"
	// ModeLines expects "ELEMENT: advice" plain-text lines.
	ModeLines Mode = "lines"
)

// Credential is one ordered fallback slot. A nil Provider marks an unset slot
// and is skipped without an external call.
type Credential struct {
	Name     string
	Provider domain.FeedbackProvider
}

// Generator produces personalized feedback through an ordered-credential
// fallback: exactly one generation call per present credential per request,
// no same-credential retries or backoff (the upstream quota rotation across
// credentials is the retry strategy).
type Generator struct {
	creds   []Credential
	model   string
	mode    Mode
	timeout time.Duration
}

// NewGenerator constructs a Generator. timeout bounds each individual
// provider call so a hung upstream advances the fallback instead of stalling
// the request.
func NewGenerator(model string, mode Mode, timeout time.Duration, creds ...Credential) *Generator {
	return &Generator{creds: creds, model: model, mode: mode, timeout: timeout}
}

// Generate builds the prompt once and attempts each credential in order until
// one yields output that parses into the feedback schema. On exhaustion the
// returned error wraps domain.ErrGenerationExhausted and carries the most
// recent failure for diagnostics; credential values are never included.
func (g *Generator) Generate(ctx context.Context, username, transcript string, scores domain.ElementScores, alignment float64) (domain.Feedback, error) {
	lg := observability.LoggerFromContext(ctx)
	prompt := BuildPrompt(g.mode, username, transcript, scores, alignment)

	var lastErr error
	for _, cred := range g.creds {
		if cred.Provider == nil {
			continue
		}
		raw, err := g.attempt(ctx, cred, prompt)
		if err != nil {
			lastErr = err
			observability.GenerationAttemptsTotal.WithLabelValues(cred.Name, "call_error").Inc()
			lg.Warn("generation attempt failed",
				slog.String("credential", cred.Name),
				slog.Any("error", err))
			continue
		}
		fb, err := g.parse(raw)
		if err != nil {
			lastErr = err
			observability.GenerationAttemptsTotal.WithLabelValues(cred.Name, "parse_error").Inc()
			lg.Warn("generation output unparseable",
				slog.String("credential", cred.Name),
				slog.Any("error", err))
			continue
		}
		observability.GenerationAttemptsTotal.WithLabelValues(cred.Name, "success").Inc()
		lg.Info("feedback generated", slog.String("credential", cred.Name))
		return fb, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no credentials configured")
	}
	return domain.Feedback{}, fmt.Errorf("%w: all credentials exhausted, last error: %v", domain.ErrGenerationExhausted, lastErr)
}

func (g *Generator) attempt(ctx context.Context, cred Credential, prompt string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	start := time.Now()
	raw, err := cred.Provider.Generate(cctx, g.model, prompt)
	observability.GenerationDuration.WithLabelValues(cred.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
		}
		return "", err
	}
	return raw, nil
}

func (g *Generator) parse(raw string) (domain.Feedback, error) {
	if g.mode == ModeLines {
		return ParseLines(raw), nil
	}
	return ParseStructured(raw)
}
