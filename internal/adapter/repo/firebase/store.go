// Package firebase persists assessment records to a Firebase Realtime
// Database over its REST interface (key/value-over-HTTP, no SDK needed).
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/berachah-academy/ikigai-api/internal/domain"
)

// Mode selects the write semantics.
type Mode string

const (
	// ModeReplace PUTs the record under its key; resubmission overwrites.
	ModeReplace Mode = "replace"
	// ModeAppend POSTs the record under its key; resubmissions coexist and
	// are distinguished by the submittedAt timestamp in the payload.
	ModeAppend Mode = "append"
)

// Store implements domain.RecordStore against a Firebase RTDB endpoint.
type Store struct {
	baseURL string
	node    string
	mode    Mode
	hc      *http.Client
}

// New constructs a Store. timeout bounds each write so a hung store cannot
// stall its caller.
func New(baseURL, node string, mode Mode, timeout time.Duration) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		node:    strings.Trim(node, "/"),
		mode:    mode,
		hc:      &http.Client{Timeout: timeout},
	}
}

// Save writes rec under its derived storage key. The orchestrator invokes
// Save from a detached task; the error return exists for logging and tests.
func (s *Store) Save(ctx context.Context, rec domain.AssessmentRecord) error {
	key := StorageKey(rec.User)
	if key == "" {
		return fmt.Errorf("%w: record has no email or username", domain.ErrInvalidArgument)
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("firebase marshal: %w", err)
	}

	method := http.MethodPut
	if s.mode == ModeAppend {
		method = http.MethodPost
	}
	url := fmt.Sprintf("%s/%s/%s.json", s.baseURL, s.node, key)
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("firebase request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("firebase write: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("firebase write: status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}

// keySanitizer maps characters Firebase forbids in keys (plus '@' and spaces)
// to underscores. Distinct inputs can collide after substitution
// ("a.b@x.com" and "a_b@x_com" share a key); replace mode resolves collisions
// as last-write-wins, append mode keeps both records.
var keySanitizer = strings.NewReplacer(
	".", "_",
	"$", "_",
	"#", "_",
	"[", "_",
	"]", "_",
	"/", "_",
	"@", "_",
	" ", "_",
)

// StorageKey derives the record key: email preferred, username as fallback,
// unsafe characters replaced.
func StorageKey(u domain.Identity) string {
	id := u.Email
	if id == "" {
		id = u.Username
	}
	return keySanitizer.Replace(id)
}
