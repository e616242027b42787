package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berachah-academy/ikigai-api/internal/adapter/ai/stub"
	httpserver "github.com/berachah-academy/ikigai-api/internal/adapter/httpserver"
	"github.com/berachah-academy/ikigai-api/internal/config"
	"github.com/berachah-academy/ikigai-api/internal/domain"
	"github.com/berachah-academy/ikigai-api/internal/questionbank"
	"github.com/berachah-academy/ikigai-api/internal/scoring"
	"github.com/berachah-academy/ikigai-api/internal/service/feedback"
	"github.com/berachah-academy/ikigai-api/internal/usecase"
)

type exhaustedProvider struct{}

func (exhaustedProvider) Generate(context.Context, string, string) (string, error) {
	return "", errors.New("429 quota exceeded")
}

func newTestServer(t *testing.T, creds ...feedback.Credential) *httpserver.Server {
	t.Helper()
	bank, err := questionbank.Load(filepath.Join("testdata", "questions.json"), domain.DefaultAlphabet())
	require.NoError(t, err)
	keys := map[domain.Element][]string{}
	for _, el := range domain.Elements() {
		keys[el] = bank.Keys(el)
	}
	rubric, err := scoring.NewRubric(domain.DefaultAlphabet(), keys, scoring.DefaultWeights())
	require.NoError(t, err)
	if creds == nil {
		creds = []feedback.Credential{{Name: "stub", Provider: stub.New()}}
	}
	gen := feedback.NewGenerator("test-model", feedback.ModeStructured, time.Second, creds...)
	assess := usecase.NewAssessService(bank, rubric, gen, nil, time.Second)
	return httpserver.NewServer(config.Config{AppEnv: "test"}, assess, bank.Size(), len(creds))
}

func postIkigai(t *testing.T, srv *httpserver.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ikigai", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.IkigaiHandler().ServeHTTP(rec, req)
	return rec
}

const validBody = `{
  "user": {"username": "mira", "email": "mira@x.com"},
  "responses": {"L1": "D", "L2": "D", "S1": "D", "W1": "D", "P1": "D"},
  "testId": "t-1",
  "finishTime": "2026-08-30T10:00:00Z"
}`

func TestIkigaiHandler_Success(t *testing.T) {
	srv := newTestServer(t)
	rec := postIkigai(t, srv, validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Scores         domain.ElementScores `json:"ikigai_scores"`
		AlignmentScore float64              `json:"ikigai_alignment_score"`
		Feedback       domain.Feedback      `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 100.00, resp.Scores.Love)
	assert.Equal(t, 100.00, resp.AlignmentScore)
	assert.NotEmpty(t, resp.Feedback.Overall.Plan.Week1)
}

func TestIkigaiHandler_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)
	rec := postIkigai(t, srv, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestIkigaiHandler_EmptyResponses(t *testing.T) {
	srv := newTestServer(t)
	rec := postIkigai(t, srv, `{"user": {"username": "mira"}, "responses": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestIkigaiHandler_MissingUsername(t *testing.T) {
	srv := newTestServer(t)
	rec := postIkigai(t, srv, `{"user": {}, "responses": {"L1": "A"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username")
}

func TestIkigaiHandler_MissingQuestionKeyNamedInError(t *testing.T) {
	srv := newTestServer(t)
	body := `{"user": {"username": "mira"}, "responses": {"L1": "A", "L2": "A", "S1": "A", "W1": "A"}}`
	rec := postIkigai(t, srv, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "P1")
}

func TestIkigaiHandler_InvalidLetterNamedInError(t *testing.T) {
	srv := newTestServer(t)
	body := `{"user": {"username": "mira"}, "responses": {"L1": "Z", "L2": "A", "S1": "A", "W1": "A", "P1": "A"}}`
	rec := postIkigai(t, srv, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "L1")
	assert.Contains(t, rec.Body.String(), "Z")
}

func TestIkigaiHandler_GenerationExhaustedIncludesDiagnostic(t *testing.T) {
	srv := newTestServer(t, feedback.Credential{Name: "key1", Provider: exhaustedProvider{}})
	rec := postIkigai(t, srv, validBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "GENERATION_EXHAUSTED")
	assert.Contains(t, rec.Body.String(), "quota exceeded")
}

func TestReadyzHandler_ReadyAndNotReady(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ReadyzHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	empty := httpserver.NewServer(config.Config{AppEnv: "test"}, usecase.AssessService{}, 0, 0)
	rec = httptest.NewRecorder()
	empty.ReadyzHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
