package firebase_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berachah-academy/ikigai-api/internal/adapter/repo/firebase"
	"github.com/berachah-academy/ikigai-api/internal/domain"
)

func sampleRecord() domain.AssessmentRecord {
	return domain.AssessmentRecord{
		User:           domain.Identity{Username: "mira", Email: "a.b@x.com"},
		TestID:         "t-42",
		CompletedAt:    "2026-08-30T10:00:00Z",
		Responses:      map[string]string{"L1": "A"},
		Scores:         domain.ElementScores{Love: 25, Skill: 25, World: 25, Paid: 25},
		AlignmentScore: 25,
		SubmittedAt:    time.Date(2026, 8, 30, 10, 0, 1, 0, time.UTC),
	}
}

func TestSave_ReplaceModePutsUnderSanitizedKey(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s := firebase.New(ts.URL, "ikigai/assessment-result", firebase.ModeReplace, time.Second)
	require.NoError(t, s.Save(context.Background(), sampleRecord()))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/ikigai/assessment-result/a_b_x_com.json", gotPath)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "t-42", payload["testId"])
	assert.Equal(t, 25.0, payload["ikigai_alignment_score"])
	user, ok := payload["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mira", user["username"])
	assert.NotEmpty(t, payload["submittedAt"])
}

func TestSave_AppendModePosts(t *testing.T) {
	var gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s := firebase.New(ts.URL, "ikigai/assessment-result", firebase.ModeAppend, time.Second)
	require.NoError(t, s.Save(context.Background(), sampleRecord()))
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestSave_NonSuccessStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("permission denied"))
	}))
	defer ts.Close()

	s := firebase.New(ts.URL, "node", firebase.ModeReplace, time.Second)
	err := s.Save(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestSave_UnreachableStoreIsError(t *testing.T) {
	s := firebase.New("http://127.0.0.1:1", "node", firebase.ModeReplace, 200*time.Millisecond)
	err := s.Save(context.Background(), sampleRecord())
	require.Error(t, err)
}

func TestSave_NoIdentityIsError(t *testing.T) {
	s := firebase.New("http://example.invalid", "node", firebase.ModeReplace, time.Second)
	rec := sampleRecord()
	rec.User = domain.Identity{}
	err := s.Save(context.Background(), rec)
	require.Error(t, err)
}

func TestStorageKey_SanitizesUnsafeCharacters(t *testing.T) {
	key := firebase.StorageKey(domain.Identity{Email: "a.b@x.com"})
	assert.Equal(t, "a_b_x_com", key)
	assert.NotContains(t, key, ".")
	assert.NotContains(t, key, "@")
}

func TestStorageKey_FallsBackToUsername(t *testing.T) {
	key := firebase.StorageKey(domain.Identity{Username: "mira#1"})
	assert.Equal(t, "mira_1", key)
}

func TestStorageKey_DocumentedCollision(t *testing.T) {
	// Distinct identities can map to the same key after substitution; replace
	// mode resolves this last-write-wins, append mode keeps both records.
	a := firebase.StorageKey(domain.Identity{Email: "a.b@x.com"})
	b := firebase.StorageKey(domain.Identity{Email: "a_b@x_com"})
	assert.Equal(t, a, b)
}
