package feedback_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berachah-academy/ikigai-api/internal/domain"
	"github.com/berachah-academy/ikigai-api/internal/service/feedback"
)

const validStructured = `{
  "love": {"summary": "Exploring interests", "feedback": "You enjoy building.", "todo": "Build weekly."},
  "skill": {"summary": "Needs practice", "feedback": "Solid base.", "todo": "Practice daily."},
  "world": {"summary": "Growing awareness", "feedback": "You care about impact.", "todo": "Volunteer."},
  "paid": {"summary": "Early stage", "feedback": "Research the market.", "todo": "List paying roles."},
  "overall": {"feedback": "Good trajectory.", "plan": {"week1": "a", "week2": "b", "week3": "c", "week4": "d"}}
}`

func TestParseStructured_Valid(t *testing.T) {
	fb, err := feedback.ParseStructured(validStructured)
	require.NoError(t, err)
	assert.Equal(t, "Exploring interests", fb.Love.Summary)
	assert.Equal(t, "Practice daily.", fb.Skill.Todo)
	assert.Equal(t, "Good trajectory.", fb.Overall.Feedback)
	assert.Equal(t, "d", fb.Overall.Plan.Week4)
}

func TestParseStructured_StripsCodeFences(t *testing.T) {
	fb, err := feedback.ParseStructured("```json\n" + validStructured + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "You care about impact.", fb.World.Feedback)
}

func TestParseStructured_RepairsSlightlyMalformedJSON(t *testing.T) {
	// Trailing comma is invalid JSON but repairable.
	malformed := `{
  "love": {"summary": "s", "feedback": "f", "todo": "t"},
  "skill": {"summary": "s", "feedback": "f", "todo": "t"},
  "world": {"summary": "s", "feedback": "f", "todo": "t"},
  "paid": {"summary": "s", "feedback": "f", "todo": "t"},
  "overall": {"feedback": "f", "plan": {"week1": "a", "week2": "b", "week3": "c", "week4": "d"},},
}`
	fb, err := feedback.ParseStructured(malformed)
	require.NoError(t, err)
	assert.Equal(t, "f", fb.Overall.Feedback)
}

func TestParseStructured_NotJSON(t *testing.T) {
	_, err := feedback.ParseStructured("I am sorry, I cannot help with that.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaInvalid))
}

func TestParseStructured_MissingElementKey(t *testing.T) {
	missing := `{
  "love": {"summary": "s", "feedback": "f", "todo": "t"},
  "skill": {"summary": "s", "feedback": "f", "todo": "t"},
  "world": {"summary": "s", "feedback": "f", "todo": "t"},
  "overall": {"feedback": "f", "plan": {"week1": "a", "week2": "b", "week3": "c", "week4": "d"}}
}`
	_, err := feedback.ParseStructured(missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaInvalid))
	assert.Contains(t, err.Error(), "paid")
}

func TestParseStructured_IncompleteOverall(t *testing.T) {
	missing := `{
  "love": {"summary": "s", "feedback": "f", "todo": "t"},
  "skill": {"summary": "s", "feedback": "f", "todo": "t"},
  "world": {"summary": "s", "feedback": "f", "todo": "t"},
  "paid": {"summary": "s", "feedback": "f", "todo": "t"},
  "overall": {"feedback": "f"}
}`
	_, err := feedback.ParseStructured(missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaInvalid))
	assert.Contains(t, err.Error(), "overall")
}

func TestParseLines_BuildsMapping(t *testing.T) {
	raw := "LOVE: follow your energy\nskill: keep practicing\nWORLD: find your cause\nPAID: research roles\nOVERALL: steady progress\n"
	fb := feedback.ParseLines(raw)
	assert.Equal(t, "follow your energy", fb.Love.Feedback)
	assert.Equal(t, "keep practicing", fb.Skill.Feedback)
	assert.Equal(t, "find your cause", fb.World.Feedback)
	assert.Equal(t, "research roles", fb.Paid.Feedback)
	assert.Equal(t, "steady progress", fb.Overall.Feedback)
}

func TestParseLines_IgnoresColonlessAndUnknownLines(t *testing.T) {
	raw := "here is your feedback\nLOVE: ok\nMAGIC: nope\nparting words"
	fb := feedback.ParseLines(raw)
	assert.Equal(t, "ok", fb.Love.Feedback)
	assert.Empty(t, fb.Skill.Feedback)
	assert.Empty(t, fb.Overall.Feedback)
}

func TestParseLines_WorstCaseIsSparseNotError(t *testing.T) {
	fb := feedback.ParseLines("no structure at all")
	assert.Equal(t, feedback.ParseLines(""), fb)
}
