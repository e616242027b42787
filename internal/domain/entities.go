// Package domain holds the core entities, ports, and error taxonomy of the
// Ikigai assessment service.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrGenerationExhausted = errors.New("generation exhausted")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrSchemaInvalid       = errors.New("schema invalid")
	ErrInternal            = errors.New("internal error")
)

// Element is one of the four Ikigai dimensions.
type Element string

const (
	ElementLove  Element = "love"
	ElementSkill Element = "skill"
	ElementWorld Element = "world"
	ElementPaid  Element = "paid"
)

// Elements returns the four dimensions in canonical scoring order.
func Elements() []Element {
	return []Element{ElementLove, ElementSkill, ElementWorld, ElementPaid}
}

// Alphabet is the ordered set of recognized option letters. The numeric score
// of a letter is its position + 1, so the maximum score always tracks the
// alphabet size rather than a hard-coded constant.
type Alphabet []string

// DefaultAlphabet is the four-letter A..D rubric.
func DefaultAlphabet() Alphabet { return Alphabet{"A", "B", "C", "D"} }

// Score returns the numeric score of letter and whether it is recognized.
func (a Alphabet) Score(letter string) (int, bool) {
	for i, l := range a {
		if l == letter {
			return i + 1, true
		}
	}
	return 0, false
}

// MaxScore returns the highest achievable score for a single option.
func (a Alphabet) MaxScore() int { return len(a) }

// Letter returns the option letter for a 1-based score, or "" if out of range.
func (a Alphabet) Letter(score int) string {
	if score < 1 || score > len(a) {
		return ""
	}
	return a[score-1]
}

// Option is a single answer choice of a question.
// Invariant: within a question, letters are unique and scores strictly
// increase with letter ordinal.
type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
	Score  int    `json:"score"`
}

// Question is an immutable question-bank entry. Key is the response key the
// client submits answers under (element initial + 1-based ordinal, e.g. "L1").
type Question struct {
	Key     string   `json:"key"`
	Element Element  `json:"element"`
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

// ElementScores holds the normalized percentage score per dimension, each in
// [0,100]. Derived once per request, never mutated.
type ElementScores struct {
	Love  float64 `json:"love"`
	Skill float64 `json:"skill"`
	World float64 `json:"world"`
	Paid  float64 `json:"paid"`
}

// Get returns the score for el.
func (s ElementScores) Get(el Element) float64 {
	switch el {
	case ElementLove:
		return s.Love
	case ElementSkill:
		return s.Skill
	case ElementWorld:
		return s.World
	case ElementPaid:
		return s.Paid
	}
	return 0
}

// WeeklyPlan is the overall 30-day action plan broken into weekly steps.
type WeeklyPlan struct {
	Week1 string `json:"week1"`
	Week2 string `json:"week2"`
	Week3 string `json:"week3"`
	Week4 string `json:"week4"`
}

// ElementFeedback is the per-dimension feedback block.
type ElementFeedback struct {
	Summary  string `json:"summary"`
	Feedback string `json:"feedback"`
	Todo     string `json:"todo"`
}

// OverallFeedback is the cross-dimension feedback block.
type OverallFeedback struct {
	Feedback string     `json:"feedback"`
	Plan     WeeklyPlan `json:"plan"`
}

// Feedback is the normalized output of the generation provider. It is only
// constructed after the provider payload passed schema validation.
type Feedback struct {
	Love    ElementFeedback `json:"love"`
	Skill   ElementFeedback `json:"skill"`
	World   ElementFeedback `json:"world"`
	Paid    ElementFeedback `json:"paid"`
	Overall OverallFeedback `json:"overall"`
}

// Identity identifies the assessed user. Email and Phone are optional.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// AssessmentRecord is the full persisted unit, created once per request and
// never updated in place.
type AssessmentRecord struct {
	User           Identity          `json:"user"`
	TestID         string            `json:"testId,omitempty"`
	CompletedAt    string            `json:"completedAt,omitempty"`
	Responses      map[string]string `json:"responses"`
	Scores         ElementScores     `json:"ikigai_scores"`
	AlignmentScore float64           `json:"ikigai_alignment_score"`
	Feedback       Feedback          `json:"feedback"`
	SubmittedAt    time.Time         `json:"submittedAt"`
}

// FeedbackProvider (port) is one generation backend bound to a single
// credential. Implementations must honor ctx cancellation and deadlines.
type FeedbackProvider interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// RecordStore (port) persists assessment records. Callers on the request path
// must treat Save as best-effort.
type RecordStore interface {
	Save(ctx context.Context, rec AssessmentRecord) error
}
