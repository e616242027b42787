package feedback

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/berachah-academy/ikigai-api/internal/domain"
)

// structuredPayload mirrors the strict key contract of the structured schema.
// Pointer fields distinguish a missing key from an empty value.
type structuredPayload struct {
	Love    *elementPayload `json:"love"`
	Skill   *elementPayload `json:"skill"`
	World   *elementPayload `json:"world"`
	Paid    *elementPayload `json:"paid"`
	Overall *overallPayload `json:"overall"`
}

type elementPayload struct {
	Summary  *string `json:"summary"`
	Feedback *string `json:"feedback"`
	Todo     *string `json:"todo"`
}

type overallPayload struct {
	Feedback *string            `json:"feedback"`
	Plan     *domain.WeeklyPlan `json:"plan"`
}

// ParseStructured parses untrusted provider output against the structured
// JSON schema. Markdown code fences are stripped and a repair pass
// (kaptinlin/jsonrepair) is attempted before giving up, since providers
// occasionally wrap or slightly malform their JSON. Missing required keys are
// a parse failure, not a tolerated gap.
func ParseStructured(raw string) (domain.Feedback, error) {
	s := stripFences(raw)
	var p structuredPayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(s)
		if rerr != nil {
			return domain.Feedback{}, fmt.Errorf("%w: invalid JSON: %v", domain.ErrSchemaInvalid, err)
		}
		p = structuredPayload{}
		if err := json.Unmarshal([]byte(repaired), &p); err != nil {
			return domain.Feedback{}, fmt.Errorf("%w: invalid JSON after repair: %v", domain.ErrSchemaInvalid, err)
		}
	}
	if err := p.validate(); err != nil {
		return domain.Feedback{}, err
	}
	return domain.Feedback{
		Love:    p.Love.toDomain(),
		Skill:   p.Skill.toDomain(),
		World:   p.World.toDomain(),
		Paid:    p.Paid.toDomain(),
		Overall: domain.OverallFeedback{Feedback: *p.Overall.Feedback, Plan: *p.Overall.Plan},
	}, nil
}

func (p structuredPayload) validate() error {
	for _, e := range []struct {
		name string
		v    *elementPayload
	}{{"love", p.Love}, {"skill", p.Skill}, {"world", p.World}, {"paid", p.Paid}} {
		if e.v == nil {
			return fmt.Errorf("%w: missing key %q", domain.ErrSchemaInvalid, e.name)
		}
		if e.v.Summary == nil || e.v.Feedback == nil || e.v.Todo == nil {
			return fmt.Errorf("%w: incomplete %q block", domain.ErrSchemaInvalid, e.name)
		}
	}
	if p.Overall == nil {
		return fmt.Errorf("%w: missing key %q", domain.ErrSchemaInvalid, "overall")
	}
	if p.Overall.Feedback == nil || p.Overall.Plan == nil {
		return fmt.Errorf("%w: incomplete %q block", domain.ErrSchemaInvalid, "overall")
	}
	return nil
}

func (e *elementPayload) toDomain() domain.ElementFeedback {
	return domain.ElementFeedback{Summary: *e.Summary, Feedback: *e.Feedback, Todo: *e.Todo}
}

// ParseLines parses the line-delimited schema: one "KEY: advice" line per
// element plus OVERALL. Lines without a colon are ignored; unknown keys are
// ignored. This parser never fails — the worst case is a sparse result.
func ParseLines(raw string) domain.Feedback {
	var fb domain.Feedback
	for _, line := range strings.Split(raw, "\n") {
		key, advice, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		advice = strings.TrimSpace(advice)
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "LOVE":
			fb.Love.Feedback = advice
		case "SKILL":
			fb.Skill.Feedback = advice
		case "WORLD":
			fb.World.Feedback = advice
		case "PAID":
			fb.Paid.Feedback = advice
		case "OVERALL":
			fb.Overall.Feedback = advice
		}
	}
	return fb
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, leaving other text untouched.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// Drop the language tag line (e.g. "json").
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
