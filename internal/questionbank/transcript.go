package questionbank

import (
	"strings"

	"github.com/berachah-academy/ikigai-api/internal/domain"
)

// unknownAnswer is the placeholder used when a selected option cannot be
// resolved to its display text.
const unknownAnswer = "Unknown"

// Transcript renders the user's literal answers as a plain-text document
// grouped by element, for grounding the generation prompt.
//
// This is a best-effort rendering, not a validation pass: questions without a
// response are skipped and unresolvable selections fall back to "Unknown".
// The scoring engine enforces completeness separately; the two may consume
// different response sets.
func (b *Bank) Transcript(responses map[string]string) string {
	var sb strings.Builder
	for _, el := range domain.Elements() {
		sb.WriteString(strings.ToUpper(string(el)))
		sb.WriteString(":\n")
		for _, q := range b.byElement[el] {
			letter, ok := responses[q.Key]
			if !ok {
				continue
			}
			sb.WriteString("- Q: ")
			sb.WriteString(q.Text)
			sb.WriteString("\n- A: ")
			sb.WriteString(b.answerText(q, letter))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Bank) answerText(q domain.Question, letter string) string {
	score, ok := b.alphabet.Score(letter)
	if !ok {
		return unknownAnswer
	}
	for _, opt := range q.Options {
		if opt.Score == score {
			return opt.Text
		}
	}
	return unknownAnswer
}
