package feedback

import (
	"strconv"
	"strings"

	"github.com/berachah-academy/ikigai-api/internal/domain"
)

const promptStructured = `You are an experienced career guidance counselor speaking directly to a student named %USERNAME%.

Below are the student's exact answers:

%TRANSCRIPT%

Ikigai scores:
Love: %LOVE%
Skill: %SKILL%
World Need: %WORLD%
Paid: %PAID%
Overall: %OVERALL%

Use BOTH the student's answers AND the scores.

For EACH Ikigai element:
- Explain what their answers + score mean
- Give clear personalized feedback
- Give practical improvement actions
- Provide specific "what to do next"

For OVERALL:
- Give career readiness feedback
- List 2-3 priority gaps
- Provide a detailed 30 day action plan broken into weekly steps

For each element, also provide a very short micro summary (maximum 5 words) describing the student's current status (for example: "Exploring interests", "Needs consistent practice", "Unclear career direction").

Return ONLY valid JSON in this exact structure:

{
  "love": {
    "summary": "",
    "feedback": "",
    "todo": ""
  },
  "skill": {
    "summary": "",
    "feedback": "",
    "todo": ""
  },
  "world": {
    "summary": "",
    "feedback": "",
    "todo": ""
  },
  "paid": {
    "summary": "",
    "feedback": "",
    "todo": ""
  },
  "overall": {
    "feedback": "",
    "plan": {
      "week1": "",
      "week2": "",
      "week3": "",
      "week4": ""
    }
  }
}

Do NOT include markdown, headings, bullets, emojis, or extra text. Only pure JSON.`

const promptLines = `You are an experienced career guidance counselor speaking directly to a student named %USERNAME%.

Below are the student's exact answers:

%TRANSCRIPT%

Ikigai scores:
Love: %LOVE%
Skill: %SKILL%
World Need: %WORLD%
Paid: %PAID%
Overall: %OVERALL%

Use BOTH the student's answers AND the scores.

Return plain text only, exactly five lines, one per key, in this format:

LOVE: <personalized advice for the love element>
SKILL: <personalized advice for the skill element>
WORLD: <personalized advice for the world element>
PAID: <personalized advice for the paid element>
OVERALL: <overall career readiness advice>

Do NOT include markdown, headings, bullets, emojis, or extra text.`

// BuildPrompt renders the generation prompt for the configured schema mode.
// It is a pure function of its inputs: identical inputs yield a byte-identical
// prompt, which keeps provider calls reproducible against a stub.
func BuildPrompt(mode Mode, username, transcript string, scores domain.ElementScores, alignment float64) string {
	tmpl := promptStructured
	if mode == ModeLines {
		tmpl = promptLines
	}
	r := strings.NewReplacer(
		"%USERNAME%", username,
		"%TRANSCRIPT%", transcript,
		"%LOVE%", fmtScore(scores.Love),
		"%SKILL%", fmtScore(scores.Skill),
		"%WORLD%", fmtScore(scores.World),
		"%PAID%", fmtScore(scores.Paid),
		"%OVERALL%", fmtScore(alignment),
	)
	return r.Replace(tmpl)
}

func fmtScore(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
