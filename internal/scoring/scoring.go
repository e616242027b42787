// Package scoring converts raw answer letters into per-element and overall
// Ikigai scores under a fixed rubric.
package scoring

import (
	"fmt"
	"math"

	"github.com/berachah-academy/ikigai-api/internal/domain"
)

// Rubric holds the option alphabet, the question keys of each element, and
// the element weights. Immutable after construction.
type Rubric struct {
	Alphabet domain.Alphabet
	Keys     map[domain.Element][]string
	Weights  map[domain.Element]float64
}

// NewRubric builds a rubric and asserts its construction invariants: every
// element has question keys and the weights sum to 1.0.
func NewRubric(alphabet domain.Alphabet, keys map[domain.Element][]string, weights map[domain.Element]float64) (Rubric, error) {
	if alphabet.MaxScore() == 0 {
		return Rubric{}, fmt.Errorf("op=scoring.NewRubric: empty alphabet")
	}
	sum := 0.0
	for _, el := range domain.Elements() {
		if len(keys[el]) == 0 {
			return Rubric{}, fmt.Errorf("op=scoring.NewRubric: element %q has no question keys", el)
		}
		w, ok := weights[el]
		if !ok {
			return Rubric{}, fmt.Errorf("op=scoring.NewRubric: element %q has no weight", el)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return Rubric{}, fmt.Errorf("op=scoring.NewRubric: weights sum to %v, want 1.0", sum)
	}
	return Rubric{Alphabet: alphabet, Keys: keys, Weights: weights}, nil
}

// DefaultWeights is the fixed Ikigai weighting.
func DefaultWeights() map[domain.Element]float64 {
	return map[domain.Element]float64{
		domain.ElementLove:  0.3,
		domain.ElementSkill: 0.3,
		domain.ElementWorld: 0.2,
		domain.ElementPaid:  0.2,
	}
}

// ScoreElement sums the selected option scores over keys and normalizes to a
// percentage of the maximum achievable sum, rounded to 2 decimals. The
// divisor is derived from the alphabet in use, never hard-coded.
func (r Rubric) ScoreElement(responses map[string]string, keys []string) (float64, error) {
	total := 0
	for _, key := range keys {
		letter, ok := responses[key]
		if !ok {
			return 0, fmt.Errorf("%w: missing response %s", domain.ErrInvalidArgument, key)
		}
		score, ok := r.Alphabet.Score(letter)
		if !ok {
			return 0, fmt.Errorf("%w: invalid option %s: %s", domain.ErrInvalidArgument, key, letter)
		}
		total += score
	}
	maxSum := len(keys) * r.Alphabet.MaxScore()
	return round2(float64(total) / float64(maxSum) * 100), nil
}

// ScoreAll scores every element and computes the weighted alignment score.
// Fail-fast: any per-element failure aborts the whole computation with no
// partial result.
func (r Rubric) ScoreAll(responses map[string]string) (domain.ElementScores, float64, error) {
	var scores domain.ElementScores
	alignment := 0.0
	for _, el := range domain.Elements() {
		s, err := r.ScoreElement(responses, r.Keys[el])
		if err != nil {
			return domain.ElementScores{}, 0, err
		}
		switch el {
		case domain.ElementLove:
			scores.Love = s
		case domain.ElementSkill:
			scores.Skill = s
		case domain.ElementWorld:
			scores.World = s
		case domain.ElementPaid:
			scores.Paid = s
		}
		alignment += s * r.Weights[el]
	}
	return scores, round2(alignment), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
