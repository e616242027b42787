package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/berachah-academy/ikigai-api/internal/domain"
)

func TestAlphabet_ScoreTracksLetterOrdinal(t *testing.T) {
	a := domain.DefaultAlphabet()
	for i, letter := range []string{"A", "B", "C", "D"} {
		score, ok := a.Score(letter)
		assert.True(t, ok)
		assert.Equal(t, i+1, score)
	}
	_, ok := a.Score("E")
	assert.False(t, ok)
	_, ok = a.Score("a")
	assert.False(t, ok, "letters are case-sensitive")
	assert.Equal(t, 4, a.MaxScore())
}

func TestAlphabet_Letter(t *testing.T) {
	a := domain.DefaultAlphabet()
	assert.Equal(t, "A", a.Letter(1))
	assert.Equal(t, "D", a.Letter(4))
	assert.Equal(t, "", a.Letter(0))
	assert.Equal(t, "", a.Letter(5))
}

func TestElementScores_Get(t *testing.T) {
	s := domain.ElementScores{Love: 1, Skill: 2, World: 3, Paid: 4}
	assert.Equal(t, 1.0, s.Get(domain.ElementLove))
	assert.Equal(t, 2.0, s.Get(domain.ElementSkill))
	assert.Equal(t, 3.0, s.Get(domain.ElementWorld))
	assert.Equal(t, 4.0, s.Get(domain.ElementPaid))
	assert.Equal(t, 0.0, s.Get(domain.Element("magic")))
}

func TestElements_CanonicalOrder(t *testing.T) {
	assert.Equal(t, []domain.Element{
		domain.ElementLove,
		domain.ElementSkill,
		domain.ElementWorld,
		domain.ElementPaid,
	}, domain.Elements())
}
