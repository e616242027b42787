// Package questionbank loads and indexes the static Ikigai question set.
//
// The bank is configuration-class data: it is loaded exactly once at process
// start and is read-only afterwards, which makes lookups safe for
// unsynchronized concurrent use across requests.
package questionbank

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/berachah-academy/ikigai-api/internal/domain"
)

type bankFile struct {
	Questions []struct {
		Element  string `json:"element"`
		Question string `json:"question"`
		Options  []struct {
			Text  string `json:"text"`
			Score int    `json:"score"`
		} `json:"options"`
	} `json:"questions"`
}

// Bank indexes questions by element in file order. Immutable after Load.
type Bank struct {
	byElement map[domain.Element][]domain.Question
	alphabet  domain.Alphabet
}

// Load reads and indexes the question bank file. Any structural problem is an
// error; callers treat it as fatal because the service cannot score or build
// transcripts without a valid bank.
func Load(path string, alphabet domain.Alphabet) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=questionbank.Load path=%s: %w", path, err)
	}
	var f bankFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("op=questionbank.Load path=%s: %w", path, err)
	}
	if len(f.Questions) == 0 {
		return nil, fmt.Errorf("op=questionbank.Load path=%s: no questions", path)
	}

	b := &Bank{byElement: map[domain.Element][]domain.Question{}, alphabet: alphabet}
	for i, fq := range f.Questions {
		el := domain.Element(strings.ToLower(strings.TrimSpace(fq.Element)))
		if !knownElement(el) {
			return nil, fmt.Errorf("op=questionbank.Load: question %d has unknown element %q", i, fq.Element)
		}
		q := domain.Question{Element: el, Text: fq.Question}
		for j, fo := range fq.Options {
			// Option letters are implied by score order: score n ↔ letter n.
			if fo.Score != j+1 {
				return nil, fmt.Errorf("op=questionbank.Load: question %d option %d has score %d, want %d", i, j, fo.Score, j+1)
			}
			letter := alphabet.Letter(fo.Score)
			if letter == "" {
				return nil, fmt.Errorf("op=questionbank.Load: question %d option score %d exceeds alphabet size %d", i, fo.Score, alphabet.MaxScore())
			}
			q.Options = append(q.Options, domain.Option{Letter: letter, Text: fo.Text, Score: fo.Score})
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("op=questionbank.Load: question %d has no options", i)
		}
		ordinal := len(b.byElement[el]) + 1
		q.Key = fmt.Sprintf("%s%d", strings.ToUpper(string(el)[:1]), ordinal)
		b.byElement[el] = append(b.byElement[el], q)
	}
	for _, el := range domain.Elements() {
		if len(b.byElement[el]) == 0 {
			return nil, fmt.Errorf("op=questionbank.Load: element %q has no questions", el)
		}
	}
	return b, nil
}

// MustLoad is Load for process bootstrap: it exits the process on failure.
func MustLoad(path string, alphabet domain.Alphabet) *Bank {
	b, err := Load(path, alphabet)
	if err != nil {
		slog.Error("question bank load failed", slog.Any("error", err))
		os.Exit(1)
	}
	return b
}

// QuestionsFor returns the ordered questions of el. The returned slice must
// not be mutated.
func (b *Bank) QuestionsFor(el domain.Element) []domain.Question {
	return b.byElement[el]
}

// Keys returns the ordered response keys of el.
func (b *Bank) Keys(el domain.Element) []string {
	qs := b.byElement[el]
	keys := make([]string, 0, len(qs))
	for _, q := range qs {
		keys = append(keys, q.Key)
	}
	return keys
}

// Size returns the total number of questions in the bank.
func (b *Bank) Size() int {
	n := 0
	for _, qs := range b.byElement {
		n += len(qs)
	}
	return n
}

func knownElement(el domain.Element) bool {
	for _, e := range domain.Elements() {
		if e == el {
			return true
		}
	}
	return false
}
