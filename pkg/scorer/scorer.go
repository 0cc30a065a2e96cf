package scorer

import (
	"errors"
	"regexp"
	"strings"

	"github.com/adrianliechti/libretto/pkg/text"
)

var (
	ErrNoRelevantPage = errors.New("no relevant page")
)

var whitespace = regexp.MustCompile(`\s+`)

// Pattern builds the case-insensitive pattern for a keyword. Whitespace
// inside the keyword matches any run of non-word characters, so
// "materiali impiegati" also finds "materiali-impiegati" and
// "MATERIALI   IMPIEGATI".
func Pattern(keyword string) (*regexp.Regexp, error) {
	keyword = strings.TrimSpace(text.Fold(keyword))

	if keyword == "" {
		return nil, errors.New("empty keyword")
	}

	parts := whitespace.Split(keyword, -1)

	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}

	return regexp.Compile(`(?i)` + strings.Join(parts, `[\W_]*`))
}

// Scorer counts how many distinct keywords appear in a page text.
type Scorer struct {
	patterns []*regexp.Regexp
}

func New(keywords []string) (*Scorer, error) {
	s := &Scorer{}

	seen := make(map[string]bool)

	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}

		p, err := Pattern(k)

		if err != nil {
			return nil, err
		}

		if seen[p.String()] {
			continue
		}

		seen[p.String()] = true
		s.patterns = append(s.patterns, p)
	}

	if len(s.patterns) == 0 {
		return nil, errors.New("no keywords configured")
	}

	return s, nil
}

// Score returns the number of patterns with at least one match. How often a
// keyword occurs does not matter. Accents are ignored on both sides.
func (s *Scorer) Score(content string) int {
	content = text.Fold(content)

	score := 0

	for _, p := range s.patterns {
		if p.MatchString(content) {
			score++
		}
	}

	return score
}

// Select returns the index of the highest score; ties go to the lowest
// index. It fails with ErrNoRelevantPage when no page scored.
func Select(scores []int) (int, error) {
	best := -1

	for i, score := range scores {
		if score <= 0 {
			continue
		}

		if best < 0 || score > scores[best] {
			best = i
		}
	}

	if best < 0 {
		return -1, ErrNoRelevantPage
	}

	return best, nil
}
