package pricing

import (
	"sort"
	"strings"
)

// MaxSearchResults caps the ranked list returned by Search.
const MaxSearchResults = 8

// minTokenLength filters out short tokens ("a", "to", "my") before scoring.
const minTokenLength = 3

// Match is a scored search hit.
type Match struct {
	Feature Feature
	Score   int
}

// Search scores every feature in the matrix against a free-text goal
// description and returns the ranked top matches.
//
// Scoring is additive per entry:
//   - whole lower-cased query contained in the entry's text blob: +100
//   - per token: exact keyword equality +50, else partial keyword
//     containment (substring either direction) +30; name substring +20;
//     description substring +10; fuzzy keyword similarity +15
//
// Zero-score entries are excluded; ties keep catalog order.
func (m *Matrix) Search(query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	tokens := searchTokens(q)
	if len(tokens) == 0 {
		// A query with no usable tokens would otherwise phrase-match
		// every blob; treat it as no results.
		return nil
	}

	matches := make([]Match, 0)
	for _, id := range m.order {
		feature := m.features[id]
		score := scoreFeature(feature, q, tokens)
		if score == 0 {
			continue
		}
		matches = append(matches, Match{Feature: feature, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > MaxSearchResults {
		matches = matches[:MaxSearchResults]
	}
	return matches
}

func searchTokens(query string) []string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLength {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func scoreFeature(f Feature, query string, tokens []string) int {
	name := strings.ToLower(f.Name)
	description := strings.ToLower(f.Description)
	keywords := make([]string, len(f.Keywords))
	for i, kw := range f.Keywords {
		keywords[i] = strings.ToLower(kw)
	}

	var blob strings.Builder
	blob.WriteString(name)
	blob.WriteString(" ")
	blob.WriteString(description)
	blob.WriteString(" ")
	blob.WriteString(strings.Join(keywords, " "))

	score := 0
	if strings.Contains(blob.String(), query) {
		score += 100
	}

	for _, token := range tokens {
		exact, partial, fuzzy := false, false, false
		for _, kw := range keywords {
			if kw == token {
				exact = true
			} else if strings.Contains(kw, token) || strings.Contains(token, kw) {
				partial = true
			}
			if fuzzySimilar(token, kw) {
				fuzzy = true
			}
		}

		if exact {
			score += 50
		} else if partial {
			score += 30
		}
		if strings.Contains(name, token) {
			score += 20
		}
		if strings.Contains(description, token) {
			score += 10
		}
		if fuzzy {
			score += 15
		}
	}

	return score
}

// fuzzySimilar reports whether a token and a keyword are "similar" under
// the catalog's character-overlap heuristic: both strings at least 4
// bytes, and the fraction of token bytes found anywhere in the longer
// string (repeats counted) is at least 0.8.
//
// This is deliberately NOT an edit distance. The heuristic is asymmetric
// and order-insensitive; changing it would change ranking against the
// existing catalog data.
func fuzzySimilar(token, keyword string) bool {
	if len(token) < 4 || len(keyword) < 4 {
		return false
	}

	longer := keyword
	if len(token) > len(keyword) {
		longer = token
	}

	found := 0
	for i := 0; i < len(token); i++ {
		if strings.IndexByte(longer, token[i]) >= 0 {
			found++
		}
	}

	return float64(found)/float64(len(longer)) >= 0.8
}
