package pricing

import (
	"testing"
)

func websiteMatrix(t *testing.T) *Matrix {
	t.Helper()
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	matrix, err := catalog.Matrix(ServiceWebsite)
	if err != nil {
		t.Fatalf("Matrix: %v", err)
	}
	return matrix
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	matrix := websiteMatrix(t)

	if got := matrix.Search(""); len(got) != 0 {
		t.Fatalf("empty query: expected no matches, got %d", len(got))
	}
	if got := matrix.Search("   "); len(got) != 0 {
		t.Fatalf("blank query: expected no matches, got %d", len(got))
	}
	// Every token at or below two characters is dropped.
	if got := matrix.Search("a to my"); len(got) != 0 {
		t.Fatalf("short-token query: expected no matches, got %d", len(got))
	}
}

func TestSearchExactKeywordScore(t *testing.T) {
	matrix := websiteMatrix(t)

	matches := matrix.Search("mpesa")
	if len(matches) == 0 {
		t.Fatal("expected matches for mpesa")
	}
	top := matches[0]
	if top.Feature.ID != "WEB-MPESA" {
		t.Fatalf("expected WEB-MPESA on top, got %s", top.Feature.ID)
	}
	// +100 whole phrase in blob, +50 exact keyword, +15 fuzzy.
	if top.Score != 165 {
		t.Fatalf("expected score 165, got %d", top.Score)
	}
}

func TestSearchPartialKeywordScore(t *testing.T) {
	matrix := websiteMatrix(t)

	matches := matrix.Search("book")
	if len(matches) == 0 {
		t.Fatal("expected matches for book")
	}
	top := matches[0]
	if top.Feature.ID != "WEB-BOOK" {
		t.Fatalf("expected WEB-BOOK on top, got %s", top.Feature.ID)
	}
	// +100 phrase, +30 partial keyword ("booking"), +20 name, +10 description.
	if top.Score != 160 {
		t.Fatalf("expected score 160, got %d", top.Score)
	}
}

func TestSearchNaturalLanguageQuery(t *testing.T) {
	matrix := websiteMatrix(t)

	matches := matrix.Search("I want to sell products online")
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	if matches[0].Feature.ID != "WEB-ECOM" {
		t.Fatalf("expected WEB-ECOM on top, got %s", matches[0].Feature.ID)
	}
}

func TestSearchScoresDescending(t *testing.T) {
	matrix := websiteMatrix(t)

	matches := matrix.Search("website payments gallery")
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatalf("matches not sorted descending at %d: %d > %d",
				i, matches[i].Score, matches[i-1].Score)
		}
	}
}

func TestSearchCapsResults(t *testing.T) {
	matrix := websiteMatrix(t)

	// One token per feature so every catalog entry scores.
	query := "website shop payments booking blog seo swahili chat members gallery newsletter analytics"
	matches := matrix.Search(query)
	if len(matches) != MaxSearchResults {
		t.Fatalf("expected cap of %d results, got %d", MaxSearchResults, len(matches))
	}
}

func TestSearchExcludesZeroScores(t *testing.T) {
	matrix := websiteMatrix(t)

	if matches := matrix.Search("qqqq xxxx"); len(matches) != 0 {
		t.Fatalf("expected no matches for unrelated query, got %d", len(matches))
	}
}

func TestFuzzySimilar(t *testing.T) {
	cases := []struct {
		token   string
		keyword string
		want    bool
	}{
		// 5 of the 6 bytes of "m-pesa" cover the token's characters.
		{"mpesa", "m-pesa", true},
		// Character overlap ignores order entirely.
		{"pesam", "m-pesa", true},
		// Repeated token bytes are each counted against the longer string.
		{"aaaa", "abcd", true},
		// Either side shorter than 4 bytes never matches.
		{"seo", "booking", false},
		{"booking", "seo", false},
		// Disjoint character sets.
		{"abcd", "wxyz", false},
	}

	for _, tc := range cases {
		if got := fuzzySimilar(tc.token, tc.keyword); got != tc.want {
			t.Fatalf("fuzzySimilar(%q, %q) = %v, want %v", tc.token, tc.keyword, got, tc.want)
		}
	}
}

func TestSearchFuzzyTokenMatchesKeyword(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	matrix, _ := catalog.Matrix(ServiceAutomation)

	// "invoices" vs keyword "invoices" is exact; "invocing" (typo) still
	// reaches WF-INVOICE through the character-overlap heuristic.
	matches := matrix.Search("invocing")
	if len(matches) == 0 {
		t.Fatal("expected fuzzy match for typo query")
	}
	if matches[0].Feature.ID != "WF-INVOICE" {
		t.Fatalf("expected WF-INVOICE on top, got %s", matches[0].Feature.ID)
	}
}
