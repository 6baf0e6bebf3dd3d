package vectorindex

import "regexp"

// FuzzyScore is the constant score of every fuzzy hit. Fuzzy results are unranked.
const FuzzyScore = 1.0

// compileFuzzy builds a case-insensitive literal substring matcher.
// QuoteMeta output always compiles, so metacharacters in term are inert.
func compileFuzzy(term string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
}

// MatchFuzzy runs the fuzzy engine over a plain slice. It is used when the
// index has not been built, so fuzzy search never needs embeddings.
func MatchFuzzy[T any](schema Schema[T], items []T, term string, limit int, filters map[string]string) []Hit[T] {
	re := compileFuzzy(term)

	hits := make([]Hit[T], 0)
	for _, item := range items {
		if !schema.matches(item, filters) || !schema.fuzzyMatch(re, item) {
			continue
		}
		hits = append(hits, Hit[T]{Item: item, Score: FuzzyScore})
		if limit > 0 && len(hits) == limit {
			break
		}
	}
	return hits
}

func (s Schema[T]) fuzzyMatch(re *regexp.Regexp, item T) bool {
	for _, text := range s.FuzzyText(item) {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
