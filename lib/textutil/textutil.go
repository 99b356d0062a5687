package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// arabic code points that persian keyboards and the backend use
// interchangeably with their persian forms, plus persian digits.
var persianReplacer = strings.NewReplacer(
	"ي", "ی",
	"ى", "ی",
	"ك", "ک",
	"ة", "ه",
	"‌", "",
	"‏", "",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// NormalizeName lowercases, unifies persian letter forms and digits, and
// drops all whitespace and zero-width joiners.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = persianReplacer.Replace(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// MatchName reports whether the normalized name contains any of the
// already normalized matchers.
func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// MinSimilarity is the Jaro-Winkler score below which FindName gives up.
const MinSimilarity = 0.75

// FindName returns the index of the candidate that best matches query, or
// -1. Exact matches win, then substring matches (the shortest one), then the
// most similar candidate by Jaro-Winkler.
func FindName(query string, candidates []string) (int, float64) {
	query = NormalizeName(query)
	if query == "" {
		return -1, 0
	}

	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = NormalizeName(c)
		if normalized[i] == query {
			return i, 1
		}
	}

	contained := -1
	for i, c := range normalized {
		if !MatchName(c, []string{query}) {
			continue
		}
		if contained < 0 || len(c) < len(normalized[contained]) {
			contained = i
		}
	}
	if contained >= 0 {
		return contained, 1
	}

	best := -1
	var bestSimilarity float64
	for i, c := range normalized {
		similarity := matchr.JaroWinkler(query, c, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = i
		}
	}
	if bestSimilarity < MinSimilarity {
		return -1, bestSimilarity
	}
	return best, bestSimilarity
}
