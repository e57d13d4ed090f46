package roster

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Matcher picks the candidate that best matches name.
type Matcher interface {
	BestMatch(name string, candidates []string) (string, bool)
}

// letters that do not decompose under NFD
var foldReplacer = strings.NewReplacer(
	"ø", "o", "Ø", "O", "ß", "ss", "ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D", "æ", "ae", "Æ", "AE", "ı", "i",
)

// Normalize strips accents and lowercases name.
func Normalize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, foldReplacer.Replace(name))
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// FuzzyMatcher compares accent-folded names. An exact match wins, then the
// closest candidate containing the name's letters in order, then the
// closest candidate by edit distance as long as no more than a third of the
// letters differ. Ties go to the earliest candidate.
type FuzzyMatcher struct{}

func (FuzzyMatcher) BestMatch(name string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	source := Normalize(name)
	sourceTokens := sortedTokens(source)
	targets := make([]string, len(candidates))
	for i, c := range candidates {
		targets[i] = Normalize(c)
		if targets[i] == source || sortedTokens(targets[i]) == sourceTokens {
			return candidates[i], true
		}
	}

	ranks := fuzzy.RankFind(source, targets)
	if len(ranks) > 0 {
		best := ranks[0]
		for _, r := range ranks[1:] {
			if r.Distance < best.Distance || (r.Distance == best.Distance && r.OriginalIndex < best.OriginalIndex) {
				best = r
			}
		}
		return candidates[best.OriginalIndex], true
	}

	bestIdx, bestDist := 0, -1
	for i, t := range targets {
		d := fuzzy.LevenshteinDistance(source, t)
		if bestDist < 0 || d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestDist*3 > max(len(source), len(targets[bestIdx])) {
		return "", false
	}
	return candidates[bestIdx], true
}

// "zhou guanyu" and "guanyu zhou" compare equal
func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// FilterCurrent keeps the roster rows that are the best match of one of
// names, the full names of a session's entry list.
func FilterCurrent(r Roster, names []string, m Matcher) Roster {
	candidates := r.Names()
	current := map[string]bool{}
	for _, n := range names {
		if match, ok := m.BestMatch(n, candidates); ok {
			current[match] = true
		}
	}
	return r.Where(func(row int) bool {
		return current[r.Value(row, ColumnDriverName)]
	})
}
