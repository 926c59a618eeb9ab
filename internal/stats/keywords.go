package stats

import (
	"regexp"
	"sort"
	"strings"

	"meeting-assistant-service/internal/models"
)

// maxKeywords is the number of entries returned by ExtractKeywords.
const maxKeywords = 10

// stopWords are common function and filler words excluded from keyword
// extraction, matched case-insensitively after normalization.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
		"for", "of", "with", "is", "was", "are", "were", "been", "be",
		"have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "can", "this", "that",
		"these", "those", "i", "you", "he", "she", "it", "we", "they",
		"what", "which", "who", "when", "where", "why", "how", "all",
		"each", "every", "both", "few", "more", "most", "other", "some",
		"such", "no", "nor", "not", "only", "own", "same", "so", "than",
		"too", "very", "just", "um", "uh", "yeah", "yes", "okay", "ok",
	} {
		stopWords[w] = struct{}{}
	}
}

var nonWordChars = regexp.MustCompile(`[^\w\s]`)

// ExtractKeywords counts normalized content words across the whole transcript
// and returns the top entries by frequency. Tokens are lower-cased, stripped
// of punctuation, and discarded when short or in the stop-word set. Ties are
// broken by first-encountered order so the result is deterministic.
func ExtractKeywords(transcript []models.Utterance) []models.Keyword {
	counts := make(map[string]int)
	var order []string

	for _, u := range transcript {
		for _, w := range u.Words {
			token := nonWordChars.ReplaceAllString(strings.ToLower(w.Text), "")
			if len(token) <= 3 {
				continue
			}
			if _, stop := stopWords[token]; stop {
				continue
			}
			if _, seen := counts[token]; !seen {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}

	keywords := make([]models.Keyword, 0, len(order))
	for _, token := range order {
		keywords = append(keywords, models.Keyword{Word: token, Count: counts[token]})
	}
	return keywords
}
