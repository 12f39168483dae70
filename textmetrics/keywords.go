package textmetrics

import (
	"sort"
	"strings"
)

const (
	maxKeywords        = 20
	minKeywordLength   = 3
	maxRelatedKeywords = 5
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "for": {}, "nor": {}, "yet": {}, "so": {},
	"such": {}, "as": {}, "with": {}, "that": {}, "this": {}, "these": {}, "those": {},
	"have": {}, "has": {}, "had": {}, "been": {}, "was": {}, "were": {}, "would": {},
	"should": {}, "could": {}, "can": {}, "may": {}, "might": {}, "must": {}, "shall": {},
	"will": {}, "from": {},
}

// relatedBuckets is searched in order; the first key contained in the seed wins
var relatedBuckets = []struct {
	key      string
	keywords []string
}{
	{"seo", []string{"search engine optimization", "seo services", "seo strategy", "seo tools", "local seo"}},
	{"marketing", []string{"digital marketing", "content marketing", "email marketing", "social media marketing"}},
	{"content", []string{"content strategy", "content creation", "content writing", "blog content"}},
	{"website", []string{"website design", "website development", "website builder", "ecommerce website"}},
	{"business", []string{"small business", "business strategy", "online business", "business plan"}},
	{"social", []string{"social media", "social network", "social platform", "social engagement"}},
}

// IsStopWord reports whether word is ignored by keyword extraction
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// ExtractKeywords returns up to 20 lower-cased keywords ordered by frequency.
// Ties keep the order in which the words first appear.
func ExtractKeywords(text string) []string {
	if isBlank(text) {
		return []string{}
	}

	freq := make(map[string]int)
	var order []string
	for _, w := range words(strings.ToLower(text)) {
		if len(w) < minKeywordLength || IsStopWord(w) {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}

// GenerateRelatedKeywords expands a seed keyword into up to five related phrases
func GenerateRelatedKeywords(seed string) []string {
	lower := strings.ToLower(seed)
	for _, bucket := range relatedBuckets {
		if strings.Contains(lower, bucket.key) {
			out := make([]string, len(bucket.keywords))
			copy(out, bucket.keywords)
			return out
		}
	}

	related := []string{
		"how to improve " + seed,
		"best " + seed,
		seed + " guide",
		seed + " tutorial",
		seed + " tips",
	}
	return related[:maxRelatedKeywords]
}
