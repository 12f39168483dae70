package textmetrics

import (
	"fmt"
	"strings"
)

// Phrase bounds for outbound link matching
const (
	phraseWords     = 3
	minPhraseLength = 11
	maxPhraseLength = 49
)

// GenerateInternalLinkingSuggestions finds linking opportunities between the
// current document and other pages of the site. A page that mentions our
// keyword or title yields an inbound suggestion; a phrase of that page found
// in our text yields an outbound one.
func GenerateInternalLinkingSuggestions(text, title, keyword string, pages []Page) []LinkSuggestion {
	suggestions := []LinkSuggestion{}
	if isBlank(text) || len(pages) == 0 {
		return suggestions
	}

	needles := nonBlank(keyword, title)
	textSentences := sentences(text)
	lowerText := strings.ToLower(text)

	for _, page := range pages {
		if context, ok := firstSentenceMentioning(page.Content, needles); ok {
			suggestions = append(suggestions, LinkSuggestion{
				ID:         len(suggestions) + 1,
				Text:       fmt.Sprintf("%s mentions \"%s\" and could link to this page", page.Title, keyword),
				Context:    context,
				TargetPage: page.Title,
				Type:       LinkInbound,
				Anchors:    anchors(nonBlank(keyword, title, suffixed(keyword, " guide"), prefixed("learn about ", keyword))),
			})
		}

		for _, phrase := range extractPhrases(page.Content) {
			lowerPhrase := strings.ToLower(phrase)
			if !strings.Contains(lowerText, lowerPhrase) {
				continue
			}
			for _, sentence := range textSentences {
				if !strings.Contains(strings.ToLower(sentence), lowerPhrase) {
					continue
				}
				suggestions = append(suggestions, LinkSuggestion{
					ID:         len(suggestions) + 1,
					Text:       fmt.Sprintf("This page mentions content related to \"%s\" and could link to it", page.Title),
					Context:    strings.TrimSpace(sentence),
					TargetPage: page.Title,
					TargetURL:  page.URL,
					Type:       LinkOutbound,
					Anchors: anchors(nonBlank(
						phrase,
						page.Title,
						prefixed("more about ", strings.ToLower(page.Title)),
						suffixed(page.Title, " guide"),
					)),
				})
				break
			}
		}
	}

	return suggestions
}

// extractPhrases returns the distinct three-word phrases of text, built from
// words longer than three characters.
func extractPhrases(text string) []string {
	var phrases []string
	seen := make(map[string]struct{})

	for _, sentence := range sentences(text) {
		var kept []string
		for _, w := range strings.Fields(sentence) {
			if runeLen(w) > 3 {
				kept = append(kept, w)
			}
		}
		for i := 0; i+phraseWords <= len(kept); i++ {
			phrase := strings.Join(kept[i:i+phraseWords], " ")
			n := runeLen(phrase)
			if n < minPhraseLength || n > maxPhraseLength {
				continue
			}
			if _, dup := seen[phrase]; dup {
				continue
			}
			seen[phrase] = struct{}{}
			phrases = append(phrases, phrase)
		}
	}
	return phrases
}

func firstSentenceMentioning(text string, needles []string) (string, bool) {
	if len(needles) == 0 {
		return "", false
	}
	lower := strings.ToLower(text)
	mentioned := false
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return "", false
	}

	for _, sentence := range sentences(text) {
		for _, n := range needles {
			if containsFold(sentence, n) {
				return strings.TrimSpace(sentence), true
			}
		}
	}
	return "", false
}

func anchors(texts []string) []Anchor {
	out := make([]Anchor, len(texts))
	for i, t := range texts {
		out[i] = Anchor{Text: t, IsSelected: i == 0}
	}
	return out
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !isBlank(v) {
			out = append(out, v)
		}
	}
	return out
}

// prefixed and suffixed return "" for a blank base so the anchor is dropped
func prefixed(prefix, base string) string {
	if isBlank(base) {
		return ""
	}
	return prefix + base
}

func suffixed(base, suffix string) string {
	if isBlank(base) {
		return ""
	}
	return base + suffix
}
