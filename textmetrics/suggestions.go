package textmetrics

import (
	"fmt"
	"strings"
)

// Sentences longer than this many words get a split suggestion
const longSentenceWords = 25

// GetContentImprovementSuggestions proposes concrete rewrites: passive voice,
// long sentences, keyword variations and a missing call to action.
func GetContentImprovementSuggestions(text, title, keyword string) []ContentSuggestion {
	suggestions := []ContentSuggestion{}
	if isBlank(text) {
		return suggestions
	}

	add := func(s ContentSuggestion) {
		s.ID = len(suggestions) + 1
		suggestions = append(suggestions, s)
	}

	parts := sentences(text)

	for i, raw := range parts {
		sentence := strings.TrimSpace(raw)
		improved, ok := activate(sentence)
		if !ok {
			continue
		}
		context := sentence
		if i > 0 {
			context = parts[i-1] + ". " + sentence
		}
		add(ContentSuggestion{
			Type:        SuggestionPassiveVoice,
			Original:    sentence,
			Improved:    improved,
			Explanation: "Use active voice instead of passive voice for stronger, clearer writing.",
			Context:     context,
		})
	}

	for _, raw := range parts {
		sentence := strings.TrimSpace(raw)
		fields := strings.Fields(sentence)
		if len(fields) <= longSentenceWords {
			continue
		}
		half := len(fields) / 2
		add(ContentSuggestion{
			Type:        SuggestionReadability,
			Original:    sentence,
			Improved:    strings.Join(fields[:half], " ") + ". " + strings.Join(fields[half:], " "),
			Explanation: "Break long sentences into shorter ones to improve readability.",
			Context:     sentence,
		})
	}

	if keyword != "" {
		if count := countKeyword(text, keyword); count > 2 {
			variations := []string{
				keyword,
				"about " + keyword,
				keyword + " tips",
				"best " + keyword,
				"how to optimize " + keyword,
			}
			add(ContentSuggestion{
				Type:        SuggestionKeywordVariation,
				Original:    fmt.Sprintf("Using \"%s\" %d times", keyword, count),
				Improved:    fmt.Sprintf("Try these variations: \"%s\"", strings.Join(variations, `", "`)),
				Explanation: "Use keyword variations to avoid keyword stuffing while maintaining SEO relevance.",
			})
		}
	}

	if !callToAction.MatchString(text) {
		add(ContentSuggestion{
			Type:        SuggestionCTA,
			Original:    "Your content lacks a clear call-to-action.",
			Improved:    "Consider adding a sentence like: \"Sign up for our newsletter to learn more about optimizing your SEO strategy.\"",
			Explanation: "Adding a call-to-action improves engagement and conversion rates.",
		})
	}

	return suggestions
}

// activate rewrites the first passive construction of a sentence
func activate(sentence string) (string, bool) {
	loc := passiveVoice.FindStringSubmatchIndex(sentence)
	if loc == nil {
		return "", false
	}
	verb := sentence[loc[4]:loc[5]]
	return sentence[:loc[0]] + "actively " + verb + sentence[loc[1]:], true
}
