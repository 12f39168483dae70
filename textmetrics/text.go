package textmetrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	wordPattern      = regexp.MustCompile(`\b\w+\b`)
	sentenceBreak    = regexp.MustCompile(`[.!?]+`)
	paragraphBreak   = regexp.MustCompile(`\n\s*\n`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	headingPattern   = regexp.MustCompile(`(?mi)#{1,6}\s.*?$|<h[1-6].*?>.*?</h[1-6]>`)
	headingMarker    = regexp.MustCompile(`(?m)#{1,6}\s`)
	htmlHeadingOpen  = regexp.MustCompile(`(?i)<h[1-6]`)
	listPattern      = regexp.MustCompile(`(?mi)<ul|<ol|<li|^\s*[-*+]\s|\n\s*[-*+]\s`)
	emphasisPattern  = regexp.MustCompile(`(?i)\*\*|\*|__|_|<strong|<em|<b>|<i>`)
	markdownImage    = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	htmlImage        = regexp.MustCompile(`(?i)<img`)
	markdownLink     = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	htmlAnchor       = regexp.MustCompile(`(?i)<a\s`)
	passiveVoice     = regexp.MustCompile(`(?i)\b(is|are|was|were|be|been|being)\s+(\w+ed)\b`)
	callToAction     = regexp.MustCompile(`(?i)\b(?:click|sign up|subscribe|download|learn more|contact|call|email|buy|purchase|order|try|get started|visit)\b`)
	fileNameSplitter = regexp.MustCompile(`[_-]`)
	camelBoundary    = regexp.MustCompile(`([a-z])([A-Z])`)
)

// isBlank reports whether s holds nothing but whitespace
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// splitNonEmpty splits s on re and drops empty segments. Whitespace-only
// segments are kept.
func splitNonEmpty(re *regexp.Regexp, s string) []string {
	parts := re.Split(s, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

func sentences(text string) []string {
	return splitNonEmpty(sentenceBreak, text)
}

func paragraphs(text string) []string {
	return splitNonEmpty(paragraphBreak, text)
}

// firstParagraph returns the text up to the first blank line
func firstParagraph(text string) string {
	return paragraphBreak.Split(text, 2)[0]
}

// countKeyword counts non-overlapping, case-insensitive occurrences of keyword
func countKeyword(text, keyword string) int {
	keyword = strings.ToLower(keyword)
	if keyword == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), keyword)
}

// keywordDensity is the ratio of keyword occurrences to words; zero when there are no words
func keywordDensity(text, keyword string, wordCount int) float64 {
	if wordCount == 0 {
		return 0
	}
	return float64(countKeyword(text, keyword)) / float64(wordCount)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// runeLen measures strings the way readers count characters
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncateRunes returns at most n runes of s
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
