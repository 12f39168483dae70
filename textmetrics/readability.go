package textmetrics

import "math"

// Average adult reading speed, in words per minute
const wordsPerMinute = 225

// AnalyzeReadability computes word, sentence and paragraph statistics and a
// heuristic readability score. Blank text yields zero metrics.
func AnalyzeReadability(text string) ReadabilityMetrics {
	if isBlank(text) {
		return ReadabilityMetrics{}
	}

	wordCount := len(words(text))
	sentenceCount := len(sentences(text))

	avg := 0.0
	if sentenceCount > 0 {
		avg = float64(wordCount) / float64(sentenceCount)
	}

	return ReadabilityMetrics{
		Score:               readabilityScore(avg, wordCount),
		WordCount:           wordCount,
		SentenceCount:       sentenceCount,
		AvgWordsPerSentence: avg,
		ParagraphCount:      len(paragraphs(text)),
		ReadingTime:         int(math.Ceil(float64(wordCount) / wordsPerMinute)),
	}
}

func readabilityScore(avgWordsPerSentence float64, wordCount int) int {
	score := 100

	// Long sentences
	switch {
	case avgWordsPerSentence > 25:
		score -= 20
	case avgWordsPerSentence > 20:
		score -= 10
	case avgWordsPerSentence > 15:
		score -= 5
	}

	// Short documents
	switch {
	case wordCount < 300:
		score -= 20
	case wordCount < 600:
		score -= 10
	}

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
