package textmetrics

// Keyword density band considered natural
const (
	minIdealDensity = 0.005
	maxIdealDensity = 0.025
)

// Meta description length taken from the first paragraph
const descriptionLength = 155

// CalculateSeoScore rates a document out of 100 from five sub-scores:
// content length (20), keyword usage (30), readability (20), structure (15)
// and meta tags (15). Blank text or keyword scores zero.
func CalculateSeoScore(text, keyword, title string) SeoScore {
	if isBlank(text) || isBlank(keyword) {
		return SeoScore{}
	}

	readability := AnalyzeReadability(text)
	headings := headingPattern.FindAllString(text, -1)
	intro := firstParagraph(text)

	breakdown := ScoreBreakdown{
		Content:     contentScore(readability.WordCount),
		Keyword:     keywordScore(text, keyword, title, intro, headings, readability.WordCount),
		Readability: min(20, readability.Score/5),
		Structure:   structureScore(text, headings, readability.ParagraphCount),
		Meta:        metaScore(title, keyword, intro),
	}

	return SeoScore{
		Score:     min(100, breakdown.Total()),
		Breakdown: breakdown,
	}
}

func contentScore(wordCount int) int {
	switch {
	case wordCount >= 900:
		return 20
	case wordCount >= 600:
		return 15
	case wordCount >= 300:
		return 10
	default:
		return wordCount / 30
	}
}

func keywordScore(text, keyword, title, intro string, headings []string, wordCount int) int {
	score := 0

	if title != "" && containsFold(title, keyword) {
		score += 10
	}
	if containsFold(intro, keyword) {
		score += 5
	}

	density := keywordDensity(text, keyword, wordCount)
	switch {
	case density >= minIdealDensity && density <= maxIdealDensity:
		score += 10
	case density > 0 && density < minIdealDensity:
		score += 5
	case density > maxIdealDensity:
		// stuffing still earns a little
		score += 2
	}

	for _, h := range headings {
		if containsFold(h, keyword) {
			score += 5
			break
		}
	}

	return score
}

func structureScore(text string, headings []string, paragraphCount int) int {
	score := 0

	if len(headings) > 0 {
		score += 5
	}

	switch {
	case paragraphCount >= 5:
		score += 5
	case paragraphCount >= 3:
		score += 3
	}

	if listPattern.MatchString(text) {
		score += 2
	}
	if emphasisPattern.MatchString(text) {
		score += 3
	}

	return score
}

func metaScore(title, keyword, intro string) int {
	score := 0

	if title != "" {
		n := runeLen(title)
		switch {
		case n >= 30 && n <= 60:
			score += 5
		case n < 30:
			score += 2
		}
	}

	description := truncateRunes(intro, descriptionLength)
	switch n := runeLen(description); {
	case n >= 120:
		score += 5
	case n >= 70:
		score += 3
	}

	if containsFold(description, keyword) {
		score += 5
	}

	return score
}
