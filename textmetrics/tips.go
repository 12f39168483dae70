package textmetrics

import "fmt"

// GetOptimizationTips lists what to fix in a document for the target keyword.
// Each tip kind keeps a fixed ID so clients can track them across edits.
func GetOptimizationTips(text, keyword string) []OptimizationTip {
	tips := []OptimizationTip{}
	if isBlank(text) || isBlank(keyword) {
		return tips
	}

	readability := AnalyzeReadability(text)
	add := func(id int, importance Importance, tip string) {
		tips = append(tips, OptimizationTip{ID: id, Tip: tip, Importance: importance})
	}

	if !containsFold(firstParagraph(text), keyword) {
		add(1, ImportanceHigh, fmt.Sprintf("Include your target keyword %q in the first paragraph.", keyword))
	}

	density := keywordDensity(text, keyword, readability.WordCount)
	switch {
	case readability.WordCount == 0:
		// no density to judge
	case density < minIdealDensity:
		add(2, ImportanceHigh, fmt.Sprintf("Increase keyword density for %q (currently too low).", keyword))
	case density > maxIdealDensity:
		add(3, ImportanceMedium, fmt.Sprintf("Decrease keyword density for %q to avoid keyword stuffing.", keyword))
	}

	switch {
	case readability.WordCount < 300:
		add(4, ImportanceHigh, "Increase content length to at least 300 words for better SEO performance.")
	case readability.WordCount < 600:
		add(5, ImportanceMedium, "Consider adding more content (aim for 600+ words) for comprehensive coverage.")
	}

	if readability.AvgWordsPerSentence > 25 {
		add(6, ImportanceMedium, "Shorten your sentences to improve readability (aim for less than 20 words per sentence).")
	}

	if readability.ParagraphCount < 3 && readability.WordCount > 300 {
		add(7, ImportanceMedium, "Break your content into more paragraphs to improve readability.")
	}

	if !headingMarker.MatchString(text) && !htmlHeadingOpen.MatchString(text) {
		add(8, ImportanceHigh, "Add headings (H2, H3) to structure your content and improve SEO.")
	}

	if !markdownImage.MatchString(text) && !htmlImage.MatchString(text) {
		add(9, ImportanceLow, "Add images or other multimedia to enhance engagement and SEO value.")
	}

	if !markdownLink.MatchString(text) && !htmlAnchor.MatchString(text) {
		add(10, ImportanceMedium, "Add internal or external links to increase authority and user experience.")
	}

	return tips
}
