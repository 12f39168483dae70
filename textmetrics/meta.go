package textmetrics

import (
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLength   = 60
	metaKeywordCount = 10
	ellipsis         = "..."
)

// GenerateMetaTags derives a title, description and keyword list for the
// page head. Titles longer than 60 characters are cut to 57 plus an ellipsis.
func GenerateMetaTags(title, text string) MetaTags {
	if isBlank(title) || isBlank(text) {
		return MetaTags{}
	}

	collapsed := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	description := strings.TrimSpace(truncateRunes(collapsed, descriptionLength)) + ellipsis

	keywords := ExtractKeywords(text)
	if len(keywords) > metaKeywordCount {
		keywords = keywords[:metaKeywordCount]
	}

	if runeLen(title) > maxTitleLength {
		title = truncateRunes(title, maxTitleLength-len(ellipsis)) + ellipsis
	}

	return MetaTags{
		Title:       title,
		Description: description,
		Keywords:    strings.Join(keywords, ", "),
	}
}

// GenerateAltText builds alt text for an image from its file name, the
// target keyword and the opening words of the content.
func GenerateAltText(imageURL, text, keyword string) string {
	if isBlank(imageURL) {
		return ""
	}

	var b strings.Builder
	if keyword != "" {
		b.WriteString(keyword)
		b.WriteString(" visualization showing ")
	}

	name := imageURL[strings.LastIndex(imageURL, "/")+1:]
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	name = fileNameSplitter.ReplaceAllString(name, " ")
	name = camelBoundary.ReplaceAllString(name, "$1 $2")
	b.WriteString(strings.ToLower(name))

	if utf8.RuneCountInString(text) > 100 {
		lead := strings.Split(truncateRunes(text, 50), " ")
		if len(lead) > 5 {
			lead = lead[:5]
		}
		b.WriteString(" related to ")
		b.WriteString(strings.Join(lead, " "))
	}

	return b.String()
}
