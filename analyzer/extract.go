package analyzer

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/go-shiori/go-readability"
)

// extractArticle pulls the main content out of a page and converts it to
// markdown, which keeps the headings, lists and links the text metrics look for.
func extractArticle(body []byte, pageURL *url.URL) (*Article, error) {
	parser := readability.NewParser()
	parsed, err := parser.Parse(bytes.NewReader(body), pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(parsed.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to convert article to markdown: %w", err)
	}

	return &Article{
		Title:    strings.TrimSpace(parsed.Title),
		Byline:   strings.TrimSpace(parsed.Byline),
		SiteName: strings.TrimSpace(parsed.SiteName),
		Excerpt:  strings.TrimSpace(parsed.Excerpt),
		Markdown: strings.TrimSpace(markdown),
	}, nil
}
