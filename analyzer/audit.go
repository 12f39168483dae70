package analyzer

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Section weights of the overall page score
const (
	titleWeight       = 0.2
	metaWeight        = 0.2
	headingWeight     = 0.15
	imageWeight       = 0.2
	performanceWeight = 0.15
	linkWeight        = 0.1
)

// auditPage inspects the parsed page. Link reachability is filled in
// separately by the link checker.
func auditPage(doc *goquery.Document, page *fetchedPage) *PageAudit {
	audit := &PageAudit{
		URL:      page.url.String(),
		Title:    auditTitle(doc),
		Meta:     auditMeta(doc),
		Headings: auditHeadings(doc),
		Images:   auditImages(doc),
		Links:    collectLinks(doc, page.url),
	}
	audit.Performance = auditPerformance(page, audit.Meta.Viewport)
	return audit
}

func auditTitle(doc *goquery.Document) TitleAudit {
	text := strings.TrimSpace(doc.Find("title").First().Text())
	length := utf8.RuneCountInString(text)

	score := 0
	switch {
	case length == 0:
	case length < 30:
		score = 50
	case length <= 60:
		score = 100
	default:
		score = 70
	}
	return TitleAudit{Text: text, Length: length, Score: score}
}

func metaContent(doc *goquery.Document, name string) string {
	content, _ := doc.Find(fmt.Sprintf("meta[name=%q]", name)).First().Attr("content")
	return strings.TrimSpace(content)
}

func auditMeta(doc *goquery.Document) MetaAudit {
	meta := MetaAudit{
		Description: metaContent(doc, "description"),
		Keywords:    metaContent(doc, "keywords"),
		Robots:      metaContent(doc, "robots"),
		Viewport:    metaContent(doc, "viewport"),
	}
	meta.Canonical, _ = doc.Find(`link[rel="canonical"]`).First().Attr("href")
	meta.DescriptionLength = utf8.RuneCountInString(meta.Description)

	if meta.DescriptionLength >= 120 && meta.DescriptionLength <= 160 {
		meta.Score += 40
	} else if meta.DescriptionLength > 0 {
		meta.Score += 20
	}
	for _, present := range []bool{meta.Keywords != "", meta.Viewport != "", meta.Robots != "" || meta.Canonical != ""} {
		if present {
			meta.Score += 20
		}
	}
	return meta
}

func auditHeadings(doc *goquery.Document) HeadingAudit {
	headings := HeadingAudit{
		H1:      doc.Find("h1").Map(func(_ int, s *goquery.Selection) string { return strings.TrimSpace(s.Text()) }),
		H2Count: doc.Find("h2").Length(),
		H3Count: doc.Find("h3").Length(),
	}

	switch len(headings.H1) {
	case 0:
	case 1:
		headings.Score += 40
	default:
		headings.Score += 20
	}
	if headings.H2Count > 0 {
		headings.Score += 30
	}
	if headings.H3Count > 0 {
		headings.Score += 30
	}
	return headings
}

func auditImages(doc *goquery.Document) ImageAudit {
	images := ImageAudit{}
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		images.Total++
		if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			images.WithAlt++
			return
		}
		src, _ := s.Attr("src")
		images.MissingAlt = append(images.MissingAlt, src)
	})

	// A page without images has nothing to fix
	switch {
	case images.Total == 0, images.WithAlt == images.Total:
		images.Score = 100
	case images.WithAlt > 0:
		images.Score = 60
	default:
		images.Score = 20
	}
	return images
}

// threshold maps a measurement above limit to a severity and score penalty
type threshold struct {
	limit    float64
	severity Severity
	penalty  int
}

var (
	pageSizeThresholds = []threshold{ // KB
		{5120, SeverityCritical, 40},
		{2048, SeverityMajor, 30},
		{1024, SeverityModerate, 20},
		{500, SeverityMinor, 10},
	}
	loadTimeThresholds = []threshold{ // ms
		{3000, SeverityCritical, 40},
		{2000, SeverityMajor, 30},
		{1500, SeverityModerate, 20},
		{1000, SeverityMinor, 10},
	}
)

func grade(value float64, thresholds []threshold) (Severity, int) {
	for _, t := range thresholds {
		if value > t.limit {
			return t.severity, t.penalty
		}
	}
	return SeverityGood, 0
}

func auditPerformance(page *fetchedPage, viewport string) PerformanceInfo {
	perf := PerformanceInfo{
		PageSize:        page.size,
		LoadTime:        page.loadTime.Milliseconds(),
		MobileOptimized: strings.Contains(strings.ToLower(viewport), "width=device-width"),
		Score:           100,
	}

	var penalty int
	perf.PageSizeSeverity, penalty = grade(float64(perf.PageSize)/1024, pageSizeThresholds)
	perf.Score -= penalty
	perf.LoadTimeSeverity, penalty = grade(float64(perf.LoadTime), loadTimeThresholds)
	perf.Score -= penalty
	if !perf.MobileOptimized {
		perf.Score -= 20
	}
	return perf
}

// collectLinks resolves every anchor against base and splits them by host
func collectLinks(doc *goquery.Document, base *url.URL) LinkAudit {
	links := LinkAudit{Internal: []string{}, External: []string{}}
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		target := base.ResolveReference(ref)
		if target.Scheme != "http" && target.Scheme != "https" {
			return // mailto:, tel:, javascript:
		}
		target.Fragment = ""

		key := target.String()
		if seen[key] {
			return
		}
		seen[key] = true

		if strings.EqualFold(target.Hostname(), base.Hostname()) {
			links.Internal = append(links.Internal, key)
		} else {
			links.External = append(links.External, key)
		}
	})
	return links
}

// scoreLinks grades link counts and, when checked, broken links
func scoreLinks(links *LinkAudit) {
	score := 100
	switch internal := len(links.Internal); {
	case internal == 0:
		score -= 40
	case internal < 3:
		score -= 30
	case internal < 5:
		score -= 20
	}
	switch external := len(links.External); {
	case external == 0:
		score -= 30
	case external > 50:
		score -= 15
	}
	switch broken := len(links.Broken); {
	case broken > 5:
		score -= 30
	case broken > 3:
		score -= 20
	case broken > 0:
		score -= 10
	}
	links.Score = score
}

// finishAudit computes the weighted score and the recommendations
func finishAudit(audit *PageAudit) {
	scoreLinks(&audit.Links)

	audit.Score = float64(audit.Title.Score)*titleWeight +
		float64(audit.Meta.Score)*metaWeight +
		float64(audit.Headings.Score)*headingWeight +
		float64(audit.Images.Score)*imageWeight +
		float64(audit.Performance.Score)*performanceWeight +
		float64(audit.Links.Score)*linkWeight

	audit.Recommendations = recommend(audit)
}

var (
	pageSizeAdvice = map[Severity]string{
		SeverityCritical: "Critical: Page size is extremely large (>5MB). Optimize images, minify CSS/JS and remove unused resources",
		SeverityMajor:    "Major: Page size is very large (>2MB). Optimize images and lazy load non-critical resources",
		SeverityModerate: "Moderate: Page size is large (>1MB). Look for images and resources to optimize",
		SeverityMinor:    "Minor: Page size is above optimal (>500KB). Consider basic optimization",
	}
	loadTimeAdvice = map[Severity]string{
		SeverityCritical: "Critical: Page load time is extremely slow (>3s). Use a CDN and reduce server response time",
		SeverityMajor:    "Major: Page load time is slow (>2s). Improve server response time",
		SeverityModerate: "Moderate: Page load time is above optimal (>1.5s)",
		SeverityMinor:    "Minor: Page load time is slightly above optimal (>1s)",
	}
)

func recommend(audit *PageAudit) []string {
	var out []string
	add := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	switch t := audit.Title; {
	case t.Length == 0:
		add("Add a title tag to your page")
	case t.Length < 30:
		add("Title tag is too short (%d characters, aim for 30-60)", t.Length)
	case t.Length > 60:
		add("Title tag is too long (%d characters, aim for 30-60)", t.Length)
	}

	switch m := audit.Meta; {
	case m.DescriptionLength == 0:
		add("Add a meta description")
	case m.DescriptionLength < 120:
		add("Meta description is too short (%d characters, aim for 120-160)", m.DescriptionLength)
	case m.DescriptionLength > 160:
		add("Meta description is too long (%d characters, aim for 120-160)", m.DescriptionLength)
	}

	switch len(audit.Headings.H1) {
	case 0:
		add("Add an H1 heading")
	case 1:
	default:
		add("Multiple H1 headings found (%d), use only one", len(audit.Headings.H1))
	}

	if missing := audit.Images.Total - audit.Images.WithAlt; missing > 0 {
		add("Add alt text to %d of %d images", missing, audit.Images.Total)
	}

	if advice, ok := pageSizeAdvice[audit.Performance.PageSizeSeverity]; ok {
		add("%s", advice)
	}
	if advice, ok := loadTimeAdvice[audit.Performance.LoadTimeSeverity]; ok {
		add("%s", advice)
	}
	if !audit.Performance.MobileOptimized {
		add(`Add a viewport meta tag for mobile devices, e.g. <meta name="viewport" content="width=device-width, initial-scale=1">`)
	}

	if n := len(audit.Links.Broken); n > 0 {
		add("Fix broken links: found %d broken link(s)", n)
	}
	if len(audit.Links.Internal) < 3 {
		add("Add more internal links to improve site navigation (aim for at least 3-5)")
	}
	if n := len(audit.Links.External); n == 0 {
		add("Add relevant external links to authoritative sources")
	} else if n > 50 {
		add("Consider reducing the number of external links (current: %d)", n)
	}

	return out
}
