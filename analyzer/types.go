package analyzer

import (
	"time"

	"github.com/seo-optimizer/content-engine/language"
	"github.com/seo-optimizer/content-engine/textmetrics"
)

// Report is the complete analysis of a piece of content
type Report struct {
	Title           string                          `json:"title" yaml:"title"`
	TargetKeyword   string                          `json:"targetKeyword" yaml:"targetKeyword"`
	Readability     textmetrics.ReadabilityMetrics  `json:"readability" yaml:"readability"`
	SeoScore        textmetrics.SeoScore            `json:"seoScore" yaml:"seoScore"`
	Tips            []textmetrics.OptimizationTip   `json:"tips" yaml:"tips"`
	Suggestions     []textmetrics.ContentSuggestion `json:"suggestions" yaml:"suggestions"`
	Keywords        []string                        `json:"keywords" yaml:"keywords"`
	RelatedKeywords []string                        `json:"relatedKeywords" yaml:"relatedKeywords"`
	MetaTags        textmetrics.MetaTags            `json:"metaTags" yaml:"metaTags"`
	Language        *language.Result                `json:"language,omitempty" yaml:"language,omitempty"`
	Page            *PageAudit                      `json:"page,omitempty" yaml:"page,omitempty"`
	Article         *Article                        `json:"article,omitempty" yaml:"article,omitempty"`
	AnalyzedAt      time.Time                       `json:"analyzedAt" yaml:"analyzedAt"`
}

// Article is the main content extracted from a fetched page
type Article struct {
	Title    string `json:"title" yaml:"title"`
	Byline   string `json:"byline,omitempty" yaml:"byline,omitempty"`
	SiteName string `json:"siteName,omitempty" yaml:"siteName,omitempty"`
	Excerpt  string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Markdown string `json:"markdown" yaml:"markdown"`
}

// PageAudit is the technical SEO audit of a fetched page
type PageAudit struct {
	URL             string          `json:"url" yaml:"url"`
	Title           TitleAudit      `json:"title" yaml:"title"`
	Meta            MetaAudit       `json:"meta" yaml:"meta"`
	Headings        HeadingAudit    `json:"headings" yaml:"headings"`
	Images          ImageAudit      `json:"images" yaml:"images"`
	Performance     PerformanceInfo `json:"performance" yaml:"performance"`
	Links           LinkAudit       `json:"links" yaml:"links"`
	Score           float64         `json:"score" yaml:"score"`
	Recommendations []string        `json:"recommendations" yaml:"recommendations"`
}

type TitleAudit struct {
	Text   string `json:"text" yaml:"text"`
	Length int    `json:"length" yaml:"length"`
	Score  int    `json:"score" yaml:"score"`
}

type MetaAudit struct {
	Description       string `json:"description" yaml:"description"`
	DescriptionLength int    `json:"descriptionLength" yaml:"descriptionLength"`
	Keywords          string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Robots            string `json:"robots,omitempty" yaml:"robots,omitempty"`
	Viewport          string `json:"viewport,omitempty" yaml:"viewport,omitempty"`
	Canonical         string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Score             int    `json:"score" yaml:"score"`
}

type HeadingAudit struct {
	H1      []string `json:"h1" yaml:"h1"`
	H2Count int      `json:"h2Count" yaml:"h2Count"`
	H3Count int      `json:"h3Count" yaml:"h3Count"`
	Score   int      `json:"score" yaml:"score"`
}

type ImageAudit struct {
	Total      int      `json:"total" yaml:"total"`
	WithAlt    int      `json:"withAlt" yaml:"withAlt"`
	MissingAlt []string `json:"missingAlt,omitempty" yaml:"missingAlt,omitempty"` // image sources
	Score      int      `json:"score" yaml:"score"`
}

// Severity grades how far a measurement is from the optimum
type Severity string

const (
	SeverityGood     Severity = "good"
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

type PerformanceInfo struct {
	PageSize         int      `json:"pageSize" yaml:"pageSize"` // bytes
	LoadTime         int64    `json:"loadTime" yaml:"loadTime"` // milliseconds
	MobileOptimized  bool     `json:"mobileOptimized" yaml:"mobileOptimized"`
	PageSizeSeverity Severity `json:"pageSizeSeverity" yaml:"pageSizeSeverity"`
	LoadTimeSeverity Severity `json:"loadTimeSeverity" yaml:"loadTimeSeverity"`
	Score            int      `json:"score" yaml:"score"`
}

type LinkAudit struct {
	Internal []string `json:"internal" yaml:"internal"`
	External []string `json:"external" yaml:"external"`
	Broken   []string `json:"broken,omitempty" yaml:"broken,omitempty"`
	Checked  bool     `json:"checked" yaml:"checked"` // whether reachability was tested
	Score    int      `json:"score" yaml:"score"`
}
