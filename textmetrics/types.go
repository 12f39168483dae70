package textmetrics

// ContentDocument is the piece of content a user submits for analysis
type ContentDocument struct {
	Text          string `json:"content" yaml:"content"`
	Title         string `json:"title" yaml:"title"`
	TargetKeyword string `json:"targetKeyword" yaml:"targetKeyword"`
}

// ReadabilityMetrics holds the descriptive statistics of a text
type ReadabilityMetrics struct {
	Score               int     `json:"score" yaml:"score"`
	WordCount           int     `json:"wordCount" yaml:"wordCount"`
	SentenceCount       int     `json:"sentenceCount" yaml:"sentenceCount"`
	AvgWordsPerSentence float64 `json:"avgWordsPerSentence" yaml:"avgWordsPerSentence"`
	ParagraphCount      int     `json:"paragraphCount" yaml:"paragraphCount"`
	ReadingTime         int     `json:"readingTime" yaml:"readingTime"` // minutes
}

// ScoreBreakdown holds the five weighted sub-scores of an SEO score
type ScoreBreakdown struct {
	Content     int `json:"content" yaml:"content"`         // 0-20
	Keyword     int `json:"keyword" yaml:"keyword"`         // 0-30
	Readability int `json:"readability" yaml:"readability"` // 0-20
	Structure   int `json:"structure" yaml:"structure"`     // 0-15
	Meta        int `json:"meta" yaml:"meta"`               // 0-15
}

// Total sums the sub-scores
func (b ScoreBreakdown) Total() int {
	return b.Content + b.Keyword + b.Readability + b.Structure + b.Meta
}

// SeoScore is the composite score of a document
type SeoScore struct {
	Score     int            `json:"score" yaml:"score"`
	Breakdown ScoreBreakdown `json:"breakdown" yaml:"breakdown"`
}

// Importance ranks an optimization tip
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// OptimizationTip is a single actionable hint. IDs are stable per kind of tip.
type OptimizationTip struct {
	ID         int        `json:"id" yaml:"id"`
	Tip        string     `json:"tip" yaml:"tip"`
	Importance Importance `json:"importance" yaml:"importance"`
}

// SuggestionType classifies a content improvement suggestion
type SuggestionType string

const (
	SuggestionPassiveVoice     SuggestionType = "passive-voice"
	SuggestionReadability      SuggestionType = "readability"
	SuggestionKeywordVariation SuggestionType = "keyword-variation"
	SuggestionCTA              SuggestionType = "cta"
)

// ContentSuggestion proposes a rewrite of part of the content
type ContentSuggestion struct {
	ID          int            `json:"id" yaml:"id"`
	Type        SuggestionType `json:"type" yaml:"type"`
	Original    string         `json:"original" yaml:"original"`
	Improved    string         `json:"improved" yaml:"improved"`
	Explanation string         `json:"explanation" yaml:"explanation"`
	Context     string         `json:"context,omitempty" yaml:"context,omitempty"`
}

// MetaTags are the generated head tags for a document
type MetaTags struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Keywords    string `json:"keywords" yaml:"keywords"`
}

// Page is another page of the same site, used for internal linking
type Page struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Content string `json:"content" yaml:"content"`
}

// LinkDirection tells whether a link points to or away from the current page
type LinkDirection string

const (
	LinkInbound  LinkDirection = "inbound"
	LinkOutbound LinkDirection = "outbound"
)

// Anchor is a candidate anchor text for a link
type Anchor struct {
	Text       string `json:"text" yaml:"text"`
	IsSelected bool   `json:"isSelected" yaml:"isSelected"`
}

// LinkSuggestion is an internal linking opportunity
type LinkSuggestion struct {
	ID         int           `json:"id" yaml:"id"`
	Text       string        `json:"text" yaml:"text"`
	Context    string        `json:"context" yaml:"context"`
	TargetPage string        `json:"targetPage" yaml:"targetPage"`
	TargetURL  string        `json:"targetUrl" yaml:"targetUrl"`
	Type       LinkDirection `json:"type" yaml:"type"`
	Anchors    []Anchor      `json:"anchors" yaml:"anchors"`
}
