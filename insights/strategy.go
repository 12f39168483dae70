package insights

import (
	"fmt"
	"sort"
	"strings"
)

// ContentIdea is a suggested article
type ContentIdea struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Difficulty  string `json:"difficulty" yaml:"difficulty"`
	Potential   string `json:"potential" yaml:"potential"`
}

// PostingTime is a recommended publishing slot
type PostingTime struct {
	Day    string `json:"day" yaml:"day"`
	Time   string `json:"time" yaml:"time"`
	Reason string `json:"reason" yaml:"reason"`
}

// ContentGap is a topic the existing content does not cover yet
type ContentGap struct {
	Topic            string `json:"topic" yaml:"topic"`
	Relevance        string `json:"relevance" yaml:"relevance"`
	CompetitionLevel string `json:"competitionLevel" yaml:"competitionLevel"`
}

// Trend is a related search with its estimated monthly volume
type Trend struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Volume  int    `json:"volume" yaml:"volume"`
	Growth  string `json:"growth" yaml:"growth"`
}

// growthLabels; only the first three are ever drawn
var growthLabels = []string{"Stable", "Rising", "Surging", "Falling", "Moderate growth"}

// ContentIdeas suggests articles to write around keyword
func (g *Generator) ContentIdeas(keyword string) []ContentIdea {
	ideas := []ContentIdea{}
	if strings.TrimSpace(keyword) == "" {
		return ideas
	}
	year := g.now().Year()
	lower := strings.ToLower(keyword)
	idea := func(difficulty, potential, title, description string) {
		ideas = append(ideas, ContentIdea{
			Title:       title,
			Description: description,
			Difficulty:  difficulty,
			Potential:   potential,
		})
	}

	idea("Medium", "High", "Ultimate Guide to "+keyword,
		fmt.Sprintf("A comprehensive guide covering everything about %s, from basics to advanced strategies.", keyword))
	idea("Easy", "High", fmt.Sprintf("10 Best %s Practices in %d", keyword, year),
		fmt.Sprintf("Explore the top strategies and practices for %s that professionals are using this year.", keyword))
	idea("Easy", "Medium", fmt.Sprintf("How to Improve Your %s Strategy Today", keyword),
		fmt.Sprintf("Practical tips and actionable advice to enhance your %s approach immediately.", keyword))
	idea("Medium", "Medium", keyword+" vs Traditional Methods: A Comparison",
		fmt.Sprintf("An in-depth analysis comparing %s with conventional approaches, highlighting pros and cons of each.", keyword))
	idea("Hard", "High", "Case Study: How Brand X Increased ROI by 200% Using "+keyword,
		fmt.Sprintf("A detailed case study showing real-world results achieved through effective %s implementation.", keyword))
	idea("Easy", "Medium", "Beginner's Guide to "+keyword,
		fmt.Sprintf("An easy-to-follow introduction to %s for those just getting started.", keyword))
	idea("Hard", "Medium", fmt.Sprintf("Advanced %s Techniques for Professionals", keyword),
		fmt.Sprintf("Cutting-edge strategies and techniques for experienced practitioners of %s.", keyword))
	idea("Medium", "High", fmt.Sprintf("Common %s Mistakes and How to Avoid Them", keyword),
		fmt.Sprintf("Identify and overcome frequent pitfalls in %s implementation.", keyword))

	switch {
	case containsAny(lower, "seo", "search"):
		idea("Medium", "High", keyword+" After Google's Latest Algorithm Update",
			fmt.Sprintf("How the latest Google algorithm changes impact your %s strategy and what to do about it.", keyword))
		idea("Medium", "Medium", fmt.Sprintf("Local %s: Strategies for Small Businesses", keyword),
			fmt.Sprintf("Tailored %s approaches specifically designed for local and small business success.", keyword))
	case containsAny(lower, "content", "writing"):
		idea("Medium", "High", "Using AI Tools to Enhance Your "+keyword,
			fmt.Sprintf("How artificial intelligence and automation can improve your %s process and outcomes.", keyword))
		idea("Medium", "Medium", keyword+" Optimization: From Draft to Publication",
			fmt.Sprintf("The complete workflow for creating and optimizing %s for maximum impact.", keyword))
	case containsAny(lower, "market", "business"):
		idea("Medium", "High", fmt.Sprintf("%s Trends to Watch in %d", keyword, year),
			fmt.Sprintf("Emerging trends, patterns, and innovations in %s to keep an eye on this year.", keyword))
		idea("Hard", "Medium", fmt.Sprintf("ROI Measurement for Your %s Efforts", keyword),
			fmt.Sprintf("Frameworks and methodologies to accurately track and measure the return on investment from your %s strategy.", keyword))
	}

	return ideas
}

var (
	defaultPostingTimes = []PostingTime{
		{"Tuesday", "10:00 AM", "High engagement rate for business content early in the work week."},
		{"Wednesday", "2:00 PM", "Mid-week, mid-day sweet spot for professional audience engagement."},
		{"Thursday", "8:00 AM", "Early morning readers catching up before end of work week."},
		{"Weekend (Saturday)", "11:00 AM", "Casual browsing time for non-work related content."},
	}
	techPostingTimes = []PostingTime{
		{"Monday", "8:00 AM", "Tech professionals often check industry news at the start of the work week."},
		{"Wednesday", "1:00 PM", "Mid-week lunch break is popular for technical content consumption."},
		{"Thursday", "4:00 PM", "Late afternoon is when developers often take breaks to read tech articles."},
		{"Sunday", "7:00 PM", "Many developers prepare for the week ahead with technical reading."},
	}
	financePostingTimes = []PostingTime{
		{"Monday", "6:00 AM", "Financial professionals check markets and news before trading opens."},
		{"Tuesday", "7:00 PM", "Evening research time after market close and daily analysis."},
		{"Wednesday", "12:00 PM", "Midday market check during lunch breaks."},
		{"Friday", "4:30 PM", "End of trading week review and planning for next week."},
	}
	healthPostingTimes = []PostingTime{
		{"Monday", "7:00 AM", "Beginning of week motivation for health and fitness goals."},
		{"Wednesday", "6:00 PM", "Post-work hours when people are likely to exercise."},
		{"Friday", "3:00 PM", "Planning for weekend health activities and meal prep."},
		{"Sunday", "9:00 AM", "Weekend morning when health-conscious readers plan their week."},
	}
)

// PostingTimes recommends when to publish content about keyword
func (g *Generator) PostingTimes(keyword string) []PostingTime {
	if strings.TrimSpace(keyword) == "" {
		return []PostingTime{}
	}
	lower := strings.ToLower(keyword)

	var times []PostingTime
	switch {
	case containsAny(lower, "tech", "software", "coding"):
		times = techPostingTimes
	case containsAny(lower, "finance", "money", "invest"):
		times = financePostingTimes
	case containsAny(lower, "health", "fitness", "wellness"):
		times = healthPostingTimes
	default:
		times = defaultPostingTimes
	}
	return append([]PostingTime(nil), times...)
}

// ContentGaps lists topics around keyword that existing does not cover yet
func (g *Generator) ContentGaps(keyword, existing string) []ContentGap {
	gaps := []ContentGap{}
	if strings.TrimSpace(keyword) == "" {
		return gaps
	}
	lowerKeyword := strings.ToLower(keyword)
	lowerContent := strings.ToLower(existing)

	candidates := []ContentGap{
		{keyword + " for Beginners", "High", "Medium"},
		{"Advanced " + keyword + " Strategies", "High", "High"},
		{keyword + " Case Studies", "Medium", "Low"},
		{keyword + " Tools and Resources", "High", "Medium"},
		{keyword + " Industry Trends", "Medium", "Medium"},
		{keyword + " vs Alternative Approaches", "High", "Low"},
	}

	for _, gap := range candidates {
		topic := strings.ToLower(gap.Topic)
		angle := strings.TrimSpace(strings.Replace(topic, lowerKeyword, "", 1))
		if strings.Contains(lowerContent, topic) || strings.Contains(lowerContent, angle) {
			continue
		}
		gaps = append(gaps, gap)
	}
	return gaps
}

// Trends estimates search volume for phrases related to keyword, highest first
func (g *Generator) Trends(keyword string) []Trend {
	if strings.TrimSpace(keyword) == "" {
		return []Trend{}
	}
	lower := strings.ToLower(keyword)

	trend := func(base, suffix string, lo, hi int) Trend {
		return Trend{
			Keyword: strings.TrimSpace(base + " " + suffix),
			Volume:  g.between(lo, hi),
			Growth:  growthLabels[g.source.Intn(3)],
		}
	}

	trends := []Trend{
		trend(keyword, "best practices", 1500, 5000),
		trend(keyword, "examples", 2000, 7000),
		trend(keyword, "tools", 1000, 4000),
		trend(keyword, "statistics", 800, 3000),
		trend(keyword, "trends", 1200, 4500),
		trend("how to use", keyword, 3000, 8000),
		trend(keyword, "for beginners", 2500, 6000),
	}

	switch {
	case containsAny(lower, "seo", "search", "content"):
		trends = append(trends,
			trend(keyword, "algorithm updates", 1500, 4500),
			trend(keyword, "ranking factors", 2500, 6000),
			trend(keyword, "optimization", 3000, 7500),
		)
	case containsAny(lower, "social", "media"):
		trends = append(trends,
			trend(keyword, "viral content", 3500, 8000),
			trend(keyword, "engagement tactics", 2000, 5500),
			trend(keyword, "influencer strategy", 4000, 9000),
		)
	case containsAny(lower, "business", "marketing"):
		trends = append(trends,
			trend(keyword, "ROI", 2000, 5000),
			trend(keyword, "strategy template", 1500, 4500),
			trend(keyword, "case studies", 1800, 5000),
		)
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].Volume > trends[j].Volume
	})
	return trends
}
