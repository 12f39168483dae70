package insights

// RankingPoint is the keyword position for a month
type RankingPoint struct {
	Date     string `json:"date"`
	Position int    `json:"position"`
}

// TrafficPoint splits monthly visits by channel
type TrafficPoint struct {
	Date    string `json:"date"`
	Organic int    `json:"organic"`
	Direct  int    `json:"direct"`
}

// Competitor compares a site's score against ours
type Competitor struct {
	Name         string `json:"name"`
	Score        int    `json:"score"`
	KeywordCount int    `json:"keywordCount"`
}

// SearchConsole holds the headline search console figures
type SearchConsole struct {
	ClickThroughRate float64 `json:"clickThroughRate"` // percent
	AveragePosition  float64 `json:"averagePosition"`
	Impressions      int     `json:"impressions"`
	Clicks           int     `json:"clicks"`
}

// Performance is the data behind the performance dashboard
type Performance struct {
	Rankings      []RankingPoint `json:"rankings"`
	Traffic       []TrafficPoint `json:"traffic"`
	Competitors   []Competitor   `json:"competitors"`
	SearchConsole SearchConsole  `json:"searchConsole"`
}

var dashboardMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// Rankings improve over the half year: the worst possible position shrinks each month
var rankingCeilings = []int{30, 30, 20, 15, 10, 8}

// Performance generates sample dashboard data around the current SEO score
func (g *Generator) Performance(seoScore int) Performance {
	p := Performance{}

	for i, month := range dashboardMonths {
		p.Rankings = append(p.Rankings, RankingPoint{
			Date:     month,
			Position: g.source.Intn(rankingCeilings[i]) + 1,
		})
	}

	// Traffic ceilings grow month over month
	organic := []int{500, 600, 800, 1000, 1200, 1500}
	direct := []int{300, 350, 400, 450, 500, 550}
	for i, month := range dashboardMonths {
		p.Traffic = append(p.Traffic, TrafficPoint{
			Date:    month,
			Organic: g.source.Intn(organic[i]),
			Direct:  g.source.Intn(direct[i]),
		})
	}

	p.Competitors = []Competitor{
		{Name: "Your Site", Score: seoScore, KeywordCount: g.between(70, 99)},
		{Name: "Competitor A", Score: g.between(70, 84), KeywordCount: g.between(60, 89)},
		{Name: "Competitor B", Score: g.between(60, 74), KeywordCount: g.between(50, 69)},
		{Name: "Competitor C", Score: g.between(40, 54), KeywordCount: g.between(30, 44)},
	}

	p.SearchConsole = SearchConsole{
		ClickThroughRate: float64(g.between(20, 120)) / 10,
		AveragePosition:  float64(g.between(80, 380)) / 10,
		Impressions:      g.between(1000, 5999),
		Clicks:           g.between(100, 599),
	}

	return p
}
