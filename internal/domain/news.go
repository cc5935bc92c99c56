package domain

// Article sentiment values, derived by keyword counting.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// NewsArticle is one financial news item.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
	ImageURL    string `json:"urlToImage,omitempty"`
	Category    string `json:"category"`
	Sentiment   string `json:"sentiment,omitempty"`
}

// MarketNews is a page of news articles with cache metadata.
type MarketNews struct {
	Articles     []NewsArticle `json:"articles"`
	LastUpdated  string        `json:"lastUpdated"`
	TotalResults int           `json:"totalResults"`
}

// MarketSentiment aggregates article sentiment into a market mood.
type MarketSentiment struct {
	Overall    string   `json:"overall"` // bullish, bearish, neutral
	Confidence int      `json:"confidence"`
	Factors    []string `json:"factors"`
}
