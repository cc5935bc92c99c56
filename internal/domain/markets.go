package domain

// ============================================================
// Stocks & Investments
// ============================================================

// StockQuote is a single symbol quote, either live (Alpha Vantage) or mock.
type StockQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"marketCap,omitempty"`
	PERatio       float64 `json:"pe,omitempty"`
	Dividend      float64 `json:"dividend,omitempty"`
}

// ChartPoint is one OHLCV candle.
type ChartPoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// StockChart is a daily price series for one symbol, oldest first.
type StockChart struct {
	Symbol string       `json:"symbol"`
	Data   []ChartPoint `json:"data"`
}

// MarketIndex is a major index snapshot.
type MarketIndex struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// MarketOverview is the dashboard market widget payload.
type MarketOverview struct {
	Indices    []MarketIndex `json:"indices"`
	TopGainers []StockQuote  `json:"topGainers"`
	TopLosers  []StockQuote  `json:"topLosers"`
	MostActive []StockQuote  `json:"mostActive"`
}

// Investment is a single portfolio holding.
type Investment struct {
	ID                 string  `json:"id"`
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	Shares             float64 `json:"shares"`
	CurrentPrice       float64 `json:"currentPrice"`
	PurchasePrice      float64 `json:"purchasePrice"`
	PurchaseDate       string  `json:"purchaseDate"`
	CurrentValue       float64 `json:"currentValue"`
	GainLoss           float64 `json:"gainLoss"`
	GainLossPercentage float64 `json:"gainLossPercentage"`
	DividendYield      float64 `json:"dividendYield,omitempty"`
}

// AssetAllocation is the portfolio split by asset class, in percent.
type AssetAllocation struct {
	Stocks float64 `json:"stocks"`
	Bonds  float64 `json:"bonds"`
	Cash   float64 `json:"cash"`
	Crypto float64 `json:"crypto"`
}

// Portfolio is a user's full investment portfolio.
type Portfolio struct {
	TotalValue              float64         `json:"totalValue"`
	TotalGainLoss           float64         `json:"totalGainLoss"`
	TotalGainLossPercentage float64         `json:"totalGainLossPercentage"`
	Investments             []Investment    `json:"investments"`
	AssetAllocation         AssetAllocation `json:"assetAllocation"`
}

// InvestmentInsights scores a portfolio and suggests next steps.
type InvestmentInsights struct {
	RiskScore            int      `json:"riskScore"`
	DiversificationScore int      `json:"diversificationScore"`
	Recommendations      []string `json:"recommendations"`
	NextActions          []string `json:"nextActions"`
}
