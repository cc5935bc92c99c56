package domain

// Currency describes a supported currency and its rate relative to USD.
type Currency struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
}

// CurrencyConversion is the result of converting an amount between two
// currencies via the USD cross rate.
type CurrencyConversion struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"convertedAmount"`
	Rate            float64 `json:"rate"`
	Timestamp       string  `json:"timestamp"`
}

// RatePoint is one day in a historical rate series.
type RatePoint struct {
	Date      string  `json:"date"`
	Rate      float64 `json:"rate"`
	Timestamp int64   `json:"timestamp"`
}
