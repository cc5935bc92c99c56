package domain

// WeatherForecast is one day of forecast data.
type WeatherForecast struct {
	Date                string  `json:"date"`
	High                int     `json:"high"`
	Low                 int     `json:"low"`
	Condition           string  `json:"condition"`
	Icon                string  `json:"icon"`
	PrecipitationChance float64 `json:"precipitationChance"`
}

// WeatherData is current conditions plus a 5-day forecast for one location.
type WeatherData struct {
	Location    string            `json:"location"`
	Temperature int               `json:"temperature"`
	Condition   string            `json:"condition"`
	Humidity    int               `json:"humidity"`
	WindSpeed   float64           `json:"windSpeed"`
	Icon        string            `json:"icon"`
	Forecast    []WeatherForecast `json:"forecast"`
}

// SpendingWeatherInsight maps current weather to a spending recommendation.
// PotentialSavings is negative when the weather implies extra cost.
type SpendingWeatherInsight struct {
	Category         string  `json:"category"`
	Recommendation   string  `json:"recommendation"`
	Reason           string  `json:"reason"`
	PotentialSavings float64 `json:"potentialSavings"`
}
