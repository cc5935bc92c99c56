package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/client"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/port"
)

var weatherTracer = otel.Tracer("service/weather")

// WeatherService serves current conditions and weather-driven spending
// insights. A failing or absent provider falls back to generated weather.
type WeatherService struct {
	fetcher     port.WeatherFetcher
	mock        *client.MockWeather
	defaultCity string
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewWeatherService creates a weather service. fetcher may be nil.
func NewWeatherService(fetcher port.WeatherFetcher, mock *client.MockWeather, defaultCity string, metrics *observability.Metrics, logger *zap.Logger) *WeatherService {
	return &WeatherService{fetcher: fetcher, mock: mock, defaultCity: defaultCity, metrics: metrics, logger: logger}
}

// Current returns the weather for city, falling back to the configured
// default city when empty.
func (s *WeatherService) Current(ctx context.Context, city string) *domain.WeatherData {
	ctx, span := weatherTracer.Start(ctx, "WeatherService.Current")
	defer span.End()

	if city == "" {
		city = s.defaultCity
	}
	span.SetAttributes(attribute.String("weather.city", city))

	if s.fetcher != nil {
		data, err := s.fetcher.Current(ctx, city)
		if err == nil {
			return data
		}
		s.metrics.IncrExternalError("weather")
		s.logger.Warn("live weather unavailable, using generated conditions",
			zap.String("city", city),
			zap.Error(err))
	}

	s.metrics.IncrMockFallback("weather")
	data, _ := s.mock.Current(ctx, city)
	return data
}

// SpendingInsights maps current conditions onto spending recommendations.
// Negative PotentialSavings means the weather implies extra cost.
func (s *WeatherService) SpendingInsights(ctx context.Context, city string) []domain.SpendingWeatherInsight {
	ctx, span := weatherTracer.Start(ctx, "WeatherService.SpendingInsights")
	defer span.End()

	weather := s.Current(ctx, city)
	insights := make([]domain.SpendingWeatherInsight, 0)

	switch weather.Condition {
	case "Rain", "Thunderstorm":
		insights = append(insights,
			domain.SpendingWeatherInsight{
				Category:         "Transportation",
				Recommendation:   "Expect higher ride-share costs during the storm",
				Reason:           "Rainy weather drives up demand for rides",
				PotentialSavings: -15,
			},
			domain.SpendingWeatherInsight{
				Category:         "Entertainment",
				Recommendation:   "Great day for free indoor activities at home",
				Reason:           "Outdoor plans are likely to be rained out",
				PotentialSavings: 0,
			},
		)
	}

	switch {
	case weather.Temperature > 25:
		insights = append(insights,
			domain.SpendingWeatherInsight{
				Category:         "Food",
				Recommendation:   "Skip delivery and grill outside tonight",
				Reason:           "Warm weather is perfect for cooking outdoors",
				PotentialSavings: -10,
			},
			domain.SpendingWeatherInsight{
				Category:         "Utilities",
				Recommendation:   "Raise the thermostat a few degrees to cut cooling costs",
				Reason:           "Air conditioning spikes electricity usage on hot days",
				PotentialSavings: -25,
			},
		)
	case weather.Temperature < 5:
		insights = append(insights, domain.SpendingWeatherInsight{
			Category:         "Shopping",
			Recommendation:   "Hold off on non-essential trips until the cold snap passes",
			Reason:           "Cold-weather impulse purchases add up",
			PotentialSavings: -30,
		})
	}

	if weather.Condition == "Clear" && weather.Temperature >= 15 && weather.Temperature <= 25 {
		insights = append(insights,
			domain.SpendingWeatherInsight{
				Category:         "Transportation",
				Recommendation:   "Walk or bike instead of driving today",
				Reason:           "Mild, clear weather makes active transport pleasant",
				PotentialSavings: 20,
			},
			domain.SpendingWeatherInsight{
				Category:         "Entertainment",
				Recommendation:   "Choose free outdoor activities over paid venues",
				Reason:           "Parks and trails are at their best in this weather",
				PotentialSavings: 50,
			},
		)
	}

	return insights
}
