package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/resilience"
)

// OpenWeatherClient fetches current conditions and forecast from
// OpenWeatherMap.
type OpenWeatherClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewOpenWeatherClient creates a new OpenWeatherClient.
func NewOpenWeatherClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *OpenWeatherClient {
	return &OpenWeatherClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		cfg:        cfg,
	}
}

type owmCurrentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecastResponse struct {
	List []struct {
		DtTxt string  `json:"dt_txt"`
		Pop   float64 `json:"pop"`
		Main  struct {
			TempMax float64 `json:"temp_max"`
			TempMin float64 `json:"temp_min"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
			Icon string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// Current fetches current weather plus a 5-day forecast for city.
// The two endpoint calls run sequentially inside one breaker execution.
func (c *OpenWeatherClient) Current(ctx context.Context, city string) (*domain.WeatherData, error) {
	ctx, span := tracer.Start(ctx, "OpenWeatherClient.Current")
	defer span.End()
	span.SetAttributes(attribute.String("weather.city", city))

	result, err := c.cb.Execute(func() (any, error) {
		var current owmCurrentResponse
		var forecast owmForecastResponse

		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			if err := c.getJSON(ctx, "weather", city, &current); err != nil {
				return err
			}
			return c.getJSON(ctx, "forecast", city, &forecast)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		if len(current.Weather) == 0 {
			return nil, fmt.Errorf("weather API returned no conditions for %s", city)
		}

		return &domain.WeatherData{
			Location:    current.Name,
			Temperature: int(math.Round(current.Main.Temp)),
			Condition:   current.Weather[0].Main,
			Humidity:    current.Main.Humidity,
			WindSpeed:   current.Wind.Speed,
			Icon:        current.Weather[0].Icon,
			Forecast:    collapseForecast(forecast),
		}, nil
	})

	if err != nil {
		return nil, wrapErr("weather", err)
	}

	return result.(*domain.WeatherData), nil
}

func (c *OpenWeatherClient) getJSON(ctx context.Context, endpoint, city string, out any) error {
	u := fmt.Sprintf("%s/%s?q=%s&appid=%s&units=metric", c.baseURL, endpoint, url.QueryEscape(city), c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// collapseForecast reduces the 3-hourly forecast list to at most 5 daily
// entries, taking the max/min temperature per day.
func collapseForecast(forecast owmForecastResponse) []domain.WeatherForecast {
	byDate := map[string]*domain.WeatherForecast{}
	order := []string{}

	limit := len(forecast.List)
	if limit > 15 {
		limit = 15
	}
	for _, item := range forecast.List[:limit] {
		date, _, _ := strings.Cut(item.DtTxt, " ")
		if existing, ok := byDate[date]; ok {
			existing.High = maxInt(existing.High, int(math.Round(item.Main.TempMax)))
			existing.Low = minInt(existing.Low, int(math.Round(item.Main.TempMin)))
			continue
		}
		condition := ""
		icon := ""
		if len(item.Weather) > 0 {
			condition = item.Weather[0].Main
			icon = item.Weather[0].Icon
		}
		byDate[date] = &domain.WeatherForecast{
			Date:                date,
			High:                int(math.Round(item.Main.TempMax)),
			Low:                 int(math.Round(item.Main.TempMin)),
			Condition:           condition,
			Icon:                icon,
			PrecipitationChance: math.Round(item.Pop * 100),
		}
		order = append(order, date)
	}

	if len(order) > 5 {
		order = order[:5]
	}
	days := make([]domain.WeatherForecast, 0, len(order))
	for _, date := range order {
		days = append(days, *byDate[date])
	}
	return days
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
