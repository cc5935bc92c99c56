package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
// An empty API key is not an error: the matching integration runs in
// permanent mock mode instead.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Local persistence
	DBPath string

	// External read APIs
	ExchangeRateAPIURL string
	AlphaVantageURL    string
	AlphaVantageAPIKey string
	OpenWeatherURL     string
	OpenWeatherAPIKey  string
	NewsAPIURL         string
	NewsAPIKey         string

	// Generative AI
	GeminiAPIURL string
	GeminiAPIKey string
	GeminiModel  string

	// Notifications
	NotifyWebhookURL string

	// Identity provider
	AuthJWTSecret string
	AuthIssuer    string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Caching
	RatesCacheTTL  time.Duration
	QuotesCacheTTL time.Duration
	NewsCacheTTL   time.Duration

	// Mock data
	MockSeed int64 // 0 = derive from wall clock

	// Misc
	DefaultCity string

	// Observability
	OTLPEndpoint string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBPath: getEnv("DB_PATH", "data/wallet.db"),

		ExchangeRateAPIURL: getEnv("EXCHANGERATE_API_URL", "https://api.exchangerate-api.com/v4/latest"),
		AlphaVantageURL:    getEnv("ALPHA_VANTAGE_URL", "https://www.alphavantage.co/query"),
		AlphaVantageAPIKey: getEnv("ALPHA_VANTAGE_API_KEY", ""),
		OpenWeatherURL:     getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5"),
		OpenWeatherAPIKey:  getEnv("OPENWEATHER_API_KEY", ""),
		NewsAPIURL:         getEnv("NEWSAPI_URL", "https://newsapi.org/v2"),
		NewsAPIKey:         getEnv("NEWSAPI_KEY", ""),

		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),

		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		AuthIssuer:    getEnv("AUTH_ISSUER", "smart-wallet-idp"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		RatesCacheTTL:  getEnvDuration("RATES_CACHE_TTL", time.Hour),
		QuotesCacheTTL: getEnvDuration("QUOTES_CACHE_TTL", 2*time.Minute),
		NewsCacheTTL:   getEnvDuration("NEWS_CACHE_TTL", 30*time.Minute),

		MockSeed: int64(getEnvInt("MOCK_SEED", 0)),

		DefaultCity: getEnv("DEFAULT_CITY", "New York"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
