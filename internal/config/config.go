package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	SessionSecret       string
	DatabaseURL         string // postgres DSN, or "sqlite:<path>" for local runs
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool

	Currency         string // ISO code used when rendering amounts in insights
	ValuationWorkers int
	SkipRecentDays   int // batch default; 0 revalues everything

	PriceBandURL     string // external price-band API; empty uses the local table only
	PriceBandAPIKey  string
	PriceBandTimeout time.Duration
	PriceBandRPS     float64

	InsightsCacheTTL time.Duration
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CURRENCY", "INR")
	viper.SetDefault("VALUATION_WORKERS", 3)
	viper.SetDefault("VALUATION_SKIP_RECENT_DAYS", 0)
	viper.SetDefault("PRICE_BAND_TIMEOUT", "3s")
	viper.SetDefault("PRICE_BAND_RPS", 5)
	viper.SetDefault("INSIGHTS_CACHE_TTL", "5m")

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	workers := viper.GetInt("VALUATION_WORKERS")
	if workers <= 0 {
		workers = 3
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		LogLevel:            strings.ToLower(viper.GetString("LOG_LEVEL")),
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		Currency:            strings.ToUpper(viper.GetString("CURRENCY")),
		ValuationWorkers:    workers,
		SkipRecentDays:      viper.GetInt("VALUATION_SKIP_RECENT_DAYS"),
		PriceBandURL:        strings.TrimSpace(viper.GetString("PRICE_BAND_URL")),
		PriceBandAPIKey:     viper.GetString("PRICE_BAND_API_KEY"),
		PriceBandTimeout:    viper.GetDuration("PRICE_BAND_TIMEOUT"),
		PriceBandRPS:        viper.GetFloat64("PRICE_BAND_RPS"),
		InsightsCacheTTL:    viper.GetDuration("INSIGHTS_CACHE_TTL"),
	}, nil
}

// IsProduction reports whether cookies and CORS run in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
