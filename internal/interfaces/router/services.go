package router

import (
	"net/http"
	"time"

	"estate-backend/internal/application/analytics"
	"estate-backend/internal/application/insights"
	"estate-backend/internal/application/valuation"
	"estate-backend/internal/config"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Services is the application layer wired from config. The HTTP app and the
// revalue command share it.
type Services struct {
	Valuation *valuation.Service
	Analytics *analytics.Service
	Insights  *insights.Service
}

// NewServices wires the application services. rdb may be nil, in which case
// insights are computed on every read.
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Services {
	bands := valuation.FallbackPriceBands{&valuation.GormPriceBandProvider{DB: db}}
	if cfg.PriceBandURL != "" {
		rps := cfg.PriceBandRPS
		if rps <= 0 {
			rps = 5
		}
		bands = append(bands, &valuation.HTTPPriceBandProvider{
			BaseURL: cfg.PriceBandURL,
			APIKey:  cfg.PriceBandAPIKey,
			Client:  &http.Client{Timeout: 10 * time.Second},
			Limiter: rate.NewLimiter(rate.Limit(rps), 1),
		})
	}

	var cache *insights.Cache
	if rdb != nil {
		cache = &insights.Cache{Rdb: rdb, TTL: cfg.InsightsCacheTTL}
	}

	ana := &analytics.Service{DB: db, NetWorth: &analytics.GormNetWorthProvider{DB: db}}
	val := &valuation.Service{
		DB:         db,
		Calculator: &valuation.Calculator{Bands: bands, Timeout: cfg.PriceBandTimeout},
		Workers:    cfg.ValuationWorkers,
	}
	if cache != nil {
		val.Cache = cache
	}

	return &Services{
		Valuation: val,
		Analytics: ana,
		Insights: &insights.Service{
			Analytics: ana,
			Engine:    insights.NewEngine(cfg.Currency),
			Cache:     cache,
		},
	}
}
