package router

import (
	"net/http"
	"time"

	"estate-backend/internal/config"
	"estate-backend/internal/infrastructure/database"
	analyticshandler "estate-backend/internal/interfaces/handlers/analytics"
	healthhandler "estate-backend/internal/interfaces/handlers/health"
	insightshandler "estate-backend/internal/interfaces/handlers/insights"
	valuationhandler "estate-backend/internal/interfaces/handlers/valuation"
	"estate-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	return database.Ping(g.db)
}

// CreateApp opens the database and Redis from cfg and builds the Fiber app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		var err error
		rdb, err = middleware.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	return NewApp(cfg, db, rdb), db, rdb, nil
}

// NewApp builds the Fiber app on already opened connections. Without a
// database only the health endpoint is mounted.
func NewApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.RequestStats(rdb))
	app.Use(middleware.Session(rdb, cfg.SessionSecret))

	hh := &healthhandler.Handlers{Rdb: rdb, Started: time.Now()}
	if db != nil {
		hh.DB = &gormDBPinger{db: db}
	}
	app.Get("/health/json", hh.JSON)

	if db == nil {
		return app
	}

	svcs := NewServices(cfg, db, rdb)
	vh := &valuationhandler.Handlers{Service: svcs.Valuation, SkipRecentDays: cfg.SkipRecentDays}
	ah := &analyticshandler.Handlers{Service: svcs.Analytics}
	ih := &insightshandler.Handlers{Service: svcs.Insights}

	re := app.Group("/api/v1/real-estate", middleware.RequireAuth())
	re.Get("/properties/:id/analytics", ah.Property)
	re.Post("/properties/:id/revalue", vh.Revalue)
	re.Get("/portfolio", ah.Portfolio)
	re.Get("/insights", ih.List)
	re.Post("/revalue-all", vh.RevalueAll)
	re.Get("/valuation-runs", vh.Runs)

	return app
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
