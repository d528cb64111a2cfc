package insights

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	anasvc "estate-backend/internal/application/analytics"
	inssvc "estate-backend/internal/application/insights"
	"estate-backend/internal/domain"
	"estate-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func fp(v float64) *float64 { return &v }

func setupInsightsTest(t *testing.T) (*fiber.App, *gorm.DB, *miniredis.Miniredis, uuid.UUID) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Asset{}, &domain.Loan{}, &domain.Cashflow{}, &domain.NetWorthSnapshot{}))

	now := func() time.Time { return testNow }
	svc := &inssvc.Service{
		Analytics: &anasvc.Service{DB: db, NetWorth: &anasvc.GormNetWorthProvider{DB: db}, Now: now},
		Engine:    inssvc.NewEngine("INR"),
		Cache:     &inssvc.Cache{Rdb: rdb, TTL: time.Minute},
		Now:       now,
	}
	h := &Handlers{Service: svc}

	userID := uuid.New()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": userID.String()})
		return c.Next()
	})
	app.Get("/insights", h.List)
	return app, db, mr, userID
}

func TestList_EmptyForFreshPortfolio(t *testing.T) {
	app, db, _, userID := setupInsightsTest(t)
	last := testNow.AddDate(0, -1, 0)
	require.NoError(t, db.Create(&domain.Asset{
		UserID: userID, Name: "Fresh", PropertyType: domain.PropertyResidential, PropertyStatus: domain.StatusReady,
		PurchasePrice: fp(5_000_000), SystemEstimatedMin: fp(5_000_000), SystemEstimatedMax: fp(6_000_000),
		ValuationLastUpdated: &last,
	}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/insights", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Data     []interface{}          `json:"data"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.Data)
	summary := body.Metadata["summary"].(map[string]interface{})
	assert.Equal(t, 0.0, summary["total"])
}

func TestList_StaleAndConcentratedIsCachedPerUser(t *testing.T) {
	app, db, mr, userID := setupInsightsTest(t)
	require.NoError(t, db.Create(&domain.Asset{
		UserID: userID, Name: "Koregaon Villa", PropertyType: domain.PropertyResidential, PropertyStatus: domain.StatusReady,
		PurchasePrice: fp(9_000_000),
	}).Error)
	// Created "now" by the real clock; backdate so the stale rule applies.
	require.NoError(t, db.Model(&domain.Asset{}).Where("user_id = ?", userID).
		UpdateColumn("created_at", testNow.AddDate(-1, 0, 0)).Error)
	require.NoError(t, db.Create(&domain.NetWorthSnapshot{UserID: userID, Total: 12_000_000, AsOf: testNow}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/insights", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Data []inssvc.Insight `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, inssvc.SeverityCritical, body.Data[0].Severity)
	assert.Equal(t, inssvc.SeverityCritical, body.Data[1].Severity)
	ids := []string{body.Data[0].RuleID, body.Data[1].RuleID}
	assert.ElementsMatch(t, []string{inssvc.RuleHighConcentration, inssvc.RuleStaleValuation}, ids)
	assert.True(t, mr.Exists("insights:user:"+userID.String()))
}
