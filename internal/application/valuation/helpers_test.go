package valuation

import (
	"context"
	"sync"
	"testing"
	"time"

	"estate-backend/internal/domain"
	"estate-backend/internal/pkg/nullable"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func f(v float64) *float64 { return nullable.Float(v) }

type staticBands struct {
	band *PriceBand
	err  error
}

func (s staticBands) PriceBand(ctx context.Context, q BandQuery) (*PriceBand, error) {
	return s.band, s.err
}

type countingCache struct {
	mu    sync.Mutex
	users []uuid.UUID
}

func (c *countingCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, userID)
	return nil
}

func (c *countingCache) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.users)
}

func setupValuationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// Every pooled connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.Asset{}, &domain.Loan{}, &domain.Cashflow{},
		&domain.LocalityPriceBand{}, &domain.ValuationRun{},
	))
	return db
}

func seedAsset(t *testing.T, db *gorm.DB, userID uuid.UUID, mutate func(a *domain.Asset)) *domain.Asset {
	a := &domain.Asset{
		UserID:         userID,
		Name:           "Flat",
		PropertyType:   domain.PropertyResidential,
		PropertyStatus: domain.StatusReady,
		City:           "Pune",
		CarpetArea:     f(1000),
		PurchasePrice:  f(5_000_000),
	}
	if mutate != nil {
		mutate(a)
	}
	require.NoError(t, db.Create(a).Error)
	return a
}
