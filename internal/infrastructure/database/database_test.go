package database

import (
	"testing"

	"estate-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	db, err := Open("sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, Ping(db))

	for _, table := range []string{
		"real_estate_assets", "real_estate_loans", "real_estate_cashflows",
		"locality_price_bands", "net_worth_snapshots", "valuation_runs",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	a := &domain.Asset{Name: "Baner 2BHK", PropertyType: domain.PropertyResidential, PropertyStatus: domain.StatusReady}
	require.NoError(t, db.Create(a).Error)
	var n int64
	require.NoError(t, db.Model(&domain.Asset{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
