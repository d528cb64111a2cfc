package analytics

import (
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

func ptrTime(t time.Time) *time.Time { return &t }

// scenarioAsset is the worked example: 75% share of a rented flat with a loan.
func scenarioAsset() *domain.Asset {
	return &domain.Asset{
		ID:                  uuid.New(),
		Name:                "Baner 2BHK",
		PropertyType:        domain.PropertyResidential,
		PropertyStatus:      domain.StatusReady,
		PurchasePrice:       f(7_000_000),
		PurchaseDate:        ptrTime(testNow.AddDate(-5, 0, 0)),
		OwnershipPercentage: f(75),
		SystemEstimatedMin:  f(8_000_000),
		SystemEstimatedMax:  f(9_000_000),
		Loan: &domain.Loan{
			LoanAmount:         5_000_000,
			OutstandingBalance: 4_000_000,
			EMI:                45_000,
		},
		Cashflow: &domain.Cashflow{
			RentalStatus:         domain.RentalRented,
			MonthlyRent:          f(50_000),
			MaintenanceMonthly:   f(5_000),
			PropertyTaxAnnual:    f(30_000),
			OtherExpensesMonthly: f(2_000),
		},
	}
}

func setupAnalyticsDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Asset{}, &domain.Loan{}, &domain.Cashflow{}, &domain.NetWorthSnapshot{}))
	return db
}
