package analytics

import (
	"testing"
	"time"

	"estate-backend/internal/application/valuation"
	"estate-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProperty_WorkedExample(t *testing.T) {
	got := ComputeProperty(scenarioAsset(), testNow)

	require.NotNil(t, got.CurrentEstimatedValue)
	assert.Equal(t, 6_375_000.0, *got.CurrentEstimatedValue)
	assert.Equal(t, valuation.ValueFromSystemRange, got.ValueSource)

	require.NotNil(t, got.InvestedValue)
	assert.Equal(t, 5_250_000.0, *got.InvestedValue)
	require.NotNil(t, got.UnrealizedGainLoss)
	assert.Equal(t, 1_125_000.0, *got.UnrealizedGainLoss)
	require.NotNil(t, got.UnrealizedGainLossPercent)
	assert.InDelta(t, 21.43, *got.UnrealizedGainLossPercent, 0.01)

	require.NotNil(t, got.GrossRentalYield)
	assert.InDelta(t, 7.06, *got.GrossRentalYield, 0.01)
	require.NotNil(t, got.NetRentalYield)
	assert.InDelta(t, 5.72, *got.NetRentalYield, 0.01)

	require.NotNil(t, got.EMIVsRentGap)
	assert.Equal(t, -7_500.0, *got.EMIVsRentGap)
	require.NotNil(t, got.EMI)
	assert.Equal(t, 45_000.0, *got.EMI, "EMI is never ownership-adjusted")
	require.NotNil(t, got.OutstandingLoanBalance)
	assert.Equal(t, 3_000_000.0, *got.OutstandingLoanBalance)

	require.NotNil(t, got.HoldingPeriodYears)
	assert.Equal(t, 5.0, *got.HoldingPeriodYears)

	// ((6375000 - 3000000) / 5250000) ^ (1/5) - 1
	require.NotNil(t, got.LoanAdjustedXIRR)
	assert.InDelta(t, -8.46, *got.LoanAdjustedXIRR, 0.05)
	assert.True(t, got.IncomeGenerating)
}

func TestComputeProperty_UnderConstructionWithLoanNoCashflow(t *testing.T) {
	a := scenarioAsset()
	a.PropertyStatus = domain.StatusUnderConstruction
	a.Cashflow = nil

	got := ComputeProperty(a, testNow)
	assert.Nil(t, got.GrossRentalYield)
	assert.Nil(t, got.NetRentalYield)
	require.NotNil(t, got.EMIVsRentGap)
	assert.Equal(t, -45_000.0, *got.EMIVsRentGap)
	require.NotNil(t, got.LoanAdjustedXIRR, "capital flows alone are enough")
	assert.InDelta(t, -8.46, *got.LoanAdjustedXIRR, 0.05)
	assert.False(t, got.IncomeGenerating)
}

func TestComputeProperty_UnderConstructionIgnoresRecordedRent(t *testing.T) {
	a := scenarioAsset()
	a.PropertyStatus = domain.StatusUnderConstruction

	got := ComputeProperty(a, testNow)
	assert.Nil(t, got.GrossRentalYield)
	assert.Nil(t, got.MonthlyRent)
	assert.Equal(t, -45_000.0, *got.EMIVsRentGap)
}

func TestComputeProperty_OverrideWinsOverSystemRange(t *testing.T) {
	a := scenarioAsset()
	a.UserOverrideValue = f(10_000_000)
	got := ComputeProperty(a, testNow)
	assert.Equal(t, 7_500_000.0, *got.CurrentEstimatedValue)
	assert.Equal(t, valuation.ValueFromUserOverride, got.ValueSource)
	assert.True(t, got.HasUserOverride)

	a.SystemEstimatedMin, a.SystemEstimatedMax = nil, nil
	got = ComputeProperty(a, testNow)
	assert.Equal(t, 7_500_000.0, *got.CurrentEstimatedValue)
}

func TestComputeProperty_FallsBackToPurchasePrice(t *testing.T) {
	a := scenarioAsset()
	a.SystemEstimatedMax = nil
	got := ComputeProperty(a, testNow)
	assert.Equal(t, 5_250_000.0, *got.CurrentEstimatedValue)
	assert.Equal(t, valuation.ValueFromPurchase, got.ValueSource)
	assert.Equal(t, 0.0, *got.UnrealizedGainLoss)
}

func TestComputeProperty_SparseDataYieldsNils(t *testing.T) {
	a := &domain.Asset{PropertyType: domain.PropertyLand, PropertyStatus: domain.StatusReady}
	got := ComputeProperty(a, testNow)
	assert.Nil(t, got.CurrentEstimatedValue)
	assert.Nil(t, got.UnrealizedGainLoss)
	assert.Nil(t, got.UnrealizedGainLossPercent)
	assert.Nil(t, got.GrossRentalYield)
	assert.Nil(t, got.EMIVsRentGap)
	assert.Nil(t, got.HoldingPeriodYears)
	assert.Nil(t, got.LoanAdjustedXIRR)
	assert.Equal(t, 100.0, got.OwnershipPercentage)
}

func TestComputeProperty_NotRentedHasNoYieldOrGap(t *testing.T) {
	for _, status := range []domain.RentalStatus{domain.RentalSelfOccupied, domain.RentalVacant} {
		a := scenarioAsset()
		a.Cashflow.RentalStatus = status
		a.Cashflow.MonthlyRent = nil
		got := ComputeProperty(a, testNow)
		assert.Nil(t, got.GrossRentalYield, status)
		assert.Nil(t, got.NetRentalYield, status)
		assert.Nil(t, got.EMIVsRentGap, status)
		require.NotNil(t, got.AnnualExpenses)
		assert.Equal(t, 85_500.0, *got.AnnualExpenses)
	}
}

func TestComputeProperty_NoLoanMeansNoGapAndFullEquity(t *testing.T) {
	a := scenarioAsset()
	a.Loan = nil
	got := ComputeProperty(a, testNow)
	assert.Nil(t, got.EMIVsRentGap)
	assert.Nil(t, got.EMI)
	require.NotNil(t, got.LoanAdjustedXIRR)
	assert.Greater(t, *got.LoanAdjustedXIRR, 0.0)
}

func TestHoldingYears(t *testing.T) {
	assert.Nil(t, holdingYears(nil, testNow))
	future := testNow.Add(48 * time.Hour)
	assert.Equal(t, 0.0, *holdingYears(&future, testNow))
	twoYears := testNow.Add(-time.Duration(2*daysPerYear*24) * time.Hour)
	assert.InDelta(t, 2.0, *holdingYears(&twoYears, testNow), 1e-9)
}

func TestLoanAdjustedXIRR_CompoundGrowth(t *testing.T) {
	a := scenarioAsset()
	a.Loan = nil
	a.OwnershipPercentage = nil
	got := loanAdjustedXIRR(a, f(121), f(100), f(2))
	require.NotNil(t, got)
	assert.InDelta(t, 10.0, *got, 1e-9)
}

func TestLoanAdjustedXIRR_Guards(t *testing.T) {
	a := scenarioAsset()
	assert.Nil(t, loanAdjustedXIRR(a, f(100), nil, f(2)), "no purchase price")
	assert.Nil(t, loanAdjustedXIRR(a, f(100), f(100), nil), "no purchase date")
	assert.Nil(t, loanAdjustedXIRR(a, f(100), f(100), f(20/daysPerYear)), "under 30 days")

	recent := scenarioAsset()
	recent.PurchaseDate = ptrTime(testNow.AddDate(0, 0, -10))
	assert.Nil(t, ComputeProperty(recent, testNow).LoanAdjustedXIRR)
}
