package analytics

import (
	"math"
	"time"

	"estate-backend/internal/application/valuation"
	"estate-backend/internal/domain"
	"estate-backend/internal/pkg/nullable"

	"github.com/google/uuid"
)

const (
	daysPerYear        = 365.25
	minHoldingDaysXIRR = 30
)

// PropertyAnalytics is the per-property metric set. Monetary values are
// ownership-adjusted except EMI. Nil fields mean "not available".
type PropertyAnalytics struct {
	PropertyID          uuid.UUID             `json:"propertyId"`
	Name                string                `json:"name"`
	PropertyType        domain.PropertyType   `json:"propertyType"`
	PropertyStatus      domain.PropertyStatus `json:"propertyStatus"`
	RentalStatus        domain.RentalStatus   `json:"rentalStatus,omitempty"`
	OwnershipPercentage float64               `json:"ownershipPercentage"`

	CurrentEstimatedValue     *float64              `json:"currentEstimatedValue"`
	ValueSource               valuation.ValueSource `json:"valueSource,omitempty"`
	InvestedValue             *float64              `json:"investedValue"`
	UnrealizedGainLoss        *float64              `json:"unrealizedGainLoss"`
	UnrealizedGainLossPercent *float64              `json:"unrealizedGainLossPercent"`

	MonthlyRent        *float64 `json:"monthlyRent"`
	AnnualRentalIncome *float64 `json:"annualRentalIncome"`
	AnnualExpenses     *float64 `json:"annualExpenses"`
	GrossRentalYield   *float64 `json:"grossRentalYield"`
	NetRentalYield     *float64 `json:"netRentalYield"`

	HasLoan                bool     `json:"hasLoan"`
	EMI                    *float64 `json:"emi"`
	OutstandingLoanBalance *float64 `json:"outstandingLoanBalance"`
	EMIVsRentGap           *float64 `json:"emiVsRentGap"`

	HoldingPeriodYears *float64 `json:"holdingPeriodYears"`
	LoanAdjustedXIRR   *float64 `json:"loanAdjustedXirr"`

	IncomeGenerating     bool       `json:"incomeGenerating"`
	HasUserOverride      bool       `json:"hasUserOverride"`
	ValuationLastUpdated *time.Time `json:"valuationLastUpdated"`
	CreatedAt            time.Time  `json:"createdAt"`
	// When the current EMI and rent took effect (the later of the two change
	// stamps). Balance and expense edits do not move it.
	FiguresSince *time.Time `json:"figuresSince,omitempty"`
}

// ComputeProperty derives every per-property metric from an asset snapshot
// with its Loan and Cashflow preloaded.
func ComputeProperty(a *domain.Asset, now time.Time) PropertyAnalytics {
	own := a.OwnershipPercentage
	out := PropertyAnalytics{
		PropertyID:           a.ID,
		Name:                 a.Name,
		PropertyType:         a.PropertyType,
		PropertyStatus:       a.PropertyStatus,
		OwnershipPercentage:  nullable.Or(own, fullOwnership),
		HasUserOverride:      a.UserOverrideValue != nil,
		ValuationLastUpdated: a.ValuationLastUpdated,
		CreatedAt:            a.CreatedAt,
		FiguresSince:         figuresSince(a),
	}
	if a.Cashflow != nil {
		out.RentalStatus = a.Cashflow.RentalStatus
	}

	value, source := valuation.CurrentValue(a)
	current := ApplyOwnership(value, own)
	out.CurrentEstimatedValue = nullable.Round2(current)
	out.ValueSource = source

	invested := ApplyOwnership(a.PurchasePrice, own)
	out.InvestedValue = nullable.Round2(invested)
	gain, gainPct := unrealizedGain(current, invested)
	out.UnrealizedGainLoss = nullable.Round2(gain)
	out.UnrealizedGainLossPercent = nullable.Round2(gainPct)

	rent := rentIfEarning(a)
	adjRent := ApplyOwnership(rent, own)
	out.MonthlyRent = nullable.Round2(adjRent)
	out.AnnualRentalIncome = nullable.Round2(nullable.Map(adjRent, func(r float64) float64 { return r * 12 }))
	expenses := ApplyOwnership(annualExpenses(a.Cashflow), own)
	out.AnnualExpenses = nullable.Round2(expenses)
	out.GrossRentalYield = nullable.Round2(grossYield(a, adjRent, current))
	out.NetRentalYield = nullable.Round2(netYield(a, adjRent, expenses, current))

	if a.Loan != nil {
		out.HasLoan = true
		out.EMI = nullable.Float(a.Loan.EMI)
		out.OutstandingLoanBalance = nullable.Round2(ApplyOwnership(nullable.Float(a.Loan.OutstandingBalance), own))
	}
	out.EMIVsRentGap = nullable.Round2(emiVsRentGap(a, adjRent))

	years := holdingYears(a.PurchaseDate, now)
	out.HoldingPeriodYears = nullable.Map(years, func(y float64) float64 { return nullable.Round(y, 2) })
	out.LoanAdjustedXIRR = nullable.Round2(loanAdjustedXIRR(a, current, invested, years))

	out.IncomeGenerating = IsIncomeGenerating(a)
	return out
}

// IsIncomeGenerating is true only for ready, rented properties.
func IsIncomeGenerating(a *domain.Asset) bool {
	return a.PropertyStatus == domain.StatusReady && a.Cashflow.IsRented()
}

func unrealizedGain(current, invested *float64) (*float64, *float64) {
	if invested == nil || current == nil {
		return nil, nil
	}
	gain := *current - *invested
	if *invested <= 0 {
		return &gain, nil
	}
	pct := gain / *invested * 100
	return &gain, &pct
}

// rentIfEarning returns the full monthly rent when the property actually
// earns it: ready, rented and rent recorded.
func rentIfEarning(a *domain.Asset) *float64 {
	if !IsIncomeGenerating(a) || a.Cashflow.MonthlyRent == nil {
		return nil
	}
	return a.Cashflow.MonthlyRent
}

func annualExpenses(c *domain.Cashflow) *float64 {
	if c == nil {
		return nil
	}
	if c.MaintenanceMonthly == nil && c.PropertyTaxAnnual == nil && c.OtherExpensesMonthly == nil {
		return nil
	}
	total := nullable.Or(c.MaintenanceMonthly, 0)*12 +
		nullable.Or(c.PropertyTaxAnnual, 0) +
		nullable.Or(c.OtherExpensesMonthly, 0)*12
	return &total
}

func grossYield(a *domain.Asset, adjRent, current *float64) *float64 {
	if !yieldApplies(a, adjRent, current) {
		return nil
	}
	return nullable.Float(*adjRent * 12 / *current * 100)
}

func netYield(a *domain.Asset, adjRent, expenses, current *float64) *float64 {
	if !yieldApplies(a, adjRent, current) {
		return nil
	}
	net := *adjRent*12 - nullable.Or(expenses, 0)
	return nullable.Float(net / *current * 100)
}

func yieldApplies(a *domain.Asset, adjRent, current *float64) bool {
	if a.PropertyStatus == domain.StatusUnderConstruction {
		return false
	}
	return adjRent != nil && nullable.Positive(current)
}

// emiVsRentGap is positive when rent covers the EMI. An under-construction
// property earns nothing, so its gap is the full EMI outflow.
func emiVsRentGap(a *domain.Asset, adjRent *float64) *float64 {
	if a.Loan == nil {
		return nil
	}
	if a.PropertyStatus == domain.StatusUnderConstruction {
		return nullable.Float(-a.Loan.EMI)
	}
	if adjRent == nil {
		return nil
	}
	return nullable.Float(*adjRent - a.Loan.EMI)
}

func holdingYears(purchased *time.Time, now time.Time) *float64 {
	if purchased == nil {
		return nil
	}
	days := now.Sub(*purchased).Hours() / 24
	if days < 0 {
		return nullable.Float(0)
	}
	return nullable.Float(days / daysPerYear)
}

// loanAdjustedXIRR is a two-point compound growth rate from the invested
// amount to today's equity (value less outstanding loan). Rent never enters.
func loanAdjustedXIRR(a *domain.Asset, current, invested, years *float64) *float64 {
	if !nullable.Positive(invested) || years == nil || current == nil {
		return nil
	}
	if *years*daysPerYear < minHoldingDaysXIRR {
		return nil
	}
	equity := *current
	if a.Loan != nil {
		equity -= *ApplyOwnership(nullable.Float(a.Loan.OutstandingBalance), a.OwnershipPercentage)
	}
	ratio := equity / *invested
	if ratio < 0 {
		return nil
	}
	rate := (math.Pow(ratio, 1 / *years) - 1) * 100
	return nullable.Finite(&rate)
}

func figuresSince(a *domain.Asset) *time.Time {
	var latest time.Time
	consider := func(changed *time.Time, created time.Time) {
		at := created
		if changed != nil {
			at = *changed
		}
		if at.After(latest) {
			latest = at
		}
	}
	if a.Loan != nil {
		consider(a.Loan.EMIChangedAt, a.Loan.CreatedAt)
	}
	if a.Cashflow != nil {
		consider(a.Cashflow.RentChangedAt, a.Cashflow.CreatedAt)
	}
	if latest.IsZero() {
		return nil
	}
	return &latest
}
