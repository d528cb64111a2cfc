package analytics

import (
	"estate-backend/internal/pkg/nullable"

	"github.com/google/uuid"
)

// PropertyConcentration is one property's share of the real-estate total.
type PropertyConcentration struct {
	PropertyID uuid.UUID `json:"propertyId"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	Percent    float64   `json:"percent"`
}

// IncomeBucket groups properties by whether they earn rent.
type IncomeBucket struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// PortfolioSummary aggregates the per-property analytics of one user.
type PortfolioSummary struct {
	PropertyCount               int                     `json:"propertyCount"`
	TotalCurrentValue           float64                 `json:"totalCurrentValue"`
	TotalInvestedValue          float64                 `json:"totalInvestedValue"`
	TotalOutstandingLoanBalance float64                 `json:"totalOutstandingLoanBalance"`
	NetRealEstateValue          float64                 `json:"netRealEstateValue"`
	TotalNetWorth               *float64                `json:"totalNetWorth"`
	RealEstateAllocationPercent float64                 `json:"realEstateAllocationPercent"`
	Concentration               []PropertyConcentration `json:"concentration"`
	IncomeGenerating            IncomeBucket            `json:"incomeGenerating"`
	NonIncome                   IncomeBucket            `json:"nonIncome"`
	TotalRentalIncomeAnnual     float64                 `json:"totalRentalIncomeAnnual"`
	TotalRentalIncomeMonthly    float64                 `json:"totalRentalIncomeMonthly"`
	TotalEMIMonthly             float64                 `json:"totalEmiMonthly"`
	TotalExpensesMonthly        float64                 `json:"totalExpensesMonthly"`
	NetCashFlowMonthly          float64                 `json:"netCashFlowMonthly"`
}

// Aggregate sums per-property analytics into a portfolio view. totalNetWorth
// is the user's net worth across all asset classes; nil or zero yields a zero
// allocation.
func Aggregate(props []PropertyAnalytics, totalNetWorth *float64) PortfolioSummary {
	s := PortfolioSummary{
		PropertyCount: len(props),
		TotalNetWorth: totalNetWorth,
		Concentration: make([]PropertyConcentration, 0, len(props)),
	}

	var annualExpenses float64
	for _, p := range props {
		value := nullable.Or(p.CurrentEstimatedValue, 0)
		s.TotalCurrentValue += value
		s.TotalInvestedValue += nullable.Or(p.InvestedValue, 0)
		s.TotalOutstandingLoanBalance += nullable.Or(p.OutstandingLoanBalance, 0)
		s.TotalEMIMonthly += nullable.Or(p.EMI, 0)
		annualExpenses += nullable.Or(p.AnnualExpenses, 0)

		if p.IncomeGenerating {
			s.IncomeGenerating.Count++
			s.IncomeGenerating.Value += value
			s.TotalRentalIncomeAnnual += nullable.Or(p.AnnualRentalIncome, 0)
		} else {
			s.NonIncome.Count++
			s.NonIncome.Value += value
		}
	}

	for _, p := range props {
		value := nullable.Or(p.CurrentEstimatedValue, 0)
		s.Concentration = append(s.Concentration, PropertyConcentration{
			PropertyID: p.PropertyID,
			Name:       p.Name,
			Value:      value,
			Percent:    percentOf(value, s.TotalCurrentValue),
		})
	}

	s.NetRealEstateValue = s.TotalCurrentValue - s.TotalOutstandingLoanBalance
	if totalNetWorth != nil {
		s.RealEstateAllocationPercent = percentOf(s.NetRealEstateValue, *totalNetWorth)
	}

	s.TotalRentalIncomeMonthly = s.TotalRentalIncomeAnnual / 12
	s.TotalExpensesMonthly = annualExpenses / 12
	s.NetCashFlowMonthly = s.TotalRentalIncomeMonthly - s.TotalEMIMonthly - s.TotalExpensesMonthly

	s.TotalCurrentValue = nullable.Round(s.TotalCurrentValue, 2)
	s.TotalInvestedValue = nullable.Round(s.TotalInvestedValue, 2)
	s.TotalOutstandingLoanBalance = nullable.Round(s.TotalOutstandingLoanBalance, 2)
	s.NetRealEstateValue = nullable.Round(s.NetRealEstateValue, 2)
	s.TotalRentalIncomeMonthly = nullable.Round(s.TotalRentalIncomeMonthly, 2)
	s.TotalExpensesMonthly = nullable.Round(s.TotalExpensesMonthly, 2)
	s.NetCashFlowMonthly = nullable.Round(s.NetCashFlowMonthly, 2)
	return s
}

// percentOf returns part/total*100 rounded to two decimals, or 0 for an
// empty total.
func percentOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return nullable.Round(part/total*100, 2)
}
