package insights

import (
	"time"

	"estate-backend/internal/application/analytics"
	"estate-backend/internal/pkg/nullable"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func f(v float64) *float64 { return nullable.Float(v) }

func ago(years, months, days int) *time.Time {
	t := testNow.AddDate(-years, -months, -days)
	return &t
}

// healthyProperty triggers no rule: fresh valuation, decent yield, rent
// above EMI and no net worth to concentrate against.
func healthyProperty(name string, value float64) analytics.PropertyAnalytics {
	return analytics.PropertyAnalytics{
		PropertyID:            uuid.New(),
		Name:                  name,
		CurrentEstimatedValue: f(value),
		MonthlyRent:           f(value * 0.04 / 12),
		AnnualRentalIncome:    f(value * 0.04),
		GrossRentalYield:      f(4),
		IncomeGenerating:      true,
		ValuationLastUpdated:  ago(0, 1, 0),
		CreatedAt:             testNow.AddDate(-2, 0, 0),
	}
}

func rule(id string) Rule {
	for _, r := range DefaultRules() {
		if r.ID == id {
			return r
		}
	}
	panic("unknown rule " + id)
}

// evalOne runs a single rule over one property.
func evalOne(id string, p analytics.PropertyAnalytics, netWorth *float64) []Insight {
	e := &Engine{Rules: []Rule{rule(id)}, Currency: "INR"}
	return e.Evaluate(Input{
		Properties: []analytics.PropertyAnalytics{p},
		Summary:    analytics.PortfolioSummary{TotalNetWorth: netWorth},
		Now:        testNow,
	})
}
