package insights

import (
	"fmt"
	"math"
	"time"

	"estate-backend/internal/application/analytics"
	"estate-backend/internal/pkg/nullable"
)

// finding is what a rule measured when it triggered.
type finding struct {
	metric float64
	months int
	since  *time.Time
	now    time.Time
	meta   map[string]interface{}
}

// threshold maps a finding to a severity. A rule's thresholds are tried in
// order and the first match wins.
type threshold struct {
	severity Severity
	match    func(f finding) bool
}

func always(finding) bool { return true }

// Rule is one declarative insight rule. Property-scoped rules run once per
// property; portfolio-scoped rules run once with a nil property.
type Rule struct {
	ID         string
	Scope      Scope
	Check      func(in *Input, p *analytics.PropertyAnalytics) (finding, bool)
	Thresholds []threshold
	// Adjust may move the severity after thresholds, e.g. for trusted inputs.
	Adjust func(sev Severity, p *analytics.PropertyAnalytics) Severity
	Render func(fm formatter, p *analytics.PropertyAnalytics, f finding) (title, explanation, action string)
}

const (
	RuleEMIExceedsRent    = "emi_exceeds_rent"
	RuleLowRentalYield    = "low_rental_yield"
	RuleHighConcentration = "high_concentration"
	RuleStaleValuation    = "stale_valuation"
)

// DefaultRules is the built-in rule set.
func DefaultRules() []Rule {
	return []Rule{
		emiExceedsRentRule(),
		lowRentalYieldRule(),
		highConcentrationRule(),
		staleValuationRule(),
	}
}

func emiExceedsRentRule() Rule {
	return Rule{
		ID:    RuleEMIExceedsRent,
		Scope: ScopeProperty,
		Check: func(in *Input, p *analytics.PropertyAnalytics) (finding, bool) {
			if !p.HasLoan || p.EMI == nil || !p.IncomeGenerating || p.MonthlyRent == nil || *p.MonthlyRent <= 0 {
				return finding{}, false
			}
			rent, emi := *p.MonthlyRent, *p.EMI
			if rent >= emi || p.FiguresSince == nil {
				return finding{}, false
			}
			months := monthsSince(*p.FiguresSince, in.Now)
			if months < 3 {
				return finding{}, false
			}
			gapPct := (emi - rent) / rent * 100
			return finding{
				metric: gapPct,
				months: months,
				meta: map[string]interface{}{
					"monthlyRent":      rent,
					"emi":              emi,
					"gap":              emi - rent,
					"gapPercentOfRent": nullable.Round(gapPct, 2),
					"monthsPersisted":  months,
				},
			}, true
		},
		Thresholds: []threshold{
			{SeverityCritical, func(f finding) bool { return f.metric > 20 && f.months >= 6 }},
			{SeverityWarning, func(f finding) bool { return f.metric > 10 && f.months >= 3 }},
			{SeverityInfo, always},
		},
		Render: func(fm formatter, p *analytics.PropertyAnalytics, f finding) (string, string, string) {
			rent, emi := f.meta["monthlyRent"].(float64), f.meta["emi"].(float64)
			title := fmt.Sprintf("EMI exceeds rent on %s", p.Name)
			explanation := fmt.Sprintf(
				"Your share of the rent on %s is %s a month against an EMI of %s, a shortfall of %s (%s of rent). "+
					"This gap has held for %d months, so the loan is being serviced partly from other income.",
				p.Name, fm.money(rent), fm.money(emi), fm.money(emi-rent), fm.percent(f.metric), f.months)
			action := "You might review the rent at the next renewal, or discuss prepayment or a longer tenure with your lender."
			return title, explanation, action
		},
	}
}

func lowRentalYieldRule() Rule {
	return Rule{
		ID:    RuleLowRentalYield,
		Scope: ScopeProperty,
		Check: func(in *Input, p *analytics.PropertyAnalytics) (finding, bool) {
			if p.GrossRentalYield == nil || *p.GrossRentalYield >= 2.5 {
				return finding{}, false
			}
			return finding{
				metric: *p.GrossRentalYield,
				meta: map[string]interface{}{
					"grossRentalYield":   *p.GrossRentalYield,
					"annualRentalIncome": nullable.Or(p.AnnualRentalIncome, 0),
					"currentValue":       nullable.Or(p.CurrentEstimatedValue, 0),
				},
			}, true
		},
		Thresholds: []threshold{
			{SeverityCritical, func(f finding) bool { return f.metric < 1 }},
			{SeverityWarning, func(f finding) bool { return f.metric < 2 }},
			{SeverityInfo, always},
		},
		Render: func(fm formatter, p *analytics.PropertyAnalytics, f finding) (string, string, string) {
			title := fmt.Sprintf("Low rental yield on %s", p.Name)
			explanation := fmt.Sprintf(
				"%s earns %s a year in rent on an estimated value of %s, a gross yield of %s. "+
					"Below 2.50%% the rent covers little of the capital tied up in the property.",
				p.Name, fm.money(nullable.Or(p.AnnualRentalIncome, 0)), fm.money(nullable.Or(p.CurrentEstimatedValue, 0)), fm.percent(f.metric))
			action := "You could compare the rent with similar properties nearby before the next renewal."
			return title, explanation, action
		},
	}
}

func highConcentrationRule() Rule {
	return Rule{
		ID:    RuleHighConcentration,
		Scope: ScopeProperty,
		Check: func(in *Input, p *analytics.PropertyAnalytics) (finding, bool) {
			netWorth := in.Summary.TotalNetWorth
			if netWorth == nil || *netWorth <= 0 || p.CurrentEstimatedValue == nil {
				return finding{}, false
			}
			pct := *p.CurrentEstimatedValue / *netWorth * 100
			if pct <= 35 {
				return finding{}, false
			}
			return finding{
				metric: pct,
				meta: map[string]interface{}{
					"currentValue":      *p.CurrentEstimatedValue,
					"totalNetWorth":     *netWorth,
					"percentOfNetWorth": nullable.Round(pct, 2),
				},
			}, true
		},
		Thresholds: []threshold{
			{SeverityCritical, func(f finding) bool { return f.metric > 60 }},
			{SeverityWarning, func(f finding) bool { return f.metric > 40 }},
			{SeverityInfo, always},
		},
		Render: func(fm formatter, p *analytics.PropertyAnalytics, f finding) (string, string, string) {
			title := fmt.Sprintf("%s is a large share of your net worth", p.Name)
			explanation := fmt.Sprintf(
				"Your share of %s is valued at %s, which is %s of your total net worth of %s. "+
					"Holding more than 35%% in one property ties a large part of your wealth to a single market.",
				p.Name, fm.money(f.meta["currentValue"].(float64)), fm.percent(f.metric), fm.money(f.meta["totalNetWorth"].(float64)))
			action := "It may be worth reviewing whether this concentration still fits your goals."
			return title, explanation, action
		},
	}
}

func staleValuationRule() Rule {
	return Rule{
		ID:    RuleStaleValuation,
		Scope: ScopeProperty,
		Check: func(in *Input, p *analytics.PropertyAnalytics) (finding, bool) {
			if !p.CreatedAt.IsZero() && p.CreatedAt.After(in.Now.AddDate(0, 0, -30)) {
				return finding{}, false
			}
			last := p.ValuationLastUpdated
			if last != nil && !last.Before(in.Now.AddDate(0, -9, 0)) {
				return finding{}, false
			}
			f := finding{since: last, now: in.Now, metric: math.Inf(1), meta: map[string]interface{}{
				"valuationLastUpdated": last,
				"hasUserOverride":      p.HasUserOverride,
			}}
			if last != nil {
				f.months = monthsSince(*last, in.Now)
				f.metric = float64(f.months)
				f.meta["monthsSinceValuation"] = f.months
			}
			return f, true
		},
		Thresholds: []threshold{
			{SeverityCritical, func(f finding) bool { return f.since == nil || f.since.Before(f.now.AddDate(0, -18, 0)) }},
			{SeverityWarning, func(f finding) bool { return f.since.Before(f.now.AddDate(0, -12, 0)) }},
			{SeverityInfo, always},
		},
		Adjust: func(sev Severity, p *analytics.PropertyAnalytics) Severity {
			if p.HasUserOverride {
				return sev.downgrade()
			}
			return sev
		},
		Render: func(fm formatter, p *analytics.PropertyAnalytics, f finding) (string, string, string) {
			title := fmt.Sprintf("Valuation of %s is out of date", p.Name)
			var explanation string
			if f.since == nil {
				explanation = fmt.Sprintf("%s has never had a system valuation, so its value rests on older inputs.", p.Name)
			} else {
				explanation = fmt.Sprintf("The estimate for %s was last refreshed on %s, %d months ago.",
					p.Name, f.since.Format("2 Jan 2006"), f.months)
			}
			explanation += " Prices can move meaningfully over that period."
			if p.HasUserOverride {
				explanation += " You have set your own value for this property, so this is less pressing."
			}
			action := "Consider refreshing the valuation or updating your own estimate."
			return title, explanation, action
		},
	}
}

// monthsSince counts completed calendar months from since to now, in UTC.
func monthsSince(since, now time.Time) int {
	since, now = since.UTC(), now.UTC()
	m := (now.Year()-since.Year())*12 + int(now.Month()-since.Month())
	if now.Day() < since.Day() {
		m--
	}
	if m < 0 {
		return 0
	}
	return m
}
