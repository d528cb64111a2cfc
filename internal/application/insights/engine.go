package insights

import (
	"sort"
	"time"

	"estate-backend/internal/application/analytics"
)

// Input is the analytics snapshot the rules read.
type Input struct {
	Properties []analytics.PropertyAnalytics
	Summary    analytics.PortfolioSummary
	Now        time.Time
}

// Engine evaluates a rule set. It holds no state between calls.
type Engine struct {
	Rules    []Rule
	Currency string
}

func NewEngine(currency string) *Engine {
	if currency == "" {
		currency = "INR"
	}
	return &Engine{Rules: DefaultRules(), Currency: currency}
}

// Evaluate runs every rule and returns the triggered insights, most severe
// first.
func (e *Engine) Evaluate(in Input) []Insight {
	fm := formatter{currency: e.Currency}
	out := make([]Insight, 0)
	for _, rule := range e.Rules {
		if rule.Scope == ScopePortfolio {
			if insight, ok := e.apply(rule, &in, nil, fm); ok {
				out = append(out, insight)
			}
			continue
		}
		for i := range in.Properties {
			if insight, ok := e.apply(rule, &in, &in.Properties[i], fm); ok {
				out = append(out, insight)
			}
		}
	}
	sortInsights(out)
	return out
}

func (e *Engine) apply(rule Rule, in *Input, p *analytics.PropertyAnalytics, fm formatter) (Insight, bool) {
	f, ok := rule.Check(in, p)
	if !ok {
		return Insight{}, false
	}
	sev, ok := severityFor(rule.Thresholds, f)
	if !ok {
		return Insight{}, false
	}
	if rule.Adjust != nil {
		sev = rule.Adjust(sev, p)
	}
	title, explanation, action := rule.Render(fm, p, f)

	insight := Insight{
		RuleID:          rule.ID,
		Severity:        sev,
		Scope:           rule.Scope,
		Title:           title,
		Explanation:     Soften(explanation),
		SuggestedAction: Soften(action),
		Metadata:        f.meta,
	}
	if insight.Metadata == nil {
		insight.Metadata = map[string]interface{}{}
	}
	if p != nil {
		id := p.PropertyID
		insight.PropertyID = &id
		insight.PropertyValue = p.CurrentEstimatedValue
	}
	return insight, true
}

func severityFor(thresholds []threshold, f finding) (Severity, bool) {
	for _, t := range thresholds {
		if t.match(f) {
			return t.severity, true
		}
	}
	return "", false
}

// sortInsights orders by severity, then portfolio before property scope, then
// property value descending.
func sortInsights(list []Insight) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Severity.rank() != b.Severity.rank() {
			return a.Severity.rank() > b.Severity.rank()
		}
		if (a.Scope == ScopePortfolio) != (b.Scope == ScopePortfolio) {
			return a.Scope == ScopePortfolio
		}
		av, bv := valueOf(a), valueOf(b)
		if av != bv {
			return av > bv
		}
		return a.RuleID < b.RuleID
	})
}

func valueOf(in Insight) float64 {
	if in.PropertyValue == nil {
		return 0
	}
	return *in.PropertyValue
}
