// Package insights turns real-estate analytics into ranked, explainable alerts.
package insights

import (
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// downgrade lowers severity one level; info stays info.
func (s Severity) downgrade() Severity {
	switch s {
	case SeverityCritical:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

type Scope string

const (
	ScopePortfolio Scope = "portfolio"
	ScopeProperty  Scope = "property"
)

// Insight is one triggered rule. It carries no behaviour and is safe to cache.
type Insight struct {
	RuleID          string                 `json:"ruleId"`
	Severity        Severity               `json:"severity"`
	Scope           Scope                  `json:"scope"`
	Title           string                 `json:"title"`
	Explanation     string                 `json:"explanation"`
	SuggestedAction string                 `json:"suggestedAction"`
	PropertyID      *uuid.UUID             `json:"propertyId,omitempty"`
	PropertyValue   *float64               `json:"propertyValue,omitempty"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// Summary counts insights per severity.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// Report is the insights payload for one user.
type Report struct {
	Insights    []Insight `json:"insights"`
	Summary     Summary   `json:"summary"`
	GeneratedAt time.Time `json:"generatedAt"`
}

func summarize(list []Insight) Summary {
	s := Summary{Total: len(list)}
	for _, in := range list {
		switch in.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityWarning:
			s.Warning++
		default:
			s.Info++
		}
	}
	return s
}

// formatter renders numbers for explanations.
type formatter struct {
	currency string
}

func (f formatter) money(v float64) string {
	return money.NewFromFloat(v, f.currency).Display()
}

func (f formatter) percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
