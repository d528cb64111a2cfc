package valuation

import (
	"estate-backend/internal/domain"
	"estate-backend/internal/pkg/nullable"
)

// ValueSource names which input produced a property's current value.
type ValueSource string

const (
	ValueFromUserOverride ValueSource = "user_override"
	ValueFromSystemRange  ValueSource = "system_estimate"
	ValueFromPurchase     ValueSource = "purchase_price"
)

type valueResolver struct {
	source  ValueSource
	resolve func(a *domain.Asset) *float64
}

// Ordered by trust. The first resolver yielding a positive value wins.
var currentValueChain = []valueResolver{
	{source: ValueFromUserOverride, resolve: func(a *domain.Asset) *float64 {
		return a.UserOverrideValue
	}},
	{source: ValueFromSystemRange, resolve: func(a *domain.Asset) *float64 {
		if a.SystemEstimatedMin == nil || a.SystemEstimatedMax == nil {
			return nil
		}
		return nullable.Float((*a.SystemEstimatedMin + *a.SystemEstimatedMax) / 2)
	}},
	{source: ValueFromPurchase, resolve: func(a *domain.Asset) *float64 {
		return a.PurchasePrice
	}},
}

// CurrentValue resolves the full (not ownership-adjusted) current value of a
// property: user override, then the midpoint of the system range, then the
// purchase price. Returns nil and an empty source when none is usable.
func CurrentValue(a *domain.Asset) (*float64, ValueSource) {
	if a == nil {
		return nil, ""
	}
	for _, r := range currentValueChain {
		if v := r.resolve(a); nullable.Positive(v) {
			return nullable.Float(*v), r.source
		}
	}
	return nil, ""
}
