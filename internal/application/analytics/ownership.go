package analytics

import "estate-backend/internal/pkg/nullable"

const fullOwnership = 100.0

// ApplyOwnership scales value by the owner's share. A nil percentage means
// sole ownership. EMI and loan amount must never be passed through here: a
// loan is a property-level obligation.
func ApplyOwnership(value *float64, ownershipPercentage *float64) *float64 {
	if value == nil {
		return nil
	}
	pct := nullable.Or(ownershipPercentage, fullOwnership)
	return nullable.Float(*value * pct / 100)
}
