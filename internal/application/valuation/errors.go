package valuation

import "errors"

var (
	ErrMissingInputs = errors.New("Valuation needs an area or a purchase price")
	ErrNotFound      = errors.New("Property not found")
	ErrInvalidRange  = errors.New("Computed valuation range is invalid")
)
