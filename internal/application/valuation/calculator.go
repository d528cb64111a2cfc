// Package valuation estimates property values from sparse inputs and writes
// the system estimate back to the store.
package valuation

import (
	"context"
	"fmt"
	"math"
	"time"

	"estate-backend/internal/domain"
	"estate-backend/internal/pkg/nullable"

	"github.com/rs/zerolog/log"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type Source string

const (
	SourceLocalityData          Source = "locality_data"
	SourcePurchasePriceBaseline Source = "purchase_price_baseline"
	SourcePurchasePriceOnly     Source = "purchase_price_only"
)

const (
	// Listed prices run ahead of transacted ones.
	conservativeMinFactor = 0.90
	conservativeMaxFactor = 0.95

	baselineAnnualGrowth = 0.05
	baselineSpread       = 0.10
	purchaseOnlySpread   = 0.05

	defaultBandTimeout = 3 * time.Second
)

// Result is a valuation estimate. It is never persisted as its own row.
type Result struct {
	SystemEstimatedMin float64    `json:"systemEstimatedMin"`
	SystemEstimatedMax float64    `json:"systemEstimatedMax"`
	Confidence         Confidence `json:"confidence"`
	Source             Source     `json:"source"`
	LastUpdated        time.Time  `json:"lastUpdated"`
}

// Calculator looks up the locality price band and runs Estimate.
type Calculator struct {
	Bands   PriceBandProvider
	Timeout time.Duration
}

// Calculate values a property. A failing or slow price-band lookup degrades to
// the purchase-price-only path instead of failing the valuation.
func (c *Calculator) Calculate(ctx context.Context, a *domain.Asset, now time.Time) (*Result, error) {
	band, bandErr := c.lookupBand(ctx, a)
	if bandErr != nil {
		log.Warn().Err(bandErr).Str("property_id", a.ID.String()).Str("city", a.City).
			Msg("valuation: price band lookup failed, using purchase price only")
	}
	return Estimate(a, band, bandErr, now)
}

func (c *Calculator) lookupBand(ctx context.Context, a *domain.Asset) (*PriceBand, error) {
	if c == nil || c.Bands == nil || a.Area() == nil || a.City == "" {
		return nil, nil
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultBandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Bands.PriceBand(ctx, BandQuery{
		City:         a.City,
		PostalArea:   a.PostalArea,
		PropertyType: a.PropertyType,
	})
}

// Estimate is the pure valuation step. band is the locality price band (nil
// when there is no data) and bandErr the lookup failure, if any.
func Estimate(a *domain.Asset, band *PriceBand, bandErr error, now time.Time) (*Result, error) {
	area := a.Area()
	var price *float64
	if nullable.Positive(a.PurchasePrice) {
		price = a.PurchasePrice
	}
	if area == nil && price == nil {
		return nil, ErrMissingInputs
	}

	var low, high float64
	var res Result
	switch {
	case bandErr == nil && area != nil && band.usable():
		low, high = *area*band.MinPricePerArea, *area*band.MaxPricePerArea
		res.Confidence, res.Source = ConfidenceHigh, SourceLocalityData
	case bandErr == nil && area != nil && price != nil:
		base := baseline(*price, a.PurchaseDate, now)
		low, high = base*(1-baselineSpread), base*(1+baselineSpread)
		res.Confidence, res.Source = ConfidenceMedium, SourcePurchasePriceBaseline
	case price != nil:
		low, high = *price*(1-purchaseOnlySpread), *price*(1+purchaseOnlySpread)
		res.Confidence, res.Source = ConfidenceLow, SourcePurchasePriceOnly
	default:
		return nil, fmt.Errorf("%w: no locality data for %s", ErrMissingInputs, a.City)
	}

	low, high, err := conservativeRange(low*conservativeMinFactor, high*conservativeMaxFactor)
	if err != nil {
		return nil, err
	}
	res.SystemEstimatedMin, res.SystemEstimatedMax = low, high
	res.LastUpdated = now
	return &res, nil
}

// baseline grows the purchase price over completed years of holding, so the
// estimate only moves on purchase anniversaries.
func baseline(price float64, purchased *time.Time, now time.Time) float64 {
	if purchased == nil || !now.After(*purchased) {
		return price
	}
	years := math.Floor(now.Sub(*purchased).Hours() / 24 / 365.25)
	return price * math.Pow(1+baselineAnnualGrowth, years)
}

func conservativeRange(low, high float64) (float64, float64, error) {
	for _, v := range []float64{low, high} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0, 0, fmt.Errorf("%w: %v..%v", ErrInvalidRange, low, high)
		}
	}
	if low > high {
		low, high = high, low
	}
	return nullable.Round(low, 0), nullable.Round(high, 0), nil
}
