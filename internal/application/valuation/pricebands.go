package valuation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"estate-backend/internal/domain"

	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// PriceBand is a price-per-unit-area range for a locality.
type PriceBand struct {
	MinPricePerArea float64 `json:"min_price_per_area"`
	MaxPricePerArea float64 `json:"max_price_per_area"`
}

func (b *PriceBand) usable() bool {
	return b != nil && b.MinPricePerArea > 0 && b.MaxPricePerArea > 0
}

// BandQuery identifies the locality being priced.
type BandQuery struct {
	City         string
	PostalArea   string
	PropertyType domain.PropertyType
}

// PriceBandProvider returns the band for a locality, or (nil, nil) when it has
// no data. An error means the lookup itself failed.
type PriceBandProvider interface {
	PriceBand(ctx context.Context, q BandQuery) (*PriceBand, error)
}

// GormPriceBandProvider reads locality_price_bands. A row for the postal area
// wins over the city-wide row.
type GormPriceBandProvider struct {
	DB *gorm.DB
}

func (p *GormPriceBandProvider) PriceBand(ctx context.Context, q BandQuery) (*PriceBand, error) {
	areas := []string{""}
	if q.PostalArea != "" {
		areas = []string{q.PostalArea, ""}
	}
	for _, area := range areas {
		var row domain.LocalityPriceBand
		err := p.DB.WithContext(ctx).
			Where("LOWER(city) = LOWER(?) AND property_type = ? AND postal_area = ?", q.City, q.PropertyType, area).
			Order("updated_at DESC").
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &PriceBand{MinPricePerArea: row.MinPricePerArea, MaxPricePerArea: row.MaxPricePerArea}, nil
	}
	return nil, nil
}

// A price-band response is a two-number object; anything larger is cut off
// and fails to decode.
const maxPriceBandBody = 64 << 10

// HTTPPriceBandProvider queries an external price-band API:
// GET {BaseURL}/v1/price-bands?city=..&type=..&postal_area=..
// A 404 means no data for the locality.
type HTTPPriceBandProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Limiter *rate.Limiter
}

func (p *HTTPPriceBandProvider) PriceBand(ctx context.Context, q BandQuery) (*PriceBand, error) {
	if p.BaseURL == "" {
		return nil, fmt.Errorf("price bands: PRICE_BAND_URL is not set")
	}
	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("price bands: rate limit: %w", err)
		}
	}
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	params := url.Values{}
	params.Set("city", q.City)
	params.Set("type", string(q.PropertyType))
	if q.PostalArea != "" {
		params.Set("postal_area", q.PostalArea)
	}
	endpoint := strings.TrimRight(p.BaseURL, "/") + "/v1/price-bands?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if p.APIKey != "" {
		req.Header.Set("X-API-Key", p.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price bands request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPriceBandBody))
	if err != nil {
		return nil, fmt.Errorf("price bands read: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("price bands error: status %d body: %s", resp.StatusCode, string(body))
	}

	var band PriceBand
	if err := json.Unmarshal(body, &band); err != nil {
		return nil, fmt.Errorf("price bands decode: %w", err)
	}
	if !band.usable() {
		return nil, nil
	}
	return &band, nil
}

// FallbackPriceBands asks each provider in turn and returns the first band.
// When nobody has a band, lookup errors are returned joined so the caller can
// degrade; plain "no data" answers stay (nil, nil).
type FallbackPriceBands []PriceBandProvider

func (f FallbackPriceBands) PriceBand(ctx context.Context, q BandQuery) (*PriceBand, error) {
	var errs []error
	for _, p := range f {
		band, err := p.PriceBand(ctx, q)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if band.usable() {
			return band, nil
		}
	}
	return nil, errors.Join(errs...)
}
